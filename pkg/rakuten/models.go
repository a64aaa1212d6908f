package rakuten

import "time"

// Event is a transaction confirmation reported by the events API.
type Event struct {
	ETransactionID   string    `mapstructure:"etransaction_id" json:"etransaction_id" yaml:"etransaction_id"`
	AdvertiserID     string    `mapstructure:"advertiser_id" json:"advertiser_id" yaml:"advertiser_id"`
	SID              string    `mapstructure:"sid" json:"sid" yaml:"sid"`
	OrderID          string    `mapstructure:"order_id" json:"order_id" yaml:"order_id"`
	OfferID          string    `mapstructure:"offer_id" json:"offer_id" yaml:"offer_id"`
	SKUNumber        string    `mapstructure:"sku_number" json:"sku_number" yaml:"sku_number"`
	SaleAmount       float64   `mapstructure:"sale_amount" json:"sale_amount" yaml:"sale_amount"`
	Quantity         int       `mapstructure:"quantity" json:"quantity" yaml:"quantity"`
	Commissions      float64   `mapstructure:"commissions" json:"commissions" yaml:"commissions"`
	ProcessDate      time.Time `mapstructure:"-" json:"process_date" yaml:"process_date"`
	TransactionDate  time.Time `mapstructure:"-" json:"transaction_date" yaml:"transaction_date"`
	TransactionType  string    `mapstructure:"transaction_type" json:"transaction_type" yaml:"transaction_type"`
	ProductName      string    `mapstructure:"product_name" json:"product_name" yaml:"product_name"`
	U1               string    `mapstructure:"u1" json:"u1" yaml:"u1"`
	Currency         string    `mapstructure:"currency" json:"currency" yaml:"currency"`
	IsEvent          bool      `mapstructure:"is_event" json:"is_event" yaml:"is_event"`
	CommissionListID string    `mapstructure:"commission_list_id" json:"commission_list_id" yaml:"commission_list_id"`
}

// Advertiser is the canonical advertiser record produced from either search API.
type Advertiser struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Network       int            `json:"network,omitempty" yaml:"network,omitempty"`
	URL           string         `json:"url,omitempty" yaml:"url,omitempty"`
	Description   string         `json:"description,omitempty" yaml:"description,omitempty"`
	Profiles      map[string]any `json:"profiles,omitempty" yaml:"profiles,omitempty"`
	Policies      map[string]any `json:"policies,omitempty" yaml:"policies,omitempty"`
	Features      map[string]any `json:"features,omitempty" yaml:"features,omitempty"`
	Contact       map[string]any `json:"contact,omitempty" yaml:"contact,omitempty"`
	NetworkStatus string         `json:"network_status,omitempty" yaml:"network_status,omitempty"`
}

// Price is an amount with the currency attribute the product feed attaches to it.
type Price struct {
	Amount   float64 `json:"amount" yaml:"amount"`
	Currency string  `json:"currency,omitempty" yaml:"currency,omitempty"`
}

// Category is the product's primary and secondary category path.
type Category struct {
	Primary   string `mapstructure:"primary" json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary string `mapstructure:"secondary" json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

// Description holds the short and long product descriptions.
type Description struct {
	Short string `mapstructure:"short" json:"short,omitempty" yaml:"short,omitempty"`
	Long  string `mapstructure:"long" json:"long,omitempty" yaml:"long,omitempty"`
}

// Product is a product search hit with provider field names normalized.
type Product struct {
	AdvertiserID   string      `json:"advertiser_id" yaml:"advertiser_id"`
	AdvertiserName string      `json:"advertiser_name" yaml:"advertiser_name"`
	LinkID         string      `json:"link_id" yaml:"link_id"`
	CreatedOn      time.Time   `json:"created_on" yaml:"created_on"`
	SKU            string      `json:"sku" yaml:"sku"`
	Name           string      `json:"name" yaml:"name"`
	Category       Category    `json:"category" yaml:"category"`
	Price          Price       `json:"price" yaml:"price"`
	SalePrice      Price       `json:"sale_price" yaml:"sale_price"`
	UPCCode        string      `json:"upccode" yaml:"upccode"`
	Description    Description `json:"description" yaml:"description"`
	Keywords       string      `json:"keywords" yaml:"keywords"`
	LinkURL        string      `json:"link_url" yaml:"link_url"`
	ImageURL       string      `json:"image_url" yaml:"image_url"`
}
