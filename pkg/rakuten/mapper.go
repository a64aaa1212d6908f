package rakuten

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// LegacyAdvertiser is the advertiser shape of the XML advertiser search.
type LegacyAdvertiser struct {
	MID          string `mapstructure:"mid"`
	MerchantName string `mapstructure:"merchantname"`
}

// Canonical renames mid/merchantname onto id/name.
func (l LegacyAdvertiser) Canonical() Advertiser {
	return Advertiser{ID: l.MID, Name: l.MerchantName}
}

type advertiserV2 struct {
	ID            string         `mapstructure:"id"`
	Name          string         `mapstructure:"name"`
	Network       int            `mapstructure:"network"`
	URL           string         `mapstructure:"url"`
	Description   string         `mapstructure:"description"`
	Profiles      map[string]any `mapstructure:"profiles"`
	Policies      map[string]any `mapstructure:"policies"`
	Features      map[string]any `mapstructure:"features"`
	Contact       map[string]any `mapstructure:"contact"`
	NetworkStatus string         `mapstructure:"network_status"`
}

func (v advertiserV2) canonical() Advertiser {
	return Advertiser{
		ID:            v.ID,
		Name:          v.Name,
		Network:       v.Network,
		URL:           v.URL,
		Description:   v.Description,
		Profiles:      v.Profiles,
		Policies:      v.Policies,
		Features:      v.Features,
		Contact:       v.Contact,
		NetworkStatus: v.NetworkStatus,
	}
}

// productPayload carries the provider's lowercase-concatenated field names.
type productPayload struct {
	MID          string      `mapstructure:"mid"`
	MerchantName string      `mapstructure:"merchantname"`
	LinkID       string      `mapstructure:"linkid"`
	SKU          string      `mapstructure:"sku"`
	ProductName  string      `mapstructure:"productname"`
	Category     Category    `mapstructure:"category"`
	Price        Price       `mapstructure:"price"`
	SalePrice    Price       `mapstructure:"saleprice"`
	UPCCode      string      `mapstructure:"upccode"`
	Description  Description `mapstructure:"description"`
	Keywords     string      `mapstructure:"keywords"`
	LinkURL      string      `mapstructure:"linkurl"`
	ImageURL     string      `mapstructure:"imageurl"`
}

// EventFromMap builds an Event from one element of the events API response.
func EventFromMap(m map[string]any) (Event, error) {
	var evt Event
	if err := decodeInto(m, &evt); err != nil {
		return Event{}, &MappingError{Record: "event", Err: err}
	}

	var err error
	if evt.ProcessDate, err = requiredEventDate(m, "process_date"); err != nil {
		return Event{}, err
	}
	if evt.TransactionDate, err = requiredEventDate(m, "transaction_date"); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// EventsFromPayload maps the events API response, a JSON array of event objects.
func EventsFromPayload(data any) ([]Event, error) {
	records, err := asRecords(data)
	if err != nil {
		return nil, &MappingError{Record: "event", Err: err}
	}
	events := make([]Event, 0, len(records))
	for i, rec := range records {
		evt, err := EventFromMap(rec)
		if err != nil {
			return nil, fmt.Errorf("event[%d]: %w", i, err)
		}
		events = append(events, evt)
	}
	return events, nil
}

// AdvertiserFromLegacy maps a `merchant` element of the XML advertiser search.
func AdvertiserFromLegacy(m map[string]any) (Advertiser, error) {
	var legacy LegacyAdvertiser
	if err := decodeInto(m, &legacy); err != nil {
		return Advertiser{}, &MappingError{Record: "advertiser", Err: err}
	}
	if strings.TrimSpace(legacy.MID) == "" {
		return Advertiser{}, &MappingError{Record: "advertiser", Field: "mid", Err: errMissing}
	}
	return legacy.Canonical(), nil
}

// AdvertiserFromV2 maps an element of the v2 advertisers `advertisers` array.
func AdvertiserFromV2(m map[string]any) (Advertiser, error) {
	var v2 advertiserV2
	if err := decodeInto(m, &v2); err != nil {
		return Advertiser{}, &MappingError{Record: "advertiser", Err: err}
	}
	if strings.TrimSpace(v2.ID) == "" {
		return Advertiser{}, &MappingError{Record: "advertiser", Field: "id", Err: errMissing}
	}
	return v2.canonical(), nil
}

// LegacyAdvertisersFromPayload maps result.midlist.merchant of the XML advertiser search.
func LegacyAdvertisersFromPayload(data any) ([]Advertiser, error) {
	node, _ := lookupPath(data, "result", "midlist", "merchant")
	records, err := asRecords(node)
	if err != nil {
		return nil, &MappingError{Record: "advertiser", Err: err}
	}
	out := make([]Advertiser, 0, len(records))
	for i, rec := range records {
		adv, err := AdvertiserFromLegacy(rec)
		if err != nil {
			return nil, fmt.Errorf("merchant[%d]: %w", i, err)
		}
		out = append(out, adv)
	}
	return out, nil
}

// AdvertisersV2FromPayload maps the `advertisers` array of the v2 advertiser search.
func AdvertisersV2FromPayload(data any) ([]Advertiser, error) {
	node, _ := lookupPath(data, "advertisers")
	records, err := asRecords(node)
	if err != nil {
		return nil, &MappingError{Record: "advertiser", Err: err}
	}
	out := make([]Advertiser, 0, len(records))
	for i, rec := range records {
		adv, err := AdvertiserFromV2(rec)
		if err != nil {
			return nil, fmt.Errorf("advertisers[%d]: %w", i, err)
		}
		out = append(out, adv)
	}
	return out, nil
}

// ProductFromMap maps an `item` element of the product search.
func ProductFromMap(m map[string]any) (Product, error) {
	var p productPayload
	if err := decodeInto(m, &p); err != nil {
		return Product{}, &MappingError{Record: "product", Err: err}
	}

	raw, ok := m["createdon"]
	if !ok || cast.ToString(raw) == "" {
		return Product{}, &MappingError{Record: "product", Field: "createdon", Err: errMissing}
	}
	createdOn, err := ParseCreatedOn(cast.ToString(raw))
	if err != nil {
		return Product{}, &MappingError{Record: "product", Field: "createdon", Err: err}
	}

	return Product{
		AdvertiserID:   p.MID,
		AdvertiserName: p.MerchantName,
		LinkID:         p.LinkID,
		CreatedOn:      createdOn,
		SKU:            p.SKU,
		Name:           p.ProductName,
		Category:       p.Category,
		Price:          p.Price,
		SalePrice:      p.SalePrice,
		UPCCode:        p.UPCCode,
		Description:    p.Description,
		Keywords:       p.Keywords,
		LinkURL:        p.LinkURL,
		ImageURL:       p.ImageURL,
	}, nil
}

// ProductsFromPayload maps result.item of the product search.
func ProductsFromPayload(data any) ([]Product, error) {
	node, _ := lookupPath(data, "result", "item")
	records, err := asRecords(node)
	if err != nil {
		return nil, &MappingError{Record: "product", Err: err}
	}
	out := make([]Product, 0, len(records))
	for i, rec := range records {
		p, err := ProductFromMap(rec)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

var errMissing = errors.New("field is missing")

func requiredEventDate(m map[string]any, key string) (time.Time, error) {
	raw, ok := m[key].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return time.Time{}, &MappingError{Record: "event", Field: key, Err: errMissing}
	}
	t, err := ParseEventDate(raw)
	if err != nil {
		return time.Time{}, &MappingError{Record: "event", Field: key, Err: err}
	}
	return t, nil
}

var (
	priceType       = reflect.TypeOf(Price{})
	categoryType    = reflect.TypeOf(Category{})
	descriptionType = reflect.TypeOf(Description{})
)

func decodeInto(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(flagHook, feedValueHook),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// flagHook accepts the provider's Y/N flags for bool fields.
func flagHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Bool {
		return data, nil
	}
	s, ok := data.(string)
	if !ok {
		return data, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no", "":
		return false, nil
	}
	return cast.ToBoolE(s)
}

// feedValueHook converts XML-derived values (attribute maps or bare text) into the structured
// product fields.
func feedValueHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch to {
	case priceType:
		return toPrice(data)
	case categoryType:
		if s, ok := data.(string); ok {
			return Category{Primary: strings.TrimSpace(s)}, nil
		}
	case descriptionType:
		if s, ok := data.(string); ok {
			return Description{Short: strings.TrimSpace(s)}, nil
		}
	}
	return data, nil
}

func toPrice(data any) (Price, error) {
	var amount any = data
	var currency string
	if m, ok := data.(map[string]any); ok {
		amount = m["#text"]
		currency = strings.TrimSpace(cast.ToString(m["-currency"]))
	}

	text := strings.TrimSpace(cast.ToString(amount))
	if text == "" {
		return Price{Currency: currency}, nil
	}
	f, err := cast.ToFloat64E(text)
	if err != nil {
		return Price{}, fmt.Errorf("price %q: %w", text, err)
	}
	return Price{Amount: f, Currency: currency}, nil
}

// lookupPath walks nested maps by key.
func lookupPath(data any, keys ...string) (any, bool) {
	cur := data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// asRecords normalizes a payload node into a list of records. XML lists with one element arrive as
// a bare map and absent lists as nil.
func asRecords(node any) ([]map[string]any, error) {
	switch typed := node.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimSpace(typed) == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("expected record list, got text")
	case map[string]any:
		return []map[string]any{typed}, nil
	case []map[string]any:
		return typed, nil
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for i, item := range typed {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d: expected object, got %T", i, item)
			}
			out = append(out, rec)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected record list, got %T", node)
	}
}
