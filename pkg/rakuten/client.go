package rakuten

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	eventsEndpoint          = "/events/1.0/transactions"
	advertiserSearchV1      = "/advertisersearch/1.0"
	advertiserSearchV2      = "/v2/advertisers"
	productSearchEndpoint   = "/productsearch/1.0"
	deepLinksEndpoint       = "/v1/links/deep_links"
	advancedReportsEndpoint = "/advancedreports/1.0"
	couponEndpoint          = "/coupon/1.0"
)

// Client exposes the LinkSynergy endpoint catalog on top of a RestAdapter.
type Client struct {
	adapter *RestAdapter
}

// New builds a client for the given credentials. Nothing is sent until Auth is called.
func New(clientID, clientSecret string, accountID int64, opts ...Option) (*Client, error) {
	adapter, err := NewRestAdapter("", Credentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AccountID:    accountID,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{adapter: adapter}, nil
}

// Adapter exposes the underlying transport adapter for endpoints not covered here.
func (c *Client) Adapter() *RestAdapter { return c.adapter }

// ready reports ErrAuthNotReady ahead of parameter validation so that a missing token is always
// the error callers see first.
func (c *Client) ready() error {
	if c.adapter.Token() == "" {
		return ErrAuthNotReady
	}
	return nil
}

// Auth obtains and stores a bearer token.
func (c *Client) Auth(ctx context.Context) (*Result, error) {
	return c.adapter.GetToken(ctx)
}

// EventsQuery selects transaction events by process and transaction date windows.
type EventsQuery struct {
	ProcessDateStart     time.Time
	ProcessDateEnd       time.Time
	TransactionDateStart time.Time
	TransactionDateEnd   time.Time
	// Limit and Page select one page of results; zero leaves the API default.
	Limit int
	Page  int
	// Currency converts amounts into the given ISO code when set.
	Currency string
	// TransactionType filters by realtime, batch, etc. when set.
	TransactionType string
}

func (q EventsQuery) values() url.Values {
	v := url.Values{}
	v.Set("process_date_start", q.ProcessDateStart.Format(QueryTimeLayout))
	v.Set("process_date_end", q.ProcessDateEnd.Format(QueryTimeLayout))
	v.Set("transaction_date_start", q.TransactionDateStart.Format(QueryTimeLayout))
	v.Set("transaction_date_end", q.TransactionDateEnd.Format(QueryTimeLayout))
	setInt(v, "limit", q.Limit)
	setInt(v, "page", q.Page)
	setString(v, "currency", q.Currency)
	setString(v, "transaction_type", q.TransactionType)
	return v
}

// GetEvents retrieves transaction confirmations completed on advertiser sites.
func (c *Client) GetEvents(ctx context.Context, q EventsQuery) ([]Event, error) {
	res, err := c.adapter.Get(ctx, eventsEndpoint, q.values(), FormatJSON)
	if err != nil {
		return nil, err
	}
	return EventsFromPayload(res.Data)
}

// SearchAdvertisersV1 finds advertisers and their MIDs by name through the XML search.
func (c *Client) SearchAdvertisersV1(ctx context.Context, name string) ([]Advertiser, error) {
	params := url.Values{"merchantname": {name}}
	res, err := c.adapter.Get(ctx, advertiserSearchV1, params, FormatXML)
	if err != nil {
		return nil, err
	}
	return LegacyAdvertisersFromPayload(res.Data)
}

// AdvertisersQuery is one page of the v2 advertiser search. Use DefaultAdvertisersQuery for the
// provider defaults.
type AdvertisersQuery struct {
	Page      int
	Limit     int
	ShipsTo   string
	DeepLinks bool
	Network   int
}

// DefaultAdvertisersQuery returns page 0, 10 per page, shipping to US, deep-linkable, network 1.
func DefaultAdvertisersQuery() AdvertisersQuery {
	return AdvertisersQuery{Page: 0, Limit: 10, ShipsTo: "US", DeepLinks: true, Network: 1}
}

func (q AdvertisersQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	setString(v, "ships_to", q.ShipsTo)
	v.Set("deep_links", strconv.FormatBool(q.DeepLinks))
	setInt(v, "network", q.Network)
	return v
}

// SearchAdvertisersV2 lists advertisers through the JSON v2 API.
func (c *Client) SearchAdvertisersV2(ctx context.Context, q AdvertisersQuery) ([]Advertiser, error) {
	res, err := c.adapter.Get(ctx, advertiserSearchV2, q.values(), FormatJSON)
	if err != nil {
		return nil, err
	}
	return AdvertisersV2FromPayload(res.Data)
}

// ProductsQuery filters the product search. Empty fields are not sent.
type ProductsQuery struct {
	Keyword      string
	Exact        string
	One          string
	Category     string
	Language     string
	Max          int
	PageNumber   int
	AdvertiserID int64
	Sort         string
	SortType     string
}

// DefaultProductsQuery returns en_US, 100 results, page 1.
func DefaultProductsQuery() ProductsQuery {
	return ProductsQuery{Language: "en_US", Max: 100, PageNumber: 1}
}

func (q ProductsQuery) values() url.Values {
	v := url.Values{}
	setString(v, "keyword", q.Keyword)
	setString(v, "exact", q.Exact)
	setString(v, "one", q.One)
	setString(v, "cat", q.Category)
	setString(v, "language", q.Language)
	setInt(v, "max", q.Max)
	setInt(v, "pagenumber", q.PageNumber)
	setInt64(v, "mid", q.AdvertiserID)
	setString(v, "sort", q.Sort)
	setString(v, "sorttype", q.SortType)
	return v
}

// SearchProducts queries the XML product search.
func (c *Client) SearchProducts(ctx context.Context, q ProductsQuery) ([]Product, error) {
	res, err := c.adapter.Get(ctx, productSearchEndpoint, q.values(), FormatXML)
	if err != nil {
		return nil, err
	}
	return ProductsFromPayload(res.Data)
}

// DeepLinkRequest describes a product URL to turn into a tracked link.
type DeepLinkRequest struct {
	URL          string
	AdvertiserID int64
	// U1 is an optional member id echoed back in reports.
	U1 string
}

// GenerateDeepLink creates a tracked link for an advertiser product page.
func (c *Client) GenerateDeepLink(ctx context.Context, req DeepLinkRequest) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.URL) == "" {
		return "", &ValidationError{Field: "url", Reason: "is required"}
	}
	if req.AdvertiserID <= 0 {
		return "", &ValidationError{Field: "advertiser_id", Reason: "is required"}
	}

	body := map[string]any{
		"url":           req.URL,
		"advertiser_id": req.AdvertiserID,
	}
	if req.U1 != "" {
		body["u1"] = req.U1
	}

	res, err := c.adapter.Post(ctx, deepLinksEndpoint, nil, body, true, FormatJSON)
	if err != nil {
		return "", err
	}
	node, _ := lookupPath(res.Data, "advertiser", "deep_link")
	link, ok := node.(string)
	if !ok || link == "" {
		return "", &MappingError{Record: "deep_link", Field: "advertiser.deep_link", Err: errMissing}
	}
	return link, nil
}

// ReportType selects one of the payment reports.
type ReportType string

const (
	ReportAllHistory         ReportType = "all_history"
	ReportAdvertisersHistory ReportType = "advertisers_history"
	ReportDetails            ReportType = "details"
)

func (r ReportType) reportID() (int, bool) {
	switch r {
	case ReportAllHistory:
		return 1, true
	case ReportAdvertisersHistory:
		return 2, true
	case ReportDetails:
		return 3, true
	default:
		return 0, false
	}
}

// PaymentsQuery selects a payment report. Zero-valued optional fields are not sent.
type PaymentsQuery struct {
	ReportType ReportType
	// SecurityToken is the web-services token of the publisher dashboard, not the bearer token.
	SecurityToken string
	NetworkID     int64
	PaymentID     int64
	StartDate     time.Time
	EndDate       time.Time
	InvoiceID     int64
	AdvertiserID  int64
}

func (q PaymentsQuery) values() (url.Values, error) {
	reportID, ok := q.ReportType.reportID()
	if !ok {
		return nil, &ValidationError{Field: "report_type", Reason: "must be all_history, advertisers_history or details"}
	}
	if strings.TrimSpace(q.SecurityToken) == "" {
		return nil, &ValidationError{Field: "security_token", Reason: "is required"}
	}
	if q.ReportType == ReportAllHistory && (q.StartDate.IsZero() || q.EndDate.IsZero()) {
		return nil, &ValidationError{Reason: "payment history summary requires start date and end date"}
	}

	v := url.Values{}
	v.Set("token", q.SecurityToken)
	v.Set("reportid", strconv.Itoa(reportID))
	if !q.StartDate.IsZero() {
		v.Set("bdate", q.StartDate.Format(ReportDateLayout))
	}
	if !q.EndDate.IsZero() {
		v.Set("edate", q.EndDate.Format(ReportDateLayout))
	}
	setInt64(v, "payid", q.PaymentID)
	setInt64(v, "nid", q.NetworkID)
	setInt64(v, "invoiceid", q.InvoiceID)
	setInt64(v, "mid", q.AdvertiserID)
	return v, nil
}

// GetPayments downloads a payment report and returns the CSV body untouched.
func (c *Client) GetPayments(ctx context.Context, q PaymentsQuery) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	params, err := q.values()
	if err != nil {
		return "", err
	}
	res, err := c.adapter.Get(ctx, advancedReportsEndpoint, params, FormatCSV)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// CouponsQuery filters the coupon feed. Empty fields are not sent.
type CouponsQuery struct {
	CategoryIDs      []int
	PromotionTypeIDs []int
	NetworkID        int64
	AdvertiserID     int64
	ResultsPerPage   int
	PageNumber       int
}

func (q CouponsQuery) values() url.Values {
	v := url.Values{}
	setString(v, "category", joinPipe(q.CategoryIDs))
	setString(v, "promotiontype", joinPipe(q.PromotionTypeIDs))
	setInt64(v, "network", q.NetworkID)
	setInt64(v, "mid", q.AdvertiserID)
	setInt(v, "resultsperpage", q.ResultsPerPage)
	setInt(v, "pagenumber", q.PageNumber)
	return v
}

// GetCoupons returns the coupon feed as a normalized mapping.
func (c *Client) GetCoupons(ctx context.Context, q CouponsQuery) (map[string]any, error) {
	res, err := c.adapter.Get(ctx, couponEndpoint, q.values(), FormatXML)
	if err != nil {
		return nil, err
	}
	m, _ := res.Map()
	return m, nil
}

func joinPipe(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "|")
}

func setString(v url.Values, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		v.Set(key, val)
	}
}

func setInt(v url.Values, key string, val int) {
	if val != 0 {
		v.Set(key, strconv.Itoa(val))
	}
}

func setInt64(v url.Values, key string, val int64) {
	if val != 0 {
		v.Set(key, strconv.FormatInt(val, 10))
	}
}
