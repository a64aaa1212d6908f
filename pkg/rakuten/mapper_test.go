package rakuten

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyAdvertiserSingleMerchant(t *testing.T) {
	data, err := decodeBody(FormatXML, []byte(`<result><midlist><merchant><mid>123</mid><merchantname>Acme</merchantname></merchant></midlist></result>`))
	require.NoError(t, err)

	advertisers, err := LegacyAdvertisersFromPayload(data)
	require.NoError(t, err)
	require.Len(t, advertisers, 1)
	assert.Equal(t, Advertiser{ID: "123", Name: "Acme"}, advertisers[0])
}

func TestLegacyAdvertiserEmptyList(t *testing.T) {
	data, err := decodeBody(FormatXML, []byte(`<result><midlist></midlist></result>`))
	require.NoError(t, err)

	advertisers, err := LegacyAdvertisersFromPayload(data)
	require.NoError(t, err)
	assert.Empty(t, advertisers)
}

func TestLegacyAdvertiserMissingMID(t *testing.T) {
	_, err := AdvertiserFromLegacy(map[string]any{"merchantname": "Acme"})
	require.ErrorIs(t, err, ErrMappingFailed)

	var mapErr *MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "mid", mapErr.Field)
}

func TestAdvertisersV2(t *testing.T) {
	data, err := decodeBody(FormatJSON, []byte(`{
		"advertisers": [
			{"id": 44583, "name": "Shop", "network": 1, "url": "https://shop.example",
			 "description": "d", "profiles": {"logo_url": "l"}, "network_status": "active"},
			{"id": "7", "name": "Other"}
		],
		"_metadata": {"page": 0}
	}`))
	require.NoError(t, err)

	advertisers, err := AdvertisersV2FromPayload(data)
	require.NoError(t, err)
	require.Len(t, advertisers, 2)

	assert.Equal(t, "44583", advertisers[0].ID)
	assert.Equal(t, 1, advertisers[0].Network)
	assert.Equal(t, map[string]any{"logo_url": "l"}, advertisers[0].Profiles)
	assert.Equal(t, "active", advertisers[0].NetworkStatus)
	assert.Equal(t, Advertiser{ID: "7", Name: "Other"}, advertisers[1])
}

func TestEventFromMap(t *testing.T) {
	evt, err := EventFromMap(map[string]any{
		"etransaction_id":  "abc",
		"advertiser_id":    float64(2025),
		"sale_amount":      19.99,
		"quantity":         float64(2),
		"commissions":      "1.5",
		"process_date":     "Mon Jan 02 2023 10:00:00 GMT+0000 (Coordinated Universal Time)",
		"transaction_date": "Sun Jan 01 2023 23:30:00 GMT-0500 (Eastern Standard Time)",
		"is_event":         "Y",
		"currency":         "USD",
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", evt.ETransactionID)
	assert.Equal(t, "2025", evt.AdvertiserID)
	assert.Equal(t, 2, evt.Quantity)
	assert.InDelta(t, 1.5, evt.Commissions, 1e-9)
	assert.True(t, evt.IsEvent)
	assert.True(t, evt.ProcessDate.Equal(time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)))
	assert.True(t, evt.TransactionDate.Equal(time.Date(2023, 1, 2, 4, 30, 0, 0, time.UTC)))
}

func TestEventFromMapRequiresDates(t *testing.T) {
	_, err := EventFromMap(map[string]any{"etransaction_id": "abc", "process_date": "Mon Jan 02 2023 10:00:00 GMT+0000"})
	require.ErrorIs(t, err, ErrMappingFailed)

	var mapErr *MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "transaction_date", mapErr.Field)
}

func TestEventsFromPayloadIndexesFailures(t *testing.T) {
	_, err := EventsFromPayload([]any{
		map[string]any{"process_date": "Mon Jan 02 2023 10:00:00 GMT+0000", "transaction_date": "Mon Jan 02 2023 10:00:00 GMT+0000"},
		map[string]any{"process_date": "garbage", "transaction_date": "Mon Jan 02 2023 10:00:00 GMT+0000"},
	})
	require.ErrorIs(t, err, ErrMappingFailed)
	assert.Contains(t, err.Error(), "event[1]")
}

func TestEventsFromPayloadRejectsScalars(t *testing.T) {
	_, err := EventsFromPayload([]any{"nope"})
	assert.ErrorIs(t, err, ErrMappingFailed)
}

func TestProductsFromPayload(t *testing.T) {
	body := `<result>
  <TotalMatches>1</TotalMatches>
  <item>
    <mid>2557</mid>
    <merchantname>Shop</merchantname>
    <linkid>99</linkid>
    <createdon>2023-01-02T10:00:00Z</createdon>
    <sku>SKU-1</sku>
    <productname>Lamp</productname>
    <category><primary>Home</primary><secondary>Lighting</secondary></category>
    <price currency="USD">49.99</price>
    <saleprice currency="USD">39.99</saleprice>
    <upccode>0001</upccode>
    <description><short>Short</short><long>Long</long></description>
    <keywords>lamp~light</keywords>
    <linkurl>https://click.example/99</linkurl>
    <imageurl>https://img.example/99.jpg</imageurl>
  </item>
</result>`
	data, err := decodeBody(FormatXML, []byte(body))
	require.NoError(t, err)

	products, err := ProductsFromPayload(data)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "2557", p.AdvertiserID)
	assert.Equal(t, "Shop", p.AdvertiserName)
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, Category{Primary: "Home", Secondary: "Lighting"}, p.Category)
	assert.Equal(t, Price{Amount: 49.99, Currency: "USD"}, p.Price)
	assert.Equal(t, Price{Amount: 39.99, Currency: "USD"}, p.SalePrice)
	assert.Equal(t, Description{Short: "Short", Long: "Long"}, p.Description)
	assert.True(t, p.CreatedOn.Equal(time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)))
}

func TestProductFlatFields(t *testing.T) {
	p, err := ProductFromMap(map[string]any{
		"mid":         "1",
		"createdon":   "2023-01-02T10:00:00.5Z",
		"category":    "Books",
		"description": "Plain",
		"price":       "10",
	})
	require.NoError(t, err)
	assert.Equal(t, Category{Primary: "Books"}, p.Category)
	assert.Equal(t, Description{Short: "Plain"}, p.Description)
	assert.Equal(t, Price{Amount: 10}, p.Price)
}

func TestProductMissingCreatedOn(t *testing.T) {
	_, err := ProductFromMap(map[string]any{"mid": "1"})
	var mapErr *MappingError
	require.ErrorAs(t, err, &mapErr)
	assert.Equal(t, "createdon", mapErr.Field)
}

func TestProductBadPrice(t *testing.T) {
	_, err := ProductFromMap(map[string]any{"createdon": "2023-01-02T10:00:00Z", "price": "ten"})
	assert.ErrorIs(t, err, ErrMappingFailed)
}
