// Package rakuten is a client for the Rakuten Advertising (LinkSynergy) affiliate APIs.
//
// A RestAdapter exchanges client credentials for a bearer token and issues requests whose
// response format is declared by the caller: JSON is decoded into maps and slices, XML is
// converted into the same nested-map shape, and CSV is handed back as raw text. Non-2xx
// statuses become *RequestError; the full taxonomy is in errors.go.
//
// Client wraps the adapter with one method per endpoint and maps payloads onto Event,
// Advertiser and Product:
//
//	c, err := rakuten.New(clientID, clientSecret, accountID)
//	if err != nil {
//		return err
//	}
//	if _, err := c.Auth(ctx); err != nil {
//		return err
//	}
//	events, err := c.GetEvents(ctx, rakuten.EventsQuery{...})
//
// Neither type is safe for concurrent use. The token is held in memory only and is never
// refreshed automatically.
package rakuten
