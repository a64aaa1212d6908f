package collector

import (
	"context"

	"github.com/samvad-hq/rakuten-affiliate/internal/accounts"
	"github.com/samvad-hq/rakuten-affiliate/pkg/publishers"
	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

// EventSource is the part of rakuten.Client a collection pass needs.
type EventSource interface {
	Auth(ctx context.Context) (*rakuten.Result, error)
	GetEvents(ctx context.Context, q rakuten.EventsQuery) ([]rakuten.Event, error)
}

// ClientFactory builds an independent client per account.
type ClientFactory func(acct accounts.Account) (EventSource, error)

// EventPublisher publishes collected transactions downstream and reports how many sinks took them.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.TransactionEvent) (int, error)
}

// Deduper remembers published transaction keys.
type Deduper interface {
	SeenTransaction(id string) (bool, error)
	MarkTransaction(id string) error
}
