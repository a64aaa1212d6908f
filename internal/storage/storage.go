// Package storage remembers which transactions have already been published.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks published transaction ids.
type Store interface {
	Close() error
	SeenTransaction(id string) (bool, error)
	MarkTransaction(id string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	TransactionTTL  time.Duration
	CleanupInterval time.Duration
}

const (
	defaultTransactionTTL  = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "memory":
		return newMemoryStore(opts), nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

// TransactionKey scopes a transaction id to the account it was collected for.
func TransactionKey(accountID, transactionID string) string {
	return accountID + "/" + transactionID
}

func normalizeOptions(opts Options) Options {
	if opts.TransactionTTL <= 0 {
		opts.TransactionTTL = defaultTransactionTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                         { return nil }
func (noopStore) SeenTransaction(string) (bool, error) { return false, nil }
func (noopStore) MarkTransaction(string) error         { return nil }
