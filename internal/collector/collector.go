// Package collector runs one transaction collection pass across affiliate accounts.
package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/rakuten-affiliate/internal/accounts"
	"github.com/samvad-hq/rakuten-affiliate/internal/logger"
	"github.com/samvad-hq/rakuten-affiliate/internal/storage"
	"github.com/samvad-hq/rakuten-affiliate/pkg/publishers"
	"github.com/samvad-hq/rakuten-affiliate/pkg/rakuten"
)

// Summary counts what one pass did.
type Summary struct {
	Accounts  int `json:"accounts"`
	Fetched   int `json:"fetched"`
	Published int `json:"published"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Service authenticates each account, pulls its recent transactions, drops the ones already
// published and hands the rest to the publisher.
type Service struct {
	newClient ClientFactory
	publisher EventPublisher
	store     Deduper
	lookback  time.Duration
	log       logger.Logger
	now       func() time.Time
}

// NewService wires a collector. A nil store disables deduplication.
func NewService(factory ClientFactory, pub EventPublisher, store Deduper, lookback time.Duration, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		newClient: factory,
		publisher: pub,
		store:     store,
		lookback:  lookback,
		log:       log,
		now:       time.Now,
	}
}

// NewClientFactory returns a factory building rakuten clients against host.
func NewClientFactory(host string, timeout time.Duration, log rakuten.Logger) ClientFactory {
	return func(acct accounts.Account) (EventSource, error) {
		return rakuten.New(acct.ClientID, acct.ClientSecret, acct.AccountID,
			rakuten.WithHost(host),
			rakuten.WithTimeout(timeout),
			rakuten.WithLogger(log),
		)
	}
}

// Run executes a pass over accts sequentially. Per-account failures do not stop the pass; they
// are logged and returned joined.
func (s *Service) Run(ctx context.Context, accts []accounts.Account) (Summary, error) {
	var sum Summary
	if s == nil || s.newClient == nil || s.publisher == nil {
		return sum, fmt.Errorf("collector service is not initialized")
	}
	if len(accts) == 0 {
		return sum, fmt.Errorf("no accounts configured for collection")
	}

	var errs []error
	for _, acct := range accts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		sum.Accounts++
		if err := s.runAccount(ctx, acct, &sum); err != nil {
			errs = append(errs, err)
			s.log.ErrorObj("account collection failed", "account_error", map[string]any{
				"account_id": acct.ID,
				"error":      err.Error(),
			})
		}
	}
	return sum, errors.Join(errs...)
}

func (s *Service) runAccount(ctx context.Context, acct accounts.Account, sum *Summary) error {
	client, err := s.newClient(acct)
	if err != nil {
		return fmt.Errorf("build client for account %s: %w", acct.ID, err)
	}
	if _, err := client.Auth(ctx); err != nil {
		return fmt.Errorf("authenticate account %s: %w", acct.ID, err)
	}

	end := s.now().UTC()
	lookback := s.lookback
	if acct.Lookback > 0 {
		lookback = acct.Lookback
	}
	start := end.Add(-lookback)

	events, err := client.GetEvents(ctx, rakuten.EventsQuery{
		ProcessDateStart:     start,
		ProcessDateEnd:       end,
		TransactionDateStart: start,
		TransactionDateEnd:   end,
	})
	if err != nil {
		return fmt.Errorf("fetch events for account %s: %w", acct.ID, err)
	}
	sum.Fetched += len(events)

	var errs []error
	published := 0
	for _, evt := range events {
		ok, err := s.handleEvent(ctx, acct, evt)
		switch {
		case err != nil:
			sum.Failed++
			errs = append(errs, err)
		case ok:
			sum.Published++
			published++
		default:
			sum.Skipped++
		}
	}

	s.log.InfoObj("account collection completed", "account_result", map[string]any{
		"account_id": acct.ID,
		"window":     map[string]any{"start": start, "end": end},
		"fetched":    len(events),
		"published":  published,
		"failed":     len(errs),
	})
	return errors.Join(errs...)
}

// handleEvent reports whether evt was published. Already-seen events return false.
func (s *Service) handleEvent(ctx context.Context, acct accounts.Account, evt rakuten.Event) (bool, error) {
	key := storage.TransactionKey(acct.ID, evt.ETransactionID)
	dedupe := s.store != nil && evt.ETransactionID != ""

	if dedupe {
		seen, err := s.store.SeenTransaction(key)
		if err != nil {
			return false, fmt.Errorf("check transaction %s: %w", key, err)
		}
		if seen {
			return false, nil
		}
	}

	successes, err := s.publisher.Publish(ctx, publishers.NewTransactionEvent(acct.ID, acct.Name, evt))
	if successes == 0 {
		if err == nil {
			err = errors.New("no publisher accepted the event")
		}
		return false, fmt.Errorf("publish transaction %s: %w", key, err)
	}
	if err != nil {
		// Partial delivery still counts as published so that sinks which took it do not see it twice.
		s.log.WarnObj("transaction partially published", "publish_error", map[string]any{
			"transaction": key,
			"successes":   successes,
			"error":       err.Error(),
		})
	}

	if dedupe {
		if err := s.store.MarkTransaction(key); err != nil {
			return true, fmt.Errorf("mark transaction %s: %w", key, err)
		}
	}
	return true, nil
}
