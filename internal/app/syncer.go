package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/rakuten-affiliate/internal/accounts"
	"github.com/samvad-hq/rakuten-affiliate/internal/collector"
	"github.com/samvad-hq/rakuten-affiliate/internal/config"
	"github.com/samvad-hq/rakuten-affiliate/internal/logger"
	"github.com/samvad-hq/rakuten-affiliate/internal/storage"
	"github.com/samvad-hq/rakuten-affiliate/pkg/publishers"
)

// Syncer is the transaction sync runtime. It owns the collection loop and the resources the
// collector needs: the accounts registry, the publisher fanout and the dedupe store.
type Syncer struct {
	cfg          *config.Config
	accountReg   *accounts.Registry
	fanout       *publishers.Fanout
	collect      *collector.Service
	syncInterval time.Duration
	log          logger.Logger
	store        storage.Store
}

// NewSyncer builds a syncer runtime from config files.
func NewSyncer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Syncer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	accountReg, err := accounts.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	log.InfoObj("accounts registry loaded", "accounts_meta", map[string]any{
		"count": len(accountReg.All()),
		"ids":   accountReg.IDs(),
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		TransactionTTL:  cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"transaction_ttl_seconds":  int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	factory := collector.NewClientFactory(cfg.RakutenHost, cfg.HTTPTimeout, log)
	collect := collector.NewService(factory, fanout, store, cfg.SyncLookback, log)

	return &Syncer{
		cfg:          cfg,
		accountReg:   accountReg,
		fanout:       fanout,
		collect:      collect,
		syncInterval: cfg.SyncInterval,
		log:          log,
		store:        store,
	}, nil
}

// Run starts the sync loop until the context is cancelled.
func (s *Syncer) Run(ctx context.Context) error {
	if s == nil || s.collect == nil {
		return fmt.Errorf("syncer is not initialized")
	}
	defer s.close()

	accts := s.accountReg.Enabled()
	if len(accts) == 0 {
		s.log.WarnObj("no enabled accounts; syncer idle", "accounts_file", s.cfg.AccountsFile)
		<-ctx.Done()
		return ctx.Err()
	}

	s.log.InfoObj("syncer loop starting", "syncer_state", map[string]any{
		"accounts_count":   len(accts),
		"publishers_count": s.fanout.Size(),
		"sync_interval":    s.syncInterval.String(),
		"sync_lookback":    s.cfg.SyncLookback.String(),
	})

	if _, err := s.RunOnce(ctx, accts); err != nil {
		s.log.ErrorObj("initial sync failed", "error", err)
	}

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoObj("syncer loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx, accts); err != nil {
				s.log.ErrorObj("scheduled sync failed", "error", err)
			}
		}
	}
}

// RunOnce performs a single collection pass across accts.
func (s *Syncer) RunOnce(ctx context.Context, accts []accounts.Account) (collector.Summary, error) {
	start := time.Now()
	s.log.InfoObj("sync started", "sync_meta", map[string]any{
		"accounts_count": len(accts),
		"started_at":     start.UTC(),
	})
	sum, err := s.collect.Run(ctx, accts)
	s.log.InfoObj("sync completed", "sync_meta", map[string]any{
		"summary":    sum,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return sum, err
}

// close releases the store and publishers, logging any errors encountered.
func (s *Syncer) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publisher close failed", "error", err)
	}
}
