package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func openTestBolt(t *testing.T, opts Options) (*boltStore, *fakeClock) {
	t.Helper()
	store, err := openBolt(filepath.Join(t.TempDir(), "nested", "tx.db"), normalizeOptions(opts))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	store.now = clock.now
	store.lastCleanup.Store(clock.t.Unix())
	return store, clock
}

func TestBoltStoreMarksAndExpiresTransactions(t *testing.T) {
	store, clock := openTestBolt(t, Options{TransactionTTL: time.Hour, CleanupInterval: 24 * time.Hour})

	seen, err := store.SeenTransaction("acct/etx-1")
	if err != nil || seen {
		t.Fatalf("expected unseen transaction, seen=%v err=%v", seen, err)
	}

	if err := store.MarkTransaction("acct/etx-1"); err != nil {
		t.Fatalf("MarkTransaction: %v", err)
	}
	seen, err = store.SeenTransaction("acct/etx-1")
	if err != nil || !seen {
		t.Fatalf("expected transaction marked as seen, got seen=%v err=%v", seen, err)
	}

	clock.advance(2 * time.Hour)
	seen, err = store.SeenTransaction("acct/etx-1")
	if err != nil || seen {
		t.Fatalf("expected entry to expire, seen=%v err=%v", seen, err)
	}
	if n := countKeys(t, store); n != 0 {
		t.Fatalf("expired entry should be deleted, %d keys remain", n)
	}
}

func TestBoltStoreSweepsOnCadence(t *testing.T) {
	store, clock := openTestBolt(t, Options{TransactionTTL: time.Minute, CleanupInterval: time.Hour})

	for _, id := range []string{"a", "b", "c"} {
		if err := store.MarkTransaction(id); err != nil {
			t.Fatalf("MarkTransaction(%s): %v", id, err)
		}
	}
	clock.advance(2 * time.Hour)
	if err := store.MarkTransaction("d"); err != nil {
		t.Fatalf("MarkTransaction(d): %v", err)
	}
	if n := countKeys(t, store); n != 1 {
		t.Fatalf("expected sweep to leave only the fresh id, got %d keys", n)
	}
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.db")
	store, err := NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.MarkTransaction("etx"); err != nil {
		t.Fatalf("MarkTransaction: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store, err = NewStore("bbolt", path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	if seen, err := store.SeenTransaction("etx"); err != nil || !seen {
		t.Fatalf("expected id to persist, seen=%v err=%v", seen, err)
	}
}

func TestNewStoreBackends(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkTransaction("x"); err != nil {
		t.Fatalf("noop store MarkTransaction: %v", err)
	}
	if seen, _ := store.SeenTransaction("x"); seen {
		t.Fatalf("noop store should never report seen")
	}

	mem, err := NewStore("memory", "", Options{})
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	_ = mem.MarkTransaction("x")
	if seen, _ := mem.SeenTransaction("x"); !seen {
		t.Fatalf("memory store should remember marked ids")
	}

	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	mem := newMemoryStore(Options{TransactionTTL: time.Minute})
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	mem.now = clock.now

	_ = mem.MarkTransaction("x")
	clock.advance(2 * time.Minute)
	if seen, _ := mem.SeenTransaction("x"); seen {
		t.Fatalf("expected memory entry to expire")
	}
}

func TestMemoryStoreSweepsUnreadExpiredIDs(t *testing.T) {
	mem := newMemoryStore(Options{TransactionTTL: time.Minute, CleanupInterval: time.Hour})
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	mem.now = clock.now
	mem.lastCleanup = clock.t

	for _, id := range []string{"a", "b", "c"} {
		_ = mem.MarkTransaction(id)
	}
	clock.advance(30 * time.Minute)
	_ = mem.MarkTransaction("d")
	if len(mem.expiry) != 4 {
		t.Fatalf("expected no sweep before interval, got %d entries", len(mem.expiry))
	}

	clock.advance(2 * time.Hour)
	_ = mem.MarkTransaction("e")
	if len(mem.expiry) != 1 {
		t.Fatalf("expected only fresh entry after sweep, got %d entries", len(mem.expiry))
	}
	if _, ok := mem.expiry["e"]; !ok {
		t.Fatalf("expected fresh entry to survive sweep")
	}
}

func TestTransactionKey(t *testing.T) {
	if got := TransactionKey("acct", "etx"); got != "acct/etx" {
		t.Fatalf("TransactionKey = %q", got)
	}
}

func countKeys(t *testing.T, store *boltStore) int {
	t.Helper()
	n := 0
	err := store.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(transactionBucket)).ForEach(func(_, _ []byte) error {
			n++
			return nil
		})
	})
	if err != nil {
		t.Fatalf("count keys: %v", err)
	}
	return n
}
