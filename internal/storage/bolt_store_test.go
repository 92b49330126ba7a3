package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func TestBoltStoreMarksAndExpiresLookups(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		LookupTTL:       1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(filepath.Join(dir, "ledger.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	seen, err := store.SeenLookup("id1")
	if err != nil || seen {
		t.Fatalf("expected unseen lookup, seen=%v err=%v", seen, err)
	}

	if err := store.MarkLookup("id1"); err != nil {
		t.Fatalf("MarkLookup: %v", err)
	}

	seen, err = store.SeenLookup("id1")
	if err != nil || !seen {
		t.Fatalf("expected lookup marked as seen, got seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenLookup("id1")
	if err != nil {
		t.Fatalf("SeenLookup after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	store, err := NewStore(TypeBBolt, path, Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.MarkLookup("abc"); err != nil {
		t.Fatalf("MarkLookup: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := NewStore(TypeBBolt, path, Options{})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	seen, err := reopened.SeenLookup("abc")
	if err != nil || !seen {
		t.Fatalf("expected persisted lookup, seen=%v err=%v", seen, err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkLookup("x"); err != nil {
		t.Fatalf("noop store MarkLookup: %v", err)
	}
	if seen, _ := store.SeenLookup("x"); seen {
		t.Fatalf("noop store should never report seen")
	}
}

func TestNewStoreRejectsBadConfig(t *testing.T) {
	if _, err := NewStore(TypeBBolt, " ", Options{}); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
