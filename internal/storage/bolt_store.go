package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

var lookupBucket = []byte("lookups")

const expiryValueBytes = 8

var errBucketMissing = errors.New("lookup bucket missing")

// boltStore keeps lookup IDs in a single bucket, valued by big-endian unix expiry.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	lookupTTL       time.Duration
	cleanupInterval time.Duration
}

func openBolt(path string, opts Options) (Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt ledger: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(lookupBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init lookup bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		lookupTTL:       opts.LookupTTL,
		cleanupInterval: opts.CleanupInterval,
	}
	store.lastCleanup.Store(time.Now().Unix())
	return store, nil
}

func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// SeenLookup reports whether the lookup ID was delivered and has not expired.
// An expired entry is deleted on read.
func (b *boltStore) SeenLookup(id string) (bool, error) {
	if b == nil || b.db == nil {
		return false, nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return false, err
	}

	var live bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(lookupBucket)
		if bucket == nil {
			return errBucketMissing
		}
		raw := bucket.Get([]byte(id))
		if raw == nil {
			return nil
		}
		if expiry, ok := decodeExpiry(raw); ok && expiry.After(now) {
			live = true
			return nil
		}
		return bucket.Delete([]byte(id))
	})
	return live, err
}

// MarkLookup records the lookup ID as delivered until the TTL elapses.
func (b *boltStore) MarkLookup(id string) error {
	if b == nil || b.db == nil {
		return nil
	}

	now := time.Now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(lookupBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(id), encodeExpiry(now.Add(b.lookupTTL)))
	})
}

// maybeCleanupExpired sweeps expired IDs at most once per cleanup interval.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if !b.cleanupDue(now) {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()
	if !b.cleanupDue(now) {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(lookupBucket)
		if bucket == nil {
			return errBucketMissing
		}
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if expiry, ok := decodeExpiry(v); ok && expiry.After(now) {
				continue
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweep expired lookups: %w", err)
	}
	b.lastCleanup.Store(now.Unix())
	return nil
}

func (b *boltStore) cleanupDue(now time.Time) bool {
	return now.Sub(time.Unix(b.lastCleanup.Load(), 0)) >= b.cleanupInterval
}

func encodeExpiry(t time.Time) []byte {
	buf := make([]byte, expiryValueBytes)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	return buf
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) != expiryValueBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value))
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
