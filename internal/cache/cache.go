// Package cache is a bbolt-backed response cache for API collaborators.
// Entries carry their storage time; readers decide how stale is too stale.
package cache

import (
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"
)

const bucketResponses = "responses"

// Cache stores JSON payloads keyed by request identity.
type Cache struct {
	db *bbolt.DB
}

type entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketResponses))
		return err
	}); err != nil {
		_ = db.Close()

		return nil, err
	}

	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached payload for key if it is younger than maxAge.
// The second return is false on miss or expiry.
func (c *Cache) Get(key string, maxAge time.Duration) (json.RawMessage, bool, error) {
	var payload json.RawMessage

	err := c.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(bucketResponses)).Get([]byte(key))
		if raw == nil {
			return nil
		}

		var e entry
		if err := json.Unmarshal(raw, &e); err != nil {
			// Treat undecodable entries as misses; they get overwritten.
			return nil
		}

		if time.Since(e.StoredAt) > maxAge {
			return nil
		}

		payload = e.Payload

		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return payload, payload != nil, nil
}

// Put stores a payload for key, replacing any previous entry.
func (c *Cache) Put(key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(entry{Payload: data, StoredAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketResponses)).Put([]byte(key), raw)
	})
}
