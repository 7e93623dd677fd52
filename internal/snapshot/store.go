// Package snapshot persists the last fetched result set so the app can
// hydrate instantly (possibly stale) before the first remote round trip.
package snapshot

import (
	"encoding/json"
	"log"

	bolt "go.etcd.io/bbolt"

	"github.com/dimondice01/finalDist-sub000/internal/model"
)

var bucketName = []byte("snapshot")

// Store keeps one JSON-serialized array per collection key in a single bbolt
// file. Dates round-trip as strict ISO-8601 strings via encoding/json.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the snapshot file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Data is the full local snapshot, one slice per collection.
type Data struct {
	Products   []model.Product
	Clients    []model.Client
	Categories []model.Category
	Promotions []model.Promotion
	Zones      []model.Zone
	Vendors    []model.Vendor
	Sales      []model.Sale
	Routes     []model.Route
}

// Save persists one collection under its key.
func (s *Store) Save(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), raw)
	})
}

// SaveAll writes every collection, one entry per key.
func (s *Store) SaveAll(d Data) error {
	entries := []struct {
		key   string
		value any
	}{
		{model.CollProducts, d.Products},
		{model.CollClients, d.Clients},
		{model.CollCategories, d.Categories},
		{model.CollPromotions, d.Promotions},
		{model.CollZones, d.Zones},
		{model.CollVendors, d.Vendors},
		{model.CollSales, d.Sales},
		{model.CollRoutes, d.Routes},
	}
	for _, e := range entries {
		if err := s.Save(e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

// LoadAll reads every collection. A missing or corrupt entry for one key
// yields an empty slice and never fails the batch; sales additionally get the
// normalization pass (discount map, original unit prices).
func (s *Store) LoadAll() Data {
	var d Data
	loadKey(s, model.CollProducts, &d.Products)
	loadKey(s, model.CollClients, &d.Clients)
	loadKey(s, model.CollCategories, &d.Categories)
	loadKey(s, model.CollPromotions, &d.Promotions)
	loadKey(s, model.CollZones, &d.Zones)
	loadKey(s, model.CollVendors, &d.Vendors)
	loadKey(s, model.CollSales, &d.Sales)
	loadKey(s, model.CollRoutes, &d.Routes)
	for i := range d.Sales {
		d.Sales[i].Normalize()
	}
	return d
}

func loadKey[T any](s *Store, key string, out *[]T) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		log.Printf("snapshot: failed to read %s: %v", key, err)
		*out = []T{}
		return
	}
	if raw == nil {
		*out = []T{}
		return
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("snapshot: corrupt entry for %s, defaulting to empty: %v", key, err)
		*out = []T{}
	}
	if *out == nil {
		// A nil slice serialized as JSON null; keep the never-nil guarantee.
		*out = []T{}
	}
}
