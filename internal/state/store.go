// Package state owns the in-memory slices the UI reads. It replaces the
// implicit reactive globals of the original design with one explicit store:
// immutable snapshot reads plus a subscribe/notify observer feed.
package state

import (
	"sync"

	"github.com/dimondice01/finalDist-sub000/internal/model"
)

// Snapshot is an immutable copy of the full in-memory state.
type Snapshot struct {
	Products   []model.Product   `json:"products"`
	Clients    []model.Client    `json:"clients"`
	Categories []model.Category  `json:"categories"`
	Promotions []model.Promotion `json:"promotions"`
	Zones      []model.Zone      `json:"zones"`
	Vendors    []model.Vendor    `json:"vendors"`
	Sales      []model.Sale      `json:"sales"`
	Routes     []model.Route     `json:"routes"`

	IsLoading           bool `json:"isLoading"`
	IsInitialDataLoaded bool `json:"isInitialDataLoaded"`
}

// Store is the owned singleton holding current state. Writers replace whole
// slices; readers get copies and can never observe a partial replacement.
type Store struct {
	mu     sync.RWMutex
	data   Snapshot
	nextID int
	subs   map[int]func(collection string)
}

func NewStore() *Store {
	return &Store{subs: make(map[int]func(string))}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.data
	out.Products = append([]model.Product(nil), s.data.Products...)
	out.Clients = append([]model.Client(nil), s.data.Clients...)
	out.Categories = append([]model.Category(nil), s.data.Categories...)
	out.Promotions = append([]model.Promotion(nil), s.data.Promotions...)
	out.Zones = append([]model.Zone(nil), s.data.Zones...)
	out.Vendors = append([]model.Vendor(nil), s.data.Vendors...)
	out.Sales = append([]model.Sale(nil), s.data.Sales...)
	out.Routes = append([]model.Route(nil), s.data.Routes...)
	return out
}

// Subscribe registers an observer called with the name of each replaced
// collection ("*" for a full replacement). Returns an idempotent unsubscribe.
func (s *Store) Subscribe(fn func(collection string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(collection string) {
	s.mu.RLock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(collection)
	}
}

// ReplaceAll atomically swaps every collection (full refresh or hydration).
func (s *Store) ReplaceAll(data Snapshot) {
	s.mu.Lock()
	loading := s.data.IsLoading
	initial := s.data.IsInitialDataLoaded
	s.data = data
	s.data.IsLoading = loading
	s.data.IsInitialDataLoaded = initial
	s.mu.Unlock()
	s.notify("*")
}

// SetProducts replaces the products slice (realtime push).
func (s *Store) SetProducts(products []model.Product) {
	s.mu.Lock()
	s.data.Products = products
	s.mu.Unlock()
	s.notify(model.CollProducts)
}

// SetCategories replaces the categories slice (realtime push).
func (s *Store) SetCategories(categories []model.Category) {
	s.mu.Lock()
	s.data.Categories = categories
	s.mu.Unlock()
	s.notify(model.CollCategories)
}

// SetPromotions replaces the promotions slice (realtime push).
func (s *Store) SetPromotions(promotions []model.Promotion) {
	s.mu.Lock()
	s.data.Promotions = promotions
	s.mu.Unlock()
	s.notify(model.CollPromotions)
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.data.IsLoading = loading
	s.mu.Unlock()
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.IsLoading
}

// MarkInitialDataLoaded records that the local snapshot hydration completed
// at least once. It never resets.
func (s *Store) MarkInitialDataLoaded() {
	s.mu.Lock()
	s.data.IsInitialDataLoaded = true
	s.mu.Unlock()
}

func (s *Store) IsInitialDataLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.IsInitialDataLoaded
}
