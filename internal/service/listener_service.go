package service

import (
	"log"
	"sync"
	"time"

	"github.com/dimondice01/finalDist-sub000/internal/mapper"
	"github.com/dimondice01/finalDist-sub000/internal/model"
	"github.com/dimondice01/finalDist-sub000/internal/remote"
	"github.com/dimondice01/finalDist-sub000/internal/state"
)

// resyncInterval is the placeholder cadence for forcing a full refresh while
// listening. The tick only fires the Resync hook when one is installed.
const resyncInterval = 120 * time.Second

// ListenerService keeps a subset of collections live for Seller vendors:
// products, categories and active promotions each get an independent
// subscription whose pushes replace the matching in-memory slice wholesale.
type ListenerService struct {
	remote remote.Store
	state  *state.Store

	// Resync, when set, runs on every resyncInterval tick while listening.
	Resync func()

	mu                 sync.Mutex
	active             bool
	unsubscribeProduct func()
	unsubscribeCat     func()
	unsubscribePromo   func()
	stopTicker         chan struct{}
}

func NewListenerService(store remote.Store, st *state.Store) *ListenerService {
	return &ListenerService{
		remote: store,
		state:  st,
		// No-op defaults keep Stop safe before any Start.
		unsubscribeProduct: func() {},
		unsubscribeCat:     func() {},
		unsubscribePromo:   func() {},
	}
}

// Start establishes the subscriptions. It is a no-op for non-Seller ranks,
// before the initial snapshot load has completed, or when already active.
func (l *ListenerService) Start(vendor model.Vendor) error {
	if vendor.Rank != model.RankSeller {
		return nil
	}
	if !l.state.IsInitialDataLoaded() {
		log.Printf("listener: initial data not loaded yet, not subscribing")
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return nil
	}

	unsubProducts, err := l.remote.Subscribe(remote.C(model.CollProducts), func(docs []remote.Document) {
		l.state.SetProducts(mapPresent(docs, mapper.Product))
	})
	if err != nil {
		return err
	}
	unsubCategories, err := l.remote.Subscribe(remote.C(model.CollCategories), func(docs []remote.Document) {
		l.state.SetCategories(mapPresent(docs, mapper.Category))
	})
	if err != nil {
		unsubProducts()
		return err
	}
	unsubPromotions, err := l.remote.Subscribe(
		remote.C(model.CollPromotions).Where("status", "==", model.PromotionActive),
		func(docs []remote.Document) {
			l.state.SetPromotions(mapPresent(docs, mapper.Promotion))
		})
	if err != nil {
		unsubProducts()
		unsubCategories()
		return err
	}

	l.unsubscribeProduct = unsubProducts
	l.unsubscribeCat = unsubCategories
	l.unsubscribePromo = unsubPromotions

	stop := make(chan struct{})
	l.stopTicker = stop
	go func() {
		ticker := time.NewTicker(resyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if l.Resync != nil {
					l.Resync()
				}
			case <-stop:
				return
			}
		}
	}()

	l.active = true
	log.Printf("listener: live subscriptions established for vendor %s", vendor.ID)
	return nil
}

// Stop tears everything down. Safe to call repeatedly and before Start.
func (l *ListenerService) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.unsubscribeProduct()
	l.unsubscribeCat()
	l.unsubscribePromo()
	l.unsubscribeProduct = func() {}
	l.unsubscribeCat = func() {}
	l.unsubscribePromo = func() {}

	if l.stopTicker != nil {
		close(l.stopTicker)
		l.stopTicker = nil
	}
	l.active = false
}

// mapPresent maps documents, dropping any record missing an id.
func mapPresent[T any](docs []remote.Document, fn func(remote.Document) T) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			continue
		}
		out = append(out, fn(doc))
	}
	return out
}
