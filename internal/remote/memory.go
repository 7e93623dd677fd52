package remote

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used in dev mode and by tests. One mutex
// guards all collections, so transactions are trivially serializable.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	notifier    notifier
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]any)}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getLocked(collection, id)
}

func (s *MemoryStore) getLocked(collection, id string) (Document, error) {
	data, ok := s.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: cloneData(data)}, nil
}

func (s *MemoryStore) Query(_ context.Context, q Query) ([]Document, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []Document
	for id, data := range s.collections[q.Collection] {
		doc := Document{ID: id, Data: data}
		if matches(q, doc) {
			docs = append(docs, Document{ID: id, Data: cloneData(data)})
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, data map[string]any) error {
	s.mu.Lock()
	s.setLocked(collection, id, data)
	s.mu.Unlock()
	s.notifier.dispatch(s, map[string]bool{collection: true})
	return nil
}

func (s *MemoryStore) setLocked(collection, id string, data map[string]any) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]any)
	}
	s.collections[collection][id] = resolveTimestamps(cloneData(data))
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	if err := s.updateLocked(collection, id, fields); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	s.notifier.dispatch(s, map[string]bool{collection: true})
	return nil
}

func (s *MemoryStore) updateLocked(collection, id string, fields map[string]any) error {
	data, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range resolveTimestamps(cloneData(fields)) {
		data[k] = v
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	delete(s.collections[collection], id)
	s.mu.Unlock()
	s.notifier.dispatch(s, map[string]bool{collection: true})
	return nil
}

// memTx buffers writes; they apply only when the callback returns nil.
type memTx struct {
	store  *MemoryStore
	writes []memWrite
}

type memWrite struct {
	collection string
	id         string
	data       map[string]any
	update     bool
}

func (t *memTx) Get(collection, id string) (Document, error) {
	return t.store.getLocked(collection, id)
}

func (t *memTx) Set(collection, id string, data map[string]any) {
	t.writes = append(t.writes, memWrite{collection: collection, id: id, data: cloneData(data)})
}

func (t *memTx) Update(collection, id string, fields map[string]any) {
	t.writes = append(t.writes, memWrite{collection: collection, id: id, data: cloneData(fields), update: true})
}

// RunTransaction holds the store lock for the whole callback: reads see
// committed state, buffered writes commit together or not at all.
func (s *MemoryStore) RunTransaction(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	tx := &memTx{store: s}
	if err := fn(tx); err != nil {
		s.mu.Unlock()
		return err
	}

	// Verify every update target before applying anything: a miss halfway
	// through the apply loop would leave a partial commit behind. A Set
	// earlier in the same transaction makes later updates to that id valid.
	written := make(map[string]bool)
	for _, w := range tx.writes {
		key := w.collection + "/" + w.id
		if w.update && !written[key] {
			if _, ok := s.collections[w.collection][w.id]; !ok {
				s.mu.Unlock()
				return ErrNotFound
			}
		}
		written[key] = true
	}

	touched := make(map[string]bool)
	for _, w := range tx.writes {
		if w.update {
			if err := s.updateLocked(w.collection, w.id, w.data); err != nil {
				s.mu.Unlock()
				return err
			}
		} else {
			s.setLocked(w.collection, w.id, w.data)
		}
		touched[w.collection] = true
	}
	s.mu.Unlock()
	s.notifier.dispatch(s, touched)
	return nil
}

func (s *MemoryStore) Subscribe(q Query, fn func(docs []Document)) (func(), error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	return s.notifier.subscribe(q, fn), nil
}

// resolveTimestamps replaces ServerTimestamp sentinels with the store clock.
func resolveTimestamps(data map[string]any) map[string]any {
	for k, v := range data {
		if _, ok := v.(serverTimestamp); ok {
			data[k] = time.Now().UTC()
		}
	}
	return data
}

func cloneData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneData(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
