package remote

import (
	"context"
	"log"
	"sync"
)

// notifier fans committed changes out to live subscriptions. After a commit
// touching a collection it re-runs every registered query against the store
// and pushes the full result set, matching the subscription contract.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	query Query
	fn    func(docs []Document)
}

func (n *notifier) subscribe(q Query, fn func(docs []Document)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]subscription)
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = subscription{query: q, fn: fn}
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// dispatch pushes current result sets for every subscription on the touched
// collections. Queries run against the store after the commit, so each push
// is a consistent full snapshot.
func (n *notifier) dispatch(store Store, touched map[string]bool) {
	n.mu.Lock()
	targets := make([]subscription, 0, len(n.subs))
	for _, sub := range n.subs {
		if touched[sub.query.Collection] {
			targets = append(targets, sub)
		}
	}
	n.mu.Unlock()

	for _, sub := range targets {
		docs, err := store.Query(context.Background(), sub.query)
		if err != nil {
			log.Printf("subscription query on %s failed: %v", sub.query.Collection, err)
			continue
		}
		sub.fn(docs)
	}
}
