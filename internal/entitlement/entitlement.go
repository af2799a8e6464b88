package entitlement

import (
	"context"
	"sync"
)

// Store is the subscription-status collaborator. The core never inspects
// purchase results beyond the success boolean.
type Store interface {
	IsPremium(ctx context.Context) (bool, error)
	Purchase(ctx context.Context) (bool, error)
	Restore(ctx context.Context) (bool, error)
}

// Gate caches the premium status and answers the entitlement predicate for
// selection and deletion. It is built once by the application's startup
// sequence and injected everywhere; there is no package-level state.
type Gate struct {
	store Store

	mu      sync.RWMutex
	premium bool
}

// NewGate builds a gate over the store. The initial status is fetched with
// Refresh; a fetch error leaves the gate on the free tier.
func NewGate(ctx context.Context, store Store) *Gate {
	g := &Gate{store: store}
	_ = g.Refresh(ctx)
	return g
}

// Allowed reports whether mutating operations may proceed.
func (g *Gate) Allowed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.premium
}

// Refresh re-reads the premium status from the store.
func (g *Gate) Refresh(ctx context.Context) error {
	ok, err := g.store.IsPremium(ctx)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.premium = ok
	g.mu.Unlock()
	return nil
}

// Purchase runs the store's purchase flow and unlocks the gate on success.
func (g *Gate) Purchase(ctx context.Context) (bool, error) {
	ok, err := g.store.Purchase(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		g.mu.Lock()
		g.premium = true
		g.mu.Unlock()
	}
	return ok, nil
}

// Restore runs the store's restore flow and unlocks the gate on success.
func (g *Gate) Restore(ctx context.Context) (bool, error) {
	ok, err := g.store.Restore(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		g.mu.Lock()
		g.premium = true
		g.mu.Unlock()
	}
	return ok, nil
}

// StaticStore is a config-backed store for local runs and tests. Purchase
// and Restore always succeed, mirroring a sandbox/test storefront.
type StaticStore struct {
	mu      sync.Mutex
	premium bool
}

// NewStaticStore returns a store whose initial status comes from config.
func NewStaticStore(premium bool) *StaticStore {
	return &StaticStore{premium: premium}
}

func (s *StaticStore) IsPremium(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.premium, nil
}

func (s *StaticStore) Purchase(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.premium = true
	s.mu.Unlock()
	return true, nil
}

func (s *StaticStore) Restore(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.premium, nil
}
