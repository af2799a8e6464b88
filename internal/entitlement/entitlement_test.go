package entitlement

import (
	"context"
	"errors"
	"testing"
)

type failingStore struct{}

func (failingStore) IsPremium(ctx context.Context) (bool, error) {
	return false, errors.New("store unavailable")
}
func (failingStore) Purchase(ctx context.Context) (bool, error) {
	return false, errors.New("store unavailable")
}
func (failingStore) Restore(ctx context.Context) (bool, error) {
	return false, errors.New("store unavailable")
}

func TestGateFreeByDefault(t *testing.T) {
	g := NewGate(context.Background(), NewStaticStore(false))
	if g.Allowed() {
		t.Fatal("free tier must not be allowed")
	}
}

func TestGatePremium(t *testing.T) {
	g := NewGate(context.Background(), NewStaticStore(true))
	if !g.Allowed() {
		t.Fatal("premium tier must be allowed")
	}
}

func TestPurchaseUnlocks(t *testing.T) {
	g := NewGate(context.Background(), NewStaticStore(false))
	ok, err := g.Purchase(context.Background())
	if err != nil || !ok {
		t.Fatalf("Purchase: ok=%v err=%v", ok, err)
	}
	if !g.Allowed() {
		t.Fatal("gate should be open after purchase")
	}
}

func TestRestoreWithoutPriorPurchase(t *testing.T) {
	g := NewGate(context.Background(), NewStaticStore(false))
	ok, err := g.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if ok || g.Allowed() {
		t.Fatal("restore with nothing to restore must not unlock")
	}
}

func TestStoreErrorLeavesGateClosed(t *testing.T) {
	g := NewGate(context.Background(), failingStore{})
	if g.Allowed() {
		t.Fatal("store error should leave the gate on the free tier")
	}
	if _, err := g.Purchase(context.Background()); err == nil {
		t.Fatal("expected purchase error")
	}
	if g.Allowed() {
		t.Fatal("failed purchase must not unlock")
	}
}
