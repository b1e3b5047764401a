package cart

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/redis"
)

// memStore is an in-memory stand-in for the redis-backed cart store.
type memStore struct {
	data    map[string]string
	touched int
	failGet error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (m *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	if m.failGet != nil {
		return "", m.failGet
	}
	blob, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return blob, nil
}

func (m *memStore) Touch(_ context.Context, _ string, _ time.Duration) error {
	m.touched++
	return nil
}

func (m *memStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memStore) CartKey(sessionID string) string { return "bb:cart:" + sessionID }

func testService(store Store) Service {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewService(store, time.Hour, logg)
}

func TestServiceRoundTripsCart(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sid", shirt("M", 2)); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := svc.Get(ctx, "sid")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", cart.Items)
	}
	if store.touched != 1 {
		t.Fatalf("reading a populated cart must slide the TTL, touched=%d", store.touched)
	}
}

func TestServiceMissingKeyIsEmptyCart(t *testing.T) {
	t.Parallel()

	svc := testService(newMemStore())
	cart, err := svc.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}
}

func TestServiceCorruptBlobResets(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.data["bb:cart:sid"] = "{not json"
	svc := testService(store)

	cart, err := svc.Get(context.Background(), "sid")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !cart.IsEmpty() {
		t.Fatalf("corrupt blob must reset to empty, got %+v", cart.Items)
	}
}

func TestServiceRemoveLastLineDeletesKey(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sid", shirt("M", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, "sid", "p1", "M", 0); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, ok := store.data["bb:cart:sid"]; ok {
		t.Fatal("emptying the cart must delete the key, not store an empty blob")
	}
}

func TestServiceStoreErrorSurfaces(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	store.failGet = errors.New("redis down")
	svc := testService(store)

	if _, err := svc.Get(context.Background(), "sid"); err == nil {
		t.Fatal("store failures must surface")
	}
}

func TestServiceClear(t *testing.T) {
	t.Parallel()

	store := newMemStore()
	svc := testService(store)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "sid", shirt("M", 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, "sid"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	cart, err := svc.Get(ctx, "sid")
	if err != nil || !cart.IsEmpty() {
		t.Fatalf("expected empty cart after clear, got %+v (%v)", cart, err)
	}
}
