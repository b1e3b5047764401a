package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/redis"
)

// Store is the slice of the redis client the cart service depends on.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Touch(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Service persists per-session carts as JSON blobs in redis. Each read slides
// the TTL forward so an active shopper's cart survives between visits.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Add(ctx context.Context, sessionID string, item LineItem) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID, size string, quantity int) (*Cart, error)
	Remove(ctx context.Context, sessionID, productID, size string) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store Store
	ttl   time.Duration
	logg  *logger.Logger
}

func NewService(store Store, ttl time.Duration, logg *logger.Logger) Service {
	return &service{store: store, ttl: ttl, logg: logg}
}

func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !cart.IsEmpty() {
		if err := s.store.Touch(ctx, s.store.CartKey(sessionID), s.ttl); err != nil {
			s.logg.Warn(s.logg.WithCartSession(ctx, sessionID), "cart.ttl_touch_failed")
		}
	}
	return cart, nil
}

func (s *service) Add(ctx context.Context, sessionID string, item LineItem) (*Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.AddItem(item); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, productID, size string, quantity int) (*Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := cart.UpdateQuantity(productID, size, quantity); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Remove(ctx context.Context, sessionID, productID, size string) (*Cart, error) {
	cart, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.RemoveItem(productID, size)
	if err := s.save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Del(ctx, s.store.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing cart")
	}
	return nil
}

func (s *service) load(ctx context.Context, sessionID string) (*Cart, error) {
	blob, err := s.store.Get(ctx, s.store.CartKey(sessionID))
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}

	var cart Cart
	if err := json.Unmarshal([]byte(blob), &cart); err != nil {
		// A corrupt blob should not brick the session. Start fresh.
		s.logg.Warn(s.logg.WithCartSession(ctx, sessionID), "cart.blob_corrupt_reset")
		return &Cart{}, nil
	}
	return &cart, nil
}

func (s *service) save(ctx context.Context, sessionID string, cart *Cart) error {
	if cart.IsEmpty() {
		return s.Clear(ctx, sessionID)
	}
	blob, err := json.Marshal(cart)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding cart")
	}
	if err := s.store.Set(ctx, s.store.CartKey(sessionID), string(blob), s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving cart")
	}
	return nil
}
