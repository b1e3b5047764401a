package redis

import (
	"context"
	"testing"
	"time"

	"github.com/codetroon/bobbin-storefront/pkg/config"
	goredis "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *goredis.StatusCmd {
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeStore) Get(ctx context.Context, key string) *goredis.StringCmd {
	cmd := goredis.NewStringCmd(ctx)
	if val, ok := f.values[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(goredis.Nil)
	}
	return cmd
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *goredis.BoolCmd {
	_, ok := f.values[key]
	if ok {
		f.ttls[key] = ttl
	}
	cmd := goredis.NewBoolCmd(ctx)
	cmd.SetVal(ok)
	return cmd
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, key := range keys {
		if _, ok := f.values[key]; ok {
			delete(f.values, key)
			n++
		}
	}
	cmd := goredis.NewIntCmd(ctx)
	cmd.SetVal(n)
	return cmd
}

func TestKeyNamespacing(t *testing.T) {
	t.Parallel()

	c := NewWithStore(newFakeStore())
	if got := c.CartKey("abc"); got != "bb:cart:abc" {
		t.Fatalf("unexpected cart key %q", got)
	}
	if got := c.AdminSessionKey("xyz"); got != "bb:session:xyz" {
		t.Fatalf("unexpected session key %q", got)
	}
}

func TestSetGetDel(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	c := NewWithStore(store)
	ctx := context.Background()

	if err := c.Set(ctx, c.CartKey("s1"), `{"items":[]}`, time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := c.Get(ctx, c.CartKey("s1"))
	if err != nil || val != `{"items":[]}` {
		t.Fatalf("get: %q (%v)", val, err)
	}
	if err := c.Del(ctx, c.CartKey("s1")); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := c.Get(ctx, c.CartKey("s1")); err != Nil {
		t.Fatalf("expected Nil after delete, got %v", err)
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}
}
