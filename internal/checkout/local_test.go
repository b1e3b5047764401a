package checkout

import (
	"context"
	"io"
	"testing"

	"github.com/codetroon/bobbin-storefront/pkg/config"
	"github.com/codetroon/bobbin-storefront/pkg/db"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

func newLocalTestService(t *testing.T) LocalService {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{DSN: "file::memory:?cache=shared", Driver: "sqlite", MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.DB().AutoMigrate(&Order{}, &OrderItem{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewLocalService(client, logg)
}

func localInput() LocalOrderInput {
	return LocalOrderInput{
		CustomerName: "Ada",
		Address:      "1 Main St",
		Contact:      "0123456789",
		Items: []LocalItemInput{
			{ProductID: "p1", Size: "M", Qty: 2, UnitPrice: decimal.RequireFromString("499.50")},
			{ProductID: "p2", Size: "OS", Qty: 1, UnitPrice: decimal.NewFromInt(250)},
		},
	}
}

func TestLocalCreatePersistsOrderAndItems(t *testing.T) {
	svc := newLocalTestService(t)

	created, err := svc.Create(context.Background(), localInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != "received" {
		t.Fatalf("local orders start as received, got %q", created.Status)
	}
	if want := decimal.RequireFromString("1249.00"); !created.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, created.Total)
	}

	loaded, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(loaded.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(loaded.Items))
	}
	for _, item := range loaded.Items {
		want := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Qty)))
		if !item.LineTotal.Equal(want) {
			t.Fatalf("line total mismatch: %s vs %s", item.LineTotal, want)
		}
	}
}

func TestLocalCreateValidates(t *testing.T) {
	svc := newLocalTestService(t)

	bad := localInput()
	bad.CustomerName = " "
	_, err := svc.Create(context.Background(), bad)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	empty := localInput()
	empty.Items = nil
	if _, err := svc.Create(context.Background(), empty); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for empty items, got %v", err)
	}
}

func TestLocalGetMissing(t *testing.T) {
	svc := newLocalTestService(t)

	_, err := svc.Get(context.Background(), "nope")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
