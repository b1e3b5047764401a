package db

import (
	"context"
	"testing"

	"github.com/codetroon/bobbin-storefront/pkg/config"
)

func TestNewRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), config.DBConfig{}); err == nil {
		t.Fatal("expected error without DSN")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := config.DBConfig{DSN: "file::memory:?cache=shared", Driver: "oracle"}
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNewSQLite(t *testing.T) {
	t.Parallel()

	cfg := config.DBConfig{DSN: "file::memory:?cache=shared", Driver: "sqlite"}
	client, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
