package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/codetroon/bobbin-storefront/pkg/config"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.UpstreamConfig{BaseURL: server.URL, Timeout: 2 * time.Second})
}

func TestDoDecodesSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("unexpected page %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	})

	var out map[string]any
	err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/products",
		Query:  url.Values{"page": []string{"2"}},
	}, &out)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if _, ok := out["data"]; !ok {
		t.Fatal("expected decoded data field")
	}
}

func TestDoSendsBearerToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{}`))
	})

	err := client.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "/orders",
		Token:  "tok123",
	}, nil)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestDoSurfacesUpstreamMessage(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "productId is required"})
	})

	err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/orders"}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if typed.Message() != "productId is required" {
		t.Fatalf("expected upstream message, got %q", typed.Message())
	}
}

func TestDoMapsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/products/nope"}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDoMapsUnauthorized(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/orders"}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestDoTransportFailure(t *testing.T) {
	t.Parallel()

	client := New(config.UpstreamConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	err := client.Do(context.Background(), Request{Method: http.MethodGet, Path: "/products"}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstream {
		t.Fatalf("expected upstream transport error, got %v", err)
	}
}
