package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/codetroon/bobbin-storefront/pkg/config"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
)

// Client is the typed gateway to the external commerce API that owns catalog
// and order persistence. Every call carries the configured fixed timeout via
// the underlying http.Client; admin-scoped calls replay the bearer token the
// upstream issued at login.
type Client struct {
	baseURL string
	http    *http.Client
}

// Doer is the request surface domain services depend on.
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
}

// Request describes one upstream call. A nil Body sends no payload; an empty
// Token makes the call anonymously.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Token  string
}

func New(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// errorBody is the message shape upstream attaches to non-2xx responses.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Do executes the request and decodes a 2xx response body into out when out is
// non-nil. Non-2xx responses become typed errors carrying the upstream message
// when one is present.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var payload *bytes.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encoding upstream request: %w", err)
		}
		payload = bytes.NewReader(encoded)
	} else {
		payload = bytes.NewReader(nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, payload)
	if err != nil {
		return fmt.Errorf("building upstream request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "an error occurred, please try again")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return c.errorFor(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected upstream response")
	}
	return nil
}

func (c *Client) errorFor(resp *http.Response) error {
	var decoded errorBody
	// Best effort; upstream error bodies have not always been JSON.
	_ = json.NewDecoder(resp.Body).Decode(&decoded)

	msg := decoded.Message
	if msg == "" {
		msg = decoded.Error
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		if msg == "" {
			msg = "resource not found"
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			msg = "authentication required"
		}
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msg)
	default:
		if msg == "" {
			msg = "an error occurred, please try again"
		}
		return pkgerrors.New(pkgerrors.CodeUpstream, msg).WithDetails(map[string]any{"status": resp.StatusCode})
	}
}
