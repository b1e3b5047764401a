package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/codetroon/bobbin-storefront/internal/upstream"
	"github.com/codetroon/bobbin-storefront/pkg/enums"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// Order is one upstream order record as shown in the back office.
type Order struct {
	ID            string            `json:"id"`
	CustomerName  string            `json:"customerName"`
	Address       string            `json:"address"`
	ContactNumber string            `json:"contactNumber"`
	ProductID     string            `json:"productId"`
	Size          string            `json:"size,omitempty"`
	Quantity      int               `json:"quantity,omitempty"`
	TotalPrice    decimal.Decimal   `json:"totalPrice"`
	Status        enums.OrderStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// ListFilter narrows the admin order listing.
type ListFilter struct {
	Page   int
	Limit  int
	Status string
}

// Page is one page of orders plus the upstream pagination block when present.
type Page struct {
	Orders []Order
	Total  int
	Page   int
	Limit  int
}

// Service proxies the upstream order endpoints for the back office. Status
// moves are a flat set: any of the five labels can be set from any other, and
// the client re-fetches the list after an update rather than trusting an
// optimistic mutation.
type Service interface {
	List(ctx context.Context, token string, filter ListFilter) (*Page, error)
	SetStatus(ctx context.Context, token, id string, status string) (*Order, error)
}

type service struct {
	api  upstream.Doer
	logg *logger.Logger
}

func NewService(api upstream.Doer, logg *logger.Logger) Service {
	return &service{api: api, logg: logg}
}

func (s *service) List(ctx context.Context, token string, filter ListFilter) (*Page, error) {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Status != "" {
		if _, err := enums.ParseOrderStatus(filter.Status); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
				WithDetails(map[string]any{"status": filter.Status, "allowed": enums.OrderStatuses()})
		}
		query.Set("status", filter.Status)
	}

	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/orders",
		Query:  query,
		Token:  token,
	}, &raw)
	if err != nil {
		return nil, err
	}

	items, meta, err := unwrapList(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected upstream response")
	}

	var list []Order
	if err := json.Unmarshal(items, &list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed order listing")
	}

	page := &Page{Orders: list, Total: len(list), Page: filter.Page, Limit: filter.Limit}
	if meta != nil {
		page.Total = meta.Total
		page.Page = meta.Page
		page.Limit = meta.Limit
	}
	return page, nil
}

// SetStatus moves an order to any of the five labels. Membership is the only
// guard; there is deliberately no transition matrix, so a delivered order can
// be pushed back to pending when a delivery gets disputed.
func (s *service) SetStatus(ctx context.Context, token, id string, status string) (*Order, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status").
			WithDetails(map[string]any{"status": status, "allowed": enums.OrderStatuses()})
	}

	body := map[string]string{"status": string(parsed)}
	var raw json.RawMessage
	err = s.api.Do(ctx, upstream.Request{
		Method: http.MethodPatch,
		Path:   "/orders/" + url.PathEscape(id),
		Body:   body,
		Token:  token,
	}, &raw)
	if err != nil {
		return nil, err
	}

	var updated Order
	if err := unwrapObject(raw, &updated); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed order record")
	}
	if updated.ID == "" {
		updated.ID = id
		updated.Status = parsed
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": id,
		"status":   string(parsed),
	}), "orders.status_updated")
	return &updated, nil
}
