package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/codetroon/bobbin-storefront/internal/cart"
	"github.com/codetroon/bobbin-storefront/internal/upstream"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const submittedStatus = "pending"

// ShippingForm is the buyer-supplied checkout input.
type ShippingForm struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}

// orderPayload is the upstream order-creation body, one per cart line.
type orderPayload struct {
	CustomerName  string          `json:"customerName"`
	Address       string          `json:"address"`
	ContactNumber string          `json:"contactNumber"`
	ProductID     string          `json:"productId"`
	Size          string          `json:"size"`
	Quantity      int             `json:"quantity"`
	TotalPrice    json.RawMessage `json:"totalPrice"`
	Status        string          `json:"status"`
}

// LineFailure records one cart line whose upstream submission failed.
type LineFailure struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Reason    string `json:"reason"`
}

// Result reports the batch outcome. OrderIDs holds every order that was
// created upstream even when other lines failed, so support can reconcile a
// partial batch.
type Result struct {
	OrderIDs []string      `json:"orderIds"`
	Failures []LineFailure `json:"failures,omitempty"`
}

// Service submits the session cart as a batch of upstream orders.
type Service interface {
	PlaceOrder(ctx context.Context, sessionID string, form ShippingForm) (*Result, error)
}

type service struct {
	carts         cart.Service
	api           upstream.Doer
	maxConcurrent int
	logg          *logger.Logger
}

func NewService(carts cart.Service, api upstream.Doer, maxConcurrent int, logg *logger.Logger) Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &service{carts: carts, api: api, maxConcurrent: maxConcurrent, logg: logg}
}

// PlaceOrder loads the cart, submits one upstream order per line, and clears
// the cart only when every line succeeded. On any failure the cart is left
// untouched so the buyer can retry the whole batch.
func (s *service) PlaceOrder(ctx context.Context, sessionID string, form ShippingForm) (*Result, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}

	current, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeCartEmpty, "your cart is empty")
	}

	type lineOutcome struct {
		orderID string
		err     error
	}
	outcomes := make([]lineOutcome, len(current.Items))

	// No inter-order ordering is promised; submissions settle independently and
	// a failed line never cancels its siblings.
	var group errgroup.Group
	group.SetLimit(s.maxConcurrent)
	var mu sync.Mutex
	for i, item := range current.Items {
		i, item := i, item
		group.Go(func() error {
			id, err := s.submitLine(ctx, form, item)
			mu.Lock()
			outcomes[i] = lineOutcome{orderID: id, err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()

	result := &Result{}
	var failed error
	for i, outcome := range outcomes {
		if outcome.err != nil {
			failed = multierr.Append(failed, outcome.err)
			result.Failures = append(result.Failures, LineFailure{
				ProductID: current.Items[i].ProductID,
				Size:      current.Items[i].Size,
				Reason:    publicReason(outcome.err),
			})
			continue
		}
		result.OrderIDs = append(result.OrderIDs, outcome.orderID)
	}
	sort.Strings(result.OrderIDs)

	if failed != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"cart_session": sessionID,
			"lines":        len(current.Items),
			"failed":       len(result.Failures),
		})
		s.logg.Error(ctx, "checkout.batch_failed", failed)
		if len(result.OrderIDs) > 0 {
			return result, pkgerrors.Wrap(pkgerrors.CodePartialCheckout, failed, "some items could not be ordered")
		}
		return result, pkgerrors.Wrap(pkgerrors.CodeUpstream, failed, "an error occurred, please try again")
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		// Orders exist upstream; a stale cart is recoverable, a lost batch is not.
		s.logg.Error(s.logg.WithCartSession(ctx, sessionID), "checkout.cart_clear_failed", err)
	}
	return result, nil
}

func (s *service) submitLine(ctx context.Context, form ShippingForm, item cart.LineItem) (string, error) {
	payload := orderPayload{
		CustomerName:  form.Name,
		Address:       form.Address,
		ContactNumber: form.Contact,
		ProductID:     item.ProductID,
		Size:          item.Size,
		Quantity:      item.Quantity,
		TotalPrice:    json.RawMessage(item.LineTotal().String()),
		Status:        submittedStatus,
	}

	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   payload,
	}, &raw)
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		raw = wrapped.Data
	}
	if err := json.Unmarshal(raw, &created); err != nil || created.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeUpstream, "unexpected upstream response")
	}
	return created.ID, nil
}

func validateForm(form ShippingForm) error {
	missing := []string{}
	if strings.TrimSpace(form.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(form.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(form.Contact) == "" {
		missing = append(missing, "contact")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}

func publicReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return "an error occurred, please try again"
}
