package checkout

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"sync"
	"testing"

	"github.com/codetroon/bobbin-storefront/internal/cart"
	"github.com/codetroon/bobbin-storefront/internal/upstream"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// fakeCarts serves one fixed cart and records whether it was cleared.
type fakeCarts struct {
	cart    cart.Cart
	cleared bool
}

func (f *fakeCarts) Get(context.Context, string) (*cart.Cart, error) {
	snapshot := f.cart
	return &snapshot, nil
}

func (f *fakeCarts) Add(context.Context, string, cart.LineItem) (*cart.Cart, error) {
	panic("not used")
}

func (f *fakeCarts) UpdateQuantity(context.Context, string, string, string, int) (*cart.Cart, error) {
	panic("not used")
}

func (f *fakeCarts) Remove(context.Context, string, string, string) (*cart.Cart, error) {
	panic("not used")
}

func (f *fakeCarts) Clear(context.Context, string) error {
	f.cleared = true
	return nil
}

// orderAPI accepts order submissions and fails the product ids it is told to.
type orderAPI struct {
	mu      sync.Mutex
	bodies  []orderPayload
	failFor map[string]bool
	nextID  int
}

func (a *orderAPI) Do(_ context.Context, req upstream.Request, out any) error {
	payload := req.Body.(orderPayload)

	a.mu.Lock()
	a.bodies = append(a.bodies, payload)
	a.nextID++
	id := a.nextID
	a.mu.Unlock()

	if a.failFor[payload.ProductID] {
		return pkgerrors.New(pkgerrors.CodeUpstream, "inventory exhausted")
	}
	raw := out.(*json.RawMessage)
	*raw = json.RawMessage(`{"data":{"id":"ord-` + strconv.Itoa(id) + `"}}`)
	return nil
}

func line(productID, size string, qty int, price int64) cart.LineItem {
	return cart.LineItem{
		ProductID: productID,
		Name:      "Item " + productID,
		Size:      size,
		UnitPrice: decimal.NewFromInt(price),
		Quantity:  qty,
	}
}

func validForm() ShippingForm {
	return ShippingForm{Name: "Ada", Address: "1 Main St", Contact: "0123456789"}
}

func newTestService(carts cart.Service, api upstream.Doer) Service {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewService(carts, api, 4, logg)
}

func TestPlaceOrderEmptyCartNoNetwork(t *testing.T) {
	t.Parallel()

	api := &orderAPI{}
	svc := newTestService(&fakeCarts{}, api)

	_, err := svc.PlaceOrder(context.Background(), "sid", validForm())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeCartEmpty {
		t.Fatalf("expected cart-empty error, got %v", err)
	}
	if len(api.bodies) != 0 {
		t.Fatalf("empty cart must make zero upstream calls, got %d", len(api.bodies))
	}
}

func TestPlaceOrderValidationFailureNoNetwork(t *testing.T) {
	t.Parallel()

	api := &orderAPI{}
	carts := &fakeCarts{}
	carts.cart.Items = []cart.LineItem{line("p1", "M", 1, 100)}
	svc := newTestService(carts, api)

	_, err := svc.PlaceOrder(context.Background(), "sid", ShippingForm{Name: "Ada"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(api.bodies) != 0 {
		t.Fatalf("invalid form must make zero upstream calls, got %d", len(api.bodies))
	}
}

func TestPlaceOrderOneRequestPerLine(t *testing.T) {
	t.Parallel()

	api := &orderAPI{}
	carts := &fakeCarts{}
	carts.cart.Items = []cart.LineItem{
		line("p1", "M", 2, 500),
		line("p1", "L", 1, 500),
		line("p2", "OS", 3, 250),
	}
	svc := newTestService(carts, api)

	result, err := svc.PlaceOrder(context.Background(), "sid", validForm())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if len(api.bodies) != 3 {
		t.Fatalf("expected one submission per line, got %d", len(api.bodies))
	}
	if len(result.OrderIDs) != 3 || len(result.Failures) != 0 {
		t.Fatalf("unexpected result %+v", result)
	}
	if !carts.cleared {
		t.Fatal("full success must clear the cart")
	}

	totals := map[string]string{}
	for _, body := range api.bodies {
		if body.Status != "pending" {
			t.Fatalf("submitted status must be pending, got %q", body.Status)
		}
		if body.CustomerName != "Ada" || body.ContactNumber != "0123456789" {
			t.Fatalf("shipping fields missing from payload %+v", body)
		}
		totals[body.ProductID+"/"+body.Size] = string(body.TotalPrice)
	}
	if totals["p1/M"] != "1000" || totals["p2/OS"] != "750" {
		t.Fatalf("line totals wrong: %v", totals)
	}
}

func TestPlaceOrderPartialFailureKeepsCart(t *testing.T) {
	t.Parallel()

	api := &orderAPI{failFor: map[string]bool{"p2": true}}
	carts := &fakeCarts{}
	carts.cart.Items = []cart.LineItem{
		line("p1", "M", 1, 500),
		line("p2", "OS", 1, 250),
	}
	svc := newTestService(carts, api)

	result, err := svc.PlaceOrder(context.Background(), "sid", validForm())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodePartialCheckout {
		t.Fatalf("expected partial checkout error, got %v", err)
	}
	if carts.cleared {
		t.Fatal("a failed batch must leave the cart untouched")
	}
	if len(result.OrderIDs) != 1 {
		t.Fatalf("result must report the created order, got %+v", result)
	}
	if len(result.Failures) != 1 || result.Failures[0].ProductID != "p2" {
		t.Fatalf("result must name the failed line, got %+v", result.Failures)
	}
}

func TestPlaceOrderTotalFailure(t *testing.T) {
	t.Parallel()

	api := &orderAPI{failFor: map[string]bool{"p1": true, "p2": true}}
	carts := &fakeCarts{}
	carts.cart.Items = []cart.LineItem{
		line("p1", "M", 1, 500),
		line("p2", "OS", 1, 250),
	}
	svc := newTestService(carts, api)

	result, err := svc.PlaceOrder(context.Background(), "sid", validForm())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstream {
		t.Fatalf("expected upstream error when every line fails, got %v", err)
	}
	if carts.cleared {
		t.Fatal("a failed batch must leave the cart untouched")
	}
	if len(result.OrderIDs) != 0 || len(result.Failures) != 2 {
		t.Fatalf("unexpected result %+v", result)
	}
}
