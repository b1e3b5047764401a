package controllers

import (
	"net/http"

	"github.com/codetroon/bobbin-storefront/api/middleware"
	"github.com/codetroon/bobbin-storefront/api/responses"
	"github.com/codetroon/bobbin-storefront/api/validators"
	"github.com/codetroon/bobbin-storefront/internal/cart"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/shopspring/decimal"
)

// cartItemRequest is the add-to-cart body.
type cartItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Image     string          `json:"image"`
	Size      string          `json:"size" validate:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
}

// cartQuantityRequest updates one line's quantity. Zero or below removes it.
type cartQuantityRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// cartView is the cart as the storefront renders it.
type cartView struct {
	Items []cart.LineItem `json:"items"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

func viewOf(c *cart.Cart) cartView {
	items := c.Items
	if items == nil {
		items = []cart.LineItem{}
	}
	return cartView{Items: items, Count: c.ItemCount(), Total: c.Total()}
}

func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, err := svc.Get(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(current))
	}
}

func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Add(r.Context(), middleware.CartSessionFromContext(r.Context()), cart.LineItem{
			ProductID: body.ProductID,
			Name:      body.Name,
			Image:     body.Image,
			Size:      body.Size,
			UnitPrice: body.UnitPrice,
			Quantity:  body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, viewOf(updated))
	}
}

func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateQuantity(r.Context(), middleware.CartSessionFromContext(r.Context()), body.ProductID, body.Size, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(updated))
	}
}

// RemoveCartItem removes one line; the target is addressed by query so DELETE
// requests stay body-less.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := validators.QueryString(r, "productId")
		size := validators.QueryString(r, "size")
		if productID == "" || size == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "productId and size are required"))
			return
		}

		updated, err := svc.Remove(r.Context(), middleware.CartSessionFromContext(r.Context()), productID, size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(updated))
	}
}

func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), middleware.CartSessionFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(&cart.Cart{}))
	}
}
