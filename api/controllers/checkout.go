package controllers

import (
	"net/http"

	"github.com/codetroon/bobbin-storefront/api/middleware"
	"github.com/codetroon/bobbin-storefront/api/responses"
	"github.com/codetroon/bobbin-storefront/api/validators"
	"github.com/codetroon/bobbin-storefront/internal/checkout"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
)

// Checkout submits the session cart as upstream orders.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form checkout.ShippingForm
		if err := validators.DecodeJSONBody(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), middleware.CartSessionFromContext(r.Context()), form)
		if err != nil {
			// A settled batch still reports what it created so the client can
			// reconcile; hang the partial result off the error details.
			if typed := pkgerrors.As(err); typed != nil && result != nil {
				typed.WithDetails(result)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
