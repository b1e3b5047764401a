package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codetroon/bobbin-storefront/api/middleware"
	"github.com/codetroon/bobbin-storefront/api/responses"
	"github.com/codetroon/bobbin-storefront/api/validators"
	"github.com/codetroon/bobbin-storefront/internal/orders"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/types"
)

func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", defaultPageLimit, 1, maxPageLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), middleware.UpstreamTokenFromContext(r.Context()), orders.ListFilter{
			Page:   page,
			Limit:  limit,
			Status: validators.QueryString(r, "status"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, list.Orders, types.PageMeta{
			Total: list.Total,
			Page:  list.Page,
			Limit: list.Limit,
		})
	}
}

// orderStatusRequest is the PATCH body for a status move.
type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.SetStatus(r.Context(),
			middleware.UpstreamTokenFromContext(r.Context()),
			chi.URLParam(r, "id"),
			body.Status,
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
