package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/codetroon/bobbin-storefront/api/responses"
	"github.com/codetroon/bobbin-storefront/api/validators"
	"github.com/codetroon/bobbin-storefront/internal/catalog"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/types"
)

const (
	defaultPageLimit = 25
	maxPageLimit     = 100
)

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := productFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var page *catalog.ProductPage
		if degradeRequested(r) {
			page = svc.ListProductsRenderSafe(r.Context(), filter)
		} else {
			page, err = svc.ListProducts(r.Context(), filter)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WritePage(w, page.Products, types.PageMeta{
			Total: page.Meta.Total,
			Page:  page.Meta.Page,
			Limit: page.Meta.Limit,
		})
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.GetProduct(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if degradeRequested(r) {
			responses.WriteSuccess(w, svc.ListCategoriesRenderSafe(r.Context()))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// ListProductSizes serves the public per-product stock view.
func ListProductSizes(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sizes, err := svc.ListSizes(r.Context(), "", chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sizes)
	}
}

// degradeRequested reports whether the caller opted into render-safe listing:
// page-render fetches prefer an empty catalog over an error page, interactive
// fetches want the typed error so they can offer a retry.
func degradeRequested(r *http.Request) bool {
	v, err := strconv.ParseBool(validators.QueryString(r, "degrade"))
	return err == nil && v
}

func productFilter(r *http.Request) (catalog.ListFilter, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1<<20)
	if err != nil {
		return catalog.ListFilter{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", defaultPageLimit, 1, maxPageLimit)
	if err != nil {
		return catalog.ListFilter{}, err
	}
	return catalog.ListFilter{
		Page:       page,
		Limit:      limit,
		Search:     validators.QueryString(r, "search"),
		CategoryID: validators.QueryString(r, "categoryId"),
	}, nil
}
