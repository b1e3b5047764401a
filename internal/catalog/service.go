package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/codetroon/bobbin-storefront/internal/upstream"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
)

// Service is the catalog read/admin surface over the upstream commerce API.
//
// Listing calls come in two flavors with intentionally different failure
// behavior: the plain methods surface typed errors so interactive callers can
// offer a retry, while the RenderSafe variants log and degrade to empty
// results so a broken catalog fetch can never take down page generation.
type Service interface {
	ListProducts(ctx context.Context, filter ListFilter) (*ProductPage, error)
	ListProductsRenderSafe(ctx context.Context, filter ListFilter) *ProductPage
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListCategoriesRenderSafe(ctx context.Context) []Category
	ListSizes(ctx context.Context, token, productID string) ([]Size, error)

	CreateProduct(ctx context.Context, token string, input ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, token, id string, input ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, token, id string) error
	CreateCategory(ctx context.Context, token, name string) (*Category, error)
	UpdateCategory(ctx context.Context, token, id, name string) (*Category, error)
	DeleteCategory(ctx context.Context, token, id string) error
	CreateSize(ctx context.Context, token string, input SizeInput) (*Size, error)
	UpdateSize(ctx context.Context, token, id string, input SizeInput) (*Size, error)
	DeleteSize(ctx context.Context, token, id string) error
}

type service struct {
	api  upstream.Doer
	logg *logger.Logger
}

func NewService(api upstream.Doer, logg *logger.Logger) Service {
	return &service{api: api, logg: logg}
}

func (s *service) ListProducts(ctx context.Context, filter ListFilter) (*ProductPage, error) {
	page, err := s.fetchProductPage(ctx, filter)
	if err != nil {
		return nil, err
	}

	// A page beyond the last one comes back empty after a delete has shrunk
	// the list; step back one page once rather than stranding the caller on
	// an empty screen. Bounded at page 1, so this can never loop.
	if len(page.Products) == 0 && filter.Page > 1 {
		retry := filter
		retry.Page = filter.Page - 1
		return s.fetchProductPage(ctx, retry)
	}
	return page, nil
}

func (s *service) ListProductsRenderSafe(ctx context.Context, filter ListFilter) *ProductPage {
	page, err := s.ListProducts(ctx, filter)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.products.render_degraded")
		return &ProductPage{Products: []Product{}}
	}
	return page
}

func (s *service) fetchProductPage(ctx context.Context, filter ListFilter) (*ProductPage, error) {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Search != "" {
		query.Set("searchTerm", filter.Search)
	}
	if filter.CategoryID != "" {
		query.Set("categoryId", filter.CategoryID)
	}

	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/products",
		Query:  query,
	}, &raw)
	if err != nil {
		return nil, err
	}

	env, err := decodeListEnvelope(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected upstream response")
	}

	var products []Product
	if err := json.Unmarshal(env.items, &products); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed product listing")
	}

	page := &ProductPage{Products: products}
	if env.meta != nil {
		page.Meta = *env.meta
	} else {
		page.Meta = PageMeta{Total: len(products), Page: maxInt(filter.Page, 1), Limit: filter.Limit}
	}
	return page, nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/products/" + url.PathEscape(id),
	}, &raw)
	if err != nil {
		return nil, err
	}

	var product Product
	if err := decodeSingle(raw, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed product record")
	}
	if product.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product, nil
}

func (s *service) ListCategories(ctx context.Context) ([]Category, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/categories",
	}, &raw)
	if err != nil {
		return nil, err
	}

	env, err := decodeListEnvelope(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected upstream response")
	}
	var categories []Category
	if err := json.Unmarshal(env.items, &categories); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed category listing")
	}
	return categories, nil
}

func (s *service) ListCategoriesRenderSafe(ctx context.Context) []Category {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "catalog.categories.render_degraded")
		return []Category{}
	}
	return categories
}

func (s *service) ListSizes(ctx context.Context, token, productID string) ([]Size, error) {
	query := url.Values{}
	if productID != "" {
		query.Set("productId", productID)
	}

	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/sizes",
		Query:  query,
		Token:  token,
	}, &raw)
	if err != nil {
		return nil, err
	}

	env, err := decodeListEnvelope(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected upstream response")
	}
	var sizes []Size
	if err := json.Unmarshal(env.items, &sizes); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed size listing")
	}
	return sizes, nil
}

func (s *service) CreateProduct(ctx context.Context, token string, input ProductInput) (*Product, error) {
	return s.writeProduct(ctx, http.MethodPost, "/products", token, input)
}

func (s *service) UpdateProduct(ctx context.Context, token, id string, input ProductInput) (*Product, error) {
	return s.writeProduct(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), token, input)
}

func (s *service) writeProduct(ctx context.Context, method, path, token string, input ProductInput) (*Product, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{Method: method, Path: path, Body: input, Token: token}, &raw)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := decodeSingle(raw, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed product record")
	}
	return &product, nil
}

func (s *service) DeleteProduct(ctx context.Context, token, id string) error {
	return s.api.Do(ctx, upstream.Request{
		Method: http.MethodDelete,
		Path:   "/products/" + url.PathEscape(id),
		Token:  token,
	}, nil)
}

type categoryBody struct {
	Name string `json:"name"`
}

func (s *service) CreateCategory(ctx context.Context, token, name string) (*Category, error) {
	return s.writeCategory(ctx, http.MethodPost, "/categories", token, name)
}

func (s *service) UpdateCategory(ctx context.Context, token, id, name string) (*Category, error) {
	return s.writeCategory(ctx, http.MethodPatch, "/categories/"+url.PathEscape(id), token, name)
}

func (s *service) writeCategory(ctx context.Context, method, path, token, name string) (*Category, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{Method: method, Path: path, Body: categoryBody{Name: name}, Token: token}, &raw)
	if err != nil {
		return nil, err
	}
	var category Category
	if err := decodeSingle(raw, &category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed category record")
	}
	return &category, nil
}

func (s *service) DeleteCategory(ctx context.Context, token, id string) error {
	return s.api.Do(ctx, upstream.Request{
		Method: http.MethodDelete,
		Path:   "/categories/" + url.PathEscape(id),
		Token:  token,
	}, nil)
}

func (s *service) CreateSize(ctx context.Context, token string, input SizeInput) (*Size, error) {
	return s.writeSize(ctx, http.MethodPost, "/sizes", token, input)
}

func (s *service) UpdateSize(ctx context.Context, token, id string, input SizeInput) (*Size, error) {
	return s.writeSize(ctx, http.MethodPatch, "/sizes/"+url.PathEscape(id), token, input)
}

func (s *service) writeSize(ctx context.Context, method, path, token string, input SizeInput) (*Size, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{Method: method, Path: path, Body: input, Token: token}, &raw)
	if err != nil {
		return nil, err
	}
	var size Size
	if err := decodeSingle(raw, &size); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed size record")
	}
	return &size, nil
}

func (s *service) DeleteSize(ctx context.Context, token, id string) error {
	return s.api.Do(ctx, upstream.Request{
		Method: http.MethodDelete,
		Path:   "/sizes/" + url.PathEscape(id),
		Token:  token,
	}, nil)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
