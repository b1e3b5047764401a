package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codetroon/bobbin-storefront/internal/upstream"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
)

// Hero is the storefront landing banner.
type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
}

// HeroInput updates the banner. All fields required; the banner is replaced
// whole, never patched.
type HeroInput struct {
	Title    string `json:"title" validate:"required"`
	Subtitle string `json:"subtitle" validate:"required"`
	ImageURL string `json:"imageUrl" validate:"required"`
}

// SizeGuide is one sizing chart image attached to a category.
type SizeGuide struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	ImageURL   string    `json:"imageUrl"`
	CategoryID string    `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SizeGuideInput carries create/update fields. Pointers are omitted from the
// upstream PATCH when nil.
type SizeGuideInput struct {
	Title      *string `json:"title,omitempty"`
	ImageURL   *string `json:"imageUrl,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
}

// Service is a thin typed proxy over the upstream content endpoints.
type Service interface {
	GetHero(ctx context.Context) (*Hero, error)
	UpdateHero(ctx context.Context, token string, input HeroInput) (*Hero, error)

	ListSizeGuides(ctx context.Context, categoryID string) ([]SizeGuide, error)
	CreateSizeGuide(ctx context.Context, token string, input SizeGuideInput) (*SizeGuide, error)
	UpdateSizeGuide(ctx context.Context, token, id string, input SizeGuideInput) (*SizeGuide, error)
	DeleteSizeGuide(ctx context.Context, token, id string) error
}

type service struct {
	api  upstream.Doer
	logg *logger.Logger
}

func NewService(api upstream.Doer, logg *logger.Logger) Service {
	return &service{api: api, logg: logg}
}

func (s *service) GetHero(ctx context.Context) (*Hero, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{Method: http.MethodGet, Path: "/hero"}, &raw)
	if err != nil {
		return nil, err
	}
	var hero Hero
	if err := unwrap(raw, &hero); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed hero record")
	}
	return &hero, nil
}

func (s *service) UpdateHero(ctx context.Context, token string, input HeroInput) (*Hero, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Subtitle) == "" || strings.TrimSpace(input.ImageURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title, subtitle and imageUrl are required")
	}

	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodPut,
		Path:   "/hero",
		Body:   input,
		Token:  token,
	}, &raw)
	if err != nil {
		return nil, err
	}
	var hero Hero
	if err := unwrap(raw, &hero); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed hero record")
	}
	s.logg.Info(ctx, "content.hero_updated")
	return &hero, nil
}

func (s *service) ListSizeGuides(ctx context.Context, categoryID string) ([]SizeGuide, error) {
	query := url.Values{}
	if categoryID != "" {
		query.Set("categoryId", categoryID)
	}

	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/size-guides",
		Query:  query,
	}, &raw)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var guides []SizeGuide
		if err := json.Unmarshal([]byte(trimmed), &guides); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed size guide listing")
		}
		return guides, nil
	}
	var wrapped struct {
		Data []SizeGuide `json:"data"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed size guide listing")
	}
	return wrapped.Data, nil
}

func (s *service) CreateSizeGuide(ctx context.Context, token string, input SizeGuideInput) (*SizeGuide, error) {
	return s.writeSizeGuide(ctx, http.MethodPost, "/size-guides", token, input)
}

func (s *service) UpdateSizeGuide(ctx context.Context, token, id string, input SizeGuideInput) (*SizeGuide, error) {
	return s.writeSizeGuide(ctx, http.MethodPatch, "/size-guides/"+url.PathEscape(id), token, input)
}

func (s *service) writeSizeGuide(ctx context.Context, method, path, token string, input SizeGuideInput) (*SizeGuide, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{Method: method, Path: path, Body: input, Token: token}, &raw)
	if err != nil {
		return nil, err
	}
	var guide SizeGuide
	if err := unwrap(raw, &guide); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed size guide record")
	}
	return &guide, nil
}

func (s *service) DeleteSizeGuide(ctx context.Context, token, id string) error {
	return s.api.Do(ctx, upstream.Request{
		Method: http.MethodDelete,
		Path:   "/size-guides/" + url.PathEscape(id),
		Token:  token,
	}, nil)
}

func unwrap(raw json.RawMessage, out any) error {
	trimmed := strings.TrimSpace(string(raw))
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && len(wrapped.Data) > 0 {
		trimmed = string(wrapped.Data)
	}
	return json.Unmarshal([]byte(trimmed), out)
}
