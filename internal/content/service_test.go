package content

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/codetroon/bobbin-storefront/internal/upstream"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
)

type stubAPI struct {
	body  string
	err   error
	calls []upstream.Request
}

func (s *stubAPI) Do(_ context.Context, req upstream.Request, out any) error {
	s.calls = append(s.calls, req)
	if s.err != nil {
		return s.err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(s.body), out)
}

func newTestService(api upstream.Doer) Service {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewService(api, logg)
}

func TestGetHeroUnwrapsEnvelope(t *testing.T) {
	t.Parallel()

	api := &stubAPI{body: `{"data":{"title":"Summer Drop","subtitle":"New arrivals","imageUrl":"https://cdn/x.jpg"}}`}
	svc := newTestService(api)

	hero, err := svc.GetHero(context.Background())
	if err != nil {
		t.Fatalf("get hero: %v", err)
	}
	if hero.Title != "Summer Drop" || hero.ImageURL != "https://cdn/x.jpg" {
		t.Fatalf("unexpected hero %+v", hero)
	}
}

func TestUpdateHeroValidates(t *testing.T) {
	t.Parallel()

	api := &stubAPI{body: `{}`}
	svc := newTestService(api)

	_, err := svc.UpdateHero(context.Background(), "tok", HeroInput{Title: "only title"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(api.calls) != 0 {
		t.Fatal("invalid hero update must not reach upstream")
	}
}

func TestUpdateHeroReplacesWhole(t *testing.T) {
	t.Parallel()

	api := &stubAPI{body: `{"data":{"title":"T","subtitle":"S","imageUrl":"U"}}`}
	svc := newTestService(api)

	hero, err := svc.UpdateHero(context.Background(), "tok", HeroInput{Title: "T", Subtitle: "S", ImageURL: "U"})
	if err != nil {
		t.Fatalf("update hero: %v", err)
	}
	if hero.Title != "T" {
		t.Fatalf("unexpected hero %+v", hero)
	}
	call := api.calls[0]
	if call.Method != "PUT" || call.Path != "/hero" || call.Token != "tok" {
		t.Fatalf("unexpected upstream call %+v", call)
	}
}

func TestListSizeGuidesFiltersByCategory(t *testing.T) {
	t.Parallel()

	api := &stubAPI{body: `{"data":[{"id":"g1","title":"Shirts","imageUrl":"u","categoryId":"c1"}]}`}
	svc := newTestService(api)

	guides, err := svc.ListSizeGuides(context.Background(), "c1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(guides) != 1 || guides[0].ID != "g1" {
		t.Fatalf("unexpected guides %+v", guides)
	}
	if got := api.calls[0].Query.Get("categoryId"); got != "c1" {
		t.Fatalf("category filter not forwarded, got %q", got)
	}
}

func TestDeleteSizeGuideCarriesToken(t *testing.T) {
	t.Parallel()

	api := &stubAPI{}
	svc := newTestService(api)

	if err := svc.DeleteSizeGuide(context.Background(), "tok", "g1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	call := api.calls[0]
	if call.Method != "DELETE" || call.Path != "/size-guides/g1" || call.Token != "tok" {
		t.Fatalf("unexpected upstream call %+v", call)
	}
}
