package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/codetroon/bobbin-storefront/internal/upstream"
	"github.com/codetroon/bobbin-storefront/pkg/config"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/mailer"
)

// Submission is one storefront contact form post.
type Submission struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// StoredMessage is an upstream-persisted inquiry shown in the back office.
type StoredMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListFilter pages the admin message listing.
type ListFilter struct {
	Page  int
	Limit int
}

// Service handles storefront inquiries: email delivery is the contract, the
// upstream copy is best-effort bookkeeping.
type Service interface {
	Submit(ctx context.Context, sub Submission) error
	ListMessages(ctx context.Context, token string, filter ListFilter) ([]StoredMessage, error)
}

type service struct {
	mail mailer.Sender
	api  upstream.Doer
	cfg  config.ContactConfig
	logg *logger.Logger
}

func NewService(mail mailer.Sender, api upstream.Doer, cfg config.ContactConfig, logg *logger.Logger) Service {
	return &service{mail: mail, api: api, cfg: cfg, logg: logg}
}

func (s *service) Submit(ctx context.Context, sub Submission) error {
	if err := validateSubmission(sub); err != nil {
		return err
	}

	html, err := renderInquiryEmail(sub)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rendering inquiry")
	}

	emailID, err := s.mail.Send(ctx, mailer.Message{
		From:    s.cfg.Sender,
		To:      s.cfg.Recipient,
		Subject: inquirySubject(sub),
		HTML:    html,
	})
	if err != nil {
		return err
	}

	// Persist a copy upstream for the back office. The email already went out,
	// so a failure here is logged and swallowed.
	if err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   "/contact-messages",
		Body:   sub,
	}, nil); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "contact.upstream_copy_failed")
	}

	s.logg.Info(s.logg.WithField(ctx, "email_id", emailID), "contact.inquiry_sent")
	return nil
}

func (s *service) ListMessages(ctx context.Context, token string, filter ListFilter) ([]StoredMessage, error) {
	query := url.Values{}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		query.Set("limit", strconv.Itoa(filter.Limit))
	}

	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/contact-messages",
		Query:  query,
		Token:  token,
	}, &raw)
	if err != nil {
		return nil, err
	}

	messages, err := unwrapMessages(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed message listing")
	}
	return messages, nil
}

func unwrapMessages(raw json.RawMessage) ([]StoredMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		var list []StoredMessage
		if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var wrapped struct {
		Data []StoredMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Data, nil
}

func validateSubmission(sub Submission) error {
	missing := []string{}
	if strings.TrimSpace(sub.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(sub.Contact) == "" {
		missing = append(missing, "contact")
	}
	if strings.TrimSpace(sub.Message) == "" {
		missing = append(missing, "message")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"fields": missing})
	}
	return nil
}
