package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/codetroon/bobbin-storefront/internal/upstream"
	"github.com/codetroon/bobbin-storefront/pkg/config"
	pkgerrors "github.com/codetroon/bobbin-storefront/pkg/errors"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/redis"
	"github.com/codetroon/bobbin-storefront/pkg/session"
	"github.com/google/uuid"
)

// User is the upstream account behind an admin session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is a freshly minted back-office session.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionStore is the redis slice the auth service needs to register and
// revoke session ids.
type SessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AdminSessionKey(sessionID string) string
}

// Service owns the admin login lifecycle: authenticate against the upstream
// API, gate on role, mint the local session JWT, and keep a revocable session
// registry so logout actually ends the session server-side.
type Service interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	Logout(ctx context.Context, jti string) error
	HasSession(ctx context.Context, jti string) (bool, error)
}

type service struct {
	api   upstream.Doer
	store SessionStore
	cfg   config.SessionConfig
	logg  *logger.Logger
	now   func() time.Time
}

func NewService(api upstream.Doer, store SessionStore, cfg config.SessionConfig, logg *logger.Logger) Service {
	return &service{api: api, store: store, cfg: cfg, logg: logg, now: time.Now}
}

// loginResponse is the upstream /auth/login success payload.
type loginResponse struct {
	Data struct {
		User        User   `json:"user"`
		AccessToken string `json:"accessToken"`
	} `json:"data"`
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

func (s *service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	var raw json.RawMessage
	err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]string{"email": creds.Email, "password": creds.Password},
	}, &raw)
	if err != nil {
		return nil, err
	}

	var decoded loginResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "unexpected upstream response")
	}
	user := decoded.Data.User
	accessToken := decoded.Data.AccessToken
	if accessToken == "" && decoded.User != nil {
		user = *decoded.User
		accessToken = decoded.AccessToken
	}
	if accessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "unexpected upstream response")
	}

	if !session.RoleAllowed(user.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Insufficient permissions")
	}

	jti := uuid.NewString()
	now := s.now()
	token, err := session.Mint(s.cfg, now, session.Payload{
		UserID:        user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role,
		UpstreamToken: accessToken,
		JTI:           jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting session token")
	}

	if err := s.store.Set(ctx, s.store.AdminSessionKey(jti), "1", s.cfg.TTL()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "registering session")
	}

	s.logg.Info(s.logg.WithAdminUser(ctx, user.Email), "auth.login_succeeded")
	return &Session{Token: token, User: user, ExpiresAt: now.Add(s.cfg.TTL())}, nil
}

// Logout revokes the session id. Revoking an unknown id is a no-op so logout
// stays idempotent.
func (s *service) Logout(ctx context.Context, jti string) error {
	if jti == "" {
		return nil
	}
	if err := s.store.Del(ctx, s.store.AdminSessionKey(jti)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

// HasSession reports whether the session id is still registered.
func (s *service) HasSession(ctx context.Context, jti string) (bool, error) {
	_, err := s.store.Get(ctx, s.store.AdminSessionKey(jti))
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checking session")
	}
	return true, nil
}
