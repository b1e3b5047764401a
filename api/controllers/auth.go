package controllers

import (
	"net/http"

	"github.com/codetroon/bobbin-storefront/api/middleware"
	"github.com/codetroon/bobbin-storefront/api/responses"
	"github.com/codetroon/bobbin-storefront/api/validators"
	"github.com/codetroon/bobbin-storefront/internal/auth"
	"github.com/codetroon/bobbin-storefront/pkg/config"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/codetroon/bobbin-storefront/pkg/session"
)

// Login authenticates against the upstream API and sets the admin-auth cookie.
func Login(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds auth.Credentials
		if err := validators.DecodeJSONBody(r, &creds); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Login(r.Context(), creds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session.WriteCookie(w, r, cfg.CookieName, sess.Token, cfg.TTLSeconds)
		responses.WriteSuccess(w, sess)
	}
}

// Logout revokes the active session and clears the cookie. Runs behind
// AdminAuth, so a session id is always on the context.
func Logout(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session.ClearCookie(w, r, cfg.CookieName)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
