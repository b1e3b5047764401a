package middleware

import (
	"net/http"

	"github.com/codetroon/bobbin-storefront/pkg/config"
	"github.com/codetroon/bobbin-storefront/pkg/logger"
	"github.com/google/uuid"
)

// CartSession assigns every storefront visitor a stable cart session id via
// the bb-cart cookie and puts it on the request context. The cookie carries no
// identity; it is just the key the cart blob lives under.
func CartSession(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(cfg.TTL.Seconds()),
					SameSite: http.SameSiteLaxMode,
					Secure:   r.TLS != nil,
					HttpOnly: true,
				})
			}

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
