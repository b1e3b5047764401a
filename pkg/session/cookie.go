package session

import (
	"net/http"
)

// WriteCookie sets the admin-auth cookie with the flag set the admin dashboard
// expects: path=/; max-age=86400 (the session TTL); SameSite=Lax; Secure only
// over TLS.
func WriteCookie(w http.ResponseWriter, r *http.Request, name, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		HttpOnly: true,
	})
}

// ClearCookie expires the admin-auth cookie.
func ClearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
		HttpOnly: true,
	})
}
