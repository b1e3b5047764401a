package middleware

import "context"

type contextKey string

const (
	ctxCartSession   contextKey = "cart_session"
	ctxAdminEmail    contextKey = "admin_email"
	ctxAdminRole     contextKey = "admin_role"
	ctxUpstreamToken contextKey = "upstream_token"
	ctxSessionID     contextKey = "session_id"
)

func CartSessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxCartSession).(string); ok {
		return v
	}
	return ""
}

func AdminEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminEmail).(string); ok {
		return v
	}
	return ""
}

func AdminRoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAdminRole).(string); ok {
		return v
	}
	return ""
}

// UpstreamTokenFromContext returns the bearer token the upstream API issued at
// login, replayed on admin proxy calls.
func UpstreamTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUpstreamToken).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext returns the jti of the active admin session.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// WithCartSession injects the cart session id, for tests and the session
// middleware.
func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, sessionID)
}
