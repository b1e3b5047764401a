package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/codetroon/bobbin-storefront/pkg/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// AdminRoles lists the upstream roles allowed into the back office.
var AdminRoles = []string{"super_admin", "admin"}

// Claims is the admin session token payload. UpstreamToken is the bearer token
// the external commerce API issued at login; admin proxy calls replay it.
type Claims struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	UpstreamToken string `json:"upstream_token"`
	jwt.RegisteredClaims
}

// RoleAllowed reports whether the upstream role may hold an admin session.
func RoleAllowed(role string) bool {
	for _, allowed := range AdminRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Payload carries the inputs for minting a session token.
type Payload struct {
	UserID        string
	Email         string
	Name          string
	Role          string
	UpstreamToken string
	JTI           string
}

// Mint issues a signed session JWT using the configured TTL.
func Mint(cfg config.SessionConfig, now time.Time, payload Payload) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("session secret is required")
	}
	if cfg.TTLSeconds <= 0 {
		return "", fmt.Errorf("session ttl must be positive")
	}
	if !RoleAllowed(payload.Role) {
		return "", fmt.Errorf("role %q may not hold an admin session", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	claims := Claims{
		Email:         payload.Email,
		Name:          payload.Name,
		Role:          payload.Role,
		UpstreamToken: payload.UpstreamToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.UserID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Parse validates the session JWT and returns typed claims.
func Parse(cfg config.SessionConfig, tokenString string) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
