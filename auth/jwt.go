package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/fingate/cache"
	"github.com/jonwraymond/fingate/fault"
)

// bearerPrefix is stripped from incoming tokens when present.
const bearerPrefix = "Bearer "

// HandlerConfig configures the JWT handler.
type HandlerConfig struct {
	// Secret is the HMAC signing secret. Required. Comes from process
	// configuration; never embed a literal secret in production code.
	Secret []byte

	// Issuer is set on created tokens and, when non-empty, required on
	// validated tokens.
	Issuer string

	// DefaultTTL is the token lifetime used when CreateToken is called
	// with a non-positive ttl.
	// Default: 1 hour
	DefaultTTL time.Duration

	// Cache, when set, memoizes successful validations by token digest.
	// Entries never outlive the token expiry. Failures are never cached.
	Cache ValidationCache
}

// ValidationCache memoizes extracted user contexts for validated tokens.
// cache.Memory[UserContext] satisfies this interface.
type ValidationCache interface {
	Get(key string) (UserContext, bool)
	Set(key string, value UserContext, ttl time.Duration)
}

// Handler issues and validates HMAC-signed tokens. Tokens are always signed
// and verified with HS256; any other algorithm is rejected.
type Handler struct {
	config HandlerConfig
}

// NewHandler creates a JWT handler.
func NewHandler(config HandlerConfig) (*Handler, error) {
	if len(config.Secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = time.Hour
	}
	return &Handler{config: config}, nil
}

// Claims is the decoded token payload.
type Claims struct {
	Username    string     `json:"username,omitempty"`
	Roles       claimList  `json:"roles,omitempty"`
	Permissions claimList  `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// claimList tolerates heterogeneous issuers: a claim may arrive as a JSON
// array or as a single string, which is wrapped into a one-element list.
type claimList []string

func (c *claimList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*c = claimList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("claim must be a string or array of strings: %w", err)
	}
	*c = claimList(many)
	return nil
}

// CreateToken builds and signs a token for the given identity. Roles and
// permissions may be nil. A non-positive ttl falls back to the configured
// default.
func (h *Handler) CreateToken(userID, username string, roles, permissions []string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("auth: user id is required")
	}
	if ttl <= 0 {
		ttl = h.config.DefaultTTL
	}

	now := time.Now().UTC()
	claims := Claims{
		Username:    username,
		Roles:       claimList(roles),
		Permissions: claimList(permissions),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    h.config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.config.Secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature and registered claims of a token,
// stripping an optional "Bearer " prefix first.
//
// Expired tokens fail with an expiry-specific authentication error; every
// other decode or signature failure reports the generic invalid-token error
// so callers cannot probe for the failure mode.
func (h *Handler) ValidateToken(token string) (*Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), bearerPrefix))
	if token == "" {
		return nil, fault.Authentication("Invalid token")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if h.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.config.Issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		return h.config.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fault.Authentication("Token has expired").WithCause(err)
		}
		return nil, fault.Authentication("Invalid token").WithCause(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fault.Authentication("Invalid token")
	}
	return claims, nil
}

// ExtractUserContext validates the token and normalizes its claims into a
// UserContext. Absent roles/permissions default to empty; an absent username
// defaults to the empty string. Defaults fail closed: a malformed claim never
// widens access.
func (h *Handler) ExtractUserContext(token string) (UserContext, error) {
	var key string
	if h.config.Cache != nil {
		key = cache.Key("jwt", token)
		if user, ok := h.config.Cache.Get(key); ok {
			return user, nil
		}
	}

	claims, err := h.ValidateToken(token)
	if err != nil {
		return UserContext{}, err
	}

	user := UserContext{
		UserID:      claims.Subject,
		Username:    claims.Username,
		Roles:       append([]string(nil), claims.Roles...),
		Permissions: append([]string(nil), claims.Permissions...),
	}

	if h.config.Cache != nil && claims.ExpiresAt != nil {
		if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
			h.config.Cache.Set(key, user, ttl)
		}
	}
	return user, nil
}
