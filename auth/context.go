package auth

import "context"

type contextKey int

const (
	userContextKey contextKey = iota
	bearerTokenKey
)

// WithUserContext returns a context carrying the authenticated caller.
func WithUserContext(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserContextFrom retrieves the authenticated caller from the context.
// The second return is false when no caller is attached.
func UserContextFrom(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	return user, ok
}

// UserIDFrom retrieves the caller's user ID, or empty string.
func UserIDFrom(ctx context.Context) string {
	user, _ := UserContextFrom(ctx)
	return user.UserID
}

// WithBearerToken returns a context carrying the caller's raw bearer token,
// for forwarding to downstream services.
func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerTokenKey, token)
}

// BearerTokenFrom retrieves the raw bearer token, or empty string.
func BearerTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(bearerTokenKey).(string)
	return token
}
