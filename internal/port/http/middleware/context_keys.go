package middleware

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const (
	// CallerIDCtxKey holds the authenticated caller identity extracted from
	// the JWT by the Auth middleware.
	CallerIDCtxKey = ContextKey("caller_id")
)
