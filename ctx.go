package accounts

import "context"

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithUserID sets the authenticated user identifier in the given context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userCtxKey, userID)
}

// UserIDFromContext finds the authenticated user identifier from the context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(userCtxKey).(string)
	return raw, ok
}
