package memory

import "context"

type userIDKey struct{}

// WithUserID binds the conversation's user id to ctx so tools executing
// within the exchange can scope their reads and writes.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the user id bound by WithUserID, or "".
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}
