package auth

import "context"

// SetCallerIDForTest injects a caller ID into the context for testing purposes.
func SetCallerIDForTest(ctx context.Context, callerID string) context.Context {
	return context.WithValue(ctx, callerIDKey, callerID)
}
