package llm

import "context"

// Call describes why a request is made. It is carried on the context so
// the retry and logging wrappers can label the request without the
// Provider interface knowing about it.
type Call struct {
	// Purpose is a short label such as "session-advice".
	Purpose string
	// SessionID links the request to a practice session, if any.
	SessionID string
}

type callKey struct{}

// WithCall attaches c to ctx.
func WithCall(ctx context.Context, c Call) context.Context {
	return context.WithValue(ctx, callKey{}, c)
}

// CallFrom returns the Call attached to ctx. The purpose defaults to
// "unknown".
func CallFrom(ctx context.Context) Call {
	c, _ := ctx.Value(callKey{}).(Call)
	if c.Purpose == "" {
		c.Purpose = "unknown"
	}
	return c
}
