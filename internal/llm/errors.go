package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a provider failure so the retry loop and the coach
// can decide what to do with it.
type Kind int

const (
	KindUnknown Kind = iota
	// KindRateLimited is an HTTP 429.
	KindRateLimited
	// KindUnavailable covers outages, network errors and other statuses.
	KindUnavailable
	// KindInvalid means the output is not JSON or breaks the schema.
	KindInvalid
	// KindTruncated means generation stopped at MaxTokens.
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindUnavailable:
		return "provider unavailable"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "response truncated"
	}
	return "unknown"
}

// Error is returned by every provider in this package.
type Error struct {
	Kind Kind

	// RetryAfter is set for KindRateLimited when the provider said how
	// long to wait.
	RetryAfter time.Duration

	// Content is the raw output for KindInvalid and KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func invalidErr(content json.RawMessage, err error) error {
	return &Error{Kind: KindInvalid, Content: content, Err: err}
}

// classifyStatus wraps an SDK error. A zero status means the request
// never got a response.
func classifyStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &Error{Kind: KindRateLimited, Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}
