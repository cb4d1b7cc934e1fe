// Package store is the in-memory event journal of a running process:
// session lifecycle, attempts, difficulty transitions and LLM calls.
package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Session actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session start or end.
type SessionEventData struct {
	SessionID     string
	Learner       string
	Action        string
	Level         string
	PuzzlesTotal  int
	PuzzlesServed int
	Correct       int
	Duration      time.Duration
}

// AttemptEventData captures one answered puzzle.
type AttemptEventData struct {
	SessionID     string
	AttemptSeq    int
	Level         string
	Puzzle        string
	CorrectAnswer int
	Submitted     string
	Correct       bool
	TimeTaken     time.Duration
}

// TransitionEventData captures one difficulty decision that was applied.
type TransitionEventData struct {
	SessionID   string
	From        string
	To          string
	Kind        string
	Reason      string
	Score       float64
	Accuracy    float64
	AverageTime time.Duration
	Clamped     bool
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	// SessionID is empty for requests made outside a session.
	SessionID    string `json:"session_id,omitempty"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Purpose      string `json:"purpose"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error,omitempty"`
}

// LLMRequestRecord is a stored LLM request event.
type LLMRequestRecord struct {
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	LLMRequestEventData
}

// SessionRecord is a finished session as recorded by its end event.
type SessionRecord struct {
	SessionID     string        `json:"session_id"`
	Learner       string        `json:"learner"`
	FinalLevel    string        `json:"final_level"`
	PuzzlesTotal  int           `json:"puzzles_total"`
	PuzzlesServed int           `json:"puzzles_served"`
	Correct       int           `json:"correct"`
	Duration      time.Duration `json:"duration"`
	EndedAt       time.Time     `json:"ended_at"`
}

// Event kinds in a timeline.
const (
	KindSession    = "session"
	KindAttempt    = "attempt"
	KindTransition = "transition"
)

// TimelineEvent is one entry of a session's journal, in sequence order.
type TimelineEvent struct {
	Sequence  int64     `json:"sequence"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Summary   string    `json:"summary"`
}

// EventRepo provides append and query access to journal events.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAttempt records an answered puzzle.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// AppendTransition records an applied difficulty decision.
	AppendTransition(ctx context.Context, data TransitionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events matching opts in sequence order.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error)

	// Timeline returns every event of a session in sequence order.
	Timeline(ctx context.Context, sessionID string) ([]TimelineEvent, error)

	// RecentSessions returns up to limit finished sessions, newest first.
	// An empty learner matches everyone.
	RecentSessions(ctx context.Context, learner string, limit int) ([]SessionRecord, error)
}
