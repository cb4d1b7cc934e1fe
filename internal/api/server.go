// Package api serves learning sessions over a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/coach"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/store"
)

// Options configures a Server.
type Options struct {
	Table  *difficulty.Table
	Engine *adaptive.Engine

	// Events journals every session; nil disables the events endpoint.
	Events store.EventRepo

	// Coach produces summary advice; nil leaves it out.
	Coach *coach.Service

	// Lang is the default feedback language.
	Lang string

	// Session defaults for requests that omit them.
	Puzzles       int
	EvaluateEvery int

	// NewGenerator returns the puzzle source for one session. nil uses
	// the session's seeded random generator.
	NewGenerator func() puzzle.Generator

	// IdleTimeout ends and forgets a session nobody has touched for this
	// long. Zero means DefaultIdleTimeout; negative keeps sessions until
	// DELETE or shutdown.
	IdleTimeout time.Duration

	CORSOrigins []string
	Logger      *slog.Logger
	Clock       func() time.Time
}

// DefaultIdleTimeout is how long an untouched session stays registered.
const DefaultIdleTimeout = 30 * time.Minute

// entry guards one session. Record and evaluate are serialized per
// session; distinct sessions proceed in parallel.
type entry struct {
	mu   sync.Mutex
	sess *session.Session
	tr   *feedback.Translator

	// lastSeen is unix nanos of the last request for this session.
	lastSeen atomic.Int64
}

// Server holds the session registry.
type Server struct {
	opts   Options
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*entry
}

// New creates a Server.
func New(opts Options) (*Server, error) {
	if opts.Table == nil {
		opts.Table = difficulty.DefaultTable()
	}
	if opts.Engine == nil {
		e, err := adaptive.New(opts.Table, adaptive.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("api: %w", err)
		}
		opts.Engine = e
	}
	if opts.Lang == "" {
		opts.Lang = "en"
	}
	if opts.Puzzles == 0 {
		opts.Puzzles = session.DefaultPuzzles
	}
	if opts.EvaluateEvery == 0 {
		opts.EvaluateEvery = session.DefaultEvaluateEvery
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &Server{
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[string]*entry),
	}, nil
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.loggingMiddleware)
	r.Use(recoveryMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, NewNotFoundError("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, &AppError{
			Code:    ErrCodeBadRequest,
			Message: fmt.Sprintf("method %s not allowed", r.Method),
			Status:  http.StatusMethodNotAllowed,
		})
	})

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/levels", s.handleLevels)
		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/llm/requests", s.handleLLMRequests)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/puzzle", s.handleGetPuzzle)
			r.Post("/answers", s.handleSubmitAnswer)
			r.Get("/summary", s.handleSummary)
			r.Get("/events", s.handleEvents)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})
	return c.Handler(r)
}

// Serve listens on addr until ctx is canceled, then shuts down
// gracefully and ends every open session.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	if s.opts.IdleTimeout > 0 {
		go s.sweepLoop(ctx)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.endAll(shutdownCtx)
	s.logger.Info("http server stopped")
	return err
}

func (s *Server) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session", id)
	}
	e.lastSeen.Store(s.opts.Clock().UnixNano())
	return e, nil
}

func (s *Server) register(e *entry) {
	e.lastSeen.Store(s.opts.Clock().UnixNano())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[e.sess.ID()] = e
}

// Sweep ends and removes every session idle longer than IdleTimeout and
// returns how many it removed.
func (s *Server) Sweep(ctx context.Context) int {
	if s.opts.IdleTimeout <= 0 {
		return 0
	}
	cutoff := s.opts.Clock().Add(-s.opts.IdleTimeout).UnixNano()

	s.mu.Lock()
	var idle []*entry
	for id, e := range s.sessions {
		if e.lastSeen.Load() < cutoff {
			idle = append(idle, e)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, e := range idle {
		e.mu.Lock()
		e.sess.End(ctx)
		e.mu.Unlock()
		s.logger.Info("session expired", "session_id", e.sess.ID())
	}
	return len(idle)
}

func (s *Server) sweepLoop(ctx context.Context) {
	t := time.NewTicker(max(s.opts.IdleTimeout/4, time.Second))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(ctx)
		}
	}
}

func (s *Server) remove(id string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	return e, ok
}

// Len returns the number of open sessions.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) endAll(ctx context.Context) {
	s.mu.Lock()
	open := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range open {
		e.mu.Lock()
		e.sess.End(ctx)
		e.mu.Unlock()
	}
}
