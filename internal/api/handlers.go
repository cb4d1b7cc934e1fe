package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abhisek/mathpace/internal/coach"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/store"
	"github.com/abhisek/mathpace/internal/tracker"
)

type puzzleView struct {
	A      int                  `json:"a"`
	B      int                  `json:"b"`
	Op     difficulty.Operation `json:"op"`
	Symbol string               `json:"symbol"`
	Level  difficulty.Level     `json:"level"`
	Text   string               `json:"text"`
}

func newPuzzleView(p *puzzle.Puzzle) *puzzleView {
	if p == nil {
		return nil
	}
	return &puzzleView{
		A:      p.A,
		B:      p.B,
		Op:     p.Op,
		Symbol: p.Op.Symbol(),
		Level:  p.Level,
		Text:   p.Text(),
	}
}

type sessionView struct {
	ID        string           `json:"id"`
	Learner   string           `json:"learner"`
	Lang      string           `json:"lang"`
	Level     difficulty.Level `json:"level"`
	Total     int              `json:"total"`
	Answered  int              `json:"answered"`
	Remaining int              `json:"remaining"`
	Streak    int              `json:"streak"`
	Done      bool             `json:"done"`
	Ended     bool             `json:"ended"`
	Pending   *puzzleView      `json:"pending,omitempty"`
}

func newSessionView(e *entry) sessionView {
	v := sessionView{
		ID:        e.sess.ID(),
		Learner:   e.sess.Learner(),
		Lang:      e.tr.Lang(),
		Level:     e.sess.Level(),
		Total:     e.sess.Total(),
		Answered:  e.sess.Answered(),
		Remaining: e.sess.Remaining(),
		Streak:    e.sess.Streak(),
		Done:      e.sess.Done(),
		Ended:     e.sess.Ended(),
	}
	if p, ok := e.sess.Pending(); ok {
		v.Pending = newPuzzleView(p)
	}
	return v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.Len(),
	})
}

type operationView struct {
	Op     difficulty.Operation `json:"op"`
	Symbol string               `json:"symbol"`
	Range  difficulty.Range     `json:"range"`
}

type levelView struct {
	Level          difficulty.Level `json:"level"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	ExpectedTimeMs int64            `json:"expected_time_ms"`
	Operations     []operationView  `json:"operations"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = s.opts.Lang
	}
	tr := feedback.New(lang)

	var out []levelView
	for _, spec := range s.opts.Table.Specs() {
		lv := levelView{
			Level:          spec.Level,
			Name:           tr.LevelName(spec.Level),
			Description:    spec.Description,
			ExpectedTimeMs: spec.ExpectedTime.Milliseconds(),
		}
		for _, op := range s.opts.Table.AllowedOperations(spec.Level) {
			rng, _ := s.opts.Table.NumberRange(spec.Level, op)
			lv.Operations = append(lv.Operations, operationView{Op: op, Symbol: op.Symbol(), Range: rng})
		}
		out = append(out, lv)
	}
	writeJSON(w, http.StatusOK, map[string]any{"levels": out})
}

type createSessionRequest struct {
	Learner       string `json:"learner"`
	Level         string `json:"level"`
	Puzzles       int    `json:"puzzles"`
	EvaluateEvery int    `json:"evaluate_every"`
	Lang          string `json:"lang"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	log := loggerFrom(r.Context())

	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	level := difficulty.Easy
	if strings.TrimSpace(req.Level) != "" {
		l, err := difficulty.ParseLevel(req.Level)
		if err != nil {
			writeError(w, r, NewValidationError("level", err.Error()))
			return
		}
		level = l
	}

	puzzles := req.Puzzles
	if puzzles == 0 {
		puzzles = s.opts.Puzzles
	}
	if puzzles < session.MinPuzzles || puzzles > session.MaxPuzzles {
		writeError(w, r, NewValidationError("puzzles", "must be between 5 and 50"))
		return
	}
	every := req.EvaluateEvery
	if every == 0 {
		every = s.opts.EvaluateEvery
	}
	if every < 0 {
		writeError(w, r, NewValidationError("evaluate_every", "must be >= 1"))
		return
	}

	lang := req.Lang
	if lang == "" {
		lang = s.opts.Lang
	}

	opts := session.Options{
		Learner:       req.Learner,
		Level:         level,
		Puzzles:       puzzles,
		EvaluateEvery: every,
		Table:         s.opts.Table,
		Engine:        s.opts.Engine,
		Events:        s.opts.Events,
		Logger:        s.logger,
		Clock:         s.opts.Clock,
	}
	if s.opts.NewGenerator != nil {
		opts.Generator = s.opts.NewGenerator()
	}

	sess, err := session.New(r.Context(), opts)
	if err != nil {
		writeError(w, r, NewBadRequestError(err.Error()))
		return
	}
	p, err := sess.NextPuzzle(r.Context())
	if err != nil {
		writeError(w, r, NewInternalError(err))
		return
	}

	e := &entry{sess: sess, tr: feedback.New(lang)}
	s.register(e)
	log.Info("session created", "session_id", sess.ID(), "level", level.Key(), "puzzles", puzzles)

	writeJSON(w, http.StatusCreated, map[string]any{
		"session": newSessionView(e),
		"puzzle":  newPuzzleView(p),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	writeJSON(w, http.StatusOK, newSessionView(e))
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.sess.NextPuzzle(r.Context())
	if err != nil {
		writeError(w, r, fromSessionError(err))
		return
	}
	writeJSON(w, http.StatusOK, newPuzzleView(p))
}

type answerRequest struct {
	Answer    answerText `json:"answer"`
	ElapsedMs *int64     `json:"elapsed_ms"`
}

type feedbackView struct {
	Message    string `json:"message"`
	Pace       string `json:"pace,omitempty"`
	Transition string `json:"transition,omitempty"`
	Milestone  string `json:"milestone,omitempty"`
}

type answerResponse struct {
	*session.Outcome
	Feedback feedbackView `json:"feedback"`
	Next     *puzzleView  `json:"next,omitempty"`
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(string(req.Answer)) == "" {
		writeError(w, r, NewValidationError("answer", "required"))
		return
	}
	var elapsed time.Duration
	if req.ElapsedMs != nil {
		if *req.ElapsedMs <= 0 {
			writeError(w, r, NewValidationError("elapsed_ms", "must be > 0"))
			return
		}
		elapsed = time.Duration(*req.ElapsedMs) * time.Millisecond
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.sess.Submit(r.Context(), string(req.Answer), elapsed)
	if err != nil {
		writeError(w, r, fromSessionError(err))
		return
	}

	resp := answerResponse{Outcome: out, Feedback: s.feedbackFor(e.tr, out)}
	if !out.Done {
		p, err := e.sess.NextPuzzle(r.Context())
		if err != nil {
			writeError(w, r, NewInternalError(err))
			return
		}
		resp.Next = newPuzzleView(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) feedbackFor(tr *feedback.Translator, out *session.Outcome) feedbackView {
	var fb feedbackView
	if out.Correct {
		fb.Message = tr.Praise(out.Attempt.Seq)
		fb.Pace = tr.Pace(out.Attempt.TimeTaken)
	} else {
		fb.Message = tr.Encouragement(out.CorrectAnswer)
	}
	if out.Decision != nil {
		fb.Transition = tr.Transition(*out.Decision)
	}
	if out.Milestone {
		fb.Milestone = tr.StreakMilestone(out.Streak)
	}
	return fb
}

type summaryResponse struct {
	Summary        *session.Summary `json:"summary"`
	Headline       string           `json:"headline"`
	Recommendation string           `json:"recommendation"`
	Advice         *coach.Advice    `json:"advice,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	e, err := s.lookup(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	e.mu.Lock()
	sum := e.sess.Summary()
	attempts := e.sess.Attempts()
	e.mu.Unlock()

	// Advice may call a remote model, so it runs outside the session lock.
	writeJSON(w, http.StatusOK, s.summaryResponse(r, e.tr, sum, attempts))
}

func (s *Server) summaryResponse(r *http.Request, tr *feedback.Translator, sum *session.Summary, attempts []tracker.Attempt) summaryResponse {
	resp := summaryResponse{
		Summary:        sum,
		Headline:       tr.Headline(sum.Recommendation),
		Recommendation: tr.Recommendation(sum.Recommendation, sum.SuggestedLevel),
	}
	if s.opts.Coach != nil {
		resp.Advice = s.opts.Coach.AdviseOrFallback(r.Context(), coach.Input{
			Summary:  sum,
			Attempts: attempts,
			Lang:     tr.Lang(),
		})
	}
	return resp
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.lookup(id); err != nil {
		writeError(w, r, err)
		return
	}

	events := []store.TimelineEvent{}
	if s.opts.Events != nil {
		got, err := s.opts.Events.Timeline(r.Context(), id)
		if err != nil {
			writeError(w, r, NewInternalError(err))
			return
		}
		if got != nil {
			events = got
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "events": events})
}

// handleListSessions lists sessions that ended while this server has
// been running, newest first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	sessions := []store.SessionRecord{}
	if s.opts.Events != nil {
		got, err := s.opts.Events.RecentSessions(r.Context(), r.URL.Query().Get("learner"), limit)
		if err != nil {
			writeError(w, r, NewInternalError(err))
			return
		}
		if got != nil {
			sessions = got
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "open": s.Len()})
}

func (s *Server) handleLLMRequests(w http.ResponseWriter, r *http.Request) {
	requests := []store.LLMRequestRecord{}
	if s.opts.Events != nil {
		got, err := s.opts.Events.QueryLLMEvents(r.Context(), store.QueryOpts{})
		if err != nil {
			writeError(w, r, NewInternalError(err))
			return
		}
		if got != nil {
			requests = got
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	e, ok := s.remove(id)
	if !ok {
		writeError(w, r, NewNotFoundError("session", id))
		return
	}

	e.mu.Lock()
	sum := e.sess.End(r.Context())
	e.mu.Unlock()

	loggerFrom(r.Context()).Info("session ended", "session_id", id, "answered", sum.Answered)
	writeJSON(w, http.StatusOK, map[string]any{"summary": sum})
}
