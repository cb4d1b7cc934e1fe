// Package play is the screen where puzzles are served and answered.
package play

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/router"
	"github.com/abhisek/mathpace/internal/screen"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/tracker"
	"github.com/abhisek/mathpace/internal/ui/components"
	"github.com/abhisek/mathpace/internal/ui/layout"
	"github.com/abhisek/mathpace/internal/ui/theme"
)

// FinishFunc builds the screen shown after the session ends.
type FinishFunc func(sum *session.Summary, attempts []tracker.Attempt) screen.Screen

// timerTickMsg refreshes the on-screen timer.
type timerTickMsg time.Time

type phase int

const (
	phaseAsking phase = iota
	phaseFeedback
	phaseConfirmQuit
)

// PlayScreen serves puzzles from a session until it is complete or the
// learner quits.
type PlayScreen struct {
	sess   *session.Session
	tr     *feedback.Translator
	finish FinishFunc
	now    func() time.Time

	phase    phase
	current  *puzzle.Puzzle
	issuedAt time.Time
	input    components.TextInput
	outcome  *session.Outcome
	errMsg   string
	done     bool
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)
var _ screen.Closer = (*PlayScreen)(nil)

// New creates a PlayScreen for sess. now drives the timer display; nil
// means time.Now.
func New(sess *session.Session, tr *feedback.Translator, finish FinishFunc, now func() time.Time) *PlayScreen {
	if now == nil {
		now = time.Now
	}
	return &PlayScreen{
		sess:   sess,
		tr:     tr,
		finish: finish,
		now:    now,
		input:  newAnswerInput(),
	}
}

func newAnswerInput() components.TextInput {
	return components.NewTextInput("?", components.SignedDigits, 8)
}

func (s *PlayScreen) Init() tea.Cmd {
	return tea.Batch(s.nextPuzzle(), s.input.Init(), tickCmd())
}

func (s *PlayScreen) Title() string {
	return "Play"
}

func (s *PlayScreen) Status() layout.Status {
	level := s.sess.Level()
	return layout.Status{
		Level:      s.tr.LevelName(level),
		Streak:     s.sess.Streak(),
		LevelColor: theme.LevelColor(int(level)),
	}
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseConfirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case phaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if s.done {
			return s, nil
		}
		return s, tickCmd()
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAsking {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseConfirmQuit:
		switch key {
		case "y", "Y":
			return s, s.end()
		case "n", "N", "esc":
			s.phase = phaseAsking
		}
		return s, nil

	case phaseFeedback:
		if s.outcome != nil && s.outcome.Done {
			return s, s.end()
		}
		s.outcome = nil
		s.phase = phaseAsking
		s.input = newAnswerInput()
		return s, tea.Batch(s.nextPuzzle(), s.input.Init())
	}

	switch key {
	case "esc":
		s.phase = phaseConfirmQuit
		return s, nil
	case "enter":
		return s, s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PlayScreen) nextPuzzle() tea.Cmd {
	p, err := s.sess.NextPuzzle(context.Background())
	if err != nil {
		if errors.Is(err, session.ErrSessionComplete) {
			return s.end()
		}
		s.errMsg = err.Error()
		return nil
	}
	s.current = p
	s.issuedAt = s.now()
	s.errMsg = ""
	return nil
}

func (s *PlayScreen) submit() tea.Cmd {
	if s.current == nil || s.input.Value() == "" {
		return nil
	}

	out, err := s.sess.Submit(context.Background(), s.input.Value(), 0)
	if err != nil {
		var invalid *tracker.InvalidAttemptError
		switch {
		case errors.Is(err, puzzle.ErrNotANumber):
			s.errMsg = "Please type a whole number."
			s.input.Clear()
		case errors.As(err, &invalid):
			s.errMsg = invalid.Error()
		default:
			s.errMsg = err.Error()
		}
		return nil
	}

	s.outcome = out
	s.phase = phaseFeedback
	s.errMsg = ""
	return nil
}

func (s *PlayScreen) end() tea.Cmd {
	if s.done {
		return nil
	}
	s.done = true
	sum := s.sess.End(context.Background())
	next := s.finish(sum, s.sess.Attempts())
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

// Close ends the session when the screen is dropped before it finished,
// so the journal still gets an end event.
func (s *PlayScreen) Close() {
	if s.done {
		return
	}
	s.done = true
	s.sess.End(context.Background())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
