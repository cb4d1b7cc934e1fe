package play

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/router"
	"github.com/abhisek/mathpace/internal/screen"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/tracker"
)

// fixedGenerator always serves 2 + 3 at the requested level.
type fixedGenerator struct{}

func (fixedGenerator) Generate(_ context.Context, in puzzle.GenerateInput) (*puzzle.Puzzle, error) {
	return &puzzle.Puzzle{A: 2, B: 3, Op: difficulty.Add, Answer: 5, Level: in.Level}, nil
}

type stubScreen struct {
	sum      *session.Summary
	attempts []tracker.Attempt
}

func (s *stubScreen) Init() tea.Cmd                          { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                   { return "summary" }
func (s *stubScreen) Title() string                          { return "Summary" }

type harness struct {
	screen *PlayScreen
	now    time.Time
	next   *stubScreen
}

func newHarness(t *testing.T, puzzles int) *harness {
	t.Helper()
	h := &harness{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return h.now }

	sess, err := session.New(context.Background(), session.Options{
		Learner:   "Ada",
		Puzzles:   puzzles,
		Generator: fixedGenerator{},
		Clock:     clock,
	})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}

	finish := func(sum *session.Summary, attempts []tracker.Attempt) screen.Screen {
		h.next = &stubScreen{sum: sum, attempts: attempts}
		return h.next
	}
	h.screen = New(sess, feedback.New("en"), finish, clock)
	h.screen.Init()
	return h
}

// answer types value after d has passed and presses Enter.
func (h *harness) answer(value string, d time.Duration) {
	h.now = h.now.Add(d)
	h.screen.input.Model.SetValue(value)
	h.screen.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
}

func (h *harness) anyKey() tea.Cmd {
	_, cmd := h.screen.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	return cmd
}

func TestInitServesPuzzle(t *testing.T) {
	h := newHarness(t, 10)
	if h.screen.current == nil {
		t.Fatal("expected a puzzle after Init")
	}
	view := h.screen.View(100, 30)
	if !strings.Contains(view, "2 + 3 = ?") {
		t.Errorf("view missing puzzle text:\n%s", view)
	}
	if !strings.Contains(view, "Easy") {
		t.Error("view missing level name")
	}
}

func TestCorrectAnswerShowsFeedback(t *testing.T) {
	h := newHarness(t, 10)
	h.answer("5", 2*time.Second)

	if h.screen.phase != phaseFeedback {
		t.Fatalf("phase = %v, want feedback", h.screen.phase)
	}
	if !h.screen.outcome.Correct {
		t.Error("expected a correct outcome")
	}
	if st := h.screen.Status(); st.Streak != 1 || st.Level != "Easy" {
		t.Errorf("status = %+v", st)
	}

	h.anyKey()
	if h.screen.phase != phaseAsking {
		t.Errorf("expected asking phase after continue, got %v", h.screen.phase)
	}
	if h.screen.input.Value() != "" {
		t.Error("input should be cleared for the next puzzle")
	}
}

func TestWrongAnswerShowsCorrectAnswer(t *testing.T) {
	h := newHarness(t, 10)
	h.answer("4", 2*time.Second)

	view := h.screen.View(100, 30)
	if !strings.Contains(view, "Not quite. The answer was 5.") {
		t.Errorf("view missing encouragement:\n%s", view)
	}
}

func TestNotANumberKeepsPuzzle(t *testing.T) {
	h := newHarness(t, 10)
	h.answer("abc", time.Second)

	if h.screen.phase != phaseAsking {
		t.Fatal("a non-number should not leave the asking phase")
	}
	if h.screen.errMsg == "" {
		t.Error("expected an error message")
	}
	if h.screen.sess.Answered() != 0 {
		t.Error("nothing should be recorded")
	}
}

func TestLevelUpBanner(t *testing.T) {
	h := newHarness(t, 10)
	for i := 0; i < 3; i++ {
		h.answer("5", time.Second)
		if i < 2 {
			h.anyKey()
		}
	}
	view := h.screen.View(100, 30)
	if !strings.Contains(view, "Level up! Moving from Easy to Medium.") {
		t.Errorf("view missing transition banner:\n%s", view)
	}
	if h.screen.Status().Level != "Medium" {
		t.Errorf("status level = %q", h.screen.Status().Level)
	}
}

func TestQuitConfirm(t *testing.T) {
	h := newHarness(t, 10)

	h.screen.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if h.screen.phase != phaseConfirmQuit {
		t.Fatal("esc should ask for confirmation")
	}
	h.screen.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if h.screen.phase != phaseAsking {
		t.Fatal("n should return to the puzzle")
	}

	h.answer("5", time.Second)
	h.anyKey()
	h.screen.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, cmd := h.screen.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("y should end the session")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if h.next == nil || h.next.sum.Answered != 1 {
		t.Fatalf("finish screen should receive the summary, got %+v", h.next)
	}
	if !h.screen.sess.Ended() {
		t.Error("session should be ended")
	}
}

func TestSessionCompletes(t *testing.T) {
	h := newHarness(t, 5)

	var cmd tea.Cmd
	for i := 0; i < 5; i++ {
		h.answer("5", time.Second)
		cmd = h.anyKey()
	}
	if cmd == nil {
		t.Fatal("expected a command after the last puzzle")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if msg.Screen != h.next {
		t.Error("expected the finish screen")
	}
	if h.next.sum.Answered != 5 || len(h.next.attempts) != 5 {
		t.Errorf("summary answered = %d, attempts = %d", h.next.sum.Answered, len(h.next.attempts))
	}
	if _, cmd := h.screen.Update(timerTickMsg(time.Now())); cmd != nil {
		t.Error("timer should stop once the session is done")
	}
}

func TestCloseEndsSession(t *testing.T) {
	h := newHarness(t, 10)
	h.answer("5", time.Second)

	h.screen.Close()
	if !h.screen.sess.Ended() {
		t.Fatal("Close should end the session")
	}
	if h.next != nil {
		t.Error("Close should not build the finish screen")
	}
	// Already done, so quitting afterwards is a no-op.
	if cmd := h.screen.end(); cmd != nil {
		t.Error("end after Close should return nil")
	}
}
