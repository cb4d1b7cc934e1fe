package app

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/router"
	"github.com/abhisek/mathpace/internal/screens/play"
	"github.com/abhisek/mathpace/internal/screens/setup"
	"github.com/abhisek/mathpace/internal/screens/welcome"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	table := difficulty.DefaultTable()
	engine, err := adaptive.New(table, adaptive.DefaultConfig())
	if err != nil {
		t.Fatalf("adaptive.New: %v", err)
	}
	return Deps{
		Learner: "Ada",
		Level:   difficulty.Medium,
		Puzzles: 5,
		Lang:    "en",
		Seed:    42,
		Table:   table,
		Engine:  engine,
		Clock:   func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	}
}

// drain runs cmd and feeds router messages back into the model.
func drain(t *testing.T, m AppModel, cmd tea.Cmd) AppModel {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		next, _ := m.Update(msg)
		return next.(AppModel)
	}
	return m
}

func TestWelcomeToSetupToPlay(t *testing.T) {
	m := newAppModel(testDeps(t))
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Fatalf("first screen = %T", m.router.Active())
	}

	next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = drain(t, next.(AppModel), cmd)
	if _, ok := m.router.Active().(*setup.SetupScreen); !ok {
		t.Fatalf("expected setup screen, got %T", m.router.Active())
	}

	// name -> level -> puzzles -> submit
	for i := 0; i < 3; i++ {
		next, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
		m = drain(t, next.(AppModel), cmd)
	}
	p, ok := m.router.Active().(*play.PlayScreen)
	if !ok {
		t.Fatalf("expected play screen, got %T", m.router.Active())
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
	if p.Status().Level != "Medium" {
		t.Errorf("play level = %q, want the configured start level", p.Status().Level)
	}

	next, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(AppModel)
	content := m.render()
	if !strings.Contains(content, "mathpace") || !strings.Contains(content, "Medium") {
		t.Errorf("header missing app name or level:\n%s", content)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newAppModel(testDeps(t))
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestRunRequiresEngine(t *testing.T) {
	if err := Run(t.Context(), Deps{}); err == nil {
		t.Error("expected an error without table and engine")
	}
}
