// Package app wires the screens into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/coach"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/router"
	"github.com/abhisek/mathpace/internal/screen"
	"github.com/abhisek/mathpace/internal/screens/play"
	"github.com/abhisek/mathpace/internal/screens/setup"
	"github.com/abhisek/mathpace/internal/screens/summary"
	"github.com/abhisek/mathpace/internal/screens/welcome"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/store"
	"github.com/abhisek/mathpace/internal/tracker"
	"github.com/abhisek/mathpace/internal/ui/layout"
)

// Deps holds everything the TUI needs. Only Table and Engine are
// required.
type Deps struct {
	Learner       string
	Level         difficulty.Level
	Puzzles       int
	EvaluateEvery int
	Lang          string

	// Seed fixes the puzzle sequence; zero seeds from the clock.
	Seed uint64

	Table  *difficulty.Table
	Engine *adaptive.Engine

	// Events and Coach are optional.
	Events store.EventRepo
	Coach  *coach.Service
	Logger *slog.Logger
	Clock  func() time.Time
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel that opens on the welcome screen.
func newAppModel(deps Deps) AppModel {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	tr := feedback.New(deps.Lang)

	start := func(c setup.Choice) (screen.Screen, error) {
		seed := deps.Seed
		if seed == 0 {
			seed = uint64(deps.Clock().UnixNano())
		}
		sess, err := session.New(context.Background(), session.Options{
			Learner:       c.Learner,
			Level:         c.Level,
			Puzzles:       c.Puzzles,
			EvaluateEvery: deps.EvaluateEvery,
			Table:         deps.Table,
			Engine:        deps.Engine,
			Generator:     puzzle.NewRandomGenerator(deps.Table, puzzle.DefaultConfig(), seed),
			Events:        deps.Events,
			Logger:        deps.Logger,
			Clock:         deps.Clock,
		})
		if err != nil {
			return nil, err
		}
		finish := func(sum *session.Summary, attempts []tracker.Attempt) screen.Screen {
			return summary.New(sum, attempts, tr, deps.Coach)
		}
		return play.New(sess, tr, finish, deps.Clock), nil
	}

	defaults := setup.Choice{Learner: deps.Learner, Level: deps.Level, Puzzles: deps.Puzzles}
	next := func() screen.Screen { return setup.New(defaults, tr, start) }

	return AppModel{
		router: router.New(welcome.New(next)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render lays out the header, active screen and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var status layout.Status
	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if kp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = kp.KeyHints()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, deps Deps) error {
	if deps.Table == nil || deps.Engine == nil {
		return fmt.Errorf("app: table and engine are required")
	}
	p := tea.NewProgram(newAppModel(deps), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
