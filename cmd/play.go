package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpace/internal/coach"
	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/puzzle"
	"github.com/abhisek/mathpace/internal/session"
	"github.com/abhisek/mathpace/internal/store"
	"github.com/abhisek/mathpace/internal/tracker"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a session line by line, without the full-screen interface",
	Long: `Play a session in plain text: each puzzle is printed and the answer is
read from standard input. Type q to end the session early.`,
	RunE: runPlay,
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := newRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	journal, err := rt.openJournal(ctx)
	if err != nil {
		return err
	}

	opts := session.Options{
		Learner:       rt.cfg.Learner,
		Level:         rt.cfg.StartLevel(),
		Puzzles:       rt.cfg.Puzzles,
		EvaluateEvery: rt.cfg.EvaluateEvery,
		Table:         rt.table,
		Engine:        rt.engine,
		Events:        journal,
		Logger:        rt.logger,
	}
	if rt.cfg.Seed != 0 {
		opts.Generator = puzzle.NewRandomGenerator(rt.table, puzzle.DefaultConfig(), rt.cfg.Seed)
	}
	sess, err := session.New(ctx, opts)
	if err != nil {
		return err
	}

	tr := feedback.New(rt.cfg.Lang)
	out := cmd.OutOrStdout()
	if err := playLoop(ctx, sess, tr, cmd.InOrStdin(), out); err != nil {
		return err
	}

	sum := sess.End(ctx)
	svc := rt.newCoach(ctx, journal)
	advice := svc.AdviseOrFallback(ctx, coach.Input{Summary: sum, Attempts: sess.Attempts(), Lang: tr.Lang()})
	printSummary(out, sum, tr, advice)

	if show, _ := cmd.Flags().GetBool("timeline"); show {
		events, err := journal.Timeline(ctx, sess.ID())
		if err != nil {
			return fmt.Errorf("read timeline: %w", err)
		}
		printTimeline(out, sess.ID(), events)
	}
	return nil
}

// printTimeline prints the journal entries of the session that just
// ended. The journal is in memory, so nothing from earlier runs exists.
func printTimeline(out io.Writer, id string, events []store.TimelineEvent) {
	fmt.Fprintf(out, "\nSession %s\n", id)
	for _, e := range events {
		fmt.Fprintf(out, "%4d  %s  %-10s  %s\n",
			e.Sequence, e.Timestamp.Local().Format("15:04:05"), e.Kind, e.Summary)
	}
}

func init() {
	playCmd.Flags().Bool("timeline", false, "Print the session's event journal at the end")
}

// playLoop asks puzzles until the session is done, input ends or the
// learner types q.
func playLoop(ctx context.Context, sess *session.Session, tr *feedback.Translator, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "Hi %s! %d puzzles, starting at %s. Type q to stop.\n\n",
		sess.Learner(), sess.Total(), tr.LevelName(sess.Level()))

	for !sess.Done() {
		p, err := sess.NextPuzzle(ctx)
		if errors.Is(err, session.ErrSessionComplete) {
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "[%d/%d %s] %s ", sess.Answered()+1, sess.Total(), tr.LevelName(sess.Level()), p.Text())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		answer := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(answer, "q") {
			return nil
		}

		o, err := sess.Submit(ctx, answer, 0)
		var invalid *tracker.InvalidAttemptError
		switch {
		case errors.Is(err, puzzle.ErrNotANumber):
			fmt.Fprintln(out, "  Please type a whole number.")
			continue
		case errors.As(err, &invalid):
			fmt.Fprintln(out, "  "+invalid.Error())
			continue
		case err != nil:
			return err
		}
		printOutcome(out, o, tr)
	}
	return nil
}

func printOutcome(out io.Writer, o *session.Outcome, tr *feedback.Translator) {
	if o.Correct {
		line := "  " + tr.Praise(o.Attempt.Seq)
		if pace := tr.Pace(o.Attempt.TimeTaken); pace != "" {
			line += " " + pace
		}
		fmt.Fprintln(out, line)
	} else {
		fmt.Fprintln(out, "  "+tr.Encouragement(o.CorrectAnswer))
	}
	if o.Milestone {
		fmt.Fprintln(out, "  "+tr.StreakMilestone(o.Streak))
	}
	if o.Decision != nil {
		if t := tr.Transition(*o.Decision); t != "" {
			fmt.Fprintln(out, "  >> "+t)
		}
	}
}

func printSummary(out io.Writer, sum *session.Summary, tr *feedback.Translator, advice *coach.Advice) {
	sep := strings.Repeat("─", 48)
	fmt.Fprintln(out)
	fmt.Fprintln(out, tr.Headline(sum.Recommendation))
	fmt.Fprintln(out, sep)
	fmt.Fprintf(out, "Answered:    %d/%d\n", sum.Answered, sum.Planned)
	fmt.Fprintf(out, "Correct:     %d (%.0f%%)\n", sum.Correct, sum.Accuracy*100)
	fmt.Fprintf(out, "Avg time:    %.1fs\n", sum.AverageTime.Seconds())
	fmt.Fprintf(out, "Best streak: %d\n", sum.BestStreak)
	fmt.Fprintf(out, "Level:       %s -> %s\n", tr.LevelName(sum.StartLevel), tr.LevelName(sum.FinalLevel))

	for _, d := range sum.Transitions {
		fmt.Fprintf(out, "  %s -> %s: %s\n", tr.LevelName(d.From), tr.LevelName(d.To), d.Reason)
	}

	fmt.Fprintln(out, sep)
	fmt.Fprintln(out, tr.Recommendation(sum.Recommendation, sum.SuggestedLevel))
	if advice != nil {
		fmt.Fprintln(out)
		if advice.Headline != "" {
			fmt.Fprintln(out, advice.Headline)
		}
		fmt.Fprintln(out, advice.Advice)
	}
}
