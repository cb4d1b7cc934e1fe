package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/puzzle"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print sample puzzles for a level (no session, no journal)",
	Long: `Generate puzzles at a single level without running a session. The level
never changes and nothing is recorded. Useful for checking number ranges
after changing the level table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		if count <= 0 {
			return fmt.Errorf("--count must be positive, got %d", count)
		}

		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		seed := rt.cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		gen := puzzle.NewRandomGenerator(rt.table, puzzle.DefaultConfig(), seed)
		level := rt.cfg.StartLevel()
		tr := feedback.New(rt.cfg.Lang)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s, expected %s per puzzle (seed %d)\n\n",
			tr.LevelName(level), rt.table.ExpectedTime(level), seed)

		var prior []string
		for i := 1; i <= count; i++ {
			p, err := gen.Generate(cmd.Context(), puzzle.GenerateInput{Level: level, Prior: prior})
			if err != nil {
				return fmt.Errorf("puzzle %d: %w", i, err)
			}
			prior = append(prior, p.Expression())
			fmt.Fprintf(out, "%3d. %-16s %d\n", i, p.Text(), p.Answer)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().IntP("count", "n", 10, "Number of puzzles to generate")
}
