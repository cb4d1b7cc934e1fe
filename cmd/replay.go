package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/feedback"
	"github.com/abhisek/mathpace/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Run a recorded attempt sequence through the difficulty engine",
	Long: `Replay a recorded session and print the level after every attempt and
each decision the engine made. The same fixture always gives the same
output, which makes fixtures usable as regression tests.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		f, err := replay.Load(args[0])
		if err != nil {
			return err
		}
		res, err := replay.Run(f, rt.engine)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		tr := feedback.New(rt.cfg.Lang)
		if res.Name != "" {
			fmt.Fprintf(out, "Replay: %s\n", res.Name)
		}
		fmt.Fprintf(out, "%-4s  %-14s  %-8s  %-6s  %-8s  %s\n", "#", "Puzzle", "Answer", "Time", "Level", "Decision")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, s := range res.Steps {
			a := s.Attempt
			mark := "✓"
			if !a.Correct {
				mark = "✗"
			}
			decision := ""
			if d := s.Decision; d != nil && d.Kind != adaptive.Maintain {
				decision = fmt.Sprintf("%s (%s)", d.Kind, d.Reason)
			}
			fmt.Fprintf(out, "%-4d  %-14s  %-6s %s  %5.1fs  %-8s  %s\n",
				a.Seq, a.Text(), a.Submitted, mark, a.TimeTaken.Seconds(), tr.LevelName(s.Level), decision)
		}

		sum := res.Summary
		fmt.Fprintln(out, strings.Repeat("─", 80))
		fmt.Fprintf(out, "Accuracy %.0f%%, avg %.1fs, final level %s. %s\n",
			sum.Accuracy*100, sum.AverageTime.Seconds(), tr.LevelName(sum.FinalLevel), tr.Headline(sum.Recommendation))
		return nil
	},
}

func init() {
	replayCmd.Flags().Bool("json", false, "Print the replay as JSON")
}
