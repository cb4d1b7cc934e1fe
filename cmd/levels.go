package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpace/internal/feedback"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the difficulty levels, their operations and number ranges",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		tr := feedback.New(rt.cfg.Lang)
		out := cmd.OutOrStdout()
		for _, spec := range rt.table.Specs() {
			fmt.Fprintf(out, "%-8s  expected %s  %s\n",
				tr.LevelName(spec.Level), spec.ExpectedTime, spec.Description)
			for _, op := range rt.table.AllowedOperations(spec.Level) {
				r, _ := rt.table.NumberRange(spec.Level, op)
				fmt.Fprintf(out, "    %s  a %d..%d  b %d..%d\n", op.Symbol(), r.AMin, r.AMax, r.BMin, r.BMax)
			}
		}
		fmt.Fprintln(out, strings.Repeat("─", 48))
		fmt.Fprintf(out, "Languages: %s\n", strings.Join(feedback.Languages(), ", "))
		return nil
	},
}
