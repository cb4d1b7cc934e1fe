// Package cmd holds the mathpace command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/mathpace/internal/app"
	"github.com/abhisek/mathpace/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "mathpace",
	Short: "Adaptive arithmetic practice",
	Long: `mathpace serves arithmetic puzzles and adjusts their difficulty after
every answer, based on how accurately and how quickly you solve them.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		journal, err := rt.openJournal(cmd.Context())
		if err != nil {
			return err
		}

		return app.Run(cmd.Context(), app.Deps{
			Learner:       rt.cfg.Learner,
			Level:         rt.cfg.StartLevel(),
			Puzzles:       rt.cfg.Puzzles,
			EvaluateEvery: rt.cfg.EvaluateEvery,
			Lang:          rt.cfg.Lang,
			Seed:          rt.cfg.Seed,
			Table:         rt.table,
			Engine:        rt.engine,
			Events:        journal,
			Coach:         rt.newCoach(cmd.Context(), journal),
			Logger:        rt.logger,
		})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	d := config.Default()
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default ./mathpace.yaml or ~/.config/mathpace/mathpace.yaml)")
	pf.String("log-level", d.LogLevel, "Log level: debug, info, warn or error")
	pf.String("log-format", d.LogFormat, "Log format: text or json")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("lang", d.Lang, "Feedback language")
	pf.Bool("coach", false, "Ask a language model for end-of-session advice")

	pf.String("learner", d.Learner, "Learner name")
	pf.String("level", d.Level, "Starting level: easy, medium, hard or expert")
	pf.Int("puzzles", d.Puzzles, "Puzzles per session")
	pf.Int("evaluate-every", d.EvaluateEvery, "Re-evaluate the difficulty after every N answers")
	pf.Uint64("seed", 0, "Seed for the puzzle generator (0 picks one)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(versionCmd)
}
