package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpace/internal/api"
	"github.com/abhisek/mathpace/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve sessions over a JSON HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := newRuntime(cmd, true)
		if err != nil {
			return err
		}
		defer rt.Close()

		journal, err := rt.openJournal(ctx)
		if err != nil {
			return err
		}

		srv, err := api.New(api.Options{
			Table:         rt.table,
			Engine:        rt.engine,
			Events:        journal,
			Coach:         rt.newCoach(ctx, journal),
			Lang:          rt.cfg.Lang,
			Puzzles:       rt.cfg.Puzzles,
			EvaluateEvery: rt.cfg.EvaluateEvery,
			CORSOrigins:   rt.cfg.CORSOrigins,
			IdleTimeout:   rt.cfg.IdleTimeout,
			Logger:        rt.logger,
		})
		if err != nil {
			return err
		}
		return srv.Serve(ctx, rt.cfg.Addr)
	},
}

func init() {
	d := config.Default()
	serveCmd.Flags().String("addr", d.Addr, "Listen address")
	serveCmd.Flags().StringSlice("cors-origins", d.CORSOrigins, "Allowed CORS origins")
	serveCmd.Flags().Duration("idle-timeout", d.IdleTimeout, "End sessions idle this long (negative keeps them)")
}
