package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/coach"
	"github.com/abhisek/mathpace/internal/config"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/llm"
	"github.com/abhisek/mathpace/internal/store"
)

// runtime is what every command builds before doing its work.
type runtime struct {
	cfg    config.Config
	logger *slog.Logger
	table  *difficulty.Table
	engine *adaptive.Engine

	closers []func() error
}

// newRuntime loads the configuration for cmd. stderrLogs sends logs to
// stderr when no log file is set; the TUI keeps stderr quiet.
func newRuntime(cmd *cobra.Command, stderrLogs bool) (*runtime, error) {
	configFile, _ := cmd.Flags().GetString("config")
	v := config.NewViper(cmd.Flags(), configFile)

	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg}

	var w io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, closeFn, err := config.OpenLogFile(cfg)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		rt.closers = append(rt.closers, closeFn)
	} else if stderrLogs {
		w = cmd.ErrOrStderr()
	}
	rt.logger = config.NewLogger(cfg, w)
	slog.SetDefault(rt.logger)

	if rt.table, err = cfg.Table(); err != nil {
		rt.Close()
		return nil, err
	}
	if rt.engine, err = cfg.Engine(rt.table); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// openJournal opens the in-memory event journal for this process. It is
// gone once the command returns.
func (rt *runtime) openJournal(ctx context.Context) (store.EventRepo, error) {
	st, err := store.OpenMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	rt.closers = append(rt.closers, st.Close)
	return st.EventRepo(), nil
}

// newCoach builds the advice service. Without --coach, or when the
// provider cannot be built, it returns nil and advice comes from the
// rules.
func (rt *runtime) newCoach(ctx context.Context, journal store.EventRepo) *coach.Service {
	if !rt.cfg.Coach {
		return nil
	}
	provider, err := llm.NewProvider(ctx, rt.cfg.LLM, journal, rt.logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Falling back to rule-based advice.")
		return nil
	}
	cfg := coach.DefaultConfig()
	if rt.cfg.LLM.Timeout > 0 {
		cfg.Timeout = rt.cfg.LLM.Timeout
	}
	return coach.NewService(provider, cfg, rt.logger)
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.logger.Warn("close failed", "error", err)
		}
	}
	rt.closers = nil
}
