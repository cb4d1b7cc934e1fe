// Package config assembles the runtime configuration from flags,
// MATHPACE_* environment variables, an optional config file and defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/mathpace/internal/adaptive"
	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/llm"
	"github.com/abhisek/mathpace/internal/session"
)

// Config is the aggregate configuration of every command.
type Config struct {
	// Session
	Learner       string
	Level         string
	Puzzles       int
	EvaluateEvery int
	Seed          uint64

	Lang  string
	Coach bool

	// Server
	Addr        string
	CORSOrigins []string
	// IdleTimeout expires API sessions nobody touches; negative keeps them.
	IdleTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// ExpectedTimes overrides the level table, keyed by level name.
	ExpectedTimes map[string]time.Duration

	Adaptive adaptive.Config
	LLM      llm.Config
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Learner:       session.DefaultLearner,
		Level:         difficulty.Easy.Key(),
		Puzzles:       session.DefaultPuzzles,
		EvaluateEvery: session.DefaultEvaluateEvery,
		Lang:          "en",
		Addr:          ":8080",
		CORSOrigins:   []string{"*"},
		IdleTimeout:   30 * time.Minute,
		LogLevel:      "info",
		LogFormat:     "text",
		ExpectedTimes: map[string]time.Duration{},
		Adaptive:      adaptive.DefaultConfig(),
		LLM:           llm.DefaultConfig(),
	}
}

// Load reads every known key from v on top of the defaults. Keys that
// are unset keep their default.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	str(v, "learner", &cfg.Learner)
	str(v, "level", &cfg.Level)
	integer(v, "puzzles", &cfg.Puzzles)
	integer(v, "evaluate-every", &cfg.EvaluateEvery)
	if v.IsSet("seed") {
		cfg.Seed = v.GetUint64("seed")
	}
	str(v, "lang", &cfg.Lang)
	if v.IsSet("coach") {
		cfg.Coach = v.GetBool("coach")
	}

	str(v, "addr", &cfg.Addr)
	if v.IsSet("cors-origins") {
		cfg.CORSOrigins = v.GetStringSlice("cors-origins")
	}
	if v.IsSet("idle-timeout") {
		cfg.IdleTimeout = v.GetDuration("idle-timeout")
	}

	str(v, "log-level", &cfg.LogLevel)
	str(v, "log-format", &cfg.LogFormat)
	str(v, "log-file", &cfg.LogFile)

	for _, l := range difficulty.Levels() {
		key := "expected-time." + l.Key()
		if v.IsSet(key) {
			cfg.ExpectedTimes[l.Key()] = v.GetDuration(key)
		}
	}

	a := &cfg.Adaptive
	float(v, "adaptive.increase-accuracy", &a.IncreaseAccuracy)
	float(v, "adaptive.fast-increase-accuracy", &a.FastIncreaseAccuracy)
	float(v, "adaptive.decrease-accuracy", &a.DecreaseAccuracy)
	float(v, "adaptive.struggle-accuracy", &a.StruggleAccuracy)
	float(v, "adaptive.slow-factor", &a.SlowFactor)

	loadLLM(v, &cfg.LLM)

	return cfg, cfg.Validate()
}

func loadLLM(v *viper.Viper, c *llm.Config) {
	str(v, "llm.provider", &c.Provider)
	if v.IsSet("llm.timeout") {
		c.Timeout = v.GetDuration("llm.timeout")
	}
	integer(v, "llm.retry-attempts", &c.Retry.MaxAttempts)

	str(v, "anthropic.api-key", &c.Anthropic.APIKey)
	str(v, "anthropic.model", &c.Anthropic.Model)
	str(v, "openai.api-key", &c.OpenAI.APIKey)
	str(v, "openai.model", &c.OpenAI.Model)
	str(v, "openai.base-url", &c.OpenAI.BaseURL)
	str(v, "gemini.api-key", &c.Gemini.APIKey)
	str(v, "gemini.model", &c.Gemini.Model)
	str(v, "openrouter.api-key", &c.OpenRouter.APIKey)
	str(v, "openrouter.model", &c.OpenRouter.Model)

	// Fall back to the vendors' own variables when nothing was set
	// explicitly.
	if !c.HasKey() && !v.IsSet("llm.provider") {
		if found, ok := llm.DiscoverConfig(); ok {
			found.Retry = c.Retry
			found.Timeout = c.Timeout
			*c = found
		}
	}
}

// ValidationError aggregates every configuration problem.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(e.Problems, "\n  - ")
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, err := difficulty.ParseLevel(c.Level); err != nil {
		add("level: %v", err)
	}
	if c.Puzzles < session.MinPuzzles || c.Puzzles > session.MaxPuzzles {
		add("puzzles must be between %d and %d, got %d", session.MinPuzzles, session.MaxPuzzles, c.Puzzles)
	}
	if c.EvaluateEvery < 1 {
		add("evaluate-every must be >= 1, got %d", c.EvaluateEvery)
	}
	if strings.TrimSpace(c.Lang) == "" {
		add("lang is required")
	}
	if _, ok := logLevels[strings.ToLower(c.LogLevel)]; !ok {
		add("log-level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		add("log-format must be text or json, got %q", c.LogFormat)
	}
	for name, d := range c.ExpectedTimes {
		if _, err := difficulty.ParseLevel(name); err != nil {
			add("expected-time.%s: unknown level", name)
		}
		if d <= 0 {
			add("expected-time.%s must be > 0, got %s", name, d)
		}
	}
	if err := c.Adaptive.Validate(); err != nil {
		add("%v", err)
	}
	if c.Coach && c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case llm.ProviderAnthropic, llm.ProviderOpenAI, llm.ProviderOpenRouter, llm.ProviderGemini, llm.ProviderMock:
		default:
			add("llm.provider: unknown provider %q", c.LLM.Provider)
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// StartLevel returns the parsed starting level.
func (c Config) StartLevel() difficulty.Level {
	l, err := difficulty.ParseLevel(c.Level)
	if err != nil {
		return difficulty.Easy
	}
	return l
}

// Table returns the default level table with any expected-time
// overrides applied.
func (c Config) Table() (*difficulty.Table, error) {
	table := difficulty.DefaultTable()
	if len(c.ExpectedTimes) == 0 {
		return table, nil
	}
	overrides := make(map[difficulty.Level]time.Duration, len(c.ExpectedTimes))
	for name, d := range c.ExpectedTimes {
		l, err := difficulty.ParseLevel(name)
		if err != nil {
			return nil, fmt.Errorf("expected-time.%s: %w", name, err)
		}
		overrides[l] = d
	}
	return table.WithExpectedTimes(overrides)
}

// Engine builds the decision engine for table.
func (c Config) Engine(table *difficulty.Table) (*adaptive.Engine, error) {
	return adaptive.New(table, c.Adaptive)
}

func str(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) {
		*dst = v.GetString(key)
	}
}

func integer(v *viper.Viper, key string, dst *int) {
	if v.IsSet(key) {
		*dst = v.GetInt(key)
	}
}

func float(v *viper.Viper, key string, dst *float64) {
	if v.IsSet(key) {
		*dst = v.GetFloat64(key)
	}
}
