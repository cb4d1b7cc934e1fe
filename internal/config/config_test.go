package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathpace/internal/difficulty"
	"github.com/abhisek/mathpace/internal/llm"
)

func clearVendorKeys(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, difficulty.Easy, cfg.StartLevel())
	assert.Equal(t, 10, cfg.Puzzles)
	assert.Equal(t, 1, cfg.EvaluateEvery)
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	clearVendorKeys(t)

	v := viper.New()
	v.Set("learner", "Ada")
	v.Set("level", "hard")
	v.Set("puzzles", 20)
	v.Set("evaluate-every", 2)
	v.Set("expected-time.hard", "12s")
	v.Set("adaptive.fast-increase-accuracy", 0.95)
	v.Set("llm.provider", "openai")
	v.Set("openai.api-key", "sk-test")
	v.Set("idle-timeout", "5m")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "Ada", cfg.Learner)
	assert.Equal(t, difficulty.Hard, cfg.StartLevel())
	assert.Equal(t, 20, cfg.Puzzles)
	assert.Equal(t, 2, cfg.EvaluateEvery)
	assert.Equal(t, 12*time.Second, cfg.ExpectedTimes["hard"])
	assert.InDelta(t, 0.95, cfg.Adaptive.FastIncreaseAccuracy, 1e-9)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, 5*time.Minute, cfg.IdleTimeout)

	table, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, table.ExpectedTime(difficulty.Hard))
	assert.Equal(t, difficulty.DefaultTable().ExpectedTime(difficulty.Easy), table.ExpectedTime(difficulty.Easy))

	engine, err := cfg.Engine(table)
	require.NoError(t, err)
	assert.NotNil(t, engine)
}

func TestLoad_AggregatesProblems(t *testing.T) {
	clearVendorKeys(t)

	v := viper.New()
	v.Set("level", "impossible")
	v.Set("puzzles", 2)
	v.Set("evaluate-every", 0)
	v.Set("log-format", "xml")

	_, err := Load(v)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 4)
	assert.Contains(t, err.Error(), "config validation failed:")
	assert.Contains(t, err.Error(), "puzzles must be between 5 and 50, got 2")
	assert.Contains(t, err.Error(), "evaluate-every must be >= 1, got 0")
}

func TestValidate_ExpectedTimes(t *testing.T) {
	cfg := Default()
	cfg.ExpectedTimes = map[string]time.Duration{"easy": 0}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected-time.easy must be > 0")
}

func TestValidate_CoachProvider(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "nope"
	assert.NoError(t, cfg.Validate(), "provider is ignored while the coach is off")

	cfg.Coach = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown provider "nope"`)
}

func TestLoad_DiscoversVendorKey(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
}

func TestNewViper_Precedence(t *testing.T) {
	clearVendorKeys(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "mathpace.yaml")
	require.NoError(t, os.WriteFile(path, []byte("learner: FromFile\npuzzles: 15\nlevel: medium\n"), 0o644))

	t.Setenv("MATHPACE_PUZZLES", "25")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("level", "easy", "")
	fs.String("learner", "Player", "")
	require.NoError(t, fs.Parse([]string{"--level", "expert"}))

	cfg, err := Load(NewViper(fs, path))
	require.NoError(t, err)

	assert.Equal(t, "FromFile", cfg.Learner, "file beats an unchanged flag default")
	assert.Equal(t, 25, cfg.Puzzles, "env beats file")
	assert.Equal(t, difficulty.Expert, cfg.StartLevel(), "flag beats file")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := NewLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
}

func TestOpenLogFile(t *testing.T) {
	w, closeFn, err := OpenLogFile(Default())
	require.NoError(t, err)
	assert.NotNil(t, w)
	require.NoError(t, closeFn())

	cfg := Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "mathpace.log")
	w, closeFn, err = OpenLogFile(cfg)
	require.NoError(t, err)
	NewLogger(cfg, w).Info("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
