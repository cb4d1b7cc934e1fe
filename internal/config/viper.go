package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. MATHPACE_PUZZLES.
const EnvPrefix = "MATHPACE"

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewViper binds flags and the environment to a fresh viper instance and
// reads the config file. configFile overrides the search for
// mathpace.yaml in . and $HOME/.config/mathpace. A .env file in the
// working directory is loaded first when present.
func NewViper(flags *pflag.FlagSet, configFile string) *viper.Viper {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	if flags != nil {
		_ = v.BindPFlags(flags)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("mathpace")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/mathpace")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}
	return v
}

// NewLogger builds the process logger. The TUI passes discard when no
// log file is configured, since stderr belongs to the terminal.
func NewLogger(cfg Config, w io.Writer) *slog.Logger {
	level, ok := logLevels[strings.ToLower(cfg.LogLevel)]
	if !ok {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// OpenLogFile opens cfg.LogFile for appending. It returns io.Discard and
// a no-op closer when no file is configured.
func OpenLogFile(cfg Config) (io.Writer, func() error, error) {
	if cfg.LogFile == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
