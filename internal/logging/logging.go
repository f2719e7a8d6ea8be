// Package logging builds the structured logger shared by the hop commands.
//
// Output goes to stderr so it never mixes with branch names printed on
// stdout. Levels:
//   - debug: candidate and scoring details (HOP_DEBUG=1)
//   - info: selection notices such as "multiple matches"
//   - warn: skipped log lines, unreadable log, failed branch listing
//   - error: failures that abort the command
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvDebug forces debug logging when set to "1".
const EnvDebug = "HOP_DEBUG"

// Config configures the logger.
type Config struct {
	// Output is the writer for log output (default: os.Stderr)
	Output io.Writer

	// Level is the minimum log level (default: LevelWarn)
	Level slog.Level

	// Debug enables debug level logging (overrides Level)
	Debug bool

	// JSON switches from logfmt-style text to JSON lines.
	JSON bool
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: os.Stderr,
		Level:  slog.LevelWarn,
	}
}

// New creates a logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	level := cfg.Level
	if cfg.Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Timestamps are noise for a short-lived CLI.
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler).With("component", "hop")
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog
// level. The empty string means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q (must be debug, info, warn, or error)", s)
	}
}

// DebugFromEnv reports whether HOP_DEBUG=1 is set.
func DebugFromEnv() bool {
	return os.Getenv(EnvDebug) == "1"
}

// LogHookSkipped logs why a post-checkout invocation recorded nothing.
func LogHookSkipped(logger *slog.Logger, reason string) {
	logger.Debug("hook skipped", "reason", reason)
}

// LogConfigLoaded logs which configuration file was used.
func LogConfigLoaded(logger *slog.Logger, path string) {
	logger.Debug("configuration loaded", "config_path", path)
}
