package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Interactive backends for `hop --pick`.
const (
	BackendPrompt = "prompt"
	BackendTUI    = "tui"
)

// Config represents the hop configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Select SelectConfig `yaml:"select"`
	UI     UIConfig     `yaml:"ui"`
	VCS    VCSConfig    `yaml:"vcs"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SelectConfig holds ranking and selection settings.
type SelectConfig struct {
	MaxResults         int    `yaml:"max_results"`         // Ranked list size (1-20)
	InteractiveBackend string `yaml:"interactive_backend"` // prompt or tui
	ImportLimit        int    `yaml:"import_limit"`        // Max reflog entries read by `hop import`
}

// UIConfig holds output settings.
type UIConfig struct {
	Color string `yaml:"color"` // auto, always, or never
	Stars bool   `yaml:"stars"` // Star ratings in list output
}

// VCSConfig holds version-control settings.
type VCSConfig struct {
	GitCommand string `yaml:"git_command"` // Command used to run git, split like a shell would
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Select: SelectConfig{
			MaxResults:         20,
			InteractiveBackend: BackendPrompt,
			ImportLimit:        25000,
		},
		UI: UIConfig{
			Color: "auto",
			Stars: true,
		},
		VCS: VCSConfig{
			GitCommand: "git",
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	paths := DefaultPaths()
	return LoadFromFile(paths.ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ReadFile reads the configuration file over the defaults without applying
// environment overrides or validating. A missing file yields the defaults.
func ReadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get retrieves a configuration value by dot-separated key, e.g. "ui.color".
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "log":
		switch field {
		case "level":
			return c.Log.Level, nil
		case "format":
			return c.Log.Format, nil
		}
	case "select":
		switch field {
		case "max_results":
			return strconv.Itoa(c.Select.MaxResults), nil
		case "interactive_backend":
			return c.Select.InteractiveBackend, nil
		case "import_limit":
			return strconv.Itoa(c.Select.ImportLimit), nil
		}
	case "ui":
		switch field {
		case "color":
			return c.UI.Color, nil
		case "stars":
			return strconv.FormatBool(c.UI.Stars), nil
		}
	case "vcs":
		if field == "git_command" {
			return c.VCS.GitCommand, nil
		}
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
	return "", fmt.Errorf("unknown field: %s", key)
}

// Set sets a configuration value by dot-separated key. The value is checked
// but the whole config is not re-validated; callers run Validate before
// saving.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "log":
		switch field {
		case "level":
			if !isValidLogLevel(value) {
				return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", value)
			}
			c.Log.Level = value
			return nil
		case "format":
			if value != "text" && value != "json" {
				return fmt.Errorf("invalid log format: %s (must be text or json)", value)
			}
			c.Log.Format = value
			return nil
		}
	case "select":
		switch field {
		case "max_results":
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid value for max_results: %w", err)
			}
			c.Select.MaxResults = v
			return nil
		case "interactive_backend":
			if !isValidBackend(value) {
				return fmt.Errorf("invalid interactive backend: %s (must be prompt or tui)", value)
			}
			c.Select.InteractiveBackend = value
			return nil
		case "import_limit":
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid value for import_limit: %w", err)
			}
			c.Select.ImportLimit = v
			return nil
		}
	case "ui":
		switch field {
		case "color":
			if !isValidColorMode(value) {
				return fmt.Errorf("invalid color mode: %s (must be auto, always, or never)", value)
			}
			c.UI.Color = value
			return nil
		case "stars":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			c.UI.Stars = b
			return nil
		}
	case "vcs":
		if field == "git_command" {
			if _, err := splitCommand(value); err != nil {
				return err
			}
			c.VCS.GitCommand = value
			return nil
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
	return fmt.Errorf("unknown field: %s", key)
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json (got: %s)", c.Log.Format)
	}
	if c.Select.MaxResults < 1 || c.Select.MaxResults > 20 {
		return fmt.Errorf("select.max_results must be between 1 and 20 (got: %d)", c.Select.MaxResults)
	}
	if !isValidBackend(c.Select.InteractiveBackend) {
		return fmt.Errorf("select.interactive_backend must be prompt or tui (got: %s)", c.Select.InteractiveBackend)
	}
	if !isValidColorMode(c.UI.Color) {
		return fmt.Errorf("ui.color must be auto, always, or never (got: %s)", c.UI.Color)
	}
	if c.Select.ImportLimit < 0 {
		return errors.New("select.import_limit must be >= 0")
	}
	if _, err := splitCommand(c.VCS.GitCommand); err != nil {
		return fmt.Errorf("vcs.git_command: %w", err)
	}
	return nil
}

// GitCommand returns the configured git invocation as argv.
func (c *Config) GitCommand() []string {
	argv, err := splitCommand(c.VCS.GitCommand)
	if err != nil {
		return []string{"git"}
	}
	return argv
}

func splitCommand(s string) ([]string, error) {
	argv, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("cannot parse command %q: %w", s, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("command is empty")
	}
	return argv, nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func isValidColorMode(mode string) bool {
	switch mode {
	case "auto", "always", "never":
		return true
	default:
		return false
	}
}

func isValidBackend(backend string) bool {
	switch backend {
	case BackendPrompt, BackendTUI:
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HOP_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("HOP_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("HOP_GIT"); v != "" {
		c.VCS.GitCommand = v
	}
	if v := os.Getenv("HOP_PICKER"); isValidBackend(v) {
		c.Select.InteractiveBackend = v
	}
	// https://no-color.org
	if os.Getenv("NO_COLOR") != "" {
		c.UI.Color = "never"
	}
}

// ListKeys returns the user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"log.level",
		"log.format",
		"select.max_results",
		"select.interactive_backend",
		"select.import_limit",
		"ui.color",
		"ui.stars",
		"vcs.git_command",
	}
}
