package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/hop/internal/config"
)

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set hop configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/hop/config.yaml (XDG compliant).

Keys are in the format: section.key
Sections: log, select, ui, vcs

Examples:
  hop config                             # List all keys
  hop config select.max_results          # Get a value
  hop config select.interactive_backend tui
  hop config ui.color never`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	cfg, err := config.LoadFromFile(paths.ConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	colorMode = cfg.UI.Color
	applyColorMode()

	switch len(args) {
	case 0:
		stored, err := config.ReadFile(paths.ConfigFile())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return listConfig(os.Stdout, cfg, stored, paths)
	case 1:
		return getConfig(cfg, args[0])
	case 2:
		return setConfig(paths, args[0], args[1])
	}
	return nil
}

// listConfig prints every key grouped by section. Keys whose effective value
// comes from an environment variable rather than the file are marked.
func listConfig(w io.Writer, effective, stored *config.Config, paths *config.Paths) error {
	section := ""
	for _, key := range config.ListKeys() {
		value, err := effective.Get(key)
		if err != nil {
			return err
		}

		sec, name, _ := strings.Cut(key, ".")
		if sec != section {
			if section != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s[%s]%s\n", colorBold, sec, colorReset)
			section = sec
		}

		display := value
		if display == "" {
			display = colorDim + "(not set)" + colorReset
		}
		if fileValue, err := stored.Get(key); err == nil && fileValue != value {
			display += " " + colorYellow + "(from environment)" + colorReset
		}
		fmt.Fprintf(w, "  %s%-20s%s %s\n", colorCyan, name, colorReset, display)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%sConfig file: %s%s\n", colorDim, paths.ConfigFile(), colorReset)
	return nil
}

func getConfig(cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Printf("%s(not set)%s\n", colorDim, colorReset)
	} else {
		fmt.Println(value)
	}
	return nil
}

// setConfig edits the file as stored, so environment overrides active in
// this shell are not persisted.
func setConfig(paths *config.Paths, key, value string) error {
	cfg, err := config.ReadFile(paths.ConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}
	if err := cfg.SaveToFile(paths.ConfigFile()); err != nil {
		return err
	}

	fmt.Printf("%s%s%s = %s\n", colorCyan, key, colorReset, value)
	fmt.Printf("Saved to: %s\n", paths.ConfigFile())
	return nil
}
