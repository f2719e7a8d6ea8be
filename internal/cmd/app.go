package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/runger/hop/internal/config"
	"github.com/runger/hop/internal/logging"
	"github.com/runger/hop/internal/repo"
	"github.com/runger/hop/internal/switcher"
	"github.com/runger/hop/internal/vcs"
)

// app holds what a command needs once configuration is loaded and the
// repository has been found.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	git    *vcs.Git
	repo   repo.Context
	coord  *switcher.Coordinator
}

// loadConfig reads the user config. A broken config file is reported but
// does not stop branch switching.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%shop: warning:%s %v (using defaults)\n", colorYellow, colorReset, err)
		cfg = config.DefaultConfig()
		cfg.ApplyEnvOverrides()
	}
	return cfg
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelWarn
	}
	return logging.New(&logging.Config{
		Output: os.Stderr,
		Level:  level,
		Debug:  logging.DebugFromEnv(),
		JSON:   cfg.Log.Format == "json",
	})
}

// workDir is the directory git commands run in.
func workDir() (string, error) {
	if repoDir != "" {
		return repoDir, nil
	}
	return os.Getwd()
}

// newApp loads config, locates the repository and wires the coordinator.
func newApp(ctx context.Context) (*app, error) {
	cfg := loadConfig()
	colorMode = cfg.UI.Color
	applyColorMode()
	logger := newLogger(cfg)
	logging.LogConfigLoaded(logger, config.DefaultPaths().ConfigFile())

	dir, err := workDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine working directory: %w", err)
	}

	git := vcs.NewGit(dir, cfg.GitCommand())
	rc, err := repo.Discover(ctx, git)
	if err != nil {
		return nil, err
	}
	logger.Debug("repository located", "root", rc.RootPath, "log", rc.LogPath)

	coord := switcher.New(rc, git, switcher.Options{
		MaxResults: cfg.Select.MaxResults,
		Logger:     logger,
	})

	return &app{cfg: cfg, logger: logger, git: git, repo: rc, coord: coord}, nil
}
