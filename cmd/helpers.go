package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/inovacc/collectr/internal/application"
	"github.com/inovacc/collectr/internal/cache"
	"github.com/inovacc/collectr/internal/core"
	"github.com/inovacc/collectr/internal/encoding"
	gh "github.com/inovacc/collectr/internal/github"
	"github.com/inovacc/collectr/internal/model"
	"github.com/inovacc/collectr/internal/report"
	"github.com/spf13/pflag"
)

// errExecutionFailed signals a failed pipeline to Execute without printing
// anything beyond the serialized report.
var errExecutionFailed = errors.New("execution failed")

// addCommonFlags attaches the flags every collection command shares.
func addCommonFlags(fs *pflag.FlagSet) {
	fs.String("token", "", "GitHub token (overrides GITHUB_TOKEN, GH_TOKEN and gh CLI auth)")
	fs.String("remote", "", "Git remote to inspect (default: origin)")
}

// loadConfig reads the persisted configuration, falling back to defaults
// rooted at the application directory.
func loadConfig() model.Config {
	dir, err := application.Directory()
	if err != nil {
		slog.Warn("application directory unavailable", "error", err)
		return model.DefaultConfig(".")
	}

	cfg, err := encoding.LoadJSON[model.Config](filepath.Join(dir, "config.json"))
	if err != nil {
		slog.Warn("config unreadable, using defaults", "error", err)
	}

	if cfg == nil {
		return model.DefaultConfig(dir)
	}

	defaults := model.DefaultConfig(dir)

	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = defaults.SnapshotDir
	}

	if cfg.CachePath == "" {
		cfg.CachePath = defaults.CachePath
	}

	if cfg.CacheTTLMinutes <= 0 {
		cfg.CacheTTLMinutes = defaults.CacheTTLMinutes
	}

	if cfg.Remote == "" {
		cfg.Remote = defaults.Remote
	}

	return *cfg
}

// buildDeps assembles the real collaborator dependencies for one command
// invocation. The returned cleanup closes the cache.
func buildDeps(tokenFlag string) (core.Deps, model.Config, func()) {
	cfg := loadConfig()

	token, source := gh.ResolveToken(tokenFlag)
	slog.Info("token resolved", "source", source)

	var c *cache.Cache

	opened, err := cache.Open(cfg.CachePath)
	if err != nil {
		// Collection works without a cache; it just costs API calls.
		slog.Warn("cache unavailable", "path", cfg.CachePath, "error", err)
	} else {
		c = opened
	}

	deps := core.Deps{
		Token:       token,
		SnapshotDir: cfg.SnapshotDir,
		Cache:       c,
		CacheTTL:    cfg.CacheTTL(),
		Logger:      slog.Default(),
	}

	cleanup := func() {
		if c != nil {
			_ = c.Close()
		}
	}

	return deps, cfg, cleanup
}

// emit prints the serialized report to stdout and maps the report's exit
// code onto the command result.
func emit(rep *report.Report) error {
	if debugLogPath != "" {
		rep.SetDebugLog(debugLogPath)
	}

	fmt.Print(rep.Serialize())

	if rep.HasError() {
		return errExecutionFailed
	}

	return nil
}
