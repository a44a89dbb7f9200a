// Package application holds identity constants and per-user directories.
package application

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "collectr"

	// Version is the release version stamped into reports
	Version = "0.1.0"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// Directory returns the collectr data directory path.
// Linux: ~/.config/collectr (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\collectr (via os.UserCacheDir)
func Directory() (string, error) {
	once.Do(lazyLoad)

	return appDir, errDir
}

func lazyLoad() {
	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		baseDir, err = os.UserCacheDir()
	default:
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)

	if err := os.MkdirAll(appDir, 0755); err != nil {
		errDir = fmt.Errorf("failed to create %s: %w", appDir, err)
	}
}

// SetupDebugLog routes slog output to a per-run log file so stdout stays
// reserved for the serialized report. Returns the log path; on any setup
// failure logging falls back to stderr and the path is "".
func SetupDebugLog(runLabel string) string {
	dir, err := Directory()
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		return ""
	}

	path := filepath.Join(dir, "logs", runLabel+".log")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		return ""
	}

	f, err := os.Create(path)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		return ""
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	return path
}
