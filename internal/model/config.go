// Package model defines the persisted configuration types.
package model

import (
	"path/filepath"
	"time"
)

// Config holds the application configuration.
type Config struct {
	// SnapshotDir is the directory where compressed snapshots are written
	SnapshotDir string `json:"snapshot_dir"`

	// CachePath is the bbolt database file backing the API response cache
	CachePath string `json:"cache_path"`

	// CacheTTLMinutes bounds how old a cached API response may be
	CacheTTLMinutes int `json:"cache_ttl_minutes"`

	// Remote is the git remote name inspected during detection
	Remote string `json:"remote"`
}

// DefaultConfig returns a Config rooted at the application directory.
func DefaultConfig(appDir string) Config {
	return Config{
		SnapshotDir:     filepath.Join(appDir, "snapshots"),
		CachePath:       filepath.Join(appDir, "cache.bolt"),
		CacheTTLMinutes: 15,
		Remote:          "origin",
	}
}

// CacheTTL returns the cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}
