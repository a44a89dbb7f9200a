package git

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// RemoteSection is one remote entry from .git/config.
type RemoteSection struct {
	URL   string `ini:"url"`
	Fetch string `ini:"fetch"`
}

// Config is the subset of .git/config the detection workflow reads.
type Config struct {
	Remotes map[string]RemoteSection
}

// LoadConfig parses the repository's .git/config file without invoking git.
// Returns a missing-file error when the directory is not a git repository.
func LoadConfig(repoDir string) (*Config, error) {
	path := filepath.Join(repoDir, ".git", "config")

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read git config: %w", err)
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse git config %s: %w", path, err)
	}

	cfg := &Config{Remotes: make(map[string]RemoteSection)}

	for _, sec := range file.Sections() {
		if !strings.HasPrefix(sec.Name(), `remote "`) || !sec.HasKey("url") {
			continue
		}

		name := strings.TrimSuffix(strings.TrimPrefix(sec.Name(), `remote "`), `"`)

		var remote RemoteSection
		if err := sec.MapTo(&remote); err != nil {
			return nil, fmt.Errorf("parse remote %q: %w", name, err)
		}

		cfg.Remotes[name] = remote
	}

	return cfg, nil
}

// Remote returns the named remote's URL, preferring "origin" when name is
// empty. The second return is false when no suitable remote exists.
func (c *Config) Remote(name string) (string, bool) {
	if name == "" {
		name = "origin"
	}

	if remote, ok := c.Remotes[name]; ok && remote.URL != "" {
		return remote.URL, true
	}

	// Fall back to any configured remote when origin is absent.
	if name == "origin" {
		for _, remote := range c.Remotes {
			if remote.URL != "" {
				return remote.URL, true
			}
		}
	}

	return "", false
}
