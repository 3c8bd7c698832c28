package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the per-app filesystem layout. Everything is derived from
// the XDG base directories so the two daemons never collide.
type Paths struct {
	ConfigDir  string // config file + style file
	CacheDir   string // thumbnail cache
	StateDir   string // logs, frequency store
	ConfigFile string
	StyleFile  string
	LockFile   string
	LogFile    string
}

// PathsFor resolves the directory layout for the named app and creates
// the cache and state directories. The config directory is only created
// by --generate-config.
func PathsFor(app string) (*Paths, error) {
	configBase := os.Getenv("XDG_CONFIG_HOME")
	if configBase == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		configBase = filepath.Join(home, ".config")
	}

	cacheBase := os.Getenv("XDG_CACHE_HOME")
	if cacheBase == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cacheBase = filepath.Join(home, ".cache")
	}

	stateBase := os.Getenv("XDG_STATE_HOME")
	if stateBase == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		stateBase = filepath.Join(home, ".local", "state")
	}

	p := &Paths{
		ConfigDir: filepath.Join(configBase, app),
		CacheDir:  filepath.Join(cacheBase, app),
		StateDir:  filepath.Join(stateBase, app),
		LockFile:  filepath.Join(os.TempDir(), fmt.Sprintf("%s-%d.lock", app, os.Getuid())),
	}
	p.ConfigFile = filepath.Join(p.ConfigDir, "config.yaml")
	p.StyleFile = filepath.Join(p.ConfigDir, "style.css")
	p.LogFile = filepath.Join(p.StateDir, app+".log")

	for _, dir := range []string{p.CacheDir, p.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return p, nil
}

// ExpandHome rewrites a leading ~/ to the user's home directory. Paths
// that do not start with ~/ are returned unchanged.
func ExpandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
