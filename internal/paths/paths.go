// Package paths resolves where drm keeps its configuration and ledger data.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDir is the directory name created under the platform base directories.
const appDir = "drm"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "DRM_CONFIG_DIR"
	EnvDataDir   = "DRM_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/drm (fallback ~/.config/drm)
// macOS:   ~/Library/Application Support/drm
// Windows: %APPDATA%/drm
func DefaultConfigDir() (string, error) {
	return platformPath("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific data directory. On macOS and
// Windows it is the same as the configuration directory.
//
// Linux:   $XDG_DATA_HOME/drm (fallback ~/.local/share/drm)
func DefaultDataDir() (string, error) {
	return platformPath("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// platformPath resolves the XDG variable xdgEnv on Linux, falling back to
// homeRel under the home directory; other platforms use os.UserConfigDir.
func platformPath(xdgEnv, homeRel string) (string, error) {
	if platformDir.goos == "linux" {
		if xdg := os.Getenv(xdgEnv); xdg != "" {
			return filepath.Join(xdg, appDir), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, homeRel, appDir), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir), nil
}

// ResolveConfigDir returns the configuration directory: flag, then
// DRM_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory: flag, then the data_dir value
// from config.yaml, then DRM_DATA_DIR, then DefaultDataDir.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}
