// Package paths resolves the configuration, data and output directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user platform directories.
const AppName = "loadpatch"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".loadpatch"
	DefaultDataDirName   = ".loadpatch-data"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "LOADPATCH_CONFIG_DIR"
	EnvDataDir   = "LOADPATCH_DATA_DIR"
	EnvOutputDir = "LOADPATCH_OUTPUT_DIR"
)

// ConfigFileName is the config file looked up in the config directory.
const ConfigFileName = "config.yaml"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// xdgDir returns $xdgEnv/loadpatch on Linux, falling back to
// ~/<fallback...>/loadpatch. Other platforms use os.UserConfigDir.
func xdgDir(xdgEnv string, fallback ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, AppName)...), nil
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/loadpatch (fallback ~/.config/loadpatch)
// macOS:   ~/Library/Application Support/loadpatch
// Windows: %APPDATA%/loadpatch
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/loadpatch (fallback ~/.local/share/loadpatch)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir returns the configuration directory: flag, then
// LOADPATCH_CONFIG_DIR, then DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory holding plugins.txt and the
// mod files: flag, then the config value, then LOADPATCH_DATA_DIR, then
// .loadpatch-data under the working directory.
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
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveOutputDir returns the directory the patch mod is written to:
// flag, then the config value, then LOADPATCH_OUTPUT_DIR, then dataDir.
func ResolveOutputDir(flag, configValue, dataDir string) (string, error) {
	for _, v := range []string{flag, configValue, os.Getenv(EnvOutputDir)} {
		if v != "" {
			return filepath.Abs(v)
		}
	}
	return dataDir, nil
}
