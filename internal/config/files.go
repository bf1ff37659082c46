package config

import (
	"os"
	"path/filepath"

	"github.com/evcon/evcon/internal/config/data"
)

const AppName = "evcon"

var (
	// AppConfigDir is ~/.config/evcon
	AppConfigDir string

	// AppDataDir is ~/.local/share/evcon
	AppDataDir string

	// AppStateDir is ~/.local/state/evcon
	AppStateDir string

	// AppConfigFile is ~/.config/evcon/evcon.yaml
	AppConfigFile string

	// AppTenantsFile is ~/.config/evcon/tenants.ini
	AppTenantsFile string

	// AppHotkeysFile is ~/.config/evcon/hotkeys.yaml
	AppHotkeysFile string

	// AppAliasesFile is ~/.config/evcon/aliases.yaml
	AppAliasesFile string

	// AppTenantsDir is ~/.local/share/evcon/tenants
	AppTenantsDir string

	// AppLogFile is ~/.local/state/evcon/evcon.log
	AppLogFile string

	// AppExportsDir is ~/.local/state/evcon/exports
	AppExportsDir string
)

// InitLocs initializes all application directory paths.
// It respects XDG environment variables if set.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppDataDir = filepath.Join(dataHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, "evcon.yaml")
	AppTenantsFile = filepath.Join(AppConfigDir, "tenants.ini")
	AppHotkeysFile = filepath.Join(AppConfigDir, "hotkeys.yaml")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")

	AppTenantsDir = filepath.Join(AppDataDir, "tenants")
	AppLogFile = filepath.Join(AppStateDir, "evcon.log")
	AppExportsDir = filepath.Join(AppStateDir, "exports")

	// Set default tenants directory in data package to avoid circular import
	data.SetDefaultTenantsDir(AppTenantsDir)

	dirs := []string{
		AppConfigDir,
		AppDataDir,
		AppStateDir,
		AppTenantsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}

	return nil
}

// InitLogLoc ensures the log directory exists
func InitLogLoc(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0700)
}
