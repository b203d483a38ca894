package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Subdirectory used under each XDG base directory.
	appName = "sqlite-builder"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Directory for cached downloads.
//
//	Linux:   $XDG_CACHE_HOME/sqlite-builder or ~/.cache/sqlite-builder
//	macOS:   ~/Library/Caches/sqlite-builder
//	Windows: %LOCALAPPDATA%\sqlite-builder
func Cache() string {
	return filepath.Join(xdg.CacheHome, appName)
}

// Default location of the YAML configuration file.
//
//	Linux:   $XDG_CONFIG_HOME/sqlite-builder/config.yaml
//	macOS:   ~/Library/Application Support/sqlite-builder/config.yaml
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Directory for downloaded archives and images, under [Cache].
func Downloads() string {
	return filepath.Join(Cache(), "downloads")
}
