package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace represents the directories px writes to
type Workspace struct {
	RootPath    string
	ExportsPath string
	CachePath   string
	ConfigPath  string
}

// New creates a new Workspace instance with XDG-compliant paths
func New() (*Workspace, error) {
	rootPath, rootErr := getDataRoot()
	configPath, configErr := getConfigPath()
	if rootErr != nil {
		return nil, fmt.Errorf("failed to determine data root: %w", rootErr)
	}
	if configErr != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", configErr)
	}

	return &Workspace{
		RootPath:    rootPath,
		ExportsPath: filepath.Join(rootPath, "exports"),
		CachePath:   filepath.Join(rootPath, "cache"),
		ConfigPath:  configPath,
	}, nil
}

// getDataRoot returns the data directory path
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func getDataRoot() (string, error) {
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, "px"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "px"), nil
	}

	return filepath.Join(homeDir, ".local", "share", "px"), nil
}

func getConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "px", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "px-config", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "px", "config.yaml"), nil
}

// Initialize creates the directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{
		w.RootPath,
		w.ExportsPath,
		w.CachePath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the workspace has been initialized
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// DownloadsDir returns the configured download directory, or the
// workspace exports directory when none is configured
func (w *Workspace) DownloadsDir(configured string) string {
	if configured != "" {
		return configured
	}
	return w.ExportsPath
}

// GetCachePath returns the full path for a cached file
func (w *Workspace) GetCachePath(filename string) string {
	return filepath.Join(w.CachePath, filename)
}

// LogPath returns the default log file location
func (w *Workspace) LogPath() string {
	return filepath.Join(w.RootPath, "px.log")
}

// CleanCache removes all files in the cache directory
func (w *Workspace) CleanCache() error {
	entries, err := os.ReadDir(w.CachePath)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(w.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}
