package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Export
	DownloadDir      string `yaml:"download_dir"`
	ExportFormat     string `yaml:"export_format"`
	JPEGQuality      int    `yaml:"jpeg_quality"`
	ExportAllDelayMS int    `yaml:"export_all_delay_ms"`
	CopyToClipboard  bool   `yaml:"copy_to_clipboard"`

	// Preview
	PreviewWidth  int `yaml:"preview_width"`
	PreviewHeight int `yaml:"preview_height"`

	// Slider steps
	PercentStep  float64 `yaml:"percent_step"`
	BlurStep     float64 `yaml:"blur_step_px"`
	RotationStep float64 `yaml:"rotation_step"`

	// Inbox
	WatchDir        string `yaml:"watch_dir"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms"`

	// UI Settings
	ColorTheme string `yaml:"color_theme"`

	// Logging
	LogFile string `yaml:"log_file"`
	Debug   bool   `yaml:"debug"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		DownloadDir:      "",
		ExportFormat:     "png",
		JPEGQuality:      92,
		ExportAllDelayMS: 300,
		CopyToClipboard:  false,
		PreviewWidth:     64,
		PreviewHeight:    48,
		PercentStep:      5,
		BlurStep:         1,
		RotationStep:     5,
		WatchDir:         "",
		WatchDebounceMS:  500,
		ColorTheme:       "auto",
		LogFile:          "",
		Debug:            false,
	}
}

// Load reads configuration from the specified file path, then applies
// PX_* overrides from the environment
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides file values with PX_* variables
func (c *Config) applyEnv() error {
	if v := os.Getenv("PX_DOWNLOAD_DIR"); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv("PX_EXPORT_FORMAT"); v != "" {
		c.ExportFormat = v
	}
	if v := os.Getenv("PX_COLOR_THEME"); v != "" {
		c.ColorTheme = v
	}
	if v := os.Getenv("PX_WATCH_DIR"); v != "" {
		c.WatchDir = v
	}
	if v := os.Getenv("PX_EXPORT_ALL_DELAY_MS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PX_EXPORT_ALL_DELAY_MS %q: %w", v, err)
		}
		c.ExportAllDelayMS = n
	}
	if v := os.Getenv("PX_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PX_DEBUG %q: %w", v, err)
		}
		c.Debug = b
	}
	return nil
}

// applyDefaults fills values that are missing or out of range
func (c *Config) applyDefaults() {
	d := DefaultConfig()

	c.ExportFormat = strings.ToLower(strings.TrimSpace(c.ExportFormat))
	if !isValidExportFormat(c.ExportFormat) {
		c.ExportFormat = d.ExportFormat
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = d.JPEGQuality
	}
	if c.ExportAllDelayMS < 0 {
		c.ExportAllDelayMS = d.ExportAllDelayMS
	}
	if c.PreviewWidth <= 0 {
		c.PreviewWidth = d.PreviewWidth
	}
	if c.PreviewHeight <= 0 {
		c.PreviewHeight = d.PreviewHeight
	}
	if c.PercentStep <= 0 {
		c.PercentStep = d.PercentStep
	}
	if c.BlurStep <= 0 {
		c.BlurStep = d.BlurStep
	}
	if c.RotationStep <= 0 {
		c.RotationStep = d.RotationStep
	}
	if c.WatchDebounceMS <= 0 {
		c.WatchDebounceMS = d.WatchDebounceMS
	}
	if c.ColorTheme == "" {
		c.ColorTheme = d.ColorTheme
	}
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// isValidExportFormat checks if the export format is valid
func isValidExportFormat(format string) bool {
	validFormats := []string{"png", "auto"}
	for _, valid := range validFormats {
		if format == valid {
			return true
		}
	}
	return false
}
