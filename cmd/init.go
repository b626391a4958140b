package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/pkg/ui"
	"github.com/kamal-hamza/px-cli/pkg/workspace"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the px workspace",
	Long: `Initialize the px workspace directory structure.

This creates the workspace at ~/.local/share/px/ with the following structure:
  - exports/    : Default download directory for exported images
  - cache/      : Generated files (histogram charts)
  - px.log      : Debug log

and a commented configuration file at ~/.config/px/config.yaml.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ws, err := workspace.New()
	if err != nil {
		fmt.Println(ui.FormatError("Failed to determine workspace location"))
		return err
	}

	// Check if already initialized
	if ws.Exists() {
		fmt.Println(ui.FormatWarning("Workspace already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + ws.RootPath))
		return nil
	}

	fmt.Println(ui.FormatRocket("Initializing px workspace..."))
	fmt.Println()

	if err := ws.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize workspace"))
		return err
	}

	if err := createDefaultConfig(ws); err != nil {
		// Config is optional, defaults apply without it
		fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
	} else {
		fmt.Println(ui.FormatSuccess("Config file created"))
	}

	fmt.Println(ui.FormatSuccess("Workspace initialized successfully!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Location", ws.RootPath))
	fmt.Println(ui.RenderKeyValue("Config", ws.ConfigPath))
	fmt.Println()
	fmt.Println(ui.FormatInfo("Next steps:"))
	fmt.Println(ui.FormatMuted("  1. Open the editor on some images: px edit photo.jpg"))
	fmt.Println(ui.FormatMuted("  2. Export with filters: px export photo.jpg --brightness 120"))
	fmt.Println(ui.FormatMuted("  3. Tweak defaults: px config edit"))

	return nil
}

const defaultConfigYAML = `# PX Configuration
# This file is optional - all settings have sensible defaults.
# PX_* environment variables (or a .env file) override these values.

# Where exports are saved (defaults to the workspace exports/ directory)
# download_dir: ""

# png, or auto to keep the format implied by the file name
# export_format: png
# jpeg_quality: 92

# Spacing between the downloads of export-all
# export_all_delay_ms: 300

# Copy the path of every saved export to the clipboard
# copy_to_clipboard: false

# Live preview size in pixels
# preview_width: 64
# preview_height: 48

# Slider steps for the arrow keys
# percent_step: 5
# blur_step_px: 1
# rotation_step: 5

# Directory whose new images are added to the editor automatically
# watch_dir: ""
# watch_debounce_ms: 500

# auto, dark or light
# color_theme: auto

# log_file: ""
# debug: false
`

func createDefaultConfig(ws *workspace.Workspace) error {
	configDir := filepath.Dir(ws.ConfigPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Keep an existing config
	if _, err := os.Stat(ws.ConfigPath); err == nil {
		return nil
	}

	return os.WriteFile(ws.ConfigPath, []byte(defaultConfigYAML), 0644)
}
