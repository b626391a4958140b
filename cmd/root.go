package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/internal/adapters/download"
	"github.com/kamal-hamza/px-cli/internal/adapters/render"
	"github.com/kamal-hamza/px-cli/internal/adapters/scheduler"
	"github.com/kamal-hamza/px-cli/internal/adapters/store"
	"github.com/kamal-hamza/px-cli/internal/core/services"
	"github.com/kamal-hamza/px-cli/pkg/config"
	"github.com/kamal-hamza/px-cli/pkg/logging"
	"github.com/kamal-hamza/px-cli/pkg/ui"
	"github.com/kamal-hamza/px-cli/pkg/workspace"
)

var (
	// Global workspace and configuration
	appWorkspace *workspace.Workspace
	appConfig    *config.Config

	// Adapters
	imageStore      *store.MemoryStore
	renderSurface   *render.ImagingSurface
	downloadTrigger *download.FileTrigger
	exportScheduler *scheduler.TimerScheduler

	// Services
	histogramService *services.HistogramService
	inspectService   *services.InspectService
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "px",
	Short: "PX - Image filters in your terminal",
	Long: ui.StyleTitle.Render("PX") + " - Terminal Image Editor\n\n" +
		"Upload images, adjust brightness, contrast, saturation, blur and rotation\n" +
		"with live previews, and export the edited result.",
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: shutdownApp,
	SilenceUsage:       true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(exportAllCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(histogramCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the application components
func initializeApp(cmd *cobra.Command, args []string) error {
	// Skip initialization for commands that do not touch images
	if cmd.Name() == "init" || cmd.Name() == "version" {
		return nil
	}

	// .env in the working directory feeds the PX_* overrides
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Println(ui.FormatWarning(err.Error()))
	}

	ws, err := workspace.New()
	if err != nil {
		return fmt.Errorf("failed to initialize workspace: %w", err)
	}
	appWorkspace = ws

	if !appWorkspace.Exists() {
		fmt.Println(ui.FormatError("Workspace not initialized"))
		fmt.Println(ui.FormatInfo("Run 'px init' to initialize the workspace"))
		os.Exit(1)
	}

	cfg, err := config.Load(appWorkspace.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appConfig = cfg
	ui.SetTheme(appConfig.ColorTheme)

	logPath := appConfig.LogFile
	if logPath == "" {
		logPath = appWorkspace.LogPath()
	}
	if err := logging.SetupLogger(logPath, appConfig.Debug); err != nil {
		fmt.Println(ui.FormatWarning("Logging disabled: " + err.Error()))
	}
	logging.Debug("px %s: %s", Version, cmd.CommandPath())

	// Initialize adapters
	imageStore = store.NewMemoryStore()
	renderSurface = render.NewImagingSurface(imageStore, appConfig.ExportFormat, appConfig.JPEGQuality)
	downloadTrigger = download.NewFileTrigger(imageStore, appWorkspace.DownloadsDir(appConfig.DownloadDir))
	downloadTrigger.OnSaved(announceSaved)
	exportScheduler = scheduler.NewTimerScheduler()

	// Initialize services
	histogramService = services.NewHistogramService(imageStore, renderSurface)
	inspectService = services.NewInspectService()

	return nil
}

func shutdownApp(cmd *cobra.Command, args []string) error {
	logging.CloseLogger()
	return nil
}

// newSession creates an empty editor session wired to the global adapters
func newSession() *services.EditorSession {
	delay := time.Duration(appConfig.ExportAllDelayMS) * time.Millisecond
	return services.NewEditorSession(
		imageStore,
		renderSurface,
		downloadTrigger,
		exportScheduler,
		services.WithExportAllDelay(delay),
	)
}

// announceSaved reports a finished download on stdout
func announceSaved(path string) {
	fmt.Println(ui.FormatExport(shortenHome(path)))
	copySavedPath(path)
}

// copySavedPath puts the saved path on the clipboard when configured
func copySavedPath(path string) {
	if appConfig == nil || !appConfig.CopyToClipboard {
		return
	}
	if err := clipboard.WriteAll(path); err != nil {
		logging.Error("clipboard: %v", err)
	}
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
