package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/internal/adapters/render"
	"github.com/kamal-hamza/px-cli/pkg/ui"
)

// Version information - these can be set during build with ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version information",
	Aliases: []string{"v"},
	Long: `Display the version of px, how it was built, and which image formats
it can open and export. (alias: v)`,
	Run: runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	version, commit := buildVersion()

	fmt.Println(ui.StyleTitle.Render("PX") + " - Terminal Image Editor")
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Version", version))
	fmt.Println(ui.RenderKeyValue("Commit", commit))
	fmt.Println(ui.RenderKeyValue("Build Date", BuildDate))
	fmt.Println(ui.RenderKeyValue("Go", fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Opens", strings.Join(registeredDecoders(), ", ")))
	fmt.Println(ui.RenderKeyValue("Exports", strings.Join(render.EncodeFormats(), ", ")))
}

// buildVersion falls back to module and VCS info when ldflags were not set,
// as with `go install`
func buildVersion() (string, string) {
	version, commit := Version, GitCommit

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit
	}
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	if commit == "unknown" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				commit = s.Value[:7]
			}
		}
	}
	return version, commit
}
