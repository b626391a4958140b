package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/pkg/ui"
)

var (
	exportAllOutput  string
	exportAllDelayMS int
)

var exportAllCmd = &cobra.Command{
	Use:   "export-all <file>...",
	Short: "Save unedited copies of every image",
	Long: `Save every given image under its original name, one after the other.

No filters are applied: export-all re-saves the originals. Downloads are
spaced by export_all_delay_ms (300ms by default) and run in the order given.

Examples:
  px export-all ./shots
  px export-all a.png b.png -o ./backup --delay 0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExportAll,
}

func init() {
	exportAllCmd.Flags().StringVarP(&exportAllOutput, "output", "o", "", "Output directory (default: configured download_dir)")
	exportAllCmd.Flags().IntVar(&exportAllDelayMS, "delay", -1, "Milliseconds between downloads (default: export_all_delay_ms)")
}

func runExportAll(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	files, rejected := collectImages(args)
	reportRejected(rejected)
	if len(files) == 0 {
		return fmt.Errorf("no images to export")
	}

	if exportAllOutput != "" {
		useDownloadDir(exportAllOutput)
	}
	if exportAllDelayMS >= 0 {
		appConfig.ExportAllDelayMS = exportAllDelayMS
	}

	session := newSession()
	defer session.Close()

	if _, err := session.Upload(ctx, files); err != nil {
		return err
	}

	start := time.Now()
	count := session.ExportAll(ctx)
	fmt.Println(ui.FormatRocket(fmt.Sprintf("Saving %d image(s) to %s...", count, shortenHome(downloadTrigger.Dir()))))

	// Keep the process alive until every scheduled download ran
	exportScheduler.Wait()

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Export complete in %s", time.Since(start).Round(time.Millisecond))))
	return nil
}
