package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/internal/adapters/download"
	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/services"
	"github.com/kamal-hamza/px-cli/pkg/ui"
)

var (
	exportFilters filterFlags
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>...",
	Short: "Apply filters to images and save edited copies",
	Long: `Apply filters to one or more images and save each result as edited_<name>.

Values outside a slider's range are clamped to it. The image is rendered at
full resolution with rotation about its centre; corners rotated out of the
frame are clipped.

Examples:
  px export photo.jpg --brightness 150 --rotation 90
  px export *.png -s 0 -o ./grey
  px export ./shots --blur 4`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	addFilterFlags(exportCmd, &exportFilters)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output directory (default: configured download_dir)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	files, rejected := collectImages(args)
	reportRejected(rejected)
	if len(files) == 0 {
		return fmt.Errorf("no images to export")
	}

	if exportOutput != "" {
		useDownloadDir(exportOutput)
	}

	session := newSession()
	defer session.Close()

	assets, err := session.Upload(ctx, files)
	if err != nil {
		return err
	}

	params := exportFilters.params()
	fmt.Println(ui.FormatRocket(fmt.Sprintf("Exporting %d image(s) with %s rotate(%gdeg)...",
		len(assets), params.FilterString(), params.Rotation)))

	failed := 0
	for _, asset := range assets {
		if err := exportWithParams(ctx, session, asset, params); err != nil {
			fmt.Println(ui.FormatError(fmt.Sprintf("%s: %v", asset.Name, err)))
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed", failed, len(assets))
	}
	fmt.Println(ui.FormatSuccess("Export complete!"))
	return nil
}

// exportWithParams drives the session the way the editor does: select,
// set each slider, export.
func exportWithParams(ctx context.Context, session *services.EditorSession, asset domain.ImageAsset, params domain.FilterParams) error {
	if err := session.SelectImage(asset.ID); err != nil {
		return err
	}

	for _, field := range domain.AllFields {
		value, err := params.Get(field)
		if err != nil {
			return err
		}
		if _, err := session.AdjustFilter(field, value); err != nil {
			return err
		}
	}

	err := session.ExportSelected(ctx)
	if errors.Is(err, domain.ErrExportSuperseded) {
		return nil
	}
	return err
}

// useDownloadDir points the download trigger at dir for this run
func useDownloadDir(dir string) {
	downloadTrigger = download.NewFileTrigger(imageStore, dir)
	downloadTrigger.OnSaved(announceSaved)
}
