package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/pkg/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>...",
	Short: "Show format, dimensions and size of images",
	Long: `Show format, dimensions and size of images without decoding their pixels.

Directories are expanded to the images they contain. Files that the editor
would not accept are listed as well, marked as rejected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var paths []string
	for _, arg := range args {
		if dirPaths, err := listImagesInDir(arg); err == nil {
			paths = append(paths, dirPaths...)
			continue
		}
		paths = append(paths, arg)
	}

	infos, err := inspectService.Execute(ctx, paths)
	if err != nil {
		return err
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "NAME"},
		{Header: "FORMAT"},
		{Header: "SIZE", Align: "right"},
		{Header: "DIMENSIONS", Align: "right"},
		{Header: "STATUS"},
	})

	for _, info := range infos {
		status := ui.StyleSuccess.Render("ok")
		dims := fmt.Sprintf("%d×%d", info.Width, info.Height)
		if info.Err != nil {
			dims = "-"
		}
		switch {
		case !info.Accepted:
			status = ui.StyleWarning.Render("rejected")
		case info.Err != nil:
			status = ui.StyleError.Render(info.Err.Error())
		}

		table.AddRow([]string{
			info.Name,
			info.Format,
			formatBytes(info.Size),
			dims,
			status,
		})
	}

	fmt.Println()
	fmt.Print(table.Render())
	fmt.Println()
	return nil
}
