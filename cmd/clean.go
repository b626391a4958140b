package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [image]",
	Short: "Remove generated histogram charts",
	Long: `Remove files px generated in the workspace cache.

If no argument is provided, this command clears the entire cache directory.
If an image name is given, only the chart generated for it is removed.

Examples:
  px clean             # Wipe the entire cache
  px clean photo.jpg   # Remove histogram-photo.html only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Print(ui.StyleWarning.Render("Cleaning entire cache... "))

		if err := appWorkspace.CleanCache(); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}

		fmt.Println(ui.FormatSuccess("Done"))
		fmt.Println(ui.FormatMuted("All generated charts removed."))
		return nil
	}

	name := filepath.Base(args[0])
	base := strings.TrimSuffix(name, filepath.Ext(name))
	chartPath := appWorkspace.GetCachePath("histogram-" + base + ".html")

	fmt.Printf("%s chart for '%s'... ", ui.StyleWarning.Render("Cleaning"), name)

	if err := os.Remove(chartPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println(ui.FormatMuted("nothing to remove"))
			return nil
		}
		fmt.Println(ui.FormatError("Failed"))
		return err
	}

	fmt.Println(ui.FormatSuccess("Done"))
	return nil
}
