package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/pkg/ui"
)

// GetPreferredEditor returns the editor command from env, or default
func GetPreferredEditor() string {
	if env := os.Getenv("VISUAL"); env != "" {
		return env
	}
	if env := os.Getenv("EDITOR"); env != "" {
		return env
	}
	return "vi"
}

// OpenFile opens a file using a custom viewer or the OS default application.
func OpenFile(path string, viewer string) error {
	var cmd *exec.Cmd

	if viewer != "" {
		cmd = exec.Command(viewer, path)
	} else {
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", path)
		case "windows":
			cmd = exec.Command("cmd", "/c", "start", path)
		default:
			cmd = exec.Command("xdg-open", path)
		}
	}

	// Start() detaches so px can exit while the viewer stays open
	if err := cmd.Start(); err != nil {
		if viewer != "" {
			return fmt.Errorf("failed to open '%s' with '%s': %w", path, viewer, err)
		}
		return fmt.Errorf("failed to open '%s': %w", path, err)
	}

	return nil
}

// collectImages expands args into upload files. Directories contribute
// their accepted images; files failing the accept filter are reported
// and skipped.
func collectImages(args []string) ([]domain.UploadFile, []string) {
	var files []domain.UploadFile
	var rejected []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			rejected = append(rejected, arg)
			continue
		}

		if info.IsDir() {
			paths, err := listImagesInDir(arg)
			if err != nil {
				rejected = append(rejected, arg)
				continue
			}
			for _, p := range paths {
				files = append(files, domain.NewUploadFile(p))
			}
			continue
		}

		if !domain.IsAcceptedImage(arg) {
			rejected = append(rejected, arg)
			continue
		}
		files = append(files, domain.NewUploadFile(arg))
	}

	return files, rejected
}

// listImagesInDir returns the accepted images directly inside dir, by name
func listImagesInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if domain.IsAcceptedImage(entry.Name()) {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// reportRejected prints the arguments that were not usable images
func reportRejected(rejected []string) {
	for _, r := range rejected {
		fmt.Println(ui.FormatWarning("Skipping " + r + ": not an image"))
	}
}

// filterFlags backs the per-field adjustment flags shared by several commands
type filterFlags struct {
	brightness float64
	contrast   float64
	saturation float64
	blur       float64
	rotation   float64
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	d := domain.DefaultFilters()
	cmd.Flags().Float64VarP(&f.brightness, "brightness", "b", d.Brightness, "Brightness in percent (0-200)")
	cmd.Flags().Float64VarP(&f.contrast, "contrast", "c", d.Contrast, "Contrast in percent (0-200)")
	cmd.Flags().Float64VarP(&f.saturation, "saturation", "s", d.Saturation, "Saturation in percent (0-200)")
	cmd.Flags().Float64Var(&f.blur, "blur", d.Blur, "Blur radius in pixels (0-20)")
	cmd.Flags().Float64VarP(&f.rotation, "rotation", "r", d.Rotation, "Rotation in degrees (-180 to 180)")
}

// params clamps each flag to its slider range
func (f filterFlags) params() domain.FilterParams {
	return domain.FilterParams{
		Brightness: domain.FieldBrightness.Range().Clamp(f.brightness),
		Contrast:   domain.FieldContrast.Range().Clamp(f.contrast),
		Saturation: domain.FieldSaturation.Range().Clamp(f.saturation),
		Blur:       domain.FieldBlur.Range().Clamp(f.blur),
		Rotation:   domain.FieldRotation.Range().Clamp(f.rotation),
	}
}

// shortenHome replaces the home directory prefix with ~
func shortenHome(path string) string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if strings.HasPrefix(path, home) {
			return "~" + strings.TrimPrefix(path, home)
		}
	}
	return path
}

// formatBytes renders a size in human units
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
