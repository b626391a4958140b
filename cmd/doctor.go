package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your px installation",
	Long: `Diagnose issues with your px setup.

Checks for:
  - Workspace directory integrity
  - Configuration file existence
  - A writable download directory
  - Registered image decoders
  - Clipboard access (when copy_to_clipboard is on)
  - The watched inbox directory (when watch_dir is set)`,
	Run: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) {
	fmt.Println(ui.FormatTitle("🏥 PX Doctor"))
	fmt.Println()

	// 1. Check Workspace Structure
	checkStep("Workspace Directory", func() error {
		if !appWorkspace.Exists() {
			return fmt.Errorf("not found at %s", appWorkspace.RootPath)
		}
		return nil
	})

	checkStep("Cache Directory", func() error {
		if _, err := os.Stat(appWorkspace.CachePath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s", appWorkspace.CachePath)
		}
		return nil
	})

	// 2. Check Config
	checkStep("Configuration File", func() error {
		if _, err := os.Stat(appWorkspace.ConfigPath); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (defaults in use)", appWorkspace.ConfigPath)
		}
		return nil
	})

	// 3. Check Export Target
	checkStep("Download Directory", func() error {
		return checkWritable(downloadTrigger.Dir())
	})

	checkStep("Image Decoders", func() error {
		if missing := missingDecoders(); len(missing) > 0 {
			return fmt.Errorf("not registered: %s", strings.Join(missing, ", "))
		}
		return nil
	})

	// 4. Optional integrations
	if appConfig.CopyToClipboard {
		checkStep("Clipboard", func() error {
			if clipboard.Unsupported {
				return fmt.Errorf("no clipboard utility found (install xclip, xsel or wl-clipboard)")
			}
			return nil
		})
	}

	if appConfig.WatchDir != "" {
		checkStep("Watch Directory", func() error {
			info, err := os.Stat(appConfig.WatchDir)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", appConfig.WatchDir)
			}
			return nil
		})
	}
}

// decoderProbe is the magic prefix of one accepted format
type decoderProbe struct {
	name  string
	magic string
}

func (p decoderProbe) header() io.Reader {
	return bytes.NewReader([]byte(p.magic))
}

// Magic prefixes must be as long as the registered ones or sniffing fails
var decoderProbes = []decoderProbe{
	{name: "png", magic: "\x89PNG\r\n\x1a\n"},
	{name: "jpeg", magic: "\xff\xd8"},
	{name: "gif", magic: "GIF89a"},
	{name: "bmp", magic: "BM\x00\x00\x00\x00\x00\x00\x00\x00"},
	{name: "tiff", magic: "II*\x00"},
	{name: "webp", magic: "RIFF\x00\x00\x00\x00WEBPVP8"},
}

// registered reports whether a decoder claims the probe's magic
func (p decoderProbe) registered() bool {
	_, _, err := image.DecodeConfig(p.header())
	return !errors.Is(err, image.ErrFormat)
}

// registeredDecoders lists the accepted formats px can decode
func registeredDecoders() []string {
	var names []string
	for _, probe := range decoderProbes {
		if probe.registered() {
			names = append(names, probe.name)
		}
	}
	return names
}

func missingDecoders() []string {
	var names []string
	for _, probe := range decoderProbes {
		if !probe.registered() {
			names = append(names, probe.name)
		}
	}
	return names
}

// checkWritable creates dir if needed and probes it with a temp file
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".px-doctor-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(filepath.Clean(name))
}

// checkStep runs a check function and prints the result nicely
func checkStep(name string, check func() error) {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess("✔"), name)
	} else {
		fmt.Printf("%s %s\n", ui.FormatError("✘"), name)
		fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	}
}
