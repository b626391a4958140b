package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/internal/adapters/inbox"
	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/services"
	"github.com/kamal-hamza/px-cli/pkg/logging"
	"github.com/kamal-hamza/px-cli/pkg/ui"
)

var (
	editWatchDir string
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:     "edit [file|dir]...",
	Short:   "Open the interactive image editor (alias: e)",
	Aliases: []string{"e"},
	Long: `Open a full-screen editor over a set of images.

If no files are given, a fuzzy finder lists the images in the current
directory; select several with Tab. Directories contribute the images they
contain. With --watch (or watch_dir in the config), images dropped into a
directory are added while the editor runs.

Keyboard Shortcuts:
  Image list:
    ↑/k ↓/j     Move cursor
    Enter       Select image (resets the sliders)
    Tab         Focus sliders
    a           Add an image by path
    d           Remove image (with confirmation)

  Sliders:
    ↑/k ↓/j     Choose slider
    ←/h →/l     Adjust slider
    r           Reset filters
    Tab / Esc   Back to the list

  Export:
    x           Save the selected image with filters as edited_<name>
    X           Save every original, unedited

  General:
    ?           Toggle help
    q           Quit`,
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editWatchDir, "watch", "w", "", "Add images that appear in this directory")
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	var files []domain.UploadFile
	if len(args) > 0 {
		var rejected []string
		files, rejected = collectImages(args)
		reportRejected(rejected)
	} else {
		picked, err := pickImages(".")
		if err != nil {
			return err
		}
		files = picked
	}

	session := newSession()
	if _, err := session.Upload(ctx, files); err != nil {
		return err
	}

	m := newEditorModel(ctx, session, appConfig.PreviewWidth, appConfig.PreviewHeight)

	watchDir := editWatchDir
	if watchDir == "" {
		watchDir = appConfig.WatchDir
	}
	m.inboxDir = watchDir

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Saved files are reported inside the TUI instead of on stdout
	downloadTrigger.OnSaved(func(path string) {
		copySavedPath(path)
		p.Send(savedMsg{path: path})
	})

	if watchDir != "" {
		debounce := time.Duration(appConfig.WatchDebounceMS) * time.Millisecond
		watcher, err := inbox.NewWatcher(watchDir, debounce)
		if err != nil {
			return err
		}
		defer watcher.Close()

		go forwardInbox(p, watcher)
	}

	_, runErr := p.Run()

	// Let scheduled export-all downloads finish before URLs are revoked
	exportScheduler.Wait()
	downloadTrigger.OnSaved(announceSaved)
	session.Close()

	if runErr != nil {
		return fmt.Errorf("error running editor: %w", runErr)
	}
	return nil
}

// forwardInbox feeds watcher files into the program until the watcher closes
func forwardInbox(p *tea.Program, watcher *inbox.Watcher) {
	for file := range watcher.Files() {
		logging.Info("inbox: adding %s", file.Name)
		p.Send(inboxFileMsg{file: file})
	}
}

// pickImages lets the user choose images in dir with a fuzzy finder. An
// empty directory or a cancelled finder yields no files.
func pickImages(dir string) ([]domain.UploadFile, error) {
	paths, err := listImagesInDir(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		fmt.Println(ui.FormatInfo("No images in " + dir + ", starting empty. Press 'a' to add one."))
		return nil, nil
	}

	infos, err := inspectService.Execute(getContext(), paths)
	if err != nil {
		return nil, err
	}

	idxs, err := fuzzyfinder.FindMulti(
		infos,
		func(i int) string {
			return infos[i].Name
		},
		fuzzyfinder.WithPromptString("image> "),
		fuzzyfinder.WithHeader("Tab to select several, Enter to open"),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return imageInfoPreview(infos[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			fmt.Println(ui.FormatInfo("Selection cancelled."))
			return nil, nil
		}
		return nil, err
	}

	files := make([]domain.UploadFile, 0, len(idxs))
	for _, i := range idxs {
		files = append(files, domain.NewUploadFile(infos[i].Path))
	}
	return files, nil
}

// imageInfoPreview renders the finder preview of one image
func imageInfoPreview(info services.ImageInfo) string {
	var s strings.Builder
	s.WriteString(fmt.Sprintf("File: %s\n", info.Name))
	if info.Err != nil {
		s.WriteString(fmt.Sprintf("Error: %v\n", info.Err))
		return s.String()
	}
	s.WriteString(fmt.Sprintf("Format: %s\n", info.Format))
	s.WriteString(fmt.Sprintf("Dimensions: %d×%d\n", info.Width, info.Height))
	s.WriteString(fmt.Sprintf("Size: %s\n", formatBytes(info.Size)))
	s.WriteString(fmt.Sprintf("Type: %s\n", domain.MIMEType(info.Name)))
	return s.String()
}
