package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/services"
	"github.com/kamal-hamza/px-cli/pkg/termimg"
)

var viewFilters filterFlags

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Show an image full-screen with adjustable filters",
	Long: `Show an image full-screen using half-block characters.

Keyboard Shortcuts:
  Tab / 1-5   Choose slider
  ←/→ or h/l  Adjust slider
  r           Reset filters
  s           Save edited copy
  q / Esc     Quit

Filter flags set the starting slider values.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	addFilterFlags(viewCmd, &viewFilters)
}

func runView(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	files, rejected := collectImages(args[:1])
	if len(rejected) > 0 || len(files) != 1 {
		return fmt.Errorf("%s is not an image", args[0])
	}

	session := newSession()
	defer session.Close()

	assets, err := session.Upload(ctx, files)
	if err != nil {
		return err
	}
	if err := session.SelectImage(assets[0].ID); err != nil {
		return err
	}
	start := viewFilters.params()
	for _, field := range domain.AllFields {
		value, _ := start.Get(field)
		if _, err := session.AdjustFilter(field, value); err != nil {
			return err
		}
	}

	viewer, err := NewImageViewer(ctx, session, assets[0])
	if err != nil {
		return err
	}

	// Saved paths are reported in the status line while the screen is up
	downloadTrigger.OnSaved(func(path string) {
		viewer.savedPath = path
		copySavedPath(path)
	})
	defer downloadTrigger.OnSaved(announceSaved)

	return viewer.Run()
}

// ImageViewer is a full-screen tcell view over a single-image session
type ImageViewer struct {
	ctx       context.Context
	session   *services.EditorSession
	asset     domain.ImageAsset
	screen    tcell.Screen
	width     int
	height    int
	base      *services.PreviewBase
	rendered  image.Image
	field     int
	status    string
	savedPath string
}

// NewImageViewer creates a viewer for an already selected asset
func NewImageViewer(ctx context.Context, session *services.EditorSession, asset domain.ImageAsset) (*ImageViewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	width, height := screen.Size()

	return &ImageViewer{
		ctx:     ctx,
		session: session,
		asset:   asset,
		screen:  screen,
		width:   width,
		height:  height,
	}, nil
}

// Run starts the event loop
func (v *ImageViewer) Run() error {
	defer v.screen.Fini()

	if err := v.reload(); err != nil {
		return err
	}
	v.screen.Clear()
	v.render()

	for {
		ev := v.screen.PollEvent()

		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.width, v.height = ev.Size()
			v.screen.Sync()
			if err := v.reload(); err != nil {
				return err
			}
			v.render()

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}

			v.handleKeyPress(ev)
			v.render()
		}
	}
}

// handleKeyPress processes keyboard input
func (v *ImageViewer) handleKeyPress(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyTab:
		v.field = (v.field + 1) % len(domain.AllFields)
	case tcell.KeyBacktab:
		v.field = (v.field + len(domain.AllFields) - 1) % len(domain.AllFields)
	case tcell.KeyLeft:
		v.adjust(-1)
	case tcell.KeyRight:
		v.adjust(1)
	}

	switch r := ev.Rune(); r {
	case 'h':
		v.adjust(-1)
	case 'l':
		v.adjust(1)
	case 'r':
		v.session.ResetFilters()
		v.rerender()
	case 's':
		v.save()
	case '1', '2', '3', '4', '5':
		v.field = int(r - '1')
	}
}

func (v *ImageViewer) adjust(direction float64) {
	field := domain.AllFields[v.field]
	current, _ := v.session.Filters().Get(field)
	next := field.Range().Clamp(current + direction*sliderStep(field))
	if _, err := v.session.AdjustFilter(field, next); err != nil {
		v.status = err.Error()
		return
	}
	v.rerender()
}

func (v *ImageViewer) save() {
	v.savedPath = ""
	v.status = "saving..."
	v.render()

	err := v.session.ExportSelected(v.ctx)
	switch {
	case errors.Is(err, domain.ErrExportSuperseded):
		v.status = ""
	case err != nil:
		v.status = err.Error()
	case v.savedPath != "":
		v.status = "saved " + shortenHome(v.savedPath)
	default:
		v.status = "saved"
	}
}

// reload downsizes the image for the current screen
func (v *ImageViewer) reload() error {
	cols, rows := v.width, v.height-2
	if rows < 1 {
		rows = 1
	}
	maxW, maxH := termimg.PixelBox(cols, rows)

	base, err := v.session.LoadPreview(v.ctx, v.asset.ID, maxW, maxH)
	if err != nil {
		return err
	}
	v.base = base
	v.rerender()
	return nil
}

func (v *ImageViewer) rerender() {
	if v.base == nil {
		return
	}
	img, err := v.session.RenderPreview(v.ctx, v.base, v.session.Filters())
	if err != nil {
		v.status = err.Error()
		return
	}
	v.rendered = img
}

// render draws the image centred above a two-line status bar
func (v *ImageViewer) render() {
	v.screen.Clear()

	if v.rendered != nil {
		grid := termimg.Cells(v.rendered)
		offsetY := (v.height - 2 - len(grid)) / 2
		for y, row := range grid {
			offsetX := (v.width - len(row)) / 2
			for x, cell := range row {
				style := tcell.StyleDefault.
					Foreground(tcellColor(cell.Top)).
					Background(tcellColor(cell.Bottom))
				v.screen.SetContent(offsetX+x, offsetY+y, []rune(termimg.HalfBlock)[0], nil, style)
			}
		}
	}

	// Sliders
	y := v.height - 2
	x := 0
	params := v.session.Filters()
	for i, field := range domain.AllFields {
		value, _ := params.Get(field)
		label := fmt.Sprintf(" %d %s %g%s ", i+1, field, value, field.Range().Unit)
		style := tcell.StyleDefault.Foreground(tcell.ColorGray)
		if i == v.field {
			style = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorPurple)
		}
		v.drawText(x, y, label, style)
		x += len([]rune(label))
	}

	footer := v.asset.Name + "  [Tab] Slider  [←→] Adjust  [r] Reset  [s] Save  [q] Quit"
	if v.status != "" {
		footer = v.asset.Name + "  " + v.status
	}
	v.drawText(0, v.height-1, footer, tcell.StyleDefault.Foreground(tcell.ColorYellow))

	v.screen.Show()
}

// drawText draws text at the specified position
func (v *ImageViewer) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		if x+i >= v.width {
			break
		}
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func tcellColor(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
