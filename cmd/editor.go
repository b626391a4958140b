package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kamal-hamza/px-cli/internal/core/domain"
	"github.com/kamal-hamza/px-cli/internal/core/services"
	"github.com/kamal-hamza/px-cli/pkg/logging"
	"github.com/kamal-hamza/px-cli/pkg/termimg"
	"github.com/kamal-hamza/px-cli/pkg/ui"
)

// Editor modes
type editorMode int

const (
	modeBrowse editorMode = iota
	modeAdjust
	modeAddPath
	modeConfirmDelete
)

// Preview state
type previewState struct {
	base     *services.PreviewBase
	rendered string
	seq      uint64 // latest render request; older results are dropped
	loading  bool
}

// Editor model
type editorModel struct {
	ctx           context.Context
	session       *services.EditorSession
	cursor        int // Highlighted item in the image list
	offset        int // Scroll offset of the image list
	field         int // Focused slider
	mode          editorMode
	pathInput     textinput.Model
	slider        progress.Model
	help          help.Model
	keys          editorKeyMap
	width         int
	height        int
	ready         bool
	message       string // Status message
	messageStyle  lipgloss.Style
	messageExpiry time.Time
	deleteTarget  *domain.ImageAsset // Image pending deletion
	preview       previewState
	maxPreviewW   int
	maxPreviewH   int
	inboxDir      string
}

// Key bindings
type editorKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Focus     key.Binding
	Decrease  key.Binding
	Increase  key.Binding
	Reset     key.Binding
	Delete    key.Binding
	Export    key.Binding
	ExportAll key.Binding
	Add       key.Binding
	Help      key.Binding
	Quit      key.Binding
	Escape    key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Focus, k.Export, k.Help, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Focus},
		{k.Decrease, k.Increase, k.Reset},
		{k.Add, k.Delete, k.Export, k.ExportAll},
		{k.Help, k.Escape, k.Quit},
	}
}

var editorKeys = editorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select image"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "list/sliders"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "decrease"),
	),
	Increase: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "increase"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset filters"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete image"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export edited"),
	),
	ExportAll: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "export all originals"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add image"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "N", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

func newEditorModel(ctx context.Context, session *services.EditorSession, maxPreviewW, maxPreviewH int) editorModel {
	ti := textinput.New()
	ti.Placeholder = "path/to/image.png or a directory"
	ti.CharLimit = 1024
	ti.Width = 50

	bar := progress.New(
		progress.WithSolidFill(ui.ColorPrimary.Dark),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = ui.ColorMuted.Dark
	bar.Width = 24

	return editorModel{
		ctx:         ctx,
		session:     session,
		mode:        modeBrowse,
		pathInput:   ti,
		slider:      bar,
		help:        help.New(),
		keys:        editorKeys,
		maxPreviewW: maxPreviewW,
		maxPreviewH: maxPreviewH,
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.adjustViewport()
		if m.preview.base != nil {
			if selected, ok := m.session.Selected(); ok {
				return m, m.loadPreview(selected.ID)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAddPath:
			return m.updateAddPath(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeAdjust:
			return m.updateAdjust(msg)
		default:
			return m.updateBrowse(msg)
		}

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, clearMessageAfter(3 * time.Second)

	case clearMessageMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case uploadedMsg:
		if msg.err != nil {
			return m, showError(msg.err.Error())
		}
		if len(msg.assets) == 0 {
			return m, showWarning("No images added")
		}
		return m, showSuccess(fmt.Sprintf("Added %d image(s)", len(msg.assets)))

	case inboxFileMsg:
		return m, m.upload([]domain.UploadFile{msg.file})

	case previewBaseMsg:
		selected, ok := m.session.Selected()
		if !ok || selected.ID != msg.base.AssetID {
			return m, nil
		}
		m.preview.base = msg.base
		return m.renderPreview()

	case previewRenderedMsg:
		if msg.seq != m.preview.seq {
			return m, nil
		}
		m.preview.rendered = msg.view
		m.preview.loading = false
		return m, nil

	case previewFailedMsg:
		m.preview.loading = false
		return m, showError(msg.err.Error())

	case exportDoneMsg:
		switch {
		case errors.Is(msg.err, domain.ErrExportSuperseded):
			return m, nil
		case msg.err != nil:
			return m, showError(msg.err.Error())
		}
		return m, nil

	case exportAllMsg:
		return m, showInfo(fmt.Sprintf("Saving %d original(s)...", msg.count))

	case savedMsg:
		return m, showSuccess("Saved " + shortenHome(msg.path))
	}

	return m, nil
}

func (m editorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	images := m.session.Images()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(images)-1 {
			m.cursor++
			m.adjustViewport()
		}

	case key.Matches(msg, m.keys.Select):
		if len(images) > 0 {
			return m.selectImage(images[m.cursor])
		}

	case key.Matches(msg, m.keys.Focus):
		if _, ok := m.session.Selected(); ok {
			m.mode = modeAdjust
		}

	case key.Matches(msg, m.keys.Delete):
		if len(images) > 0 {
			target := images[m.cursor]
			m.deleteTarget = &target
			m.mode = modeConfirmDelete
		}

	case key.Matches(msg, m.keys.Export):
		return m, m.exportSelected()

	case key.Matches(msg, m.keys.ExportAll):
		return m, m.exportAll()

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAddPath
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m editorModel) updateAdjust(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Focus):
		m.mode = modeBrowse

	case key.Matches(msg, m.keys.Up):
		if m.field > 0 {
			m.field--
		}

	case key.Matches(msg, m.keys.Down):
		if m.field < len(domain.AllFields)-1 {
			m.field++
		}

	case key.Matches(msg, m.keys.Decrease):
		return m.adjust(-1)

	case key.Matches(msg, m.keys.Increase):
		return m.adjust(1)

	case key.Matches(msg, m.keys.Reset):
		m.session.ResetFilters()
		return m.renderPreview()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportSelected()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m editorModel) updateAddPath(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.pathInput.Blur()
		return m, nil

	case tea.KeyEnter:
		m.mode = modeBrowse
		m.pathInput.Blur()
		value := strings.TrimSpace(m.pathInput.Value())
		if value == "" {
			return m, nil
		}
		files, rejected := collectImages(strings.Fields(value))
		cmds := []tea.Cmd{m.upload(files)}
		if len(rejected) > 0 {
			cmds = append(cmds, showWarning("Not an image: "+strings.Join(rejected, ", ")))
		}
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m editorModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		target := m.deleteTarget
		m.deleteTarget = nil
		m.mode = modeBrowse
		return m.deleteImage(target)

	case key.Matches(msg, m.keys.Cancel):
		m.deleteTarget = nil
		m.mode = modeBrowse
	}
	return m, nil
}

// selectImage selects an asset, which also resets every slider
func (m editorModel) selectImage(asset domain.ImageAsset) (tea.Model, tea.Cmd) {
	if err := m.session.SelectImage(asset.ID); err != nil {
		return m, showError(err.Error())
	}
	m.mode = modeAdjust
	m.field = 0
	m.preview = previewState{seq: m.preview.seq + 1, loading: true}
	return m, m.loadPreview(asset.ID)
}

func (m editorModel) deleteImage(target *domain.ImageAsset) (tea.Model, tea.Cmd) {
	if target == nil {
		return m, nil
	}

	selected, wasSelected := m.session.Selected()
	if err := m.session.DeleteImage(target.ID); err != nil {
		return m, showError(err.Error())
	}
	if wasSelected && selected.ID == target.ID {
		m.preview = previewState{seq: m.preview.seq + 1}
	}

	if m.cursor >= m.session.Len() {
		m.cursor = m.session.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustViewport()
	return m, showSuccess("Deleted " + target.Name)
}

// adjust moves the focused slider by one step in direction
func (m editorModel) adjust(direction float64) (tea.Model, tea.Cmd) {
	field := domain.AllFields[m.field]
	current, err := m.session.Filters().Get(field)
	if err != nil {
		return m, showError(err.Error())
	}

	next := field.Range().Clamp(current + direction*sliderStep(field))
	if next == current {
		return m, nil
	}
	if _, err := m.session.AdjustFilter(field, next); err != nil {
		return m, showError(err.Error())
	}
	return m.renderPreview()
}

// sliderStep returns the arrow-key increment of a field
func sliderStep(field domain.FilterField) float64 {
	if appConfig == nil {
		return field.Range().Step
	}
	switch field {
	case domain.FieldBlur:
		return appConfig.BlurStep
	case domain.FieldRotation:
		return appConfig.RotationStep
	default:
		return appConfig.PercentStep
	}
}

func (m *editorModel) adjustViewport() {
	listHeight := m.listHeight()

	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m editorModel) listHeight() int {
	h := m.height - 8 // header, footer and borders
	if h < 3 {
		h = 3
	}
	return h
}

// previewBox returns the pixel box the preview pane can show
func (m editorModel) previewBox() (int, int) {
	cols := m.width - m.listWidth() - 6
	rows := m.height - 8 - len(domain.AllFields) - 2
	w, h := termimg.PixelBox(cols, rows)
	if m.maxPreviewW > 0 && (w <= 0 || w > m.maxPreviewW) {
		w = m.maxPreviewW
	}
	if m.maxPreviewH > 0 && (h <= 0 || h > m.maxPreviewH) {
		h = m.maxPreviewH
	}
	return w, h
}

func (m editorModel) listWidth() int {
	w := m.width * 3 / 10
	if w < 24 {
		w = 24
	}
	return w
}

// --- Messages ---

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type uploadedMsg struct {
	assets []domain.ImageAsset
	err    error
}

type inboxFileMsg struct {
	file domain.UploadFile
}

type previewBaseMsg struct {
	base *services.PreviewBase
}

type previewRenderedMsg struct {
	seq  uint64
	view string
}

type previewFailedMsg struct {
	err error
}

type exportDoneMsg struct {
	err error
}

type exportAllMsg struct {
	count int
}

type savedMsg struct {
	path string
}

func showSuccess(msg string) tea.Cmd {
	return func() tea.Msg { return statusMsg{message: ui.IconSuccess + " " + msg, style: ui.StyleSuccess} }
}

func showError(msg string) tea.Cmd {
	return func() tea.Msg { return statusMsg{message: ui.IconError + " " + msg, style: ui.StyleError} }
}

func showWarning(msg string) tea.Cmd {
	return func() tea.Msg { return statusMsg{message: ui.IconWarning + " " + msg, style: ui.StyleWarning} }
}

func showInfo(msg string) tea.Cmd {
	return func() tea.Msg { return statusMsg{message: ui.IconInfo + " " + msg, style: ui.StyleInfo} }
}

func clearMessageAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearMessageMsg{} })
}

// --- Commands ---

func (m editorModel) upload(files []domain.UploadFile) tea.Cmd {
	if len(files) == 0 {
		return nil
	}
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		assets, err := session.Upload(ctx, files)
		return uploadedMsg{assets: assets, err: err}
	}
}

func (m editorModel) loadPreview(id string) tea.Cmd {
	session, ctx := m.session, m.ctx
	w, h := m.previewBox()
	return func() tea.Msg {
		base, err := session.LoadPreview(ctx, id, w, h)
		if err != nil {
			return previewFailedMsg{err: err}
		}
		return previewBaseMsg{base: base}
	}
}

// renderPreview bumps the preview token and renders the live filters
func (m editorModel) renderPreview() (tea.Model, tea.Cmd) {
	if m.preview.base == nil {
		return m, nil
	}

	m.preview.seq++
	m.preview.loading = true
	seq, base := m.preview.seq, m.preview.base
	session, ctx := m.session, m.ctx
	params := m.session.Filters()

	return m, func() tea.Msg {
		img, err := session.RenderPreview(ctx, base, params)
		if err != nil {
			return previewFailedMsg{err: err}
		}
		return previewRenderedMsg{seq: seq, view: termimg.Render(img)}
	}
}

func (m editorModel) exportSelected() tea.Cmd {
	if _, ok := m.session.Selected(); !ok {
		return showWarning("Select an image first")
	}
	session, ctx := m.session, m.ctx
	return tea.Batch(
		showInfo("Exporting..."),
		func() tea.Msg {
			return exportDoneMsg{err: session.ExportSelected(ctx)}
		},
	)
}

func (m editorModel) exportAll() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		count := session.ExportAll(ctx)
		logging.Info("export-all scheduled %d download(s)", count)
		return exportAllMsg{count: count}
	}
}

// --- Views ---

func (m editorModel) View() string {
	if !m.ready {
		return "\n  Loading editor..."
	}

	if m.mode == modeConfirmDelete {
		return m.viewConfirmDelete()
	}

	var s strings.Builder

	s.WriteString(m.renderHeader())
	s.WriteString("\n")

	listWidth := m.listWidth()
	list := m.renderImageList(listWidth)
	editor := m.renderEditorPane(m.width - listWidth - 4)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, " ", editor))
	s.WriteString("\n")

	s.WriteString(m.renderFooter())
	return s.String()
}

func (m editorModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	statsStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Align(lipgloss.Right)

	dest := ""
	if downloadTrigger != nil {
		dest = "  → " + shortenHome(downloadTrigger.Dir())
	}
	if m.inboxDir != "" {
		dest += "  " + ui.IconInbox + " " + shortenHome(m.inboxDir)
	}

	title := titleStyle.Render(ui.IconImage + " PX Editor")
	stats := statsStyle.Render(fmt.Sprintf("%d images%s", m.session.Len(), dest))

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 0 {
		spacer = 0
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacer), stats)
}

func (m editorModel) renderImageList(width int) string {
	style := ui.StylePane
	if m.mode == modeBrowse || m.mode == modeAddPath {
		style = ui.StylePaneFocused
	}
	style = style.Width(width - 2).Height(m.listHeight())

	images := m.session.Images()
	if len(images) == 0 {
		empty := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).
			Render("No images yet.\nPress 'a' to add one.")
		return style.Render(empty)
	}

	selected, _ := m.session.Selected()

	var s strings.Builder
	end := m.offset + m.listHeight()
	if end > len(images) {
		end = len(images)
	}
	for i := m.offset; i < end; i++ {
		asset := images[i]

		cursor := "  "
		nameStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
		if i == m.cursor {
			cursor = ui.StyleAccent.Render("▸ ")
			nameStyle = nameStyle.Bold(true)
		}
		marker := " "
		if asset.ID == selected.ID {
			marker = ui.StyleSuccess.Render("●")
			nameStyle = nameStyle.Foreground(ui.ColorPrimary)
		}

		name := truncate(asset.Name, width-8)
		s.WriteString(cursor + marker + " " + nameStyle.Render(name))
		if i < end-1 {
			s.WriteString("\n")
		}
	}

	return style.Render(s.String())
}

func (m editorModel) renderEditorPane(width int) string {
	style := ui.StylePane
	if m.mode == modeAdjust {
		style = ui.StylePaneFocused
	}
	style = style.Width(width - 2)

	selected, ok := m.session.Selected()
	if !ok {
		hint := lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).
			Render("Select an image with enter to start editing.")
		return style.Render(hint)
	}

	var s strings.Builder
	s.WriteString(ui.StyleHeader.Render(selected.Name))
	s.WriteString("\n\n")

	switch {
	case m.preview.rendered != "":
		s.WriteString(m.preview.rendered)
	case m.preview.loading:
		s.WriteString(ui.StyleMuted.Render("Rendering preview..."))
	}
	s.WriteString("\n\n")

	s.WriteString(ui.StyleMuted.Render(ui.IconFilter + " Filters"))
	s.WriteString("\n")
	s.WriteString(m.renderSliders())
	s.WriteString("\n")
	s.WriteString(ui.StyleSubtle.Render(m.session.Filters().FilterString()))

	return style.Render(s.String())
}

func (m editorModel) renderSliders() string {
	params := m.session.Filters()

	var s strings.Builder
	for i, field := range domain.AllFields {
		value, _ := params.Get(field)
		r := field.Range()

		label := ui.StyleSliderLabel.Render(capitalize(field.String()))
		if m.mode == modeAdjust && i == m.field {
			label = ui.StyleSliderActive.Render("▸ " + capitalize(field.String()))
		}

		percent := 0.0
		if r.Max > r.Min {
			percent = (value - r.Min) / (r.Max - r.Min)
		}

		s.WriteString(label)
		s.WriteString(m.slider.ViewAs(percent))
		s.WriteString(ui.StyleSliderValue.Render(fmt.Sprintf("%g%s", value, r.Unit)))
		s.WriteString("\n")
	}
	return s.String()
}

func (m editorModel) renderFooter() string {
	var s strings.Builder

	if m.mode == modeAddPath {
		s.WriteString(ui.StylePrimary.Render("Add: "))
		s.WriteString(m.pathInput.View())
		s.WriteString("\n")
	}

	if m.message != "" {
		s.WriteString(m.messageStyle.Render(m.message))
		s.WriteString("\n")
	}

	s.WriteString(m.help.View(m.keys))
	return s.String()
}

func (m editorModel) viewConfirmDelete() string {
	if m.deleteTarget == nil {
		return ""
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(60).
		Align(lipgloss.Center)

	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorWarning).
		Bold(true)

	nameStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true)

	promptStyle := lipgloss.NewStyle().
		Foreground(ui.ColorDefault).
		MarginTop(1)

	content := fmt.Sprintf("%s\n\n%s\n\n%s",
		titleStyle.Render(ui.IconWarning+"  Remove Image?"),
		nameStyle.Render(m.deleteTarget.Name),
		promptStyle.Render("Press 'y' to confirm, 'n' or ESC to cancel"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxStyle.Render(content))
}

// truncate shortens s to width display cells
func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
