package ui

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/prefs"
	"github.com/five82/vastavik/internal/session"
)

// Controller is the session surface the UI drives.
type Controller interface {
	Snapshot() session.Session
	Apply(ctx context.Context, ev session.Event) session.Task
	SubmitPaths(ctx context.Context, paths []string) session.Task
	Drop(ctx context.Context, files []capture.File) session.Task
	DragEnter()
	DragOver()
	DragLeave()
	Analyze(ctx context.Context) session.Task
	ExportReport(ctx context.Context) session.Task
	Reset()
}

// overlay is the modal currently covering the main view.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayAbout
	overlayPicker
	overlayActivity
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller Controller

	// Gestures carries drag events from the drop folder watcher. It may be nil.
	Gestures <-chan capture.Gesture

	// InitialPaths are submitted on start, as if dropped.
	InitialPaths []string

	ThemeName string
	PrefsPath string
	LogFile   string
	APIBase   string
	DropDir   string
	StartDir  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	ctrl         Controller
	gestures     <-chan capture.Gesture
	initialPaths []string
	prefsPath    string
	logFile      string
	apiBase      string
	dropDir      string

	// UI state
	keys    keyMap
	theme   Theme
	width   int
	height  int
	ready   bool
	overlay overlay

	// Session state as last rendered
	snap session.Session

	spinner  spinner.Model
	spinning bool
	gauge    gauge

	picker   filepicker.Model
	activity viewport.Model
	about    string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	startDir := opts.StartDir
	if info, err := os.Stat(startDir); startDir == "" || err != nil || !info.IsDir() {
		startDir = "."
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		}
	}

	theme := GetTheme(themeName)

	picker := filepicker.New()
	picker.AllowedTypes = capture.PickerTypes
	picker.CurrentDirectory = startDir
	picker.ShowHidden = false
	picker.ShowSize = true
	picker.ShowPermissions = false
	picker.DirAllowed = false
	picker.FileAllowed = true
	picker.AutoHeight = false
	picker.Height = 10
	stylePicker(&picker, theme)
	m := Model{
		ctx:          ctx,
		ctrl:         opts.Controller,
		gestures:     opts.Gestures,
		initialPaths: opts.InitialPaths,
		prefsPath:    prefsPath,
		logFile:      opts.LogFile,
		apiBase:      opts.APIBase,
		dropDir:      opts.DropDir,
		keys:         DefaultKeyMap(),
		theme:        theme,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Info))),
		),
		gauge:    newGauge(),
		picker:   picker,
		activity: viewport.New(0, 0),
	}
	if m.ctrl != nil {
		m.snap = m.ctrl.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForGesture(m.gestures)}
	if len(m.initialPaths) > 0 {
		paths := m.initialPaths
		cmds = append(cmds, func() tea.Msg { return pathsMsg(paths) })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeActivity()
		m.picker.Height = m.pickerHeight()
		if m.overlay == overlayAbout {
			m.about = renderAboutMarkdown(m.aboutWidth())
		}
		return m, nil

	case tea.KeyMsg:
		if m.overlay == overlayPicker && !key.Matches(msg, m.keys.Escape) && msg.String() != "ctrl+c" {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)

	case sessionMsg:
		if m.ctrl == nil {
			return m, nil
		}
		task := m.ctrl.Apply(m.ctx, msg.ev)
		cmd := m.sync()
		return m, tea.Batch(runTask(task), cmd)

	case pathsMsg:
		return m.submitPaths([]string(msg))

	case gestureMsg:
		if !msg.ok {
			m.gestures = nil
			return m, nil
		}
		cmd := m.handleGesture(msg.gesture)
		return m, tea.Batch(cmd, waitForGesture(m.gestures))

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		if m.gauge.step() {
			return m, frameCmd()
		}
		return m, nil

	case activityMsg:
		m.setActivity(msg)
		return m, nil

	case activityTickMsg:
		if m.overlay != overlayActivity {
			return m, nil
		}
		return m, tea.Batch(loadActivityCmd(m.logFile), activityTickCmd())
	}

	if m.overlay == overlayPicker {
		return m.updatePicker(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.overlay {
	case overlayHelp:
		return m.renderHelp()
	case overlayAbout:
		return m.renderAbout()
	case overlayPicker:
		return m.renderPicker()
	case overlayActivity:
		return m.renderActivity()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		return m.submitPaths(capture.ParseDropPayload(string(msg.Runes)))
	}

	// Any key closes help
	if m.overlay == overlayHelp {
		m.overlay = overlayNone
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if msg.String() == "q" && m.overlay != overlayNone {
			m.overlay = overlayNone
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		if m.overlay != overlayNone {
			m.overlay = overlayNone
			return m, nil
		}
		if m.snap.Notice.Kind != session.NoticeNone {
			return m, applyCmd(session.DismissNotice{})
		}
		return m, nil
	}

	if m.overlay == overlayActivity {
		var cmd tea.Cmd
		m.activity, cmd = m.activity.Update(msg)
		return m, cmd
	}
	if m.overlay == overlayAbout {
		m.overlay = overlayNone
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.overlay = overlayHelp
		return m, nil

	case key.Matches(msg, m.keys.About):
		m.overlay = overlayAbout
		m.about = renderAboutMarkdown(m.aboutWidth())
		return m, nil

	case key.Matches(msg, m.keys.Activity):
		m.overlay = overlayActivity
		m.resizeActivity()
		return m, tea.Batch(loadActivityCmd(m.logFile), activityTickCmd())

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info))
		stylePicker(&m.picker, m.theme)
		name := m.theme.Name
		_ = prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name })
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if !m.snap.AcceptsFile() {
			return m, nil
		}
		m.overlay = overlayPicker
		m.picker.Height = m.pickerHeight()
		return m, m.picker.Init()
	}

	if m.ctrl == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Analyze):
		if m.snap.Result != nil {
			return m, nil
		}
		task := m.ctrl.Analyze(m.ctx)
		cmd := m.sync()
		return m, tea.Batch(runTask(task), cmd)

	case key.Matches(msg, m.keys.Download):
		if !m.snap.CanExport() {
			return m, nil
		}
		task := m.ctrl.ExportReport(m.ctx)
		cmd := m.sync()
		return m, tea.Batch(runTask(task), cmd)

	case key.Matches(msg, m.keys.Reset):
		if m.snap.File == nil && m.snap.Notice.Kind == session.NoticeNone {
			return m, nil
		}
		m.ctrl.Reset()
		cmd := m.sync()
		return m, cmd
	}

	return m, nil
}

// stylePicker applies theme colors to the file picker.
func stylePicker(fp *filepicker.Model, t Theme) {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	fp.Styles.Cursor = fg(t.Warning).Bold(true)
	fp.Styles.Directory = fg(t.Accent).Bold(true)
	fp.Styles.File = fg(t.Text)
	fp.Styles.Symlink = fg(t.Info)
	fp.Styles.Selected = fg(t.Success).Bold(true)
	fp.Styles.DisabledCursor = fg(t.Warning)
	fp.Styles.DisabledFile = fg(t.Faint)
	fp.Styles.DisabledSelected = fg(t.Muted)
	fp.Styles.FileSize = fg(t.Faint)
}

// updatePicker forwards msg to the file picker and submits a selection.
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.overlay = overlayNone
		dir := filepath.Dir(path)
		_ = prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.PickerDir = dir })
		next, submit := m.submitPaths([]string{path})
		return next, tea.Batch(cmd, submit)
	}
	return m, cmd
}

// submitPaths hands dropped, pasted or picked paths to the session.
func (m Model) submitPaths(paths []string) (tea.Model, tea.Cmd) {
	if len(paths) == 0 || m.ctrl == nil {
		return m, nil
	}
	task := m.ctrl.SubmitPaths(m.ctx, paths)
	cmd := m.sync()
	return m, tea.Batch(runTask(task), cmd)
}

// handleGesture maps a drop folder gesture onto the session.
func (m *Model) handleGesture(g capture.Gesture) tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	var task session.Task
	switch g.Kind {
	case capture.GestureEnter:
		m.ctrl.DragEnter()
	case capture.GestureOver:
		m.ctrl.DragOver()
	case capture.GestureLeave:
		m.ctrl.DragLeave()
	case capture.GestureDrop:
		task = m.ctrl.Drop(m.ctx, g.Files)
	}
	return tea.Batch(runTask(task), m.sync())
}

// sync refreshes the rendered snapshot and starts any animation it needs.
func (m *Model) sync() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	m.snap = m.ctrl.Snapshot()

	var cmds []tea.Cmd
	if m.busy() && !m.spinning {
		m.spinning = true
		cmds = append(cmds, m.spinner.Tick)
	}

	if m.snap.Result == nil {
		m.gauge.reset()
	} else if m.gauge.setTarget(m.snap.Result.ConfidenceScore) {
		cmds = append(cmds, frameCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) busy() bool {
	return m.snap.Status == session.StatusPending || m.snap.Exporting
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
