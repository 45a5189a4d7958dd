package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/vastavik/internal/capture"
	"github.com/five82/vastavik/internal/detector"
	"github.com/five82/vastavik/internal/prefs"
	"github.com/five82/vastavik/internal/report"
	"github.com/five82/vastavik/internal/session"
)

type stubService struct {
	result detector.AnalysisResult
	err    error
}

func (s stubService) Analyze(context.Context, capture.File, string) (detector.AnalysisResult, error) {
	return s.result, s.err
}

func (s stubService) DownloadReport(context.Context, detector.AnalysisResult) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

type stubDeliverer struct{ dir string }

func (d stubDeliverer) Deliver(_ context.Context, req report.Request) (report.Delivery, error) {
	return report.Delivery{Path: filepath.Join(d.dir, report.ReportFileName)}, nil
}

func knownResult() detector.AnalysisResult {
	return detector.AnalysisResult{
		IsDeepfake:      true,
		ConfidenceScore: 87.5,
		ProcessingTime:  "2.3 seconds",
		Anomalies: []detector.Anomaly{
			{Region: "Knee Joint", Confidence: 92.3, Description: "Inconsistent bone density patterns"},
		},
	}
}

func newTestModel(t *testing.T, svc detector.Service) (Model, *session.Controller) {
	t.Helper()
	ctrl := session.NewController(session.Options{
		Service:   svc,
		Deliverer: stubDeliverer{dir: t.TempDir()},
	})
	m := New(Options{
		Context:    context.Background(),
		Controller: ctrl,
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		StartDir:   t.TempDir(),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 48})
	return next.(Model), ctrl
}

// drain runs cmd and feeds session-related results back into the model
// until no work remains. Timer-driven messages are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("command queue did not drain")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case sessionMsg, pathsMsg, gestureMsg:
			next, more := m.Update(msg)
			m = next.(Model)
			queue = append(queue, more)
		}
	}
	return m
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch keys {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, cmd := m.Update(msg)
	return drain(t, next.(Model), cmd)
}

func paste(t *testing.T, m Model, text string) Model {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true})
	return drain(t, next.(Model), cmd)
}

func writeScan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.dcm")
	if err := os.WriteFile(path, make([]byte, 2048), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestModel_StartsOnDropZone(t *testing.T) {
	m, _ := newTestModel(t, stubService{})
	view := m.View()
	for _, want := range []string{
		"Drag and drop your medical image here",
		"Supports JPEG, PNG, and DICOM formats",
		"Select File",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_PasteAnalyzeDownloadReset(t *testing.T) {
	m, ctrl := newTestModel(t, stubService{result: knownResult()})

	m = paste(t, m, "'"+writeScan(t)+"'")
	if m.snap.File == nil || m.snap.File.Name != "scan.dcm" {
		t.Fatalf("File = %#v, want scan.dcm", m.snap.File)
	}
	view := m.View()
	for _, want := range []string{"Original Upload", "Preview not available for this file type", "File size: 2.00 KB"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m = press(t, m, "a")
	if m.snap.Status != session.StatusCompleted || m.snap.Result == nil {
		t.Fatalf("status = %v result = %v, want completed", m.snap.Status, m.snap.Result)
	}
	view = m.View()
	for _, want := range []string{"Potential Deepfake Detected!", "Confidence Score:", "Knee Joint", "Confidence: 92.3%", "Processing time: 2.3 seconds"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m = press(t, m, "d")
	if m.snap.Notice.Kind != session.NoticeSuccess || !strings.Contains(m.snap.Notice.Text, report.ReportFileName) {
		t.Fatalf("Notice = %#v, want saved report", m.snap.Notice)
	}

	m = press(t, m, "esc")
	if m.snap.Notice.Kind != session.NoticeNone {
		t.Fatalf("esc did not dismiss notice: %#v", m.snap.Notice)
	}

	m = press(t, m, "r")
	if m.snap.File != nil || m.snap.Result != nil || ctrl.Snapshot().Status != session.StatusIdle {
		t.Fatalf("reset left state behind: %#v", m.snap)
	}
	if m.gauge.value() != 0 {
		t.Fatalf("gauge = %v after reset, want 0", m.gauge.value())
	}
}

func TestModel_FailureOffersRetry(t *testing.T) {
	svc := stubService{err: &detector.NetworkError{Op: "analyze", Err: errors.New("connection refused")}}
	m, _ := newTestModel(t, svc)

	m = paste(t, m, writeScan(t))
	m = press(t, m, "enter")
	if m.snap.Status != session.StatusFailed {
		t.Fatalf("status = %v, want failed", m.snap.Status)
	}
	view := m.View()
	if !strings.Contains(view, "Analysis failed") || !strings.Contains(view, "Could not reach") {
		t.Fatalf("view missing failure text:\n%s", view)
	}
	if m.snap.File == nil {
		t.Fatalf("failed analysis dropped the file")
	}
}

func TestModel_PasteWithoutValidPathShowsNotice(t *testing.T) {
	m, _ := newTestModel(t, stubService{})
	m = paste(t, m, filepath.Join(t.TempDir(), "missing.png"))
	if m.snap.File != nil {
		t.Fatalf("File = %#v, want none", m.snap.File)
	}
	if m.snap.Notice.Kind != session.NoticeError {
		t.Fatalf("Notice = %#v, want error notice", m.snap.Notice)
	}
}

func TestModel_GesturesDriveDropZone(t *testing.T) {
	m, _ := newTestModel(t, stubService{})

	next, _ := m.Update(gestureMsg{gesture: capture.Gesture{Kind: capture.GestureEnter}, ok: true})
	m = next.(Model)
	if !m.snap.DragActive {
		t.Fatalf("DragActive = false after enter gesture")
	}

	f, err := capture.FromPath(writeScan(t))
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}
	next, _ = m.Update(gestureMsg{gesture: capture.Gesture{Kind: capture.GestureDrop, Files: []capture.File{f}}, ok: true})
	m = next.(Model)
	if m.snap.DragActive {
		t.Fatalf("DragActive = true after drop")
	}
	if m.snap.File == nil || m.snap.File.Name != "scan.dcm" {
		t.Fatalf("File = %#v, want dropped scan", m.snap.File)
	}

	next, _ = m.Update(gestureMsg{ok: false})
	if next.(Model).gestures != nil {
		t.Fatalf("closed gesture channel was not released")
	}
}

func TestModel_OpenIgnoredWhilePending(t *testing.T) {
	m, ctrl := newTestModel(t, stubService{result: knownResult()})
	m = paste(t, m, writeScan(t))

	if task := ctrl.Analyze(context.Background()); task == nil {
		t.Fatalf("Analyze returned nil task")
	}
	m.snap = ctrl.Snapshot()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	m = next.(Model)
	if m.overlay != overlayNone {
		t.Fatalf("picker opened while analysis pending")
	}
	if !strings.Contains(m.View(), "Analyzing image...") {
		t.Fatalf("pending view missing progress text:\n%s", m.View())
	}
}

func TestModel_KeyReturnsSyncedModel(t *testing.T) {
	m, _ := newTestModel(t, stubService{result: knownResult()})
	m = paste(t, m, writeScan(t))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("analyze returned nil command")
	}
	if m.snap.Status != session.StatusPending || !m.spinning {
		t.Fatalf("status = %v spinning = %v, want pending model before the task runs", m.snap.Status, m.spinning)
	}

	m = drain(t, m, cmd)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	if m.snap.File != nil || m.snap.Status != session.StatusIdle {
		t.Fatalf("snapshot after reset = %#v, want idle without file", m.snap)
	}
}

func TestModel_OverlaysAndTheme(t *testing.T) {
	m, _ := newTestModel(t, stubService{})

	m = press(t, m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m = press(t, m, "x")
	if m.overlay != overlayNone {
		t.Fatalf("any key should close help")
	}

	m = press(t, m, "A")
	if m.overlay != overlayAbout || m.about == "" {
		t.Fatalf("about overlay not shown")
	}
	m = press(t, m, "esc")

	m = press(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", p.Theme)
	}
}

func TestHelpSections_FollowKeyMap(t *testing.T) {
	sections := helpSections(DefaultKeyMap())
	if len(sections) != 3 || sections[0].title != "Session" {
		t.Fatalf("sections = %#v", sections)
	}
	if sections[0].items[0].key != "o" {
		t.Fatalf("first binding = %#v, want o", sections[0].items[0])
	}
}
