package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vastavik/internal/session"
)

// renderMain renders the header, the active session view and the command bar.
func (m Model) renderMain() string {
	header := m.renderHeader()
	bar := m.renderCommandBar()
	notice := m.renderNotice()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(bar)
	if notice != "" {
		bodyHeight -= lipgloss.Height(notice)
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if m.snap.View() == session.ViewNoFile {
		body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderDropZone())
	} else {
		body = lipgloss.NewStyle().
			Width(m.width).
			Height(bodyHeight).
			MaxHeight(bodyHeight).
			Render(m.renderWorkspace())
	}

	parts := []string{header, body}
	if notice != "" {
		parts = append(parts, notice)
	}
	parts = append(parts, bar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderDropZone renders the empty-state upload target. A hovering drag
// highlights it.
func (m Model) renderDropZone() string {
	borderColor := m.theme.Border
	bgColor := m.theme.SurfaceAlt
	if m.snap.DragActive {
		borderColor = m.theme.BorderFocus
		bgColor = m.theme.FocusBg
	}
	styles := m.theme.Styles().WithBackground(bgColor)

	width := DropZoneWidth
	if m.width-4 < width {
		width = m.width - 4
	}
	if width < 20 {
		width = 20
	}

	lines := []string{
		styles.AccentText.Render("⇪"),
		"",
		styles.Text.Bold(true).Render("Drag and drop your medical image here"),
		styles.MutedText.Render("Supports JPEG, PNG, and DICOM formats"),
		"",
		styles.AccentText.Render("[o]") + styles.Text.Render(" Select File"),
		styles.FaintText.Render("or paste a file path into the terminal"),
	}
	if m.dropDir != "" {
		lines = append(lines, styles.FaintText.Render("or drop it into "+truncateMiddle(m.dropDir, width-20)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Background(lipgloss.Color(bgColor)).
		Padding(1, 2).
		Width(width).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderWorkspace renders the upload and result panels, side by side on
// wide terminals and stacked otherwise.
func (m Model) renderWorkspace() string {
	if m.width < LayoutCompactWidth {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderPanel("Original Upload", m.uploadBody(m.width-4), m.width),
			m.renderPanel("Analysis Results", m.resultsBody(m.width-4), m.width),
		)
	}
	left := (m.width - 1) / 2
	right := m.width - 1 - left
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPanel("Original Upload", m.uploadBody(left-4), left),
		" ",
		m.renderPanel("Analysis Results", m.resultsBody(right-4), right),
	)
}

func (m Model) renderPanel(title, body string, width int) string {
	styles := m.theme.Styles()
	content := styles.AccentText.Bold(true).Render(title) + "\n\n" + body
	return styles.Panel.Width(width - 2).Render(content)
}

// uploadBody shows the preview, name and size of the selected file.
func (m Model) uploadBody(width int) string {
	styles := m.theme.Styles()
	f := m.snap.File
	if f == nil {
		return ""
	}

	var lines []string
	switch {
	case m.snap.Preview != nil && m.snap.Preview.Render() != "":
		lines = append(lines, m.snap.Preview.Render())
	case f.IsImage() && m.snap.Preview == nil && m.snap.PreviewErr == nil:
		lines = append(lines, styles.FaintText.Render("Loading preview..."))
	default:
		lines = append(lines, styles.MutedText.Render("Preview not available for this file type"))
	}

	lines = append(lines,
		"",
		styles.Text.Bold(true).Render(truncateMiddle(f.Name, width)),
		styles.MutedText.Render("File size: "+f.SizeLabel()),
	)
	if f.MediaType != "" {
		lines = append(lines, styles.FaintText.Render(f.MediaType))
	}
	return strings.Join(lines, "\n")
}

// resultsBody shows the analysis state and the actions available for it.
func (m Model) resultsBody(width int) string {
	styles := m.theme.Styles()
	s := m.snap

	var lines []string
	switch {
	case s.Status == session.StatusPending:
		lines = append(lines,
			m.spinner.View()+" "+styles.Text.Render("Analyzing image..."),
			styles.FaintText.Render("This may take a few moments"),
		)
	case s.Status == session.StatusFailed:
		lines = append(lines,
			styles.DangerText.Render("Analysis failed"),
			lipgloss.NewStyle().Width(width).Render(styles.Text.Render(s.FailureMessage())),
			"",
			styles.AccentText.Render("[a]")+styles.Text.Render(" Retry Analysis"),
			styles.AccentText.Render("[r]")+styles.Text.Render(" Reset & Upload New Image"),
		)
	case s.Result != nil:
		lines = append(lines, m.resultLines(width)...)
	default:
		lines = append(lines,
			styles.MutedText.Render(`Press "a" to begin detection`),
			"",
			styles.AccentText.Render("[a]")+styles.Text.Render(" Analyze Image"),
			styles.AccentText.Render("[r]")+styles.Text.Render(" Reset & Upload New Image"),
		)
	}
	return strings.Join(lines, "\n")
}

func (m Model) resultLines(width int) []string {
	styles := m.theme.Styles()
	r := m.snap.Result
	verdictColor := m.theme.VerdictColor(r.IsDeepfake)

	banner := lipgloss.NewStyle().
		Background(lipgloss.Color(verdictColor)).
		Foreground(lipgloss.Color(m.theme.Background)).
		Bold(true).
		Padding(0, 1).
		Width(width).
		Render(r.Verdict())

	lines := []string{
		banner,
		"",
		styles.Text.Bold(true).Render("Confidence Score:"),
		renderBar(width, m.gauge.value(), r.ConfidenceScore, verdictColor, m.theme.Border),
		"",
		styles.Text.Bold(true).Render("Detected Anomalies:"),
	}

	if len(r.Anomalies) == 0 {
		lines = append(lines, styles.FaintText.Render("None reported"))
	}
	wrap := lipgloss.NewStyle().Width(width - 2).PaddingLeft(2)
	for _, a := range r.Anomalies {
		region := a.Region
		if region == "" {
			region = "Unlabelled region"
		}
		lines = append(lines,
			styles.WarningText.Render("• ")+styles.Text.Bold(true).Render(region),
			styles.MutedText.Render("  Confidence: "+formatPercent(a.Confidence)),
		)
		if a.Description != "" {
			lines = append(lines, wrap.Render(styles.Text.Render(a.Description)))
		}
	}

	if r.ProcessingTime != "" {
		lines = append(lines, "", styles.FaintText.Render("Processing time: "+r.ProcessingTime))
	}

	lines = append(lines, "")
	if m.snap.Exporting {
		lines = append(lines, m.spinner.View()+" "+styles.Text.Render("Downloading report..."))
	} else {
		lines = append(lines, styles.AccentText.Render("[d]")+styles.Text.Render(" Download Report"))
	}
	lines = append(lines, styles.AccentText.Render("[r]")+styles.Text.Render(" Reset & Upload New Image"))

	if d := m.snap.Delivery; d != nil {
		lines = append(lines, "", styles.FaintText.Render("Saved "+truncateMiddle(d.Path, width-6)))
		if d.ArchiveURL != "" {
			lines = append(lines, styles.FaintText.Render("Archived "+truncateMiddle(d.ArchiveURL, width-9)))
		}
	}
	return lines
}

// renderNotice renders the export or input notice, if any.
func (m Model) renderNotice() string {
	n := m.snap.Notice
	if n.Kind == session.NoticeNone || n.Text == "" {
		return ""
	}
	styles := m.theme.Styles()
	style := styles.SuccessText
	if n.Kind == session.NoticeError {
		style = styles.DangerText
	}
	hint := "  (esc to dismiss)"
	return " " + style.Render(truncate(n.Text, m.width-len(hint)-1)) + styles.FaintText.Render(hint)
}

func (m Model) pickerHeight() int {
	h := m.height - 8
	if h < 5 {
		h = 5
	}
	return h
}

// renderPicker renders the file selection overlay.
func (m Model) renderPicker() string {
	styles := m.theme.Styles()
	content := strings.Join([]string{
		styles.AccentText.Bold(true).Render("Select a medical image"),
		styles.FaintText.Render(truncateMiddle(m.picker.CurrentDirectory, m.width-8)),
		"",
		m.picker.View(),
		"",
		styles.FaintText.Render("enter: select  esc: cancel"),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 1).
		Width(m.width - 2).
		Render(content)
}
