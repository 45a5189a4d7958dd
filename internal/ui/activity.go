package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vastavik/internal/logtail"
)

func (m *Model) resizeActivity() {
	w := m.width - 4
	h := m.height - 6
	if w < 10 {
		w = 10
	}
	if h < 3 {
		h = 3
	}
	m.activity.Width = w
	m.activity.Height = h
}

// setActivity replaces the activity view content and follows the tail.
func (m *Model) setActivity(msg activityMsg) {
	styles := m.theme.Styles()
	switch {
	case m.logFile == "":
		m.activity.SetContent(styles.FaintText.Render("Logging to a file is disabled"))
	case msg.err != nil:
		m.activity.SetContent(styles.DangerText.Render("Could not read log: " + msg.err.Error()))
	case len(msg.entries) == 0:
		m.activity.SetContent(styles.FaintText.Render("No activity recorded yet"))
	default:
		lines := make([]string, 0, len(msg.entries))
		for _, e := range msg.entries {
			lines = append(lines, m.formatEntry(e))
		}
		m.activity.SetContent(strings.Join(lines, "\n"))
	}
	m.activity.GotoBottom()
}

// formatEntry renders one log record as a single line.
func (m Model) formatEntry(e logtail.Entry) string {
	styles := m.theme.Styles()
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, styles.FaintText.Render(e.Time.Local().Format("15:04:05")))
	}
	if e.Level != "" {
		parts = append(parts, m.levelStyle(e.Level).Render(strings.ToUpper(padLevel(e.Level))))
	}
	parts = append(parts, styles.Text.Render(e.Message))
	if fields := e.FieldString(); fields != "" {
		parts = append(parts, styles.MutedText.Render(fields))
	}
	return strings.Join(parts, " ")
}

func (m Model) levelStyle(level string) lipgloss.Style {
	styles := m.theme.Styles()
	switch level {
	case "error", "fatal", "panic":
		return styles.DangerText
	case "warning", "warn":
		return styles.WarningText
	case "debug", "trace":
		return styles.FaintText
	default:
		return styles.InfoText
	}
}

func padLevel(level string) string {
	if level == "warning" {
		level = "warn"
	}
	return truncate(level+strings.Repeat(" ", 5), 5)
}

// renderActivity renders the activity log overlay.
func (m Model) renderActivity() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("Activity")
	if m.logFile != "" {
		title += "  " + styles.FaintText.Render(truncateMiddle(m.logFile, m.width-20))
	}
	content := strings.Join([]string{
		title,
		m.activity.View(),
		styles.FaintText.Render("j/k scroll  esc: close"),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 1).
		Width(m.width - 2).
		Render(content)
}
