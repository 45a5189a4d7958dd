package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vastavik/internal/session"
)

// renderHeader renders the title bar with the session status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	compact := m.width < LayoutCompactWidth
	parts := []string{bg.Render("VASTAVIK", styles.Logo)}
	if !compact {
		parts = append(parts, bg.Render("Medical Image Deepfake Detection", styles.MutedText))
	}
	parts = append(parts, styles.StatusStyle(m.snap.Status).Render(strings.ToUpper(m.snap.Status.String())))

	if m.snap.Result != nil {
		verdict := styles.SuccessText
		if m.snap.Result.IsDeepfake {
			verdict = styles.DangerText
		}
		parts = append(parts, bg.Render(m.snap.Result.Verdict(), verdict))
	}

	if m.apiBase != "" && !compact {
		parts = append(parts, bg.Render("api "+truncateMiddle(m.apiBase, 32), styles.FaintText))
	}
	if m.dropDir != "" && !compact {
		parts = append(parts, bg.Render("drop "+truncateMiddle(m.dropDir, 28), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(strings.Join(parts, sep))
}

// renderCommandBar renders the key hints for the actions available now.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	s := m.snap
	if s.AcceptsFile() {
		commands = append(commands, cmd{"o", "Select File"})
	}
	if s.CanAnalyze() && s.Result == nil {
		label := "Analyze"
		if s.Status == session.StatusFailed {
			label = "Retry"
		}
		commands = append(commands, cmd{"a", label})
	}
	if s.CanExport() {
		commands = append(commands, cmd{"d", "Download Report"})
	}
	if s.File != nil {
		commands = append(commands, cmd{"r", "Reset"})
	}
	if s.Notice.Kind != session.NoticeNone {
		commands = append(commands, cmd{"esc", "Dismiss"})
	}
	commands = append(commands,
		cmd{"A", "About"},
		cmd{"L", "Activity"},
		cmd{"?", "More"},
		cmd{"q", "Quit"},
	)

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// truncateMiddle truncates a string in the middle, keeping more of the end
// so file names stay readable.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
