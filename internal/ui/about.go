package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const aboutMarkdown = `# About Medical Image Deepfake Detection

This tool uses advanced AI to detect manipulated or synthetically generated
medical images. The system analyzes image characteristics, pixel patterns, and
anatomical inconsistencies that may not be visible to the human eye.

**Important:** This is a decision support tool and should be used alongside
professional medical judgment. All results should be verified by qualified
healthcare professionals.
`

// renderAboutMarkdown renders the about text for the given wrap width. It
// falls back to the raw markdown when rendering fails.
func renderAboutMarkdown(width int) string {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return aboutMarkdown
	}
	out, err := r.Render(aboutMarkdown)
	if err != nil {
		return aboutMarkdown
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) aboutWidth() int {
	w := m.width - 12
	if w > 76 {
		w = 76
	}
	return w
}

// renderAbout renders the about overlay.
func (m Model) renderAbout() string {
	styles := m.theme.Styles()

	content := m.about + "\n\n" + styles.FaintText.Render("Press any key to close")
	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(0, 1).
		Render(content)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
