package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/vastavik/internal/session"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string // outermost background
	Surface    string // header and command bar
	SurfaceAlt string // drop zone
	FocusBg    string // drop zone while a drag hovers

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// StatusColors is keyed by session.Status.String().
	StatusColors map[string]string
}

// palette is the raw color set a Theme is derived from.
type palette struct {
	bg     [5]string // darkest to lightest
	fg     string
	muted  string
	faint  string
	blue   string
	green  string
	yellow string
	red    string
	cyan   string
}

func (p palette) theme(name string) Theme {
	return Theme{
		Name:        name,
		Background:  p.bg[0],
		Surface:     p.bg[1],
		SurfaceAlt:  p.bg[2],
		FocusBg:     p.bg[3],
		Border:      p.bg[4],
		BorderFocus: p.blue,
		Text:        p.fg,
		Muted:       p.muted,
		Faint:       p.faint,
		Accent:      p.blue,
		Success:     p.green,
		Warning:     p.yellow,
		Danger:      p.red,
		Info:        p.cyan,
		StatusColors: map[string]string{
			session.StatusIdle.String():      p.faint,
			session.StatusPending.String():   p.cyan,
			session.StatusCompleted.String(): p.green,
			session.StatusFailed.String():    p.red,
		},
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style
	Panel  lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Styles{
		Background:  lipgloss.NewStyle().Background(lipgloss.Color(t.Background)),
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),
		Header: fg(t.Text).
			Background(lipgloss.Color(t.Surface)).
			Padding(0, 1),
		Logo: fg(t.Warning).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// StatusStyle returns the badge style for an analysis status.
func (s Styles) StatusStyle(status session.Status) lipgloss.Style {
	color := s.statusColors[status.String()]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text styles carry bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Background, &out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

// VerdictColor is red for a suspected deepfake and green otherwise.
func (t Theme) VerdictColor(isDeepfake bool) string {
	if isDeepfake {
		return t.Danger
	}
	return t.Success
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var palettes = map[string]palette{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": {
		bg:     [5]string{"#131a24", "#192330", "#212e3f", "#29394f", "#39506d"},
		fg:     "#cdcecf",
		muted:  "#aeafb0",
		faint:  "#738091",
		blue:   "#719cd6",
		green:  "#81b29a",
		yellow: "#dbc074",
		red:    "#c94f6d",
		cyan:   "#63cdcf",
	},
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": {
		bg:     [5]string{"#16161D", "#1F1F28", "#2A2A37", "#2D4F67", "#54546D"},
		fg:     "#DCD7BA",
		muted:  "#C8C093",
		faint:  "#727169",
		blue:   "#7E9CD8",
		green:  "#98BB6C",
		yellow: "#E6C384",
		red:    "#E46876",
		cyan:   "#7FB4CA",
	},
	// Tailwind slate and sky, with green-600 and red-600 for verdicts.
	"Slate": {
		bg:     [5]string{"#020617", "#0f172a", "#1e293b", "#0c4a6e", "#334155"},
		fg:     "#f1f5f9",
		muted:  "#94a3b8",
		faint:  "#64748b",
		blue:   "#38bdf8",
		green:  "#16a34a",
		yellow: "#f59e0b",
		red:    "#dc2626",
		cyan:   "#06b6d4",
	},
}

// GetTheme returns a theme by name, falling back to Nightfox.
func GetTheme(name string) Theme {
	p, ok := palettes[name]
	if !ok {
		name = themeOrder[0]
		p = palettes[name]
	}
	return p.theme(name)
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}
