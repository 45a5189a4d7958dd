package ui

import (
	"testing"

	"github.com/five82/vastavik/internal/session"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames = %v, want 3 themes", names)
	}
	for _, name := range names {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestGetTheme_UnknownFallsBack(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme unknown = %q, want Nightfox", got)
	}
}

func TestNextTheme_Cycles(t *testing.T) {
	name := "Nightfox"
	seen := map[string]bool{}
	for i := 0; i < len(ThemeNames()); i++ {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != "Nightfox" || len(seen) != len(ThemeNames()) {
		t.Fatalf("NextTheme did not cycle through all themes: end=%q seen=%v", name, seen)
	}
	if got := NextTheme("unknown"); got != ThemeNames()[0] {
		t.Fatalf("NextTheme unknown = %q", got)
	}
}

func TestThemes_CoverEveryStatus(t *testing.T) {
	statuses := []session.Status{
		session.StatusIdle,
		session.StatusPending,
		session.StatusCompleted,
		session.StatusFailed,
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, st := range statuses {
			if th.StatusColors[st.String()] == "" {
				t.Fatalf("theme %s has no color for status %s", name, st)
			}
		}
	}
}

func TestVerdictColor(t *testing.T) {
	th := GetTheme("Slate")
	if th.VerdictColor(true) != th.Danger {
		t.Fatalf("VerdictColor(true) = %q, want danger", th.VerdictColor(true))
	}
	if th.VerdictColor(false) != th.Success {
		t.Fatalf("VerdictColor(false) = %q, want success", th.VerdictColor(false))
	}
}
