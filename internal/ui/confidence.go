package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
)

// gauge eases the confidence bar toward its score.
type gauge struct {
	spring    harmonica.Spring
	pos       float64
	vel       float64
	target    float64
	animating bool
}

func newGauge() gauge {
	return gauge{spring: harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8)}
}

// setTarget aims the gauge at v, clamped to 0-100. It reports whether a new
// frame loop has to be started.
func (g *gauge) setTarget(v float64) bool {
	v = clampPercent(v)
	if v == g.target && (g.animating || g.pos == v) {
		return false
	}
	g.target = v
	if g.animating {
		return false
	}
	g.animating = true
	return true
}

// step advances one frame and reports whether more frames are needed.
func (g *gauge) step() bool {
	if !g.animating {
		return false
	}
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, g.target)
	if math.Abs(g.pos-g.target) < 0.05 && math.Abs(g.vel) < 0.05 {
		g.pos = g.target
		g.vel = 0
		g.animating = false
	}
	return g.animating
}

func (g *gauge) reset() {
	g.pos, g.vel, g.target = 0, 0, 0
	g.animating = false
}

// value is the current bar position, clamped for rendering.
func (g gauge) value() float64 {
	return clampPercent(g.pos)
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// renderBar draws a horizontal bar filled to pct and labelled with score.
func renderBar(width int, pct, score float64, fill, track string) string {
	label := formatPercent(score)
	barWidth := width - len(label) - 1
	if barWidth < 4 {
		return label
	}
	filled := int(math.Round(clampPercent(pct) / 100 * float64(barWidth)))
	if filled > barWidth {
		filled = barWidth
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(fill)).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color(track)).Render(strings.Repeat("░", barWidth-filled))
	return bar + " " + label
}

// formatPercent prints a score the way the service reports it.
func formatPercent(v float64) string {
	return fmt.Sprintf("%g%%", v)
}
