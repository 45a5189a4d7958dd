package preview

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render draws the thumbnail with upper-half blocks: the foreground carries
// the even pixel row and the background the odd one.
func (p Preview) Render() string {
	if p.Thumb == nil {
		return ""
	}
	return renderHalfBlocks(p.Thumb)
}

func renderHalfBlocks(img *image.NRGBA) string {
	bounds := img.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y < bounds.Max.Y; y += 2 {
		if y > bounds.Min.Y {
			b.WriteByte('\n')
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := img.NRGBAAt(x, y)
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(hex(top)))
			if y+1 < bounds.Max.Y {
				style = style.Background(lipgloss.Color(hex(img.NRGBAAt(x, y+1))))
			}
			b.WriteString(style.Render("▀"))
		}
	}
	return b.String()
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
