// Package chart renders the impact/feasibility grid as an SVG snapshot.
// The output is a visual export, not an interchange format.
package chart

import (
	"bytes"
	"fmt"
	"html"

	"github.com/hyperengineering/compass/internal/horizon"
	"github.com/hyperengineering/compass/internal/types"
)

const (
	width  = 640
	height = 640
	margin = 48
)

// plot is the drawable grid area.
const (
	plotW = width - 2*margin
	plotH = height - 2*margin
)

// Render draws every visible use case at its placement, defaulting unplaced
// items to the grid center. The upper half is shaded into the three horizon
// tiers; the lower half is the out-of-roadmap zone.
func Render(useCases []types.UseCase, placements map[int]types.Placement) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)

	// Horizon tier shading, high-impact half only.
	tier := func(x0, x1 float64, fill string) {
		fmt.Fprintf(&b, `<rect x="%.1f" y="%d" width="%.1f" height="%.1f" fill="%s"/>`,
			margin+x0*plotW, margin, (x1-x0)*plotW, 0.5*plotH, fill)
	}
	tier(0, 1.0/3.0, "#fdeecd")       // Horizon 3
	tier(1.0/3.0, 2.0/3.0, "#fbe2b0") // Horizon 2
	tier(2.0/3.0, 1, "#d7ecd3")       // Horizon 1

	// Frame and tier boundaries.
	fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d" fill="none" stroke="#444" stroke-width="1"/>`,
		margin, margin, plotW, plotH)
	fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#444" stroke-dasharray="4 3"/>`,
		margin, margin+0.5*plotH, width-margin, margin+0.5*plotH)
	for _, fx := range []float64{1.0 / 3.0, 2.0 / 3.0} {
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%d" x2="%.1f" y2="%.1f" stroke="#999" stroke-dasharray="2 3"/>`,
			margin+fx*plotW, margin, margin+fx*plotW, margin+0.5*plotH)
	}

	// Axis labels.
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="13" fill="#333">Feasibility →</text>`,
		margin, height-margin/3)
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="sans-serif" font-size="13" fill="#333" transform="rotate(-90 %d %d)">Impact →</text>`,
		margin/3, height-margin, margin/3, height-margin)

	for _, u := range useCases {
		if !u.Visible {
			continue
		}
		p, placed := placements[u.ID]
		if !placed {
			p = horizon.DefaultPlacement
		}
		cx := margin + p.X*plotW
		cy := margin + (1-p.Y)*plotH

		fill := "#2563eb"
		if !placed {
			fill = "#9ca3af"
		}
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="9" fill="%s" fill-opacity="0.85"/>`, cx, cy, fill)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" fill="#111" text-anchor="middle">%s</text>`,
			cx, cy-13, html.EscapeString(u.DisplayName()))
	}

	b.WriteString(`</svg>`)
	return b.Bytes()
}
