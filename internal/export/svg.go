package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/desertbus/internal/dynamo"
)

// RouteSVG draws the road band and the driven path seen from above:
// lateral offset across, distance up the page.
func RouteSVG(states []dynamo.State, roadWidth, width, height int, roadColor, pathColor string) string {
	if len(states) < 2 {
		return ""
	}

	half := float64(roadWidth) / 2
	minX, maxX := -half, half+1
	minY, maxY := states[0].Distance, states[0].Distance
	for _, s := range states {
		minX = min(minX, s.Lateral)
		maxX = max(maxX, s.Lateral)
		minY = min(minY, s.Distance)
		maxY = max(maxY, s.Distance)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	rangeX = maxX - minX

	px := func(lateral float64) float64 { return (lateral - minX) / rangeX * float64(width) }
	py := func(dist float64) float64 { return float64(height) - (dist-minY)/rangeY*float64(height) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, edge := range []float64{-half, half + 1} {
		x := px(edge)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="%s" stroke-width="2"/>
`, x, x, height, roadColor)
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, pathColor)
	for i, s := range states {
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", px(s.Lateral), py(s.Distance))
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
