package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// speedStops colors particles from slow to fast.
var speedStops = hexStops("#3a86ff", "#00b4d8", "#80ed99", "#ffd60a", "#ff5400")

func hexStops(hexes ...string) []colorful.Color {
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		stops[i], _ = colorful.Hex(h)
	}
	return stops
}

// speedColor blends between neighboring stops for frac in [0, 1].
func speedColor(frac float64) string {
	last := len(speedStops) - 1
	pos := min(max(frac, 0), 1) * float64(last)
	i := int(pos)
	if i >= last {
		return speedStops[last].Hex()
	}
	t := pos - float64(i)
	if t == 0 {
		return speedStops[i].Hex()
	}
	return speedStops[i].BlendLab(speedStops[i+1], t).Clamped().Hex()
}

// ParticlesSVG draws a particle snapshot in world coordinates. Both SVG and
// the world have y pointing down, so no flip is needed. Particles are
// colored by their last displacement relative to the fastest one.
func ParticlesSVG(ps []dynamo.Particle, width, height, radius float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	peak := 0.0
	for i := range ps {
		peak = math.Max(peak, ps[i].Displacement().Len())
	}

	for i := range ps {
		frac := 0.0
		if peak > 0 {
			frac = ps[i].Displacement().Len() / peak
		}
		color := speedColor(frac)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, ps[i].Position.X, ps[i].Position.Y, radius, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG plots values against times as a single polyline. Fewer than
// two points produce an empty string.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(values))
	if n < 2 {
		return ""
	}

	minX, maxX := times[0], times[0]
	minY, maxY := values[0], values[0]
	for i := 0; i < n; i++ {
		minX = math.Min(minX, times[i])
		maxX = math.Max(maxX, times[i])
		minY = math.Min(minY, values[i])
		maxY = math.Max(maxY, values[i])
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := 0; i < n; i++ {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
