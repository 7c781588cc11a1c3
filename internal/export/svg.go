// Package export renders saved runs as standalone SVG plots.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/turretlab/internal/analysis"
	"github.com/san-kum/turretlab/internal/dynamo"
)

// Polyline draws points as a single path scaled to width x height, with
// 10% padding on every side. Horizontal guides are drawn at each value in
// guides that falls inside the plotted range.
func Polyline(points []analysis.Point, width, height int, stroke string, guides ...float64) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	sx := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	sy := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for _, g := range guides {
		if g < minY || g > maxY {
			continue
		}
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#ff4444" stroke-dasharray="4 4"/>
`, sy(g), width, sy(g))
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", sx(p.X), sy(p.Y))
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", sx(p.X), sy(p.Y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// TurretTrace plots turret angle against time with dashed guides at the
// given angles, typically the wrap trigger on both sides.
func TurretTrace(result *dynamo.Result, gearRatio float64, width, height int, guides ...float64) string {
	deg := analysis.TurretDegrees(result, gearRatio)
	points := make([]analysis.Point, len(deg))
	for i := range deg {
		points[i] = analysis.Point{X: result.Times[i], Y: deg[i]}
	}
	return Polyline(points, width, height, "#00ff88", guides...)
}

// Phase plots the turret phase portrait.
func Phase(result *dynamo.Result, gearRatio float64, width, height int) string {
	return Polyline(analysis.TurretPhase(result, gearRatio).Points, width, height, "#00ccff")
}
