package analysis

import (
	"strings"

	"github.com/san-kum/turretlab/internal/dynamo"
	"github.com/san-kum/turretlab/internal/physics"
)

// Point is one sample of a phase portrait.
type Point struct{ X, Y float64 }

// PhasePortrait holds a trajectory in a 2D phase plane.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

// TurretPhase plots turret angle against turret rate, both in degrees.
func TurretPhase(result *dynamo.Result, gearRatio float64) *PhasePortrait {
	deg := TurretDegrees(result, gearRatio)
	rate := result.Series(physics.TurretRate)
	p := &PhasePortrait{XLabel: "turret deg", YLabel: "deg/s", Points: make([]Point, len(deg))}
	for i := range deg {
		p.Points[i] = Point{X: deg[i], Y: rate[i] * 360 / gearRatio}
	}
	return p
}

// ToASCII rasterises the portrait onto a width x height character grid.
func (p *PhasePortrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
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

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes, where visible
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
