package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). The canvas is (Width*2) x (Height*4)
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Center returns the middle sub-pixel.
func (c *Canvas) Center() (int, int) {
	return c.Width, c.Height * 2
}

// DrawRay draws a line of length sub-pixels from the centre at a compass
// angle in degrees: 0 is up and positive angles turn counter-clockwise.
// Every step-th point is drawn, so step 1 is a solid line.
func (c *Canvas) DrawRay(deg, length float64, step int) {
	if step <= 1 {
		cx, cy := c.Center()
		x, y := rayEnd(cx, cy, deg, length)
		c.DrawLine(cx, cy, x, y)
		return
	}
	cx, cy := c.Center()
	for r := 0; r <= int(length); r += step {
		x, y := rayEnd(cx, cy, deg, float64(r))
		c.Set(x, y)
	}
}

// DrawArc marks the circle of the given radius between two compass angles.
func (c *Canvas) DrawArc(radius, fromDeg, toDeg float64) {
	if toDeg < fromDeg {
		fromDeg, toDeg = toDeg, fromDeg
	}
	cx, cy := c.Center()
	for d := fromDeg; d <= toDeg; d += 4 {
		x, y := rayEnd(cx, cy, d, radius)
		c.Set(x, y)
	}
}

func rayEnd(cx, cy int, deg, length float64) (int, int) {
	rad := deg * math.Pi / 180
	return cx - int(math.Round(length*math.Sin(rad))), cy - int(math.Round(length*math.Cos(rad)))
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
