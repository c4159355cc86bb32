package viz

import (
	"math"
	"strings"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

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
			c.Grid[i][j] = brailleBase
		}
	}
	return c
}

// DotSize is the canvas resolution in dots: (Width*2) x (Height*4).
func (c *Canvas) DotSize() (int, int) {
	return c.Width * 2, c.Height * 4
}

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
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

// DrawRect outlines the rectangle with corners (x0, y0) and (x1, y1).
func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// DrawDisc fills a disc of radius r dots. r <= 0 draws a single dot.
func (c *Canvas) DrawDisc(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps world coordinates onto a canvas with a uniform scale, so
// circles stay round. The world is centered on the canvas.
type Viewport struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
	WorldW  float64
	WorldH  float64
}

func FitViewport(c *Canvas, worldW, worldH float64) Viewport {
	dw, dh := c.DotSize()
	scale := math.Min(float64(dw-1)/worldW, float64(dh-1)/worldH)
	return Viewport{
		Scale:   scale,
		OffsetX: (float64(dw-1) - worldW*scale) / 2,
		OffsetY: (float64(dh-1) - worldH*scale) / 2,
		WorldW:  worldW,
		WorldH:  worldH,
	}
}

// Project returns the dot under world position p.
func (v Viewport) Project(p dynamo.Vec2) (int, int) {
	return int(math.Round(v.OffsetX + p.X*v.Scale)), int(math.Round(v.OffsetY + p.Y*v.Scale))
}

// DrawWorld outlines the world and draws every position as a disc.
func (c *Canvas) DrawWorld(v Viewport, positions []dynamo.Vec2, radius float64) {
	x0, y0 := v.Project(dynamo.Vec2{})
	x1, y1 := v.Project(dynamo.Vec2{X: v.WorldW, Y: v.WorldH})
	c.DrawRect(x0, y0, x1, y1)

	r := int(radius * v.Scale)
	for _, p := range positions {
		x, y := v.Project(p)
		c.DrawDisc(x, y, r)
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
