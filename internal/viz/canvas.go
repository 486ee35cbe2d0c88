package viz

import (
	"math"
	"strings"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/field"
)

// Braille cells hold 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is Width x Height braille cells, i.e. (2*Width) x (4*Height)
// sub-pixels. View maps world coordinates onto the sub-pixels with y up.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	View          rect.Rect
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		View:   rect.Rect{URx: 1, URy: 1},
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set turns on the sub-pixel (x, y). Coordinates off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
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

// Project maps a world point to sub-pixel coordinates. ok is false for
// points outside View.
func (c *Canvas) Project(p vec.Vec2) (x, y int, ok bool) {
	v := c.View
	if !(p.X >= v.LLx && p.X <= v.URx && p.Y >= v.LLy && p.Y <= v.URy) {
		return 0, 0, false
	}
	w, h := float64(2*c.Width-1), float64(4*c.Height-1)
	fx := (p.X - v.LLx) / (v.URx - v.LLx) * w
	fy := (v.URy - p.Y) / (v.URy - v.LLy) * h
	return int(math.Round(fx)), int(math.Round(fy)), true
}

// PlotPath draws the polyline through points. Segments with an endpoint
// outside View are skipped.
func (c *Canvas) PlotPath(points []vec.Vec2) {
	px, py, prevOK := 0, 0, false
	for _, p := range points {
		x, y, ok := c.Project(p)
		switch {
		case ok && prevOK:
			c.DrawLine(px, py, x, y)
		case ok:
			c.Set(x, y)
		}
		px, py, prevOK = x, y, ok
	}
}

// Fit sets View to the bounding box of the finite points, padded by 5% and
// widened to a unit range along any degenerate axis.
func (c *Canvas) Fit(points []vec.Vec2) {
	v := rect.Rect{LLx: math.Inf(1), LLy: math.Inf(1), URx: math.Inf(-1), URy: math.Inf(-1)}
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		v.LLx, v.URx = math.Min(v.LLx, p.X), math.Max(v.URx, p.X)
		v.LLy, v.URy = math.Min(v.LLy, p.Y), math.Max(v.URy, p.Y)
	}
	if v.LLx > v.URx {
		return
	}
	if v.URx-v.LLx == 0 {
		v.LLx, v.URx = v.LLx-0.5, v.URx+0.5
	}
	if v.URy-v.LLy == 0 {
		v.LLy, v.URy = v.LLy-0.5, v.URy+0.5
	}
	dx, dy := 0.05*(v.URx-v.LLx), 0.05*(v.URy-v.LLy)
	c.View = rect.Rect{LLx: v.LLx - dx, LLy: v.LLy - dy, URx: v.URx + dx, URy: v.URy + dy}
}

// Mark draws a small cross centred on p.
func (c *Canvas) Mark(p vec.Vec2) {
	x, y, ok := c.Project(p)
	if !ok {
		return
	}
	c.DrawLine(x-2, y, x+2, y)
	c.DrawLine(x, y-2, x, y+2)
}

// MarkBox draws a small hollow square centred on p, distinct from Mark.
func (c *Canvas) MarkBox(p vec.Vec2) {
	x, y, ok := c.Project(p)
	if !ok {
		return
	}
	c.DrawLine(x-2, y-2, x+2, y-2)
	c.DrawLine(x+2, y-2, x+2, y+2)
	c.DrawLine(x+2, y+2, x-2, y+2)
	c.DrawLine(x-2, y+2, x-2, y-2)
}

// PlotDots sets every other projected point without joining them, so the
// path reads as dotted next to PlotPath.
func (c *Canvas) PlotDots(points []vec.Vec2) {
	for i, p := range points {
		if i%2 != 0 {
			continue
		}
		if x, y, ok := c.Project(p); ok {
			c.Set(x, y)
		}
	}
}

// Plot sets View to the field's grid and draws each trajectory. Masked
// lattice points are dotted.
func (c *Canvas) Plot(f *field.VectorField, trajectories ...[]vec.Vec2) {
	c.View = f.Grid().Bounds()
	g := f.Grid()
	for i, y := range g.Y() {
		for j, x := range g.X() {
			if _, _, s := f.At(i, j); math.IsNaN(s) {
				if px, py, ok := c.Project(vec.Vec2{X: x, Y: y}); ok {
					c.Set(px, py)
				}
			}
		}
	}
	for _, t := range trajectories {
		c.PlotPath(t)
	}
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
