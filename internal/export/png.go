package export

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/field"
)

var (
	maskedColor = color.RGBA{R: 60, G: 16, B: 16, A: 255}
	lineColors  = []color.RGBA{
		{R: 0, G: 255, B: 255, A: 255},
		{R: 255, G: 0, B: 255, A: 255},
		{R: 255, G: 255, B: 0, A: 255},
		{R: 0, G: 255, B: 136, A: 255},
	}
)

const lineWidth = 1.5

// Render draws the field speed as a gray background with masked cells in
// dark red, then strokes each trajectory on top.
func Render(f *field.VectorField, trajectories [][]vec.Vec2, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	view := f.Grid().Bounds()
	toWorld := func(px, py float64) vec.Vec2 {
		return vec.Vec2{
			X: view.LLx + px/float64(width)*(view.URx-view.LLx),
			Y: view.URy - py/float64(height)*(view.URy-view.LLy),
		}
	}

	s := field.NewSampler(f, false, field.BoundsClamp)
	maxSpeed := f.MaxSpeed()
	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			p := toWorld(float64(px)+0.5, float64(py)+0.5)
			speed := s.Speed(p.X, p.Y)
			if math.IsNaN(speed) {
				img.SetRGBA(px, py, maskedColor)
				continue
			}
			g := uint8(20)
			if maxSpeed > 0 {
				g += uint8(math.Min(speed/maxSpeed, 1) * 180)
			}
			img.SetRGBA(px, py, color.RGBA{R: g, G: g, B: g, A: 255})
		}
	}

	r := vector.NewRasterizer(width, height)
	for k, t := range trajectories {
		r.Reset(width, height)
		if strokePolyline(r, project(view, t, width, height), lineWidth/2) == 0 {
			continue
		}
		r.Draw(img, img.Bounds(), image.NewUniform(lineColors[k%len(lineColors)]), image.Point{})
	}
	return img
}

// RenderPNG encodes Render's output as PNG.
func RenderPNG(w io.Writer, f *field.VectorField, trajectories [][]vec.Vec2, width, height int) error {
	return png.Encode(w, Render(f, trajectories, width, height))
}

// project maps world points to pixel coordinates with y down. Non-finite
// points stay non-finite.
func project(view rect.Rect, points []vec.Vec2, width, height int) []vec.Vec2 {
	out := make([]vec.Vec2, len(points))
	for i, p := range points {
		out[i] = vec.Vec2{
			X: (p.X - view.LLx) / (view.URx - view.LLx) * float64(width),
			Y: (view.URy - p.Y) / (view.URy - view.LLy) * float64(height),
		}
	}
	return out
}

// strokePolyline adds one quad per segment. All quads share the same
// winding so overlaps at the joints accumulate. It returns the number of
// segments added.
func strokePolyline(r *vector.Rasterizer, points []vec.Vec2, halfWidth float64) int {
	n := 0
	for i := 1; i < len(points); i++ {
		p0, p1 := points[i-1], points[i]
		if !finite(p0) || !finite(p1) {
			continue
		}
		d := p1.Sub(p0)
		l := d.Length()
		if l == 0 {
			continue
		}
		off := vec.Vec2{X: -d.Y, Y: d.X}.Mul(halfWidth / l)

		a, b, c, e := p0.Add(off), p1.Add(off), p1.Sub(off), p0.Sub(off)
		r.MoveTo(float32(a.X), float32(a.Y))
		r.LineTo(float32(b.X), float32(b.Y))
		r.LineTo(float32(c.X), float32(c.Y))
		r.LineTo(float32(e.X), float32(e.Y))
		r.ClosePath()
		n++
	}
	return n
}
