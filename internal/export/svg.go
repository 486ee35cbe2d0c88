package export

import (
	"fmt"
	"math"
	"strings"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/viz"
)

// CanvasToSVG converts a braille canvas to SVG, one circle per dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws one streamline fitted to its own bounding box with
// 10% padding.
func TrajectoryToSVG(points []vec.Vec2, width, height int, strokeColor string) string {
	view, ok := extent(points)
	if !ok {
		return ""
	}
	return TrajectoriesToSVG(pad(view, 0.1), [][]vec.Vec2{points}, width, height, []string{strokeColor})
}

// TrajectoriesToSVG draws several streamlines in a shared view. Colors are
// cycled. Non-finite points break the polyline.
func TrajectoriesToSVG(view rect.Rect, trajectories [][]vec.Vec2, width, height int, colors []string) string {
	if len(colors) == 0 {
		colors = []string{"#00ffff"}
	}
	rangeX, rangeY := view.URx-view.LLx, view.URy-view.LLy

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for k, points := range trajectories {
		var d strings.Builder
		pen := false
		for _, p := range points {
			if !finite(p) {
				pen = false
				continue
			}
			x := (p.X - view.LLx) / rangeX * float64(width)
			y := float64(height) - (p.Y-view.LLy)/rangeY*float64(height)
			if pen {
				fmt.Fprintf(&d, " L%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&d, " M%.1f,%.1f", x, y)
				pen = true
			}
		}
		if d.Len() == 0 {
			continue
		}
		fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"%s\"/>\n",
			colors[k%len(colors)], strings.TrimSpace(d.String()))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func finite(p vec.Vec2) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// extent is the bounding box of the finite points. ok is false if there are
// fewer than two.
func extent(points []vec.Vec2) (r rect.Rect, ok bool) {
	n := 0
	for _, p := range points {
		if !finite(p) {
			continue
		}
		if n == 0 {
			r = rect.Rect{LLx: p.X, LLy: p.Y, URx: p.X, URy: p.Y}
		} else {
			r.LLx, r.URx = math.Min(r.LLx, p.X), math.Max(r.URx, p.X)
			r.LLy, r.URy = math.Min(r.LLy, p.Y), math.Max(r.URy, p.Y)
		}
		n++
	}
	return r, n >= 2
}

// pad grows r by frac of its size on each side. Degenerate sides get a
// unit range first.
func pad(r rect.Rect, frac float64) rect.Rect {
	if r.URx == r.LLx {
		r.LLx, r.URx = r.LLx-0.5, r.URx+0.5
	}
	if r.URy == r.LLy {
		r.LLy, r.URy = r.LLy-0.5, r.URy+0.5
	}
	dx, dy := (r.URx-r.LLx)*frac, (r.URy-r.LLy)*frac
	return rect.Rect{LLx: r.LLx - dx, LLy: r.LLy - dy, URx: r.URx + dx, URy: r.URy + dy}
}
