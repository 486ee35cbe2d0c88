package export

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/viz"
)

func TestTrajectoryToSVG(t *testing.T) {
	points := []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	svg := TrajectoryToSVG(points, 100, 100, "#ff0000")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("not an SVG document: %q", svg)
	}
	if strings.Count(svg, " L") != 2 || !strings.Contains(svg, `stroke="#ff0000"`) {
		t.Errorf("unexpected path: %s", svg)
	}
	if TrajectoryToSVG(points[:1], 100, 100, "#fff") != "" {
		t.Error("single point should yield no SVG")
	}
}

func TestTrajectoriesToSVG_BreaksOnNaN(t *testing.T) {
	view := rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 10}
	nan := math.NaN()
	traj := []vec.Vec2{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: nan, Y: nan}, {X: 6, Y: 5}, {X: 10, Y: 10}}

	svg := TrajectoriesToSVG(view, [][]vec.Vec2{traj, nil}, 10, 10, nil)
	if strings.Count(svg, "<path") != 1 {
		t.Fatalf("expected one path: %s", svg)
	}
	if !strings.Contains(svg, `d="M0.0,10.0 L5.0,5.0 M6.0,5.0 L10.0,0.0"`) {
		t.Errorf("unexpected path data: %s", svg)
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 2)
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 dots: %s", svg)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should yield empty string")
	}
}

func testField(t *testing.T) *field.VectorField {
	t.Helper()
	grid, err := field.NewGrid([]float64{0, 5, 10}, []float64{0, 5, 10})
	if err != nil {
		t.Fatal(err)
	}
	return field.FromFunc(grid, func(x, y float64) (float64, float64) { return x, 0 })
}

func TestRender(t *testing.T) {
	f := testField(t)
	// y=4.875 maps to the centre of pixel row 20.
	img := Render(f, [][]vec.Vec2{{{X: 0, Y: 4.875}, {X: 10, Y: 4.875}}}, 40, 40)

	// Speed grows with x.
	left, right := img.RGBAAt(1, 5), img.RGBAAt(38, 5)
	if !(left.R < right.R) {
		t.Errorf("background should brighten with speed: %v vs %v", left, right)
	}
	if got := img.RGBAAt(20, 20); got.R > 8 || got.G < 247 || got.B < 247 {
		t.Errorf("line pixel = %v, want about %v", got, lineColors[0])
	}
	if got := img.RGBAAt(20, 30); got.R != got.G {
		t.Errorf("pixel away from the line should be gray, got %v", got)
	}
}

func TestRender_Masked(t *testing.T) {
	f := testField(t).MaskBelowSpeed(100)
	img := Render(f, nil, 8, 8)
	if got := img.RGBAAt(4, 4); got != maskedColor {
		t.Errorf("masked pixel = %v", got)
	}
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPNG(&buf, testField(t), nil, 16, 8); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("bounds = %v", b)
	}
}
