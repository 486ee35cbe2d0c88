package field

import (
	"fmt"
	"math"
	"strings"
)

// Bounds selects what a Sampler returns outside the grid rectangle.
type Bounds int

const (
	// BoundsStall returns NaN components, which solvers treat as zero velocity.
	BoundsStall Bounds = iota
	// BoundsExtrapolate extends the edge cell's bilinear surface linearly.
	BoundsExtrapolate
	// BoundsClamp returns the value at the nearest point on the grid edge.
	BoundsClamp
)

var boundsNames = map[Bounds]string{
	BoundsStall:       "stall",
	BoundsExtrapolate: "extrapolate",
	BoundsClamp:       "clamp",
}

func (b Bounds) String() string {
	if name, ok := boundsNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Bounds(%d)", int(b))
}

func ParseBounds(s string) (Bounds, error) {
	for b, name := range boundsNames {
		if strings.EqualFold(s, name) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBounds, s)
}

// Sampler interpolates a VectorField. It holds no mutable state.
type Sampler struct {
	field     *VectorField
	normalize bool
	bounds    Bounds
}

// NewSampler returns a sampler over f. With normalize set, Sample divides the
// interpolated velocity by the interpolated speed, so integrating it advances
// by arclength instead of time. Where that speed is zero the result is
// non-finite.
func NewSampler(f *VectorField, normalize bool, bounds Bounds) *Sampler {
	return &Sampler{field: f, normalize: normalize, bounds: bounds}
}

// Sample returns the interpolated velocity at (x, y). It never fails; the
// result may be NaN for masked cells, outside the grid under BoundsStall, or
// at zero speed under normalization.
func (s *Sampler) Sample(x, y float64) (u, v float64) {
	ix, fx, iy, fy, ok := s.locate(x, y)
	if !ok {
		return math.NaN(), math.NaN()
	}

	u = bilinear(s.field.u, ix, fx, iy, fy)
	v = bilinear(s.field.v, ix, fx, iy, fy)
	if s.normalize {
		speed := bilinear(s.field.speed, ix, fx, iy, fy)
		u /= speed
		v /= speed
	}
	return u, v
}

// Speed returns the interpolated speed array at (x, y) under the same bounds
// policy as Sample.
func (s *Sampler) Speed(x, y float64) float64 {
	ix, fx, iy, fy, ok := s.locate(x, y)
	if !ok {
		return math.NaN()
	}
	return bilinear(s.field.speed, ix, fx, iy, fy)
}

func (s *Sampler) locate(x, y float64) (ix int, fx float64, iy int, fy float64, ok bool) {
	g := s.field.grid
	if s.bounds == BoundsStall && !g.Contains(x, y) {
		return 0, 0, 0, 0, false
	}

	ix, fx = cell(g.x, x)
	iy, fy = cell(g.y, y)

	if s.bounds == BoundsClamp {
		fx = clamp01(fx)
		fy = clamp01(fy)
	}
	return ix, fx, iy, fy, true
}

func bilinear(a [][]float64, ix int, fx float64, iy int, fy float64) float64 {
	lo := a[iy][ix]*(1-fx) + a[iy][ix+1]*fx
	hi := a[iy+1][ix]*(1-fx) + a[iy+1][ix+1]*fx
	return lo*(1-fy) + hi*fy
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
