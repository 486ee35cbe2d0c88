package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/streamtrace/internal/field"
	"github.com/san-kum/streamtrace/internal/integrators"
)

const DefaultResolution = 101

var ErrUnknownField = errors.New("unknown field")

type Registry struct {
	fields map[string]FieldSpec
}

func NewRegistry() *Registry {
	r := &Registry{fields: make(map[string]FieldSpec)}
	for _, spec := range builtinFields() {
		r.Register(spec)
	}
	return r
}

func (r *Registry) Register(spec FieldSpec) {
	r.fields[spec.Name] = spec
}

func (r *Registry) Spec(name string) (FieldSpec, error) {
	spec, ok := r.fields[name]
	if !ok {
		return FieldSpec{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return spec, nil
}

// GetField samples the named field on an n×n lattice over its domain.
func (r *Registry) GetField(name string, n int) (*field.VectorField, error) {
	spec, err := r.Spec(name)
	if err != nil {
		return nil, err
	}
	if n < 2 {
		n = DefaultResolution
	}
	d := spec.Domain
	grid, err := field.NewGrid(linspace(d.LLx, d.URx, n), linspace(d.LLy, d.URy, n))
	if err != nil {
		return nil, err
	}
	return field.FromFunc(grid, spec.Velocity), nil
}

func (r *Registry) GetMethod(name string) (integrators.Method, error) {
	return integrators.Lookup(name)
}

func (r *Registry) ListFields() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListMethods() []string {
	return integrators.Names()
}

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}
