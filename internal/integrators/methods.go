package integrators

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/streamtrace/internal/dynamo"
)

var ErrUnknownMethod = errors.New("integrators: unknown method")

// Method names a solver variant.
type Method struct {
	Name     string
	Adaptive bool
	newFn    func() dynamo.Integrator
}

// New returns a fresh integrator. Integrators carry scratch buffers, so each
// solve needs its own.
func (m Method) New() dynamo.Integrator {
	return m.newFn()
}

var methods = map[string]Method{
	"RK45":  {Name: "RK45", Adaptive: true, newFn: func() dynamo.Integrator { return NewRK45() }},
	"RK23":  {Name: "RK23", Adaptive: true, newFn: func() dynamo.Integrator { return NewRK23() }},
	"RK4":   {Name: "RK4", newFn: func() dynamo.Integrator { return NewRK4() }},
	"EULER": {Name: "Euler", newFn: func() dynamo.Integrator { return NewEuler() }},
	// LSODA requests automatic stiffness switching. Streamlines over sampled
	// velocity fields are not stiff, so it runs the non-stiff RK45 branch.
	"LSODA": {Name: "LSODA", Adaptive: true, newFn: func() dynamo.Integrator { return NewRK45() }},
}

// Lookup resolves a method name, ignoring case.
func Lookup(name string) (Method, error) {
	m, ok := methods[strings.ToUpper(name)]
	if !ok {
		return Method{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownMethod, name, Names())
	}
	return m, nil
}

func Names() []string {
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}
