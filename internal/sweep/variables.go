// Package sweep enumerates a Cartesian grid of design/environment variable
// combinations and evaluates each cell independently.
package sweep

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/P-QI/fw-conceptual-design/internal/types"
)

// Variable identifies one sweepable named variable. Each variant has an
// explicit setter; there is no dynamic field lookup.
type Variable int

const (
	// VarNone is the placeholder for an unused grid axis; its setter is a
	// no-op and its value sequence is a single zero.
	VarNone Variable = iota
	VarWingspan
	VarBatteryMass
	VarAspectRatio
	VarClearness
	VarTurbulence
	VarDayOfYear
	VarLatitude
)

var variableNames = map[Variable]string{
	VarNone:        "none",
	VarWingspan:    "wingspan",
	VarBatteryMass: "battery-mass",
	VarAspectRatio: "aspect-ratio",
	VarClearness:   "clearness",
	VarTurbulence:  "turbulence",
	VarDayOfYear:   "day-of-year",
	VarLatitude:    "latitude",
}

func (v Variable) String() string {
	if name, ok := variableNames[v]; ok {
		return name
	}
	return fmt.Sprintf("variable(%d)", int(v))
}

// ParseVariable maps a config-file variable name to its variant.
func ParseVariable(name string) (Variable, error) {
	for v, n := range variableNames {
		if n == name {
			return v, nil
		}
	}
	return VarNone, fmt.Errorf("unknown sweep variable %q", name)
}

// apply overwrites the swept field of the per-cell design/environment copy.
func (v Variable) apply(d *types.Design, env *types.Environment, value float64) {
	switch v {
	case VarWingspan:
		d.Wingspan = value
	case VarBatteryMass:
		d.BatteryMass = value
	case VarAspectRatio:
		d.AspectRatio = value
	case VarClearness:
		env.Clearness = value
	case VarTurbulence:
		env.Turbulence = value
	case VarDayOfYear:
		env.DayOfYear = value
	case VarLatitude:
		env.Latitude = value
	}
}

// Axis binds a sweep variable to its ordered value sequence.
type Axis struct {
	Variable Variable
	Values   []float64
}

// fixedAxis is the padding for unused grid dimensions.
func fixedAxis() Axis {
	return Axis{Variable: VarNone, Values: []float64{0}}
}

// AxisFromConfig resolves one configured axis, expanding a min/max/count span
// when no explicit value list is given.
func AxisFromConfig(ac types.AxisConfig) (Axis, error) {
	v, err := ParseVariable(ac.Variable)
	if err != nil {
		return Axis{}, err
	}

	values := ac.Values
	if len(values) == 0 {
		if ac.Count < 2 {
			return Axis{}, fmt.Errorf("axis %q: need explicit values or a min/max span with count >= 2", ac.Variable)
		}
		values = floats.Span(make([]float64, ac.Count), ac.Min, ac.Max)
	}
	return Axis{Variable: v, Values: values}, nil
}
