// Package airframe maps the geometric design variables of a configuration to
// airframe mass, wing area and the electrical power budget needed to keep it
// airborne.
package airframe

import (
	"fmt"
	"math"

	"github.com/P-QI/fw-conceptual-design/internal/types"
)

// Gravity is the standard gravitational acceleration in m/s².
const Gravity = 9.80665

const (
	gasConstant = 287.058  // J/(kg·K), dry air
	lapseRate   = 0.0065   // K/m, ISA troposphere
	seaLevelP   = 101325.0 // Pa
	seaLevelT   = 288.15   // K
)

// InvalidDesignError reports a non-physical design input. It aborts the
// evaluation of that single configuration, not the whole sweep.
type InvalidDesignError struct {
	Field string
	Value float64
}

func (e *InvalidDesignError) Error() string {
	return fmt.Sprintf("invalid design: %s = %g is non-physical", e.Field, e.Value)
}

// Derived is the resolved airframe: areas, mass breakdown and the nominal
// electrical power budget, all computed once per evaluation and read-only
// afterwards.
type Derived struct {
	WingArea  float64 // m²
	PanelArea float64 // m², wing area covered by solar cells

	MassStruct float64 // kg, structural mass incl. correction factor
	MassSolar  float64 // kg, cells and encapsulation
	MassNoBat  float64 // kg, everything except the battery
	MassBat    float64 // kg
	MassTotal  float64 // kg

	BatteryCapacity float64 // J

	// PElecLevelTotNom is the total electrical power for steady level
	// flight at ground altitude: propulsion chain + avionics + payload.
	PElecLevelTotNom float64 // W

	design *types.Design
	params *types.Params
}

// Derive resolves a design into its mass and power budget. The environment
// supplies ground altitude and temperature for the nominal budget.
func Derive(d *types.Design, env *types.Environment, p *types.Params) (*Derived, error) {
	switch {
	case d.Wingspan <= 0 || math.IsNaN(d.Wingspan):
		return nil, &InvalidDesignError{Field: "wingspan", Value: d.Wingspan}
	case d.AspectRatio <= 0 || math.IsNaN(d.AspectRatio):
		return nil, &InvalidDesignError{Field: "aspect-ratio", Value: d.AspectRatio}
	case d.BatteryMass < 0 || math.IsNaN(d.BatteryMass):
		return nil, &InvalidDesignError{Field: "battery-mass", Value: d.BatteryMass}
	}

	der := &Derived{design: d, params: p}

	der.WingArea = d.Wingspan * d.Wingspan / d.AspectRatio
	der.PanelArea = der.WingArea * p.Solar.AreaFraction

	// Structural scaling law, power law in span and aspect ratio with the
	// calibration correction factor applied as a pure multiplier.
	der.MassStruct = p.Structure.MassCoeff *
		math.Pow(d.Wingspan, p.Structure.SpanExp) *
		math.Pow(d.AspectRatio, p.Structure.ARExp) *
		p.Structure.CorrFact

	der.MassSolar = der.PanelArea * p.Solar.CellDensity
	der.MassNoBat = der.MassStruct + der.MassSolar + d.AvionicsMass + d.PayloadMass
	der.MassBat = d.BatteryMass
	der.MassTotal = der.MassNoBat + der.MassBat

	der.BatteryCapacity = d.BatteryMass * p.Battery.EnergyDensity * 3600

	der.PElecLevelTotNom = der.PropElecPower(env.AltitudeGround, env.GroundTemp, env.AltitudeGround) +
		(d.AvionicsPower+d.PayloadPower)/p.Solar.EffBEC

	return der, nil
}

// AirDensity returns the ISA troposphere air density at the given altitude,
// with the temperature profile anchored to the measured ground temperature.
func AirDensity(altitude, groundTempC, groundAltitude float64) float64 {
	pressure := seaLevelP * math.Pow(1-lapseRate*altitude/seaLevelT, Gravity/(gasConstant*lapseRate))
	temp := groundTempC + 273.15 - lapseRate*(altitude-groundAltitude)
	return pressure / (gasConstant * temp)
}

// LevelFlightPower returns the mechanical power for steady level flight at
// the given altitude, from the parabolic drag polar:
// P = (CD/CL^1.5)·sqrt(2·(m·g)³/(ρ·S)).
func (der *Derived) LevelFlightPower(altitude, groundTempC, groundAltitude float64) float64 {
	p := der.params
	cd := p.Aero.CDAirfoil + p.Aero.CDParasitic +
		p.Aero.CL*p.Aero.CL/(math.Pi*p.Aero.OswaldEff*der.design.AspectRatio)

	rho := AirDensity(altitude, groundTempC, groundAltitude)
	weight := der.MassTotal * Gravity
	return cd / math.Pow(p.Aero.CL, 1.5) *
		math.Sqrt(2*weight*weight*weight/(rho*der.WingArea))
}

// PropElecPower returns the electrical power drawn by the propulsion group
// for steady level flight at the given altitude.
func (der *Derived) PropElecPower(altitude, groundTempC, groundAltitude float64) float64 {
	p := der.params.Propulsion
	chain := p.EffController * p.EffMotor * p.EffGearbox * p.EffPropeller
	return der.LevelFlightPower(altitude, groundTempC, groundAltitude) / chain
}

// Design returns the design record this airframe was derived from.
func (der *Derived) Design() *types.Design { return der.design }

// Params returns the technology constants this airframe was derived with.
func (der *Derived) Params() *types.Params { return der.params }
