// Package mission runs the day-long energy-balance simulation for one fully
// resolved configuration and extracts its performance metrics.
package mission

import (
	"math"

	"github.com/P-QI/fw-conceptual-design/internal/airframe"
	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/types"
	"github.com/P-QI/fw-conceptual-design/pkg/solar"
)

const (
	secondsPerDay = 86400.0

	// depletionFloor is how long the battery may sit at zero charge before
	// the run is truncated: past this the aircraft cannot still be airborne.
	depletionFloor = 6 * 3600.0

	// climbStallRate is the climb rate below which the surplus-powered
	// climb is considered converged to its ceiling.
	climbStallRate = 1e-3 // m/s
)

// Sample is one discrete point of the flight trajectory. Times are seconds on
// the simulation clock, which starts at local midnight of the first simulated
// day.
type Sample struct {
	T        float64 // s
	PGen     float64 // W
	PCons    float64 // W
	SoC      float64 // 0..1, clamped
	Altitude float64 // m AMSL
}

// Events holds first-occurrence event timestamps on the simulation clock.
// Absent events carry types.TimeUnavailable.
type Events struct {
	Sunrise     float64
	Eq          float64 // generation first reaches consumption, near dawn
	FullCharge  float64 // SoC first reaches 1 after sunrise
	Eq2         float64 // generation falls back below consumption, near dusk
	Sunset      float64
	Depletion   float64 // SoC first reaches 0
	MaxAltTime  float64 // climb rate converged to zero
	MaxAltitude float64 // m, altitude at MaxAltTime
	Truncated   bool    // run stopped before the requested horizon
}

// Trajectory is the integrated flight history of one evaluation. It is owned
// by the integrator and discarded after metrics extraction.
type Trajectory struct {
	Samples []Sample
	Events  Events
	Start   float64 // s, simulation clock
	Dt      float64 // s
	Days    float64 // requested horizon
}

type simulator struct {
	der *airframe.Derived
	env *types.Environment
	set *types.Settings

	panelEff   float64 // blended panel conversion efficiency
	pAvPld     float64 // avionics + payload electrical draw, W
	consGround float64 // level consumption at ground altitude, night factor
}

// Simulate integrates the battery state-of-charge over the configured horizon
// at fixed dt, recording the trajectory and time-stamping events by linear
// interpolation between straddling samples.
func Simulate(der *airframe.Derived, env *types.Environment, set *types.Settings) *Trajectory {
	p := der.Params()
	s := &simulator{
		der:      der,
		env:      env,
		set:      set,
		panelEff: p.Solar.EffCells * p.Solar.EffEncaps * p.Solar.EffMPPT,
		pAvPld:   (der.Design().AvionicsPower + der.Design().PayloadPower) / p.Solar.EffBEC,
	}

	traj := &Trajectory{
		Dt:   set.Dt,
		Days: set.SimTimeDays,
		Events: Events{
			Sunrise:    types.TimeUnavailable,
			Eq:         types.TimeUnavailable,
			FullCharge: types.TimeUnavailable,
			Eq2:        types.TimeUnavailable,
			Sunset:     types.TimeUnavailable,
			Depletion:  types.TimeUnavailable,
			MaxAltTime: types.TimeUnavailable,
		},
	}

	startT := set.InitCond.TimeOfDay
	soc := set.InitCond.SoC
	if set.SimType == types.SimStartAtEquilibrium {
		if eq, sunrise, ok := s.findMorningEquilibrium(); ok {
			startT = eq
			traj.Events.Eq = eq
			traj.Events.Sunrise = sunrise
		} else {
			log.Warnw("no morning energy equilibrium found, falling back to initial condition start",
				"day_of_year", env.DayOfYear, "clearness", env.Clearness)
		}
	}
	traj.Start = startT

	s.integrate(traj, startT, soc)
	return traj
}

// findMorningEquilibrium scans the first day from midnight for the sunrise
// elevation crossing and the first instant where generation reaches
// consumption, both interpolated. ok is false when no equilibrium exists
// within the day (e.g. heavy overcast).
func (s *simulator) findMorningEquilibrium() (eq, sunrise float64, ok bool) {
	sunrise = types.TimeUnavailable
	alt := s.env.AltitudeGround

	prevGen, prevCons, prevElev := s.power(0, alt)
	prevNet := prevGen - prevCons
	for t := s.set.Dt; t <= secondsPerDay; t += s.set.Dt {
		gen, cons, elev := s.power(t, alt)
		net := gen - cons

		if sunrise == types.TimeUnavailable && prevElev <= 0 && elev > 0 {
			sunrise = interpolateCrossing(t-s.set.Dt, t, prevElev, elev)
		}
		if prevNet < 0 && net >= 0 {
			return interpolateCrossing(t-s.set.Dt, t, prevNet, net), sunrise, true
		}

		prevNet, prevElev = net, elev
	}
	return 0, sunrise, false
}

// power evaluates generated and consumed electrical power at simulation time
// t and the given altitude. Returns the sun elevation alongside for event
// detection.
func (s *simulator) power(t, altitude float64) (gen, cons, elevation float64) {
	day := s.env.DayOfYear + math.Floor(t/secondsPerDay)
	tod := t - secondsPerDay*math.Floor(t/secondsPerDay)

	irr := solar.ClearSky(day, tod, s.env.Latitude, s.env.Longitude, altitude, s.env.Clearness, s.env.Albedo)
	elevation = irr.ElevationDeg

	direct := irr.Direct
	if s.set.UseAOI && irr.CosZenith > 0 {
		// Conversion efficiency drops with the angle between the sun
		// vector and the (horizontal) panel normal.
		direct *= irr.CosZenith
	}
	if s.set.UseDirDiffRad {
		p := s.der.Params().Solar
		gen = (direct*p.EffDirect + irr.Diffuse*p.EffDiffuse) * s.der.PanelArea
	} else {
		gen = (direct + irr.Diffuse) * s.panelEff * s.der.PanelArea
	}

	pProp := s.der.PropElecPower(altitude, s.env.GroundTemp, s.env.AltitudeGround)
	factor := 1 + s.env.Turbulence
	if elevation > 0 {
		// Thermal activity compounds the turbulence penalty while the
		// sun is up.
		factor = 1 + s.env.Turbulence*(1+s.env.TurbulenceDay)
	}
	cons = pProp*factor + s.pAvPld

	return gen, cons, elevation
}

func (s *simulator) integrate(traj *Trajectory, startT, soc float64) {
	dt := s.set.Dt
	endT := startT + s.set.SimTimeDays*secondsPerDay
	altitude := s.env.AltitudeGround
	capJ := s.der.BatteryCapacity
	bat := s.der.Params().Battery
	prop := s.der.Params().Propulsion
	chain := prop.EffController * prop.EffMotor * prop.EffGearbox * prop.EffPropeller

	gen, cons, elev := s.power(startT, altitude)
	traj.Samples = append(traj.Samples, Sample{T: startT, PGen: gen, PCons: cons, SoC: soc, Altitude: altitude})

	depletedSince := types.TimeUnavailable

	for t := startT + dt; t <= endT; t += dt {
		prevGen, prevCons, prevElev, prevSoC := gen, cons, elev, soc
		gen, cons, elev = s.power(t, altitude)

		net := gen - cons
		var socRaw float64
		if net >= 0 {
			socRaw = soc + net*bat.EffCharge*dt/capJ
		} else {
			socRaw = soc + net*dt/(bat.EffDischarge*capJ)
		}

		soc = socRaw
		if socRaw > 1 {
			// Battery full: surplus either climbs or is curtailed.
			soc = 1
			surplus := (socRaw - 1) * capJ / bat.EffCharge / dt // W
			if s.set.ClimbAllowed && altitude < s.env.AltitudeMax {
				headroom := s.der.Design().MaxPropPower - cons
				pClimb := math.Min(surplus, math.Max(headroom, 0))
				rate := pClimb * chain * prop.EffClimb / (s.der.MassTotal * airframe.Gravity)
				altitude = math.Min(altitude+rate*dt, s.env.AltitudeMax)
				if (rate < climbStallRate || altitude >= s.env.AltitudeMax) &&
					traj.Events.MaxAltTime == types.TimeUnavailable {
					traj.Events.MaxAltTime = t
					traj.Events.MaxAltitude = altitude
					if s.set.FindMaxAltitude {
						traj.Samples = append(traj.Samples, Sample{T: t, PGen: gen, PCons: cons, SoC: soc, Altitude: altitude})
						return
					}
				}
			}
		}
		if soc <= 0 {
			soc = 0
			if traj.Events.Depletion == types.TimeUnavailable {
				traj.Events.Depletion = interpolateCrossing(t-dt, t, prevSoC, socRaw)
			}
			if depletedSince == types.TimeUnavailable {
				depletedSince = t
			} else if t-depletedSince > depletionFloor {
				traj.Events.Truncated = true
				traj.Samples = append(traj.Samples, Sample{T: t, PGen: gen, PCons: cons, SoC: soc, Altitude: altitude})
				return
			}
		} else {
			depletedSince = types.TimeUnavailable
		}

		s.detectEvents(traj, t, dt, prevGen-prevCons, net, prevElev, elev, prevSoC, socRaw)

		traj.Samples = append(traj.Samples, Sample{T: t, PGen: gen, PCons: cons, SoC: soc, Altitude: altitude})
	}
}

// detectEvents time-stamps first occurrences of the sunrise/sunset elevation
// crossings, the two energy-equilibrium crossings and the full-charge instant.
func (s *simulator) detectEvents(traj *Trajectory, t, dt, prevNet, net, prevElev, elev, prevSoC, socRaw float64) {
	ev := &traj.Events

	if ev.Sunrise == types.TimeUnavailable && prevElev <= 0 && elev > 0 {
		ev.Sunrise = interpolateCrossing(t-dt, t, prevElev, elev)
	}
	if ev.Sunset == types.TimeUnavailable && prevElev > 0 && elev <= 0 {
		ev.Sunset = interpolateCrossing(t-dt, t, prevElev, elev)
	}
	if ev.Eq == types.TimeUnavailable && prevNet < 0 && net >= 0 {
		ev.Eq = interpolateCrossing(t-dt, t, prevNet, net)
	}
	if ev.Eq2 == types.TimeUnavailable && ev.Eq != types.TimeUnavailable && t-dt >= ev.Eq &&
		prevNet >= 0 && net < 0 {
		ev.Eq2 = interpolateCrossing(t-dt, t, prevNet, net)
	}
	if ev.FullCharge == types.TimeUnavailable && elev > 0 &&
		prevSoC < 1 && socRaw >= 1 {
		ev.FullCharge = interpolateCrossing(t-dt, t, prevSoC-1, socRaw-1)
	}
}

// interpolateCrossing returns the zero crossing of a quantity between two
// straddling samples, by linear interpolation.
func interpolateCrossing(t0, t1, v0, v1 float64) float64 {
	if v1 == v0 {
		return t1
	}
	return t0 + (t1-t0)*(-v0)/(v1-v0)
}
