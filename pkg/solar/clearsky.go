package solar

import "math"

const (
	solarConstant = 1361.0 // W/m², top-of-atmosphere average

	// Ineichen-Perez clear-sky coefficients.
	linkeTurbidity = 2.0   // typical clear-sky Linke turbidity (range 2-6)
	dniNorm        = 0.7   // DNI normalization constant
	extinction     = 0.027 // atmospheric extinction coefficient
	scaleHeight    = 8000.0 // m, altitude scaling of the extinction path

	// groundViewFactor is the effective view factor of the slightly cambered
	// wing surface towards the ground, for the albedo-reflected component.
	groundViewFactor = 0.05
)

// Irradiance holds horizontal direct and diffuse irradiance in W/m² together
// with the sun geometry they were computed from.
type Irradiance struct {
	Direct  float64
	Diffuse float64
	Position
}

// ClearSky computes direct and diffuse horizontal irradiance for the given
// fractional day-of-year and time-of-day (seconds after local midnight),
// attenuated by atmospheric clearness (0..1, 1 = clear sky) and thinned by
// altitude. Ground-reflected radiation enters the diffuse component through
// the albedo. Both components are exactly zero at or below the horizon.
func ClearSky(dayOfYear, timeOfDay, latitude, longitude, altitude, clearness, albedo float64) Irradiance {
	pos := SunPosition(dayOfYear, timeOfDay, latitude, longitude)
	irr := Irradiance{Position: pos}

	if pos.ElevationDeg <= 0 {
		return irr
	}

	// Extraterrestrial radiation corrected for Earth-Sun distance.
	G0 := solarConstant * (1 + 0.033*math.Cos(degToRad(360.0*(dayOfYear-3)/365.0)))

	// Kasten-Young air mass for the slant path through the atmosphere.
	zenDeg := 90 - pos.ElevationDeg
	AM := 1.0 / (pos.CosZenith + 0.50572*math.Pow(96.07995-zenDeg, -1.6364))

	// Direct normal irradiance with the extinction path shortened above
	// ground level, then projected onto the horizontal.
	DNI := G0 * dniNorm * math.Exp(-extinction*AM*linkeTurbidity*math.Exp(-altitude/scaleHeight))
	irr.Direct = DNI * pos.CosZenith * clearness

	// Diffuse horizontal irradiance with a seasonal fraction.
	fh := 0.1 + 0.05*math.Sin(math.Pi*(dayOfYear-100)/365.0)
	irr.Diffuse = fh * G0 * math.Sin(degToRad(zenDeg)) * clearness

	if irr.Direct < 0 {
		irr.Direct = 0
	}
	if irr.Diffuse < 0 {
		irr.Diffuse = 0
	}

	irr.Diffuse += albedo * (irr.Direct + irr.Diffuse) * groundViewFactor
	return irr
}
