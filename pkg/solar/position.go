// Package solar computes sun position and clear-sky irradiance for a site,
// parameterized by day-of-year and local time rather than wall-clock
// timestamps so the caller can run simulated days.
package solar

import (
	"math"

	"github.com/soniakeys/meeus/v3/julian"
)

// referenceYear anchors fractional day-of-year values onto the Julian
// calendar for the solar-coordinate series. Any non-leap year works; the
// series varies by well under 0.1° across a century.
const referenceYear = 2015

// Position holds the instantaneous sun geometry for a site.
type Position struct {
	ElevationDeg   float64
	AzimuthDeg     float64
	DeclinationDeg float64
	HourAngleDeg   float64
	CosZenith      float64
	EqOfTimeMin    float64
}

func degToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func radToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
func fixAngle(a float64) float64   { return a - 360.0*math.Floor(a/360.0) }

// SunPosition returns the sun geometry for the given fractional day-of-year
// and time-of-day (seconds after local midnight) at latitude/longitude in
// degrees (north/east positive).
func SunPosition(dayOfYear, timeOfDay, latitude, longitude float64) Position {
	jd := julian.CalendarGregorianToJD(referenceYear, 1, dayOfYear+timeOfDay/86400.0)
	T := (jd - 2451545.0) / 36525.0

	// Solar coordinates, low-accuracy series (Meeus ch. 25).
	L0 := fixAngle(280.46646 + T*(36000.76983+T*0.0003032))
	M := fixAngle(357.52911 + T*(35999.05029-T*0.0001537))
	e := 0.016708634 - T*(0.000042037+T*0.0000001267)
	C := math.Sin(degToRad(M))*(1.914602-T*(0.004817+T*0.000014)) +
		math.Sin(degToRad(2*M))*(0.019993-T*0.000101) +
		math.Sin(degToRad(3*M))*0.000289
	sunLong := L0 + C
	Ω := 125.04 - 1934.136*T
	λ := sunLong - 0.00569 - 0.00478*math.Sin(degToRad(Ω))
	eps0 := 23 + (26+(21.448-T*(46.815+T*(0.00059-T*0.001813)))/60)/60
	δRad := math.Asin(math.Sin(degToRad(eps0)) * math.Sin(degToRad(λ)))

	// Equation of time (minutes).
	y := math.Tan(degToRad(eps0)/2) * math.Tan(degToRad(eps0)/2)
	eqTimeMin := radToDeg(y*math.Sin(degToRad(2*L0))-
		2*e*math.Sin(degToRad(M))+
		4*e*y*math.Sin(degToRad(M))*math.Cos(degToRad(2*L0))-
		0.5*y*y*math.Sin(degToRad(4*L0))-
		1.25*e*e*math.Sin(degToRad(2*M))) * 4

	// True solar time and hour angle. 4 minutes per degree of longitude.
	todMin := timeOfDay / 60.0
	tst := todMin + 4*longitude + eqTimeMin
	ha := tst/4 - 180
	haRad := degToRad(ha)

	latRad := degToRad(latitude)
	cosZen := math.Sin(latRad)*math.Sin(δRad) + math.Cos(latRad)*math.Cos(δRad)*math.Cos(haRad)
	zenRad := math.Acos(cosZen)
	zenDeg := radToDeg(zenRad)
	elDeg := 90 - zenDeg

	pos := Position{
		ElevationDeg:   elDeg,
		DeclinationDeg: radToDeg(δRad),
		HourAngleDeg:   ha,
		CosZenith:      cosZen,
		EqOfTimeMin:    eqTimeMin,
	}

	azDen := math.Cos(latRad) * math.Sin(zenRad)
	if azDen != 0 {
		azCos := (math.Sin(δRad) - math.Sin(latRad)*cosZen) / azDen
		azCos = math.Max(-1, math.Min(1, azCos))
		azDeg := radToDeg(math.Acos(azCos))
		if ha > 0 {
			azDeg = 360 - azDeg
		}
		pos.AzimuthDeg = azDeg
	}

	return pos
}

// SunriseSunset returns sunrise and sunset as seconds after local midnight for
// the given day-of-year, from the hour-angle condition at the horizon.
// Returns (-1, -1) for polar day or polar night.
func SunriseSunset(dayOfYear, latitude, longitude float64) (sunrise, sunset float64) {
	noon := SunPosition(dayOfYear, 12*3600, latitude, longitude)

	latRad := degToRad(latitude)
	declRad := degToRad(noon.DeclinationDeg)
	cosH := -math.Tan(latRad) * math.Tan(declRad)
	if cosH < -1.0 || cosH > 1.0 {
		return -1, -1
	}

	hourAngleMin := radToDeg(math.Acos(cosH)) * 4 // 4 minutes per degree

	// Solar noon in local minutes, corrected for longitude and equation of time.
	solarNoonMin := 720.0 - 4*longitude - noon.EqOfTimeMin

	sunrise = (solarNoonMin - hourAngleMin) * 60
	sunset = (solarNoonMin + hourAngleMin) * 60
	return sunrise, sunset
}
