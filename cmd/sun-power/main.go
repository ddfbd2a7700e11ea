package main

import (
	"flag"
	"fmt"

	"github.com/P-QI/fw-conceptual-design/pkg/solar"
)

func main() {
	lat := flag.Float64("lat", 47.6, "Latitude in degrees, north positive")
	lon := flag.Float64("lon", 8.5, "Longitude in degrees, east positive")
	day := flag.Float64("day", 172, "Day of year (1-365, fractional allowed)")
	altitude := flag.Float64("altitude", 500, "Altitude in meters AMSL")
	clearness := flag.Float64("clearness", 1.0, "Atmospheric clearness (0-1, 1 = clear sky)")
	albedo := flag.Float64("albedo", 0.2, "Ground albedo")
	stepMin := flag.Int("step", 30, "Output step in minutes")
	flag.Parse()

	sunrise, sunset := solar.SunriseSunset(*day, *lat, *lon)
	fmt.Printf("Day %.1f at %.2f°N %.2f°E, %.0f m, clearness %.2f\n", *day, *lat, *lon, *altitude, *clearness)
	if sunrise < 0 {
		fmt.Println("Polar day or polar night: no sunrise/sunset")
	} else {
		fmt.Printf("Sunrise %s  Sunset %s\n", formatTime(sunrise), formatTime(sunset))
	}

	fmt.Printf("\n%8s %10s %12s %12s %12s\n", "time", "elev(°)", "direct(W/m²)", "diffuse(W/m²)", "total(W/m²)")
	for tod := 0.0; tod < 86400; tod += float64(*stepMin) * 60 {
		irr := solar.ClearSky(*day, tod, *lat, *lon, *altitude, *clearness, *albedo)
		if irr.ElevationDeg <= 0 {
			continue
		}
		fmt.Printf("%8s %10.2f %12.1f %12.1f %12.1f\n",
			formatTime(tod), irr.ElevationDeg, irr.Direct, irr.Diffuse, irr.Direct+irr.Diffuse)
	}
}

func formatTime(tod float64) string {
	h := int(tod) / 3600
	m := (int(tod) % 3600) / 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
