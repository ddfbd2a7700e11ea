package mission

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/P-QI/fw-conceptual-design/internal/airframe"
	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

// ExtractMetrics post-processes an integrated trajectory into the scalar
// performance record. Metrics whose defining event never occurred are
// reported with the sentinel value, never as an error.
func ExtractMetrics(traj *Trajectory, der *airframe.Derived) *types.PerfResult {
	ev := traj.Events
	res := &types.PerfResult{
		TSunrise:         ev.Sunrise,
		TEq:              ev.Eq,
		TEq2:             ev.Eq2,
		TFullCharge:      ev.FullCharge,
		TSunset:          ev.Sunset,
		MaxAltitude:      ev.MaxAltitude,
		PElecLevelTotNom: der.PElecLevelTotNom,
	}

	socs := make([]float64, len(traj.Samples))
	for i, s := range traj.Samples {
		socs[i] = s.SoC
	}
	res.MinSoC = floats.Min(socs)

	if ev.FullCharge != types.TimeUnavailable && ev.Eq2 != types.TimeUnavailable {
		res.TExcess = math.Max(0, ev.Eq2-ev.FullCharge)
	}
	if ev.FullCharge != types.TimeUnavailable && ev.Sunset != types.TimeUnavailable {
		res.TChargeMargin = math.Max(0, ev.Sunset-ev.FullCharge)
	}
	if ev.FullCharge == types.TimeUnavailable {
		log.Warnw("battery never reached full charge within the simulated horizon",
			"min_soc", res.MinSoC)
	}

	res.TEndurance = endurance(traj)
	return res
}

// endurance returns the number of days (fractional) the aircraft sustains
// flight. A battery depletion inside the horizon dates it exactly; otherwise
// a declining per-day minimum-SoC trend is extrapolated to its zero crossing,
// and a flat or improving trend is capped at the simulated horizon.
func endurance(traj *Trajectory) float64 {
	if traj.Events.Depletion != types.TimeUnavailable {
		return (traj.Events.Depletion - traj.Start) / secondsPerDay
	}

	var days, mins []float64
	for _, s := range traj.Samples {
		k := math.Floor((s.T - traj.Start) / secondsPerDay)
		if len(days) == 0 || k > days[len(days)-1] {
			days = append(days, k)
			mins = append(mins, s.SoC)
		} else if s.SoC < mins[len(mins)-1] {
			mins[len(mins)-1] = s.SoC
		}
	}
	if len(days) < 2 {
		return traj.Days
	}

	alpha, beta := stat.LinearRegression(days, mins, nil, false)
	if beta >= 0 {
		return traj.Days
	}
	crossing := -alpha / beta
	return math.Max(traj.Days, crossing)
}
