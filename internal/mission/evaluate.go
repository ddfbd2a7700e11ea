package mission

import (
	"github.com/P-QI/fw-conceptual-design/internal/airframe"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

// Evaluate runs the full per-configuration evaluation: derive the airframe
// from the design variables, integrate the energy balance over the horizon,
// and extract the performance metrics. It is a pure function of its inputs;
// identical inputs always produce identical results.
func Evaluate(d *types.Design, env *types.Environment, params *types.Params, set *types.Settings) (*types.PerfResult, *types.DesignResult, *types.FlightData, error) {
	der, err := airframe.Derive(d, env, params)
	if err != nil {
		return nil, nil, nil, err
	}

	traj := Simulate(der, env, set)
	perf := ExtractMetrics(traj, der)

	desRes := &types.DesignResult{
		MassNoBat: der.MassNoBat,
		MassBat:   der.MassBat,
	}
	flight := &types.FlightData{
		Wingspan:    d.Wingspan,
		BatteryMass: d.BatteryMass,
		AspectRatio: d.AspectRatio,
	}
	return perf, desRes, flight, nil
}
