// Package types holds the shared records exchanged between the evaluation
// engine, the sweep driver and the storage backends.
package types

// TimeUnavailable is the sentinel for a time-valued metric whose event was
// never observed within the simulated horizon (e.g. the battery never reached
// full charge). Kept as a plain number so it survives JSON, msgpack and SQL
// round-trips.
const TimeUnavailable = -1.0

// Design holds the geometric and mass design variables of one aircraft
// configuration. Immutable per evaluation; derived quantities (wing area,
// total mass, power budget) are computed from it, never written back.
type Design struct {
	Wingspan      float64 `yaml:"wingspan" json:"wingspan"`             // m
	AspectRatio   float64 `yaml:"aspect-ratio" json:"aspect_ratio"`     //
	BatteryMass   float64 `yaml:"battery-mass" json:"battery_mass"`     // kg
	AvionicsPower float64 `yaml:"avionics-power" json:"avionics_power"` // W
	AvionicsMass  float64 `yaml:"avionics-mass" json:"avionics_mass"`   // kg
	PayloadPower  float64 `yaml:"payload-power" json:"payload_power"`   // W
	PayloadMass   float64 `yaml:"payload-mass" json:"payload_mass"`     // kg
	MaxPropPower  float64 `yaml:"max-prop-power" json:"max_prop_power"` // W
}

// Environment holds the environmental conditions for one evaluation.
type Environment struct {
	DayOfYear      float64 `yaml:"day-of-year" json:"day_of_year"` // 1..365.25, fractional allowed
	Latitude       float64 `yaml:"latitude" json:"latitude"`       // deg, north positive
	Longitude      float64 `yaml:"longitude" json:"longitude"`     // deg, east positive
	AltitudeGround float64 `yaml:"altitude-ground" json:"altitude_ground"` // m AMSL
	AltitudeMax    float64 `yaml:"altitude-max" json:"altitude_max"`       // m AMSL
	GroundTemp     float64 `yaml:"ground-temp" json:"ground_temp"`         // °C
	Turbulence     float64 `yaml:"turbulence" json:"turbulence"`           // fractional power increase
	TurbulenceDay  float64 `yaml:"turbulence-day" json:"turbulence_day"`   // extra fraction while the sun is up
	Clearness      float64 `yaml:"clearness" json:"clearness"`             // 0..1, 1 = clear sky
	Albedo         float64 `yaml:"albedo" json:"albedo"`
	TimeShift      float64 `yaml:"time-shift" json:"time_shift"` // hours, display correction only
}

// SimType selects how the integrator seeds its initial state.
type SimType int

const (
	// SimStartAtEquilibrium starts the simulation at the first instant of
	// the day where generated power reaches consumed power.
	SimStartAtEquilibrium SimType = iota
	// SimStartAtInitCond starts at the time-of-day and state-of-charge
	// given in InitCond.
	SimStartAtInitCond
)

// InitCond is the explicit initial condition used with SimStartAtInitCond.
// With SimStartAtEquilibrium only SoC is read.
type InitCond struct {
	SoC       float64 `yaml:"soc" json:"soc"`                   // 0..1
	TimeOfDay float64 `yaml:"time-of-day" json:"time_of_day"`   // s after local midnight
}

// Settings governs integrator behavior, not physics. Immutable per evaluation.
type Settings struct {
	Dt              float64  `yaml:"dt" json:"dt"`                     // s
	SimTimeDays     float64  `yaml:"sim-time-days" json:"sim_time_days"`
	SimType         SimType  `yaml:"-" json:"sim_type"`
	SimTypeName     string   `yaml:"sim-type" json:"-"` // "equilibrium" or "initial-condition"
	InitCond        InitCond `yaml:"init-cond" json:"init_cond"`
	ClimbAllowed    bool     `yaml:"climb-allowed" json:"climb_allowed"`
	FindMaxAltitude bool     `yaml:"find-max-altitude" json:"find_max_altitude"`
	UseAOI          bool     `yaml:"use-aoi" json:"use_aoi"`
	UseDirDiffRad   bool     `yaml:"use-dir-diff-rad" json:"use_dir_diff_rad"`
}

// PerfResult is the scalar performance record produced once per evaluation.
// All time-valued fields are elapsed seconds on the simulation clock except
// TEndurance, which is in days. Missing events carry TimeUnavailable.
type PerfResult struct {
	MinSoC           float64 `yaml:"-" json:"min_soc"`
	TExcess          float64 `yaml:"-" json:"t_excess"`
	TChargeMargin    float64 `yaml:"-" json:"t_chargemargin"`
	TEndurance       float64 `yaml:"-" json:"t_endurance"` // days
	TSunrise         float64 `yaml:"-" json:"t_sunrise"`
	TEq              float64 `yaml:"-" json:"t_eq"`
	TEq2             float64 `yaml:"-" json:"t_eq2"`
	TFullCharge      float64 `yaml:"-" json:"t_fullcharge"`
	TSunset          float64 `yaml:"-" json:"t_sunset"`
	PElecLevelTotNom float64 `yaml:"-" json:"p_elec_level_tot_nom"` // W
	MaxAltitude      float64 `yaml:"-" json:"max_altitude"`         // m, only with find-max-altitude
}

// DesignResult is the derived structural/mass breakdown per configuration.
type DesignResult struct {
	MassNoBat float64 `json:"m_no_bat"` // kg, airframe + systems excluding battery
	MassBat   float64 `json:"m_bat"`    // kg
}

// FlightData echoes the resolved design variables actually used for a
// configuration, for traceability in reports.
type FlightData struct {
	Wingspan    float64 `json:"wingspan"`
	BatteryMass float64 `json:"battery_mass"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// StructureParams holds the structural mass scaling law
// m_struct = MassCoeff · b^SpanExp · AR^ARExp · CorrFact. The coefficient and
// exponents are calibration data fitted against built airframes.
type StructureParams struct {
	MassCoeff float64 `yaml:"mass-coeff" json:"mass_coeff"`
	SpanExp   float64 `yaml:"span-exp" json:"span_exp"`
	ARExp     float64 `yaml:"ar-exp" json:"ar_exp"`
	CorrFact  float64 `yaml:"corr-fact" json:"corr_fact"`
}

// AeroParams holds the level-flight drag polar.
type AeroParams struct {
	CL          float64 `yaml:"cl" json:"cl"`                     // cruise lift coefficient
	CDAirfoil   float64 `yaml:"cd-airfoil" json:"cd_airfoil"`     // airfoil profile drag
	CDParasitic float64 `yaml:"cd-parasitic" json:"cd_parasitic"` // fuselage, tail, interference
	OswaldEff   float64 `yaml:"oswald-eff" json:"oswald_eff"`
}

// PropulsionParams holds the propulsion chain efficiencies.
type PropulsionParams struct {
	EffController float64 `yaml:"eff-controller" json:"eff_controller"`
	EffMotor      float64 `yaml:"eff-motor" json:"eff_motor"`
	EffGearbox    float64 `yaml:"eff-gearbox" json:"eff_gearbox"`
	EffPropeller  float64 `yaml:"eff-propeller" json:"eff_propeller"`
	EffClimb      float64 `yaml:"eff-climb" json:"eff_climb"` // surplus power to potential energy
}

// BatteryParams holds the battery technology constants.
type BatteryParams struct {
	EnergyDensity float64 `yaml:"energy-density" json:"energy_density"` // Wh/kg
	EffCharge     float64 `yaml:"eff-charge" json:"eff_charge"`
	EffDischarge  float64 `yaml:"eff-discharge" json:"eff_discharge"`
}

// SolarPanelParams holds the solar generation chain constants.
type SolarPanelParams struct {
	AreaFraction float64 `yaml:"area-fraction" json:"area_fraction"` // fraction of wing area covered by cells
	CellDensity  float64 `yaml:"cell-density" json:"cell_density"`   // kg/m² incl. encapsulation
	EffCells     float64 `yaml:"eff-cells" json:"eff_cells"`
	EffEncaps    float64 `yaml:"eff-encaps" json:"eff_encaps"` // encapsulation / curvature loss
	EffMPPT      float64 `yaml:"eff-mppt" json:"eff_mppt"`
	EffDirect    float64 `yaml:"eff-direct" json:"eff_direct"`   // used with use-dir-diff-rad
	EffDiffuse   float64 `yaml:"eff-diffuse" json:"eff_diffuse"` // used with use-dir-diff-rad
	EffBEC       float64 `yaml:"eff-bec" json:"eff_bec"`         // avionics/payload step-down
}

// Params bundles the technology constants that are calibration data rather
// than per-configuration design variables.
type Params struct {
	Structure  StructureParams  `yaml:"structure" json:"structure"`
	Aero       AeroParams       `yaml:"aero" json:"aero"`
	Propulsion PropulsionParams `yaml:"propulsion" json:"propulsion"`
	Battery    BatteryParams    `yaml:"battery" json:"battery"`
	Solar      SolarPanelParams `yaml:"solar" json:"solar"`
}
