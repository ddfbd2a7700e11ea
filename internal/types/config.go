package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the base configuration object
type Config struct {
	Design      Design        `yaml:"design"`
	Environment Environment   `yaml:"environment"`
	Params      Params        `yaml:"params"`
	Settings    Settings      `yaml:"settings"`
	Sweep       SweepConfig   `yaml:"sweep,omitempty"`
	Storage     StorageConfig `yaml:"storage,omitempty"`
}

// AxisConfig binds one sweep variable to an ordered sequence of values,
// either listed explicitly or as a min/max/count span.
type AxisConfig struct {
	Variable string    `yaml:"variable"`
	Values   []float64 `yaml:"values,omitempty"`
	Min      float64   `yaml:"min,omitempty"`
	Max      float64   `yaml:"max,omitempty"`
	Count    int       `yaml:"count,omitempty"`
}

// SweepConfig holds the grid sweep surface: up to three axes, remaining
// variables stay at their configured single value.
type SweepConfig struct {
	Axes    []AxisConfig `yaml:"axes,omitempty"`
	Workers int          `yaml:"workers,omitempty"`
}

// StorageConfig holds the configuration for various storage backends.
// More than one storage backend can be used simultaneously.
type StorageConfig struct {
	SQLite      SQLiteConfig      `yaml:"sqlite,omitempty"`
	TimescaleDB TimescaleDBConfig `yaml:"timescaledb,omitempty"`
	Msgpack     MsgpackConfig     `yaml:"msgpack,omitempty"`
	REST        RESTServerConfig  `yaml:"rest,omitempty"`
}

type SQLiteConfig struct {
	Path string `yaml:"path,omitempty"`
}

type TimescaleDBConfig struct {
	ConnectionString string `yaml:"connection-string,omitempty"`
}

type MsgpackConfig struct {
	Path string `yaml:"path,omitempty"`
}

type RESTServerConfig struct {
	ListenAddr string `yaml:"listen-addr,omitempty"`
	Port       int    `yaml:"port,omitempty"`
}

// DefaultConfig returns the reference configuration: a 5.6 m span, AR 18.5
// airframe with 2.9 kg of batteries at 47.6°N on the summer solstice under a
// clear sky. Technology constants follow the usual conceptual-design
// assumptions for thin crystalline cells and small brushless drivetrains.
func DefaultConfig() *Config {
	return &Config{
		Design: Design{
			Wingspan:      5.6,
			AspectRatio:   18.5,
			BatteryMass:   2.9,
			AvionicsPower: 5.5,
			AvionicsMass:  0.6,
			PayloadPower:  5.0,
			PayloadMass:   0.3,
			MaxPropPower:  180.0,
		},
		Environment: Environment{
			DayOfYear:      172,
			Latitude:       47.6,
			Longitude:      8.5,
			AltitudeGround: 500,
			AltitudeMax:    2500,
			GroundTemp:     20,
			Turbulence:     0,
			TurbulenceDay:  0.3,
			Clearness:      1.0,
			Albedo:         0.2,
			TimeShift:      1,
		},
		Params: Params{
			Structure: StructureParams{
				MassCoeff: 0.10,
				SpanExp:   3.18,
				ARExp:     -0.88,
				CorrFact:  1.21,
			},
			Aero: AeroParams{
				CL:          1.0,
				CDAirfoil:   0.013,
				CDParasitic: 0.006,
				OswaldEff:   0.92,
			},
			Propulsion: PropulsionParams{
				EffController: 0.95,
				EffMotor:      0.88,
				EffGearbox:    0.97,
				EffPropeller:  0.85,
				EffClimb:      0.50,
			},
			Battery: BatteryParams{
				EnergyDensity: 240,
				EffCharge:     0.95,
				EffDischarge:  0.95,
			},
			Solar: SolarPanelParams{
				AreaFraction: 0.85,
				CellDensity:  0.59,
				EffCells:     0.237,
				EffEncaps:    0.90,
				EffMPPT:      0.95,
				EffDirect:    0.21,
				EffDiffuse:   0.18,
				EffBEC:       0.95,
			},
		},
		Settings: Settings{
			Dt:          100,
			SimTimeDays: 2,
			SimType:     SimStartAtEquilibrium,
			SimTypeName: "equilibrium",
			InitCond: InitCond{
				SoC:       0.46,
				TimeOfDay: 8 * 3600,
			},
			ClimbAllowed:    false,
			FindMaxAltitude: false,
			UseAOI:          false,
			UseDirDiffRad:   false,
		},
		Sweep: SweepConfig{
			Workers: 4,
		},
	}
}

// NewConfig creates a new config object from the given filename, layered over
// the defaults so a partial file only overrides what it names.
func NewConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) normalize() error {
	switch c.Settings.SimTypeName {
	case "", "equilibrium":
		c.Settings.SimType = SimStartAtEquilibrium
	case "initial-condition":
		c.Settings.SimType = SimStartAtInitCond
	default:
		return fmt.Errorf("unknown sim-type %q: use 'equilibrium' or 'initial-condition'", c.Settings.SimTypeName)
	}
	return nil
}
