package storage

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/sweep"
)

// SweepRun is the run header row.
type SweepRun struct {
	RunID     string    `gorm:"primaryKey;column:run_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
	Axis1     string    `gorm:"column:axis1"`
	Axis2     string    `gorm:"column:axis2"`
	Axis3     string    `gorm:"column:axis3"`
	Dim1      int       `gorm:"column:dim1"`
	Dim2      int       `gorm:"column:dim2"`
	Dim3      int       `gorm:"column:dim3"`
}

// TableName specifies the table name for SweepRun
func (SweepRun) TableName() string {
	return "sweep_runs"
}

// SweepResult is one grid cell row.
type SweepResult struct {
	RunID string `gorm:"primaryKey;column:run_id"`
	I     int    `gorm:"primaryKey;column:i"`
	J     int    `gorm:"primaryKey;column:j"`
	K     int    `gorm:"primaryKey;column:k"`

	Wingspan    float64 `gorm:"column:wingspan"`
	BatteryMass float64 `gorm:"column:battery_mass"`
	AspectRatio float64 `gorm:"column:aspect_ratio"`

	MassNoBat float64 `gorm:"column:m_no_bat"`
	MassBat   float64 `gorm:"column:m_bat"`

	MinSoC           float64 `gorm:"column:min_soc"`
	TExcess          float64 `gorm:"column:t_excess"`
	TChargeMargin    float64 `gorm:"column:t_chargemargin"`
	TEndurance       float64 `gorm:"column:t_endurance"`
	TSunrise         float64 `gorm:"column:t_sunrise"`
	TEq              float64 `gorm:"column:t_eq"`
	TEq2             float64 `gorm:"column:t_eq2"`
	TFullCharge      float64 `gorm:"column:t_fullcharge"`
	TSunset          float64 `gorm:"column:t_sunset"`
	PElecLevelTotNom float64 `gorm:"column:p_elec_level_tot_nom"`

	Err string `gorm:"column:err"`
}

// TableName specifies the table name for SweepResult
func (SweepResult) TableName() string {
	return "sweep_results"
}

// TimescaleDBStore writes sweep runs to a TimescaleDB/Postgres database.
type TimescaleDBStore struct {
	db *gorm.DB
}

// NewTimescaleDBStore connects and migrates the schema.
func NewTimescaleDBStore(connectionString string) (*TimescaleDBStore, error) {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("unable to create a TimescaleDB connection: %w", err)
	}

	if err := db.AutoMigrate(&SweepRun{}, &SweepResult{}); err != nil {
		return nil, fmt.Errorf("unable to migrate sweep tables: %w", err)
	}

	return &TimescaleDBStore{db: db}, nil
}

// SaveRun writes the run header and all cells.
func (t *TimescaleDBStore) SaveRun(run *sweep.Run) error {
	header := SweepRun{
		RunID:     run.ID,
		CreatedAt: run.CreatedAt,
		Axis1:     run.AxisNames[0],
		Axis2:     run.AxisNames[1],
		Axis3:     run.AxisNames[2],
		Dim1:      run.Dims[0],
		Dim2:      run.Dims[1],
		Dim3:      run.Dims[2],
	}

	rows := make([]SweepResult, 0, len(run.Cells))
	for idx := range run.Cells {
		c := &run.Cells[idx]
		row := SweepResult{RunID: run.ID, I: c.I, J: c.J, K: c.K, Err: c.Err}
		if c.Flight != nil {
			row.Wingspan = c.Flight.Wingspan
			row.BatteryMass = c.Flight.BatteryMass
			row.AspectRatio = c.Flight.AspectRatio
		}
		if c.Design != nil {
			row.MassNoBat = c.Design.MassNoBat
			row.MassBat = c.Design.MassBat
		}
		if c.Perf != nil {
			row.MinSoC = c.Perf.MinSoC
			row.TExcess = c.Perf.TExcess
			row.TChargeMargin = c.Perf.TChargeMargin
			row.TEndurance = c.Perf.TEndurance
			row.TSunrise = c.Perf.TSunrise
			row.TEq = c.Perf.TEq
			row.TEq2 = c.Perf.TEq2
			row.TFullCharge = c.Perf.TFullCharge
			row.TSunset = c.Perf.TSunset
			row.PElecLevelTotNom = c.Perf.PElecLevelTotNom
		}
		rows = append(rows, row)
	}

	return t.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&header).Error; err != nil {
			return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
		}
		if err := tx.CreateInBatches(rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert results for run %s: %w", run.ID, err)
		}
		return nil
	})
}

// Close closes the underlying connection pool.
func (t *TimescaleDBStore) Close() error {
	sqlDB, err := t.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
