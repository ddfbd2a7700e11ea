package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/P-QI/fw-conceptual-design/internal/log"
	"github.com/P-QI/fw-conceptual-design/internal/restserver"
	"github.com/P-QI/fw-conceptual-design/internal/storage"
	"github.com/P-QI/fw-conceptual-design/internal/sweep"
	"github.com/P-QI/fw-conceptual-design/internal/types"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "", "Path to YAML configuration; built-in reference configuration when omitted")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	serve := flag.Bool("serve", false, "Serve results over the REST API after the sweep finishes")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fwdesign %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := loadConfig(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper, err := sweep.New(cfg)
	if err != nil {
		log.Errorf("Invalid sweep configuration: %v", err)
		os.Exit(1)
	}

	run, runErr := sweeper.Run(ctx)
	if runErr != nil {
		// Cancelled mid-sweep: completed cells are still valid, keep them.
		log.Warnf("Sweep did not finish: %v", runErr)
	}

	printSummary(run)

	stores, err := storage.NewManager(&cfg.Storage)
	if err != nil {
		log.Errorf("Failed to set up storage: %v", err)
		os.Exit(1)
	}
	defer stores.Close()

	if stores.Enabled() {
		if err := stores.SaveRun(run); err != nil {
			log.Errorf("Failed to store run %s: %v", run.ID, err)
			os.Exit(1)
		}
		log.Infow("run stored", "run_id", run.ID)
	}

	if *serve && runErr == nil {
		rest := cfg.Storage.REST
		if rest.Port == 0 {
			rest.Port = 8080
		}
		server := restserver.New(&rest)
		server.AddRun(run)
		if err := server.Start(ctx); err != nil {
			log.Errorf("REST server failed: %v", err)
			os.Exit(1)
		}
	}
}

func loadConfig(cfgFile string) (*types.Config, error) {
	if cfgFile == "" {
		log.Info("no config file given, using the built-in reference configuration")
		return types.DefaultConfig(), nil
	}
	return types.NewConfig(cfgFile)
}

func printSummary(run *sweep.Run) {
	var failed int
	var best *sweep.Cell
	for idx := range run.Cells {
		c := &run.Cells[idx]
		if c.Err != "" {
			failed++
			continue
		}
		if c.Perf == nil {
			continue
		}
		if best == nil || c.Perf.MinSoC > best.Perf.MinSoC {
			best = c
		}
	}

	fmt.Printf("Run %s: %d cells (%d failed), grid %s × %s × %s = %dx%dx%d\n",
		run.ID, len(run.Cells), failed,
		run.AxisNames[0], run.AxisNames[1], run.AxisNames[2],
		run.Dims[0], run.Dims[1], run.Dims[2])

	if best != nil {
		fmt.Printf("Best cell (%d,%d,%d): b=%.2f m, m_bat=%.2f kg, AR=%.1f\n",
			best.I, best.J, best.K,
			best.Flight.Wingspan, best.Flight.BatteryMass, best.Flight.AspectRatio)
		fmt.Printf("  min SoC:       %.3f\n", best.Perf.MinSoC)
		fmt.Printf("  endurance:     %.2f days\n", best.Perf.TEndurance)
		fmt.Printf("  charge margin: %.2f h\n", best.Perf.TChargeMargin/3600)
		fmt.Printf("  excess time:   %.2f h\n", best.Perf.TExcess/3600)
		fmt.Printf("  nominal power: %.1f W\n", best.Perf.PElecLevelTotNom)
	}
}
