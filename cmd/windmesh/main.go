// Package main is the entry point for the windmesh deformation simulator.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/windmesh/internal/config"
	"github.com/Faultbox/windmesh/internal/infer"
	"github.com/Faultbox/windmesh/internal/logger"
	"github.com/Faultbox/windmesh/internal/mesh"
	"github.com/Faultbox/windmesh/internal/recorder"
	"github.com/Faultbox/windmesh/internal/sim"
	"github.com/Faultbox/windmesh/internal/wind"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== windmesh ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("simulation error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("simulation closed normally")
}

// run wires the collaborators and drives the fixed-timestep loop. Any error
// here is configuration-time and disables the simulation before the first
// tick.
func run(cfg *config.Config) error {
	host, err := mesh.LoadOBJ(cfg.Mesh.Path)
	if err != nil {
		return err
	}
	logger.Info("mesh loaded",
		zap.String("path", cfg.Mesh.Path),
		zap.Int("vertices", host.VertexCount()),
		zap.Int("faces", len(host.Faces)),
	)

	seq, err := wind.LoadDir(cfg.Wind.Dir)
	if err != nil {
		return err
	}
	logger.Info("wind sequence loaded", zap.String("dir", cfg.Wind.Dir), zap.Int("units", seq.Len()))

	numVertices := cfg.Model.NumVertices
	if numVertices == 0 {
		numVertices = host.VertexCount()
	}

	model, err := infer.LoadModel(cfg.Model.Path, numVertices)
	if err != nil {
		return err
	}
	engine, err := infer.CreateExecutionContext(model, cfg.Model.Backend)
	if err != nil {
		return err
	}
	logger.Info("inference engine ready",
		zap.String("model", cfg.Model.Path),
		zap.String("backend", cfg.Model.Backend),
	)

	stats, err := sim.NewStats(
		cfg.Simulation.PosMean, cfg.Simulation.PosStd,
		cfg.Simulation.DispMean, cfg.Simulation.DispStd,
	)
	if err != nil {
		engine.Close()
		return err
	}
	codec := sim.Codec{Stats: stats, Enabled: cfg.Simulation.NormalizationEnabled}

	driver, err := sim.NewDriver(engine, host, seq, codec, numVertices)
	if err != nil {
		engine.Close()
		return err
	}
	defer driver.Close()

	if cfg.Recorder.Enabled {
		rec, err := recorder.Open(cfg.Recorder.Path)
		if err != nil {
			return err
		}
		defer rec.Close()
		driver.SetSink(rec)
		logger.Info("tick telemetry enabled", zap.String("path", cfg.Recorder.Path))
	}

	return loop(driver, cfg.Simulation.Timestep)
}

// loop ticks the driver at a fixed cadence until interrupted.
func loop(driver *sim.Driver, timestep time.Duration) error {
	ticker := time.NewTicker(timestep)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	logger.Info("starting simulation loop", zap.Duration("timestep", timestep))

	ticks := 0
	statTimer := time.Now()
	for {
		select {
		case <-quit:
			logger.Info("interrupt received, stopping")
			return nil
		case <-ticker.C:
			driver.Tick()

			ticks++
			if time.Since(statTimer) >= time.Second {
				logger.Debug("tick rate",
					zap.Int("ticks", ticks),
					zap.Int("cursor", driver.Cursor()),
				)
				ticks = 0
				statTimer = time.Now()
			}
		}
	}
}
