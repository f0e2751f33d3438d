package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagMesh     = flag.String("mesh", "", "Path to the OBJ mesh")
	flagModel    = flag.String("model", "", "Path to the trained model asset")
	flagWindDir  = flag.String("wind", "", "Directory of wind condition files")
	flagBackend  = flag.String("backend", "", "Inference backend preference (auto, cpu, gpu)")
	flagRawInput = flag.Bool("raw-input", false, "Disable input/output normalization")
	flagRecord   = flag.String("record", "", "Record tick telemetry to the given SQLite file")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMesh != "" {
		cfg.Mesh.Path = *flagMesh
	}
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	}
	if *flagWindDir != "" {
		cfg.Wind.Dir = *flagWindDir
	}
	if *flagBackend != "" {
		cfg.Model.Backend = *flagBackend
	}
	if *flagRawInput {
		cfg.Simulation.NormalizationEnabled = false
	}
	if *flagRecord != "" {
		cfg.Recorder.Enabled = true
		cfg.Recorder.Path = *flagRecord
	}
}
