// Package config handles simulation configuration loading and management.
package config

import "time"

// Config holds all simulation settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Model      ModelConfig      `yaml:"model"`
	Wind       WindConfig       `yaml:"wind"`
	Mesh       MeshConfig       `yaml:"mesh"`
	Recorder   RecorderConfig   `yaml:"recorder"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds the fixed-timestep and normalization settings.
// The four statistic vectors are fixed per trained model and never change
// mid-run.
type SimulationConfig struct {
	Timestep             time.Duration `yaml:"timestep"`
	NormalizationEnabled bool          `yaml:"normalization_enabled"`
	PosMean              [3]float32    `yaml:"pos_mean"`
	PosStd               [3]float32    `yaml:"pos_std"`
	DispMean             [3]float32    `yaml:"disp_mean"`
	DispStd              [3]float32    `yaml:"disp_std"`
}

// ModelConfig holds the trained model settings.
type ModelConfig struct {
	Path        string `yaml:"path"`         // Model asset path
	NumVertices int    `yaml:"num_vertices"` // Vertex count the model was trained for
	Backend     string `yaml:"backend"`      // Execution backend preference: auto, cpu, gpu
}

// WindConfig holds the wind condition sequence settings.
type WindConfig struct {
	Dir string `yaml:"dir"` // Directory of per-tick .wind files
}

// MeshConfig holds the deformable mesh settings.
type MeshConfig struct {
	Path string `yaml:"path"` // OBJ mesh path
}

// RecorderConfig holds tick telemetry settings.
type RecorderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite database path
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
// The normalization statistics default to the identity transform; real values
// come from the trained model's config file.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Timestep:             20 * time.Millisecond,
			NormalizationEnabled: true,
			PosMean:              [3]float32{0, 0, 0},
			PosStd:               [3]float32{1, 1, 1},
			DispMean:             [3]float32{0, 0, 0},
			DispStd:              [3]float32{1, 1, 1},
		},
		Model: ModelConfig{
			Path:        "model.bin",
			NumVertices: 0,
			Backend:     "auto",
		},
		Wind: WindConfig{
			Dir: "wind",
		},
		Mesh: MeshConfig{
			Path: "mesh.obj",
		},
		Recorder: RecorderConfig{
			Enabled: false,
			Path:    "ticks.db",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
