package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Simulation.Timestep != 20*time.Millisecond {
		t.Errorf("expected timestep 20ms, got %v", cfg.Simulation.Timestep)
	}
	if !cfg.Simulation.NormalizationEnabled {
		t.Error("expected normalization to be enabled by default")
	}
	if cfg.Simulation.PosStd != [3]float32{1, 1, 1} {
		t.Errorf("expected identity pos_std, got %v", cfg.Simulation.PosStd)
	}
	if cfg.Simulation.DispStd != [3]float32{1, 1, 1} {
		t.Errorf("expected identity disp_std, got %v", cfg.Simulation.DispStd)
	}

	if cfg.Model.Backend != "auto" {
		t.Errorf("expected backend 'auto', got %s", cfg.Model.Backend)
	}
	if cfg.Wind.Dir != "wind" {
		t.Errorf("expected wind dir 'wind', got %s", cfg.Wind.Dir)
	}
	if cfg.Recorder.Enabled {
		t.Error("expected recorder to be disabled by default")
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulation:
  timestep: 10ms
  normalization_enabled: false
  pos_mean: [0.1, 2.5, -0.3]
  pos_std: [1.5, 2.0, 0.5]
  disp_mean: [0.0, -0.01, 0.0]
  disp_std: [0.02, 0.03, 0.02]

model:
  path: flag.bin
  num_vertices: 242
  backend: gpu

wind:
  dir: data/wind

mesh:
  path: flag.obj

recorder:
  enabled: true
  path: out/ticks.db

logging:
  level: "debug"
  log_file: "sim.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Simulation.Timestep != 10*time.Millisecond {
		t.Errorf("expected timestep 10ms, got %v", cfg.Simulation.Timestep)
	}
	if cfg.Simulation.NormalizationEnabled {
		t.Error("expected normalization to be disabled")
	}
	if cfg.Simulation.PosMean != [3]float32{0.1, 2.5, -0.3} {
		t.Errorf("unexpected pos_mean: %v", cfg.Simulation.PosMean)
	}
	if cfg.Simulation.DispStd != [3]float32{0.02, 0.03, 0.02} {
		t.Errorf("unexpected disp_std: %v", cfg.Simulation.DispStd)
	}

	if cfg.Model.Path != "flag.bin" {
		t.Errorf("expected model path flag.bin, got %s", cfg.Model.Path)
	}
	if cfg.Model.NumVertices != 242 {
		t.Errorf("expected 242 vertices, got %d", cfg.Model.NumVertices)
	}
	if cfg.Model.Backend != "gpu" {
		t.Errorf("expected backend gpu, got %s", cfg.Model.Backend)
	}

	if cfg.Wind.Dir != "data/wind" {
		t.Errorf("expected wind dir data/wind, got %s", cfg.Wind.Dir)
	}
	if cfg.Mesh.Path != "flag.obj" {
		t.Errorf("expected mesh path flag.obj, got %s", cfg.Mesh.Path)
	}

	if !cfg.Recorder.Enabled {
		t.Error("expected recorder to be enabled")
	}
	if cfg.Recorder.Path != "out/ticks.db" {
		t.Errorf("expected recorder path out/ticks.db, got %s", cfg.Recorder.Path)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "sim.log" {
		t.Errorf("expected log file 'sim.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
simulation:
  timestep: not a duration
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "mesh and model flags",
			setup: func() {
				*flagMesh = "banner.obj"
				*flagModel = "banner.bin"
			},
			verify: func(cfg *Config) {
				if cfg.Mesh.Path != "banner.obj" {
					t.Errorf("expected mesh banner.obj, got %s", cfg.Mesh.Path)
				}
				if cfg.Model.Path != "banner.bin" {
					t.Errorf("expected model banner.bin, got %s", cfg.Model.Path)
				}
			},
			teardown: func() {
				*flagMesh = ""
				*flagModel = ""
			},
		},
		{
			name: "raw input flag",
			setup: func() {
				*flagRawInput = true
			},
			verify: func(cfg *Config) {
				if cfg.Simulation.NormalizationEnabled {
					t.Error("expected normalization to be disabled with raw-input flag")
				}
			},
			teardown: func() {
				*flagRawInput = false
			},
		},
		{
			name: "record flag",
			setup: func() {
				*flagRecord = "run.db"
			},
			verify: func(cfg *Config) {
				if !cfg.Recorder.Enabled {
					t.Error("expected recorder to be enabled with record flag")
				}
				if cfg.Recorder.Path != "run.db" {
					t.Errorf("expected recorder path run.db, got %s", cfg.Recorder.Path)
				}
			},
			teardown: func() {
				*flagRecord = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
model:
  path: from-file.bin
  backend: cpu
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagBackend = "gpu"
	defer func() {
		*flagConfig = ""
		*flagBackend = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Backend should come from the flag, path from the file.
	if cfg.Model.Backend != "gpu" {
		t.Errorf("expected backend gpu from flag, got %s", cfg.Model.Backend)
	}
	if cfg.Model.Path != "from-file.bin" {
		t.Errorf("expected model path from-file.bin from file, got %s", cfg.Model.Path)
	}
}
