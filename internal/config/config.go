package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvConfigPath  = "VOXEL_CONFIG"
	EnvSaveDir     = "VOXEL_SAVE_DIR"
	EnvMetricsAddr = "VOXEL_METRICS_ADDR"
)

// Config is the root configuration of the game.
type Config struct {
	HorizontalRenderDistance int     `yaml:"horizontal_render_distance"`
	VerticalRenderDistance   int     `yaml:"vertical_render_distance"`
	FPSLimit                 int     `yaml:"fps_limit"` // 0 = unlimited
	FOV                      float32 `yaml:"fov"`       // radians

	World   WorldConfig   `yaml:"world"`
	Storage StorageConfig `yaml:"storage"`
	Meshing MeshingConfig `yaml:"meshing"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
	Assets  AssetsConfig  `yaml:"assets"`
}

type WorldConfig struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"` // "default" or "flat"
	Seed uint32 `yaml:"seed"` // 0 = random
}

type StorageConfig struct {
	Dir     string `yaml:"dir"`
	Backend string `yaml:"backend"` // "file" or "badger"
}

type MeshingConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"` // empty disables the log file
}

type AssetsConfig struct {
	Dir string `yaml:"dir"`
}

const (
	WorldTypeDefault = "default"
	WorldTypeFlat    = "flat"

	BackendFile   = "file"
	BackendBadger = "badger"
)

// Default returns a Config with the stock settings.
func Default() *Config {
	return &Config{
		HorizontalRenderDistance: 3,
		VerticalRenderDistance:   2,
		FPSLimit:                 60,
		FOV:                      math.Pi / 4, // τ/8
		World: WorldConfig{
			Name: "world",
			Type: WorldTypeDefault,
		},
		Storage: StorageConfig{
			Dir:     "saves",
			Backend: BackendFile,
		},
		Meshing: MeshingConfig{
			Workers:   4,
			QueueSize: 64,
		},
		Log: LogConfig{
			Level: "info",
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
	}
}

// Load reads a YAML config file. An empty path falls back to $VOXEL_CONFIG;
// with neither set the defaults are returned. The file is decoded over the
// defaults, so only keys it names change, and an explicit 0 stays 0.
// $VOXEL_SAVE_DIR and $VOXEL_METRICS_ADDR override the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvSaveDir); v != "" {
		c.Storage.Dir = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Addr = v
	}
}

// Validate rejects settings the game can't run with.
func (c *Config) Validate() error {
	if c.HorizontalRenderDistance < 0 || c.VerticalRenderDistance < 0 {
		return fmt.Errorf("render distance must not be negative (got %d/%d)",
			c.HorizontalRenderDistance, c.VerticalRenderDistance)
	}
	if c.FPSLimit < 0 {
		return fmt.Errorf("fps_limit must not be negative (got %d)", c.FPSLimit)
	}
	if c.FOV <= 0 || c.FOV >= math.Pi {
		return fmt.Errorf("fov must be in (0, π) radians (got %v)", c.FOV)
	}
	switch strings.ToLower(c.World.Type) {
	case WorldTypeDefault, WorldTypeFlat:
	default:
		return fmt.Errorf("unknown world type %q", c.World.Type)
	}
	switch strings.ToLower(c.Storage.Backend) {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Meshing.Workers < 1 {
		return fmt.Errorf("meshing.workers must be at least 1 (got %d)", c.Meshing.Workers)
	}
	return nil
}

// Merge copies values from fromFile into cfg for every setting that was not
// given explicitly on the command line. explicitFlags holds flag names.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["world"] {
		cfg.World.Name = fromFile.World.Name
	}
	if !explicitFlags["seed"] {
		cfg.World.Seed = fromFile.World.Seed
	}
	if !explicitFlags["generator"] {
		cfg.World.Type = fromFile.World.Type
	}
	if !explicitFlags["save-dir"] {
		cfg.Storage.Dir = fromFile.Storage.Dir
	}
	if !explicitFlags["backend"] {
		cfg.Storage.Backend = fromFile.Storage.Backend
	}
	if !explicitFlags["metrics-addr"] {
		cfg.Metrics.Addr = fromFile.Metrics.Addr
	}
	if !explicitFlags["log-level"] {
		cfg.Log.Level = fromFile.Log.Level
	}
	if !explicitFlags["render-distance"] {
		cfg.HorizontalRenderDistance = fromFile.HorizontalRenderDistance
	}
}
