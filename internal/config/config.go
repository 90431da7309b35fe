// Package config handles shadow demo configuration loading and management.
package config

import (
	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/pipeline"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

// Config holds all application settings.
type Config struct {
	Window   WindowConfig    `yaml:"window"`
	Shadows  shadow.Settings `yaml:"shadows"`
	Camera   CameraConfig    `yaml:"camera"`
	Pipeline PipelineConfig  `yaml:"pipeline"`
	Scene    SceneConfig     `yaml:"scene"`
	Logging  LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// CameraConfig holds the projection of the demo camera.
type CameraConfig struct {
	FieldOfView float32 `yaml:"fov"` // Vertical, degrees
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
}

// PipelineConfig holds render pipeline switches.
type PipelineConfig struct {
	DynamicBatching bool `yaml:"dynamic_batching"`
	Instancing      bool `yaml:"instancing"`
	// Gizmos draws caster bounds and cascade spheres.
	Gizmos bool `yaml:"gizmos"`
}

// SceneConfig selects the scene to load.
type SceneConfig struct {
	// Path to a scene YAML file; empty uses the built-in scene.
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Shadows: shadow.DefaultSettings(),
		Camera: CameraConfig{
			FieldOfView: 60,
			Near:        0.3,
			Far:         1000,
		},
		Pipeline: PipelineConfig{
			DynamicBatching: true,
			Instancing:      true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Lens returns the camera projection parameters.
func (c *Config) Lens() camera.Lens {
	return camera.Lens{FieldOfView: c.Camera.FieldOfView, Near: c.Camera.Near, Far: c.Camera.Far}
}

// PipelineSettings combines the pipeline switches with the shadow settings.
func (c *Config) PipelineSettings() pipeline.Settings {
	return pipeline.Settings{
		DynamicBatching: c.Pipeline.DynamicBatching,
		Instancing:      c.Pipeline.Instancing,
		Shadows:         c.Shadows,
	}
}

// Diagnostics returns the pipeline diagnostics matching the log level.
func (c *Config) Diagnostics() pipeline.Diagnostics {
	if c.Logging.Level == "debug" || c.Pipeline.Gizmos {
		return pipeline.DevDiagnostics{Gizmos: c.Pipeline.Gizmos}
	}
	return pipeline.NopDiagnostics{}
}
