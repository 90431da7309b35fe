package config

import (
	"flag"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging and gizmos")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagAtlas       = flag.Int("atlas", 0, "Shadow atlas size (256..8192)")
	flagCascades    = flag.Int("cascades", 0, "Cascade count (1..4)")
	flagFilter      = flag.String("filter", "", "PCF filter: pcf2x2, pcf3x3, pcf5x5, pcf7x7")
	flagBlend       = flag.String("blend", "", "Cascade blend: hard, soft, dither")
	flagMaxDistance = flag.Float64("max-distance", 0, "Maximum shadow distance")
	flagScene       = flag.String("scene", "", "Path to scene file")
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
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Pipeline.Gizmos = true
	}
	if *flagWindowed {
		cfg.Window.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Window.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagAtlas > 0 {
		cfg.Shadows.Directional.AtlasSize = shadow.MapSize(*flagAtlas)
	}
	if *flagCascades > 0 {
		cfg.Shadows.Directional.CascadeCount = *flagCascades
	}
	if *flagFilter != "" {
		f, err := shadow.ParseFilterMode(*flagFilter)
		if err != nil {
			return err
		}
		cfg.Shadows.Directional.Filter = f
	}
	if *flagBlend != "" {
		b, err := shadow.ParseCascadeBlendMode(*flagBlend)
		if err != nil {
			return err
		}
		cfg.Shadows.Directional.CascadeBlend = b
	}
	if *flagMaxDistance > 0 {
		cfg.Shadows.MaxDistance = float32(*flagMaxDistance)
	}
	if *flagScene != "" {
		cfg.Scene.Path = *flagScene
	}
	return nil
}
