// atlastool is a headless CLI for inspecting shadow atlas layouts and frames.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "layout":
		cmdLayout(args)
	case "frame":
		cmdFrame(args)
	case "keywords", "kw":
		cmdKeywords(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`atlastool - cascaded shadow atlas utility

Usage:
  atlastool <command> [options]

Commands:
  layout [-atlas N] [-lights N] [-cascades N]   Show the atlas tile grid
  frame [options] [scene.yaml]                  Render one frame headlessly and dump shadow state
  keywords [-filter F] [-blend B]               List shader keywords

Frame options:
  -atlas N -cascades N -filter F -blend B -max-distance D
  -width W -height H -distance D -yaw R -pitch R -reversed-z -o out.yaml

Examples:
  atlastool layout -atlas 2048 -lights 3 -cascades 4
  atlastool frame -filter pcf5x5 -blend soft scenes/city.yaml
  atlastool keywords -filter 7x7 -blend dither`)
}

func cmdLayout(args []string) {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	atlas := fs.Int("atlas", int(shadow.Map1024), "Atlas size")
	lights := fs.Int("lights", 1, "Shadowed directional lights (1..4)")
	cascades := fs.Int("cascades", shadow.MaxCascades, "Cascades per light (1..4)")
	fs.Parse(args)

	tiles := *lights * *cascades
	if tiles < 1 || tiles > shadow.MaxTiles {
		fmt.Fprintf(os.Stderr, "Error: %d tiles out of range 1..%d\n", tiles, shadow.MaxTiles)
		os.Exit(1)
	}

	layout := shadow.NewLayout(*atlas, tiles)
	fmt.Printf("Atlas:     %d\n", layout.AtlasSize)
	fmt.Printf("Split:     %dx%d\n", layout.Split, layout.Split)
	fmt.Printf("Tile size: %d\n", layout.TileSize)
	fmt.Println()
	fmt.Println("Tiles:")
	for i := 0; i < tiles; i++ {
		v := layout.Viewport(i)
		fmt.Printf("  %2d  light %d cascade %d  at (%4.0f, %4.0f)\n", i, i / *cascades, i%*cascades, v.X, v.Y)
	}
}

func cmdFrame(args []string) {
	fs := flag.NewFlagSet("frame", flag.ExitOnError)
	opts := defaultFrameOptions()
	atlas := fs.Int("atlas", int(opts.Settings.Directional.AtlasSize), "Atlas size")
	fs.IntVar(&opts.Settings.Directional.CascadeCount, "cascades", opts.Settings.Directional.CascadeCount, "Cascade count (1..4)")
	filter := fs.String("filter", opts.Settings.Directional.Filter.String(), "PCF filter")
	blend := fs.String("blend", opts.Settings.Directional.CascadeBlend.String(), "Cascade blend mode")
	maxDistance := fs.Float64("max-distance", float64(opts.Settings.MaxDistance), "Maximum shadow distance")
	fs.IntVar(&opts.Width, "width", opts.Width, "Camera width")
	fs.IntVar(&opts.Height, "height", opts.Height, "Camera height")
	distance := fs.Float64("distance", 0, "Orbit distance (0 = scene default)")
	yaw := fs.Float64("yaw", float64(opts.Yaw), "Orbit yaw in radians")
	pitch := fs.Float64("pitch", float64(opts.Pitch), "Orbit pitch in radians")
	fs.BoolVar(&opts.ReversedZ, "reversed-z", false, "Bake matrices for a reversed-Z backend")
	output := fs.String("o", "", "Write YAML to file instead of stdout")
	fs.Parse(args)

	var err error
	opts.Settings.Directional.AtlasSize = shadow.MapSize(*atlas)
	if opts.Settings.Directional.Filter, err = shadow.ParseFilterMode(*filter); err != nil {
		fatal(err)
	}
	if opts.Settings.Directional.CascadeBlend, err = shadow.ParseCascadeBlendMode(*blend); err != nil {
		fatal(err)
	}
	opts.Settings.MaxDistance = float32(*maxDistance)
	opts.Distance = float32(*distance)
	opts.Yaw = float32(*yaw)
	opts.Pitch = float32(*pitch)
	if fs.NArg() > 0 {
		opts.ScenePath = fs.Arg(0)
	}

	report, err := renderFrame(opts)
	if err != nil {
		fatal(err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		fatal(err)
	}
	if *output == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(*output, data, 0644); err != nil {
		fatal(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (%d tiles)\n", *output, len(report.Tiles))
}

func cmdKeywords(args []string) {
	fs := flag.NewFlagSet("keywords", flag.ExitOnError)
	filter := fs.String("filter", "", "Show keywords enabled for this filter")
	blend := fs.String("blend", "", "Show keywords enabled for this blend mode")
	fs.Parse(args)

	if *filter == "" && *blend == "" {
		fmt.Println("Filter keywords:")
		for i, k := range shadow.FilterKeywords() {
			fmt.Printf("  %-24s %v\n", k, shadow.FilterMode(i+1))
		}
		fmt.Println("Cascade blend keywords:")
		for i, k := range shadow.BlendKeywords() {
			fmt.Printf("  %-24s %v\n", k, shadow.CascadeBlendMode(i+1))
		}
		return
	}

	f, b := shadow.PCF2x2, shadow.BlendHard
	var err error
	if *filter != "" {
		if f, err = shadow.ParseFilterMode(*filter); err != nil {
			fatal(err)
		}
	}
	if *blend != "" {
		if b, err = shadow.ParseCascadeBlendMode(*blend); err != nil {
			fatal(err)
		}
	}
	enabled := shadow.EnabledKeywords(f, b)
	if len(enabled) == 0 {
		fmt.Println("(none)")
		return
	}
	fmt.Println(strings.Join(enabled, "\n"))
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
