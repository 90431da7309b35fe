package main

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/lighting"
	"github.com/Faultbox/midgard-csm/internal/engine/pipeline"
	"github.com/Faultbox/midgard-csm/internal/engine/scene"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

type frameOptions struct {
	ScenePath string
	Settings  shadow.Settings
	Width     int
	Height    int
	// Orbit camera; zero distance uses the scene's.
	Distance, Yaw, Pitch float32
	ReversedZ            bool
}

func defaultFrameOptions() frameOptions {
	orbit := camera.NewOrbitCamera()
	return frameOptions{
		Settings: shadow.DefaultSettings(),
		Width:    1280,
		Height:   720,
		Yaw:      orbit.RotationY,
		Pitch:    orbit.RotationX,
	}
}

type frameReport struct {
	Scene      string       `yaml:"scene"`
	Layout     layoutReport `yaml:"layout"`
	Fallback   bool         `yaml:"fallback,omitempty"`
	Lights     int          `yaml:"lights"`
	Cascades   int          `yaml:"cascades"`
	Keywords   []string     `yaml:"keywords,flow"`
	Spheres    []vec4       `yaml:"culling_spheres"`
	Data       []vec4       `yaml:"cascade_data"`
	Fade       vec4         `yaml:"distance_fade"`
	Tiles      []tileReport `yaml:"tiles"`
	ShadowData []string     `yaml:"light_shadow_data"`
	Commands   int          `yaml:"commands"`
	Submits    int          `yaml:"submits"`
	Leaked     int          `yaml:"leaked_textures"`
}

type layoutReport struct {
	AtlasSize int `yaml:"atlas_size"`
	Split     int `yaml:"split"`
	TileSize  int `yaml:"tile_size"`
}

type tileReport struct {
	Index    int        `yaml:"index"`
	Light    int        `yaml:"light"`
	Cascade  int        `yaml:"cascade"`
	Viewport [4]float32 `yaml:"viewport,flow"`
	Sphere   vec4       `yaml:"sphere"`
	Matrix   math.Mat4  `yaml:"matrix,flow"`
}

type vec4 [4]float32

func toVec4(v math.Vec4) vec4 {
	return vec4{v.X, v.Y, v.Z, v.W}
}

// MarshalYAML implements yaml.Marshaler as a flow sequence.
func (v vec4) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range v {
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(float64(f), 'g', -1, 32)})
	}
	return n, nil
}

// renderFrame runs one camera through the pipeline against a recorder and
// reports the published shadow state.
func renderFrame(opts frameOptions) (*frameReport, error) {
	s := scene.Default()
	if opts.ScenePath != "" {
		loaded, err := scene.Load(opts.ScenePath)
		if err != nil {
			return nil, fmt.Errorf("load scene: %w", err)
		}
		s = loaded
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid camera size %dx%d", opts.Width, opts.Height)
	}

	orbit := camera.NewOrbitCamera()
	orbit.SetCenter(s.Camera.Center[0], s.Camera.Center[1], s.Camera.Center[2])
	orbit.Distance = s.Camera.Distance
	if opts.Distance > 0 {
		orbit.Distance = opts.Distance
	}
	if orbit.Distance <= 0 {
		orbit.Distance = camera.NewOrbitCamera().Distance
	}
	orbit.RotationY = opts.Yaw
	orbit.RotationX = opts.Pitch

	p := pipeline.New(pipeline.Settings{Shadows: opts.Settings})
	capture := &shadow.Capture{}
	p.Renderer().Shadows().SetDiagnostics(capture)

	rec := command.NewRecorder()
	rec.ReversedZ = opts.ReversedZ
	cam := &pipeline.Camera{
		Name:    "atlastool",
		Frustum: orbit.Frustum(camera.DefaultLens(), float32(opts.Width)/float32(opts.Height)),
		Width:   opts.Width,
		Height:  opts.Height,
	}
	p.Render(rec, []*pipeline.Camera{cam}, s)

	return buildReport(s, capture.Frame, rec, p.Renderer().Shadows().State()), nil
}

func buildReport(s *scene.Scene, frame shadow.FrameInfo, rec *command.Recorder, state shadow.State) *frameReport {
	g := rec.Globals()
	r := &frameReport{
		Scene: s.Name,
		Layout: layoutReport{
			AtlasSize: frame.Layout.AtlasSize,
			Split:     frame.Layout.Split,
			TileSize:  frame.Layout.TileSize,
		},
		Fallback: frame.Fallback,
		Lights:   frame.Lights,
		Cascades: frame.Cascades,
		Keywords: g.Keywords(),
		Fade:     toVec4(g.Vectors[shadow.ShadowDistanceFadeName]),
		Commands: len(rec.Executed()),
		Submits:  rec.Submits(),
		Leaked:   rec.LiveTextures(),
	}
	if !frame.Fallback {
		for i := 0; i < state.CascadeCount && i < shadow.MaxCascades; i++ {
			r.Spheres = append(r.Spheres, toVec4(state.CullingSpheres[i]))
			r.Data = append(r.Data, toVec4(state.CascadeData[i]))
		}
	}
	for _, t := range frame.Tiles {
		r.Tiles = append(r.Tiles, tileReport{
			Index:    t.Index,
			Light:    t.LightSlot,
			Cascade:  t.Cascade,
			Viewport: [4]float32{t.Viewport.X, t.Viewport.Y, t.Viewport.Width, t.Viewport.Height},
			Sphere:   toVec4(t.Split.CullingSphere),
			Matrix:   t.Matrix,
		})
	}
	data := g.VectorArrays[lighting.DirLightShadowData]
	for _, v := range data[:min(g.Ints[lighting.DirLightCount], len(data))] {
		r.ShadowData = append(r.ShadowData, fmt.Sprintf("strength=%.2f tile=%.0f normal_bias=%.2f", v.X, v.Y, v.Z))
	}
	return r
}
