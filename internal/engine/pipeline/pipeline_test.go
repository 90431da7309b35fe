package pipeline

import (
	"testing"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

type testScene struct {
	lights  []culling.Light
	casters []culling.AABB
}

func (s testScene) Lights() []culling.Light        { return s.lights }
func (s testScene) ShadowCasters() []culling.AABB { return s.casters }

func demoScene() testScene {
	return testScene{
		lights: []culling.Light{{
			Type:           culling.LightDirectional,
			Color:          [3]float32{1, 1, 1},
			Intensity:      1,
			Direction:      math.Vec3{X: 0.2, Y: 1, Z: 0.3}.Normalize(),
			Shadows:        culling.ShadowsSoft,
			ShadowStrength: 1,
		}},
		casters: []culling.AABB{{Min: math.Vec3{X: -10, Y: -1, Z: -30}, Max: math.Vec3{X: 10, Y: 2, Z: -5}}},
	}
}

func testCamera(name string) *Camera {
	cam := camera.NewOrbitCamera()
	return &Camera{
		Name:       name,
		Frustum:    cam.Frustum(camera.DefaultLens(), 16.0/9.0),
		Width:      1280,
		Height:     720,
		ClearFlags: ClearColor,
		Background: [4]float32{0.1, 0.2, 0.3, 1},
	}
}

func defaultSettings() Settings {
	return Settings{DynamicBatching: true, Shadows: shadow.DefaultSettings()}
}

func TestRenderFrame(t *testing.T) {
	rec := command.NewRecorder()
	r := NewCameraRenderer()
	r.Render(rec, testCamera("Main"), demoScene(), defaultSettings())

	if rec.Submits() != 1 {
		t.Errorf("submits = %d, want 1", rec.Submits())
	}
	if rec.LiveTextures() != 0 {
		t.Errorf("live textures = %d, want 0 after the frame", rec.LiveTextures())
	}
	if r.Shadows().ReservedLights() != 1 {
		t.Errorf("reserved lights = %d, want 1", r.Shadows().ReservedLights())
	}

	var queues []command.RenderQueue
	var skybox, shadowDraws int
	var clear command.ClearRenderTarget
	for _, c := range rec.Executed() {
		switch c := c.(type) {
		case command.DrawRenderers:
			queues = append(queues, c.Queue)
			if !c.DynamicBatching {
				t.Error("dynamic batching flag not forwarded")
			}
			if c.ErrorMaterial {
				t.Error("production renderer drew the error material")
			}
		case command.DrawSkybox:
			skybox++
		case command.DrawShadows:
			shadowDraws++
		case command.ClearRenderTarget:
			if c.Color {
				clear = c
			}
		}
	}
	if len(queues) != 2 || queues[0] != command.QueueOpaque || queues[1] != command.QueueTransparent {
		t.Errorf("queues = %v, want opaque then transparent", queues)
	}
	if skybox != 1 {
		t.Errorf("skybox draws = %d, want 1", skybox)
	}
	if shadowDraws != 4 {
		t.Errorf("shadow draws = %d, want 4", shadowDraws)
	}
	if !clear.Depth || clear.Value != [4]float32{0.1, 0.2, 0.3, 1} {
		t.Errorf("camera clear = %+v", clear)
	}
}

func TestClearFlags(t *testing.T) {
	tests := []struct {
		flags        ClearFlags
		depth, color bool
	}{
		{ClearSkybox, true, true},
		{ClearColor, true, true},
		{ClearDepth, true, false},
		{ClearNothing, false, false},
	}
	for _, tt := range tests {
		rec := command.NewRecorder()
		cam := testCamera("Main")
		cam.ClearFlags = tt.flags
		NewCameraRenderer().Render(rec, cam, nil, defaultSettings())

		var last command.ClearRenderTarget
		var found bool
		for _, c := range rec.Executed() {
			if cl, ok := c.(command.ClearRenderTarget); ok {
				last, found = cl, true
			}
		}
		if found && (last.Depth != tt.depth || last.Color != tt.color) {
			found = false
		}
		if !found {
			t.Errorf("flags %d: no clear with depth=%v color=%v", tt.flags, tt.depth, tt.color)
		}
	}
}

func TestRenderSkipsInvalidCamera(t *testing.T) {
	rec := command.NewRecorder()
	cam := testCamera("Broken")
	cam.Frustum.Far = 0
	NewCameraRenderer().Render(rec, cam, demoScene(), defaultSettings())

	if len(rec.Executed()) != 0 || rec.Submits() != 0 {
		t.Errorf("invalid camera recorded %d commands", len(rec.Executed()))
	}
}

func TestRenderWithoutShadowedLights(t *testing.T) {
	rec := command.NewRecorder()
	NewCameraRenderer().Render(rec, testCamera("Main"), testScene{}, defaultSettings())

	allocs := rec.Allocations()
	if len(allocs) != 1 || allocs[0].Width != 1 {
		t.Errorf("allocations = %+v, want a single 1x1 placeholder", allocs)
	}
}

func TestDevDiagnostics(t *testing.T) {
	rec := command.NewRecorder()
	r := NewCameraRenderer()
	r.SetDiagnostics(DevDiagnostics{Gizmos: true})
	r.Render(rec, testCamera("Scene View"), demoScene(), defaultSettings())

	var samples, errorDraws, gizmos int
	for _, c := range rec.Executed() {
		switch c := c.(type) {
		case command.BeginSample:
			if c.Name == "Scene View" {
				samples++
			}
		case command.DrawRenderers:
			if c.ErrorMaterial {
				errorDraws++
				if len(c.Passes) != len(legacyPasses) {
					t.Errorf("error draw passes = %v", c.Passes)
				}
			}
		case command.DrawGizmos:
			gizmos++
		}
	}
	if samples != 2 {
		t.Errorf("camera samples = %d, want 2", samples)
	}
	if errorDraws != 1 {
		t.Errorf("error material draws = %d, want 1", errorDraws)
	}
	if gizmos != 2 {
		t.Errorf("gizmo draws = %d, want 2", gizmos)
	}
}

func TestPipelineRendersEveryCamera(t *testing.T) {
	rec := command.NewRecorder()
	p := New(defaultSettings())
	p.Render(rec, []*Camera{testCamera("A"), testCamera("B")}, demoScene())

	if rec.Submits() != 2 {
		t.Errorf("submits = %d, want 2", rec.Submits())
	}
	if len(rec.Allocations()) != 2 {
		t.Errorf("atlas allocations = %d, want one per camera", len(rec.Allocations()))
	}
	if p.Renderer().Results() == nil {
		t.Error("renderer should keep the last culling results")
	}
}
