package shadow

import (
	"testing"

	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

type casterList []culling.AABB

func (c casterList) ShadowCasters() []culling.AABB { return c }

// testFrustum looks down -Z from slightly above the ground.
func testFrustum() camera.Frustum {
	return camera.Frustum{
		FieldOfView: 1.0471976,
		Near:        0.3,
		Far:         1000,
		Aspect:      16.0 / 9.0,
		Position:    math.Vec3{Y: 2},
		Right:       math.Vec3{X: 1},
		Up:          math.Vec3{Y: 1},
		Forward:     math.Vec3{Z: -1},
	}
}

func testCasters() casterList {
	return casterList{
		{Min: math.Vec3{X: -20, Y: -1, Z: -80}, Max: math.Vec3{X: 20, Y: 0, Z: 0}},
		{Min: math.Vec3{X: -1, Y: 0, Z: -11}, Max: math.Vec3{X: 1, Y: 3, Z: -9}},
	}
}

func dirLight(x, y, z float32) culling.Light {
	return culling.Light{
		Type:            culling.LightDirectional,
		Direction:       math.Vec3{X: x, Y: y, Z: z}.Normalize(),
		Shadows:         culling.ShadowsHard,
		ShadowStrength:  1,
		ShadowBias:      1,
		ShadowNormal:    0.5,
		ShadowNearPlane: 0.2,
	}
}

// runFrame runs Setup, reserves every light in order, and renders.
func runFrame(s *Shadows, ctx command.Context, lights []culling.Light, settings Settings) []ShadowData {
	results := culling.Cull(testFrustum(), lights, testCasters(), settings.MaxDistance)
	s.Setup(ctx, results, settings)
	out := make([]ShadowData, len(lights))
	for i, l := range lights {
		out[i] = s.Reserve(l, i)
	}
	s.Render()
	return out
}

func near(a, b, eps float32) bool {
	d := a - b
	return d < eps && d > -eps
}

func TestLayout(t *testing.T) {
	tests := []struct {
		lights, cascades int
		wantSplit        int
		wantTile         int
	}{
		{1, 1, 1, 1024},
		{1, 2, 2, 512},
		{2, 2, 2, 512},
		{1, 4, 2, 512},
		{4, 1, 2, 512},
		{3, 2, 4, 256},
		{1, 3, 2, 512},
		{2, 4, 4, 256},
		{4, 4, 4, 256},
		{0, 4, 1, 1024},
	}

	for _, tt := range tests {
		l := NewLayout(1024, tt.lights*tt.cascades)
		if l.Split != tt.wantSplit || l.TileSize != tt.wantTile {
			t.Errorf("lights=%d cascades=%d: split=%d tile=%d, want split=%d tile=%d",
				tt.lights, tt.cascades, l.Split, l.TileSize, tt.wantSplit, tt.wantTile)
		}
	}
}

func TestLayoutCoversAtlas(t *testing.T) {
	for _, split := range []int{1, 2, 4} {
		tiles := split * split
		l := NewLayout(2048, tiles)
		if l.Split != split {
			t.Fatalf("tiles=%d: split = %d, want %d", tiles, l.Split, split)
		}

		var area float32
		for i := 0; i < tiles; i++ {
			a := l.Viewport(i)
			area += a.Width * a.Height
			if a.X < 0 || a.Y < 0 || a.X+a.Width > 2048 || a.Y+a.Height > 2048 {
				t.Errorf("tile %d outside the atlas: %+v", i, a)
			}
			for j := i + 1; j < tiles; j++ {
				if a.Overlaps(l.Viewport(j)) {
					t.Errorf("tiles %d and %d overlap", i, j)
				}
			}
		}
		if area != 2048*2048 {
			t.Errorf("split=%d: covered area = %f, want %d", split, area, 2048*2048)
		}
	}
}

func TestViewportGrid(t *testing.T) {
	l := NewLayout(1024, 16)
	got := l.Viewport(6)
	want := command.Rect{X: 512, Y: 256, Width: 256, Height: 256}
	if got != want {
		t.Errorf("Viewport(6) = %+v, want %+v", got, want)
	}
}

func TestReserveCapacity(t *testing.T) {
	lights := []culling.Light{
		dirLight(0, 1, 0), dirLight(1, 1, 0), dirLight(0, 1, 1), dirLight(-1, 1, 0), dirLight(0, 1, -1),
	}
	s := New()
	got := runFrame(s, command.NewRecorder(), lights, DefaultSettings())

	for i := 0; i < 4; i++ {
		if got[i].Strength != 1 {
			t.Errorf("light %d rejected", i)
		}
		if got[i].TileIndex != i*4 {
			t.Errorf("light %d TileIndex = %d, want %d", i, got[i].TileIndex, i*4)
		}
		if got[i].NormalBias != 0.5 {
			t.Errorf("light %d NormalBias = %f, want 0.5", i, got[i].NormalBias)
		}
	}
	if got[4] != (ShadowData{}) {
		t.Errorf("fifth light = %+v, want zero", got[4])
	}
	if s.ReservedLights() != 4 {
		t.Errorf("ReservedLights = %d, want 4", s.ReservedLights())
	}
}

func TestReserveRejections(t *testing.T) {
	noShadows := dirLight(0, 1, 0)
	noShadows.Shadows = culling.ShadowsNone
	zeroStrength := dirLight(0, 1, 0)
	zeroStrength.ShadowStrength = 0
	negStrength := dirLight(0, 1, 0)
	negStrength.ShadowStrength = -1
	soft := dirLight(0, 1, 0)
	soft.Shadows = culling.ShadowsSoft

	tests := []struct {
		name    string
		light   culling.Light
		casters casterList
		want    bool
	}{
		{"hard shadows", dirLight(0, 1, 0), testCasters(), true},
		{"soft shadows", soft, testCasters(), true},
		{"shadows disabled", noShadows, testCasters(), false},
		{"zero strength", zeroStrength, testCasters(), false},
		{"negative strength", negStrength, testCasters(), false},
		{"no casters", dirLight(0, 1, 0), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			results := culling.Cull(testFrustum(), []culling.Light{tt.light}, tt.casters, settings.MaxDistance)
			s := New()
			s.Setup(command.NewRecorder(), results, settings)

			got := s.Reserve(tt.light, 0)
			if (got != ShadowData{}) != tt.want {
				t.Errorf("Reserve = %+v, want reserved=%v", got, tt.want)
			}
		})
	}
}

func TestSetupResetsReservations(t *testing.T) {
	s := New()
	settings := DefaultSettings()
	runFrame(s, command.NewRecorder(), []culling.Light{dirLight(0, 1, 0)}, settings)

	got := runFrame(s, command.NewRecorder(), []culling.Light{dirLight(1, 1, 0)}, settings)
	if got[0].TileIndex != 0 || got[0].Strength == 0 {
		t.Errorf("first light of a new frame = %+v, want tile 0", got[0])
	}
}

func TestCullingSpheresIndependentOfLight(t *testing.T) {
	a := dirLight(0.3, 1, 0.2)
	b := dirLight(-0.8, 0.4, 0.5)
	b.ShadowNearPlane = 3

	settings := DefaultSettings()
	sa := New()
	runFrame(sa, command.NewRecorder(), []culling.Light{a, b}, settings)
	sb := New()
	runFrame(sb, command.NewRecorder(), []culling.Light{b, a}, settings)

	if sa.State().CullingSpheres != sb.State().CullingSpheres {
		t.Errorf("culling spheres differ:\n%v\n%v", sa.State().CullingSpheres, sb.State().CullingSpheres)
	}
	if sa.State().CascadeData != sb.State().CascadeData {
		t.Errorf("cascade data differ")
	}
}

func TestTileZeroMapsCenterToAtlas(t *testing.T) {
	settings := DefaultSettings()
	settings.Directional.AtlasSize = Map1024
	settings.Directional.CascadeCount = 4
	light := dirLight(0.3, 1, 0.2)

	s := New()
	runFrame(s, command.NewRecorder(), []culling.Light{light}, settings)

	c := ComputeDirectionalCascade(CascadeRequest{
		Frustum:         testFrustum(),
		ShadowDistance:  settings.MaxDistance,
		ToLight:         light.Direction,
		Index:           0,
		Count:           4,
		Ratios:          settings.Directional.CascadeRatios(),
		TileSize:        512,
		NearPlaneOffset: light.ShadowNearPlane,
	})

	p := s.State().Matrices[0].TransformVec3(c.Center)
	if !near(p.X, 0.25, 1e-4) || !near(p.Y, 0.25, 1e-4) {
		t.Errorf("center maps to (%f, %f), want (0.25, 0.25)", p.X, p.Y)
	}
	if p.Z < 0 || p.Z > 1 {
		t.Errorf("center depth = %f, want within [0, 1]", p.Z)
	}

	// Tile 3 of the same 2x2 grid sits in the top-right quadrant.
	p = s.State().Matrices[3].TransformVec3(centerOf(testFrustum(), settings, light, 3))
	if !near(p.X, 0.75, 1e-4) || !near(p.Y, 0.75, 1e-4) {
		t.Errorf("tile 3 center maps to (%f, %f), want (0.75, 0.75)", p.X, p.Y)
	}
}

func centerOf(f camera.Frustum, settings Settings, light culling.Light, cascade int) math.Vec3 {
	return ComputeDirectionalCascade(CascadeRequest{
		Frustum:         f,
		ShadowDistance:  settings.MaxDistance,
		ToLight:         light.Direction,
		Index:           cascade,
		Count:           settings.Directional.CascadeCount,
		Ratios:          settings.Directional.CascadeRatios(),
		TileSize:        NewLayout(int(settings.Directional.AtlasSize), settings.Directional.CascadeCount).TileSize,
		NearPlaneOffset: light.ShadowNearPlane,
	}).Center
}

func TestFallbackLeavesArraysUntouched(t *testing.T) {
	s := New()
	settings := DefaultSettings()
	runFrame(s, command.NewRecorder(), []culling.Light{dirLight(0, 1, 0)}, settings)
	before := s.State()

	rec := command.NewRecorder()
	runFrame(s, rec, nil, settings)

	allocs := rec.Allocations()
	if len(allocs) != 1 || allocs[0].Width != 1 || allocs[0].Height != 1 {
		t.Fatalf("allocations = %+v, want one 1x1 texture", allocs)
	}
	if allocs[0].Name != DirShadowAtlas || allocs[0].DepthBits != 32 {
		t.Errorf("placeholder = %+v", allocs[0])
	}
	for _, c := range rec.Executed() {
		switch c.(type) {
		case command.SetGlobalMatrixArray, command.SetGlobalVectorArray, command.DrawShadows:
			t.Errorf("fallback recorded %T", c)
		}
	}
	if s.State() != before {
		t.Error("fallback modified published arrays")
	}
}

func TestStateKeepsPublishedCascadeCount(t *testing.T) {
	s := New()
	if got := s.State().CascadeCount; got != 0 {
		t.Errorf("initial cascade count = %d, want 0", got)
	}

	settings := DefaultSettings()
	runFrame(s, command.NewRecorder(), []culling.Light{dirLight(0, 1, 0)}, settings)
	if got := s.State().CascadeCount; got != 4 {
		t.Fatalf("cascade count = %d, want 4", got)
	}

	settings.Directional.CascadeCount = 2
	runFrame(s, command.NewRecorder(), nil, settings)
	if got := s.State().CascadeCount; got != 4 {
		t.Errorf("cascade count after placeholder frame = %d, want 4", got)
	}

	runFrame(s, command.NewRecorder(), []culling.Light{dirLight(0, 1, 0)}, settings)
	if got := s.State().CascadeCount; got != 2 {
		t.Errorf("cascade count after shadowed frame = %d, want 2", got)
	}
}

func TestCleanupReleasesAtlas(t *testing.T) {
	for _, lights := range [][]culling.Light{nil, {dirLight(0, 1, 0)}} {
		rec := command.NewRecorder()
		s := New()
		runFrame(s, rec, lights, DefaultSettings())
		if rec.LiveTextures() != 1 {
			t.Fatalf("lights=%d: live textures before cleanup = %d, want 1", len(lights), rec.LiveTextures())
		}
		s.Cleanup()
		if rec.LiveTextures() != 0 {
			t.Errorf("lights=%d: live textures after cleanup = %d, want 0", len(lights), rec.LiveTextures())
		}
	}
}

func TestRenderPublishesGlobals(t *testing.T) {
	rec := command.NewRecorder()
	settings := DefaultSettings()
	settings.Directional.CascadeCount = 3
	runFrame(New(), rec, []culling.Light{dirLight(0, 1, 0)}, settings)

	g := rec.Globals()
	if g.Ints[CascadeCountName] != 3 {
		t.Errorf("cascade count = %d, want 3", g.Ints[CascadeCountName])
	}
	if got := len(g.MatrixArrays[DirShadowMatrices]); got != MaxTiles {
		t.Errorf("matrix array length = %d, want %d", got, MaxTiles)
	}
	if got := len(g.VectorArrays[CascadeCullingSpheres]); got != MaxCascades {
		t.Errorf("sphere array length = %d, want %d", got, MaxCascades)
	}

	f := 1 - settings.Directional.CascadeFade
	fade := g.Vectors[ShadowDistanceFadeName]
	if !near(fade.X, 1/settings.MaxDistance, 1e-6) || !near(fade.Y, 1/settings.DistanceFade, 1e-4) ||
		!near(fade.Z, 1/(1-f*f), 1e-4) {
		t.Errorf("distance fade = %+v", fade)
	}
	if size := g.Vectors[ShadowAtlasSizeName]; size.X != 1024 || size.Y != 1.0/1024 {
		t.Errorf("atlas size = %+v", size)
	}

	tex, ok := rec.Texture(DirShadowAtlas)
	if !ok || tex.Width != 1024 || tex.Format != command.FormatShadowmap {
		t.Errorf("atlas = %+v, ok=%v", tex, ok)
	}
}

func TestRenderCommandOrder(t *testing.T) {
	rec := command.NewRecorder()
	settings := DefaultSettings()
	settings.Directional.CascadeCount = 1
	runFrame(New(), rec, []culling.Light{dirLight(0, 1, 0)}, settings)

	var got []string
	for _, c := range rec.Executed() {
		switch c := c.(type) {
		case command.GetTemporaryRT:
			got = append(got, "get")
		case command.SetRenderTarget:
			got = append(got, "target")
		case command.ClearRenderTarget:
			got = append(got, "clear")
		case command.BeginSample:
			got = append(got, "begin")
		case command.SetViewport:
			got = append(got, "viewport")
		case command.SetViewProjectionMatrices:
			got = append(got, "matrices")
		case command.SetGlobalDepthBias:
			if c.SlopeBias != 0 {
				got = append(got, "bias")
			} else {
				got = append(got, "unbias")
			}
		case command.DrawShadows:
			got = append(got, "draw")
		case command.EndSample:
			got = append(got, "end")
		}
	}

	want := []string{"get", "target", "clear", "begin", "viewport", "matrices", "bias", "draw", "unbias", "end"}
	if len(got) != len(want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDrawShadowsCarriesCullingFactor(t *testing.T) {
	rec := command.NewRecorder()
	settings := DefaultSettings()
	settings.Directional.CascadeFade = 0.5
	runFrame(New(), rec, []culling.Light{dirLight(0, 1, 0)}, settings)

	var draws int
	for _, c := range rec.Executed() {
		d, ok := c.(command.DrawShadows)
		if !ok {
			continue
		}
		draws++
		if !near(d.Split.CascadeBlendCullingFactor, 0.3, 1e-6) {
			t.Errorf("culling factor = %f, want 0.3", d.Split.CascadeBlendCullingFactor)
		}
	}
	if draws != 4 {
		t.Errorf("draws = %d, want 4", draws)
	}
}

type recordingDiagnostics struct {
	frames []FrameInfo
}

func (r *recordingDiagnostics) ShadowsRendered(f FrameInfo) {
	f.Tiles = append([]TileInfo(nil), f.Tiles...)
	r.frames = append(r.frames, f)
}

func TestDiagnostics(t *testing.T) {
	diag := &recordingDiagnostics{}
	s := New()
	s.SetDiagnostics(diag)

	runFrame(s, command.NewRecorder(), []culling.Light{dirLight(0, 1, 0), dirLight(1, 1, 0)}, DefaultSettings())
	runFrame(s, command.NewRecorder(), nil, DefaultSettings())

	if len(diag.frames) != 2 {
		t.Fatalf("frames = %d, want 2", len(diag.frames))
	}
	f := diag.frames[0]
	if f.Fallback || len(f.Tiles) != 8 || f.Layout.Split != 4 {
		t.Errorf("frame 0 = %+v", f)
	}
	if f.Tiles[5].LightSlot != 1 || f.Tiles[5].Cascade != 1 {
		t.Errorf("tile 5 = %+v", f.Tiles[5])
	}
	if !diag.frames[1].Fallback {
		t.Error("frame 1 should be the placeholder")
	}

	s.SetDiagnostics(nil)
	runFrame(s, command.NewRecorder(), nil, DefaultSettings())
	if len(diag.frames) != 2 {
		t.Error("unbound diagnostics still called")
	}
}

func TestCapture(t *testing.T) {
	c := &Capture{}
	s := New()
	s.SetDiagnostics(c)
	runFrame(s, command.NewRecorder(), []culling.Light{dirLight(0, 1, 0)}, DefaultSettings())

	if len(c.Frame.Tiles) != 4 {
		t.Fatalf("captured tiles = %d, want 4", len(c.Frame.Tiles))
	}
	c.Frame.Tiles[0].Cascade = 99
	runFrame(s, command.NewRecorder(), []culling.Light{dirLight(0, 1, 0)}, DefaultSettings())
	if c.Frame.Tiles[0].Cascade != 0 {
		t.Error("capture should be replaced by the next frame")
	}
}
