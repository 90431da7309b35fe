package shadow

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

func TestCullingFactor(t *testing.T) {
	tests := []struct {
		fade, want float32
	}{
		{0.9, 0},
		{0, 0.8},
		{0.5, 0.3},
		{0.8, 0},
		{0.1, 0.7},
	}
	for _, tt := range tests {
		if got := CullingFactor(tt.fade); !near(got, tt.want, 1e-6) {
			t.Errorf("CullingFactor(%v) = %v, want %v", tt.fade, got, tt.want)
		}
	}
}

func TestCascadeRange(t *testing.T) {
	ratios := [3]float32{0.1, 0.25, 0.5}
	tests := []struct {
		name              string
		index, count      int
		wantNear, wantFar float32
	}{
		{"first of four", 0, 4, 0.3, 10},
		{"second of four", 1, 4, 10, 25},
		{"last of four", 3, 4, 50, 100},
		{"single cascade", 0, 1, 0.3, 100},
		{"last of two", 1, 2, 10, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, f := cascadeRange(0.3, 100, tt.index, tt.count, ratios)
			if !near(n, tt.wantNear, 1e-5) || !near(f, tt.wantFar, 1e-5) {
				t.Errorf("range = [%f, %f], want [%f, %f]", n, f, tt.wantNear, tt.wantFar)
			}
		})
	}
}

func TestCascadeSpheresGrow(t *testing.T) {
	ratios := DefaultSettings().Directional.CascadeRatios()
	prev := float32(0)
	for i := 0; i < 4; i++ {
		s := CullingSphere(testFrustum(), 100, i, 4, ratios)
		if s.W <= prev {
			t.Errorf("cascade %d radius %f not larger than %f", i, s.W, prev)
		}
		prev = s.W
	}
}

func TestCascadeInnerSphere(t *testing.T) {
	light := dirLight(0.3, 1, 0.2)
	req := CascadeRequest{
		Frustum:        testFrustum(),
		ShadowDistance: 100,
		ToLight:        light.Direction,
		Count:          4,
		Ratios:         DefaultSettings().Directional.CascadeRatios(),
		TileSize:       512,
	}

	c0 := ComputeDirectionalCascade(req)
	if c0.Split.InnerSphere != (math.Vec4{}) {
		t.Errorf("cascade 0 inner sphere = %v, want zero", c0.Split.InnerSphere)
	}
	req.Index = 1
	c1 := ComputeDirectionalCascade(req)
	if c1.Split.InnerSphere != c0.Split.CullingSphere {
		t.Errorf("cascade 1 inner sphere = %v, want %v", c1.Split.InnerSphere, c0.Split.CullingSphere)
	}
}

func TestCascadeSnapsToTexels(t *testing.T) {
	light := dirLight(0.3, 1, 0.2)
	req := CascadeRequest{
		Frustum:        testFrustum(),
		ShadowDistance: 100,
		ToLight:        light.Direction,
		Count:          1,
		TileSize:       1024,
	}
	a := ComputeDirectionalCascade(req)

	// A sub-texel camera move must not move the light-space box.
	radius := a.Split.CullingSphere.W
	texel := 2 * radius / 1024
	req.Frustum.Position = req.Frustum.Position.Add(math.Vec3{X: texel * 0.01})
	b := ComputeDirectionalCascade(req)

	pa := b.View.TransformVec3(a.Center)
	pb := b.View.TransformVec3(b.Center)
	dx := pa.X - pb.X
	dy := pa.Y - pb.Y
	if !(near(dx, 0, 1e-3) || near(abs32(dx), texel, 1e-3)) || !(near(dy, 0, 1e-3) || near(abs32(dy), texel, 1e-3)) {
		t.Errorf("box moved by (%f, %f), want whole texels of %f", dx, dy, texel)
	}
}

func TestCascadeData(t *testing.T) {
	sphere := math.Vec4{X: 1, Y: 2, Z: 3, W: 10}
	cull, data := cascadeData(sphere, 512, PCF3x3)

	texel := float32(20.0 / 512)
	filterSize := texel * 2
	r := 10 - filterSize
	if cull.XYZ() != sphere.XYZ() {
		t.Errorf("center = %v, want %v", cull.XYZ(), sphere.XYZ())
	}
	if !near(cull.W, r*r, 1e-3) {
		t.Errorf("squared radius = %f, want %f", cull.W, r*r)
	}
	if !near(data.X, 1/(r*r), 1e-6) {
		t.Errorf("inverse squared radius = %f, want %f", data.X, 1/(r*r))
	}
	if !near(data.Y, filterSize*1.4142136, 1e-6) {
		t.Errorf("filter factor = %f, want %f", data.Y, filterSize*1.4142136)
	}
}

func TestConvertToAtlasMatrix(t *testing.T) {
	tests := []struct {
		name      string
		offset    math.Vec2
		split     int
		reversedZ bool
		clip      math.Vec3
		want      math.Vec3
	}{
		{"single tile center", math.Vec2{}, 1, false, math.Vec3{}, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
		{"single tile corner", math.Vec2{}, 1, false, math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{}},
		{"2x2 tile 0", math.Vec2{}, 2, false, math.Vec3{}, math.Vec3{X: 0.25, Y: 0.25, Z: 0.5}},
		{"2x2 tile 1", math.Vec2{X: 1}, 2, false, math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: 1, Y: 0.5, Z: 1}},
		{"4x4 tile 6", math.Vec2{X: 2, Y: 1}, 4, false, math.Vec3{}, math.Vec3{X: 0.625, Y: 0.375, Z: 0.5}},
		{"reversed z", math.Vec2{}, 1, true, math.Vec3{Z: 1}, math.Vec3{X: 0.5, Y: 0.5, Z: 0}},
		{"reversed z keeps xy", math.Vec2{X: 1}, 2, true, math.Vec3{X: -1, Z: -1}, math.Vec3{X: 0.5, Y: 0.25, Z: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ConvertToAtlasMatrix(math.Identity(), tt.offset, tt.split, tt.reversedZ)
			got := m.TransformVec3(tt.clip)
			if !near(got.X, tt.want.X, 1e-6) || !near(got.Y, tt.want.Y, 1e-6) || !near(got.Z, tt.want.Z, 1e-6) {
				t.Errorf("atlas(%v) = %v, want %v", tt.clip, got, tt.want)
			}
		})
	}
}

func TestRenderUsesReversedZ(t *testing.T) {
	light := dirLight(0, 1, 0)
	settings := DefaultSettings()

	normal := New()
	runFrame(normal, command.NewRecorder(), []culling.Light{light}, settings)
	rec := command.NewRecorder()
	rec.ReversedZ = true
	reversed := New()
	runFrame(reversed, rec, []culling.Light{light}, settings)

	a := normal.State().Matrices[0]
	b := reversed.State().Matrices[0]
	if a.Row(0) != b.Row(0) || a.Row(1) != b.Row(1) {
		t.Error("reversed z should only change the depth row")
	}
	if a.Row(2) == b.Row(2) {
		t.Error("reversed z should change the depth row")
	}
}

func TestKeywordsOneHot(t *testing.T) {
	filters := []FilterMode{PCF2x2, PCF3x3, PCF5x5, PCF7x7}
	blends := []CascadeBlendMode{BlendHard, BlendSoft, BlendDither}

	for _, f := range filters {
		for _, b := range blends {
			rec := command.NewRecorder()
			settings := DefaultSettings()
			settings.Directional.Filter = f
			settings.Directional.CascadeBlend = b
			runFrame(New(), rec, []culling.Light{dirLight(0, 1, 0)}, settings)

			g := rec.Globals()
			wantFilters := 0
			if f != PCF2x2 {
				wantFilters = 1
			}
			if got := countEnabled(g, directionalFilterKeywords); got != wantFilters {
				t.Errorf("%v/%v: %d filter keywords enabled, want %d", f, b, got, wantFilters)
			}
			if f != PCF2x2 && !g.KeywordEnabled(directionalFilterKeywords[f-1]) {
				t.Errorf("%v: keyword %s not enabled", f, directionalFilterKeywords[f-1])
			}

			wantBlends := 0
			if b != BlendHard {
				wantBlends = 1
			}
			if got := countEnabled(g, cascadeBlendKeywords); got != wantBlends {
				t.Errorf("%v/%v: %d blend keywords enabled, want %d", f, b, got, wantBlends)
			}

			if got := EnabledKeywords(f, b); len(got) != wantFilters+wantBlends {
				t.Errorf("EnabledKeywords(%v, %v) = %v", f, b, got)
			}
		}
	}
}

func countEnabled(g *command.Globals, keywords []string) int {
	n := 0
	for _, k := range keywords {
		if g.KeywordEnabled(k) {
			n++
		}
	}
	return n
}

func TestSettingsYAML(t *testing.T) {
	in := `
max_distance: 150
distance_fade: 0.2
directional:
  atlas_size: 2048
  cascade_count: 2
  cascade_ratio_1: 0.3
  cascade_fade: 0.25
  filter: pcf5x5
  cascade_blend: dither
`
	var s Settings
	if err := yaml.Unmarshal([]byte(in), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if s.MaxDistance != 150 || s.Directional.AtlasSize != Map2048 || s.Directional.CascadeCount != 2 {
		t.Errorf("settings = %+v", s)
	}
	if s.Directional.Filter != PCF5x5 {
		t.Errorf("filter = %v, want pcf5x5", s.Directional.Filter)
	}
	if s.Directional.CascadeBlend != BlendDither {
		t.Errorf("blend = %v, want dither", s.Directional.CascadeBlend)
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back Settings
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal round trip: %v", err)
	}
	if back != s {
		t.Errorf("round trip = %+v, want %+v", back, s)
	}
}

func TestSettingsYAMLRejectsUnknownMode(t *testing.T) {
	var s Settings
	if err := yaml.Unmarshal([]byte("directional:\n  filter: box\n"), &s); err == nil {
		t.Error("expected error for unknown filter")
	}
	if err := yaml.Unmarshal([]byte("directional:\n  cascade_blend: smooth\n"), &s); err == nil {
		t.Error("expected error for unknown blend mode")
	}
}

func TestParseFilterMode(t *testing.T) {
	for in, want := range map[string]FilterMode{"pcf2x2": PCF2x2, "3x3": PCF3x3, "PCF7x7": PCF7x7, " 5x5 ": PCF5x5} {
		got, err := ParseFilterMode(in)
		if err != nil || got != want {
			t.Errorf("ParseFilterMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Directional.AtlasSize != Map1024 || s.Directional.CascadeCount != 4 ||
		s.Directional.CascadeRatios() != [3]float32{0.1, 0.25, 0.5} ||
		s.MaxDistance != 100 || s.DistanceFade != 0.1 || s.Directional.CascadeFade != 0.1 {
		t.Errorf("DefaultSettings = %+v", s)
	}
}
