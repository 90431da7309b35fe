package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

func TestRenderFrameDefaultScene(t *testing.T) {
	report, err := renderFrame(defaultFrameOptions())
	if err != nil {
		t.Fatalf("renderFrame: %v", err)
	}

	if report.Fallback {
		t.Fatal("default scene should reserve shadowed lights")
	}
	if report.Lights < 1 {
		t.Fatalf("lights = %d, want at least 1", report.Lights)
	}
	if len(report.Tiles) != report.Lights*report.Cascades {
		t.Errorf("tiles = %d, want %d", len(report.Tiles), report.Lights*report.Cascades)
	}
	if report.Layout.AtlasSize != int(shadow.Map1024) {
		t.Errorf("atlas = %d, want 1024", report.Layout.AtlasSize)
	}
	if want := shadow.Split(len(report.Tiles)); report.Layout.Split != want {
		t.Errorf("split = %d, want %d", report.Layout.Split, want)
	}
	if len(report.Spheres) != report.Cascades {
		t.Errorf("spheres = %d, want %d", len(report.Spheres), report.Cascades)
	}
	if len(report.ShadowData) != report.Lights {
		t.Errorf("shadow data entries = %d, want %d", len(report.ShadowData), report.Lights)
	}
	if report.Leaked != 0 {
		t.Errorf("%d temporary textures leaked", report.Leaked)
	}
	if report.Submits != 1 {
		t.Errorf("submits = %d, want 1", report.Submits)
	}
}

func TestRenderFrameKeywords(t *testing.T) {
	opts := defaultFrameOptions()
	opts.Settings.Directional.Filter = shadow.PCF5x5
	opts.Settings.Directional.CascadeBlend = shadow.BlendSoft

	report, err := renderFrame(opts)
	if err != nil {
		t.Fatalf("renderFrame: %v", err)
	}
	got := strings.Join(report.Keywords, ",")
	for _, want := range []string{"_DIRECTIONAL_PCF5", "_CASCADE_BLEND_SOFT"} {
		if !strings.Contains(got, want) {
			t.Errorf("keywords %v missing %s", report.Keywords, want)
		}
	}
}

func TestRenderFrameNoShadows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := `
name: unlit
boxes:
  - position: [0, 1, 0]
    size: [1, 2, 1]
    color: [1, 1, 1]
lights:
  - color: [1, 1, 1]
    intensity: 1
    direction: [0, 1, 0]
    shadows: none
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	opts := defaultFrameOptions()
	opts.ScenePath = path

	report, err := renderFrame(opts)
	if err != nil {
		t.Fatalf("renderFrame: %v", err)
	}
	if !report.Fallback {
		t.Error("expected the placeholder atlas")
	}
	if report.Layout.AtlasSize != 1 || len(report.Tiles) != 0 {
		t.Errorf("fallback layout = %+v with %d tiles", report.Layout, len(report.Tiles))
	}
}

func TestRenderFrameErrors(t *testing.T) {
	opts := defaultFrameOptions()
	opts.Width = 0
	if _, err := renderFrame(opts); err == nil {
		t.Error("expected error for zero width")
	}

	opts = defaultFrameOptions()
	opts.ScenePath = "/nonexistent/scene.yaml"
	if _, err := renderFrame(opts); err == nil {
		t.Error("expected error for missing scene")
	}
}

func TestReportYAML(t *testing.T) {
	report, err := renderFrame(defaultFrameOptions())
	if err != nil {
		t.Fatalf("renderFrame: %v", err)
	}
	out, err := yaml.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back map[string]interface{}
	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}
	spheres, ok := back["culling_spheres"].([]interface{})
	if !ok || len(spheres) != report.Cascades {
		t.Fatalf("culling_spheres = %v", back["culling_spheres"])
	}
	if s, ok := spheres[0].([]interface{}); !ok || len(s) != 4 {
		t.Errorf("sphere = %v, want four components", spheres[0])
	}
}
