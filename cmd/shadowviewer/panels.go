package main

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/midgard-csm/internal/config"
	"github.com/Faultbox/midgard-csm/internal/engine/debug"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/internal/engine/ui"
)

// renderSettingsPanel edits the live shadow settings.
func (app *App) renderSettingsPanel() {
	s := &app.render.Pipeline.Settings.Shadows
	d := &s.Directional
	changed := false

	if imgui.TreeNodeExStrV("Shadows", imgui.TreeNodeFlagsDefaultOpen) {
		changed = imgui.SliderFloatV("Max Distance", &s.MaxDistance, 1, 500, "%.0f", imgui.SliderFlagsNone) || changed
		changed = imgui.SliderFloatV("Distance Fade", &s.DistanceFade, 0.001, 1, "%.3f", imgui.SliderFlagsNone) || changed
		imgui.TreePop()
	}

	if imgui.TreeNodeExStrV("Directional", imgui.TreeNodeFlagsDefaultOpen) {
		atlas := atlasIndex(d.AtlasSize)
		if imgui.SliderIntV("Atlas", &atlas, 0, int32(len(shadow.MapSizes)-1), fmt.Sprintf("%d", atlasAt(atlas)), imgui.SliderFlagsNone) {
			d.AtlasSize = atlasAt(atlas)
			changed = true
		}

		filter := int32(d.Filter)
		if imgui.SliderIntV("Filter", &filter, 0, int32(len(filterLabels)-1), label(filterLabels, int(filter)), imgui.SliderFlagsNone) {
			d.Filter = shadow.FilterMode(filter)
			changed = true
		}

		cascades := int32(d.CascadeCount)
		if imgui.SliderIntV("Cascades", &cascades, 1, shadow.MaxCascades, "%d", imgui.SliderFlagsNone) {
			d.CascadeCount = int(cascades)
			changed = true
		}

		// Ratios past the cascade count are unused.
		if d.CascadeCount > 1 {
			changed = imgui.SliderFloatV("Ratio 1", &d.CascadeRatio1, 0, 1, "%.3f", imgui.SliderFlagsNone) || changed
		}
		if d.CascadeCount > 2 {
			changed = imgui.SliderFloatV("Ratio 2", &d.CascadeRatio2, 0, 1, "%.3f", imgui.SliderFlagsNone) || changed
		}
		if d.CascadeCount > 3 {
			changed = imgui.SliderFloatV("Ratio 3", &d.CascadeRatio3, 0, 1, "%.3f", imgui.SliderFlagsNone) || changed
		}
		if !(d.CascadeRatio1 <= d.CascadeRatio2 && d.CascadeRatio2 <= d.CascadeRatio3) {
			imgui.TextColored(imgui.NewVec4(1, 0.8, 0, 1), "Warning: ratios not increasing")
		}

		changed = imgui.SliderFloatV("Cascade Fade", &d.CascadeFade, 0.001, 1, "%.3f", imgui.SliderFlagsNone) || changed

		blend := int32(d.CascadeBlend)
		if imgui.SliderIntV("Blend", &blend, 0, int32(len(blendLabels)-1), label(blendLabels, int(blend)), imgui.SliderFlagsNone) {
			d.CascadeBlend = shadow.CascadeBlendMode(blend)
			changed = true
		}
		imgui.TreePop()
	}

	if changed {
		*s = config.ClampShadows(*s)
		app.cfg.Shadows = *s
		app.atlasDirty = true
	}

	imgui.Separator()
	gizmos := app.cfg.Pipeline.Gizmos
	if imgui.Checkbox("Gizmos", &gizmos) {
		app.setGizmos(gizmos)
	}
	if imgui.IsItemHovered() {
		imgui.SetTooltip("Caster bounds and cascade culling spheres")
	}
	imgui.Checkbox("Batching", &app.render.Pipeline.Settings.DynamicBatching)
	imgui.SameLine()
	imgui.Checkbox("Instancing", &app.render.Pipeline.Settings.Instancing)

	if imgui.Button("Reset Shadows") {
		app.render.Pipeline.Settings.Shadows = shadow.DefaultSettings()
		app.cfg.Shadows = shadow.DefaultSettings()
		app.atlasDirty = true
	}
	imgui.SameLine()
	if imgui.Button("Reset Camera") {
		app.resetCamera()
	}

	imgui.Separator()
	imgui.Text("Keywords:")
	keywords := app.render.Context.Globals().Keywords()
	if len(keywords) == 0 {
		imgui.TextDisabled("(none)")
	} else {
		imgui.TextWrapped(strings.Join(keywords, " "))
	}

	imgui.Separator()
	imgui.Text("Profiler:")
	for _, sample := range app.render.Context.Profiler().Frame() {
		imgui.Text(fmt.Sprintf("%s%s  %.3f ms", strings.Repeat("  ", sample.Depth), sample.Name,
			float64(sample.Duration.Microseconds())/1000))
	}
}

// renderAtlasPanel shows the depth atlas with its tile grid and inspects the
// tile under the mouse.
func (app *App) renderAtlasPanel() {
	frame := app.frame.Frame
	if frame.Fallback {
		imgui.TextDisabled("No shadowed lights: 1x1 placeholder atlas")
		return
	}
	imgui.Text(fmt.Sprintf("%dx%d, split %d, tile %d", frame.Layout.AtlasSize, frame.Layout.AtlasSize,
		frame.Layout.Split, frame.Layout.TileSize))
	imgui.Text(fmt.Sprintf("%d lights x %d cascades", frame.Lights, frame.Cascades))

	imgui.Checkbox("Live", &app.atlasLive)
	if imgui.IsItemHovered() {
		imgui.SetTooltip("Read the atlas back every frame")
	}
	imgui.SameLine()
	if imgui.Button("Refresh") {
		app.atlasDirty = true
	}
	imgui.SameLine()
	imgui.Checkbox("BMP", &app.captureBMP)

	if app.atlasTexture == 0 {
		imgui.TextDisabled("No preview yet")
		return
	}

	size := imgui.ContentRegionAvail().X
	origin := imgui.CursorScreenPos()
	imgui.ImageWithBgV(
		ui.TextureRef(app.atlasTexture),
		imgui.NewVec2(size, size),
		imgui.NewVec2(0, 0),
		imgui.NewVec2(1, 1),
		imgui.NewVec4(0.2, 0.2, 0.2, 1.0),
		imgui.NewVec4(1, 1, 1, 1),
	)

	if imgui.IsItemHovered() {
		mouse := imgui.MousePos()
		if tile, ok := debug.TileAt(frame, size, mouse.X-origin.X, mouse.Y-origin.Y); ok {
			t := summarize(tile)
			imgui.SetTooltip(fmt.Sprintf("Tile %d\nLight %d, cascade %d\nSphere radius %.2f\nViewport (%.0f, %.0f) %.0f",
				t.Index, t.Light, t.Cascade, t.Radius, t.X, t.Y, t.Size))
		}
	}

	imgui.Separator()
	state := app.render.Pipeline.Renderer().Shadows().State()
	for i := 0; i < state.CascadeCount && i < shadow.MaxCascades; i++ {
		c := debug.CascadeColor(i)
		sphere := state.CullingSpheres[i]
		imgui.TextColored(imgui.NewVec4(c[0], c[1], c[2], c[3]),
			fmt.Sprintf("Cascade %d: r^2 %.1f at (%.1f, %.1f, %.1f)", i, sphere.W, sphere.X, sphere.Y, sphere.Z))
	}

	app.renderSelection()
}

// renderSelection describes the box picked in the viewport.
func (app *App) renderSelection() {
	imgui.Separator()
	s := app.render.Scene.Scene()
	if app.selected < 0 || app.selected >= len(s.Boxes) {
		imgui.TextDisabled("Right-click a box to inspect it")
		return
	}
	b := s.Boxes[app.selected]
	name := b.Name
	if name == "" {
		name = fmt.Sprintf("box %d", app.selected)
	}
	imgui.Text(fmt.Sprintf("Selected: %s", name))
	imgui.Text(fmt.Sprintf("Casts shadows: %v, transparent: %v", b.Casts(), b.Transparent))
	tiles := casterTiles(s, app.frame.Frame, app.selected)
	if len(tiles) == 0 {
		imgui.TextDisabled("Not drawn into any tile")
		return
	}
	imgui.TextWrapped(fmt.Sprintf("Drawn into tiles %v", tiles))
}
