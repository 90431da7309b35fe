// Package pipeline renders cameras: culling, lighting and shadows, then the
// opaque, sky and transparent geometry, all recorded into command buffers.
package pipeline

import (
	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/internal/engine/lighting"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

const bufferName = "Render Camera"

// Shader passes drawn as scene geometry.
const (
	UnlitPass = "SRPDefaultUnlit"
	LitPass   = "CustomLit"
)

// Scene is the geometry and lights rendered by every camera.
type Scene interface {
	culling.CasterSource
	Lights() []culling.Light
}

// Settings configures a pipeline.
type Settings struct {
	DynamicBatching bool            `yaml:"dynamic_batching"`
	Instancing      bool            `yaml:"instancing"`
	Shadows         shadow.Settings `yaml:"-"`
}

// CameraRenderer renders one camera at a time and keeps its buffers across frames.
type CameraRenderer struct {
	buffer   *command.Buffer
	lighting *lighting.Lighting
	diag     Diagnostics

	sampleName string
	results    *culling.Results
}

// NewCameraRenderer creates a renderer with production diagnostics.
func NewCameraRenderer() *CameraRenderer {
	return &CameraRenderer{
		buffer:   command.NewBuffer(bufferName),
		lighting: lighting.New(nil),
		diag:     NopDiagnostics{},
	}
}

// SetDiagnostics binds development diagnostics. nil restores the no-op.
func (r *CameraRenderer) SetDiagnostics(d Diagnostics) {
	if d == nil {
		d = NopDiagnostics{}
	}
	r.diag = d
}

// Shadows returns the shadow subsystem used by the renderer.
func (r *CameraRenderer) Shadows() *shadow.Shadows {
	return r.lighting.Shadows()
}

// Results returns the culling results of the last rendered camera.
func (r *CameraRenderer) Results() *culling.Results {
	return r.results
}

// Render records a full frame for cam. Cameras without a usable projection are skipped.
func (r *CameraRenderer) Render(ctx command.Context, cam *Camera, scene Scene, settings Settings) {
	r.sampleName = r.diag.SampleName(cam)
	r.buffer.Name = r.sampleName

	if !r.cull(cam, scene, settings.Shadows.MaxDistance) {
		return
	}

	r.buffer.BeginSample(r.sampleName)
	r.executeBuffer(ctx)
	r.lighting.Setup(ctx, r.results, settings.Shadows)
	r.buffer.EndSample(r.sampleName)

	r.setupCamera(cam)
	r.buffer.BeginSample(r.sampleName)
	r.executeBuffer(ctx)

	r.drawVisibleGeometry(settings)
	r.diag.DrawUnsupportedShaders(r.buffer, cam)
	r.diag.DrawGizmos(r.buffer, cam)

	r.lighting.Cleanup()

	r.buffer.EndSample(r.sampleName)
	r.executeBuffer(ctx)
	ctx.Submit()
}

func (r *CameraRenderer) cull(cam *Camera, scene Scene, maxShadowDistance float32) bool {
	if !cam.valid() {
		return false
	}
	var lights []culling.Light
	var casters culling.CasterSource
	if scene != nil {
		lights = scene.Lights()
		casters = scene
	}
	r.results = culling.Cull(cam.Frustum, lights, casters, maxShadowDistance)
	return true
}

func (r *CameraRenderer) setupCamera(cam *Camera) {
	r.buffer.SetupCameraProperties(command.SetupCameraProperties{
		View:       cam.Frustum.ViewMatrix(),
		Projection: cam.Frustum.ProjectionMatrix(),
		Position:   cam.Frustum.Position,
		Width:      cam.Width,
		Height:     cam.Height,
	})

	flags := cam.ClearFlags
	if flags == 0 {
		flags = ClearSkybox
	}
	var color [4]float32
	if flags == ClearColor {
		color = cam.Background
	}
	r.buffer.ClearRenderTarget(flags <= ClearDepth, flags <= ClearColor, color)
}

func (r *CameraRenderer) drawVisibleGeometry(settings Settings) {
	passes := []string{UnlitPass, LitPass}
	r.buffer.DrawRenderers(command.DrawRenderers{
		Queue:           command.QueueOpaque,
		Sort:            command.SortCommonOpaque,
		Passes:          passes,
		DynamicBatching: settings.DynamicBatching,
		Instancing:      settings.Instancing,
	})
	r.buffer.DrawSkybox()
	r.buffer.DrawRenderers(command.DrawRenderers{
		Queue:           command.QueueTransparent,
		Sort:            command.SortCommonTransparent,
		Passes:          passes,
		DynamicBatching: settings.DynamicBatching,
		Instancing:      settings.Instancing,
	})
}

func (r *CameraRenderer) executeBuffer(ctx command.Context) {
	ctx.ExecuteCommandBuffer(r.buffer)
	r.buffer.Clear()
}

// Pipeline renders a list of cameras in order with one camera renderer.
type Pipeline struct {
	Settings Settings
	renderer *CameraRenderer
}

// New creates a pipeline.
func New(settings Settings) *Pipeline {
	return &Pipeline{Settings: settings, renderer: NewCameraRenderer()}
}

// Renderer returns the shared camera renderer.
func (p *Pipeline) Renderer() *CameraRenderer {
	return p.renderer
}

// Render renders every camera against the scene.
func (p *Pipeline) Render(ctx command.Context, cameras []*Camera, scene Scene) {
	for _, cam := range cameras {
		p.renderer.Render(ctx, cam, scene, p.Settings)
	}
}
