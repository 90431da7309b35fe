package pipeline

import "github.com/Faultbox/midgard-csm/internal/engine/command"

// Diagnostics adds development-only work to each camera.
type Diagnostics interface {
	// SampleName names the camera's profiling scope and command buffer.
	SampleName(cam *Camera) string
	DrawUnsupportedShaders(b *command.Buffer, cam *Camera)
	DrawGizmos(b *command.Buffer, cam *Camera)
}

// NopDiagnostics is the production implementation.
type NopDiagnostics struct{}

// SampleName returns the fixed buffer name.
func (NopDiagnostics) SampleName(*Camera) string { return bufferName }

// DrawUnsupportedShaders does nothing.
func (NopDiagnostics) DrawUnsupportedShaders(*command.Buffer, *Camera) {}

// DrawGizmos does nothing.
func (NopDiagnostics) DrawGizmos(*command.Buffer, *Camera) {}

// Legacy shader passes the pipeline cannot render.
var legacyPasses = []string{
	"Always",
	"ForwardBase",
	"PrepassBase",
	"Vertex",
	"VertexLMRGBM",
	"VertexLM",
}

// DevDiagnostics names scopes after cameras and draws unsupported materials
// with the error material. Gizmos are drawn when Gizmos is set.
type DevDiagnostics struct {
	Gizmos bool
}

// SampleName returns the camera name.
func (DevDiagnostics) SampleName(cam *Camera) string {
	if cam.Name == "" {
		return bufferName
	}
	return cam.Name
}

// DrawUnsupportedShaders records a draw of every legacy pass with the error material.
func (DevDiagnostics) DrawUnsupportedShaders(b *command.Buffer, _ *Camera) {
	b.DrawRenderers(command.DrawRenderers{
		Queue:         command.QueueAll,
		Passes:        legacyPasses,
		ErrorMaterial: true,
	})
}

// DrawGizmos records gizmo draws before and after image effects.
func (d DevDiagnostics) DrawGizmos(b *command.Buffer, _ *Camera) {
	if !d.Gizmos {
		return
	}
	b.DrawGizmos(command.GizmosPreImageEffects)
	b.DrawGizmos(command.GizmosPostImageEffects)
}
