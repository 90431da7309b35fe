package command

import (
	"slices"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Buffer is an ordered list of recorded commands.
type Buffer struct {
	Name string
	cmds []Command
}

// NewBuffer creates an empty buffer with a debug name.
func NewBuffer(name string) *Buffer {
	return &Buffer{Name: name}
}

// Commands returns the recorded commands in order.
func (b *Buffer) Commands() []Command {
	return b.cmds
}

// Len returns the number of recorded commands.
func (b *Buffer) Len() int {
	return len(b.cmds)
}

// Clear drops all recorded commands, keeping capacity.
func (b *Buffer) Clear() {
	clear(b.cmds)
	b.cmds = b.cmds[:0]
}

func (b *Buffer) add(c Command) {
	b.cmds = append(b.cmds, c)
}

// GetTemporaryRT records acquisition of a transient render texture.
func (b *Buffer) GetTemporaryRT(name string, width, height, depthBits int, filter FilterMode, format TextureFormat) {
	b.add(GetTemporaryRT{Name: name, Width: width, Height: height, DepthBits: depthBits, Filter: filter, Format: format})
}

// ReleaseTemporaryRT records release of a transient render texture.
func (b *Buffer) ReleaseTemporaryRT(name string) {
	b.add(ReleaseTemporaryRT{Name: name})
}

// SetRenderTarget records binding a render texture.
func (b *Buffer) SetRenderTarget(name string) {
	b.add(SetRenderTarget{Name: name})
}

// ClearRenderTarget records a clear of the bound target.
func (b *Buffer) ClearRenderTarget(depth, color bool, value [4]float32) {
	b.add(ClearRenderTarget{Depth: depth, Color: color, Value: value})
}

// SetViewport records a viewport change.
func (b *Buffer) SetViewport(r Rect) {
	b.add(SetViewport{Rect: r})
}

// SetViewProjectionMatrices records camera matrices for subsequent draws.
func (b *Buffer) SetViewProjectionMatrices(view, proj math.Mat4) {
	b.add(SetViewProjectionMatrices{View: view, Projection: proj})
}

// SetGlobalDepthBias records a depth bias change.
func (b *Buffer) SetGlobalDepthBias(bias, slopeBias float32) {
	b.add(SetGlobalDepthBias{Bias: bias, SlopeBias: slopeBias})
}

// DrawShadows records a shadow caster draw for one cascade.
func (b *Buffer) DrawShadows(visibleLightIndex int, split SplitData) {
	b.add(DrawShadows{VisibleLightIndex: visibleLightIndex, Split: split})
}

// SetGlobalInt records a global integer property.
func (b *Buffer) SetGlobalInt(name string, value int) {
	b.add(SetGlobalInt{Name: name, Value: value})
}

// SetGlobalVector records a global vector property.
func (b *Buffer) SetGlobalVector(name string, value math.Vec4) {
	b.add(SetGlobalVector{Name: name, Value: value})
}

// SetGlobalVectorArray records a global vector array. The values are copied,
// so the caller may keep writing to its slice.
func (b *Buffer) SetGlobalVectorArray(name string, values []math.Vec4) {
	b.add(SetGlobalVectorArray{Name: name, Values: slices.Clone(values)})
}

// SetGlobalMatrixArray records a global matrix array. The values are copied.
func (b *Buffer) SetGlobalMatrixArray(name string, values []math.Mat4) {
	b.add(SetGlobalMatrixArray{Name: name, Values: slices.Clone(values)})
}

// EnableShaderKeyword records enabling a global keyword.
func (b *Buffer) EnableShaderKeyword(keyword string) {
	b.add(EnableShaderKeyword{Keyword: keyword})
}

// DisableShaderKeyword records disabling a global keyword.
func (b *Buffer) DisableShaderKeyword(keyword string) {
	b.add(DisableShaderKeyword{Keyword: keyword})
}

// SetupCameraProperties records binding a camera for geometry drawing.
func (b *Buffer) SetupCameraProperties(c SetupCameraProperties) {
	b.add(c)
}

// DrawRenderers records a scene geometry draw. Passes is copied.
func (b *Buffer) DrawRenderers(d DrawRenderers) {
	d.Passes = slices.Clone(d.Passes)
	b.add(d)
}

// DrawSkybox records a sky draw.
func (b *Buffer) DrawSkybox() {
	b.add(DrawSkybox{})
}

// DrawGizmos records a gizmo draw.
func (b *Buffer) DrawGizmos(subset GizmoSubset) {
	b.add(DrawGizmos{Subset: subset})
}

// BeginSample records the start of a profiling scope.
func (b *Buffer) BeginSample(name string) {
	b.add(BeginSample{Name: name})
}

// EndSample records the end of a profiling scope.
func (b *Buffer) EndSample(name string) {
	b.add(EndSample{Name: name})
}
