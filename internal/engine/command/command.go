// Package command records rendering work into named buffers that a backend
// context executes later, in recording order.
package command

import (
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Command is one recorded rendering operation.
type Command interface {
	command()
}

// Rect is a pixel rectangle with its origin at the bottom-left corner.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// Overlaps reports whether two rectangles share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// TextureFormat selects the storage of a temporary render texture.
type TextureFormat int

const (
	FormatShadowmap TextureFormat = iota
	FormatColor
)

// FilterMode is the sampling filter of a render texture.
type FilterMode int

const (
	FilterPoint FilterMode = iota
	FilterBilinear
)

// SplitData describes the cull volume of one shadow cascade.
type SplitData struct {
	// CullingSphere bounds the cascade: center.xyz, radius in w.
	CullingSphere math.Vec4
	// InnerSphere is the previous cascade's culling sphere (w = 0 for cascade 0).
	InnerSphere math.Vec4
	// CascadeBlendCullingFactor scales InnerSphere; casters entirely inside the
	// scaled sphere are already covered by the smaller cascade and may be skipped.
	CascadeBlendCullingFactor float32
}

// GetTemporaryRT acquires a transient render texture bound to a global name.
type GetTemporaryRT struct {
	Name          string
	Width, Height int
	DepthBits     int
	Filter        FilterMode
	Format        TextureFormat
}

// ReleaseTemporaryRT frees a texture acquired with GetTemporaryRT.
type ReleaseTemporaryRT struct {
	Name string
}

// SetRenderTarget binds a named render texture for drawing.
type SetRenderTarget struct {
	Name string
}

// ClearRenderTarget clears the bound target.
type ClearRenderTarget struct {
	Depth bool
	Color bool
	Value [4]float32
}

// SetViewport restricts rasterization to a rectangle of the bound target.
type SetViewport struct {
	Rect Rect
}

// SetViewProjectionMatrices sets the camera matrices for subsequent draws.
type SetViewProjectionMatrices struct {
	View       math.Mat4
	Projection math.Mat4
}

// SetGlobalDepthBias sets constant and slope-scaled depth bias for subsequent draws.
type SetGlobalDepthBias struct {
	Bias      float32
	SlopeBias float32
}

// DrawShadows draws the shadow casters of a visible light into the bound target.
type DrawShadows struct {
	VisibleLightIndex int
	Split             SplitData
}

// SetGlobalInt sets a global integer shader property.
type SetGlobalInt struct {
	Name  string
	Value int
}

// SetGlobalVector sets a global vector shader property.
type SetGlobalVector struct {
	Name  string
	Value math.Vec4
}

// SetGlobalVectorArray sets a global vector array shader property.
type SetGlobalVectorArray struct {
	Name   string
	Values []math.Vec4
}

// SetGlobalMatrixArray sets a global matrix array shader property.
type SetGlobalMatrixArray struct {
	Name   string
	Values []math.Mat4
}

// EnableShaderKeyword turns a global shader keyword on.
type EnableShaderKeyword struct {
	Keyword string
}

// DisableShaderKeyword turns a global shader keyword off.
type DisableShaderKeyword struct {
	Keyword string
}

// RenderQueue selects which renderers a draw call covers.
type RenderQueue int

const (
	QueueOpaque RenderQueue = iota
	QueueTransparent
	QueueAll
)

// SortMode orders renderers within a draw call: opaque front to back,
// transparent back to front.
type SortMode int

const (
	SortCommonOpaque SortMode = iota
	SortCommonTransparent
)

// GizmoSubset selects gizmos drawn before or after image effects.
type GizmoSubset int

const (
	GizmosPreImageEffects GizmoSubset = iota
	GizmosPostImageEffects
)

// SetupCameraProperties binds a camera's matrices for subsequent geometry.
type SetupCameraProperties struct {
	View       math.Mat4
	Projection math.Mat4
	Position   math.Vec3
	Width      int
	Height     int
}

// DrawRenderers draws the scene geometry of one render queue with the named shader passes.
type DrawRenderers struct {
	Queue           RenderQueue
	Sort            SortMode
	Passes          []string
	DynamicBatching bool
	Instancing      bool
	// ErrorMaterial replaces every material, used to flag unsupported shaders.
	ErrorMaterial bool
}

// DrawSkybox fills untouched pixels with the sky.
type DrawSkybox struct{}

// DrawGizmos draws editor gizmos.
type DrawGizmos struct {
	Subset GizmoSubset
}

// BeginSample opens a named profiling scope.
type BeginSample struct {
	Name string
}

// EndSample closes a named profiling scope.
type EndSample struct {
	Name string
}

func (GetTemporaryRT) command()            {}
func (ReleaseTemporaryRT) command()        {}
func (SetRenderTarget) command()           {}
func (ClearRenderTarget) command()         {}
func (SetViewport) command()               {}
func (SetViewProjectionMatrices) command() {}
func (SetGlobalDepthBias) command()        {}
func (DrawShadows) command()               {}
func (SetGlobalInt) command()              {}
func (SetGlobalVector) command()           {}
func (SetGlobalVectorArray) command()      {}
func (SetGlobalMatrixArray) command()      {}
func (EnableShaderKeyword) command()       {}
func (DisableShaderKeyword) command()      {}
func (SetupCameraProperties) command()     {}
func (DrawRenderers) command()             {}
func (DrawSkybox) command()                {}
func (DrawGizmos) command()                {}
func (BeginSample) command()               {}
func (EndSample) command()                 {}
