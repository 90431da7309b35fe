package renderer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/rendertexture"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Drawer issues the draw calls behind the geometry commands. GLContext sets
// up render state and passes the current Env.
type Drawer interface {
	DrawShadowCasters(env *Env, cmd command.DrawShadows)
	DrawRenderers(env *Env, cmd command.DrawRenderers)
	DrawSkybox(env *Env)
	DrawGizmos(env *Env, subset command.GizmoSubset)
}

// Env is the state a Drawer reads while executing one command.
type Env struct {
	// View and Projection are the matrices of the last SetViewProjectionMatrices
	// or SetupCameraProperties.
	View       math.Mat4
	Projection math.Mat4
	// Camera is the last SetupCameraProperties.
	Camera  command.SetupCameraProperties
	Globals *command.Globals
	// Log is the context's logger, never nil inside a Drawer call.
	Log *zap.Logger

	pool *rendertexture.Pool
}

// ViewProjection returns Projection * View.
func (e *Env) ViewProjection() math.Mat4 {
	return e.Projection.Mul(e.View)
}

// Texture returns the GL texture bound to a global name, or 0.
func (e *Env) Texture(name string) uint32 {
	if e.pool == nil {
		return 0
	}
	if t, ok := e.pool.Lookup(name); ok {
		return t.Texture
	}
	return 0
}
