// Package renderer executes pipeline command buffers with OpenGL and draws
// scene boxes, shadow casters, sky and gizmos.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/engine/pipeline"
	"github.com/Faultbox/midgard-csm/internal/engine/scene"
	"github.com/Faultbox/midgard-csm/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// Renderer ties a pipeline to the GL context and scene drawer.
type Renderer struct {
	config Config
	log    *zap.Logger

	Context  *GLContext
	Scene    *SceneRenderer
	Pipeline *pipeline.Pipeline
}

// New creates a renderer for s.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, s *scene.Scene, settings pipeline.Settings) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log := logger.Named("renderer")
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)

	sr, err := NewSceneRenderer(s)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene renderer: %w", err)
	}

	r := &Renderer{
		config:   cfg,
		log:      log,
		Context:  NewGLContext(sr, log),
		Scene:    sr,
		Pipeline: pipeline.New(settings),
	}
	return r, nil
}

// Close releases renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.Context.Destroy()
	r.Scene.Destroy()
}

// Resize records the new drawable size.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the drawable size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Render renders cameras against the current scene and reports command errors.
func (r *Renderer) Render(cameras ...*pipeline.Camera) error {
	r.Context.BeginFrame()
	r.Scene.ResetStats()
	var s pipeline.Scene
	if r.Scene.Scene() != nil {
		s = r.Scene.Scene()
	}
	r.Pipeline.Render(r.Context, cameras, s)
	return r.Context.Err()
}
