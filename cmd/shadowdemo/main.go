// Package main is an interactive cascaded shadow map demo.
package main

import (
	"fmt"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/config"
	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/debug"
	"github.com/Faultbox/midgard-csm/internal/engine/input"
	"github.com/Faultbox/midgard-csm/internal/engine/pipeline"
	"github.com/Faultbox/midgard-csm/internal/engine/renderer"
	"github.com/Faultbox/midgard-csm/internal/engine/scene"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/internal/engine/window"
	"github.com/Faultbox/midgard-csm/internal/logger"
)

const windowTitle = "Midgard CSM"

var bindings = input.Bindings{
	Keys: map[sdl.Scancode]string{
		sdl.SCANCODE_ESCAPE:       actionQuit,
		sdl.SCANCODE_F:            actionFilterNext,
		sdl.SCANCODE_B:            actionBlendNext,
		sdl.SCANCODE_C:            actionCascades,
		sdl.SCANCODE_EQUALS:       actionAtlasUp,
		sdl.SCANCODE_KP_PLUS:      actionAtlasUp,
		sdl.SCANCODE_MINUS:        actionAtlasDown,
		sdl.SCANCODE_KP_MINUS:     actionAtlasDown,
		sdl.SCANCODE_RIGHTBRACKET: actionDistanceUp,
		sdl.SCANCODE_LEFTBRACKET:  actionDistanceDown,
		sdl.SCANCODE_G:            actionGizmos,
		sdl.SCANCODE_F11:          actionFullscreen,
		sdl.SCANCODE_F12:          actionScreenshot,
	},
	Shift: map[sdl.Scancode]string{
		sdl.SCANCODE_F: actionFilterPrev,
		sdl.SCANCODE_B: actionBlendPrev,
	},
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Midgard CSM Demo ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("demo error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("demo closed normally")
}

type demo struct {
	cfg     *config.Config
	win     *window.Window
	render  *renderer.Renderer
	in      *input.Input
	orbit   *camera.OrbitCamera
	capture *debug.Capture
	running bool
	dirty   bool
}

func run(cfg *config.Config) error {
	s := scene.Default()
	if cfg.Scene.Path != "" {
		loaded, err := scene.Load(cfg.Scene.Path)
		if err != nil {
			return fmt.Errorf("load scene: %w", err)
		}
		s = loaded
	}

	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Close()

	w, h := win.DrawableSize()
	r, err := renderer.New(renderer.Config{Width: w, Height: h, VSync: cfg.Window.VSync}, s, cfg.PipelineSettings())
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Close()

	r.Pipeline.Renderer().SetDiagnostics(cfg.Diagnostics())
	if cfg.Logging.Level == "debug" {
		r.Pipeline.Renderer().Shadows().SetDiagnostics(shadow.LogDiagnostics{Log: logger.Named("shadow")})
	}
	r.Scene.ShowBounds = cfg.Pipeline.Gizmos
	r.Scene.ShowSpheres = cfg.Pipeline.Gizmos

	orbit := camera.NewOrbitCamera()
	orbit.SetCenter(s.Camera.Center[0], s.Camera.Center[1], s.Camera.Center[2])
	if s.Camera.Distance > 0 {
		orbit.Distance = s.Camera.Distance
	}

	d := &demo{
		cfg:     cfg,
		win:     win,
		render:  r,
		in:      input.New(),
		orbit:   orbit,
		capture: debug.NewCapture("screenshots", "csm"),
		running: true,
		dirty:   true,
	}
	return d.loop()
}

func (d *demo) loop() error {
	for d.running {
		if d.in.Update() {
			break
		}
		d.handleEvents()
		d.handleCamera()

		if d.dirty {
			d.win.SetTitle(title(d.render.Pipeline.Settings.Shadows))
			d.dirty = false
		}

		w, h := d.render.Size()
		cam := &pipeline.Camera{
			Name:    "Main Camera",
			Frustum: d.orbit.Frustum(d.cfg.Lens(), float32(w)/float32(max(h, 1))),
			Width:   w,
			Height:  h,
		}
		if err := d.render.Render(cam); err != nil {
			return err
		}
		d.win.SwapBuffers()
	}
	return nil
}

func (d *demo) handleEvents() {
	for _, e := range d.in.Events() {
		if e.Type == input.EventWindowResize {
			d.render.Resize(d.win.DrawableSize())
		}
	}

	for _, a := range d.in.Actions(bindings) {
		switch a {
		case actionQuit:
			d.running = false
		case actionGizmos:
			on := !d.render.Scene.ShowBounds
			d.render.Scene.ShowBounds = on
			d.render.Scene.ShowSpheres = on
			d.render.Pipeline.Renderer().SetDiagnostics(pipeline.DevDiagnostics{Gizmos: on})
		case actionFullscreen:
			if err := d.win.SetFullscreen(!d.win.Fullscreen()); err != nil {
				logger.Warn("fullscreen toggle failed", zap.Error(err))
			}
			d.render.Resize(d.win.DrawableSize())
		case actionScreenshot:
			d.screenshot()
		default:
			if applyAction(&d.render.Pipeline.Settings.Shadows, a) {
				d.dirty = true
				logger.Debug("shadow settings changed",
					zap.String("action", a),
					zap.Stringer("filter", d.render.Pipeline.Settings.Shadows.Directional.Filter),
					zap.Stringer("blend", d.render.Pipeline.Settings.Shadows.Directional.CascadeBlend),
					zap.Int("cascades", d.render.Pipeline.Settings.Shadows.Directional.CascadeCount),
					zap.Int("atlas", int(d.render.Pipeline.Settings.Shadows.Directional.AtlasSize)),
					zap.Float32("max_distance", d.render.Pipeline.Settings.Shadows.MaxDistance))
			}
		}
	}
}

func (d *demo) handleCamera() {
	if dx, dy := d.in.Drag(sdl.BUTTON_LEFT); dx != 0 || dy != 0 {
		d.orbit.HandleDrag(dx, dy)
	}
	if wheel := d.in.Wheel(); wheel != 0 {
		d.orbit.HandleZoom(wheel)
	}

	var forward, right, up float32
	if d.in.IsKeyPressed(sdl.SCANCODE_W) {
		forward++
	}
	if d.in.IsKeyPressed(sdl.SCANCODE_S) {
		forward--
	}
	if d.in.IsKeyPressed(sdl.SCANCODE_D) {
		right++
	}
	if d.in.IsKeyPressed(sdl.SCANCODE_A) {
		right--
	}
	if d.in.IsKeyPressed(sdl.SCANCODE_E) {
		up++
	}
	if d.in.IsKeyPressed(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		d.orbit.HandleMovement(forward, right, up)
	}
}

// screenshot saves the default framebuffer.
func (d *demo) screenshot() {
	w, h := d.render.Size()
	pixels := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	img, err := debug.FlipRGBA(pixels, w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	s := d.render.Pipeline.Settings.Shadows.Directional
	path, err := d.capture.Save(fmt.Sprintf("%v_%v_c%d", s.Filter, s.CascadeBlend, s.CascadeCount), img)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
