package main

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/config"
	"github.com/Faultbox/midgard-csm/internal/engine/camera"
	"github.com/Faultbox/midgard-csm/internal/engine/debug"
	"github.com/Faultbox/midgard-csm/internal/engine/framebuffer"
	"github.com/Faultbox/midgard-csm/internal/engine/pipeline"
	"github.com/Faultbox/midgard-csm/internal/engine/renderer"
	"github.com/Faultbox/midgard-csm/internal/engine/rendertexture"
	"github.com/Faultbox/midgard-csm/internal/engine/scene"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/internal/engine/ui"
	"github.com/Faultbox/midgard-csm/internal/logger"
)

const (
	windowTitle      = "Shadow Viewer"
	settingsWidth    = float32(300)
	atlasPanelWidth  = float32(360)
	statusBarHeight  = float32(30)
	notificationTime = 2 * time.Second
)

// App is the viewer state. Everything runs on the main thread except the
// native file dialogs, which report back through pending.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	backend *ui.Backend

	render *renderer.Renderer
	target *framebuffer.Framebuffer
	orbit  *camera.OrbitCamera

	pending chan dialogResult

	// Shadow frame inspection
	frame        shadow.Capture
	atlasTexture uint32
	atlasSize    int
	atlasLive    bool
	atlasDirty   bool
	atlasImage   *image.RGBA

	capture      *debug.Capture
	captureBMP   bool
	notification string
	notifiedAt   time.Time

	lastMousePos imgui.Vec2
	frameTime    time.Duration
	viewFrustum  camera.Frustum
	selected     int
}

// NewApp creates the viewer window and renderer.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:        cfg,
		log:        logger.Named("viewer"),
		orbit:      camera.NewOrbitCamera(),
		pending:    make(chan dialogResult, 4),
		atlasDirty: true,
		selected:   -1,
		capture:    debug.NewCapture(filepath.Join(config.ConfigDir(), "captures"), "shadowviewer"),
	}

	var err error
	app.backend, err = ui.NewBackend(windowTitle, int32(cfg.Window.Width), int32(cfg.Window.Height))
	if err != nil {
		return nil, err
	}

	s, err := loadScene(cfg.Scene.Path)
	if err != nil {
		return nil, err
	}

	app.target, err = framebuffer.New(int32(cfg.Window.Width), int32(cfg.Window.Height))
	if err != nil {
		return nil, fmt.Errorf("create viewport target: %w", err)
	}

	w, h := app.target.Size()
	app.render, err = renderer.New(renderer.Config{Width: int(w), Height: int(h)}, s, cfg.PipelineSettings())
	if err != nil {
		return nil, err
	}
	app.render.Context.SetOutput(app.target.FBO())
	app.render.Pipeline.Renderer().Shadows().SetDiagnostics(app)
	app.setGizmos(cfg.Pipeline.Gizmos)
	app.resetCamera()

	app.log.Info("viewer ready",
		zap.String("scene", s.Name),
		zap.Int("boxes", len(s.Boxes)),
		zap.Int("lights", len(s.Lights())))
	return app, nil
}

// Close releases GL resources.
func (app *App) Close() {
	ui.DeleteTexture(app.atlasTexture)
	if app.render != nil {
		app.render.Close()
	}
	if app.target != nil {
		app.target.Destroy()
	}
}

// Run starts the main loop.
func (app *App) Run() {
	app.backend.Run(app.renderFrame)
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Default(), nil
	}
	s, err := scene.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", path, err)
	}
	return s, nil
}

// ShadowsRendered implements shadow.Diagnostics. The atlas is still bound
// when it is called, so this is where the depth preview is read back.
func (app *App) ShadowsRendered(frame shadow.FrameInfo) {
	app.frame.ShadowsRendered(frame)
	if frame.Fallback || !(app.atlasLive || app.atlasDirty) {
		return
	}
	t, ok := app.render.Context.Target(shadow.DirShadowAtlas)
	if !ok {
		return
	}
	img, err := debug.AtlasPreview(rendertexture.ReadDepth(t), app.frame.Frame, t.Desc.Width)
	if err != nil {
		app.log.Warn("atlas preview failed", zap.Error(err))
		return
	}
	app.atlasTexture = ui.UploadImage(app.atlasTexture, img)
	app.atlasSize = t.Desc.Width
	app.atlasImage = img
	app.atlasDirty = false
}

func (app *App) setGizmos(on bool) {
	app.cfg.Pipeline.Gizmos = on
	app.render.Scene.ShowBounds = on
	app.render.Scene.ShowSpheres = on
	app.render.Pipeline.Renderer().SetDiagnostics(pipeline.DevDiagnostics{Gizmos: on})
}

func (app *App) resetCamera() {
	s := app.render.Scene.Scene()
	app.orbit = camera.NewOrbitCamera()
	app.selected = -1
	app.orbit.SetCenter(s.Camera.Center[0], s.Camera.Center[1], s.Camera.Center[2])
	if s.Camera.Distance > 0 {
		app.orbit.Distance = s.Camera.Distance
	}
}

func (app *App) notify(msg string) {
	app.notification = msg
	app.notifiedAt = time.Now()
}

// renderFrame is called each frame to draw the scene and the UI.
func (app *App) renderFrame() {
	app.processPending()

	if ui.IsKeyPressed(imgui.KeyF12) {
		app.captureViewport()
	}
	if ui.IsKeyPressed(imgui.KeyG) && !imgui.IsAnyItemActive() {
		app.setGizmos(!app.cfg.Pipeline.Gizmos)
	}

	app.renderMenuBar()

	posX, posY, width, height := ui.GetViewport()
	contentHeight := height - statusBarHeight
	viewWidth := width - settingsWidth - atlasPanelWidth
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(imgui.NewVec2(posX, posY))
	imgui.SetNextWindowSize(imgui.NewVec2(settingsWidth, contentHeight))
	if imgui.BeginV("Settings", nil, flags) {
		app.renderSettingsPanel()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(posX+settingsWidth, posY))
	imgui.SetNextWindowSize(imgui.NewVec2(viewWidth, contentHeight))
	if imgui.BeginV("Viewport", nil, flags|imgui.WindowFlagsNoScrollbar) {
		app.renderViewport()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(posX+settingsWidth+viewWidth, posY))
	imgui.SetNextWindowSize(imgui.NewVec2(atlasPanelWidth, contentHeight))
	if imgui.BeginV("Atlas", nil, flags) {
		app.renderAtlasPanel()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(posX, posY+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(width, statusBarHeight))
	statusFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##StatusBar", nil, statusFlags) {
		app.renderStatusBar()
	}
	imgui.End()

	if app.notification != "" && time.Since(app.notifiedAt) < notificationTime {
		notifyFlags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
			imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
			imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing
		imgui.SetNextWindowPos(imgui.NewVec2(posX+settingsWidth+10, posY+30))
		imgui.SetNextWindowBgAlpha(0.85)
		if imgui.BeginV("##Notify", nil, notifyFlags) {
			imgui.Text(app.notification)
		}
		imgui.End()
	}
}

func (app *App) renderMenuBar() {
	if !imgui.BeginMainMenuBar() {
		return
	}
	if imgui.BeginMenu("File") {
		if imgui.MenuItemBool("Open Scene...") {
			app.openSceneDialog()
		}
		if imgui.MenuItemBool("Save Settings...") {
			app.saveSettingsDialog()
		}
		imgui.Separator()
		if imgui.MenuItemBool("Capture Viewport (F12)") {
			app.captureViewport()
		}
		if imgui.MenuItemBool("Capture Atlas") {
			app.captureAtlas()
		}
		imgui.EndMenu()
	}
	if imgui.BeginMenu("View") {
		if imgui.MenuItemBool("Reset Camera") {
			app.resetCamera()
		}
		if imgui.MenuItemBool("Toggle Gizmos (G)") {
			app.setGizmos(!app.cfg.Pipeline.Gizmos)
		}
		imgui.EndMenu()
	}
	imgui.EndMainMenuBar()
}

// renderViewport draws the scene into the offscreen target and shows it.
func (app *App) renderViewport() {
	avail := imgui.ContentRegionAvail()
	w, h := max(int32(avail.X), 1), max(int32(avail.Y), 1)
	if tw, th := app.target.Size(); tw != w || th != h {
		app.target.Resize(w, h)
		app.render.Resize(int(w), int(h))
	}

	start := time.Now()
	app.viewFrustum = app.orbit.Frustum(app.cfg.Lens(), float32(w)/float32(h))
	cam := &pipeline.Camera{
		Name:    "Viewer",
		Frustum: app.viewFrustum,
		Width:   int(w),
		Height:  int(h),
	}
	app.render.Context.SetOutput(app.target.FBO())
	if err := app.render.Render(cam); err != nil {
		app.log.Warn("frame errors", zap.Error(err))
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	app.frameTime = time.Since(start)

	origin := imgui.CursorScreenPos()
	imgui.ImageWithBgV(
		ui.TextureRef(app.target.ColorTexture()),
		imgui.NewVec2(float32(w), float32(h)),
		imgui.NewVec2(0, 1), // UV flipped
		imgui.NewVec2(1, 0),
		imgui.NewVec4(0.15, 0.15, 0.15, 1.0),
		imgui.NewVec4(1, 1, 1, 1),
	)

	if imgui.IsItemHovered() {
		mousePos := imgui.MousePos()
		if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
			app.orbit.HandleDrag(mousePos.X-app.lastMousePos.X, mousePos.Y-app.lastMousePos.Y)
		}
		app.lastMousePos = mousePos

		if imgui.IsMouseClickedBool(imgui.MouseButtonRight) {
			app.selected = pickBox(app.render.Scene.Scene(), app.viewFrustum,
				mousePos.X-origin.X, mousePos.Y-origin.Y, float32(w), float32(h))
		}

		if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
			app.orbit.HandleZoom(wheel)
		}
	}
}

func (app *App) renderStatusBar() {
	stats := app.render.Scene.Stats()
	frame := app.frame.Frame
	imgui.Text(fmt.Sprintf("%s | %d renderers | casters %d drawn, %d culled | %d tiles | %d variants | %.2f ms",
		app.render.Scene.Scene().Name,
		stats.Renderers, stats.CasterDraws, stats.CasterSkipped,
		len(frame.Tiles), app.render.Scene.Variants(),
		float64(app.frameTime.Microseconds())/1000))
}
