package main

import (
	"image"
	"time"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"
)

type dialogKind int

const (
	openScene dialogKind = iota
	saveSettings
)

type dialogResult struct {
	kind dialogKind
	path string
}

// openSceneDialog shows a native file dialog. SDL/Cocoa window operations
// must happen on the main thread, so the result is queued for processPending.
func (app *App) openSceneDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("Scene files", "yaml", "yml").
			Filter("All Files", "*").
			Title("Open Scene").
			Load()
		app.queueDialog(openScene, filename, err)
	}()
}

func (app *App) saveSettingsDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("YAML", "yaml").
			Title("Save Settings").
			Save()
		app.queueDialog(saveSettings, filename, err)
	}()
}

func (app *App) queueDialog(kind dialogKind, path string, err error) {
	if err != nil {
		if err != dialog.ErrCancelled {
			app.log.Warn("file dialog error", zap.Error(err))
		}
		return
	}
	app.pending <- dialogResult{kind: kind, path: path}
}

// processPending applies dialog results on the main thread.
func (app *App) processPending() {
	for {
		select {
		case r := <-app.pending:
			app.applyDialog(r)
		default:
			return
		}
	}
}

func (app *App) applyDialog(r dialogResult) {
	switch r.kind {
	case openScene:
		s, err := loadScene(r.path)
		if err != nil {
			app.log.Error("open scene failed", zap.Error(err))
			app.notify("Open failed: " + err.Error())
			return
		}
		app.cfg.Scene.Path = r.path
		app.render.Scene.SetScene(s)
		app.resetCamera()
		app.atlasDirty = true
		app.backend.SetWindowTitle(windowTitle + " - " + s.Name)
		app.log.Info("scene opened", zap.String("path", r.path), zap.Int("boxes", len(s.Boxes)))
	case saveSettings:
		app.cfg.Shadows = app.render.Pipeline.Settings.Shadows
		if err := app.cfg.SaveTo(r.path); err != nil {
			app.log.Error("save settings failed", zap.Error(err))
			app.notify("Save failed: " + err.Error())
			return
		}
		app.notify("Saved " + r.path)
	}
}

func (app *App) captureFormat() string {
	if app.captureBMP {
		return "bmp"
	}
	return "png"
}

// captureViewport saves the last rendered scene image.
func (app *App) captureViewport() {
	img, err := app.target.ReadImage()
	if err != nil {
		app.notify("Capture failed: " + err.Error())
		return
	}
	app.save("viewport", img)
}

// captureAtlas saves the current depth atlas preview.
func (app *App) captureAtlas() {
	if app.atlasImage == nil {
		app.notify("No atlas preview to capture")
		return
	}
	s := app.render.Pipeline.Settings.Shadows.Directional
	app.save("atlas_"+s.Filter.String()+"_"+s.CascadeBlend.String(), app.atlasImage)
}

func (app *App) save(label string, img image.Image) {
	app.capture.Format = app.captureFormat()
	start := time.Now()
	path, err := app.capture.Save(label, img)
	if err != nil {
		app.log.Error("capture failed", zap.Error(err))
		app.notify("Capture failed: " + err.Error())
		return
	}
	app.log.Info("capture saved", zap.String("path", path), zap.Duration("took", time.Since(start)))
	app.notify("Saved " + path)
}
