// Package lighting publishes the directional lights of a frame to shading and
// drives the shadow subsystem for them.
package lighting

import (
	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// MaxDirectionalLights is the number of directional lights sent to shading.
const MaxDirectionalLights = 4

const bufferName = "Lighting"

// Global shader property names.
const (
	DirLightCount      = "_DirectionalLightCount"
	DirLightColors     = "_DirectionalLightColors"
	DirLightDirections = "_DirectionalLightDirections"
	DirLightShadowData = "_DirectionalLightShadowData"
)

// Lighting owns the per-frame light arrays.
type Lighting struct {
	buffer  *command.Buffer
	shadows *shadow.Shadows

	colors     [MaxDirectionalLights]math.Vec4
	directions [MaxDirectionalLights]math.Vec4
	shadowData [MaxDirectionalLights]math.Vec4
}

// New creates a lighting stage. A nil shadows gets a fresh subsystem.
func New(shadows *shadow.Shadows) *Lighting {
	if shadows == nil {
		shadows = shadow.New()
	}
	return &Lighting{
		buffer:  command.NewBuffer(bufferName),
		shadows: shadows,
	}
}

// Shadows returns the shadow subsystem driven by this stage.
func (l *Lighting) Shadows() *shadow.Shadows {
	return l.shadows
}

// Setup publishes the visible directional lights, reserving shadows for each,
// and renders the shadow atlas.
func (l *Lighting) Setup(ctx command.Context, results *culling.Results, settings shadow.Settings) {
	l.buffer.BeginSample(bufferName)
	l.shadows.Setup(ctx, results, settings)
	l.setupLights(results)
	l.shadows.Render()
	l.buffer.EndSample(bufferName)
	ctx.ExecuteCommandBuffer(l.buffer)
	l.buffer.Clear()
}

func (l *Lighting) setupLights(results *culling.Results) {
	count := 0
	for i, light := range results.VisibleLights() {
		if light.Type != culling.LightDirectional {
			continue
		}
		l.setupDirectionalLight(count, i, light)
		count++
		if count >= MaxDirectionalLights {
			break
		}
	}

	l.buffer.SetGlobalInt(DirLightCount, count)
	l.buffer.SetGlobalVectorArray(DirLightColors, l.colors[:])
	l.buffer.SetGlobalVectorArray(DirLightDirections, l.directions[:])
	l.buffer.SetGlobalVectorArray(DirLightShadowData, l.shadowData[:])
}

func (l *Lighting) setupDirectionalLight(index, visibleIndex int, light culling.Light) {
	c := light.FinalColor()
	l.colors[index] = math.Vec4{X: c[0], Y: c[1], Z: c[2], W: 1}
	l.directions[index] = light.Direction.Normalize().Vec4(0)
	l.shadowData[index] = l.shadows.Reserve(light, visibleIndex).Vec4()
}

// Cleanup releases the frame's shadow resources.
func (l *Lighting) Cleanup() {
	l.shadows.Cleanup()
}
