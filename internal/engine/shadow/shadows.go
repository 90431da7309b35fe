// Package shadow renders cascaded shadow maps for directional lights into a
// shared atlas and publishes the sampling state the shading stage reads.
//
// A frame runs Setup, one Reserve per visible light, Render, then Cleanup.
// Everything is recorded into command buffers; nothing here touches the GPU.
package shadow

import (
	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

const (
	// MaxShadowedDirectionalLights is the number of lights that can cast shadows per frame.
	MaxShadowedDirectionalLights = 4
	// MaxCascades is the largest supported cascade count.
	MaxCascades = 4
	// MaxTiles is the atlas tile capacity.
	MaxTiles = MaxShadowedDirectionalLights * MaxCascades

	bufferName = "Shadows"
)

// Global shader property names.
const (
	DirShadowAtlas         = "_DirectionalShadowAtlas"
	DirShadowMatrices      = "_DirectionalShadowMatrices"
	CascadeCountName       = "_CascadeCount"
	CascadeCullingSpheres  = "_CascadeCullingSpheres"
	CascadeDataName        = "_CascadeData"
	ShadowAtlasSizeName    = "_ShadowAtlasSize"
	ShadowDistanceFadeName = "_ShadowDistanceFade"
)

// ShadowData is the per-light result of Reserve, consumed by lighting setup.
// The zero value means the light casts no shadows this frame.
type ShadowData struct {
	Strength float32
	// TileIndex is the light's first atlas tile.
	TileIndex  int
	NormalBias float32
}

// Vec4 packs the data as {strength, tile index, normal bias, 0}.
func (d ShadowData) Vec4() math.Vec4 {
	return math.Vec4{X: d.Strength, Y: float32(d.TileIndex), Z: d.NormalBias}
}

type shadowedDirectionalLight struct {
	visibleLightIndex int
	slopeScaleBias    float32
	nearPlaneOffset   float32
	toLight           math.Vec3
}

// State is a snapshot of the arrays the subsystem publishes to shading.
// CascadeCount is the count pushed with them, so it stays with the arrays
// across placeholder frames.
type State struct {
	CascadeCount   int
	Matrices       [MaxTiles]math.Mat4
	CullingSpheres [MaxCascades]math.Vec4
	CascadeData    [MaxCascades]math.Vec4
}

// Shadows owns the per-frame reservation table and the published arrays.
// It is not safe for concurrent use.
type Shadows struct {
	buffer   *command.Buffer
	ctx      command.Context
	results  *culling.Results
	settings Settings
	diag     Diagnostics

	lights     [MaxShadowedDirectionalLights]shadowedDirectionalLight
	lightCount int

	cascadeCount   int
	matrices       [MaxTiles]math.Mat4
	cullingSpheres [MaxCascades]math.Vec4
	cascadeData    [MaxCascades]math.Vec4
	tiles          [MaxTiles]TileInfo
}

// New creates a shadow subsystem with no diagnostics bound.
func New() *Shadows {
	return &Shadows{
		buffer: command.NewBuffer(bufferName),
		diag:   NopDiagnostics{},
	}
}

// SetDiagnostics binds a diagnostics collaborator. nil restores the no-op.
func (s *Shadows) SetDiagnostics(d Diagnostics) {
	if d == nil {
		d = NopDiagnostics{}
	}
	s.diag = d
}

// Setup starts a frame and empties the reservation table.
// Published arrays keep their previous values until Render overwrites them.
func (s *Shadows) Setup(ctx command.Context, results *culling.Results, settings Settings) {
	s.ctx = ctx
	s.results = results
	s.settings = settings
	s.lightCount = 0
}

// Reserve claims atlas space for a visible light. It returns the zero
// ShadowData when the table is full, the light has shadows disabled or no
// strength, or nothing casts shadows for it.
func (s *Shadows) Reserve(light culling.Light, visibleLightIndex int) ShadowData {
	if s.lightCount >= MaxShadowedDirectionalLights ||
		light.Shadows == culling.ShadowsNone || light.ShadowStrength <= 0 {
		return ShadowData{}
	}
	if s.results == nil {
		return ShadowData{}
	}
	if _, ok := s.results.ShadowCasterBounds(visibleLightIndex); !ok {
		return ShadowData{}
	}

	s.lights[s.lightCount] = shadowedDirectionalLight{
		visibleLightIndex: visibleLightIndex,
		slopeScaleBias:    light.ShadowBias,
		nearPlaneOffset:   light.ShadowNearPlane,
		toLight:           light.Direction,
	}
	data := ShadowData{
		Strength:   light.ShadowStrength,
		TileIndex:  s.settings.Directional.CascadeCount * s.lightCount,
		NormalBias: light.ShadowNormal,
	}
	s.lightCount++
	return data
}

// ReservedLights returns the number of lights reserved this frame.
func (s *Shadows) ReservedLights() int {
	return s.lightCount
}

// Render draws every reserved light into the atlas and publishes the shadow
// state. With no reservations it only binds a 1x1 placeholder atlas.
func (s *Shadows) Render() {
	if s.lightCount > 0 {
		s.renderDirectionalShadows()
		return
	}
	s.buffer.GetTemporaryRT(DirShadowAtlas, 1, 1, 32, command.FilterBilinear, command.FormatShadowmap)
	s.executeBuffer()
	s.diag.ShadowsRendered(FrameInfo{
		Layout:   Layout{AtlasSize: 1, Split: 1, TileSize: 1},
		Fallback: true,
	})
}

func (s *Shadows) renderDirectionalShadows() {
	dir := s.settings.Directional
	atlasSize := int(dir.AtlasSize)

	s.buffer.GetTemporaryRT(DirShadowAtlas, atlasSize, atlasSize, 32, command.FilterBilinear, command.FormatShadowmap)
	s.buffer.SetRenderTarget(DirShadowAtlas)
	s.buffer.ClearRenderTarget(true, false, [4]float32{})
	s.buffer.BeginSample(bufferName)
	s.executeBuffer()

	layout := NewLayout(atlasSize, s.lightCount*dir.CascadeCount)
	reversedZ := s.ctx != nil && s.ctx.UsesReversedZBuffer()
	for i := 0; i < s.lightCount; i++ {
		s.renderLight(i, layout, reversedZ)
	}

	f := 1 - dir.CascadeFade
	s.cascadeCount = dir.CascadeCount
	s.buffer.SetGlobalInt(CascadeCountName, dir.CascadeCount)
	s.buffer.SetGlobalVectorArray(CascadeCullingSpheres, s.cullingSpheres[:])
	s.buffer.SetGlobalVectorArray(CascadeDataName, s.cascadeData[:])
	s.buffer.SetGlobalMatrixArray(DirShadowMatrices, s.matrices[:])
	s.buffer.SetGlobalVector(ShadowDistanceFadeName, math.Vec4{
		X: 1 / s.settings.MaxDistance,
		Y: 1 / s.settings.DistanceFade,
		Z: 1 / (1 - f*f),
	})
	setKeywords(s.buffer, directionalFilterKeywords, int(dir.Filter)-1)
	setKeywords(s.buffer, cascadeBlendKeywords, int(dir.CascadeBlend)-1)
	s.buffer.SetGlobalVector(ShadowAtlasSizeName, math.Vec4{X: float32(atlasSize), Y: 1 / float32(atlasSize)})
	s.buffer.EndSample(bufferName)
	s.executeBuffer()

	tiles := s.lightCount * dir.CascadeCount
	s.diag.ShadowsRendered(FrameInfo{
		Layout:   layout,
		Lights:   s.lightCount,
		Cascades: dir.CascadeCount,
		Tiles:    s.tiles[:min(tiles, MaxTiles)],
	})
}

func (s *Shadows) renderLight(index int, layout Layout, reversedZ bool) {
	light := s.lights[index]
	dir := s.settings.Directional
	cascadeCount := dir.CascadeCount
	tileOffset := index * cascadeCount
	cullingFactor := CullingFactor(dir.CascadeFade)

	for i := 0; i < cascadeCount; i++ {
		c := ComputeDirectionalCascade(CascadeRequest{
			Frustum:         s.results.Camera,
			ShadowDistance:  s.results.ShadowDistance,
			ToLight:         light.toLight,
			Index:           i,
			Count:           cascadeCount,
			Ratios:          dir.CascadeRatios(),
			TileSize:        layout.TileSize,
			NearPlaneOffset: light.nearPlaneOffset,
		})
		c.Split.CascadeBlendCullingFactor = cullingFactor

		// Culling spheres only depend on the camera, so slot 0's serve every light.
		if index == 0 && i < MaxCascades {
			s.cullingSpheres[i], s.cascadeData[i] = cascadeData(c.Split.CullingSphere, layout.TileSize, dir.Filter)
		}

		tileIndex := tileOffset + i
		if tileIndex >= MaxTiles {
			continue
		}
		viewport := layout.Viewport(tileIndex)
		s.buffer.SetViewport(viewport)
		s.matrices[tileIndex] = ConvertToAtlasMatrix(c.Projection.Mul(c.View), layout.Offset(tileIndex), layout.Split, reversedZ)
		s.buffer.SetViewProjectionMatrices(c.View, c.Projection)
		s.buffer.SetGlobalDepthBias(0, light.slopeScaleBias)
		s.buffer.DrawShadows(light.visibleLightIndex, c.Split)
		s.buffer.SetGlobalDepthBias(0, 0)
		s.executeBuffer()

		s.tiles[tileIndex] = TileInfo{
			Index:             tileIndex,
			LightSlot:         index,
			VisibleLightIndex: light.visibleLightIndex,
			Cascade:           i,
			Viewport:          viewport,
			Split:             c.Split,
			Matrix:            s.matrices[tileIndex],
		}
	}
}

// Cleanup releases the atlas. It is safe to call even when Render was not.
func (s *Shadows) Cleanup() {
	s.buffer.ReleaseTemporaryRT(DirShadowAtlas)
	s.executeBuffer()
}

// State returns a copy of the published arrays.
func (s *Shadows) State() State {
	return State{
		CascadeCount:   s.cascadeCount,
		Matrices:       s.matrices,
		CullingSpheres: s.cullingSpheres,
		CascadeData:    s.cascadeData,
	}
}

func (s *Shadows) executeBuffer() {
	if s.ctx != nil {
		s.ctx.ExecuteCommandBuffer(s.buffer)
	}
	s.buffer.Clear()
}
