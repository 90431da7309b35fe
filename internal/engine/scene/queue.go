package scene

import (
	"cmp"
	"slices"

	"github.com/Faultbox/midgard-csm/internal/engine/command"
	"github.com/Faultbox/midgard-csm/internal/engine/culling"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Renderers returns the indices of boxes in a render queue, sorted front to
// back for opaque and back to front for transparent geometry.
func (s *Scene) Renderers(queue command.RenderQueue, eye math.Vec3) []int {
	var out []int
	for i, b := range s.Boxes {
		switch {
		case queue == command.QueueAll,
			queue == command.QueueOpaque && !b.Transparent,
			queue == command.QueueTransparent && b.Transparent:
			out = append(out, i)
		}
	}

	dist := func(i int) float32 {
		return s.Boxes[i].Bounds().Center().Sub(eye).Length()
	}
	slices.SortStableFunc(out, func(a, b int) int {
		if queue == command.QueueTransparent {
			return cmp.Compare(dist(b), dist(a))
		}
		return cmp.Compare(dist(a), dist(b))
	})
	return out
}

// CascadeCasters returns the indices of boxes drawn into one cascade of the
// light at index light. Casters that cannot shadow the cascade are skipped,
// as are casters already covered by the previous cascade.
func (s *Scene) CascadeCasters(light int, split command.SplitData) []int {
	if light < 0 || light >= len(s.lights) {
		return nil
	}
	toLight := s.lights[light].Direction
	var out []int
	for i, b := range s.Boxes {
		if !b.Casts() {
			continue
		}
		bounds := b.Bounds()
		if !culling.ReachesSphere(bounds, split.CullingSphere, toLight) {
			continue
		}
		if culling.CoveredBy(bounds, split.InnerSphere, split.CascadeBlendCullingFactor) {
			continue
		}
		out = append(out, i)
	}
	return out
}
