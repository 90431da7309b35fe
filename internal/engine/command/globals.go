package command

import (
	"slices"
	"sort"

	"github.com/Faultbox/midgard-csm/pkg/math"
)

// Globals is the global shader property block that recorded commands write to
// and shading reads from.
type Globals struct {
	Ints         map[string]int
	Vectors      map[string]math.Vec4
	VectorArrays map[string][]math.Vec4
	MatrixArrays map[string][]math.Mat4
	keywords     map[string]bool
}

// NewGlobals creates an empty property block.
func NewGlobals() *Globals {
	return &Globals{
		Ints:         make(map[string]int),
		Vectors:      make(map[string]math.Vec4),
		VectorArrays: make(map[string][]math.Vec4),
		MatrixArrays: make(map[string][]math.Mat4),
		keywords:     make(map[string]bool),
	}
}

// Apply updates the block for global-state commands and reports whether the
// command was one of them.
func (g *Globals) Apply(c Command) bool {
	switch c := c.(type) {
	case SetGlobalInt:
		g.Ints[c.Name] = c.Value
	case SetGlobalVector:
		g.Vectors[c.Name] = c.Value
	case SetGlobalVectorArray:
		g.VectorArrays[c.Name] = slices.Clone(c.Values)
	case SetGlobalMatrixArray:
		g.MatrixArrays[c.Name] = slices.Clone(c.Values)
	case EnableShaderKeyword:
		g.keywords[c.Keyword] = true
	case DisableShaderKeyword:
		delete(g.keywords, c.Keyword)
	default:
		return false
	}
	return true
}

// KeywordEnabled reports whether a global keyword is on.
func (g *Globals) KeywordEnabled(keyword string) bool {
	return g.keywords[keyword]
}

// Keywords returns the enabled keywords in sorted order.
func (g *Globals) Keywords() []string {
	out := make([]string, 0, len(g.keywords))
	for k := range g.keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
