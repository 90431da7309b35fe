package shader

import (
	"slices"
	"strings"
)

// Variant injects a #define for each keyword after the source's #version
// line. Keyword order does not affect the result.
func Variant(src string, keywords []string) string {
	if len(keywords) == 0 {
		return src
	}
	defs := slices.Clone(keywords)
	slices.Sort(defs)
	defs = slices.Compact(defs)

	var b strings.Builder
	for _, k := range defs {
		b.WriteString("#define ")
		b.WriteString(k)
		b.WriteByte('\n')
	}

	trimmed := strings.TrimLeft(src, " \t\r\n")
	if strings.HasPrefix(trimmed, "#version") {
		line, rest, _ := strings.Cut(trimmed, "\n")
		return line + "\n" + b.String() + rest
	}
	return b.String() + src
}

// VariantKey identifies a keyword combination independent of order.
func VariantKey(keywords []string) string {
	k := slices.Clone(keywords)
	slices.Sort(k)
	return strings.Join(slices.Compact(k), " ")
}

// Cache compiles one program per keyword combination of a vertex and
// fragment source pair.
type Cache struct {
	vertex, fragment string
	compile          func(vs, fs string) (uint32, error)
	destroy          func(uint32)
	programs         map[string]uint32
}

// NewCache creates a cache compiling on the current OpenGL context.
func NewCache(vertex, fragment string) *Cache {
	return newCache(vertex, fragment, CompileProgram, deleteProgram)
}

func newCache(vertex, fragment string, compile func(vs, fs string) (uint32, error), destroy func(uint32)) *Cache {
	return &Cache{
		vertex:   vertex,
		fragment: fragment,
		compile:  compile,
		destroy:  destroy,
		programs: make(map[string]uint32),
	}
}

// Program returns the program for a keyword set, compiling it on first use.
func (c *Cache) Program(keywords []string) (uint32, error) {
	key := VariantKey(keywords)
	if p, ok := c.programs[key]; ok {
		return p, nil
	}
	p, err := c.compile(Variant(c.vertex, keywords), Variant(c.fragment, keywords))
	if err != nil {
		return 0, err
	}
	c.programs[key] = p
	return p, nil
}

// Len returns the number of compiled variants.
func (c *Cache) Len() int {
	return len(c.programs)
}

// Destroy deletes every compiled program.
func (c *Cache) Destroy() {
	for k, p := range c.programs {
		c.destroy(p)
		delete(c.programs, k)
	}
}
