package rendertexture

import (
	"fmt"

	"go.uber.org/zap"
)

// Allocator creates and destroys targets. GL is the OpenGL allocator; tests
// substitute a fake.
type Allocator struct {
	New     func(Desc) (*Target, error)
	Destroy func(*Target)
}

// GL allocates on the current OpenGL context.
var GL = Allocator{New: NewGL, Destroy: DestroyGL}

// Pool binds temporary render textures to global names and recycles released
// ones of the same description. It is not safe for concurrent use.
type Pool struct {
	alloc Allocator
	log   *zap.Logger

	live map[string]*Target
	free map[Desc][]*Target

	created int
}

// NewPool creates an empty pool. A nil logger disables logging.
func NewPool(alloc Allocator, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		alloc: alloc,
		log:   log,
		live:  make(map[string]*Target),
		free:  make(map[Desc][]*Target),
	}
}

// Get binds a texture matching d to name. A texture already bound to name is
// kept when it matches and recycled otherwise.
func (p *Pool) Get(name string, d Desc) (*Target, error) {
	if t, ok := p.live[name]; ok {
		if t.Desc == d {
			return t, nil
		}
		p.Release(name)
	}

	if list := p.free[d]; len(list) > 0 {
		t := list[len(list)-1]
		p.free[d] = list[:len(list)-1]
		p.live[name] = t
		return t, nil
	}

	t, err := p.alloc.New(d)
	if err != nil {
		return nil, fmt.Errorf("render texture %s: %w", name, err)
	}
	p.created++
	p.live[name] = t
	p.log.Debug("render texture created",
		zap.String("name", name),
		zap.Int("width", d.Width),
		zap.Int("height", d.Height),
		zap.Int("depth_bits", d.DepthBits))
	return t, nil
}

// Release unbinds name and keeps its texture for reuse. Unknown names are ignored.
func (p *Pool) Release(name string) {
	t, ok := p.live[name]
	if !ok {
		return
	}
	delete(p.live, name)
	p.free[t.Desc] = append(p.free[t.Desc], t)
}

// Lookup returns the texture bound to name.
func (p *Pool) Lookup(name string) (*Target, bool) {
	t, ok := p.live[name]
	return t, ok
}

// Live returns the number of bound textures.
func (p *Pool) Live() int {
	return len(p.live)
}

// Created returns how many textures the pool has allocated.
func (p *Pool) Created() int {
	return p.created
}

// Destroy frees every texture, bound or not.
func (p *Pool) Destroy() {
	for name, t := range p.live {
		p.alloc.Destroy(t)
		delete(p.live, name)
	}
	for d, list := range p.free {
		for _, t := range list {
			p.alloc.Destroy(t)
		}
		delete(p.free, d)
	}
}
