package command

// Context executes command buffers against a rendering backend.
type Context interface {
	// ExecuteCommandBuffer schedules the buffer's commands. The buffer may be
	// cleared and reused as soon as the call returns.
	ExecuteCommandBuffer(b *Buffer)
	// UsesReversedZBuffer reports whether clip-space depth runs from far to near.
	UsesReversedZBuffer() bool
	// Submit flushes all scheduled work for the frame.
	Submit()
}

// TextureInfo describes a live temporary render texture.
type TextureInfo struct {
	Width, Height int
	DepthBits     int
	Format        TextureFormat
}

// Recorder is a Context that keeps every executed command and tracks the
// global state and temporary textures they produce. It backs headless tools and tests.
type Recorder struct {
	ReversedZ bool

	executed []Command
	globals  *Globals
	textures map[string]TextureInfo
	// allocations counts every GetTemporaryRT, including ones later released.
	allocations []GetTemporaryRT
	submits     int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		globals:  NewGlobals(),
		textures: make(map[string]TextureInfo),
	}
}

// ExecuteCommandBuffer implements Context.
func (r *Recorder) ExecuteCommandBuffer(b *Buffer) {
	for _, c := range b.Commands() {
		r.executed = append(r.executed, c)
		if r.globals.Apply(c) {
			continue
		}
		switch c := c.(type) {
		case GetTemporaryRT:
			r.textures[c.Name] = TextureInfo{Width: c.Width, Height: c.Height, DepthBits: c.DepthBits, Format: c.Format}
			r.allocations = append(r.allocations, c)
		case ReleaseTemporaryRT:
			delete(r.textures, c.Name)
		}
	}
}

// UsesReversedZBuffer implements Context.
func (r *Recorder) UsesReversedZBuffer() bool {
	return r.ReversedZ
}

// Submit implements Context.
func (r *Recorder) Submit() {
	r.submits++
}

// Executed returns all commands executed so far.
func (r *Recorder) Executed() []Command {
	return r.executed
}

// Globals returns the accumulated global property block.
func (r *Recorder) Globals() *Globals {
	return r.globals
}

// Texture returns a live temporary texture by name.
func (r *Recorder) Texture(name string) (TextureInfo, bool) {
	t, ok := r.textures[name]
	return t, ok
}

// LiveTextures returns the number of temporary textures not yet released.
func (r *Recorder) LiveTextures() int {
	return len(r.textures)
}

// Allocations returns every temporary texture request seen so far.
func (r *Recorder) Allocations() []GetTemporaryRT {
	return r.allocations
}

// Submits returns how many times Submit was called.
func (r *Recorder) Submits() int {
	return r.submits
}

// Reset forgets executed commands and allocations but keeps global state
// and live textures, mirroring a new frame on a real backend.
func (r *Recorder) Reset() {
	r.executed = nil
	r.allocations = nil
}
