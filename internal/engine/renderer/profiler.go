package renderer

import (
	"time"

	"go.uber.org/zap"
)

// Sample is a closed profiling scope.
type Sample struct {
	Name     string
	Depth    int
	Duration time.Duration
}

type openSample struct {
	name  string
	start time.Time
}

// Profiler times nested BeginSample/EndSample scopes on the CPU.
type Profiler struct {
	log  *zap.Logger
	now  func() time.Time
	open []openSample
	done []Sample
}

// NewProfiler creates a profiler. A nil logger disables warnings.
func NewProfiler(log *zap.Logger) *Profiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Profiler{log: log, now: time.Now}
}

// Begin opens a scope.
func (p *Profiler) Begin(name string) {
	p.open = append(p.open, openSample{name: name, start: p.now()})
}

// End closes the innermost scope. A name that does not match it is logged
// and the scope is closed anyway.
func (p *Profiler) End(name string) {
	if len(p.open) == 0 {
		p.log.Warn("EndSample without BeginSample", zap.String("name", name))
		return
	}
	top := p.open[len(p.open)-1]
	p.open = p.open[:len(p.open)-1]
	if top.name != name {
		p.log.Warn("mismatched EndSample",
			zap.String("name", name),
			zap.String("open", top.name))
	}
	p.done = append(p.done, Sample{Name: top.name, Depth: len(p.open), Duration: p.now().Sub(top.start)})
}

// Depth returns the number of open scopes.
func (p *Profiler) Depth() int {
	return len(p.open)
}

// Frame returns the scopes closed since the last Reset, in closing order.
func (p *Profiler) Frame() []Sample {
	return p.done
}

// Reset forgets closed scopes. Scopes still open are reported and dropped.
func (p *Profiler) Reset() {
	if len(p.open) > 0 {
		p.log.Warn("unbalanced samples at end of frame", zap.Int("open", len(p.open)))
		p.open = p.open[:0]
	}
	p.done = p.done[:0]
}
