package renderer

import (
	"testing"
	"time"
)

func fakeClock() func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestProfilerNesting(t *testing.T) {
	p := NewProfiler(nil)
	p.now = fakeClock()

	p.Begin("Render Camera")
	p.Begin("Shadows")
	p.End("Shadows")
	p.End("Render Camera")

	got := p.Frame()
	want := []Sample{
		{Name: "Shadows", Depth: 1, Duration: time.Millisecond},
		{Name: "Render Camera", Depth: 0, Duration: 3 * time.Millisecond},
	}
	if len(got) != len(want) {
		t.Fatalf("samples = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestProfilerUnbalanced(t *testing.T) {
	p := NewProfiler(nil)
	p.End("stray")
	if len(p.Frame()) != 0 {
		t.Error("stray End should not record a sample")
	}

	p.Begin("a")
	p.End("b")
	if got := p.Frame(); len(got) != 1 || got[0].Name != "a" {
		t.Errorf("mismatched End closed %+v, want scope a", got)
	}

	p.Begin("open")
	p.Reset()
	if p.Depth() != 0 || len(p.Frame()) != 0 {
		t.Errorf("Reset left depth %d and %d samples", p.Depth(), len(p.Frame()))
	}
}
