package input

import (
	"slices"
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestActions(t *testing.T) {
	b := Bindings{
		Keys:  map[sdl.Scancode]string{sdl.SCANCODE_F: "filter", sdl.SCANCODE_EQUALS: "atlas+"},
		Shift: map[sdl.Scancode]string{sdl.SCANCODE_F: "filter-back"},
	}
	in := New()
	in.Push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_F})
	in.Push(Event{Type: EventKeyUp, Key: sdl.SCANCODE_F})
	in.Push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_F, Shift: true})
	in.Push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_EQUALS, Shift: true})
	in.Push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_Q})

	got := in.Actions(b)
	want := []string{"filter", "filter-back", "atlas+"}
	if !slices.Equal(got, want) {
		t.Errorf("Actions = %v, want %v", got, want)
	}
}

func TestDragAndWheel(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventMouseMove, DeltaX: 5, DeltaY: 1})
	if dx, dy := in.Drag(sdl.BUTTON_LEFT); dx != 0 || dy != 0 {
		t.Errorf("drag without button = (%v, %v)", dx, dy)
	}

	in.Push(Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT})
	in.Push(Event{Type: EventMouseMove, DeltaX: 2, DeltaY: -3})
	in.Push(Event{Type: EventMouseWheel, DeltaY: 1})
	in.Push(Event{Type: EventMouseWheel, DeltaY: 2})
	in.Push(Event{})

	if dx, dy := in.Drag(sdl.BUTTON_LEFT); dx != 7 || dy != -2 {
		t.Errorf("drag = (%v, %v), want (7, -2)", dx, dy)
	}
	if w := in.Wheel(); w != 3 {
		t.Errorf("wheel = %v, want 3", w)
	}
	if len(in.Events()) != 5 {
		t.Errorf("events = %d, want 5 (EventNone dropped)", len(in.Events()))
	}

	in.Push(Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT})
	if in.ButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("button still held after up")
	}
}
