// Package input turns SDL2 events into demo events and key-bound actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Shift  bool
	Width  int
	Height int
	MouseX int
	MouseY int
	// DeltaX and DeltaY are relative mouse motion or wheel steps.
	DeltaX float32
	DeltaY float32
	Button uint8
}

// Bindings maps keys to named actions. Shifted keys use the Shift map.
type Bindings struct {
	Keys  map[sdl.Scancode]string
	Shift map[sdl.Scancode]string
}

// Action returns the action bound to a key event.
func (b Bindings) Action(e Event) (string, bool) {
	if e.Type != EventKeyDown {
		return "", false
	}
	if e.Shift {
		if a, ok := b.Shift[e.Key]; ok {
			return a, true
		}
	}
	a, ok := b.Keys[e.Key]
	return a, ok
}

// Input handles all input processing.
type Input struct {
	events []Event
	held   map[uint8]bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
		held:   make(map[uint8]bool),
	}
}

// Update polls SDL events. It returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		i.Push(translate(event))
		if len(i.events) > 0 && i.events[len(i.events)-1].Type == EventQuit {
			return true
		}
	}
	return false
}

// Push records an event as if it had been polled. Mouse button state follows
// down and up events.
func (i *Input) Push(e Event) {
	switch e.Type {
	case EventNone:
		return
	case EventMouseDown:
		i.held[e.Button] = true
	case EventMouseUp:
		delete(i.held, e.Button)
	}
	i.events = append(i.events, e)
}

func translate(event sdl.Event) Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}
		}

	case *sdl.KeyboardEvent:
		t := EventKeyUp
		if e.Type == sdl.KEYDOWN {
			t = EventKeyDown
		}
		return Event{
			Type:  t,
			Key:   e.Keysym.Scancode,
			Shift: e.Keysym.Mod&sdl.KMOD_SHIFT != 0,
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: float32(e.XRel),
			DeltaY: float32(e.YRel),
		}

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, DeltaX: float32(e.X), DeltaY: float32(e.Y)}
	}
	return Event{}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// ButtonHeld reports whether a mouse button is down.
func (i *Input) ButtonHeld(button uint8) bool {
	return i.held[button]
}

// Drag returns the relative mouse motion this frame while button is held.
func (i *Input) Drag(button uint8) (dx, dy float32) {
	if !i.held[button] {
		return 0, 0
	}
	for _, e := range i.events {
		if e.Type == EventMouseMove {
			dx += e.DeltaX
			dy += e.DeltaY
		}
	}
	return dx, dy
}

// Wheel returns the vertical wheel motion this frame.
func (i *Input) Wheel() float32 {
	var d float32
	for _, e := range i.events {
		if e.Type == EventMouseWheel {
			d += e.DeltaY
		}
	}
	return d
}

// Actions returns the bound actions triggered this frame in event order.
func (i *Input) Actions(b Bindings) []string {
	var out []string
	for _, e := range i.events {
		if a, ok := b.Action(e); ok {
			out = append(out, a)
		}
	}
	return out
}
