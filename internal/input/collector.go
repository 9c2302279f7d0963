package input

import (
	"strings"
	"sync"

	"github.com/Versifine/walker/internal/body"
)

// Bindings maps each action to a key name as reported by the host.
type Bindings struct {
	Forward string
	Back    string
	Left    string
	Right   string
	Jump    string
}

func DefaultBindings() Bindings {
	return Bindings{
		Forward: "w",
		Back:    "s",
		Left:    "a",
		Right:   "d",
		Jump:    " ",
	}
}

// Collector accumulates host keyboard and mouse events between frames.
// Host callbacks and the frame loop may run on different goroutines.
type Collector struct {
	mu       sync.Mutex
	bindings Bindings
	keys     map[string]bool
	captured bool
	dx       float64
	dy       float64
}

func NewCollector(bindings Bindings) *Collector {
	return &Collector{
		bindings: normalizeBindings(bindings),
		keys:     make(map[string]bool),
	}
}

func (c *Collector) KeyDown(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[normalizeKey(name)] = true
}

func (c *Collector) KeyUp(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[normalizeKey(name)] = false
}

// MouseMove adds a relative movement. It is dropped unless the pointer is captured.
func (c *Collector) MouseMove(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.captured {
		return
	}
	c.dx += dx
	c.dy += dy
}

func (c *Collector) SetCaptured(captured bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.captured = captured
}

func (c *Collector) Captured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captured
}

func (c *Collector) Bindings() Bindings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindings
}

// Consume returns the input for one tick and zeroes the accumulated mouse deltas.
// Key state is level-triggered and survives until the matching KeyUp.
func (c *Collector) Consume() body.InputState {
	c.mu.Lock()
	defer c.mu.Unlock()

	in := body.InputState{
		Forward:     c.keys[c.bindings.Forward],
		Back:        c.keys[c.bindings.Back],
		Left:        c.keys[c.bindings.Left],
		Right:       c.keys[c.bindings.Right],
		Jump:        c.keys[c.bindings.Jump],
		MouseDeltaX: c.dx,
		MouseDeltaY: c.dy,
	}
	c.dx = 0
	c.dy = 0
	return in
}

// Reset releases every key and drops pending mouse movement. Capture is kept.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = make(map[string]bool)
	c.dx = 0
	c.dy = 0
}

func normalizeKey(name string) string {
	if name == " " {
		return name
	}
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "space" {
		return " "
	}
	return key
}

func normalizeBindings(b Bindings) Bindings {
	def := DefaultBindings()
	pick := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return normalizeKey(v)
	}
	return Bindings{
		Forward: pick(b.Forward, def.Forward),
		Back:    pick(b.Back, def.Back),
		Left:    pick(b.Left, def.Left),
		Right:   pick(b.Right, def.Right),
		Jump:    pick(b.Jump, def.Jump),
	}
}
