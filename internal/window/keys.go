package window

import "github.com/go-gl/glfw/v3.3/glfw"

var keyNames = map[glfw.Key]string{
	glfw.KeySpace: " ",
	glfw.KeyUp:    "arrowup",
	glfw.KeyDown:  "arrowdown",
	glfw.KeyLeft:  "arrowleft",
	glfw.KeyRight: "arrowright",
}

// keyName maps a GLFW key to the name used by input bindings.
// Letters and digits map to their lowercase character.
func keyName(key glfw.Key) (string, bool) {
	switch {
	case key >= glfw.KeyA && key <= glfw.KeyZ:
		return string(rune('a' + (key - glfw.KeyA))), true
	case key >= glfw.Key0 && key <= glfw.Key9:
		return string(rune('0' + (key - glfw.Key0))), true
	}
	name, ok := keyNames[key]
	return name, ok
}

// cursorTracker turns absolute cursor positions into deltas. The first
// sample after a reset only records the position.
type cursorTracker struct {
	lastX, lastY float64
	primed       bool
}

func (c *cursorTracker) move(x, y float64) (dx, dy float64, ok bool) {
	if !c.primed {
		c.lastX, c.lastY = x, y
		c.primed = true
		return 0, 0, false
	}
	dx, dy = x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y
	return dx, dy, true
}

func (c *cursorTracker) reset() {
	c.primed = false
}
