package window

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Versifine/walker/internal/game"
	"github.com/Versifine/walker/internal/logger"
	"github.com/Versifine/walker/internal/scene"
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl64"
)

// Session is the frame driver the window presents.
type Session interface {
	Frame() game.Snapshot
	Resize(width, height int)
	View() (view, projection mgl64.Mat4, background scene.Color)
}

type InputSink interface {
	KeyDown(name string)
	KeyUp(name string)
	MouseMove(dx, dy float64)
	SetCaptured(captured bool)
}

type Options struct {
	Width  int
	Height int
	Title  string
	VSync  bool
}

// Window handles GLFW window creation and the per-frame loop.
// All methods must be called from the main OS thread.
type Window struct {
	glfwWindow *glfw.Window
	session    Session
	input      InputSink
	cursor     cursorTracker
	log        *slog.Logger
}

// New creates a window with an OpenGL core context and installs the input callbacks.
func New(opts Options, session Session, in InputSink) (*Window, error) {
	if session == nil || in == nil {
		return nil, fmt.Errorf("window needs a session and an input sink")
	}
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	gw, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	gw.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		gw.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	w := &Window{
		glfwWindow: gw,
		session:    session,
		input:      in,
		log:        logger.Component("window"),
	}
	w.log.Info("window created", "gl_version", gl.GoStr(gl.GetString(gl.VERSION)), "width", opts.Width, "height", opts.Height)

	gw.SetKeyCallback(w.onKey)
	gw.SetMouseButtonCallback(w.onMouseButton)
	gw.SetCursorPosCallback(w.onCursorPos)
	gw.SetFramebufferSizeCallback(w.onFramebufferSize)

	fbw, fbh := gw.GetFramebufferSize()
	w.onFramebufferSize(gw, fbw, fbh)
	return w, nil
}

// Run presents frames until the window is closed or ctx is done.
func (w *Window) Run(ctx context.Context) error {
	for !w.glfwWindow.ShouldClose() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		glfw.PollEvents()
		w.session.Frame()

		_, _, bg := w.session.View()
		r, g, b := bg.RGB()
		gl.ClearColor(r, g, b, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		w.glfwWindow.SwapBuffers()
	}
	return nil
}

func (w *Window) Close() {
	w.glfwWindow.Destroy()
	glfw.Terminate()
}

func (w *Window) setCaptured(captured bool) {
	if captured {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	w.cursor.reset()
	w.input.SetCaptured(captured)
	w.log.Debug("pointer capture changed", "captured", captured)
}

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.setCaptured(false)
		return
	}

	name, ok := keyName(key)
	if !ok {
		return
	}
	switch action {
	case glfw.Press, glfw.Repeat:
		w.input.KeyDown(name)
	case glfw.Release:
		w.input.KeyUp(name)
	}
}

func (w *Window) onMouseButton(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button == glfw.MouseButtonLeft && action == glfw.Press {
		w.setCaptured(true)
	}
}

func (w *Window) onCursorPos(_ *glfw.Window, x, y float64) {
	dx, dy, ok := w.cursor.move(x, y)
	if ok {
		w.input.MouseMove(dx, dy)
	}
}

func (w *Window) onFramebufferSize(_ *glfw.Window, width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	w.session.Resize(width, height)
}
