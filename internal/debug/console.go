package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/walker/internal/game"
	"github.com/Versifine/walker/internal/input"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"
)

const (
	defaultStatusInterval = 100 * time.Millisecond
	defaultMovePulse      = 180 * time.Millisecond
	lookStep              = 25.0 // pixels of simulated mouse travel per arrow press
)

type Controller interface {
	Snapshot() game.Snapshot
	Teleport(pos mgl64.Vec3) bool
}

type InputSink interface {
	KeyDown(name string)
	KeyUp(name string)
	MouseMove(dx, dy float64)
	SetCaptured(captured bool)
	Reset()
	Bindings() input.Bindings
}

// Console drives the input collector from a raw-mode terminal. Terminals
// report no key releases, so movement keys are held for a short pulse.
type Console struct {
	controller     Controller
	sink           InputSink
	out            io.Writer
	statusInterval time.Duration
	movePulse      time.Duration

	mu          sync.Mutex
	held        map[string]time.Time
	commandMode bool
	commandBuf  []rune
	statusWidth int
}

func NewConsole(controller Controller, sink InputSink) *Console {
	return &Console{
		controller:     controller,
		sink:           sink,
		out:            os.Stdout,
		statusInterval: defaultStatusInterval,
		movePulse:      defaultMovePulse,
		held:           make(map[string]time.Time),
	}
}

// Start puts stdin in raw mode and processes keys until ctx is done or
// Ctrl-C is pressed.
func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.controller == nil {
		return fmt.Errorf("console controller is nil")
	}
	if c.sink == nil {
		return fmt.Errorf("console input sink is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, arrows look, X clear, : command, Ctrl-C quit)\r\n")
	return c.run(ctx, os.Stdin)
}

// run processes keys from in until ctx is done, Ctrl-C is read or in fails.
// A read blocked on a terminal cannot be interrupted, so the reader runs on
// its own goroutine and is abandoned on cancellation.
func (c *Console) run(ctx context.Context, in io.Reader) error {
	c.renderStatusLine()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.statusLoop(ctx)

	done := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(in)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				done <- fmt.Errorf("read console input: %w", err)
				return
			}
			if b == 3 { // Ctrl-C
				done <- nil
				return
			}
			if ctx.Err() != nil {
				return
			}
			c.handleKey(reader, b)
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-done:
		return err
	}
}

func (c *Console) statusLoop(ctx context.Context) {
	ticker := time.NewTicker(c.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.releaseExpired(now)
			c.renderStatusLine()
		}
	}
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		c.sink.SetCaptured(true)
		switch arrow {
		case 'D': // left
			c.sink.MouseMove(-lookStep, 0)
		case 'C': // right
			c.sink.MouseMove(lookStep, 0)
		case 'A': // up
			c.sink.MouseMove(0, -lookStep)
		case 'B': // down
			c.sink.MouseMove(0, lookStep)
		}
	default:
		key := strings.ToLower(string(rune(b)))
		if c.isBound(key) {
			c.pulse(key, time.Now())
		}
	}
	c.renderStatusLine()
}

func (c *Console) isBound(key string) bool {
	b := c.sink.Bindings()
	switch key {
	case b.Forward, b.Back, b.Left, b.Right, b.Jump:
		return true
	}
	return false
}

// pulse presses key and schedules its release; opposite directions cancel.
func (c *Console) pulse(key string, now time.Time) {
	b := c.sink.Bindings()
	opposite := map[string]string{
		b.Forward: b.Back,
		b.Back:    b.Forward,
		b.Left:    b.Right,
		b.Right:   b.Left,
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if other, ok := opposite[key]; ok {
		if _, held := c.held[other]; held {
			delete(c.held, other)
			c.sink.KeyUp(other)
		}
	}
	c.held[key] = now.Add(c.movePulse)
	c.sink.KeyDown(key)
}

func (c *Console) releaseExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, until := range c.held {
		if !now.Before(until) {
			delete(c.held, key)
			c.sink.KeyUp(key)
		}
	}
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.held = make(map[string]time.Time)
	c.mu.Unlock()
	c.sink.Reset()
	slog.Debug("debug input cleared")
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		s := c.controller.Snapshot()
		if s.LoadFailed {
			fmt.Fprintf(c.out, "[debug] player model failed to load (frame %d)\r\n", s.Frame)
			return
		}
		if !s.Ready {
			fmt.Fprintf(c.out, "[debug] player not loaded (frame %d)\r\n", s.Frame)
			return
		}
		fmt.Fprintf(c.out, "[debug] frame=%d pos=(%.3f,%.3f,%.3f) vy=%.3f yaw=%.3f pitch=%.3f ground=%t supported=%t\r\n",
			s.Frame,
			s.Position.X(), s.Position.Y(), s.Position.Z(),
			s.VerticalVelocity, s.Yaw, s.Pitch, s.OnGround, s.Supported,
		)
	case "tp":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		if !c.controller.Teleport(mgl64.Vec3{x, y, z}) {
			fmt.Fprint(c.out, "[debug] player not loaded\r\n")
			return
		}
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	case "capture":
		if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
			fmt.Fprint(c.out, "[debug] usage: :capture on|off\r\n")
			return
		}
		c.sink.SetCaptured(parts[1] == "on")
		fmt.Fprintf(c.out, "[debug] pointer capture %s\r\n", parts[1])
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: pulse jump\r\n")
	fmt.Fprint(c.out, "  Arrows: look (captures pointer)\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :capture on|off\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	width := c.statusWidth
	c.mu.Unlock()

	s := c.controller.Snapshot()
	var line string
	if s.LoadFailed {
		line = fmt.Sprintf("[frame %d | player model failed to load]", s.Frame)
	} else if !s.Ready {
		line = fmt.Sprintf("[frame %d | loading player...]", s.Frame)
	} else {
		line = fmt.Sprintf(
			"[FWD:%s BCK:%s LFT:%s RGT:%s JMP:%s | YAW:%.2f PIT:%.2f | X:%.2f Y:%.2f Z:%.2f ground:%t]",
			boolLabel(s.Input.Forward),
			boolLabel(s.Input.Back),
			boolLabel(s.Input.Left),
			boolLabel(s.Input.Right),
			boolLabel(s.Input.Jump),
			s.Yaw,
			s.Pitch,
			s.Position.X(),
			s.Position.Y(),
			s.Position.Z(),
			s.OnGround,
		)
	}

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
