package debug

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Versifine/walker/internal/game"
	"github.com/Versifine/walker/internal/input"
	"github.com/go-gl/mathgl/mgl64"
)

type fakeController struct {
	snap      game.Snapshot
	teleports []mgl64.Vec3
}

func (f *fakeController) Snapshot() game.Snapshot { return f.snap }

func (f *fakeController) Teleport(pos mgl64.Vec3) bool {
	if !f.snap.Ready {
		return false
	}
	f.teleports = append(f.teleports, pos)
	return true
}

func newTestConsole(ready bool) (*Console, *fakeController, *input.Collector, *bytes.Buffer) {
	ctrl := &fakeController{snap: game.Snapshot{Ready: ready, Supported: ready}}
	in := input.NewCollector(input.DefaultBindings())
	c := NewConsole(ctrl, in)
	c.statusInterval = time.Hour
	out := &bytes.Buffer{}
	c.out = out
	return c, ctrl, in, out
}

func feed(c *Console, keys string) {
	reader := bufio.NewReader(strings.NewReader(keys))
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return
		}
		c.handleKey(reader, b)
	}
}

func TestHandleKeyPulsesMovement(t *testing.T) {
	c, _, in, _ := newTestConsole(true)

	feed(c, "w")
	if !in.Consume().Forward {
		t.Fatalf("forward not held after key")
	}

	c.releaseExpired(time.Now())
	if !in.Consume().Forward {
		t.Fatalf("forward released before pulse expired")
	}

	c.releaseExpired(time.Now().Add(time.Second))
	if in.Consume().Forward {
		t.Fatalf("forward still held after pulse expired")
	}
}

func TestHandleKeyOppositeCancels(t *testing.T) {
	c, _, in, _ := newTestConsole(true)

	feed(c, "wS")
	got := in.Consume()
	if got.Forward || !got.Back {
		t.Fatalf("input = %+v, want only back", got)
	}
}

func TestHandleKeySpaceJumps(t *testing.T) {
	c, _, in, _ := newTestConsole(true)

	feed(c, " ")
	if !in.Consume().Jump {
		t.Fatalf("jump = false after space")
	}
}

func TestHandleKeyArrowsLook(t *testing.T) {
	tests := []struct {
		name   string
		seq    string
		dx, dy float64
	}{
		{"left", "\x1b[D", -lookStep, 0},
		{"right", "\x1b[C", lookStep, 0},
		{"up", "\x1b[A", 0, -lookStep},
		{"down", "\x1b[B", 0, lookStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, in, _ := newTestConsole(true)
			feed(c, tt.seq)
			if !in.Captured() {
				t.Fatalf("arrow did not capture pointer")
			}
			got := in.Consume()
			if got.MouseDeltaX != tt.dx || got.MouseDeltaY != tt.dy {
				t.Fatalf("deltas = (%v,%v), want (%v,%v)", got.MouseDeltaX, got.MouseDeltaY, tt.dx, tt.dy)
			}
		})
	}
}

func TestHandleKeyClear(t *testing.T) {
	c, _, in, _ := newTestConsole(true)

	feed(c, "wd\x1b[Cx")
	got := in.Consume()
	if got.Forward || got.Right || got.MouseDeltaX != 0 {
		t.Fatalf("input after clear = %+v, want zero", got)
	}
}

func TestHandleKeyIgnoresUnbound(t *testing.T) {
	c, _, in, _ := newTestConsole(true)

	feed(c, "k")
	if got := in.Consume(); got.Forward || got.Back || got.Left || got.Right || got.Jump {
		t.Fatalf("unbound key produced input %+v", got)
	}
}

func TestCommandTeleport(t *testing.T) {
	c, ctrl, _, out := newTestConsole(true)

	feed(c, ":tp 1 2.5 -3\r")

	if len(ctrl.teleports) != 1 {
		t.Fatalf("teleports = %d, want 1", len(ctrl.teleports))
	}
	if ctrl.teleports[0] != (mgl64.Vec3{1, 2.5, -3}) {
		t.Fatalf("teleport target = %v", ctrl.teleports[0])
	}
	if !strings.Contains(out.String(), "teleported to") {
		t.Fatalf("output missing confirmation: %q", out.String())
	}
	if c.isCommandMode() {
		t.Fatalf("still in command mode after enter")
	}
}

func TestExecuteCommand(t *testing.T) {
	tests := []struct {
		name  string
		ready bool
		cmd   string
		want  string
	}{
		{"tp before load", false, "tp 0 0 0", "player not loaded"},
		{"tp usage", true, "tp 1 2", "usage: :tp"},
		{"tp bad number", true, "tp a b c", "invalid tp args"},
		{"state before load", false, "state", "player not loaded"},
		{"state", true, "state", "pos=(0.000,0.000,0.000)"},
		{"state reports support", true, "state", "supported=true"},
		{"help", true, "help", ":tp <x> <y> <z>"},
		{"capture usage", true, "capture maybe", "usage: :capture"},
		{"unknown", true, "fly", "unknown command: fly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _, out := newTestConsole(tt.ready)
			c.executeCommand(tt.cmd)
			if !strings.Contains(out.String(), tt.want) {
				t.Fatalf("output = %q, want substring %q", out.String(), tt.want)
			}
		})
	}
}

func TestStateAfterLoadFailure(t *testing.T) {
	c, ctrl, _, out := newTestConsole(false)
	ctrl.snap.LoadFailed = true

	c.executeCommand("state")
	if !strings.Contains(out.String(), "model failed to load") {
		t.Fatalf("output = %q, want load failure", out.String())
	}

	out.Reset()
	c.renderStatusLine()
	if !strings.Contains(out.String(), "model failed to load") {
		t.Fatalf("status = %q, want load failure", out.String())
	}
}

func TestCommandCapture(t *testing.T) {
	c, _, in, _ := newTestConsole(true)

	c.executeCommand("capture on")
	if !in.Captured() {
		t.Fatalf("capture on did not capture")
	}
	c.executeCommand("capture off")
	if in.Captured() {
		t.Fatalf("capture off did not release")
	}
}

func TestCommandModeEditing(t *testing.T) {
	c, ctrl, _, _ := newTestConsole(true)

	// typo, backspace, then escape cancels without running anything
	feed(c, ":tpx\x7f 1 1 1\x1b")
	if c.isCommandMode() {
		t.Fatalf("escape did not leave command mode")
	}
	if len(ctrl.teleports) != 0 {
		t.Fatalf("cancelled command was executed")
	}
}

func TestStatusLine(t *testing.T) {
	c, ctrl, _, out := newTestConsole(false)
	ctrl.snap.Frame = 7

	c.renderStatusLine()
	if !strings.Contains(out.String(), "loading player") {
		t.Fatalf("status = %q, want loading", out.String())
	}

	out.Reset()
	ctrl.snap = game.Snapshot{Ready: true, OnGround: true}
	ctrl.snap.Input.Forward = true
	c.renderStatusLine()
	if !strings.Contains(out.String(), "FWD:on") || !strings.Contains(out.String(), "ground:true") {
		t.Fatalf("status = %q", out.String())
	}
}

func TestRunStopsOnContextWithoutInput(t *testing.T) {
	c, _, _, _ := newTestConsole(true)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- c.run(ctx, pr) }()

	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("run() still blocked on input after cancel")
	}
}

func TestRunHandlesKeysUntilCtrlC(t *testing.T) {
	c, _, in, _ := newTestConsole(true)

	err := c.run(context.Background(), strings.NewReader("w\x1b[C\x03ignored"))
	if err != nil {
		t.Fatalf("run() error = %v, want nil", err)
	}
	got := in.Consume()
	if !got.Forward || got.MouseDeltaX != lookStep {
		t.Fatalf("input = %+v, want forward and one look step", got)
	}
}

func TestRunReportsReadError(t *testing.T) {
	c, _, _, _ := newTestConsole(true)

	if err := c.run(context.Background(), strings.NewReader("w")); err == nil {
		t.Fatal("run() error = nil at end of input")
	}
}
