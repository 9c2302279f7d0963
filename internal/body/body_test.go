package body

import (
	"math"
	"sync"
	"testing"

	"github.com/Versifine/walker/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

func TestBodyTick_ReportsJumpAndLanding(t *testing.T) {
	b := New(mgl64.Vec3{0, 1, 0}, physics.BlocksParams())

	// First tick settles onto the ground.
	_, tr, err := b.Tick(InputState{})
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if !tr.Landed || tr.Jumped {
		t.Fatalf("settle transition = %+v, want landed only", tr)
	}

	_, tr, _ = b.Tick(InputState{Jump: true})
	if !tr.Jumped || tr.Landed {
		t.Fatalf("jump transition = %+v, want jumped only", tr)
	}

	landings := 0
	for i := 0; i < 100; i++ {
		_, tr, _ = b.Tick(InputState{})
		if tr.Jumped {
			t.Fatalf("tick %d: unexpected jump", i)
		}
		if tr.Landed {
			landings++
		}
	}
	if landings != 1 {
		t.Fatalf("landings = %d, want 1", landings)
	}
}

func TestBodyTick_PoseTracksState(t *testing.T) {
	b := New(mgl64.Vec3{1, 0, 2}, physics.FieldParams())

	pose, _, err := b.Tick(InputState{Forward: true, MouseDeltaX: 10})
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	state := b.PhysicsState()
	want := state.Position.Add(mgl64.Vec3{0, physics.EyeHeight, 0})
	if !vecNear(pose.Position, want, 1e-12) {
		t.Fatalf("pose.position = %v, want %v", pose.Position, want)
	}
	if b.Pose() != pose {
		t.Fatalf("Pose() = %+v, want %+v", b.Pose(), pose)
	}
	if math.Abs(state.Yaw+0.02) > 1e-12 {
		t.Fatalf("yaw = %v, want -0.02", state.Yaw)
	}
}

func TestBodySetLocalPosition(t *testing.T) {
	b := New(mgl64.Vec3{}, physics.BlocksParams())

	b.SetLocalPosition(mgl64.Vec3{5, 10, -5})

	if got := b.PhysicsState().Position; got != (mgl64.Vec3{5, 10, -5}) {
		t.Fatalf("position = %v, want (5,10,-5)", got)
	}
	if got := b.Pose().Position.Y(); got != 10+physics.EyeHeight {
		t.Fatalf("pose.y = %v, want %v", got, 10+physics.EyeHeight)
	}

	_, _, _ = b.Tick(InputState{})
	if got := b.PhysicsState().Position.Y(); got >= 10 {
		t.Fatalf("position.y = %v, want falling below 10", got)
	}
}

func TestBodyNilTick(t *testing.T) {
	var b *Body
	if _, _, err := b.Tick(InputState{}); err == nil {
		t.Fatalf("Tick() on nil body error = nil, want error")
	}
}

func TestBodyConcurrentReads(t *testing.T) {
	b := New(mgl64.Vec3{}, physics.BlocksParams())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = b.PhysicsState()
			_ = b.Pose()
		}
	}()
	for i := 0; i < 500; i++ {
		_, _, _ = b.Tick(InputState{Forward: true, Jump: i%30 == 0})
	}
	wg.Wait()
}

// vecNear compares component-wise with an absolute tolerance. mathgl's
// ApproxEqualThreshold is relative and rejects tiny noise around zero.
func vecNear(got, want mgl64.Vec3, tol float64) bool {
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}
