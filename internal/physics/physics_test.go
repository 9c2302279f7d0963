package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func approxEqual(t *testing.T, got, want, tol float64, field string) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Fatalf("%s = %.8f, want %.8f (tol=%.8f)", field, got, want, tol)
	}
}

func TestTick_JumpFromGround(t *testing.T) {
	p := BlocksParams()
	state := &PlayerState{
		Position: mgl64.Vec3{0, 1, 0},
		OnGround: true,
	}

	Tick(state, InputState{Jump: true}, p)

	approxEqual(t, state.VerticalVelocity, 0.35, 1e-12, "velocity.y")
	approxEqual(t, state.Position.Y(), 1.35, 1e-12, "position.y")
	if state.OnGround {
		t.Fatalf("onGround = true, want false")
	}
}

func TestTick_JumpIgnoredWhenAirborne(t *testing.T) {
	p := BlocksParams()
	state := &PlayerState{
		Position:         mgl64.Vec3{0, 3, 0},
		VerticalVelocity: 0.1,
	}

	Tick(state, InputState{Jump: true}, p)

	approxEqual(t, state.VerticalVelocity, 0.1+GravityAcceleration, 1e-12, "velocity.y")
	approxEqual(t, state.Position.Y(), 3+0.1+GravityAcceleration, 1e-12, "position.y")
	if state.OnGround {
		t.Fatalf("onGround = true, want false")
	}
}

func TestTick_RestingIsIdempotent(t *testing.T) {
	for name, p := range map[string]Params{"field": FieldParams(), "blocks": BlocksParams()} {
		t.Run(name, func(t *testing.T) {
			state := &PlayerState{
				Position: mgl64.Vec3{2, p.GroundHeight, -3},
				Yaw:      0.4,
				Pitch:    -0.2,
				OnGround: true,
			}
			before := *state

			for i := 0; i < 120; i++ {
				Tick(state, InputState{}, p)
				if *state != before {
					t.Fatalf("tick %d: state = %+v, want %+v", i, *state, before)
				}
			}
		})
	}
}

func TestTick_FallLandsOnGround(t *testing.T) {
	p := BlocksParams()
	state := &PlayerState{Position: mgl64.Vec3{0, 5, 0}}

	landed := -1
	for i := 0; i < 200; i++ {
		Tick(state, InputState{}, p)
		if state.Position.Y() < p.GroundHeight {
			t.Fatalf("tick %d: position.y = %.6f below ground", i, state.Position.Y())
		}
		if state.OnGround && landed < 0 {
			landed = i
		}
	}

	if landed < 0 {
		t.Fatalf("never landed")
	}
	approxEqual(t, state.Position.Y(), p.GroundHeight, 0, "position.y")
	approxEqual(t, state.VerticalVelocity, 0, 0, "velocity.y")
}

func TestTick_JumpArcReturnsToGround(t *testing.T) {
	p := BlocksParams()
	state := &PlayerState{Position: mgl64.Vec3{0, 1, 0}, OnGround: true}

	maxY := state.Position.Y()
	airborne := 0
	for i := 0; i < 100; i++ {
		input := InputState{}
		if i == 0 {
			input.Jump = true
		}
		Tick(state, input, p)
		if state.Position.Y() > maxY {
			maxY = state.Position.Y()
		}
		if !state.OnGround {
			airborne++
		}
	}

	// v0=0.35, g=0.015 per frame: 24 rising frames, apex near 5.26.
	if maxY < 4.9 || maxY > 5.4 {
		t.Fatalf("jump apex = %.4f, want around 5.26", maxY)
	}
	if !state.OnGround {
		t.Fatalf("onGround = false after 100 ticks, want true")
	}
	if airborne < 40 || airborne > 50 {
		t.Fatalf("airborne ticks = %d, want about 47", airborne)
	}
}

func TestTick_FieldVariantIgnoresJump(t *testing.T) {
	p := FieldParams()
	state := &PlayerState{OnGround: true}

	Tick(state, InputState{Jump: true}, p)

	approxEqual(t, state.Position.Y(), 0, 0, "position.y")
	approxEqual(t, state.VerticalVelocity, 0, 0, "velocity.y")
	if !state.OnGround {
		t.Fatalf("onGround = false, want true")
	}
}

func TestTick_AirborneWithoutJumpKeepsOnGroundFlag(t *testing.T) {
	p := BlocksParams()
	state := &PlayerState{Position: mgl64.Vec3{0, 4, 0}, OnGround: true}

	Tick(state, InputState{}, p)

	if !state.OnGround {
		t.Fatalf("onGround = false, want true (only a jump clears it)")
	}
}

func TestTick_ForwardAtZeroYaw(t *testing.T) {
	p := FieldParams()
	state := &PlayerState{}

	Tick(state, InputState{Forward: true}, p)

	approxEqual(t, state.Position.X(), 0, 1e-12, "position.x")
	approxEqual(t, state.Position.Y(), 0, 1e-12, "position.y")
	approxEqual(t, state.Position.Z(), p.Speed, 1e-12, "position.z")
}

func TestTick_DirectionSigns(t *testing.T) {
	p := FieldParams()
	tests := []struct {
		name  string
		input InputState
		want  mgl64.Vec3
	}{
		{"forward", InputState{Forward: true}, mgl64.Vec3{0, 0, p.Speed}},
		{"back", InputState{Back: true}, mgl64.Vec3{0, 0, -p.Speed}},
		{"right", InputState{Right: true}, mgl64.Vec3{p.Speed, 0, 0}},
		{"left", InputState{Left: true}, mgl64.Vec3{-p.Speed, 0, 0}},
		{"forward and back cancel", InputState{Forward: true, Back: true}, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &PlayerState{}
			Tick(state, tt.input, p)
			if !vecNear(state.Position, tt.want, 1e-12) {
				t.Fatalf("position = %v, want %v", state.Position, tt.want)
			}
		})
	}
}

func TestTick_DiagonalIsNotNormalized(t *testing.T) {
	p := FieldParams()
	state := &PlayerState{Yaw: 0.7}

	Tick(state, InputState{Forward: true, Right: true}, p)

	approxEqual(t, state.Position.Len(), p.Speed*math.Sqrt2, 1e-12, "displacement")
}

func TestTick_MovementFollowsYaw(t *testing.T) {
	p := FieldParams()
	state := &PlayerState{Yaw: math.Pi / 2}

	Tick(state, InputState{Forward: true}, p)

	approxEqual(t, state.Position.X(), p.Speed, 1e-12, "position.x")
	approxEqual(t, state.Position.Z(), 0, 1e-12, "position.z")
}

func TestTick_MouseLook(t *testing.T) {
	p := FieldParams()
	state := &PlayerState{}

	Tick(state, InputState{MouseDeltaX: 100, MouseDeltaY: -50}, p)

	approxEqual(t, state.Yaw, -0.2, 1e-12, "yaw")
	approxEqual(t, state.Pitch, 0.1, 1e-12, "pitch")
}

func TestTick_PitchStaysClamped(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		limit  float64
	}{
		{"field", FieldParams(), math.Pi / 2},
		{"blocks", BlocksParams(), 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &PlayerState{}
			deltas := []float64{1e6, -3e6, 5e5, -1, 1, 2e7, -2e7}
			for i, dy := range deltas {
				Tick(state, InputState{MouseDeltaY: dy}, tt.params)
				if state.Pitch < -tt.limit || state.Pitch > tt.limit {
					t.Fatalf("step %d: pitch = %.6f outside ±%.6f", i, state.Pitch, tt.limit)
				}
			}

			Tick(state, InputState{MouseDeltaY: -1e9}, tt.params)
			approxEqual(t, state.Pitch, tt.limit, 0, "pitch")
			Tick(state, InputState{MouseDeltaY: 1e9}, tt.params)
			approxEqual(t, state.Pitch, -tt.limit, 0, "pitch")
		})
	}
}

func TestTick_CameraPose(t *testing.T) {
	p := BlocksParams()
	state := &PlayerState{Position: mgl64.Vec3{3, 1, 4}, Yaw: 1.2, Pitch: -0.3, OnGround: true}

	pose := Tick(state, InputState{}, p)

	want := mgl64.Vec3{3, 1 + EyeHeight, 4}
	if !vecNear(pose.Position, want, 1e-12) {
		t.Fatalf("pose.position = %v, want %v", pose.Position, want)
	}
	if pose.Yaw != state.Yaw || pose.Pitch != state.Pitch || pose.Roll != 0 {
		t.Fatalf("pose orientation = (%v,%v,%v), want (%v,%v,0)", pose.Pitch, pose.Yaw, pose.Roll, state.Pitch, state.Yaw)
	}
}

func TestTick_NilStateIsNoop(t *testing.T) {
	if pose := Tick(nil, InputState{Forward: true}, FieldParams()); pose != (CameraPose{}) {
		t.Fatalf("pose = %+v, want zero", pose)
	}
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
