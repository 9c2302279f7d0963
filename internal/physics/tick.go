package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type PlayerState struct {
	Position         mgl64.Vec3
	VerticalVelocity float64
	Yaw              float64
	Pitch            float64
	OnGround         bool
}

type InputState struct {
	Forward     bool
	Back        bool
	Left        bool
	Right       bool
	Jump        bool
	MouseDeltaX float64
	MouseDeltaY float64
}

// CameraPose is the eye transform derived from a player state. Roll is always 0.
type CameraPose struct {
	Position mgl64.Vec3 `json:"position"`
	Pitch    float64    `json:"pitch"`
	Yaw      float64    `json:"yaw"`
	Roll     float64    `json:"roll"`
}

// Tick advances state by one frame and returns the camera pose for the new state.
func Tick(state *PlayerState, input InputState, p Params) CameraPose {
	if state == nil {
		return CameraPose{}
	}

	if p.VerticalPhysics {
		state.VerticalVelocity += p.Gravity
		if input.Jump && state.OnGround {
			state.VerticalVelocity = p.JumpImpulse
			state.OnGround = false
		}
		state.Position[1] += state.VerticalVelocity
	}

	// OnGround is only ever cleared by a jump.
	if state.Position.Y() <= p.GroundHeight {
		state.Position[1] = p.GroundHeight
		state.VerticalVelocity = 0
		state.OnGround = true
	}

	state.Yaw -= input.MouseDeltaX * p.Sensitivity
	state.Pitch -= input.MouseDeltaY * p.Sensitivity
	state.Pitch = clampPitch(state.Pitch, p.MinPitch, p.MaxPitch)

	state.Position = state.Position.Add(desiredMoveVector(input, state.Yaw).Mul(p.Speed))

	return PoseOf(*state, p)
}

// PoseOf returns the camera pose for a state without advancing it.
func PoseOf(state PlayerState, p Params) CameraPose {
	return CameraPose{
		Position: state.Position.Add(mgl64.Vec3{0, p.EyeHeight, 0}),
		Pitch:    state.Pitch,
		Yaw:      state.Yaw,
	}
}

// Forward is the horizontal unit vector the player walks along at yaw.
func Forward(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}

// Right is Forward rotated a quarter turn.
func Right(yaw float64) mgl64.Vec3 {
	return Forward(yaw + math.Pi/2)
}

// desiredMoveVector sums the active directions. Diagonals are not normalized.
func desiredMoveVector(input InputState, yaw float64) mgl64.Vec3 {
	forward := Forward(yaw)
	right := Right(yaw)

	var move mgl64.Vec3
	if input.Forward {
		move = move.Add(forward)
	}
	if input.Back {
		move = move.Sub(forward)
	}
	if input.Left {
		move = move.Sub(right)
	}
	if input.Right {
		move = move.Add(right)
	}
	return move
}

func clampPitch(pitch, lo, hi float64) float64 {
	if pitch < lo {
		return lo
	}
	if pitch > hi {
		return hi
	}
	return pitch
}
