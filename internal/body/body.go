package body

import (
	"fmt"
	"sync"

	"github.com/Versifine/walker/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

// Transition reports ground contact changes caused by a single tick.
type Transition struct {
	Jumped bool
	Landed bool
}

// Body is the controlled player entity. The frame loop is the only writer;
// the mutex lets consoles and spectators read snapshots from other goroutines.
type Body struct {
	mu      sync.Mutex
	physics physics.PlayerState
	params  physics.Params
	pose    physics.CameraPose
}

func New(initial mgl64.Vec3, params physics.Params) *Body {
	b := &Body{
		physics: physics.PlayerState{Position: initial},
		params:  params,
	}
	b.pose = physics.PoseOf(b.physics, params)
	return b
}

func (b *Body) Tick(input InputState) (physics.CameraPose, Transition, error) {
	if b == nil {
		return physics.CameraPose{}, Transition{}, fmt.Errorf("body is nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	wasOnGround := b.physics.OnGround
	pose := physics.Tick(&b.physics, input, b.params)
	b.pose = pose

	tr := Transition{
		Jumped: wasOnGround && !b.physics.OnGround,
		Landed: !wasOnGround && b.physics.OnGround,
	}
	return pose, tr, nil
}

func (b *Body) PhysicsState() physics.PlayerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.physics
}

func (b *Body) Pose() physics.CameraPose {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pose
}

// SetLocalPosition moves the body without touching velocity or orientation.
// The next tick applies gravity and the ground clamp as usual.
func (b *Body) SetLocalPosition(pos mgl64.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.physics.Position = pos
	b.pose = physics.PoseOf(b.physics, b.params)
}
