package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Versifine/walker/internal/asset"
	"github.com/Versifine/walker/internal/body"
	"github.com/Versifine/walker/internal/event"
	"github.com/Versifine/walker/internal/input"
	"github.com/Versifine/walker/internal/physics"
	"github.com/Versifine/walker/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Snapshot is a copy of the session state after one frame.
type Snapshot struct {
	Frame            uint64             `json:"frame"`
	Ready            bool               `json:"ready"`
	LoadFailed       bool               `json:"load_failed"`
	Variant          string             `json:"variant"`
	Position         mgl64.Vec3         `json:"position"`
	VerticalVelocity float64            `json:"vertical_velocity"`
	Yaw              float64            `json:"yaw"`
	Pitch            float64            `json:"pitch"`
	OnGround         bool               `json:"on_ground"`
	Supported        bool               `json:"supported"`
	Camera           physics.CameraPose `json:"camera"`
	Input            body.InputState    `json:"input"`
	Captured         bool               `json:"captured"`
}

// Session is the long-lived game context. It starts without a player and
// becomes ready once, when the model load succeeds.
type Session struct {
	scene   *scene.Scene
	input   *input.Collector
	bus     *event.Bus
	params  physics.Params
	pending *asset.Pending

	mu        sync.Mutex
	body      *body.Body
	frame     uint64
	failed    bool
	lastInput body.InputState
}

func NewSession(sc *scene.Scene, in *input.Collector, bus *event.Bus, params physics.Params, pending *asset.Pending) *Session {
	return &Session{
		scene:   sc,
		input:   in,
		bus:     bus,
		params:  params,
		pending: pending,
	}
}

func (s *Session) Input() *input.Collector {
	return s.input
}

// Frame is the per-frame callback. Until the player exists only the load is
// polled; pending mouse movement stays queued for the first ready frame.
func (s *Session) Frame() Snapshot {
	s.mu.Lock()
	s.frame++
	s.pollAssetLocked()

	var jumped, landed bool
	if s.body != nil {
		in := s.input.Consume()
		pose, tr, err := s.body.Tick(in)
		if err != nil {
			slog.Debug("body tick failed", "error", err)
		}
		state := s.body.PhysicsState()
		if e := s.scene.Entity; e != nil {
			e.Position = state.Position
			e.Yaw = state.Yaw
		}
		s.scene.Camera.Pose = pose
		s.lastInput = in
		jumped, landed = tr.Jumped, tr.Landed
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if jumped {
		s.bus.Publish(event.EventPlayerJump, playerEvent(snap))
	}
	if landed {
		s.bus.Publish(event.EventPlayerLand, playerEvent(snap))
	}
	s.bus.Publish(event.EventFrame, snap)
	return snap
}

func (s *Session) pollAssetLocked() {
	if s.body != nil || s.failed || s.pending == nil {
		return
	}
	res, ok := s.pending.Poll()
	if !ok {
		return
	}
	if res.Err != nil {
		s.failed = true
		slog.Error("Failed to load player model", "model", s.pending.ID(), "error", res.Err)
		s.bus.Publish(event.EventAssetFailed, &event.AssetFailedEvent{ModelID: s.pending.ID(), Err: res.Err})
		return
	}
	if res.Model == nil {
		s.failed = true
		slog.Error("Failed to load player model", "model", s.pending.ID(), "error", "loader returned no model")
		s.bus.Publish(event.EventAssetFailed, &event.AssetFailedEvent{
			ModelID: s.pending.ID(),
			Err:     fmt.Errorf("loader returned no model for %s", s.pending.ID()),
		})
		return
	}

	entity := s.scene.AttachEntity(res.Model)
	s.body = body.New(entity.Position, s.params)
	s.scene.Camera.Pose = s.body.Pose()
	slog.Info("Player loaded", "model", res.Model.ID, "meshes", len(res.Model.Meshes), "frame", s.frame)
	s.bus.Publish(event.EventEntityLoaded, &event.EntityLoadedEvent{ModelID: res.Model.ID, Meshes: len(res.Model.Meshes)})
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Frame:      s.frame,
		Ready:      s.body != nil,
		LoadFailed: s.failed,
		Variant:    string(s.scene.Variant),
		Camera:     s.scene.Camera.Pose,
		Input:      s.lastInput,
		Captured:   s.input.Captured(),
	}
	if s.body != nil {
		state := s.body.PhysicsState()
		snap.Position = state.Position
		snap.VerticalVelocity = state.VerticalVelocity
		snap.Yaw = state.Yaw
		snap.Pitch = state.Pitch
		snap.OnGround = state.OnGround
		snap.Supported = s.scene.Ground.Supports(state.Position.X(), state.Position.Z())
	}
	return snap
}

// Teleport moves the player. It reports false while no player exists.
func (s *Session) Teleport(pos mgl64.Vec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.body == nil {
		return false
	}
	s.body.SetLocalPosition(pos)
	if e := s.scene.Entity; e != nil {
		e.Position = pos
	}
	s.scene.Camera.Pose = s.body.Pose()
	return true
}

// Resize forwards a viewport change to the scene camera.
func (s *Session) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene.Resize(width, height)
}

// View returns the camera matrices and background for a presenter.
func (s *Session) View() (view, projection mgl64.Mat4, background scene.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Camera.View(), s.scene.Camera.Projection(), s.scene.Background
}

// Run calls Frame at tickRate frames per second until ctx is done. The
// physics constants are per frame, so tickRate sets the game speed.
func (s *Session) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		return fmt.Errorf("invalid tick rate %d", tickRate)
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Frame()
		}
	}
}

func playerEvent(snap Snapshot) *event.PlayerEvent {
	return &event.PlayerEvent{
		Frame: snap.Frame,
		X:     snap.Position.X(),
		Y:     snap.Position.Y(),
		Z:     snap.Position.Z(),
	}
}
