package event

const (
	EventFrame        = "frame"
	EventEntityLoaded = "entity.loaded"
	EventAssetFailed  = "asset.failed"
	EventPlayerJump   = "player.jump"
	EventPlayerLand   = "player.land"
)

type EntityLoadedEvent struct {
	ModelID string
	Meshes  int
}

type AssetFailedEvent struct {
	ModelID string
	Err     error
}

// PlayerEvent carries the frame and position at a jump or landing.
type PlayerEvent struct {
	Frame uint64
	X     float64
	Y     float64
	Z     float64
}
