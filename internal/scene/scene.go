package scene

import (
	"fmt"
	"math"

	"github.com/Versifine/walker/internal/asset"
	"github.com/Versifine/walker/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
)

type Variant string

const (
	VariantField  Variant = "field"
	VariantBlocks Variant = "blocks"
)

// Color is a packed 0xRRGGBB value.
type Color uint32

func (c Color) RGB() (r, g, b float32) {
	return float32(c>>16&0xff) / 255, float32(c>>8&0xff) / 255, float32(c&0xff) / 255
}

const (
	SkyBlue    Color = 0x87ceeb
	GrassGreen Color = 0x3a7d44
	White      Color = 0xffffff
)

const (
	planeSize      = 100.0
	blockGridSize  = 20
	entityScale    = 0.5
	cameraStartZ   = 5.0
	ambientIntense = 0.4
)

type LightKind int

const (
	DirectionalLight LightKind = iota
	AmbientLight
)

type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float64
	Position  mgl64.Vec3
}

// Ground is the walkable floor. Height is the y the player stands on;
// Supports reports whether the floor extends under (x, z).
type Ground interface {
	Height() float64
	Supports(x, z float64) bool
}

type Plane struct {
	Width float64
	Depth float64
	Y     float64
	Color Color
}

func (p *Plane) Height() float64 {
	return p.Y
}

func (p *Plane) Supports(x, z float64) bool {
	return math.Abs(x) <= p.Width/2 && math.Abs(z) <= p.Depth/2
}

type Entity struct {
	Model    *asset.Model
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	Yaw      float64
}

// matrix is the entity's model matrix: translate, then yaw, then scale.
func (e *Entity) matrix() mgl64.Mat4 {
	return mgl64.Translate3D(e.Position.X(), e.Position.Y(), e.Position.Z()).
		Mul4(mgl64.HomogRotate3DY(e.Yaw)).
		Mul4(mgl64.Scale3D(e.Scale.X(), e.Scale.Y(), e.Scale.Z()))
}

type Scene struct {
	Variant    Variant
	Background Color
	Camera     *Camera
	Lights     []Light
	Ground     Ground
	Entity     *Entity
}

func New(variant Variant, width, height int) (*Scene, error) {
	var ground Ground
	switch variant {
	case VariantField:
		ground = &Plane{Width: planeSize, Depth: planeSize, Y: physics.FieldGroundHeight, Color: GrassGreen}
	case VariantBlocks:
		ground = NewBlockGrid(blockGridSize, blockGridSize, GrassGreen)
	default:
		return nil, fmt.Errorf("unknown scene variant %q", variant)
	}

	cam := NewCamera(width, height)
	cam.Pose.Position = mgl64.Vec3{0, physics.EyeHeight, cameraStartZ}

	return &Scene{
		Variant:    variant,
		Background: SkyBlue,
		Camera:     cam,
		Lights: []Light{
			{Kind: DirectionalLight, Color: White, Intensity: 1, Position: mgl64.Vec3{5, 10, 5}},
			{Kind: AmbientLight, Color: White, Intensity: ambientIntense},
		},
		Ground: ground,
	}, nil
}

// Params returns the motion tuning that matches the variant's ground.
func (s *Scene) Params() physics.Params {
	p := physics.FieldParams()
	if s.Variant == VariantBlocks {
		p = physics.BlocksParams()
	}
	p.GroundHeight = s.Ground.Height()
	return p
}

// AttachEntity places a freshly loaded model at the origin of the ground.
func (s *Scene) AttachEntity(model *asset.Model) *Entity {
	model.EnableShadows()
	s.Entity = &Entity{
		Model:    model,
		Position: mgl64.Vec3{0, s.Ground.Height(), 0},
		Scale:    mgl64.Vec3{entityScale, entityScale, entityScale},
	}
	return s.Entity
}

func (s *Scene) Resize(width, height int) {
	s.Camera.SetViewport(width, height)
}
