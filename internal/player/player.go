package player

import (
	"math"

	"voxel-game/internal/physics"
	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	Width     = 0.8
	Height    = 1.85
	EyeHeight = 1.65

	Gravity = -20.0

	GroundAccel    = 80.0 // m/s²
	AirAccel       = 40.0
	GroundFriction = 16.0 // 1 / seconds to halve horizontal speed
	AirDrag        = 8.0
	JumpVelocity   = 7.0
	FlySpeed       = 200.0 // vertical m/s² while flying
	FreeCamSpeed   = 40.0

	spawnClearance = 4
)

// LookDirection is a pitch/yaw pair in radians. Yaw 0 looks along -Z.
type LookDirection struct {
	Pitch float32
	Yaw   float32
}

// Rotate adds the deltas, keeps pitch just short of straight up/down and wraps
// yaw into [0, τ).
func (l LookDirection) Rotate(dPitch, dYaw float32) LookDirection {
	const limit = math.Pi/2 - 0.001
	l.Pitch = mgl32.Clamp(l.Pitch+dPitch, -limit, limit)
	yaw := math.Mod(float64(l.Yaw)+float64(dYaw), 2*math.Pi)
	if yaw < 0 {
		yaw += 2 * math.Pi
	}
	l.Yaw = float32(yaw)
	if l.Yaw >= 2*math.Pi {
		// rounding to float32 can land exactly on τ
		l.Yaw = 0
	}
	return l
}

func (l LookDirection) quat() mgl32.Quat {
	yaw := mgl32.QuatRotate(l.Yaw, mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(l.Pitch, mgl32.Vec3{1, 0, 0})
	return yaw.Mul(pitch)
}

// Dir returns the unit view direction.
func (l LookDirection) Dir() mgl32.Vec3 {
	return l.quat().Rotate(mgl32.Vec3{0, 0, -1})
}

// WalkVector turns a 2D walk input (x = right, y = forward) into a horizontal
// world direction of length at most 1.
func (l LookDirection) WalkVector(walk mgl32.Vec2) mgl32.Vec3 {
	v := mgl32.QuatRotate(l.Yaw, mgl32.Vec3{0, 1, 0}).Rotate(mgl32.Vec3{walk.X(), 0, -walk.Y()})
	if n := v.Len(); n > 1 {
		v = v.Mul(1 / n)
	}
	return v
}

// Player is the locally controlled body.
type Player struct {
	Position mgl32.Vec3 // bottom centre of the collider
	Velocity physics.Velocity
	Collider physics.BoxCollider
	Look     LookDirection
	OnGround bool
	Flying   bool
	FreeCam  bool

	selected int
}

// New places a player at pos.
func New(pos mgl32.Vec3) *Player {
	return &Player{
		Position: pos,
		Collider: physics.BoxCollider{Width: Width, Height: Height},
	}
}

// SpawnPosition returns a point a few blocks above the terrain at world
// column (16, 16), centred in the block.
func SpawnPosition(gen world.TerrainGenerator) mgl32.Vec3 {
	h := gen.HeightAt(16, 16)
	return mgl32.Vec3{16.5, float32(h + spawnClearance), 16.5}
}

// EyePosition is where rays for block interaction start.
func (p *Player) EyePosition() mgl32.Vec3 {
	return p.Position.Add(mgl32.Vec3{0, EyeHeight, 0})
}

// Ray returns the reach ray along the view direction.
func (p *Player) Ray() physics.FiniteRay {
	return physics.NewFiniteRay(p.EyePosition(), p.Look.Dir(), physics.MaxReachDistance)
}

// Bounds is the collider in world space.
func (p *Player) Bounds() world.Cuboid {
	return p.Collider.At(p.Position)
}
