package physics

import (
	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// BoxCollider is an upright box whose origin sits at the centre of its bottom face.
type BoxCollider struct {
	Width  float32
	Height float32
}

// Cuboid returns the collider's bounds in local space.
func (c BoxCollider) Cuboid() world.Cuboid {
	hw := c.Width / 2
	return world.NewCuboid(mgl32.Vec3{-hw, 0, -hw}, mgl32.Vec3{hw, c.Height, hw})
}

// At returns the collider's bounds with its origin at pos.
func (c BoxCollider) At(pos mgl32.Vec3) world.Cuboid {
	return c.Cuboid().Translate(pos)
}

// Velocity is a body's velocity together with the value it had at the end of
// the previous tick.
type Velocity struct {
	Vel  mgl32.Vec3
	prev mgl32.Vec3
}

func NewVelocity(v mgl32.Vec3) Velocity {
	return Velocity{Vel: v, prev: v}
}

// Delta is the change of velocity during the current tick.
func (v Velocity) Delta() mgl32.Vec3 {
	return v.Vel.Sub(v.prev)
}

// Effective is the midpoint between the previous and current velocity. Moving
// with it integrates constant acceleration exactly.
func (v Velocity) Effective() mgl32.Vec3 {
	return v.Vel.Sub(v.Delta().Mul(0.5))
}

// Accelerate applies acceleration a for dt seconds.
func (v *Velocity) Accelerate(a mgl32.Vec3, dt float32) {
	v.Vel = v.Vel.Add(a.Mul(dt))
}

// EndTick remembers the current velocity as the previous one.
func (v *Velocity) EndTick() {
	v.prev = v.Vel
}
