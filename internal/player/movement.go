package player

import (
	"math"

	"voxel-game/internal/physics"
	"voxel-game/internal/profiling"
	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Input is the host's per-tick intent for the player.
type Input struct {
	Walk       mgl32.Vec2 // x = right, y = forward, each in [-1, 1]
	Rotate     mgl32.Vec2 // pitch, yaw deltas in radians
	Jump       bool       // pressed this tick
	HoldJump   bool
	HoldCrouch bool
	ToggleFly  bool
	ToggleCam  bool
	Break      bool
	Place      bool
	SelectSlot int // 1-based; 0 keeps the current block
}

// Tick advances the player by dt: accelerate, translate with collision, then
// remember the velocity for the next tick's midpoint step.
func (p *Player) Tick(w *world.World, in Input, dt float32) {
	defer profiling.Track("player.Tick")()

	p.Look = p.Look.Rotate(in.Rotate.X(), in.Rotate.Y())
	if in.ToggleCam {
		p.FreeCam = !p.FreeCam
		p.OnGround = false
	}
	if in.ToggleFly {
		p.Flying = !p.Flying
		if p.Flying {
			p.Velocity.Vel[1] = 0
		}
	}

	if p.FreeCam {
		p.accelFreeCam(in, dt)
		p.Position = p.Position.Add(p.Velocity.Effective().Mul(dt))
	} else {
		p.accel(in, dt)
		p.OnGround = physics.MoveAndSlide(w, &p.Position, &p.Velocity, p.Collider, dt)
	}

	p.Velocity.EndTick()
}

func (p *Player) accel(in Input, dt float32) {
	v := &p.Velocity

	accel := float32(AirAccel)
	drag := float32(AirDrag)
	if p.OnGround {
		accel, drag = GroundAccel, GroundFriction
	}

	y := v.Vel.Y()
	v.Vel = v.Vel.Add(p.Look.WalkVector(in.Walk).Mul(accel * dt))
	v.Vel = v.Vel.Mul(halve(drag, dt))
	v.Vel[1] = y

	switch {
	case p.Flying:
		v.Vel[1] = 0
		if in.HoldCrouch {
			v.Vel[1] = -FlySpeed * dt
		}
		if in.HoldJump {
			v.Vel[1] = FlySpeed * dt
		}
	case in.Jump && p.OnGround:
		v.Vel[1] = JumpVelocity
	}

	if !p.Flying {
		v.Accelerate(mgl32.Vec3{0, Gravity, 0}, dt)
	}
}

// accelFreeCam moves along the full view direction without gravity.
func (p *Player) accelFreeCam(in Input, dt float32) {
	dir := p.Look.quat().Rotate(mgl32.Vec3{in.Walk.X(), 0, -in.Walk.Y()})
	p.Velocity.Vel = p.Velocity.Vel.Add(dir.Mul(FreeCamSpeed * dt)).Mul(halve(AirDrag, dt))
}

// halve returns the factor that halves a speed every 1/rate seconds.
func halve(rate, dt float32) float32 {
	return float32(math.Exp2(float64(-rate * dt)))
}
