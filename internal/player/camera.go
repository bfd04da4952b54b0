package player

import (
	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds the projection parameters for the player's view.
type Camera struct {
	AspectRatio float32
	FOV         float32 // vertical, radians
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(fov float32, width, height int) *Camera {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return &Camera{
		AspectRatio: aspect,
		FOV:         fov,
		NearPlane:   0.1,
		FarPlane:    1000.0,
	}
}

func (c *Camera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

// View looks from the player's eye along the look direction.
func (c *Camera) View(p *Player) mgl32.Mat4 {
	eye := p.EyePosition()
	return mgl32.LookAtV(eye, eye.Add(p.Look.Dir()), mgl32.Vec3{0, 1, 0})
}

// ViewProjection is Projection * View, the clip transform used for culling.
func (c *Camera) ViewProjection(p *Player) mgl32.Mat4 {
	return c.Projection().Mul4(c.View(p))
}

// InFrustum tests a box, inflated by margin blocks, against the clip-space
// half-spaces of clip. The box is culled only when all 8 corners lie outside
// the same plane, so it may report boxes that are just outside a corner.
func InFrustum(clip mgl32.Mat4, box world.Cuboid, margin float32) bool {
	b := box.Expand(margin)
	var v [8]mgl32.Vec4
	for i := range v {
		corner := b.Min
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		v[i] = clip.Mul4x1(corner.Vec4(1))
	}

	// x, y, z each bounded on both sides by w
	for axis := 0; axis < 3; axis++ {
		for _, sign := range [2]float32{1, -1} {
			outside := true
			for i := range v {
				if sign*v[i][axis]-v[i][3] <= 0 {
					outside = false
					break
				}
			}
			if outside {
				return false
			}
		}
	}
	return true
}

// ChunkBounds is the world-space box covered by a chunk.
func ChunkBounds(pos world.ChunkPos) world.Cuboid {
	origin := pos.BlockPos().WorldPos()
	size := float32(world.ChunkLength)
	return world.NewCuboid(origin, origin.Add(mgl32.Vec3{size, size, size}))
}
