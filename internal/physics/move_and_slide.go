package physics

import (
	"math"

	"voxel-game/internal/profiling"
	"voxel-game/internal/registry"
	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// sweepMargin pads the swept bounds when gathering candidate blocks.
const sweepMargin = 0.2

type contact struct {
	t     float32
	face  world.Face // face of the moving box that touched
	plane float32    // coordinate of the touched block face
}

// MoveAndSlide moves a box collider at pos through the world for dt seconds,
// stopping at solid blocks and sliding along them. Every axis that hits
// something has its velocity zeroed in vel. It reports whether the box landed
// on something this step.
func MoveAndSlide(w *world.World, pos *mgl32.Vec3, vel *Velocity, col BoxCollider, dt float32) bool {
	defer profiling.Track("physics.MoveAndSlide")()

	v := vel.Effective()
	remaining := dt
	onGround := false

	// every contact zeroes one axis of v, so there are at most three
	for remaining > 0 {
		box := col.At(*pos)
		hit, ok := firstContact(w, box, v, remaining)
		if !ok {
			break
		}

		*pos = pos.Add(v.Mul(hit.t))
		remaining -= hit.t

		axis := hit.face.Axis()
		v[axis] = 0
		vel.Vel[axis] = 0
		pos[axis] = separate(pos[axis], col, hit)

		if hit.face == world.FaceDown {
			onGround = true
		}
	}

	if remaining > 0 {
		*pos = pos.Add(v.Mul(remaining))
	}
	return onGround
}

// separate places the box face exactly on the contact plane, then backs it
// off by the smallest representable step so it does not overlap the block.
func separate(p float32, col BoxCollider, hit contact) float32 {
	axis := hit.face.Axis()
	local := col.Cuboid()
	var offset, outward float32
	if hit.face.Positive() {
		offset = local.Max[axis]
		outward = float32(math.Inf(-1))
	} else {
		offset = local.Min[axis]
		outward = float32(math.Inf(1))
	}

	p = math.Nextafter32(hit.plane-offset, outward)
	for penetrates(p+offset, hit) {
		p = math.Nextafter32(p, outward)
	}
	return p
}

func penetrates(side float32, hit contact) bool {
	if hit.face.Positive() {
		return side > hit.plane
	}
	return side < hit.plane
}

// firstContact returns the earliest contact of box moving with velocity v
// within maxT seconds.
func firstContact(w *world.World, box world.Cuboid, v mgl32.Vec3, maxT float32) (contact, bool) {
	best := contact{t: maxT}
	found := false
	for _, block := range candidateShapes(w, box, v.Mul(maxT)) {
		for _, face := range world.AllFaces {
			c, ok := faceContact(box, block, v, face)
			if !ok || c.t > best.t || (found && c.t == best.t) {
				continue
			}
			best, found = c, true
		}
	}
	return best, found
}

// faceContact computes when the given face of the moving box reaches the
// opposite face of block, and checks that the two overlap on the other axes
// at that time.
func faceContact(box, block world.Cuboid, v mgl32.Vec3, face world.Face) (contact, bool) {
	axis := face.Axis()
	vel := v[axis]

	var side, plane float32
	if face.Positive() {
		if vel <= 0 {
			return contact{}, false
		}
		side, plane = box.Max[axis], block.Min[axis]
		if side > plane {
			return contact{}, false
		}
	} else {
		if vel >= 0 {
			return contact{}, false
		}
		side, plane = box.Min[axis], block.Max[axis]
		if side < plane {
			return contact{}, false
		}
	}

	t := (plane - side) / vel
	if t < 0 {
		return contact{}, false
	}

	moved := box.Translate(v.Mul(t))
	a, b := axis.Others()
	for _, other := range [2]world.Axis{a, b} {
		if moved.Min[other] >= block.Max[other] || moved.Max[other] <= block.Min[other] {
			return contact{}, false
		}
	}
	return contact{t: t, face: face, plane: plane}, true
}

// candidateShapes collects the world-space collision cuboids of every block
// the box could touch while moving by delta. Blocks in missing chunks are
// treated as air.
func candidateShapes(w *world.World, box world.Cuboid, delta mgl32.Vec3) []world.Cuboid {
	area := box.Sweep(delta).Expand(sweepMargin)
	lo := world.BlockPosFromWorld(area.Min)
	hi := world.BlockPosFromWorld(area.Max)

	var out []world.Cuboid
	for x := lo.X; x <= hi.X; x++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for z := lo.Z; z <= hi.Z; z++ {
				pos := world.NewBlockPos(x, y, z)
				id, ok := w.Block(pos)
				if !ok || id == world.BlockAir {
					continue
				}
				offset := pos.WorldPos()
				for _, shape := range registry.CollisionShapes(id) {
					out = append(out, shape.Translate(offset))
				}
			}
		}
	}
	return out
}
