package physics

import (
	"math"
	"sort"

	"voxel-game/internal/logging"
	"voxel-game/internal/profiling"
	"voxel-game/internal/registry"
	"voxel-game/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// MaxReachDistance is how far the player can break and place blocks.
	MaxReachDistance = 10.0

	// rayStepLimit bounds BlocksInRay for rays that never leave a block.
	rayStepLimit = 200
	// outlineMargin makes hits on cuboid boundaries count.
	outlineMargin = 0.01
)

// FiniteRay is a ray segment with a normalised direction.
type FiniteRay struct {
	Start  mgl32.Vec3
	Dir    mgl32.Vec3
	Length float32
}

// NewFiniteRay normalises dir. A zero direction yields a ray that only
// covers its start block.
func NewFiniteRay(start, dir mgl32.Vec3, length float32) FiniteRay {
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return FiniteRay{Start: start, Dir: dir, Length: length}
}

// At returns the point at distance t along the ray.
func (r FiniteRay) At(t float32) mgl32.Vec3 {
	return r.Start.Add(r.Dir.Mul(t))
}

// RayHit describes where a ray struck a block outline.
type RayHit struct {
	Pos      mgl32.Vec3
	BlockPos world.BlockPos
	Face     world.Face
	Distance float32
}

// BlocksInRay lists the blocks the ray passes through, in order, starting
// with the block containing the ray's start.
func BlocksInRay(ray FiniteRay) []world.BlockPos {
	current := world.BlockPosFromWorld(ray.Start)
	cell := [3]int{current.X, current.Y, current.Z}

	var step [3]int
	var tMax, tDelta [3]float32
	inf := float32(math.Inf(1))
	for i := 0; i < 3; i++ {
		d := ray.Dir[i]
		frac := ray.Start[i] - float32(math.Floor(float64(ray.Start[i])))
		switch {
		case d > 0:
			step[i] = 1
			tDelta[i] = 1 / d
			tMax[i] = (1 - frac) / d
		case d < 0:
			step[i] = -1
			tDelta[i] = -1 / d
			tMax[i] = frac / -d
		default:
			tDelta[i] = inf
			tMax[i] = inf
		}
	}

	out := []world.BlockPos{current}
	for n := 0; ; n++ {
		if n > rayStepLimit {
			logging.Warn("ray from %v along %v gave up after %d steps", ray.Start, ray.Dir, rayStepLimit)
			break
		}
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		if tMax[axis] > ray.Length {
			break
		}
		cell[axis] += step[axis]
		tMax[axis] += tDelta[axis]
		out = append(out, world.NewBlockPos(cell[0], cell[1], cell[2]))
	}
	return out
}

type faceTime struct {
	t    float32
	face world.Face
}

// FirstRayIntersection returns the distance and face where the ray enters c.
func FirstRayIntersection(ray FiniteRay, c world.Cuboid) (float32, world.Face, bool) {
	expanded := c.Expand(outlineMargin)

	candidates := make([]faceTime, 0, 6)
	for _, axis := range world.AllAxes {
		d := ray.Dir[axis]
		if d == 0 {
			continue
		}
		candidates = append(candidates,
			faceTime{t: (c.Min[axis] - ray.Start[axis]) / d, face: axis.NegFace()},
			faceTime{t: (c.Max[axis] - ray.Start[axis]) / d, face: axis.PosFace()},
		)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].t < candidates[j].t })

	for i, cand := range candidates {
		if i == 3 || cand.t > ray.Length {
			break
		}
		if cand.t < 0 {
			continue
		}
		if expanded.Contains(ray.At(cand.t)) {
			return cand.t, cand.face, true
		}
	}
	return 0, 0, false
}

// SendOutRay returns the first block outline the ray hits. Blocks in
// missing chunks count as air.
func SendOutRay(w *world.World, ray FiniteRay) (RayHit, bool) {
	defer profiling.Track("physics.SendOutRay")()

	for _, pos := range BlocksInRay(ray) {
		id, ok := w.Block(pos)
		if !ok {
			continue
		}
		offset := pos.WorldPos()
		for _, shape := range registry.OutlineShapes(id) {
			t, face, hit := FirstRayIntersection(ray, shape.Translate(offset))
			if hit {
				return RayHit{Pos: ray.At(t), BlockPos: pos, Face: face, Distance: t}, true
			}
		}
	}
	return RayHit{}, false
}
