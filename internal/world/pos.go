package world

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// ChunkLength is the edge length of a cubic chunk, in blocks.
	ChunkLength = 32
	ChunkArea   = ChunkLength * ChunkLength
	ChunkVolume = ChunkLength * ChunkLength * ChunkLength
)

// BlockPos identifies one block in world space.
type BlockPos struct {
	X, Y, Z int
}

// ChunkPos identifies one chunk. Block (x,y,z) lives in chunk floor(x/32), ...
type ChunkPos struct {
	X, Y, Z int
}

// BlockInChunkPos is a block position relative to the chunk origin.
// Every component is in [0, ChunkLength).
type BlockInChunkPos struct {
	X, Y, Z uint8
}

func NewBlockPos(x, y, z int) BlockPos { return BlockPos{X: x, Y: y, Z: z} }
func NewChunkPos(x, y, z int) ChunkPos { return ChunkPos{X: x, Y: y, Z: z} }

// BlockPosFromWorld returns the block that contains the world-space point p.
func BlockPosFromWorld(p mgl32.Vec3) BlockPos {
	return BlockPos{
		X: int(math.Floor(float64(p.X()))),
		Y: int(math.Floor(float64(p.Y()))),
		Z: int(math.Floor(float64(p.Z()))),
	}
}

// ChunkPosFromWorld returns the chunk that contains the world-space point p.
func ChunkPosFromWorld(p mgl32.Vec3) ChunkPos {
	return BlockPosFromWorld(p).ChunkPos()
}

// ChunkPos returns the chunk this block belongs to.
func (p BlockPos) ChunkPos() ChunkPos {
	return ChunkPos{
		X: floorDiv(p.X, ChunkLength),
		Y: floorDiv(p.Y, ChunkLength),
		Z: floorDiv(p.Z, ChunkLength),
	}
}

// InChunk returns the position of this block inside its chunk.
func (p BlockPos) InChunk() BlockInChunkPos {
	return BlockInChunkPos{
		X: uint8(mod(p.X, ChunkLength)),
		Y: uint8(mod(p.Y, ChunkLength)),
		Z: uint8(mod(p.Z, ChunkLength)),
	}
}

// Split decomposes a block position into its chunk and in-chunk parts.
// ChunkPos.Compose reverses it exactly.
func (p BlockPos) Split() (ChunkPos, BlockInChunkPos) {
	return p.ChunkPos(), p.InChunk()
}

func (p BlockPos) Add(o BlockPos) BlockPos {
	return BlockPos{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Offset returns the block next to p in the direction of face.
func (p BlockPos) Offset(face Face) BlockPos {
	return p.Add(face.Normal())
}

// Neighbours returns the 6 face-adjacent blocks in canonical face order.
func (p BlockPos) Neighbours() [6]BlockPos {
	var out [6]BlockPos
	for _, f := range AllFaces {
		out[f] = p.Offset(f)
	}
	return out
}

// AffectedChunks returns the chunk holding p followed by every distinct
// other chunk that holds one of its face neighbours. These are the chunks
// whose meshes can change when the block at p changes.
func (p BlockPos) AffectedChunks() []ChunkPos {
	home := p.ChunkPos()
	out := []ChunkPos{home}
	for _, nb := range p.Neighbours() {
		cp := nb.ChunkPos()
		if !slices.Contains(out, cp) {
			out = append(out, cp)
		}
	}
	return out
}

// WorldPos returns the minimum corner of the block in world space.
func (p BlockPos) WorldPos() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

func (p BlockPos) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.X, p.Y, p.Z)
}

// BlockPos returns the minimum-corner block of the chunk.
func (c ChunkPos) BlockPos() BlockPos {
	return BlockPos{X: c.X * ChunkLength, Y: c.Y * ChunkLength, Z: c.Z * ChunkLength}
}

// Compose joins a chunk position and an in-chunk position back into a block position.
func (c ChunkPos) Compose(in BlockInChunkPos) BlockPos {
	return c.BlockPos().Add(in.BlockPos())
}

func (c ChunkPos) Add(o ChunkPos) ChunkPos {
	return ChunkPos{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

func (c ChunkPos) Offset(face Face) ChunkPos {
	n := face.Normal()
	return ChunkPos{X: c.X + n.X, Y: c.Y + n.Y, Z: c.Z + n.Z}
}

// Neighbours returns the 6 face-adjacent chunks in canonical face order.
func (c ChunkPos) Neighbours() [6]ChunkPos {
	var out [6]ChunkPos
	for _, f := range AllFaces {
		out[f] = c.Offset(f)
	}
	return out
}

// DistanceSquared returns the squared euclidean distance in chunk units.
func (c ChunkPos) DistanceSquared(o ChunkPos) int {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

func (c ChunkPos) String() string {
	return fmt.Sprintf("chunk(%d, %d, %d)", c.X, c.Y, c.Z)
}

func (p BlockInChunkPos) BlockPos() BlockPos {
	return BlockPos{X: int(p.X), Y: int(p.Y), Z: int(p.Z)}
}

// index converts local coordinates into the flat block array index ([x][y][z] order).
func (p BlockInChunkPos) index() int {
	return int(p.X)*ChunkArea + int(p.Y)*ChunkLength + int(p.Z)
}

func inChunkFromIndex(i int) BlockInChunkPos {
	return BlockInChunkPos{
		X: uint8(i / ChunkArea),
		Y: uint8(i / ChunkLength % ChunkLength),
		Z: uint8(i % ChunkLength),
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod is the euclidean remainder, always in [0, b) for positive b.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
