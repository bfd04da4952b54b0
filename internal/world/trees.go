package world

import (
	"slices"

	"voxel-game/internal/logging"
)

const (
	minTrunkHeight = 4
	maxTrunkHeight = 7 // exclusive
)

// leafOffsets are relative to the top log: a ring around it and a full 3x3 layer above.
var leafOffsets = [17]BlockPos{
	{-1, 0, -1}, {0, 0, -1}, {1, 0, -1},
	{-1, 0, 0}, {1, 0, 0},
	{-1, 0, 1}, {0, 0, 1}, {1, 0, 1},

	{-1, 1, -1}, {0, 1, -1}, {1, 1, -1},
	{-1, 1, 0}, {0, 1, 0}, {1, 1, 0},
	{-1, 1, 1}, {0, 1, 1}, {1, 1, 1},
}

// GenerateTrees places at most one tree rooted in the chunk at pos and marks
// the chunk as complete. The chunk must already have terrain.
//
// It returns the chunks other than pos whose meshes the tree may have
// changed: every chunk holding a placed block or one of its face neighbours.
func GenerateTrees(w *World, gen TerrainGenerator, pos ChunkPos) []ChunkPos {
	c, ok := w.Chunk(pos)
	if !ok {
		logging.Error("trying to generate trees in a chunk that doesn't exist (at %v)", pos)
		return nil
	}
	c.AdvanceStage(StageTrees)

	origin := pos.BlockPos()
	x := NewChunkRand(origin, saltTreeX).Range(0, ChunkLength)
	z := NewChunkRand(origin, saltTreeZ).Range(0, ChunkLength)
	y, found := topmostGrass(c, x, z)
	if !found {
		// column is all cave or sky
		return nil
	}

	var touched []ChunkPos
	place := func(p BlockPos, id BlockID) {
		placeBlockAt(w, gen, p, id)
		for _, cp := range p.AffectedChunks() {
			if cp != pos && !slices.Contains(touched, cp) {
				touched = append(touched, cp)
			}
		}
	}

	base := origin.Add(BlockPos{X: x, Y: y, Z: z})
	place(base, BlockDirt)

	height := NewChunkRand(base, saltTreeHeight).Range(minTrunkHeight, maxTrunkHeight)
	for i := 1; i <= height; i++ {
		place(base.Add(BlockPos{Y: i}), BlockLog)
	}

	top := base.Add(BlockPos{Y: height})
	for _, off := range leafOffsets {
		place(top.Add(off), BlockLeaves)
	}
	return touched
}

// topmostGrass scans a chunk-local column top-down for grass.
func topmostGrass(c *Chunk, x, z int) (int, bool) {
	for y := ChunkLength - 1; y >= 0; y-- {
		if c.BlockAt(x, y, z) == BlockGrass {
			return y, true
		}
	}
	return 0, false
}

// placeBlockAt writes id at pos. If the target chunk does not exist yet its
// terrain is generated first (not loaded, no tree pass).
func placeBlockAt(w *World, gen TerrainGenerator, pos BlockPos, id BlockID) {
	if w.SetBlock(pos, id) {
		return
	}
	cp := pos.ChunkPos()
	w.InsertChunk(cp, GenerateTerrain(gen, cp, NotLoaded))
	if !w.SetBlock(pos, id) {
		logging.Error("generating chunk %v did not allow placing a block at %v; skipping", cp, pos)
	}
}
