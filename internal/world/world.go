package world

// World is the game world: every chunk that was ever created plus the
// generation seed. It is not safe for concurrent use; one writer per tick
// mutates it and background work only sees cloned chunks.
type World struct {
	seed   uint32
	chunks map[ChunkPos]*Chunk
}

// New returns an empty world for the given seed.
func New(seed uint32) *World {
	return &World{
		seed:   seed,
		chunks: make(map[ChunkPos]*Chunk),
	}
}

// Seed returns the world generation seed. It never changes after creation.
func (w *World) Seed() uint32 {
	return w.seed
}

// Block returns the block at pos, or false when its chunk does not exist.
func (w *World) Block(pos BlockPos) (BlockID, bool) {
	cp, in := pos.Split()
	c, ok := w.chunks[cp]
	if !ok {
		return BlockAir, false
	}
	return c.Block(in), true
}

// SetBlock writes a block into an existing chunk. It reports false and does
// nothing when the chunk does not exist.
func (w *World) SetBlock(pos BlockPos, id BlockID) bool {
	cp, in := pos.Split()
	c, ok := w.chunks[cp]
	if !ok {
		return false
	}
	c.SetBlock(in, id)
	return true
}

// IsAir reports whether pos holds air. Missing chunks count as air.
func (w *World) IsAir(pos BlockPos) bool {
	id, _ := w.Block(pos)
	return id == BlockAir
}

// IsSimpleLoaded reports whether the chunk at pos exists and is simple loaded.
func (w *World) IsSimpleLoaded(pos ChunkPos) bool {
	c, ok := w.chunks[pos]
	return ok && c.Loaded.IsSimpleLoaded()
}

// NeighboursLoaded reports whether all 6 face neighbours of pos exist and are simple loaded.
func (w *World) NeighboursLoaded(pos ChunkPos) bool {
	for _, n := range pos.Neighbours() {
		if !w.IsSimpleLoaded(n) {
			return false
		}
	}
	return true
}

// Neighbours returns the 6 face-adjacent chunks of pos; missing ones are nil.
func (w *World) Neighbours(pos ChunkPos) FaceMap[*Chunk] {
	return FaceMapFrom(func(f Face) *Chunk {
		return w.chunks[pos.Offset(f)]
	})
}
