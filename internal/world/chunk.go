package world

// GenerationStage marks how far procedural generation has progressed for a chunk.
// Stages only ever increase.
type GenerationStage uint8

const (
	StageNothing GenerationStage = iota
	StageTerrain
	StageTrees

	// StageComplete is the terminal stage.
	StageComplete = StageTrees
)

func (s GenerationStage) String() string {
	switch s {
	case StageNothing:
		return "Nothing"
	case StageTerrain:
		return "Terrain"
	case StageTrees:
		return "Trees"
	default:
		return "Unknown"
	}
}

// IsLoaded is the runtime load state of a chunk. It is never persisted.
type IsLoaded struct {
	simpleLoaded bool
	visible      bool
}

var (
	NotLoaded    = IsLoaded{}
	SimpleLoaded = IsLoaded{simpleLoaded: true}
	Visible      = IsLoaded{simpleLoaded: true, visible: true}
)

// IsSimpleLoaded reports whether the chunk is populated for gameplay and physics.
func (l IsLoaded) IsSimpleLoaded() bool { return l.simpleLoaded }

// IsVisible reports whether the chunk and all 6 neighbours are simple loaded.
func (l IsLoaded) IsVisible() bool { return l.visible }

// SetSimpleLoaded updates the flag; clearing it also clears visibility.
func (l *IsLoaded) SetSimpleLoaded(v bool) {
	l.simpleLoaded = v
	if !v {
		l.visible = false
	}
}

// SetVisible marks visibility. A chunk that is not simple loaded can never be visible.
func (l *IsLoaded) SetVisible(v bool) {
	l.visible = v && l.simpleLoaded
}

func (l IsLoaded) String() string {
	switch {
	case l.visible:
		return "visible"
	case l.simpleLoaded:
		return "simple-loaded"
	default:
		return "not-loaded"
	}
}

// Chunk is a dense ChunkLength³ block array plus generation and load metadata.
type Chunk struct {
	blocks [ChunkVolume]BlockID
	stage  GenerationStage
	Loaded IsLoaded
}

// NewChunk returns an all-air chunk at StageNothing.
func NewChunk() *Chunk {
	return &Chunk{}
}

// Block returns the block at a local position.
func (c *Chunk) Block(p BlockInChunkPos) BlockID {
	return c.blocks[p.index()]
}

// SetBlock sets the block at a local position.
func (c *Chunk) SetBlock(p BlockInChunkPos, id BlockID) {
	c.blocks[p.index()] = id
}

// BlockAt is Block with int coordinates; out-of-range coordinates return Air.
func (c *Chunk) BlockAt(x, y, z int) BlockID {
	if x < 0 || x >= ChunkLength || y < 0 || y >= ChunkLength || z < 0 || z >= ChunkLength {
		return BlockAir
	}
	return c.blocks[x*ChunkArea+y*ChunkLength+z]
}

// SetBlockAt is SetBlock with int coordinates; out-of-range writes are ignored.
func (c *Chunk) SetBlockAt(x, y, z int, id BlockID) {
	if x < 0 || x >= ChunkLength || y < 0 || y >= ChunkLength || z < 0 || z >= ChunkLength {
		return
	}
	c.blocks[x*ChunkArea+y*ChunkLength+z] = id
}

// Fill sets every block of the chunk to id.
func (c *Chunk) Fill(id BlockID) {
	for i := range c.blocks {
		c.blocks[i] = id
	}
}

// Blocks exposes the raw block array in [x][y][z] order.
func (c *Chunk) Blocks() *[ChunkVolume]BlockID {
	return &c.blocks
}

// ForEach calls fn for every block in index order.
func (c *Chunk) ForEach(fn func(p BlockInChunkPos, id BlockID)) {
	for i, id := range c.blocks {
		fn(inChunkFromIndex(i), id)
	}
}

// IsEmpty reports whether the chunk contains only air.
func (c *Chunk) IsEmpty() bool {
	for _, id := range c.blocks {
		if id != BlockAir {
			return false
		}
	}
	return true
}

// Stage returns the generation stage.
func (c *Chunk) Stage() GenerationStage {
	return c.stage
}

// AdvanceStage moves the chunk to s. Lower stages are ignored, so the stage
// never goes backwards.
func (c *Chunk) AdvanceStage(s GenerationStage) {
	if s > c.stage {
		c.stage = s
	}
}

// IsComplete reports whether all generation passes have run.
func (c *Chunk) IsComplete() bool {
	return c.stage >= StageComplete
}

// Clone returns a deep copy, used as an immutable snapshot for background work.
func (c *Chunk) Clone() *Chunk {
	cp := *c
	return &cp
}
