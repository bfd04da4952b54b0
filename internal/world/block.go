package world

import "fmt"

// BlockID is the identity of a block type. Ids come from a closed table and
// are stable across versions since they are written to save files.
type BlockID uint8

const (
	BlockAir         BlockID = 0
	BlockStone       BlockID = 1
	BlockDirt        BlockID = 2
	BlockGrass       BlockID = 3
	BlockCobblestone BlockID = 4
	BlockLog         BlockID = 5
	BlockPlanks      BlockID = 6
	BlockLeaves      BlockID = 7
	BlockDebug       BlockID = 99
	BlockDebugSlab   BlockID = 100
)

// KnownBlocks lists every block id in ascending order.
var KnownBlocks = []BlockID{
	BlockAir,
	BlockStone,
	BlockDirt,
	BlockGrass,
	BlockCobblestone,
	BlockLog,
	BlockPlanks,
	BlockLeaves,
	BlockDebug,
	BlockDebugSlab,
}

var debugNames = map[BlockID]string{
	BlockAir:         "Air",
	BlockStone:       "Stone",
	BlockDirt:        "Dirt",
	BlockGrass:       "GrassBlock",
	BlockCobblestone: "Cobblestone",
	BlockLog:         "Log",
	BlockPlanks:      "Planks",
	BlockLeaves:      "Leaves",
	BlockDebug:       "DebugBlock",
	BlockDebugSlab:   "DebugSlab",
}

var idsByDebugName = func() map[string]BlockID {
	m := make(map[string]BlockID, len(debugNames))
	for id, name := range debugNames {
		m[name] = id
	}
	return m
}()

// DebugName returns the name used by asset files, or "" for unknown ids.
func (id BlockID) DebugName() string {
	return debugNames[id]
}

func (id BlockID) String() string {
	if name, ok := debugNames[id]; ok {
		return name
	}
	return fmt.Sprintf("BlockID(%d)", uint8(id))
}

// Known reports whether id belongs to the block table.
func (id BlockID) Known() bool {
	_, ok := debugNames[id]
	return ok
}

// BlockIDFromDebugName maps an asset name such as "GrassBlock" to its id.
func BlockIDFromDebugName(name string) (BlockID, bool) {
	id, ok := idsByDebugName[name]
	return id, ok
}
