package player

import (
	"voxel-game/internal/physics"
	"voxel-game/internal/registry"
	"voxel-game/internal/world"
)

// Hotbar lists the blocks the player can place, selected by 1-based slot.
var Hotbar = []world.BlockID{
	world.BlockStone,
	world.BlockGrass,
	world.BlockDirt,
	world.BlockCobblestone,
	world.BlockDebug,
	world.BlockDebugSlab,
}

// Edit describes one block change and the chunks whose meshes it affects.
type Edit struct {
	Pos    world.BlockPos
	Old    world.BlockID
	New    world.BlockID
	Chunks []world.ChunkPos
}

// SelectBlock picks the hotbar slot (1-based). Out-of-range slots are ignored.
func (p *Player) SelectBlock(slot int) bool {
	if slot < 1 || slot > len(Hotbar) {
		return false
	}
	p.selected = slot - 1
	return true
}

// SelectedBlock returns the block PlaceBlock will place.
func (p *Player) SelectedBlock() world.BlockID {
	return Hotbar[p.selected]
}

// Target returns the block the player is looking at within reach.
func (p *Player) Target(w *world.World) (physics.RayHit, bool) {
	return physics.SendOutRay(w, p.Ray())
}

// BreakBlock replaces the targeted block with air.
func (p *Player) BreakBlock(w *world.World) (Edit, bool) {
	hit, ok := p.Target(w)
	if !ok {
		return Edit{}, false
	}
	return setBlock(w, hit.BlockPos, world.BlockAir)
}

// PlaceBlock puts the selected block against the targeted face. The target
// cell must be replaceable and the new block must not overlap the player.
func (p *Player) PlaceBlock(w *world.World) (Edit, bool) {
	hit, ok := p.Target(w)
	if !ok {
		return Edit{}, false
	}
	pos := hit.BlockPos.Offset(hit.Face)
	cur, exists := w.Block(pos)
	if !exists || !registry.IsReplaceable(cur) {
		return Edit{}, false
	}

	id := p.SelectedBlock()
	if !p.FreeCam {
		body := p.Bounds()
		for _, c := range registry.CollisionShapes(id) {
			if body.Intersects(c.Translate(pos.WorldPos())) {
				return Edit{}, false
			}
		}
	}
	return setBlock(w, pos, id)
}

func setBlock(w *world.World, pos world.BlockPos, id world.BlockID) (Edit, bool) {
	old, ok := w.Block(pos)
	if !ok || !w.SetBlock(pos, id) {
		return Edit{}, false
	}
	return Edit{Pos: pos, Old: old, New: id, Chunks: pos.AffectedChunks()}, true
}
