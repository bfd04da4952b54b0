package savedata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"voxel-game/internal/registry"
	"voxel-game/internal/world"

	"github.com/klauspost/compress/zstd"
)

// ErrCorrupt is returned for save data that can't be decoded.
var ErrCorrupt = errors.New("corrupt save data")

const (
	formatVersion uint16 = 1
	headerSize           = 6
)

var magic = [4]byte{'V', 'X', 'W', 'D'}

// A save blob is a 4-byte magic and a little-endian version, followed by a
// zstd frame holding:
//
//	seed        uint32
//	chunkCount  uint32
//	chunkCount × { x, y, z int32; stage uint8; blocks [ChunkVolume]uint8 }
//
// Load state is runtime only and not stored.

// Encode serialises every chunk of w and its seed.
func Encode(w *world.World) ([]byte, error) {
	var raw bytes.Buffer
	positions := w.Positions()
	raw.Grow(8 + len(positions)*(13+world.ChunkVolume))

	le := binary.LittleEndian
	binary.Write(&raw, le, w.Seed())
	binary.Write(&raw, le, uint32(len(positions)))
	for _, pos := range positions {
		c, _ := w.Chunk(pos)
		binary.Write(&raw, le, [3]int32{int32(pos.X), int32(pos.Y), int32(pos.Z)})
		raw.WriteByte(byte(c.Stage()))
		blocks := c.Blocks()
		for _, id := range blocks {
			raw.WriteByte(byte(id))
		}
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create compressor: %w", err)
	}
	defer enc.Close()

	out := make([]byte, headerSize, headerSize+raw.Len()/8)
	copy(out, magic[:])
	le.PutUint16(out[4:], formatVersion)
	return enc.EncodeAll(raw.Bytes(), out), nil
}

// Decode rebuilds a world from Encode's output. Every chunk comes back not
// loaded. Block ids missing from the registry fail with registry.ErrUnknownBlock.
func Decode(data []byte) (*world.World, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], magic[:]) {
		return nil, fmt.Errorf("%w: bad header", ErrCorrupt)
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != formatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create decompressor: %w", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(data[headerSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	r := bytes.NewReader(raw)
	le := binary.LittleEndian
	var seed, count uint32
	if err := binary.Read(r, le, &seed); err != nil {
		return nil, fmt.Errorf("%w: seed: %v", ErrCorrupt, err)
	}
	if err := binary.Read(r, le, &count); err != nil {
		return nil, fmt.Errorf("%w: chunk count: %v", ErrCorrupt, err)
	}

	w := world.New(seed)
	var blocks [world.ChunkVolume]byte
	for i := uint32(0); i < count; i++ {
		var p [3]int32
		if err := binary.Read(r, le, &p); err != nil {
			return nil, fmt.Errorf("%w: chunk %d position: %v", ErrCorrupt, i, err)
		}
		pos := world.NewChunkPos(int(p[0]), int(p[1]), int(p[2]))
		if w.HasChunk(pos) {
			return nil, fmt.Errorf("%w: duplicate chunk %v", ErrCorrupt, pos)
		}

		stage, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %v stage: %v", ErrCorrupt, pos, err)
		}
		if world.GenerationStage(stage) > world.StageComplete {
			return nil, fmt.Errorf("%w: chunk %v has stage %d", ErrCorrupt, pos, stage)
		}
		if _, err := io.ReadFull(r, blocks[:]); err != nil {
			return nil, fmt.Errorf("%w: chunk %v blocks: %v", ErrCorrupt, pos, err)
		}

		c := world.NewChunk()
		dst := c.Blocks()
		for j, b := range blocks {
			id := world.BlockID(b)
			if err := registry.Validate(id); err != nil {
				return nil, fmt.Errorf("chunk %v: %w", pos, err)
			}
			dst[j] = id
		}
		c.AdvanceStage(world.GenerationStage(stage))
		w.InsertChunk(pos, c)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	return w, nil
}
