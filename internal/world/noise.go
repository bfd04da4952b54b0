package world

import (
	"github.com/aquilax/go-perlin"
)

// Perlin parameters: a single octave keeps the output close to classic
// Perlin noise, which the thresholds below are tuned for.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 1
)

// noiseField is one seeded Perlin field. Sampling is read-only and safe
// to share between goroutines.
type noiseField struct {
	p *perlin.Perlin
}

func newNoiseField(seed int64) noiseField {
	return noiseField{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)}
}

func (n noiseField) at2(x, z float64) float64 {
	return n.p.Noise2D(x, z)
}

func (n noiseField) at3(x, y, z float64) float64 {
	return n.p.Noise3D(x, y, z)
}

// Salts keep the per-purpose random streams of one position independent.
const (
	saltTreeX      uint64 = 7832957017391
	saltTreeZ      uint64 = 9870402726984
	saltTreeHeight uint64 = 8749103747
)

// ChunkRand is a small deterministic PRNG seeded from a block position and a salt.
type ChunkRand struct {
	state uint64
}

// NewChunkRand mixes the position and salt with wrapping arithmetic:
// x + (y << 6) + (z << 12) + salt.
func NewChunkRand(pos BlockPos, salt uint64) *ChunkRand {
	x, y, z := uint64(int64(pos.X)), uint64(int64(pos.Y)), uint64(int64(pos.Z))
	seed := x + (y << 6) + (z << 12) + salt
	return &ChunkRand{state: splitmix(seed)}
}

// Next returns the next 64 random bits.
func (r *ChunkRand) Next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	return splitmix(r.state)
}

// Range returns a value in [lo, hi). hi must be greater than lo.
func (r *ChunkRand) Range(lo, hi int) int {
	n := uint64(hi - lo)
	return lo + int(r.Next()%n)
}

// splitmix is the SplitMix64 finaliser.
func splitmix(v uint64) uint64 {
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}
