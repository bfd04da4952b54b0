package world

import "github.com/go-gl/mathgl/mgl32"

// Cuboid is an axis-aligned box. Min must not exceed Max on any axis.
type Cuboid struct {
	Min, Max mgl32.Vec3
}

// UnitCuboid covers exactly one block.
var UnitCuboid = Cuboid{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}

func NewCuboid(min, max mgl32.Vec3) Cuboid {
	return Cuboid{Min: min, Max: max}
}

// Translate moves the cuboid by offset.
func (c Cuboid) Translate(offset mgl32.Vec3) Cuboid {
	return Cuboid{Min: c.Min.Add(offset), Max: c.Max.Add(offset)}
}

// Expand grows the cuboid by amount on every side.
func (c Cuboid) Expand(amount float32) Cuboid {
	d := mgl32.Vec3{amount, amount, amount}
	return Cuboid{Min: c.Min.Sub(d), Max: c.Max.Add(d)}
}

// Sweep returns the bounds covering the cuboid at its current position and
// after moving it by delta.
func (c Cuboid) Sweep(delta mgl32.Vec3) Cuboid {
	moved := c.Translate(delta)
	return Cuboid{
		Min: mgl32.Vec3{min(c.Min[0], moved.Min[0]), min(c.Min[1], moved.Min[1]), min(c.Min[2], moved.Min[2])},
		Max: mgl32.Vec3{max(c.Max[0], moved.Max[0]), max(c.Max[1], moved.Max[1]), max(c.Max[2], moved.Max[2])},
	}
}

// Contains reports whether p lies inside the cuboid, boundaries included.
func (c Cuboid) Contains(p mgl32.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < c.Min[i] || p[i] > c.Max[i] {
			return false
		}
	}
	return true
}

// Size returns the extent along each axis.
func (c Cuboid) Size() mgl32.Vec3 {
	return c.Max.Sub(c.Min)
}

// Intersects reports whether the interiors of c and o overlap. Touching
// faces do not count.
func (c Cuboid) Intersects(o Cuboid) bool {
	for i := 0; i < 3; i++ {
		if c.Max[i] <= o.Min[i] || o.Max[i] <= c.Min[i] {
			return false
		}
	}
	return true
}
