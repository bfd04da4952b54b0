package world

import "github.com/go-gl/mathgl/mgl32"

// Face identifies one of the 6 axis-aligned directions.
type Face uint8

const (
	FaceRight   Face = iota // +X
	FaceLeft                // -X
	FaceUp                  // +Y
	FaceDown                // -Y
	FaceBack                // +Z
	FaceForward             // -Z
)

// AllFaces lists every face in canonical order.
var AllFaces = [6]Face{FaceRight, FaceLeft, FaceUp, FaceDown, FaceBack, FaceForward}

var faceNames = [6]string{"Right", "Left", "Up", "Down", "Back", "Forward"}

func (f Face) String() string {
	if int(f) < len(faceNames) {
		return faceNames[f]
	}
	return "Face(?)"
}

// Opposite returns the face pointing the other way on the same axis.
func (f Face) Opposite() Face {
	return f ^ 1
}

func (f Face) Axis() Axis {
	return Axis(f / 2)
}

// Positive reports whether the face points along the positive axis direction.
func (f Face) Positive() bool {
	return f%2 == 0
}

// Sign is +1 for positive faces and -1 for negative faces.
func (f Face) Sign() int {
	if f.Positive() {
		return 1
	}
	return -1
}

// Normal returns the unit integer offset pointing out of the face.
func (f Face) Normal() BlockPos {
	var n BlockPos
	switch f.Axis() {
	case AxisX:
		n.X = f.Sign()
	case AxisY:
		n.Y = f.Sign()
	case AxisZ:
		n.Z = f.Sign()
	}
	return n
}

// NormalVec is Normal as a float vector.
func (f Face) NormalVec() mgl32.Vec3 {
	n := f.Normal()
	return mgl32.Vec3{float32(n.X), float32(n.Y), float32(n.Z)}
}

// Axis identifies a coordinate axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

var AllAxes = [3]Axis{AxisX, AxisY, AxisZ}

func (a Axis) String() string {
	return [3]string{"X", "Y", "Z"}[a]
}

// PosFace returns the face pointing in the positive direction of the axis.
func (a Axis) PosFace() Face {
	return Face(a * 2)
}

// NegFace returns the face pointing in the negative direction of the axis.
func (a Axis) NegFace() Face {
	return Face(a*2 + 1)
}

// Others returns the two remaining axes in ascending order.
func (a Axis) Others() (Axis, Axis) {
	switch a {
	case AxisX:
		return AxisY, AxisZ
	case AxisY:
		return AxisX, AxisZ
	default:
		return AxisX, AxisY
	}
}

// FaceMap stores exactly one value per face, in canonical face order.
type FaceMap[T any] [6]T

// FaceMapFrom builds a FaceMap by calling fn once per face.
func FaceMapFrom[T any](fn func(Face) T) FaceMap[T] {
	var m FaceMap[T]
	for _, f := range AllFaces {
		m[f] = fn(f)
	}
	return m
}

func (m FaceMap[T]) Get(f Face) T     { return m[f] }
func (m *FaceMap[T]) Set(f Face, v T) { m[f] = v }

// AllSome reports whether every slot of a FaceMap of pointers is non-nil.
func AllSome[T any](m FaceMap[*T]) bool {
	for _, v := range m {
		if v == nil {
			return false
		}
	}
	return true
}

// AxisMap stores exactly one value per axis, in X, Y, Z order.
type AxisMap[T any] [3]T

func AxisMapFrom[T any](fn func(Axis) T) AxisMap[T] {
	var m AxisMap[T]
	for _, a := range AllAxes {
		m[a] = fn(a)
	}
	return m
}

func (m AxisMap[T]) Get(a Axis) T     { return m[a] }
func (m *AxisMap[T]) Set(a Axis, v T) { m[a] = v }

// FacesMask is a set of faces.
type FacesMask uint8

const allFacesMask FacesMask = 1<<6 - 1

func (m *FacesMask) Set(f Face)          { *m |= 1 << f }
func (m FacesMask) Contains(f Face) bool { return m&(1<<f) != 0 }
func (m FacesMask) IsAll() bool          { return m == allFacesMask }
func (m FacesMask) IsEmpty() bool        { return m == 0 }
