package clf

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f32"
)

// Kind identifies the variant of a shape.
type Kind int

const (
	// ModelCluster is a filled region. Paths[0] is the outer loop; the
	// remaining paths are further loops of the region, usually holes.
	ModelCluster Kind = iota
	// ClosedLine is a single closed polyline without fill.
	ClosedLine
	// OpenLine is a set of unconnected points.
	OpenLine
	// DashedLine is a sequence of point pairs, each pair an independent
	// segment.
	DashedLine
)

func (k Kind) String() string {
	switch k {
	case ModelCluster:
		return "ModelCluster"
	case ClosedLine:
		return "ClosedLine"
	case OpenLine:
		return "OpenLine"
	case DashedLine:
		return "DashedLine"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ModelInfo describes one model of a layer file. Shapes share the file's
// ModelInfo values; treat them as read-only.
type ModelInfo struct {
	ID        uint64
	Name      string
	Thickness float32
	Box       Box
}

func (m *ModelInfo) String() string {
	return fmt.Sprintf("Name: %s\nIdentifier: %d\nLayer Thickness: %g\nBox: \n%s\n", m.Name, m.ID, m.Thickness, m.Box)
}

// Shape is one piece of geometry in a layer.
type Shape struct {
	Kind  Kind
	Model *ModelInfo
	Paths [][]f32.Vec2
}

// Bounds returns the xy bounding box of all paths. The z range is zero.
func (s Shape) Bounds() Box {
	lo := f32.Vec2{float32(math.Inf(1)), float32(math.Inf(1))}
	hi := f32.Vec2{float32(math.Inf(-1)), float32(math.Inf(-1))}
	n := 0
	for _, path := range s.Paths {
		for _, p := range path {
			lo = f32.Vec2{min(lo[0], p[0]), min(lo[1], p[1])}
			hi = f32.Vec2{max(hi[0], p[0]), max(hi[1], p[1])}
			n++
		}
	}
	if n == 0 {
		return Box{}
	}
	return Box{
		Min: [3]float32{lo[0], lo[1], 0},
		Max: [3]float32{hi[0], hi[1], 0},
	}
}

// Transform returns a copy of the shape with every point mapped through m.
func (s Shape) Transform(m f32.Aff3) Shape {
	out := Shape{Kind: s.Kind, Model: s.Model, Paths: make([][]f32.Vec2, len(s.Paths))}
	for i, path := range s.Paths {
		mapped := make([]f32.Vec2, len(path))
		for j, p := range path {
			mapped[j] = apply(m, p)
		}
		out.Paths[i] = mapped
	}
	return out
}

// Points returns the total number of points across all paths.
func (s Shape) Points() int {
	n := 0
	for _, path := range s.Paths {
		n += len(path)
	}
	return n
}
