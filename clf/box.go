package clf

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/robert-malhotra/go-clf/internal/header"
)

// Box is an axis-aligned bounding box.
type Box struct {
	Min [3]float32
	Max [3]float32
}

func boxFromHeader(b header.Box) Box {
	return Box{Min: b.Min, Max: b.Max}
}

func (b Box) header() header.Box {
	return header.Box{Min: b.Min, Max: b.Max}
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	out := b
	for i := range 3 {
		out.Min[i] = min(b.Min[i], o.Min[i])
		out.Max[i] = max(b.Max[i], o.Max[i])
	}
	return out
}

// ContainsZ reports whether z lies within the box's height range.
func (b Box) ContainsZ(z float64) bool {
	return z >= float64(b.Min[2]) && z <= float64(b.Max[2])
}

// Transform maps the box's xy corners through m and returns the box
// spanning the results. The z range is unchanged.
func (b Box) Transform(m f32.Aff3) Box {
	p := apply(m, f32.Vec2{b.Min[0], b.Min[1]})
	q := apply(m, f32.Vec2{b.Max[0], b.Max[1]})
	return Box{
		Min: [3]float32{min(p[0], q[0]), min(p[1], q[1]), b.Min[2]},
		Max: [3]float32{max(p[0], q[0]), max(p[1], q[1]), b.Max[2]},
	}
}

func (b Box) String() string {
	return fmt.Sprintf("x: %g --> %g\ny: %g --> %g\nz: %g --> %g",
		b.Min[0], b.Max[0], b.Min[1], b.Max[1], b.Min[2], b.Max[2])
}

// Projection maps build coordinates onto an image. The image origin is the
// top-left corner, so y is flipped.
type Projection struct {
	Transform f32.Aff3
	Size      image.Point
}

// Apply maps a single point.
func (p Projection) Apply(v f32.Vec2) f32.Vec2 {
	return apply(p.Transform, v)
}

// ToImage returns the projection of the box's xy extent onto an image of
// the given height and width in pixels. When one of them is zero it is
// derived from the other so the aspect ratio is kept.
func (b Box) ToImage(height, width int) (Projection, error) {
	if height <= 0 && width <= 0 {
		return Projection{}, fmt.Errorf("image height or width must be set")
	}
	sx := float64(b.Max[0]) - float64(b.Min[0])
	sy := float64(b.Max[1]) - float64(b.Min[1])

	var dx, dy float64
	switch {
	case height <= 0:
		if sx <= 0 {
			return Projection{}, ErrEmptyBox
		}
		dx = float64(width) / sx
		dy = dx
		height = int(dy * sy)
	case width <= 0:
		if sy <= 0 {
			return Projection{}, ErrEmptyBox
		}
		dy = float64(height) / sy
		dx = dy
		width = int(dx * sx)
	default:
		if sx <= 0 || sy <= 0 {
			return Projection{}, ErrEmptyBox
		}
		dx = float64(width) / sx
		dy = float64(height) / sy
	}
	if math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		return Projection{}, ErrEmptyBox
	}

	return Projection{
		Transform: f32.Aff3{
			float32(dx), 0, float32(-dx * float64(b.Min[0])),
			0, float32(-dy), float32(float64(height) + dy*float64(b.Min[1])),
		},
		Size: image.Point{X: width, Y: height},
	}, nil
}

func apply(m f32.Aff3, v f32.Vec2) f32.Vec2 {
	return f32.Vec2{
		m[0]*v[0] + m[1]*v[1] + m[2],
		m[3]*v[0] + m[4]*v[1] + m[5],
	}
}
