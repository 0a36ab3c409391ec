package clf

import (
	"image"
	"math"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"
)

const (
	// strokeHalfWidth is half the width of drawn lines, in pixels.
	strokeHalfWidth = 0.5
	// markerRadius is the half size of the square marking an open line
	// point, in pixels.
	markerRadius = 1
)

// Mask rasterises the shape into a new image of the given size. Pixels
// covered by the shape are 255. Points are taken as pixel coordinates, so
// map the shape first, typically with a Projection from Box.ToImage.
func (s Shape) Mask(size image.Point) *image.Gray {
	m := newMask(size)
	m.draw(s, 255)
	return m.dst
}

// Mask rasterises every shape of the layer into a new image of the given
// size. Pixels covered by any shape are 255.
func (l *Layer) Mask(size image.Point) *image.Gray {
	m := newMask(size)
	for _, s := range l.Shapes {
		m.draw(s, 255)
	}
	return m.dst
}

// Mask rasterises the layers into one image, labelling the pixels of the
// i-th layer with i+1. Later layers overwrite earlier ones.
func (ll LayerList) Mask(size image.Point) *image.Gray {
	m := newMask(size)
	for i, l := range ll {
		for _, s := range l.Shapes {
			m.draw(s, uint8(min(i+1, math.MaxUint8)))
		}
	}
	return m.dst
}

type masker struct {
	dst      *image.Gray
	coverage *image.Alpha
	parity   []bool
	r        *vector.Rasterizer
}

func newMask(size image.Point) *masker {
	size.X, size.Y = max(size.X, 0), max(size.Y, 0)
	rect := image.Rectangle{Max: size}
	return &masker{
		dst:      image.NewGray(rect),
		coverage: image.NewAlpha(rect),
		parity:   make([]bool, size.X*size.Y),
		r:        vector.NewRasterizer(size.X, size.Y),
	}
}

func (m *masker) draw(s Shape, v uint8) {
	if m.dst.Rect.Empty() {
		return
	}
	switch s.Kind {
	case ModelCluster:
		m.fill(s.Paths, v)
	case ClosedLine:
		for _, path := range s.Paths {
			m.reset()
			for i := range path {
				m.segment(path[i], path[(i+1)%len(path)])
			}
			m.paint(v, 1)
		}
	case DashedLine:
		for _, path := range s.Paths {
			m.reset()
			for i := 0; i+1 < len(path); i += 2 {
				m.segment(path[i], path[i+1])
			}
			m.paint(v, 1)
		}
	case OpenLine:
		for _, path := range s.Paths {
			m.reset()
			for _, p := range path {
				m.marker(p)
			}
			m.paint(v, 1)
		}
	}
}

// fill paints the region enclosed by the loops using even-odd parity, so
// inner loops cut holes whatever their winding.
func (m *masker) fill(paths [][]f32.Vec2, v uint8) {
	clear(m.parity)
	for _, path := range paths {
		if len(path) < 3 {
			continue
		}
		m.reset()
		m.r.MoveTo(path[0][0], path[0][1])
		for _, p := range path[1:] {
			m.r.LineTo(p[0], p[1])
		}
		m.r.ClosePath()
		m.rasterize()
		for i, a := range m.coverage.Pix {
			if a >= 0x80 {
				m.parity[i] = !m.parity[i]
			}
		}
	}
	for i, in := range m.parity {
		if in {
			m.dst.Pix[i] = v
		}
	}
}

func (m *masker) reset() {
	b := m.dst.Rect.Size()
	m.r.Reset(b.X, b.Y)
}

func (m *masker) rasterize() {
	clear(m.coverage.Pix)
	m.r.Draw(m.coverage, m.coverage.Rect, image.Opaque, image.Point{})
}

// paint rasterises the pending path and sets every pixel with at least the
// given coverage to v.
func (m *masker) paint(v uint8, threshold uint8) {
	m.rasterize()
	for i, a := range m.coverage.Pix {
		if a >= threshold {
			m.dst.Pix[i] = v
		}
	}
}

// segment adds a thin quad covering the line from p to q. Every quad has the
// same orientation, so overlapping quads never cancel.
func (m *masker) segment(p, q f32.Vec2) {
	dx, dy := q[0]-p[0], q[1]-p[1]
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		m.square(p, strokeHalfWidth)
		return
	}
	nx, ny := -dy/length*strokeHalfWidth, dx/length*strokeHalfWidth
	m.quad(
		f32.Vec2{p[0] + nx, p[1] + ny},
		f32.Vec2{q[0] + nx, q[1] + ny},
		f32.Vec2{q[0] - nx, q[1] - ny},
		f32.Vec2{p[0] - nx, p[1] - ny},
	)
}

func (m *masker) marker(p f32.Vec2) {
	m.square(p, markerRadius)
}

// square adds an axis-aligned square with the same orientation as the
// quads built by segment.
func (m *masker) square(p f32.Vec2, r float32) {
	m.quad(
		f32.Vec2{p[0] - r, p[1] + r},
		f32.Vec2{p[0] + r, p[1] + r},
		f32.Vec2{p[0] + r, p[1] - r},
		f32.Vec2{p[0] - r, p[1] - r},
	)
}

func (m *masker) quad(a, b, c, d f32.Vec2) {
	m.r.MoveTo(a[0], a[1])
	m.r.LineTo(b[0], b[1])
	m.r.LineTo(c[0], c[1])
	m.r.LineTo(d[0], d[1])
	m.r.ClosePath()
}
