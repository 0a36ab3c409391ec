package layer

import (
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/robert-malhotra/go-clf/internal/binary"
)

// PointBuffer is the shared point storage of a layer. Polygons take their
// points from it in order; taken points cannot be read again.
type PointBuffer struct {
	points []f32.Vec2
	next   int
}

// NewPointBuffer wraps points for consumption.
func NewPointBuffer(points []f32.Vec2) *PointBuffer {
	return &PointBuffer{points: points}
}

// Len returns the declared number of points.
func (b *PointBuffer) Len() int {
	return len(b.points)
}

// Remaining returns the number of points not yet taken.
func (b *PointBuffer) Remaining() int {
	return len(b.points) - b.next
}

// Take returns the next n points. Asking for more points than remain is a
// format error.
func (b *PointBuffer) Take(n uint64) ([]f32.Vec2, error) {
	if n > uint64(b.Remaining()) {
		return nil, fmt.Errorf("%w: polygon needs %d points, %d of %d left in layer",
			binary.ErrCorrupt, n, b.Remaining(), len(b.points))
	}
	end := b.next + int(n)
	out := b.points[b.next:end:end]
	b.next = end
	return out, nil
}

// readPoints reads count points from a point section of n bytes.
func readPoints(r *binary.Reader, count, n uint64) (*PointBuffer, error) {
	if n/8 != count || n%8 != 0 {
		return nil, fmt.Errorf("%w: point section of %d bytes for %d points", binary.ErrCorrupt, n, count)
	}
	v, err := r.Floats(int(2 * count))
	if err != nil {
		return nil, err
	}
	points := make([]f32.Vec2, count)
	for i := range points {
		points[i] = f32.Vec2{v[2*i], v[2*i+1]}
	}
	return NewPointBuffer(points), nil
}
