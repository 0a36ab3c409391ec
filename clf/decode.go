package clf

import (
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/robert-malhotra/go-clf/internal/binary"
	"github.com/robert-malhotra/go-clf/internal/layer"
)

// readLayer decodes a layer section and resolves its clusters into shapes.
// The reader must be positioned after the top-level layer tag.
func (f *File) readLayer(r *binary.Reader) (*Layer, error) {
	rec, err := layer.Read(r)
	if err != nil {
		return nil, err
	}

	l := &Layer{Z: rec.Z, file: f}
	for i, c := range rec.Clusters {
		shapes, err := f.resolveCluster(c, rec.Points)
		if err != nil {
			return nil, fmt.Errorf("cluster %d: %w", i, err)
		}
		l.Shapes = append(l.Shapes, shapes...)
	}
	if n := rec.Points.Remaining(); n != 0 {
		return nil, fmt.Errorf("%w: %d of %d points not used by any polygon",
			ErrCorruptFormat, n, rec.Points.Len())
	}
	return l, nil
}

// resolveCluster turns a cluster record into shapes, taking points from
// the layer's buffer in polygon order.
func (f *File) resolveCluster(c layer.Cluster, points *layer.PointBuffer) ([]Shape, error) {
	model, ok := f.models[c.Model]
	if !ok {
		return nil, &UnknownModelError{ID: c.Model}
	}

	switch c.Type {
	case layer.ClusterModel:
		if len(c.Polygons) == 0 {
			return nil, fmt.Errorf("%w: model cluster without polygons", ErrCorruptFormat)
		}
		if c.Polygons[0].Type != layer.PolygonOuter {
			return nil, fmt.Errorf("%w: model cluster starts with %s polygon", ErrCorruptFormat, c.Polygons[0].Type)
		}
		paths := make([][]f32.Vec2, len(c.Polygons))
		for i, p := range c.Polygons {
			pts, err := points.Take(p.Count)
			if err != nil {
				return nil, err
			}
			paths[i] = pts
		}
		return []Shape{{Kind: ModelCluster, Model: model, Paths: paths}}, nil

	case layer.ClusterWeb:
		shapes := make([]Shape, len(c.Polygons))
		for i, p := range c.Polygons {
			pts, err := points.Take(p.Count)
			if err != nil {
				return nil, err
			}
			shapes[i] = Shape{Kind: lineKind(p.Format), Model: model, Paths: [][]f32.Vec2{pts}}
		}
		return shapes, nil

	default:
		return nil, &UnsupportedError{Feature: c.Type.String() + " cluster"}
	}
}

func lineKind(f layer.PolygonFormat) Kind {
	switch f {
	case layer.FormatOpen:
		return OpenLine
	case layer.FormatDashed:
		return DashedLine
	default:
		return ClosedLine
	}
}
