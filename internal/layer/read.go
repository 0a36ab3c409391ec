package layer

import (
	"fmt"

	"github.com/robert-malhotra/go-clf/internal/binary"
)

// Read parses a layer section. The reader must be positioned just after the
// top-level layer tag, on the section length.
func Read(r *binary.Reader) (*Record, error) {
	last, err := r.Last()
	if err != nil {
		return nil, err
	}

	rec := &Record{}
	var (
		hasZ  bool
		count uint64
		hasN  bool
	)
	for r.Pos() < last {
		at := r.Pos()
		tag, n, err := r.Header()
		if err != nil {
			return nil, err
		}
		end := r.Pos() + int64(n)

		switch tag {
		case TagZ:
			rec.Z, err = r.Float()
			hasZ = err == nil
		case TagCount:
			count, err = r.Int()
			hasN = err == nil
		case TagCluster:
			var c Cluster
			if c, err = readCluster(r, end); err == nil {
				rec.Clusters = append(rec.Clusters, c)
			}
		case TagPoints:
			if !hasN {
				return nil, fmt.Errorf("%w: point buffer at offset %d before point count", binary.ErrCorrupt, at)
			}
			rec.Points, err = readPoints(r, count, n)
		default:
			return nil, &binary.TagError{Section: "layer", Tag: tag, Offset: at}
		}
		if err != nil {
			return nil, fmt.Errorf("reading layer field %d: %w", tag, err)
		}
		if err := r.End(fmt.Sprintf("layer field %d", tag), end); err != nil {
			return nil, err
		}
	}
	if err := r.End("layer", last); err != nil {
		return nil, err
	}

	if !hasZ {
		return nil, fmt.Errorf("%w: layer ending at offset %d has no height", binary.ErrCorrupt, last)
	}
	if rec.Points == nil {
		return nil, fmt.Errorf("%w: layer at z=%g has no point buffer", binary.ErrCorrupt, rec.Z)
	}
	return rec, nil
}

// readCluster parses a cluster record ending at last. The model and type
// fields come first, followed by any number of polygon descriptors.
func readCluster(r *binary.Reader, last int64) (Cluster, error) {
	var c Cluster

	if _, err := r.Expect("cluster", ClusterTagModel); err != nil {
		return c, err
	}
	model, err := r.Int()
	if err != nil {
		return c, err
	}
	c.Model = model

	if _, err := r.Expect("cluster", ClusterTagType); err != nil {
		return c, err
	}
	at := r.Pos()
	typ, err := r.Int()
	if err != nil {
		return c, err
	}
	c.Type = ClusterType(typ)
	if c.Type > ClusterWeb {
		return c, fmt.Errorf("%w: unknown cluster type %d at offset %d", binary.ErrCorrupt, typ, at)
	}

	for r.Pos() < last {
		n, err := r.Expect("cluster", ClusterTagPolygon)
		if err != nil {
			return c, err
		}
		end := r.Pos() + int64(n)
		p, err := readPolygon(r)
		if err != nil {
			return c, err
		}
		if err := r.End("polygon", end); err != nil {
			return c, err
		}
		c.Polygons = append(c.Polygons, p)
	}
	return c, r.End("cluster", last)
}

// readPolygon parses a polygon descriptor: type, format, an optional
// compression field and the point count.
func readPolygon(r *binary.Reader) (Polygon, error) {
	var p Polygon

	if _, err := r.Expect("polygon", PolygonTagType); err != nil {
		return p, err
	}
	at := r.Pos()
	typ, err := r.Int()
	if err != nil {
		return p, err
	}
	p.Type = PolygonType(typ)
	if p.Type > PolygonSupport {
		return p, fmt.Errorf("%w: unknown polygon type %d at offset %d", binary.ErrCorrupt, typ, at)
	}

	if _, err := r.Expect("polygon", PolygonTagFormat); err != nil {
		return p, err
	}
	at = r.Pos()
	format, err := r.Int()
	if err != nil {
		return p, err
	}
	p.Format = PolygonFormat(format)
	if p.Format > FormatDashed {
		return p, fmt.Errorf("%w: unknown polygon format %d at offset %d", binary.ErrCorrupt, format, at)
	}

	at = r.Pos()
	tag, _, err := r.Header()
	if err != nil {
		return p, err
	}
	if tag == PolygonTagCompression {
		if p.Compression, err = r.Int(); err != nil {
			return p, err
		}
		at = r.Pos()
		if tag, _, err = r.Header(); err != nil {
			return p, err
		}
	}
	if tag != PolygonTagCount {
		return p, &binary.TagError{Section: "polygon", Tag: tag, Offset: at}
	}
	p.Count, err = r.Int()
	return p, err
}
