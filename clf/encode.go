package clf

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/math/f32"

	"github.com/robert-malhotra/go-clf/internal/binary"
	"github.com/robert-malhotra/go-clf/internal/header"
	"github.com/robert-malhotra/go-clf/internal/layer"
	"github.com/robert-malhotra/go-clf/internal/seek"
)

// Header describes a layer file to be written with Encode.
type Header struct {
	Name    string
	Major   uint64
	Minor   uint64
	Comment string
	Box     Box
	Models  []ModelInfo
}

// Encode writes a complete layer file: the header, one section per layer in
// the given order, a seek table and the end-of-file marker.
//
// Model clusters are written as model clusters whose first polygon is the
// outer loop. Every line shape becomes a web cluster with one polygon per
// path; each of those polygons reads back as a separate single-path shape.
// Every shape must reference a model listed in h.Models by id.
func Encode(w io.Writer, h Header, layers []*Layer) error {
	models := make(map[uint64]bool, len(h.Models))
	hdr := &header.Header{
		Name:         h.Name,
		Version:      &header.Version{Major: h.Major, Minor: h.Minor},
		LayerCount:   uint64(len(layers)),
		Box:          h.Box.header(),
		Comment:      h.Comment,
		HasSeekTable: true,
	}
	for _, m := range h.Models {
		models[m.ID] = true
		hdr.Models = append(hdr.Models, header.Model{
			ID:        m.ID,
			Name:      m.Name,
			Box:       m.Box.header(),
			Thickness: m.Thickness,
		})
	}

	body := binary.NewWriter()
	entries := make([]seek.Entry, len(layers))
	for i, l := range layers {
		rec, err := record(l, models)
		if err != nil {
			return fmt.Errorf("encoding layer %d: %w", i, err)
		}
		entries[i] = seek.Entry{Z: l.Z, Offset: uint64(body.Len())}
		rec.Write(body)
	}

	// The seek offset has a fixed width, so the header size is known
	// before the offsets are.
	probe := binary.NewWriter()
	hdr.Write(probe)
	if err := probe.Err(); err != nil {
		return fmt.Errorf("encoding header: %w", err)
	}
	base := uint64(probe.Len())
	for i := range entries {
		entries[i].Offset += base
	}
	hdr.SeekTable = base + uint64(body.Len())

	out := binary.NewWriter()
	hdr.Write(out)
	out.Raw(body.Bytes())
	seek.Write(out, entries)
	out.Int(endTag)
	if err := errors.Join(body.Err(), out.Err()); err != nil {
		return err
	}

	_, err := w.Write(out.Bytes())
	return err
}

// record converts a layer into its section form.
func record(l *Layer, models map[uint64]bool) (*layer.Record, error) {
	rec := &layer.Record{Z: l.Z}
	var points []f32.Vec2

	for i, s := range l.Shapes {
		if s.Model == nil {
			return nil, fmt.Errorf("shape %d has no model", i)
		}
		if !models[s.Model.ID] {
			return nil, fmt.Errorf("shape %d: %w", i, &UnknownModelError{ID: s.Model.ID})
		}
		c := layer.Cluster{Model: s.Model.ID}

		switch s.Kind {
		case ModelCluster:
			if len(s.Paths) == 0 {
				return nil, fmt.Errorf("shape %d: model cluster has no outer loop", i)
			}
			c.Type = layer.ClusterModel
			for j, path := range s.Paths {
				typ := layer.PolygonInner
				if j == 0 {
					typ = layer.PolygonOuter
				}
				c.Polygons = append(c.Polygons, layer.Polygon{
					Type:   typ,
					Format: layer.FormatClosed,
					Count:  uint64(len(path)),
				})
				points = append(points, path...)
			}
		case ClosedLine, OpenLine, DashedLine:
			c.Type = layer.ClusterWeb
			for _, path := range s.Paths {
				c.Polygons = append(c.Polygons, layer.Polygon{
					Type:   layer.PolygonSupport,
					Format: lineFormat(s.Kind),
					Count:  uint64(len(path)),
				})
				points = append(points, path...)
			}
		default:
			return nil, fmt.Errorf("shape %d: %w", i, &UnsupportedError{Feature: s.Kind.String()})
		}
		rec.Clusters = append(rec.Clusters, c)
	}

	rec.Points = layer.NewPointBuffer(points)
	return rec, nil
}

func lineFormat(k Kind) layer.PolygonFormat {
	switch k {
	case OpenLine:
		return layer.FormatOpen
	case DashedLine:
		return layer.FormatDashed
	default:
		return layer.FormatClosed
	}
}
