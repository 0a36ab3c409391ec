package layer

import (
	"github.com/robert-malhotra/go-clf/internal/binary"
)

// Write appends the record as a complete top-level layer section. The point
// count written is the length of the point buffer; the polygon counts must
// add up to it for the section to decode.
func (rec *Record) Write(w *binary.Writer) {
	body := binary.NewWriter()

	body.FloatSection(TagZ, rec.Z)

	var points []float32
	if rec.Points != nil {
		points = make([]float32, 0, 2*rec.Points.Len())
		for _, p := range rec.Points.points {
			points = append(points, p[0], p[1])
		}
	}
	body.IntSection(TagCount, uint64(len(points)/2))

	for _, c := range rec.Clusters {
		body.Section(TagCluster, c.encode())
	}

	pb := binary.NewWriter()
	pb.Floats(points...)
	body.Section(TagPoints, pb)

	w.Int(SectionTag)
	w.Block(body)
}

func (c Cluster) encode() *binary.Writer {
	w := binary.NewWriter()
	w.IntSection(ClusterTagModel, c.Model)
	w.IntSection(ClusterTagType, uint64(c.Type))
	for _, p := range c.Polygons {
		w.Section(ClusterTagPolygon, p.encode())
	}
	return w
}

func (p Polygon) encode() *binary.Writer {
	w := binary.NewWriter()
	w.IntSection(PolygonTagType, uint64(p.Type))
	w.IntSection(PolygonTagFormat, uint64(p.Format))
	if p.Compression != 0 {
		w.IntSection(PolygonTagCompression, p.Compression)
	}
	w.IntSection(PolygonTagCount, p.Count)
	return w
}
