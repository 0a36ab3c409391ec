// Package layer handles layer sections of a CLF layer file.
//
// A layer section holds the height of the layer, the number of points in
// its shared point buffer, one or more cluster records and the point buffer
// itself. Cluster records describe polygons only by their point count; the
// points are taken from the shared buffer in declaration order.
package layer

import "fmt"

// SectionTag is the top-level tag that introduces a layer section.
const SectionTag = 2

// Field tags of a layer section.
const (
	TagZ       = 0
	TagCount   = 1
	TagCluster = 2
	TagPoints  = 3
)

// Field tags of a cluster record.
const (
	ClusterTagModel   = 0
	ClusterTagType    = 1
	ClusterTagPolygon = 2
)

// Field tags of a polygon descriptor.
const (
	PolygonTagType        = 0
	PolygonTagFormat      = 1
	PolygonTagCompression = 2
	PolygonTagCount       = 3
)

// ClusterType selects how a cluster's polygons become shapes.
type ClusterType uint64

const (
	ClusterModel   ClusterType = 0
	ClusterSupport ClusterType = 1
	ClusterWeb     ClusterType = 2
)

func (c ClusterType) String() string {
	switch c {
	case ClusterModel:
		return "model"
	case ClusterSupport:
		return "support"
	case ClusterWeb:
		return "web"
	default:
		return fmt.Sprintf("cluster(%d)", uint64(c))
	}
}

// PolygonType is the topological role of a polygon.
type PolygonType uint64

const (
	PolygonOuter   PolygonType = 0
	PolygonInner   PolygonType = 1
	PolygonSupport PolygonType = 2
)

func (p PolygonType) String() string {
	switch p {
	case PolygonOuter:
		return "outer"
	case PolygonInner:
		return "inner"
	case PolygonSupport:
		return "support"
	default:
		return fmt.Sprintf("polygon(%d)", uint64(p))
	}
}

// PolygonFormat is how the points of a polygon are connected.
type PolygonFormat uint64

const (
	FormatClosed PolygonFormat = 0
	FormatOpen   PolygonFormat = 1
	FormatDashed PolygonFormat = 2
)

func (f PolygonFormat) String() string {
	switch f {
	case FormatClosed:
		return "closed"
	case FormatOpen:
		return "open"
	case FormatDashed:
		return "dashed"
	default:
		return fmt.Sprintf("format(%d)", uint64(f))
	}
}

// Polygon describes one polygon of a cluster. Its points live in the
// layer's point buffer.
type Polygon struct {
	Type   PolygonType
	Format PolygonFormat
	// Compression is read when present but not interpreted.
	Compression uint64
	Count       uint64
}

// Cluster is a group of polygons sharing a model and a cluster type.
type Cluster struct {
	Model    uint64
	Type     ClusterType
	Polygons []Polygon
}

// Record is a decoded layer section before its clusters are resolved into
// shapes.
type Record struct {
	Z        float32
	Clusters []Cluster
	Points   *PointBuffer
}
