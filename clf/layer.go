package clf

import (
	"slices"
	"sync"

	"golang.org/x/image/math/f32"
)

// Layer holds the shapes found at one height.
type Layer struct {
	Z      float32
	Shapes []Shape

	file *File
}

// File returns the file the layer was read from, or nil for merged layers.
func (l *Layer) File() *File {
	return l.file
}

// Empty reports whether the layer has no shapes.
func (l *Layer) Empty() bool {
	return len(l.Shapes) == 0
}

// Add returns a layer at l's height holding the shapes of l followed by
// those of o. Adding nil returns l unchanged.
func (l *Layer) Add(o *Layer) *Layer {
	if o == nil {
		return l
	}
	shapes := make([]Shape, 0, len(l.Shapes)+len(o.Shapes))
	shapes = append(shapes, l.Shapes...)
	shapes = append(shapes, o.Shapes...)
	return &Layer{Z: l.Z, Shapes: shapes}
}

// Filter returns a layer holding only the shapes of the given kinds.
func (l *Layer) Filter(kinds ...Kind) *Layer {
	out := &Layer{Z: l.Z, file: l.file}
	for _, s := range l.Shapes {
		if slices.Contains(kinds, s.Kind) {
			out.Shapes = append(out.Shapes, s)
		}
	}
	return out
}

// Transform returns a layer with every shape mapped through m.
func (l *Layer) Transform(m f32.Aff3) *Layer {
	out := &Layer{Z: l.Z, Shapes: make([]Shape, len(l.Shapes)), file: l.file}
	for i, s := range l.Shapes {
		out.Shapes[i] = s.Transform(m)
	}
	return out
}

// Bounds returns the xy bounding box of all shapes, with z set to the
// layer height. An empty layer has an empty box at its height.
func (l *Layer) Bounds() Box {
	var b Box
	for i, s := range l.Shapes {
		if i == 0 {
			b = s.Bounds()
		} else {
			b = b.Union(s.Bounds())
		}
	}
	b.Min[2], b.Max[2] = l.Z, l.Z
	return b
}

// LayerList holds the layers found at one height in each file of a build,
// in file order.
type LayerList []*Layer

// Z returns the height of the first layer, or 0 for an empty list.
func (ll LayerList) Z() float32 {
	if len(ll) == 0 {
		return 0
	}
	return ll[0].Z
}

// Merge combines the layers into one by concatenating their shapes.
func (ll LayerList) Merge() *Layer {
	var out *Layer
	for _, l := range ll {
		if out == nil {
			out = l
			continue
		}
		out = out.Add(l)
	}
	return out
}

// Filter applies Layer.Filter to every layer.
func (ll LayerList) Filter(kinds ...Kind) LayerList {
	out := make(LayerList, len(ll))
	for i, l := range ll {
		out[i] = l.Filter(kinds...)
	}
	return out
}

// Transform applies Layer.Transform to every layer.
func (ll LayerList) Transform(m f32.Aff3) LayerList {
	out := make(LayerList, len(ll))
	for i, l := range ll {
		out[i] = l.Transform(m)
	}
	return out
}

// LayerRef is an entry of a file's layer index. It either holds a decoded
// layer or the offset of a layer section still to be decoded.
type LayerRef struct {
	z      float32
	offset int64
	file   *File

	mu    sync.Mutex
	layer *Layer
}

// Z returns the layer height.
func (r *LayerRef) Z() float32 {
	return r.z
}

// Loaded reports whether the layer is held in memory.
func (r *LayerRef) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layer != nil
}

// Offset returns the file offset of a pending layer. ok is false for
// layers decoded at open time.
func (r *LayerRef) Offset() (offset int64, ok bool) {
	if r.file == nil {
		return 0, false
	}
	return r.offset, true
}

// Load returns the layer. A layer decoded at open time is returned as is;
// a pending layer is decoded from the file on every call unless the file
// was opened with WithLayerCache.
func (r *LayerRef) Load() (*Layer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.layer != nil {
		return r.layer, nil
	}
	l, err := r.file.loadAt(r.offset)
	if err != nil {
		return nil, err
	}
	if r.file.opts.cache {
		r.layer = l
	}
	return l, nil
}
