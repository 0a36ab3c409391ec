package clf

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"sync/atomic"

	"github.com/robert-malhotra/go-clf/internal/binary"
	"github.com/robert-malhotra/go-clf/internal/header"
	"github.com/robert-malhotra/go-clf/internal/layer"
	"github.com/robert-malhotra/go-clf/internal/seek"
)

// endTag is the top-level end-of-file marker.
const endTag = 3

// File represents an open layer file.
//
// A File is read-only after Open returns. Lazy layer loads read through
// io.ReaderAt with their own cursor, so Find may be called from several
// goroutines. Close may run concurrently with them; loads that start after
// Close fail with ErrClosed.
type File struct {
	path   string
	closer io.Closer
	reader *binary.Reader
	opts   *fileOptions
	closed atomic.Bool

	name       string
	version    string
	comment    string
	layerCount uint64
	box        Box
	models     map[uint64]*ModelInfo
	thickness  float32
	layers     []*LayerRef
}

// Open opens a layer file for reading.
func Open(path string, opts ...Option) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	f, err := newFile(fh, opts)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f.path = path
	f.closer = fh
	return f, nil
}

// NewFile reads a layer file from r. The caller keeps ownership of r, which
// must stay readable while layers are loaded lazily.
func NewFile(r io.ReaderAt, opts ...Option) (*File, error) {
	return newFile(r, opts)
}

func newFile(r io.ReaderAt, opts []Option) (*File, error) {
	o := defaultFileOptions()
	for _, opt := range opts {
		opt(o)
	}

	f := &File{
		reader: binary.NewReader(r),
		opts:   o,
	}

	rd := f.reader.At(0)
	if err := rd.ExpectTag("file", header.SectionTag); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	h, err := header.Read(rd)
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	f.applyHeader(h)

	switch {
	case o.eager:
		err = f.scanLayers(rd)
	case !h.HasSeekTable:
		Logger().Debug("no seek table, scanning layers")
		err = f.scanLayers(rd)
	default:
		err = f.readSeekTable(int64(h.SeekTable))
	}
	if err != nil {
		return nil, err
	}

	// Nearest-layer lookup relies on ascending heights.
	slices.SortStableFunc(f.layers, func(a, b *LayerRef) int {
		return cmp.Compare(a.z, b.z)
	})

	Logger().Debug("opened layer file",
		"name", f.name,
		"version", f.version,
		"layers", len(f.layers),
		"models", len(f.models),
		"eager", o.eager)
	return f, nil
}

func (f *File) applyHeader(h *header.Header) {
	f.name = h.Name
	if f.name == "" {
		f.name = "no name"
	}
	f.version = "?"
	if h.Version != nil {
		f.version = strconv.FormatUint(h.Version.Major, 10) + "." + strconv.FormatUint(h.Version.Minor, 10)
	}
	f.comment = h.Comment
	f.layerCount = h.LayerCount
	f.box = boxFromHeader(h.Box)

	f.models = make(map[uint64]*ModelInfo, len(h.Models))
	f.thickness = float32(math.Inf(1))
	for _, m := range h.Models {
		f.models[m.ID] = &ModelInfo{
			ID:        m.ID,
			Name:      m.Name,
			Thickness: m.Thickness,
			Box:       boxFromHeader(m.Box),
		}
		f.thickness = min(f.thickness, m.Thickness)
	}
}

// scanLayers decodes every layer from the reader's position up to the
// end-of-file marker.
func (f *File) scanLayers(r *binary.Reader) error {
	for {
		at := r.Pos()
		tag, err := r.Int()
		if err != nil {
			return fmt.Errorf("scanning layers: %w", err)
		}
		switch tag {
		case seek.SectionTag:
			if err := r.Skip(); err != nil {
				return fmt.Errorf("skipping section at offset %d: %w", at, err)
			}
		case layer.SectionTag:
			l, err := f.readLayer(r)
			if err != nil {
				return fmt.Errorf("reading layer at offset %d: %w", at, err)
			}
			f.layers = append(f.layers, &LayerRef{z: l.Z, offset: at, layer: l})
		case endTag:
			return nil
		default:
			return &TagError{Section: "file", Tag: tag, Offset: at}
		}
	}
}

func (f *File) readSeekTable(offset int64) error {
	r := f.reader.At(offset)
	if err := r.ExpectTag("file", seek.SectionTag); err != nil {
		return fmt.Errorf("reading seek table: %w", err)
	}
	entries, err := seek.Read(r)
	if err != nil {
		return fmt.Errorf("reading seek table: %w", err)
	}
	f.layers = make([]*LayerRef, 0, len(entries))
	for _, e := range entries {
		if e.Offset > math.MaxInt64 {
			return fmt.Errorf("%w: layer offset %d", ErrCorruptFormat, e.Offset)
		}
		f.layers = append(f.layers, &LayerRef{z: e.Z, offset: int64(e.Offset), file: f})
	}
	return nil
}

// loadAt decodes the layer section starting at offset.
func (f *File) loadAt(offset int64) (*Layer, error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	r := f.reader.At(offset)
	if err := r.ExpectTag("file", layer.SectionTag); err != nil {
		return nil, fmt.Errorf("loading layer at offset %d: %w", offset, err)
	}
	l, err := f.readLayer(r)
	if err != nil {
		return nil, fmt.Errorf("loading layer at offset %d: %w", offset, err)
	}
	Logger().Debug("loaded layer", "file", f.name, "z", l.Z, "offset", offset, "shapes", len(l.Shapes))
	return l, nil
}

// Close releases the underlying file. Files created with NewFile leave
// their reader open.
func (f *File) Close() error {
	if f.closed.Swap(true) {
		return nil
	}
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string {
	return f.path
}

// Name returns the file name stored in the header.
func (f *File) Name() string {
	return f.name
}

// Version returns the format version as "major.minor", or "?" if the
// header has none.
func (f *File) Version() string {
	return f.version
}

// Comment returns the header comment.
func (f *File) Comment() string {
	return f.comment
}

// LayerCount returns the layer count declared in the header. It is not
// checked against the layers actually present; see Layers.
func (f *File) LayerCount() uint64 {
	return f.layerCount
}

// Box returns the global bounding box.
func (f *File) Box() Box {
	return f.box
}

// Thickness returns the smallest layer thickness of all models, or +Inf
// for a file without models.
func (f *File) Thickness() float32 {
	return f.thickness
}

// Model returns the model with the given id.
func (f *File) Model(id uint64) (*ModelInfo, bool) {
	m, ok := f.models[id]
	return m, ok
}

// Models returns the model table ordered by id.
func (f *File) Models() []*ModelInfo {
	out := make([]*ModelInfo, 0, len(f.models))
	for _, m := range f.models {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *ModelInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Layers returns the layer index in ascending height order.
func (f *File) Layers() []*LayerRef {
	return f.layers
}

// Find returns the layer nearest to height z. The result is an empty layer
// at z when z is outside the bounding box or when the nearest layer is more
// than one thickness away. A box without z extent does not restrict z.
func (f *File) Find(z float64) (*Layer, error) {
	if f.closed.Load() {
		return nil, ErrClosed
	}
	empty := &Layer{Z: float32(z), file: f}
	if f.box.Min[2] < f.box.Max[2] && !f.box.ContainsZ(z) {
		return empty, nil
	}

	var nearest *LayerRef
	best := math.Inf(1)
	for _, ref := range f.layers {
		if d := math.Abs(float64(ref.z) - z); d < best {
			nearest, best = ref, d
		}
	}
	if nearest == nil || best > float64(f.thickness) {
		return empty, nil
	}
	return nearest.Load()
}

func (f *File) String() string {
	return fmt.Sprintf("Name: %s\nVersion: %s\nNumber of Layers: %d\nComment: %s\nBox: \n%s\n",
		f.name, f.version, f.layerCount, f.comment, f.box)
}
