package header

import (
	"fmt"

	"github.com/robert-malhotra/go-clf/internal/binary"
)

// Field tags of the header section.
const (
	TagName       = 0
	TagVersion    = 1
	TagLayerCount = 2
	TagBox        = 3
	TagModel      = 4
	TagSeekTable  = 5
	TagComment    = 6
)

// Field tags of a model record.
const (
	ModelTagID        = 0
	ModelTagName      = 1
	ModelTagBox       = 2
	ModelTagThickness = 3
)

// Box is an axis-aligned bounding box as stored in the file.
type Box struct {
	Min [3]float32
	Max [3]float32
}

// Version is the file format version.
type Version struct {
	Major uint64
	Minor uint64
}

// Model is one entry of the model table.
type Model struct {
	ID        uint64
	Name      string
	Box       Box
	Thickness float32
}

// Header holds the decoded header section.
type Header struct {
	Name       string
	Version    *Version // nil when the file has no version field
	LayerCount uint64
	Box        Box
	Models     []Model
	Comment    string

	// SeekTable is the absolute offset of the seek table section.
	// HasSeekTable is false when the file does not declare one.
	SeekTable    uint64
	HasSeekTable bool
}

// Read parses a header section body. The reader must be positioned just
// after the top-level header tag, on the section length.
func Read(r *binary.Reader) (*Header, error) {
	last, err := r.Last()
	if err != nil {
		return nil, err
	}

	h := &Header{}
	for r.Pos() < last {
		at := r.Pos()
		tag, n, err := r.Header()
		if err != nil {
			return nil, err
		}
		end := r.Pos() + int64(n)

		switch tag {
		case TagName:
			h.Name, err = r.CString(n)
		case TagVersion:
			var v []uint64
			if v, err = r.Ints(2); err == nil {
				h.Version = &Version{Major: v[0], Minor: v[1]}
			}
		case TagLayerCount:
			h.LayerCount, err = r.Int()
		case TagBox:
			h.Box, err = readBox(r)
		case TagModel:
			var m Model
			if m, err = readModel(r, end); err == nil {
				h.Models = append(h.Models, m)
			}
		case TagSeekTable:
			h.SeekTable, err = r.Int()
			h.HasSeekTable = err == nil
		case TagComment:
			h.Comment, err = r.UTF16(n)
		default:
			return nil, &binary.TagError{Section: "header", Tag: tag, Offset: at}
		}
		if err != nil {
			return nil, fmt.Errorf("reading header field %d: %w", tag, err)
		}
		if err := r.End(fmt.Sprintf("header field %d", tag), end); err != nil {
			return nil, err
		}
	}
	if err := r.End("header", last); err != nil {
		return nil, err
	}
	return h, nil
}

// readModel parses one model record ending at last.
func readModel(r *binary.Reader, last int64) (Model, error) {
	var m Model
	for r.Pos() < last {
		at := r.Pos()
		tag, n, err := r.Header()
		if err != nil {
			return m, err
		}
		switch tag {
		case ModelTagID:
			m.ID, err = r.Int()
		case ModelTagName:
			m.Name, err = r.UTF16(n)
		case ModelTagBox:
			m.Box, err = readBox(r)
		case ModelTagThickness:
			if n != 4 {
				return m, fmt.Errorf("%w: model thickness of %d bytes at offset %d", binary.ErrCorrupt, n, at)
			}
			m.Thickness, err = r.Float()
		default:
			return m, &binary.TagError{Section: "model", Tag: tag, Offset: at}
		}
		if err != nil {
			return m, err
		}
	}
	return m, r.End("model", last)
}

func readBox(r *binary.Reader) (Box, error) {
	v, err := r.Floats(6)
	if err != nil {
		return Box{}, err
	}
	return Box{
		Min: [3]float32{v[0], v[1], v[2]},
		Max: [3]float32{v[3], v[4], v[5]},
	}, nil
}
