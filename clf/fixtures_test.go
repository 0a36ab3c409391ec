package clf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"

	"github.com/robert-malhotra/go-clf/internal/binary"
	"github.com/robert-malhotra/go-clf/internal/header"
	"github.com/robert-malhotra/go-clf/internal/layer"
	"github.com/robert-malhotra/go-clf/internal/seek"
)

func square(x0, y0, x1, y1 float32) []f32.Vec2 {
	return []f32.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

var partModel = ModelInfo{
	ID:        1,
	Name:      "Part",
	Thickness: 0.05,
	Box:       Box{Max: [3]float32{10, 10, 0}},
}

// squareHeader is a single model file whose box is flat in z.
func squareHeader() Header {
	return Header{
		Name:    "Arcam Layer File",
		Major:   1,
		Minor:   0,
		Comment: "This is a Test.",
		Box:     Box{Max: [3]float32{10, 10, 0}},
		Models:  []ModelInfo{partModel},
	}
}

// squareLayer is a 10x10 square with a 2x2 hole.
func squareLayer(z float32) *Layer {
	m := partModel
	return &Layer{
		Z: z,
		Shapes: []Shape{{
			Kind:  ModelCluster,
			Model: &m,
			Paths: [][]f32.Vec2{square(0, 0, 10, 10), square(4, 4, 6, 6)},
		}},
	}
}

// stackHeader describes a file with a proper z range, for lookups.
func stackHeader(thickness float32, models ...ModelInfo) Header {
	if len(models) == 0 {
		m := partModel
		m.Thickness = thickness
		models = []ModelInfo{m}
	}
	return Header{
		Name:   "stack",
		Major:  1,
		Minor:  2,
		Box:    Box{Max: [3]float32{10, 10, 5}},
		Models: models,
	}
}

func encodeFile(t *testing.T, h Header, layers ...*Layer) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, h, layers))
	return buf.Bytes()
}

func openBytes(t *testing.T, data []byte, opts ...Option) *File {
	t.Helper()
	f, err := NewFile(bytes.NewReader(data), opts...)
	require.NoError(t, err)
	return f
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// rawFile assembles a file from section records directly, bypassing the
// checks Encode makes.
func rawFile(t *testing.T, hdr *header.Header, recs ...*layer.Record) []byte {
	t.Helper()

	body := binary.NewWriter()
	var entries []seek.Entry
	for _, rec := range recs {
		entries = append(entries, seek.Entry{Z: rec.Z, Offset: uint64(body.Len())})
		rec.Write(body)
	}

	hdr.HasSeekTable = true
	probe := binary.NewWriter()
	hdr.Write(probe)
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
	require.NoError(t, out.Err())
	return out.Bytes()
}

func rawHeader() *header.Header {
	return &header.Header{
		Name:   "raw",
		Box:    header.Box{Max: [3]float32{10, 10, 5}},
		Models: []header.Model{{ID: 1, Name: "Part", Thickness: 0.1}},
	}
}
