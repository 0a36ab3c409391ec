package seek

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-clf/internal/binary"
)

// bytesReaderAt wraps a byte slice to implement io.ReaderAt.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(b)) {
		return 0, nil
	}
	n := copy(p, b[off:])
	return n, nil
}

func TestSeekTableRoundTrip(t *testing.T) {
	want := []Entry{
		{Z: 0.05, Offset: 120},
		{Z: 0.1, Offset: 4096},
		{Z: 0.15, Offset: 1 << 33},
	}

	w := binary.NewWriter()
	Write(w, want)
	require.NoError(t, w.Err())

	r := binary.NewReader(bytesReaderAt(w.Bytes()))
	require.NoError(t, r.ExpectTag("file", SectionTag))
	got, err := Read(r)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, int64(w.Len()), r.Pos())
}

func TestSeekTableEmpty(t *testing.T) {
	w := binary.NewWriter()
	Write(w, nil)
	require.NoError(t, w.Err())

	r := binary.NewReader(bytesReaderAt(w.Bytes()))
	require.NoError(t, r.ExpectTag("file", SectionTag))
	got, err := Read(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSeekTableBadEntryTag(t *testing.T) {
	entry := binary.NewWriter()
	entry.FloatSection(entryZ, 1)

	body := binary.NewWriter()
	body.Int(4)
	body.Block(entry)

	w := binary.NewWriter()
	w.Block(body)
	require.NoError(t, w.Err())

	_, err := Read(binary.NewReader(bytesReaderAt(w.Bytes())))
	assert.True(t, errors.Is(err, binary.ErrCorrupt))
}

func TestSeekTableUnknownEntryField(t *testing.T) {
	entry := binary.NewWriter()
	entry.FloatSection(entryZ, 1)
	entry.IntSection(2, 5)

	body := binary.NewWriter()
	body.Int(entryTag)
	body.Block(entry)

	w := binary.NewWriter()
	w.Block(body)
	require.NoError(t, w.Err())

	_, err := Read(binary.NewReader(bytesReaderAt(w.Bytes())))
	var tagErr *binary.TagError
	require.True(t, errors.As(err, &tagErr))
	assert.Equal(t, "seek entry", tagErr.Section)
}
