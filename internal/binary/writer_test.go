package binary

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntSize(t *testing.T) {
	tests := []struct {
		value    uint64
		expected int
	}{
		{0, 1},
		{31, 1},
		{32, 2},
		{1<<13 - 1, 2},
		{1 << 13, 3},
		{1<<21 - 1, 3},
		{1 << 21, 4},
		{1<<53 - 1, 7},
		{1 << 53, 8},
		{MaxInt, 8},
		{MaxInt + 1, 0},
		{math.MaxUint64, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IntSize(tt.value), "IntSize(%d)", tt.value)
	}
}

func TestWriterIntRoundTrip(t *testing.T) {
	var values []uint64
	for shift := 0; shift <= 61; shift++ {
		v := uint64(1)<<shift - 1
		values = append(values, v)
		if shift < 61 {
			values = append(values, uint64(1)<<shift)
		}
	}
	values = append(values, 0x123456789ABCDE, 1000, 50000)

	for _, v := range values {
		w := NewWriter()
		w.Int(v)
		require.NoError(t, w.Err())
		assert.Len(t, w.Bytes(), IntSize(v), "encoded length of %d", v)

		r := NewReader(bytesReaderAt(w.Bytes()))
		got, err := r.Int()
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, int64(len(w.Bytes())), r.Pos())
	}
}

func TestWriterIntOutOfRange(t *testing.T) {
	w := NewWriter()
	w.Int(MaxInt + 1)
	assert.True(t, errors.Is(w.Err(), ErrIntRange))

	// Later writes are dropped once an error is recorded.
	w.Int(1)
	assert.Empty(t, w.Bytes())
}

func TestWriterIntWidth(t *testing.T) {
	w := NewWriter()
	w.IntWidth(5, 8)
	require.NoError(t, w.Err())
	assert.Equal(t, []byte{0xE0, 0, 0, 0, 0, 0, 0, 5}, w.Bytes())

	r := NewReader(bytesReaderAt(w.Bytes()))
	v, err := r.Int()
	require.NoError(t, err)
	assert.Equal(t, uint64(5), v)

	w = NewWriter()
	w.IntWidth(32, 1)
	assert.True(t, errors.Is(w.Err(), ErrIntRange))
}

func TestWriterFloatBits(t *testing.T) {
	patterns := []uint32{0, 0x3F800000, 0x80000000, 0x7F800000, 0x7FC00001, 0x00000001, 0xFFFFFFFF}

	w := NewWriter()
	for _, p := range patterns {
		w.Float(math.Float32frombits(p))
	}
	require.NoError(t, w.Err())

	r := NewReader(bytesReaderAt(w.Bytes()))
	for _, p := range patterns {
		f, err := r.Float()
		require.NoError(t, err)
		assert.Equal(t, p, math.Float32bits(f))
	}
}

func TestWriterSection(t *testing.T) {
	body := NewWriter()
	body.Int(300)
	body.Float(2.5)

	w := NewWriter()
	w.Section(4, body)
	require.NoError(t, w.Err())

	r := NewReader(bytesReaderAt(w.Bytes()))
	tag, length, err := r.Header()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), tag)
	assert.Equal(t, uint64(body.Len()), length)

	v, err := r.Int()
	require.NoError(t, err)
	assert.Equal(t, uint64(300), v)
	f, err := r.Float()
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), f)
	assert.Equal(t, int64(w.Len()), r.Pos())
}

func TestWriterBlockPropagatesError(t *testing.T) {
	body := NewWriter()
	body.Int(math.MaxUint64)

	w := NewWriter()
	w.Block(body)
	assert.True(t, errors.Is(w.Err(), ErrIntRange))
}

func TestWriterStrings(t *testing.T) {
	w := NewWriter()
	w.CString(0, "Layer File")
	w.UTF16(1, "Støtte")
	require.NoError(t, w.Err())

	r := NewReader(bytesReaderAt(w.Bytes()))
	_, n, err := r.Header()
	require.NoError(t, err)
	name, err := r.CString(n)
	require.NoError(t, err)
	assert.Equal(t, "Layer File", name)

	_, n, err = r.Header()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), n)
	comment, err := r.UTF16(n)
	require.NoError(t, err)
	assert.Equal(t, "Støtte", comment)
}
