package clf

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

func TestBoxUnion(t *testing.T) {
	a := Box{Min: [3]float32{0, 0, 0}, Max: [3]float32{10, 10, 5}}
	b := Box{Min: [3]float32{-5, 2, 1}, Max: [3]float32{5, 20, 4}}

	want := Box{Min: [3]float32{-5, 0, 0}, Max: [3]float32{10, 20, 5}}
	assert.Equal(t, want, a.Union(b))
	assert.Equal(t, want, b.Union(a))
	assert.Equal(t, a, a.Union(a))
}

func TestBoxContainsZ(t *testing.T) {
	b := Box{Max: [3]float32{1, 1, 2}}

	assert.True(t, b.ContainsZ(0))
	assert.True(t, b.ContainsZ(1.5))
	assert.True(t, b.ContainsZ(2))
	assert.False(t, b.ContainsZ(-0.01))
	assert.False(t, b.ContainsZ(2.01))
}

func TestBoxTransform(t *testing.T) {
	b := Box{Min: [3]float32{1, 1, 0}, Max: [3]float32{2, 3, 4}}
	flip := f32.Aff3{-2, 0, 0, 0, 1, 10}

	got := b.Transform(flip)
	assert.Equal(t, Box{Min: [3]float32{-4, 11, 0}, Max: [3]float32{-2, 13, 4}}, got)
}

func TestBoxToImage(t *testing.T) {
	b := Box{Max: [3]float32{10, 20, 1}}

	tests := []struct {
		name          string
		height, width int
		size          image.Point
	}{
		{"height only", 100, 0, image.Point{X: 50, Y: 100}},
		{"width only", 0, 100, image.Point{X: 100, Y: 200}},
		{"both", 40, 40, image.Point{X: 40, Y: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := b.ToImage(tt.height, tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.size, p.Size)

			// The box's lower left corner lands on the image's bottom left,
			// its upper right corner on the top right.
			assert.Equal(t, f32.Vec2{0, float32(tt.size.Y)}, p.Apply(f32.Vec2{0, 0}))
			assert.Equal(t, f32.Vec2{float32(tt.size.X), 0}, p.Apply(f32.Vec2{10, 20}))
		})
	}
}

func TestBoxToImageOffsetOrigin(t *testing.T) {
	b := Box{Min: [3]float32{-10, 5, 0}, Max: [3]float32{10, 15, 1}}

	p, err := b.ToImage(0, 200)
	require.NoError(t, err)
	assert.Equal(t, image.Point{X: 200, Y: 100}, p.Size)
	assert.Equal(t, f32.Vec2{100, 50}, p.Apply(f32.Vec2{0, 10}))
}

func TestBoxToImageErrors(t *testing.T) {
	_, err := Box{Max: [3]float32{1, 1, 1}}.ToImage(0, 0)
	assert.Error(t, err)

	flat := Box{Max: [3]float32{0, 10, 1}}
	_, err = flat.ToImage(0, 100)
	assert.True(t, errors.Is(err, ErrEmptyBox))
	_, err = flat.ToImage(100, 100)
	assert.True(t, errors.Is(err, ErrEmptyBox))
}

func TestBoxString(t *testing.T) {
	b := Box{Min: [3]float32{0, 1, 2}, Max: [3]float32{3, 4, 5.5}}
	assert.Equal(t, "x: 0 --> 3\ny: 1 --> 4\nz: 2 --> 5.5", b.String())
}
