package clf

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f32"
)

func TestLayerMaskWithHole(t *testing.T) {
	l := squareLayer(1)
	p, err := Box{Max: [3]float32{10, 10, 1}}.ToImage(100, 100)
	require.NoError(t, err)

	img := l.Transform(p.Transform).Mask(p.Size)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())

	assert.Equal(t, uint8(255), img.GrayAt(20, 20).Y)
	assert.Equal(t, uint8(255), img.GrayAt(80, 80).Y)
	assert.Equal(t, uint8(255), img.GrayAt(5, 95).Y)
	assert.Equal(t, uint8(0), img.GrayAt(50, 50).Y, "hole must stay clear")
	assert.Equal(t, uint8(0), img.GrayAt(45, 55).Y)
}

func TestShapeMaskDashedLine(t *testing.T) {
	s := Shape{Kind: DashedLine, Paths: [][]f32.Vec2{{{10, 10}, {30, 10}, {10, 50}, {10, 70}}}}

	img := s.Mask(image.Point{X: 100, Y: 100})
	assert.Equal(t, uint8(255), img.GrayAt(20, 10).Y)
	assert.Equal(t, uint8(255), img.GrayAt(10, 60).Y)
	// The pairs are not joined.
	assert.Equal(t, uint8(0), img.GrayAt(20, 30).Y)
}

func TestShapeMaskClosedLine(t *testing.T) {
	s := Shape{Kind: ClosedLine, Paths: [][]f32.Vec2{square(10, 10, 90, 90)}}

	img := s.Mask(image.Point{X: 100, Y: 100})
	assert.Equal(t, uint8(255), img.GrayAt(50, 10).Y)
	assert.Equal(t, uint8(255), img.GrayAt(10, 50).Y)
	assert.Equal(t, uint8(255), img.GrayAt(89, 50).Y)
	assert.Equal(t, uint8(0), img.GrayAt(50, 50).Y, "lines are not filled")
}

func TestShapeMaskOpenLine(t *testing.T) {
	s := Shape{Kind: OpenLine, Paths: [][]f32.Vec2{{{20, 20}, {60, 20}}}}

	img := s.Mask(image.Point{X: 100, Y: 100})
	assert.Equal(t, uint8(255), img.GrayAt(20, 20).Y)
	assert.Equal(t, uint8(255), img.GrayAt(60, 20).Y)
	assert.Equal(t, uint8(0), img.GrayAt(40, 20).Y)
}

func TestLayerListMaskLabels(t *testing.T) {
	left := &Layer{Shapes: []Shape{{Kind: ModelCluster, Paths: [][]f32.Vec2{square(0, 0, 40, 40)}}}}
	right := &Layer{Shapes: []Shape{{Kind: ModelCluster, Paths: [][]f32.Vec2{square(60, 60, 100, 100)}}}}

	img := LayerList{left, right}.Mask(image.Point{X: 100, Y: 100})
	assert.Equal(t, uint8(1), img.GrayAt(20, 20).Y)
	assert.Equal(t, uint8(2), img.GrayAt(80, 80).Y)
	assert.Equal(t, uint8(0), img.GrayAt(50, 50).Y)
}

func TestMaskEmptySize(t *testing.T) {
	img := squareLayer(1).Mask(image.Point{})
	assert.True(t, img.Bounds().Empty())
}
