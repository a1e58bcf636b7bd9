package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 20, 100, 50)

	assert.True(t, r.Contains(Point2D{X: 60, Y: 45}))
	assert.True(t, r.Contains(Point2D{X: 10, Y: 20}))
	assert.True(t, r.Contains(Point2D{X: 110, Y: 70}))
	assert.False(t, r.Contains(Point2D{X: 9.99, Y: 45}))
	assert.False(t, r.Contains(Point2D{X: 60, Y: 70.01}))
}

func TestRectContainsRect(t *testing.T) {
	outer := NewRect(0, 0, 100, 100)

	assert.True(t, outer.ContainsRect(NewRect(10, 10, 50, 50)))
	assert.True(t, outer.ContainsRect(outer))
	assert.False(t, outer.ContainsRect(NewRect(60, 60, 50, 50)))
	assert.False(t, outer.ContainsRect(NewRect(-1, 10, 20, 20)))
}

func TestRectRoundCoversFloatRect(t *testing.T) {
	r := NewRect(10.3, 20.7, 99.2, 49.1)
	ri := r.Round()

	assert.Equal(t, 10, ri.X)
	assert.Equal(t, 20, ri.Y)
	assert.LessOrEqual(t, float64(ri.X), r.X)
	assert.LessOrEqual(t, float64(ri.Y), r.Y)
	assert.GreaterOrEqual(t, float64(ri.X+ri.Width), r.Right())
	assert.GreaterOrEqual(t, float64(ri.Y+ri.Height), r.Bottom())
}

func TestTransformApply(t *testing.T) {
	p := Point2D{X: 1, Y: 0}

	assert.Equal(t, p, Identity().Apply(p))
	assert.Equal(t, Point2D{X: 4, Y: 5}, Translation(3, 5).Apply(p))
	assert.Equal(t, Point2D{X: 2, Y: 0}, Scale(2, 3).Apply(p))

	rotated := Rotation(math.Pi / 2).Apply(p)
	assert.InDelta(t, 0, rotated.X, 1e-12)
	assert.InDelta(t, 1, rotated.Y, 1e-12)
}

func TestComposeOrder(t *testing.T) {
	// Translate after scale: the translation is not scaled.
	tr := Translation(10, 0).Compose(Scale(2, 2))
	got := tr.Apply(Point2D{X: 1, Y: 1})
	assert.Equal(t, Point2D{X: 12, Y: 2}, got)

	// Scale after translate: the translation is scaled too.
	tr = Scale(2, 2).Compose(Translation(10, 0))
	got = tr.Apply(Point2D{X: 1, Y: 1})
	assert.Equal(t, Point2D{X: 22, Y: 2}, got)
}

func TestInverseRoundTrip(t *testing.T) {
	tr := Translation(40, -7).
		Compose(Rotation(0.3)).
		Compose(Scale(2, 0.5))

	inv, ok := tr.Inverse()
	require.True(t, ok)

	p := Point2D{X: 13, Y: 29}
	back := inv.Apply(tr.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestInverseSingular(t *testing.T) {
	_, ok := Scale(0, 1).Inverse()
	assert.False(t, ok)
}

func TestTransformedBounds(t *testing.T) {
	// Unrotated: centered box translated to (100, 50).
	box := TransformedBounds(40, 20, Translation(100, 50))
	assert.Equal(t, NewRect(80, 40, 40, 20), box)

	// A 90 degree rotation swaps the extents.
	box = TransformedBounds(40, 20, Rotation(math.Pi/2))
	assert.InDelta(t, 20, box.Width, 1e-9)
	assert.InDelta(t, 40, box.Height, 1e-9)

	// 45 degrees grows the box to the diagonal projection.
	box = TransformedBounds(40, 40, Rotation(math.Pi/4))
	assert.InDelta(t, 40*math.Sqrt2, box.Width, 1e-9)
}

func TestBoundingBox(t *testing.T) {
	assert.Equal(t, Rect{}, BoundingBox(nil))

	pts := []Point2D{{X: 3, Y: 7}, {X: -2, Y: 4}, {X: 5, Y: -1}}
	assert.Equal(t, NewRect(-2, -1, 7, 8), BoundingBox(pts))
}
