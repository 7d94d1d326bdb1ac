package space

import (
	"math"
	"testing"

	"github.com/banshee-data/entityspace/internal/metrics"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Tests: Bounding boxes
// =============================================================================

func TestBounds_EmptyIsUnitBox(t *testing.T) {
	assert.Equal(t, UnitBox(), Bounds(nil))
}

func TestBounds_IgnoresNonFinite(t *testing.T) {
	points := []Point{
		{ID: "a", X: -1, Y: 2, Z: 3},
		{ID: "b", X: 4, Y: -5, Z: 6},
		{ID: "c", X: math.NaN(), Y: 100, Z: 100},
		{ID: "d", X: 1, Y: math.Inf(1), Z: 0},
	}
	b := Bounds(points)
	assert.Equal(t, Vec3{X: -1, Y: -5, Z: 3}, b.Min)
	assert.Equal(t, Vec3{X: 4, Y: 2, Z: 6}, b.Max)
	assert.Equal(t, 7.0, b.MaxSpan())
}

func TestBounds_AllNonFiniteIsUnitBox(t *testing.T) {
	b := Bounds([]Point{{X: math.NaN()}, {Z: math.Inf(-1)}})
	assert.Equal(t, UnitBox(), b)
}

func TestBounds_NeverDegenerate(t *testing.T) {
	b := Bounds([]Point{{X: 2, Y: 2, Z: 2}, {X: 2, Y: 2, Z: 2}})
	s := b.Span()
	assert.Greater(t, s.X, 0.0)
	assert.Greater(t, s.Y, 0.0)
	assert.Greater(t, s.Z, 0.0)
}

func TestPaddedBounds(t *testing.T) {
	b := PaddedBounds([]Point{{X: 0, Y: 0, Z: 5}, {X: 10, Y: 0, Z: 5}})
	assert.InDelta(t, -0.25, b.Min.X, 1e-12)
	assert.InDelta(t, 10.25, b.Max.X, 1e-12)
	// Flat axes are floored at 0.001 then padded by 5%.
	assert.InDelta(t, 0.00105, b.Max.Y-b.Min.Y, 1e-12)
	assert.InDelta(t, 5.0, (b.Max.Z+b.Min.Z)/2, 1e-12)
}

// =============================================================================
// Tests: Sanitizer
// =============================================================================

func TestSanitize_DistinctPointsUnchanged(t *testing.T) {
	points := []Point{
		{ID: "a", X: 1, Y: 2, Z: 3, Metrics: metrics.Values{"revenue": 1}},
		{ID: "b", X: 1, Y: 2, Z: 4},
		{ID: "c", X: -1, Y: 0, Z: 0},
	}
	got := Sanitize(points)
	if diff := cmp.Diff(points, got); diff != "" {
		t.Errorf("Sanitize changed distinct points (-want +got):\n%s", diff)
	}
}

func TestSanitize_JittersOnlyDuplicates(t *testing.T) {
	points := []Point{
		{ID: "dup-1", X: 1, Y: 1, Z: 1},
		{ID: "unique", X: 2, Y: 3, Z: 4},
		{ID: "dup-2", X: 1, Y: 1, Z: 1},
	}
	got := Sanitize(points)
	require.Len(t, got, 3)

	assert.Equal(t, points[1], got[1], "unique point must be untouched")
	assert.NotEqual(t, points[0].Pos(), got[0].Pos())
	assert.NotEqual(t, points[2].Pos(), got[2].Pos())
	assert.NotEqual(t, got[0].Pos(), got[2].Pos(), "duplicates must be separated")

	// Rank 0 uses magnitude 0.02, rank 1 uses 0.022.
	assert.InDelta(t, 1+0.02*IdentityJitter("dup-1", "x"), got[0].X, 1e-15)
	assert.InDelta(t, 1+0.022*IdentityJitter("dup-2", "z"), got[2].Z, 1e-15)

	// Input is not mutated.
	assert.Equal(t, 1.0, points[0].X)
}

func TestSanitize_RepairsNonFinite(t *testing.T) {
	points := []Point{{ID: "p", X: math.NaN(), Y: math.Inf(1), Z: 7}}
	got := Sanitize(points)
	require.Len(t, got, 1)
	assert.True(t, IsFinite(got[0]))
	assert.InDelta(t, 0.1*IdentityJitter("p", "x"), got[0].X, 1e-15)
	assert.InDelta(t, 0.1*IdentityJitter("p", "y"), got[0].Y, 1e-15)
	assert.Equal(t, 7.0, got[0].Z)
	assert.LessOrEqual(t, math.Abs(got[0].X), 0.05)
}

func TestSanitize_Deterministic(t *testing.T) {
	points := []Point{
		{ID: "a", X: math.NaN()},
		{ID: "b"},
		{ID: "c"},
	}
	first := Sanitize(points)
	second := Sanitize(points)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Sanitize is not repeatable:\n%s", diff)
	}
}

func TestSanitize_Empty(t *testing.T) {
	assert.Nil(t, Sanitize(nil))
}

func TestIdentityJitter_Range(t *testing.T) {
	for _, id := range []string{"", "a", "sku-1", "campaign:summer"} {
		for _, axis := range []string{"x", "y", "z"} {
			v := IdentityJitter(id, axis)
			if v < -0.5 || v > 0.5 {
				t.Errorf("IdentityJitter(%q,%q) = %v out of range", id, axis, v)
			}
		}
	}
}

// =============================================================================
// Tests: Items
// =============================================================================

func TestItems_TaggedVariant(t *testing.T) {
	p := Point{ID: "p", X: 1}
	c := ClusterPoint{Point: Point{ID: "c"}, Count: 3}
	items := []Item{p, c}

	var plain, clusters int
	for _, it := range items {
		switch v := it.(type) {
		case Point:
			plain++
			assert.False(t, v.IsCluster())
		case ClusterPoint:
			clusters++
			assert.True(t, v.IsCluster())
			assert.Equal(t, 3, v.Count)
		}
	}
	assert.Equal(t, 1, plain)
	assert.Equal(t, 1, clusters)
	assert.Equal(t, []Point{p, c.Point}, Bases(items))
	assert.Len(t, Items([]Point{p, p}), 2)
}

func TestPoint_Coord(t *testing.T) {
	p := Point{X: 1, Y: 2, Z: 3}
	assert.Equal(t, 1.0, p.Coord(0))
	assert.Equal(t, 2.0, p.Coord(1))
	assert.Equal(t, 3.0, p.Coord(2))
}
