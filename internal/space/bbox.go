package space

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// MinBoxSpan keeps every axis of a tight box from collapsing to zero.
	MinBoxSpan = 1e-9
	// MinPaddedSpan floors each axis span before padding.
	MinPaddedSpan = 0.001
	// PaddingFraction expands each padded axis span by 5%.
	PaddingFraction = 0.05
)

// BoundingBox is an axis-aligned box. Max is always at least Min+MinBoxSpan
// on every axis.
type BoundingBox struct {
	Min, Max Vec3
}

// UnitBox is [0,1]³, used when no finite point exists.
func UnitBox() BoundingBox {
	return BoundingBox{Min: Vec3{}, Max: Vec3{X: 1, Y: 1, Z: 1}}
}

// Span returns Max-Min per axis.
func (b BoundingBox) Span() Vec3 {
	return Vec3{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// MaxSpan returns the largest axis span.
func (b BoundingBox) MaxSpan() float64 {
	s := b.Span()
	return math.Max(s.X, math.Max(s.Y, s.Z))
}

// IsFinite reports whether all three coordinates are finite.
func IsFinite(p Point) bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Bounds computes the tight box over points whose coordinates are all
// finite. Points with any non-finite coordinate are ignored; the unit box is
// returned when none qualify.
func Bounds(points []Point) BoundingBox {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	zs := make([]float64, 0, len(points))
	for _, p := range points {
		if !IsFinite(p) {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
		zs = append(zs, p.Z)
	}
	if len(xs) == 0 {
		return UnitBox()
	}

	b := BoundingBox{
		Min: Vec3{X: floats.Min(xs), Y: floats.Min(ys), Z: floats.Min(zs)},
		Max: Vec3{X: floats.Max(xs), Y: floats.Max(ys), Z: floats.Max(zs)},
	}
	b.Max.X = math.Max(b.Max.X, b.Min.X+MinBoxSpan)
	b.Max.Y = math.Max(b.Max.Y, b.Min.Y+MinBoxSpan)
	b.Max.Z = math.Max(b.Max.Z, b.Min.Z+MinBoxSpan)
	return b
}

// PaddedBounds is Bounds with each axis span floored at MinPaddedSpan and
// then grown by PaddingFraction, split evenly on both sides. Renderers use it
// to avoid flat planes when every point shares one coordinate.
func PaddedBounds(points []Point) BoundingBox {
	b := Bounds(points)
	pad := func(lo, hi float64) (float64, float64) {
		span := math.Max(hi-lo, MinPaddedSpan)
		mid := (lo + hi) / 2
		half := span * (1 + PaddingFraction) / 2
		return mid - half, mid + half
	}
	b.Min.X, b.Max.X = pad(b.Min.X, b.Max.X)
	b.Min.Y, b.Max.Y = pad(b.Min.Y, b.Max.Y)
	b.Min.Z, b.Max.Z = pad(b.Min.Z, b.Max.Z)
	return b
}
