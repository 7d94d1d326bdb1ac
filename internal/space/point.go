// Package space holds the point model shared by the level-of-detail and
// clustering stages.
//
// Responsibilities: point and cluster point types, bounding boxes over
// finite coordinates, and coordinate sanitisation.
// Key types: Point, ClusterPoint, Item, BoundingBox.
//
// Points are values. Every stage returns new slices and never mutates its
// input, so a recompute can simply replace the previous result.
package space

import (
	"github.com/banshee-data/entityspace/internal/metrics"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a position or extent in the projected entity space.
type Vec3 = r3.Vec

// Point is one entity (a SKU, a campaign) projected into 3D space.
type Point struct {
	ID          string            // Stable identity, used for deterministic jitter
	Label       string            // Display label
	SourceField string            // Source group key; aggregation never crosses it
	Metrics     metrics.Values    // Metric name → value, keys vary by dataset
	Attrs       map[string]string // Text attributes used by the behavior principle
	X, Y, Z     float64
}

// Pos returns the point's coordinates as a vector.
func (p Point) Pos() Vec3 {
	return Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// Coord returns the coordinate for axis 0, 1 or 2.
func (p Point) Coord(axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// ClusterPoint is a synthetic point standing in for several members of one
// voxel cell.
type ClusterPoint struct {
	Point
	Count int    // Number of merged members
	Span  Vec3   // Per-axis extent of the members, floored at MinSpan
	Hull  []Vec3 // Approximate boundary sample, at most 24 vertices
}

// Item is either a Point or a ClusterPoint. The set is closed: only this
// package can add implementations, so a type switch over the two is exhaustive.
type Item interface {
	Base() Point
	IsCluster() bool
	item()
}

// Base returns the point itself.
func (p Point) Base() Point { return p }

// IsCluster is false for plain points.
func (p Point) IsCluster() bool { return false }

func (Point) item() {}

// Base returns the embedded centroid point.
func (c ClusterPoint) Base() Point { return c.Point }

// IsCluster is true for cluster points.
func (c ClusterPoint) IsCluster() bool { return true }

func (ClusterPoint) item() {}

// Items wraps plain points as items.
func Items(points []Point) []Item {
	out := make([]Item, len(points))
	for i, p := range points {
		out[i] = p
	}
	return out
}

// Bases returns the base point of every item, in order.
func Bases(items []Item) []Point {
	out := make([]Point, len(items))
	for i, it := range items {
		out[i] = it.Base()
	}
	return out
}
