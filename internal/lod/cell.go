// Package lod collapses dense point sets into fewer representative points as
// a single detail value moves from 0 (every point shown) to 1 (one point per
// source group).
//
// Responsibilities: voxel cell sizing, the cluster activation threshold,
// homogeneous voxel aggregation, and hull sampling of merged cells.
// Key types: Options, Voxel.
//
// Dependency rule: lod may depend on space and metrics, never on clustering
// or pipeline code.
package lod

import (
	"math"

	"github.com/banshee-data/entityspace/internal/space"
)

const (
	// minCellFraction sets the smallest cell edge as a fraction of the max span.
	minCellFraction = 1.0 / 10000
	// maxCellFactor sets the largest cell edge as a multiple of the max span.
	// Any factor above 1 puts every point of the box into one cell at detail 1.
	maxCellFactor = 2.0
	// minCellEdge floors cell edges for near-degenerate boxes.
	minCellEdge = 1e-9

	// thresholdKnee is where the activation threshold reaches the base
	// minimum count; above it the threshold falls further toward 1.
	thresholdKnee = 0.85
)

// ClampDetail limits detail to [0,1]. NaN reads as 0.
func ClampDetail(detail float64) float64 {
	if math.IsNaN(detail) || detail <= 0 {
		return 0
	}
	if detail >= 1 {
		return 1
	}
	return detail
}

// CellSize returns the voxel edge for a detail value over box. It
// interpolates linearly between maxSpan/10000 and maxSpan*2.
func CellSize(detail float64, box space.BoundingBox) float64 {
	d := ClampDetail(detail)
	span := math.Max(box.MaxSpan(), minCellEdge)
	lo := math.Max(span*minCellFraction, minCellEdge)
	hi := span * maxCellFactor
	return lo + (hi-lo)*d
}

// MinCountEff returns the occupancy a voxel cell needs before it is merged.
//
//	detail <= 0        total+1 (never merges)
//	0 < detail < 0.85  linear from total+1 down to baseMinCount
//	0.85 <= detail < 1 linear from baseMinCount down to 1
//	detail >= 1        1 (every occupied cell merges)
//
// Intermediate values are rounded to the nearest integer and never drop
// below 1. baseMinCount below 1 is treated as 1.
func MinCountEff(detail float64, total, baseMinCount int) int {
	if baseMinCount < 1 {
		baseMinCount = 1
	}
	if math.IsNaN(detail) || detail <= 0 {
		return total + 1
	}
	if detail >= 1 {
		return 1
	}

	never := float64(total + 1)
	base := float64(baseMinCount)
	var v float64
	if detail < thresholdKnee {
		u := detail / thresholdKnee
		v = never + (base-never)*u
	} else {
		u := (detail - thresholdKnee) / (1 - thresholdKnee)
		v = base + (1-base)*u
	}
	n := int(math.Round(v))
	if n < 1 {
		n = 1
	}
	return n
}

// Voxel is an integer cell index anchored at the box minimum.
type Voxel struct {
	I, J, K int64
}

// VoxelOf returns the cell containing p for the given box and edge length.
// Indices are floor((coord-min)/size), so negative coordinates are handled.
func VoxelOf(p space.Point, box space.BoundingBox, size float64) Voxel {
	return Voxel{
		I: int64(math.Floor((p.X - box.Min.X) / size)),
		J: int64(math.Floor((p.Y - box.Min.Y) / size)),
		K: int64(math.Floor((p.Z - box.Min.Z) / size)),
	}
}
