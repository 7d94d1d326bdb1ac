package space

import (
	"github.com/banshee-data/entityspace/internal/fnvhash"
)

const (
	// repairScale scales the ±0.5 identity hash when replacing a non-finite
	// coordinate.
	repairScale = 0.1
	// duplicateJitterBase and duplicateJitterStep set the jitter magnitude for
	// the i-th member of a group of exact duplicates: base + i*step.
	duplicateJitterBase = 0.02
	duplicateJitterStep = 0.002
)

var axisNames = [3]string{"x", "y", "z"}

// IdentityJitter maps (id, axis) to a repeatable value in [-0.5, 0.5].
func IdentityJitter(id, axis string) float64 {
	return fnvhash.Unit(fnvhash.Sum32a(id+":"+axis, fnvhash.OffsetBasis)) - 0.5
}

// Sanitize repairs non-finite coordinates and separates exact duplicates.
//
// A non-finite coordinate is replaced by IdentityJitter scaled by 0.1. After
// repair, points sharing the exact same (x, y, z) are each nudged by
// (0.02 + i*0.002) * IdentityJitter on every axis, where i is the point's
// rank among its duplicates. Points with a unique position are returned
// unchanged. The input slice is not modified.
func Sanitize(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}

	out := make([]Point, len(points))
	for i, p := range points {
		if !finite(p.X) {
			p.X = IdentityJitter(p.ID, axisNames[0]) * repairScale
		}
		if !finite(p.Y) {
			p.Y = IdentityJitter(p.ID, axisNames[1]) * repairScale
		}
		if !finite(p.Z) {
			p.Z = IdentityJitter(p.ID, axisNames[2]) * repairScale
		}
		out[i] = p
	}

	groups := make(map[[3]float64][]int, len(out))
	order := make([][3]float64, 0, len(out))
	for i, p := range out {
		k := [3]float64{p.X, p.Y, p.Z}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	for _, k := range order {
		idx := groups[k]
		if len(idx) < 2 {
			continue
		}
		for rank, i := range idx {
			p := out[i]
			mag := duplicateJitterBase + float64(rank)*duplicateJitterStep
			p.X += mag * IdentityJitter(p.ID, axisNames[0])
			p.Y += mag * IdentityJitter(p.ID, axisNames[1])
			p.Z += mag * IdentityJitter(p.ID, axisNames[2])
			out[i] = p
		}
	}
	return out
}
