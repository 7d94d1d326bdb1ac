package lod

import (
	"math"

	"github.com/banshee-data/entityspace/internal/space"
)

const (
	// HullTarget is the maximum number of hull vertices per cluster.
	HullTarget = 24
	// hullMinVertices is the smallest vertex count a renderer can triangulate.
	hullMinVertices = 4
	// hullRound is the grid used to deduplicate vertices.
	hullRound = 1e-6
	// hullEpsilon offsets synthetic vertices from the centroid.
	hullEpsilon = 1e-3
)

// SampleHull picks up to HullTarget boundary-representative vertices from a
// cell's members.
//
// The six axis-extremal members come first, then members taken at a fixed
// stride until the target is reached. Vertices are deduplicated on a 1e-6
// grid. When fewer than four distinct vertices remain, three vertices offset
// from the centroid along each axis are appended. This is a sample, not a
// convex hull: members may lie outside the polygon it describes.
func SampleHull(members []space.Point, centroid space.Vec3) []space.Vec3 {
	hull := make([]space.Vec3, 0, HullTarget)
	seen := make(map[[3]int64]bool, HullTarget)
	add := func(v space.Vec3) {
		if len(hull) >= HullTarget {
			return
		}
		k := roundKey(v)
		if seen[k] {
			return
		}
		seen[k] = true
		hull = append(hull, v)
	}

	if n := len(members); n > 0 {
		for axis := 0; axis < 3; axis++ {
			lo, hi := 0, 0
			for i, p := range members {
				if p.Coord(axis) < members[lo].Coord(axis) {
					lo = i
				}
				if p.Coord(axis) > members[hi].Coord(axis) {
					hi = i
				}
			}
			add(members[lo].Pos())
			add(members[hi].Pos())
		}

		stride := int(math.Ceil(float64(n) / float64(HullTarget)))
		if stride < 1 {
			stride = 1
		}
		for i := 0; i < n && len(hull) < HullTarget; i += stride {
			add(members[i].Pos())
		}
	}

	if len(hull) < hullMinVertices {
		hull = append(hull,
			space.Vec3{X: centroid.X + hullEpsilon, Y: centroid.Y, Z: centroid.Z},
			space.Vec3{X: centroid.X, Y: centroid.Y + hullEpsilon, Z: centroid.Z},
			space.Vec3{X: centroid.X, Y: centroid.Y, Z: centroid.Z + hullEpsilon},
		)
	}
	return hull
}

func roundKey(v space.Vec3) [3]int64 {
	return [3]int64{
		int64(math.Round(v.X / hullRound)),
		int64(math.Round(v.Y / hullRound)),
		int64(math.Round(v.Z / hullRound)),
	}
}
