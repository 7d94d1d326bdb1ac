package lod

import (
	"fmt"
	"math"

	"github.com/banshee-data/entityspace/internal/metrics"
	"github.com/banshee-data/entityspace/internal/space"
	"github.com/google/uuid"
)

// MinSpan floors each axis extent of a cluster point.
const MinSpan = 0.001

// clusterNamespace seeds the name-based ids of cluster points.
var clusterNamespace = uuid.MustParse("6f1c3b7e-2a47-4d7b-9a0e-5c1f3e8d2b64")

// Options controls Aggregate.
type Options struct {
	Detail       float64           // 0 keeps every point, 1 merges each group into one point
	BaseMinCount int               // Threshold reached at detail 0.85
	Registry     *metrics.Registry // nil means metrics.Default()
}

// ClusterID returns the id of the cluster point for a group and voxel. It is
// stable for a fixed detail and box, not across detail values.
func ClusterID(group string, v Voxel) string {
	name := fmt.Sprintf("%s\x00%d:%d:%d", group, v.I, v.J, v.K)
	return "cluster-" + uuid.NewSHA1(clusterNamespace, []byte(name)).String()
}

// Aggregate merges crowded voxel cells into cluster points.
//
// Points are partitioned by SourceField and each group is voxelised over its
// own bounding box, so points from different groups are never merged. A cell
// whose occupancy reaches MinCountEff becomes one ClusterPoint; other cells
// pass their points through unchanged. Output order follows the input: a
// cluster point takes the position of its first member. Points with a
// non-finite coordinate always pass through.
func Aggregate(points []space.Point, opts Options) []space.Item {
	if len(points) == 0 {
		return nil
	}
	reg := opts.Registry
	if reg == nil {
		reg = metrics.Default()
	}
	detail := ClampDetail(opts.Detail)

	groups := make(map[string][]int)
	var groupOrder []string
	for i, p := range points {
		if !space.IsFinite(p) {
			continue
		}
		if _, ok := groups[p.SourceField]; !ok {
			groupOrder = append(groupOrder, p.SourceField)
		}
		groups[p.SourceField] = append(groups[p.SourceField], i)
	}

	// merged[i] is the cluster emitted at i, skip[i] marks absorbed members.
	merged := make(map[int]space.ClusterPoint)
	skip := make([]bool, len(points))

	for _, key := range groupOrder {
		idx := groups[key]
		members := make([]space.Point, len(idx))
		for j, i := range idx {
			members[j] = points[i]
		}
		box := space.Bounds(members)
		size := CellSize(detail, box)
		threshold := MinCountEff(detail, len(idx), opts.BaseMinCount)
		if threshold > len(idx) {
			continue
		}

		cells := make(map[Voxel][]int)
		var cellOrder []Voxel
		for _, i := range idx {
			v := VoxelOf(points[i], box, size)
			if _, ok := cells[v]; !ok {
				cellOrder = append(cellOrder, v)
			}
			cells[v] = append(cells[v], i)
		}

		for _, v := range cellOrder {
			cell := cells[v]
			if len(cell) < threshold {
				continue
			}
			cp := mergeCell(points, cell, key, v, reg)
			merged[cell[0]] = cp
			for _, i := range cell {
				skip[i] = true
			}
		}
	}

	out := make([]space.Item, 0, len(points))
	for i, p := range points {
		if cp, ok := merged[i]; ok {
			out = append(out, cp)
			continue
		}
		if skip[i] {
			continue
		}
		out = append(out, p)
	}
	return out
}

func mergeCell(points []space.Point, cell []int, group string, v Voxel, reg *metrics.Registry) space.ClusterPoint {
	members := make([]space.Point, len(cell))
	values := make([]metrics.Values, len(cell))
	for j, i := range cell {
		members[j] = points[i]
		values[j] = points[i].Metrics
	}

	var sum space.Vec3
	lo := members[0].Pos()
	hi := lo
	for _, p := range members {
		sum.X += p.X
		sum.Y += p.Y
		sum.Z += p.Z
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
		lo.Z, hi.Z = math.Min(lo.Z, p.Z), math.Max(hi.Z, p.Z)
	}
	n := float64(len(members))
	centroid := space.Vec3{X: sum.X / n, Y: sum.Y / n, Z: sum.Z / n}

	id := ClusterID(group, v)
	return space.ClusterPoint{
		Point: space.Point{
			ID:          id,
			Label:       fmt.Sprintf("%s ×%d", group, len(members)),
			SourceField: group,
			Metrics:     reg.Merge(values),
			Attrs:       sharedAttrs(members),
			X:           centroid.X,
			Y:           centroid.Y,
			Z:           centroid.Z,
		},
		Count: len(members),
		Span: space.Vec3{
			X: math.Max(hi.X-lo.X, MinSpan),
			Y: math.Max(hi.Y-lo.Y, MinSpan),
			Z: math.Max(hi.Z-lo.Z, MinSpan),
		},
		Hull: SampleHull(members, centroid),
	}
}

// sharedAttrs keeps the text attributes every member agrees on.
func sharedAttrs(members []space.Point) map[string]string {
	if len(members) == 0 || len(members[0].Attrs) == 0 {
		return nil
	}
	out := make(map[string]string)
	for k, v := range members[0].Attrs {
		agree := true
		for _, p := range members[1:] {
			if p.Attrs[k] != v {
				agree = false
				break
			}
		}
		if agree {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Stats counts the plain and cluster points of an aggregation result and the
// number of source points they represent.
type Stats struct {
	Plain       int
	Clusters    int
	Represented int
}

// Summarize computes Stats for items.
func Summarize(items []space.Item) Stats {
	var s Stats
	for _, it := range items {
		switch v := it.(type) {
		case space.ClusterPoint:
			s.Clusters++
			s.Represented += v.Count
		case space.Point:
			s.Plain++
			s.Represented++
		}
	}
	return s
}
