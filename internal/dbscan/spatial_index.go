package dbscan

import (
	"math"

	"github.com/banshee-data/entityspace/internal/features"
	"github.com/banshee-data/entityspace/internal/space"
)

const (
	// MinCellSize floors the grid cell edge so a zero eps still indexes.
	MinCellSize = 1e-6
	// EstimatedPointsPerCell is used for initial spatial index capacity estimation
	EstimatedPointsPerCell = 4
)

// cellKey is the integer index of one grid cell.
type cellKey struct {
	x, y, z int64
}

// SpatialIndex provides neighbourhood queries over feature vectors using a
// 3D grid. Each axis has its own cell edge, at least the query radius along
// that axis, so the 27 cells around a point hold every neighbour.
type SpatialIndex struct {
	CellSize float64
	Edges    [3]float64        // Per-axis cell edge; +Inf puts the axis in one cell
	Grid     map[cellKey][]int // Cell → point indices
}

// NewSpatialIndex creates a spatial index with the specified cell size on
// every axis, floored at MinCellSize.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	cellSize = floorCellSize(cellSize)
	return &SpatialIndex{
		CellSize: cellSize,
		Edges:    [3]float64{cellSize, cellSize, cellSize},
		Grid:     make(map[cellKey][]int),
	}
}

// NewWeightedSpatialIndex creates a spatial index for weighted queries of
// radius eps. An axis with weight w < 1 reaches eps/sqrt(w) from the query
// point, so its cell edge grows to match. An axis with weight 0 places no
// bound on distance and collapses to a single cell.
func NewWeightedSpatialIndex(eps float64, w features.Weights) *SpatialIndex {
	si := NewSpatialIndex(eps)
	for axis, wa := range [3]float64{w.X, w.Y, w.Z} {
		switch {
		case !(wa > 0):
			si.Edges[axis] = math.Inf(1)
		case wa < 1:
			si.Edges[axis] = floorCellSize(si.CellSize / math.Sqrt(wa))
		}
	}
	return si
}

func floorCellSize(v float64) float64 {
	if math.IsNaN(v) || v < MinCellSize {
		return MinCellSize
	}
	return v
}

// Build populates the spatial index from a set of vectors.
func (si *SpatialIndex) Build(vectors []space.Vec3) {
	si.Grid = make(map[cellKey][]int, len(vectors)/EstimatedPointsPerCell+1)
	for i, v := range vectors {
		k := si.cellOf(v)
		si.Grid[k] = append(si.Grid[k], i)
	}
}

func (si *SpatialIndex) cellOf(v space.Vec3) cellKey {
	return cellKey{
		x: int64(math.Floor(v.X / si.Edges[0])),
		y: int64(math.Floor(v.Y / si.Edges[1])),
		z: int64(math.Floor(v.Z / si.Edges[2])),
	}
}

// RegionQuery returns indices of all vectors within eps of vectors[idx],
// including idx itself, using the per-axis weighted squared distance
// wX·dx² + wY·dy² + wZ·dz² ≤ eps². Only the 27 cells around idx are
// searched; build the index with NewWeightedSpatialIndex for the same eps and
// weights so that block covers the whole radius.
func (si *SpatialIndex) RegionQuery(vectors []space.Vec3, idx int, eps float64, w features.Weights) []int {
	p := vectors[idx]
	eps2 := eps * eps
	base := si.cellOf(p)
	neighbors := []int{}

	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				k := cellKey{x: base.x + dx, y: base.y + dy, z: base.z + dz}
				for _, candidateIdx := range si.Grid[k] {
					c := vectors[candidateIdx]
					ddx := c.X - p.X
					ddy := c.Y - p.Y
					ddz := c.Z - p.Z
					dist2 := w.X*ddx*ddx + w.Y*ddy*ddy + w.Z*ddz*ddz
					if dist2 <= eps2 {
						neighbors = append(neighbors, candidateIdx)
					}
				}
			}
		}
	}
	return neighbors
}
