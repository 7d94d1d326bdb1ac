// Package dbscan clusters 3D feature vectors with grid-accelerated DBSCAN.
//
// Labels are aligned with the input: -1 is noise and 0..k-1 are cluster ids
// in the order clusters were discovered. Region queries only inspect the
// 3×3×3 block of grid cells around a point, so a run costs roughly
// n × (points per neighbourhood) instead of n².
package dbscan

import (
	"math"

	"github.com/banshee-data/entityspace/internal/features"
	"github.com/banshee-data/entityspace/internal/space"
)

// Noise is the label of points that belong to no cluster.
const Noise = -1

// unvisited marks points not yet reached by the scan.
const unvisited = -2

// Constants for detail-driven parameter mapping, tuned for [0,1]³ inputs.
const (
	baseEps      = 0.03
	epsPerDetail = 0.15
	baseMinPts   = 3
	minPtsDetail = 9
)

// Params contains parameters for the DBSCAN clustering algorithm.
type Params struct {
	Eps     float64          // Neighbourhood radius in feature units
	MinPts  int              // Minimum neighbours, self included, for a core point
	Weights features.Weights // Per-axis distance weights
}

// ParamsForDetail maps a detail value in [0,1] to eps = 0.03 + 0.15·detail
// and minPts = round(3 + 9·detail). Low detail gives many small clusters.
func ParamsForDetail(detail float64) Params {
	if math.IsNaN(detail) || detail < 0 {
		detail = 0
	}
	if detail > 1 {
		detail = 1
	}
	return Params{
		Eps:     baseEps + epsPerDetail*detail,
		MinPts:  int(math.Round(baseMinPts + minPtsDetail*detail)),
		Weights: features.UnitWeights(),
	}
}

// DBSCAN labels each vector as noise or a cluster member.
//
// Points are scanned in index order. A point with fewer than MinPts
// neighbours is noise. Otherwise it seeds a new cluster that is expanded
// breadth-first: noise neighbours are promoted to border points without
// further expansion, unvisited neighbours join the cluster and, when core
// themselves, queue their own neighbours. A clustered point is never
// relabelled. Zero weights are read as unit weights.
func DBSCAN(vectors []space.Vec3, params Params) []int {
	if len(vectors) == 0 {
		return nil
	}
	if params.Weights == (features.Weights{}) {
		params.Weights = features.UnitWeights()
	}

	n := len(vectors)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	spatialIndex := NewWeightedSpatialIndex(params.Eps, params.Weights)
	spatialIndex.Build(vectors)

	clusterID := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}

		neighbors := spatialIndex.RegionQuery(vectors, i, params.Eps, params.Weights)
		if len(neighbors) < params.MinPts {
			labels[i] = Noise
			continue
		}

		expandCluster(vectors, spatialIndex, labels, i, neighbors, clusterID, params)
		clusterID++
	}
	return labels
}

// expandCluster grows a cluster from a core point.
func expandCluster(vectors []space.Vec3, si *SpatialIndex, labels []int,
	seedIdx int, neighbors []int, clusterID int, params Params) {

	labels[seedIdx] = clusterID

	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if labels[idx] == Noise {
			labels[idx] = clusterID // Noise becomes border point
			continue
		}
		if labels[idx] != unvisited {
			continue
		}

		labels[idx] = clusterID
		newNeighbors := si.RegionQuery(vectors, idx, params.Eps, params.Weights)
		if len(newNeighbors) >= params.MinPts {
			neighbors = append(neighbors, newNeighbors...)
		}
	}
}
