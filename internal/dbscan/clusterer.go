package dbscan

import (
	"github.com/banshee-data/entityspace/internal/features"
	"github.com/banshee-data/entityspace/internal/space"
)

// Clusterer abstracts the clustering implementation so the grouping overlay
// can swap algorithms without touching the pipeline.
type Clusterer interface {
	// Cluster returns one label per vector: -1 for noise, 0..k-1 otherwise.
	// The result is deterministic for a given input order.
	Cluster(vectors []space.Vec3) []int

	// GetParams returns the current clustering parameters.
	GetParams() Params

	// SetParams updates the clustering parameters.
	SetParams(params Params)
}

// DBSCANClusterer implements Clusterer using grid-accelerated DBSCAN.
type DBSCANClusterer struct {
	params Params
}

// NewDBSCANClusterer creates a new DBSCAN clusterer with the specified parameters.
func NewDBSCANClusterer(params Params) *DBSCANClusterer {
	return &DBSCANClusterer{params: params}
}

// NewDetailClusterer creates a clusterer with eps and minPts derived from a
// detail value and the axis weights of cfg.
func NewDetailClusterer(cfg features.GroupingConfig) *DBSCANClusterer {
	params := ParamsForDetail(cfg.Detail)
	params.Weights = cfg.AxisWeights()
	return NewDBSCANClusterer(params)
}

// Cluster runs DBSCAN over vectors.
func (c *DBSCANClusterer) Cluster(vectors []space.Vec3) []int {
	return DBSCAN(vectors, c.params)
}

// GetParams returns the current clustering parameters.
func (c *DBSCANClusterer) GetParams() Params {
	return c.params
}

// SetParams updates the clustering parameters.
func (c *DBSCANClusterer) SetParams(params Params) {
	c.params = params
}

// Verify at compile time that *DBSCANClusterer implements Clusterer.
var _ Clusterer = (*DBSCANClusterer)(nil)
