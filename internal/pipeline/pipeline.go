// Package pipeline wires the projection, level-of-detail and grouping stages
// into two pure entry points: BuildPoints turns records into a point set, and
// Group turns a point set into cluster labels.
//
// Neither entry point keeps state between calls. Callers pass a fresh
// configuration every time and replace the previous result with the new one.
package pipeline

import (
	"fmt"

	"github.com/banshee-data/entityspace/internal/config"
	"github.com/banshee-data/entityspace/internal/dbscan"
	"github.com/banshee-data/entityspace/internal/features"
	"github.com/banshee-data/entityspace/internal/lod"
	"github.com/banshee-data/entityspace/internal/metrics"
	"github.com/banshee-data/entityspace/internal/monitoring"
	"github.com/banshee-data/entityspace/internal/rows"
	"github.com/banshee-data/entityspace/internal/space"
)

// BuildOptions controls BuildPoints.
type BuildOptions struct {
	EntityField  string
	Axes         rows.Axes
	Aggregate    bool // Run voxel aggregation after sanitising
	Detail       float64
	BaseMinCount int
	Registry     *metrics.Registry // nil means metrics.Default()
}

// OptionsFromConfig reads the projection and level-of-detail fields of cfg.
func OptionsFromConfig(cfg *config.TuningConfig) BuildOptions {
	return BuildOptions{
		EntityField:  cfg.GetEntityField(),
		Axes:         cfg.GetAxes(),
		Aggregate:    cfg.GetAggregate(),
		Detail:       cfg.GetDetail(),
		BaseMinCount: cfg.GetBaseMinCount(),
	}
}

// Result is the point set handed to the renderer.
type Result struct {
	Items  []space.Item
	Bounds space.BoundingBox // Padded bounds of Items
	Stats  lod.Stats
}

// BuildPoints groups records by entity, projects them onto the configured
// axes, repairs coordinates and optionally aggregates crowded voxels.
func BuildPoints(src rows.Source, opts BuildOptions) (Result, error) {
	reg := opts.Registry
	if reg == nil {
		reg = metrics.Default()
	}

	stage := monitoring.StartStage("group")
	grouped, err := rows.GroupRows(src, rows.GroupOptions{EntityField: opts.EntityField, Registry: reg})
	if err != nil {
		return Result{}, fmt.Errorf("group rows: %w", err)
	}
	stage.Done(len(src.Rows()), len(grouped))

	stage = monitoring.StartStage("sanitize")
	points := space.Sanitize(rows.Project(grouped, opts.Axes))
	stage.Done(len(grouped), len(points))

	var items []space.Item
	if opts.Aggregate {
		stage = monitoring.StartStage("lod")
		items = lod.Aggregate(points, lod.Options{
			Detail:       opts.Detail,
			BaseMinCount: opts.BaseMinCount,
			Registry:     reg,
		})
		stage.Done(len(points), len(items))
	} else {
		items = space.Items(points)
	}

	return Result{
		Items:  items,
		Bounds: space.PaddedBounds(space.Bases(items)),
		Stats:  lod.Summarize(items),
	}, nil
}

// Grouping is the label set for one grouping run.
type Grouping struct {
	Labels  []int // Aligned with the input points: -1 noise, 0..k-1 cluster
	Params  dbscan.Params
	Summary dbscan.Summary
}

// Group clusters points under cfg using DBSCAN with detail-derived params.
func Group(points []space.Point, cfg features.GroupingConfig) (Grouping, error) {
	if err := cfg.Validate(); err != nil {
		return Grouping{}, err
	}
	return GroupWith(points, cfg, dbscan.NewDetailClusterer(cfg))
}

// GroupWith clusters points with a caller-supplied clusterer. Clusters
// smaller than cfg.MinClusterSize are relabelled noise.
func GroupWith(points []space.Point, cfg features.GroupingConfig, c dbscan.Clusterer) (Grouping, error) {
	if err := cfg.Validate(); err != nil {
		return Grouping{}, err
	}

	stage := monitoring.StartStage("cluster")
	vectors := features.Build(points, cfg)
	labels := c.Cluster(vectors)
	if labels == nil {
		labels = []int{}
	}
	if cfg.MinClusterSize > 1 {
		labels = dbscan.FilterMinClusterSize(labels, cfg.MinClusterSize)
	}
	summary := dbscan.Summarize(labels)
	stage.Done(len(points), summary.Clusters)

	return Grouping{Labels: labels, Params: c.GetParams(), Summary: summary}, nil
}
