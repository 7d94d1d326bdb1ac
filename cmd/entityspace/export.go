package main

import (
	"math"

	"github.com/banshee-data/entityspace/internal/dbscan"
	"github.com/banshee-data/entityspace/internal/lod"
	"github.com/banshee-data/entityspace/internal/space"
)

// exportPoint is the JSON shape of one rendered item.
type exportPoint struct {
	ID      string             `json:"id"`
	Label   string             `json:"label"`
	Source  string             `json:"source_field"`
	X       float64            `json:"x"`
	Y       float64            `json:"y"`
	Z       float64            `json:"z"`
	Metrics map[string]float64 `json:"metrics,omitempty"`
	Attrs   map[string]string  `json:"attrs,omitempty"`
	Group   *int               `json:"group,omitempty"`

	// Set for aggregated points only.
	Count int         `json:"count,omitempty"`
	Span  []float64   `json:"span,omitempty"`
	Hull  [][]float64 `json:"hull,omitempty"`
}

type exportBounds struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

type exportGrouping struct {
	Eps      float64 `json:"eps"`
	MinPts   int     `json:"min_pts"`
	Clusters int     `json:"clusters"`
	Noise    int     `json:"noise"`
	Sizes    []int   `json:"sizes"`
}

type exportDoc struct {
	Points   []exportPoint   `json:"points"`
	Bounds   exportBounds    `json:"bounds"`
	Stats    lod.Stats       `json:"stats"`
	Grouping *exportGrouping `json:"grouping,omitempty"`
}

func vec(v space.Vec3) []float64 { return []float64{v.X, v.Y, v.Z} }

// finiteMetrics drops NaN and infinite values, which JSON cannot carry.
func finiteMetrics(m map[string]float64) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		}
	}
	return out
}

func buildDoc(items []space.Item, box space.BoundingBox, stats lod.Stats, labels []int, params *dbscan.Params, summary *dbscan.Summary) exportDoc {
	doc := exportDoc{
		Points: make([]exportPoint, 0, len(items)),
		Bounds: exportBounds{Min: vec(box.Min), Max: vec(box.Max)},
		Stats:  stats,
	}
	for i, it := range items {
		b := it.Base()
		ep := exportPoint{
			ID:      b.ID,
			Label:   b.Label,
			Source:  b.SourceField,
			X:       b.X,
			Y:       b.Y,
			Z:       b.Z,
			Metrics: finiteMetrics(b.Metrics),
			Attrs:   b.Attrs,
		}
		if cp, ok := it.(space.ClusterPoint); ok {
			ep.Count = cp.Count
			ep.Span = vec(cp.Span)
			for _, h := range cp.Hull {
				ep.Hull = append(ep.Hull, vec(h))
			}
		}
		if labels != nil {
			l := labels[i]
			ep.Group = &l
		}
		doc.Points = append(doc.Points, ep)
	}
	if params != nil && summary != nil {
		doc.Grouping = &exportGrouping{
			Eps:      params.Eps,
			MinPts:   params.MinPts,
			Clusters: summary.Clusters,
			Noise:    summary.Noise,
			Sizes:    summary.Sizes,
		}
	}
	return doc
}
