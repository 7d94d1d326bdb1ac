// Package monitor exports point sets and their grouping labels as charts: a
// static PNG scatter for reports and an interactive HTML scatter for review.
package monitor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/banshee-data/entityspace/internal/space"
)

// ErrLabelMismatch is returned when labels are not aligned with the items.
var ErrLabelMismatch = errors.New("labels do not match items")

// ChartOptions names the chart and its axes.
type ChartOptions struct {
	Title  string
	XLabel string
	YLabel string
	ZLabel string
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Title == "" {
		o.Title = "Entity space"
	}
	if o.XLabel == "" {
		o.XLabel = "X"
	}
	if o.YLabel == "" {
		o.YLabel = "Y"
	}
	if o.ZLabel == "" {
		o.ZLabel = "Z"
	}
	return o
}

// series is the members of one label, in item order.
type series struct {
	name  string
	label int
	items []space.Item
}

// splitSeries partitions items by label: clusters ascending, then noise.
// Nil labels put every item in a single "points" series.
func splitSeries(items []space.Item, labels []int) ([]series, error) {
	if labels == nil {
		return []series{{name: "points", label: 0, items: items}}, nil
	}
	if len(labels) != len(items) {
		return nil, fmt.Errorf("%w: %d labels for %d items", ErrLabelMismatch, len(labels), len(items))
	}

	byLabel := make(map[int][]space.Item)
	for i, it := range items {
		l := labels[i]
		if l < 0 {
			l = -1
		}
		byLabel[l] = append(byLabel[l], it)
	}

	keys := make([]int, 0, len(byLabel))
	for l := range byLabel {
		if l >= 0 {
			keys = append(keys, l)
		}
	}
	sort.Ints(keys)

	out := make([]series, 0, len(byLabel))
	for _, l := range keys {
		out = append(out, series{name: fmt.Sprintf("cluster %d", l), label: l, items: byLabel[l]})
	}
	if noise, ok := byLabel[-1]; ok {
		out = append(out, series{name: "noise", label: -1, items: noise})
	}
	return out, nil
}
