package monitor

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/entityspace/internal/space"
)

// RenderHTML writes an interactive X/Y scatter of items to w. Each label is
// its own series; the tooltip value carries the point's Z coordinate and the
// number of source points it represents.
func RenderHTML(w io.Writer, items []space.Item, labels []int, o ChartOptions) error {
	o = o.withDefaults()
	groups, err := splitSeries(items, labels)
	if err != nil {
		return err
	}

	box := space.PaddedBounds(space.Bases(items))

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: fmt.Sprintf("points=%d series=%d z=%s", len(items), len(groups), o.ZLabel)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: box.Min.X, Max: box.Max.X, Name: o.XLabel, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: box.Min.Y, Max: box.Max.Y, Name: o.YLabel, NameLocation: "middle", NameGap: 30}),
	)

	clusters := 0
	for _, g := range groups {
		if g.label >= 0 {
			clusters++
		}
	}
	colors := generateColors(clusters)

	for i, g := range groups {
		data := make([]opts.ScatterData, 0, len(g.items))
		for _, it := range g.items {
			b := it.Base()
			count := 1
			size := 6
			if cp, ok := it.(space.ClusterPoint); ok {
				count = cp.Count
				size = 14
			}
			data = append(data, opts.ScatterData{
				Name:       b.Label,
				Value:      []interface{}{b.X, b.Y, b.Z, count},
				SymbolSize: size,
			})
		}

		col := hexColor(noiseColor)
		if g.label >= 0 {
			col = hexColor(colors[i])
		}
		scatter.AddSeries(g.name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: col}),
		)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
