package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/entityspace/internal/space"
)

// SavePNG writes an X/Y scatter of items to path, one colour per label.
// Cluster points are drawn larger than plain points. The format follows the
// file extension (png, svg, pdf).
func SavePNG(path string, items []space.Item, labels []int, o ChartOptions) error {
	o = o.withDefaults()
	groups, err := splitSeries(items, labels)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d points)", o.Title, len(items))
	p.X.Label.Text = o.XLabel
	p.Y.Label.Text = o.YLabel

	clusters := 0
	for _, g := range groups {
		if g.label >= 0 {
			clusters++
		}
	}
	colors := generateColors(clusters)

	for i, g := range groups {
		var plain, merged plotter.XYs
		for _, it := range g.items {
			b := it.Base()
			xy := plotter.XY{X: b.X, Y: b.Y}
			if it.IsCluster() {
				merged = append(merged, xy)
			} else {
				plain = append(plain, xy)
			}
		}

		var col color.Color = noiseColor
		if g.label >= 0 {
			col = colors[i]
		}

		legendAdded := false
		for _, layer := range []struct {
			xys    plotter.XYs
			radius vg.Length
		}{{plain, vg.Points(2)}, {merged, vg.Points(5)}} {
			if len(layer.xys) == 0 {
				continue
			}
			s, err := plotter.NewScatter(layer.xys)
			if err != nil {
				return fmt.Errorf("scatter %s: %w", g.name, err)
			}
			s.GlyphStyle.Color = col
			s.GlyphStyle.Radius = layer.radius
			p.Add(s)
			if !legendAdded {
				p.Legend.Add(g.name, s)
				legendAdded = true
			}
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save scatter plot: %w", err)
	}
	return nil
}
