// Command entityspace projects a record table into 3D entity space, merges
// crowded voxels and groups the result, writing the point set as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/banshee-data/entityspace/internal/config"
	"github.com/banshee-data/entityspace/internal/monitor"
	"github.com/banshee-data/entityspace/internal/monitoring"
	"github.com/banshee-data/entityspace/internal/pipeline"
	"github.com/banshee-data/entityspace/internal/rows"
	"github.com/banshee-data/entityspace/internal/security"
	"github.com/banshee-data/entityspace/internal/space"
	"github.com/banshee-data/entityspace/internal/version"
)

const maxInputSize = 64 * 1024 * 1024 // 64MB

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("entityspace: %v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("entityspace", flag.ContinueOnError)
	input := fs.String("input", "", "Record table JSON file ({\"fields\": [...], \"rows\": [...]})")
	configPath := fs.String("config", "", "Tuning config JSON file (defaults apply when empty)")
	output := fs.String("output", "", "Output JSON file (defaults to stdout)")
	group := fs.Bool("group", true, "Run grouping on the rendered points")
	chartDir := fs.String("charts", "", "Write <entity>-<principle>.png and .html scatter charts to this directory")
	quiet := fs.Bool("quiet", false, "Suppress stage logging")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "entityspace %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return nil
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}
	if *input == "" {
		return fmt.Errorf("-input is required")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	table, err := readTable(*input)
	if err != nil {
		return err
	}

	res, err := pipeline.BuildPoints(table, pipeline.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	var (
		labels []int
		doc    exportDoc
	)
	if *group {
		g, err := pipeline.Group(space.Bases(res.Items), cfg.ToGroupingConfig())
		if err != nil {
			return err
		}
		labels = g.Labels
		doc = buildDoc(res.Items, res.Bounds, res.Stats, labels, &g.Params, &g.Summary)
	} else {
		doc = buildDoc(res.Items, res.Bounds, res.Stats, nil, nil, nil)
	}

	axes := cfg.GetAxes()
	chart := monitor.ChartOptions{
		Title:  fmt.Sprintf("%s by %s", rows.Resolve(table.Fields(), cfg.GetEntityField()), cfg.GetPrinciple()),
		XLabel: rows.Resolve(table.Fields(), axes[0]),
		YLabel: rows.Resolve(table.Fields(), axes[1]),
		ZLabel: rows.Resolve(table.Fields(), axes[2]),
	}
	if *chartDir != "" {
		name := security.SanitizeFilename(fmt.Sprintf("%s-%s", cfg.GetEntityField(), cfg.GetPrinciple()))
		if err := writeCharts(*chartDir, name, res.Items, labels, chart); err != nil {
			return err
		}
	}

	out := stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("could not create output file %s: %w", *output, err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func readTable(path string) (*rows.Table, error) {
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if info.Size() > maxInputSize {
		return nil, fmt.Errorf("input too large: %d bytes (max %d)", info.Size(), maxInputSize)
	}
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var t rows.Table
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to parse input JSON: %w", err)
	}
	return &t, nil
}

// writeCharts writes name.png and name.html under dir.
func writeCharts(dir, name string, items []space.Item, labels []int, chart monitor.ChartOptions) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create chart dir: %w", err)
	}

	pngPath, err := security.JoinWithin(dir, name+".png")
	if err != nil {
		return err
	}
	if err := monitor.SavePNG(pngPath, items, labels, chart); err != nil {
		return err
	}
	monitoring.Logf("wrote %s", pngPath)

	htmlPath, err := security.JoinWithin(dir, name+".html")
	if err != nil {
		return err
	}
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", htmlPath, err)
	}
	if err := monitor.RenderHTML(f, items, labels, chart); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	monitoring.Logf("wrote %s", htmlPath)
	return nil
}
