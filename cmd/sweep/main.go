// Command sweep runs the projection and grouping stages over a range of
// detail values and writes one CSV row per combination, so the detail
// sliders can be tuned against a real table.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/entityspace/internal/config"
	"github.com/banshee-data/entityspace/internal/monitoring"
	"github.com/banshee-data/entityspace/internal/pipeline"
	"github.com/banshee-data/entityspace/internal/rows"
	"github.com/banshee-data/entityspace/internal/space"
)

// parseCSVFloatSlice parses a comma-separated list of floats
func parseCSVFloatSlice(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float '%s': %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseParamList returns the explicit list when given, else start..end by step.
func parseParamList(list string, start, end, step float64) ([]float64, error) {
	if list != "" {
		return parseCSVFloatSlice(list)
	}
	return generateRange(start, end, step), nil
}

// generateRange returns start, start+step, ... up to end. Values are clamped
// to end so float accumulation never overshoots a bound like 1.
func generateRange(start, end, step float64) []float64 {
	if step <= 0 {
		step = 0.01
	}
	var result []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > end+1e-9 {
			break
		}
		result = append(result, math.Min(v, end))
	}
	return result
}

func meanStddev(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(len(xs))
	var sdSum float64
	for _, v := range xs {
		d := v - mean
		sdSum += d * d
	}
	var stddev float64
	if len(xs) > 1 {
		stddev = math.Sqrt(sdSum / float64(len(xs)-1))
	}
	return mean, stddev
}

var csvHeader = []string{
	"detail", "grouping_detail", "items", "plain", "clusters", "represented",
	"eps", "min_pts", "groups", "noise", "group_size_mean", "group_size_stddev",
}

// sweepRow is one combination's outcome.
type sweepRow struct {
	Detail         float64
	GroupingDetail float64
	Items          int
	Plain          int
	Clusters       int
	Represented    int
	Eps            float64
	MinPts         int
	Groups         int
	Noise          int
	SizeMean       float64
	SizeStddev     float64
}

func (r sweepRow) record() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	return []string{
		f(r.Detail), f(r.GroupingDetail),
		strconv.Itoa(r.Items), strconv.Itoa(r.Plain), strconv.Itoa(r.Clusters), strconv.Itoa(r.Represented),
		f(r.Eps), strconv.Itoa(r.MinPts), strconv.Itoa(r.Groups), strconv.Itoa(r.Noise),
		f(r.SizeMean), f(r.SizeStddev),
	}
}

// sweep evaluates every detail × grouping detail combination against src.
func sweep(src rows.Source, cfg *config.TuningConfig, details, groupingDetails []float64) ([]sweepRow, error) {
	base := pipeline.OptionsFromConfig(cfg)
	var out []sweepRow
	for _, d := range details {
		opts := base
		opts.Detail = d
		res, err := pipeline.BuildPoints(src, opts)
		if err != nil {
			return nil, err
		}
		points := space.Bases(res.Items)

		for _, gd := range groupingDetails {
			gcfg := cfg.ToGroupingConfig()
			gcfg.Detail = gd
			g, err := pipeline.Group(points, gcfg)
			if err != nil {
				return nil, fmt.Errorf("detail=%.4f grouping_detail=%.4f: %w", d, gd, err)
			}
			sizes := make([]float64, len(g.Summary.Sizes))
			for i, s := range g.Summary.Sizes {
				sizes[i] = float64(s)
			}
			mean, sd := meanStddev(sizes)
			out = append(out, sweepRow{
				Detail:         d,
				GroupingDetail: gd,
				Items:          len(res.Items),
				Plain:          res.Stats.Plain,
				Clusters:       res.Stats.Clusters,
				Represented:    res.Stats.Represented,
				Eps:            g.Params.Eps,
				MinPts:         g.Params.MinPts,
				Groups:         g.Summary.Clusters,
				Noise:          g.Summary.Noise,
				SizeMean:       mean,
				SizeStddev:     sd,
			})
		}
	}
	return out, nil
}

func writeCSV(w io.Writer, results []sweepRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func main() {
	input := flag.String("input", "", "Record table JSON file")
	configPath := flag.String("config", "", "Tuning config JSON file (defaults apply when empty)")
	output := flag.String("output", "", "Output CSV filename (defaults to sweep-<timestamp>.csv)")

	detailList := flag.String("detail", "", "Comma-separated detail values (e.g. 0.2,0.5,0.8)")
	detailStart := flag.Float64("detail-start", 0, "Start detail value")
	detailEnd := flag.Float64("detail-end", 1, "End detail value")
	detailStep := flag.Float64("detail-step", 0.1, "Step for detail sweep")

	groupingList := flag.String("grouping-detail", "", "Comma-separated grouping detail values")
	groupingStart := flag.Float64("grouping-start", 0, "Start grouping detail value")
	groupingEnd := flag.Float64("grouping-end", 1, "End grouping detail value")
	groupingStep := flag.Float64("grouping-step", 0.25, "Step for grouping detail sweep")

	verbose := flag.Bool("verbose", false, "Log every pipeline stage")
	flag.Parse()

	if !*verbose {
		monitoring.SetLogger(nil)
	}
	if *input == "" {
		log.Fatalf("-input is required")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		loaded, err := config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	details, err := parseParamList(*detailList, *detailStart, *detailEnd, *detailStep)
	if err != nil {
		log.Fatalf("Invalid detail list: %v", err)
	}
	groupingDetails, err := parseParamList(*groupingList, *groupingStart, *groupingEnd, *groupingStep)
	if err != nil {
		log.Fatalf("Invalid grouping detail list: %v", err)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Could not read input %s: %v", *input, err)
	}
	var table rows.Table
	if err := json.Unmarshal(data, &table); err != nil {
		log.Fatalf("Could not parse input %s: %v", *input, err)
	}

	log.Printf("Parameter combinations: %d (detail: %d, grouping detail: %d)",
		len(details)*len(groupingDetails), len(details), len(groupingDetails))

	started := time.Now()
	results, err := sweep(&table, cfg, details, groupingDetails)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	filename := *output
	if filename == "" {
		filename = fmt.Sprintf("sweep-%s.csv", time.Now().Format("20060102-150405"))
	}
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("Could not create output file %s: %v", filename, err)
	}
	defer f.Close()
	if err := writeCSV(f, results); err != nil {
		log.Fatalf("Could not write %s: %v", filename, err)
	}

	log.Printf("Sweep complete in %s: %s", time.Since(started).Round(time.Millisecond), filename)
}
