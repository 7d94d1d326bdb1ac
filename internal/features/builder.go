package features

import (
	"math"
	"strings"

	"github.com/banshee-data/entityspace/internal/fnvhash"
	"github.com/banshee-data/entityspace/internal/space"
	"gonum.org/v1/gonum/floats"
)

const (
	// degenerateRange is the span below which min-max normalisation falls back.
	degenerateRange = 1e-12
	// neutral is the feature value for a non-finite metric.
	neutral = 0.5
	// textSeparator joins normalised text fields before hashing.
	textSeparator = "|"
)

// TextToVec3 hashes s into [0,1]³ with three independently seeded FNV-1a
// hashes. The same string always yields the same vector.
func TextToVec3(s string) space.Vec3 {
	return space.Vec3{
		X: fnvhash.Unit(fnvhash.Sum32a(s, fnvhash.OffsetBasis)),
		Y: fnvhash.Unit(fnvhash.Sum32a(s, fnvhash.SeedB)),
		Z: fnvhash.Unit(fnvhash.Sum32a(s, fnvhash.SeedC)),
	}
}

// JoinText lower-cases and trims each part and joins them with "|".
func JoinText(parts []string) string {
	norm := make([]string, len(parts))
	for i, p := range parts {
		norm[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(norm, textSeparator)
}

// Build returns one feature vector per point, aligned by index.
//
// Proximity normalises x, y and z independently into [0,1]. Efficiency
// normalises up to three metric fields across the set, mapping non-finite
// values to 0.5. Behavior hashes up to three text fields. Unused efficiency
// axes are 0. An unknown principle falls back to proximity; callers that need
// to reject it should Validate first.
func Build(points []space.Point, cfg GroupingConfig) []space.Vec3 {
	if len(points) == 0 {
		return nil
	}
	switch cfg.Principle {
	case Efficiency:
		return efficiencyVectors(points, limitFields(cfg.Fields))
	case Behavior:
		return behaviorVectors(points, limitFields(cfg.Fields))
	default:
		return proximityVectors(points)
	}
}

func limitFields(fields []string) []string {
	if len(fields) > MaxFields {
		return fields[:MaxFields]
	}
	return fields
}

func proximityVectors(points []space.Point) []space.Vec3 {
	var cols [3][]float64
	for axis := 0; axis < 3; axis++ {
		col := make([]float64, len(points))
		for i, p := range points {
			col[i] = p.Coord(axis)
		}
		cols[axis] = normalizeColumn(col, zeroRange)
	}
	return toVectors(cols, len(points))
}

func efficiencyVectors(points []space.Point, fields []string) []space.Vec3 {
	var cols [3][]float64
	for axis := 0; axis < 3; axis++ {
		col := make([]float64, len(points))
		if axis >= len(fields) {
			cols[axis] = col
			continue
		}
		for i, p := range points {
			v, ok := p.Metrics[fields[axis]]
			if !ok {
				v = math.NaN()
			}
			col[i] = v
		}
		cols[axis] = normalizeColumn(col, neutralRange)
	}
	return toVectors(cols, len(points))
}

func behaviorVectors(points []space.Point, fields []string) []space.Vec3 {
	out := make([]space.Vec3, len(points))
	parts := make([]string, len(fields))
	for i, p := range points {
		for j, f := range fields {
			parts[j] = TextAttr(p, f)
		}
		out[i] = TextToVec3(JoinText(parts))
	}
	return out
}

// TextAttr returns a text field of p. "label", "id" and "sourceField" read
// the point's own fields when no attribute of that name exists.
func TextAttr(p space.Point, field string) string {
	if v, ok := p.Attrs[field]; ok {
		return v
	}
	switch field {
	case "label":
		return p.Label
	case "id":
		return p.ID
	case "sourceField":
		return p.SourceField
	}
	return ""
}

type degenerateMode int

const (
	// zeroRange maps a flat column to 0.
	zeroRange degenerateMode = iota
	// neutralRange maps a flat column to 0.5.
	neutralRange
)

// normalizeColumn min-max scales the finite values of col into [0,1];
// non-finite entries become 0.5.
func normalizeColumn(col []float64, mode degenerateMode) []float64 {
	finiteVals := make([]float64, 0, len(col))
	for _, v := range col {
		if isFinite(v) {
			finiteVals = append(finiteVals, v)
		}
	}
	out := make([]float64, len(col))
	if len(finiteVals) == 0 {
		floats.AddConst(neutral, out)
		return out
	}

	lo, hi := floats.Min(finiteVals), floats.Max(finiteVals)
	flat := hi-lo < degenerateRange
	for i, v := range col {
		switch {
		case !isFinite(v):
			out[i] = neutral
		case flat && mode == zeroRange:
			out[i] = 0
		case flat && mode == neutralRange:
			out[i] = neutral
		default:
			out[i] = (v - lo) / (hi - lo)
		}
	}
	return out
}

func toVectors(cols [3][]float64, n int) []space.Vec3 {
	out := make([]space.Vec3, n)
	for i := range out {
		out[i] = space.Vec3{X: cols[0][i], Y: cols[1][i], Z: cols[2][i]}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
