// Package metrics describes how named business metrics combine when several
// entities are merged into one point.
//
// Each metric key has a Kind. Additive metrics are summed, Averaged metrics
// are averaged over the members that define them, and Derived metrics are
// recomputed from the merged additive totals. Keys not registered explicitly
// are Averaged.
package metrics

import (
	"math"
	"sort"
)

// Kind selects the merge rule for a metric key.
type Kind int

const (
	// Averaged metrics take the mean over members with a finite value.
	Averaged Kind = iota
	// Additive metrics are summed, a missing or invalid value counts as 0.
	Additive
	// Derived metrics are recomputed from merged totals by a Formula.
	Derived
)

func (k Kind) String() string {
	switch k {
	case Additive:
		return "additive"
	case Derived:
		return "derived"
	default:
		return "averaged"
	}
}

// Formula computes a derived metric from already merged values.
type Formula func(merged Values) float64

// Values maps metric name to value. NaN marks a value that failed coercion.
type Values map[string]float64

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	if v == nil {
		return nil
	}
	out := make(Values, len(v))
	for k, x := range v {
		out[k] = x
	}
	return out
}

// Keys returns the metric names in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type rule struct {
	kind    Kind
	formula Formula
	inputs  []string
}

// Registry maps metric names to merge rules.
type Registry struct {
	rules map[string]rule
}

// NewRegistry returns an empty registry in which every key is Averaged.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]rule)}
}

// Additive registers key as summed.
func (r *Registry) Additive(key string) *Registry {
	r.rules[key] = rule{kind: Additive}
	return r
}

// Derive registers key as recomputed by f. inputs names the merged keys f
// reads; the derived key is emitted whenever any member or input is present.
func (r *Registry) Derive(key string, f Formula, inputs ...string) *Registry {
	r.rules[key] = rule{kind: Derived, formula: f, inputs: inputs}
	return r
}

// Kind reports the merge rule for key.
func (r *Registry) Kind(key string) Kind {
	if r == nil {
		return Averaged
	}
	return r.rules[key].kind
}

// Metric names with fixed merge rules in the default registry.
const (
	Revenue = "revenue"
	Spend   = "spend"
	Orders  = "orders"
	DRR     = "drr"
	ROI     = "roi"
)

// DRRFromTotals is spend/revenue*100, or 0 when revenue is not positive.
func DRRFromTotals(m Values) float64 {
	rev := m[Revenue]
	if rev > 0 {
		return m[Spend] / rev * 100
	}
	return 0
}

// ROIFromTotals is revenue/spend, or 0 when spend is not positive.
func ROIFromTotals(m Values) float64 {
	spend := m[Spend]
	if spend > 0 {
		return m[Revenue] / spend
	}
	return 0
}

// Default returns the registry used for SKU and campaign data.
func Default() *Registry {
	return NewRegistry().
		Additive(Revenue).
		Additive(Spend).
		Additive(Orders).
		Derive(DRR, DRRFromTotals, Revenue, Spend).
		Derive(ROI, ROIFromTotals, Revenue, Spend)
}

// Merge combines the metric maps of several members.
//
// Additive keys are summed with missing or non-finite values read as 0.
// Averaged keys divide by the number of members with a finite value for that
// key, so sparse metrics are not diluted; a key with no finite value stays NaN.
// Derived keys are evaluated last against the merged map.
func (r *Registry) Merge(members []Values) Values {
	if r == nil {
		r = NewRegistry()
	}
	sums := make(map[string]float64)
	counts := make(map[string]int)
	seen := make(map[string]bool)

	for _, m := range members {
		for k, v := range m {
			seen[k] = true
			switch r.Kind(k) {
			case Additive:
				if isFinite(v) {
					sums[k] += v
				}
			case Averaged:
				if isFinite(v) {
					sums[k] += v
					counts[k]++
				}
			}
		}
	}

	out := make(Values, len(seen))
	for k := range seen {
		switch r.Kind(k) {
		case Additive:
			out[k] = sums[k]
		case Averaged:
			if counts[k] > 0 {
				out[k] = sums[k] / float64(counts[k])
			} else {
				out[k] = math.NaN()
			}
		}
	}

	for k, ru := range r.rules {
		if ru.kind != Derived {
			continue
		}
		present := seen[k]
		for _, in := range ru.inputs {
			if seen[in] {
				present = true
			}
		}
		if !present {
			continue
		}
		// Inputs that no member defined read as 0 inside the formula.
		view := out
		cloned := false
		for _, in := range ru.inputs {
			if _, ok := out[in]; !ok {
				if !cloned {
					view = out.Clone()
					cloned = true
				}
				view[in] = 0
			}
		}
		out[k] = ru.formula(view)
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
