package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_AdditiveSumsWithMissingAsZero(t *testing.T) {
	r := Default()
	out := r.Merge([]Values{
		{Revenue: 100, Spend: 10, Orders: 2},
		{Revenue: 50, Orders: math.NaN()},
		{Spend: 5},
	})
	assert.Equal(t, 150.0, out[Revenue])
	assert.Equal(t, 15.0, out[Spend])
	assert.Equal(t, 2.0, out[Orders])
}

func TestMerge_RatiosFromTotalsNotMean(t *testing.T) {
	// Mean of per-point drr is 30% and of roi is 6; the totals disagree.
	a := Values{Revenue: 1000, Spend: 100, DRR: 10, ROI: 10}
	b := Values{Revenue: 100, Spend: 50, DRR: 50, ROI: 2}
	out := Default().Merge([]Values{a, b})

	wantDRR := 150.0 / 1100.0 * 100
	wantROI := 1100.0 / 150.0
	assert.InDelta(t, wantDRR, out[DRR], 1e-9)
	assert.InDelta(t, wantROI, out[ROI], 1e-9)
	assert.NotEqual(t, 30.0, out[DRR], "drr must not be the arithmetic mean")
	assert.NotEqual(t, 6.0, out[ROI], "roi must not be the arithmetic mean")
}

func TestMerge_RatiosZeroWhenDenominatorNotPositive(t *testing.T) {
	out := Default().Merge([]Values{{Revenue: 0, Spend: 10}})
	assert.Equal(t, 0.0, out[DRR])
	assert.Equal(t, 0.0, out[ROI])

	out = Default().Merge([]Values{{Revenue: 10}})
	assert.Equal(t, 0.0, out[ROI])
	assert.Equal(t, 0.0, out[DRR])
	_, hasSpend := out[Spend]
	assert.False(t, hasSpend, "missing inputs must not leak into the merged map")
}

func TestMerge_AveragedUsesPerKeyCount(t *testing.T) {
	out := Default().Merge([]Values{
		{"ctr": 0.2, "cpc": 1},
		{"ctr": 0.4},
		{"cpc": math.NaN()},
		{},
	})
	assert.InDelta(t, 0.3, out["ctr"], 1e-12)
	assert.Equal(t, 1.0, out["cpc"])
}

func TestMerge_AveragedAllInvalidIsNaN(t *testing.T) {
	out := Default().Merge([]Values{{"ctr": math.NaN()}, {"ctr": math.Inf(1)}})
	require.Contains(t, out, "ctr")
	assert.True(t, math.IsNaN(out["ctr"]))
}

func TestMerge_DerivedOmittedWithoutInputs(t *testing.T) {
	out := Default().Merge([]Values{{"ctr": 1}})
	_, ok := out[DRR]
	assert.False(t, ok)
	_, ok = out[ROI]
	assert.False(t, ok)
}

func TestRegistry_CustomKinds(t *testing.T) {
	r := NewRegistry().
		Additive("clicks").
		Additive("impressions").
		Derive("ctr", func(m Values) float64 {
			if m["impressions"] > 0 {
				return m["clicks"] / m["impressions"]
			}
			return 0
		}, "clicks", "impressions")

	assert.Equal(t, Additive, r.Kind("clicks"))
	assert.Equal(t, Derived, r.Kind("ctr"))
	assert.Equal(t, Averaged, r.Kind("unknown"))

	out := r.Merge([]Values{
		{"clicks": 1, "impressions": 100, "ctr": 0.01},
		{"clicks": 9, "impressions": 100, "ctr": 0.09},
	})
	assert.InDelta(t, 0.05, out["ctr"], 1e-12)
	assert.Equal(t, 10.0, out["clicks"])
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "additive", Additive.String())
	assert.Equal(t, "averaged", Averaged.String())
	assert.Equal(t, "derived", Derived.String())
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
		nan  bool
	}{
		{in: 1.5, want: 1.5},
		{in: 3, want: 3},
		{in: int64(-7), want: -7},
		{in: json.Number("2.25"), want: 2.25},
		{in: " 42 ", want: 42},
		{in: true, want: 1},
		{in: "n/a", nan: true},
		{in: "", nan: true},
		{in: nil, nan: true},
		{in: []int{1}, nan: true},
	}
	for _, tc := range cases {
		got := ToFloat(tc.in)
		if tc.nan {
			if !math.IsNaN(got) {
				t.Errorf("ToFloat(%#v) = %v, want NaN", tc.in, got)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ToFloat(%#v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestValues_CloneAndKeys(t *testing.T) {
	v := Values{"b": 1, "a": 2}
	c := v.Clone()
	c["a"] = 99
	assert.Equal(t, 2.0, v["a"])
	assert.Equal(t, []string{"a", "b"}, v.Keys())
	assert.Nil(t, Values(nil).Clone())
}
