package rows

import (
	"math"
	"testing"

	"github.com/banshee-data/entityspace/internal/metrics"
	"github.com/banshee-data/entityspace/internal/space"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func campaignTable() *Table {
	return &Table{
		FieldList: []Field{
			{Code: "campaign", Kind: Entity, Title: "Campaign"},
			{Code: "channel", Kind: Text},
			{Code: "revenue", Kind: Number},
			{Code: "spend", Kind: Number},
			{Code: "ctr", Kind: Number},
			{Code: "day", Kind: Date},
		},
		RowList: []Row{
			{"campaign": "summer", "channel": "search", "revenue": 1000.0, "spend": 100.0, "ctr": 0.1, "day": "2024-01-01"},
			{"campaign": "winter", "channel": "social", "revenue": "50", "spend": 25, "ctr": "bad", "day": "2024-01-02"},
			{"campaign": "summer", "channel": "display", "revenue": 100.0, "spend": 50.0, "day": "2024-01-03"},
		},
	}
}

func TestGroupRows_OnePointPerEntity(t *testing.T) {
	points, err := GroupRows(campaignTable(), GroupOptions{EntityField: "campaign"})
	require.NoError(t, err)
	require.Len(t, points, 2)

	summer := points[0]
	assert.Equal(t, "campaign:summer", summer.ID)
	assert.Equal(t, "summer", summer.Label)
	assert.Equal(t, "campaign", summer.SourceField)
	assert.Equal(t, 1100.0, summer.Metrics[metrics.Revenue])
	assert.Equal(t, 150.0, summer.Metrics[metrics.Spend])
	assert.InDelta(t, 150.0/1100.0*100, summer.Metrics[metrics.DRR], 1e-9)
	assert.InDelta(t, 0.1, summer.Metrics["ctr"], 1e-12, "ctr averages over rows that define it")
	assert.Equal(t, "search", summer.Attrs["channel"], "first text value wins")

	winter := points[1]
	assert.Equal(t, 50.0, winter.Metrics[metrics.Revenue])
	assert.True(t, math.IsNaN(winter.Metrics["ctr"]))
}

func TestGroupRows_DateFieldsAreUnixSeconds(t *testing.T) {
	points, err := GroupRows(campaignTable(), GroupOptions{EntityField: "campaign"})
	require.NoError(t, err)
	// Two summer rows: 2024-01-01 and 2024-01-03, averaged.
	assert.Equal(t, float64(1704067200+86400), points[0].Metrics["day"])
}

func TestGroupRows_Errors(t *testing.T) {
	_, err := GroupRows(campaignTable(), GroupOptions{})
	assert.Error(t, err)
	_, err = GroupRows(campaignTable(), GroupOptions{EntityField: "sku"})
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	points := []space.Point{
		{ID: "a", Metrics: metrics.Values{"revenue": 10, "spend": 2}},
	}
	got := Project(points, Axes{"revenue", "spend", ""})
	assert.Equal(t, 10.0, got[0].X)
	assert.Equal(t, 2.0, got[0].Y)
	assert.Equal(t, 0.0, got[0].Z)

	got = Project(points, Axes{"orders", "spend", "revenue"})
	assert.True(t, math.IsNaN(got[0].X))
	assert.Equal(t, 0.0, points[0].X, "input must not be mutated")
}

func TestResolve(t *testing.T) {
	fields := campaignTable().Fields()
	assert.Equal(t, "Campaign", Resolve(fields, "campaign"))
	assert.Equal(t, "spend", Resolve(fields, "spend"))
}
