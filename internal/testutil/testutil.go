// Package testutil provides shared test helpers and point fixtures.
//
// This package centralises the fixtures used across the pipeline packages so
// that tests build points and record tables the same way.
package testutil

import (
	"fmt"
	"testing"

	"github.com/banshee-data/entityspace/internal/metrics"
	"github.com/banshee-data/entityspace/internal/rows"
	"github.com/banshee-data/entityspace/internal/space"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewPoint returns a point in the "sku" group at (x, y, z).
func NewPoint(id string, x, y, z float64) space.Point {
	return space.Point{
		ID:          "sku:" + id,
		Label:       id,
		SourceField: "sku",
		Metrics:     metrics.Values{},
		X:           x,
		Y:           y,
		Z:           z,
	}
}

// Line returns n points spaced step apart along the X axis, starting at the
// origin. IDs are prefix0, prefix1 and so on.
func Line(prefix string, n int, step float64) []space.Point {
	out := make([]space.Point, n)
	for i := range out {
		out[i] = NewPoint(fmt.Sprintf("%s%d", prefix, i), float64(i)*step, 0, 0)
	}
	return out
}

// Blob returns n points packed within spread of centre along all three axes.
func Blob(prefix string, n int, centre space.Vec3, spread float64) []space.Point {
	out := make([]space.Point, n)
	for i := range out {
		f := spread * float64(i%5) / 4
		g := spread * float64((i/5)%5) / 4
		out[i] = NewPoint(fmt.Sprintf("%s%d", prefix, i), centre.X+f, centre.Y+g, centre.Z+(f+g)/2)
	}
	return out
}

// SalesFields is the field list used by SalesTable.
func SalesFields() []rows.Field {
	return []rows.Field{
		{Code: "sku", Kind: rows.Entity, Title: "SKU"},
		{Code: "brand", Kind: rows.Text, Title: "Brand"},
		{Code: "revenue", Kind: rows.Number, Title: "Revenue"},
		{Code: "spend", Kind: rows.Number, Title: "Ad spend"},
		{Code: "orders", Kind: rows.Number, Title: "Orders"},
	}
}

// SaleRow is one record for SalesTable.
func SaleRow(sku, brand string, revenue, spend, orders float64) rows.Row {
	return rows.Row{"sku": sku, "brand": brand, "revenue": revenue, "spend": spend, "orders": orders}
}

// SalesTable returns a record table with the SalesFields columns.
func SalesTable(rs ...rows.Row) *rows.Table {
	return &rows.Table{FieldList: SalesFields(), RowList: rs}
}
