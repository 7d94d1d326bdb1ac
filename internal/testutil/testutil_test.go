package testutil

import (
	"errors"
	"testing"

	"github.com/banshee-data/entityspace/internal/space"
)

func TestAssertNoError_NilErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertNoError(fakeT, nil)
	if fakeT.Failed() {
		t.Error("expected no failure for nil error")
	}
}

func TestAssertError_WithErr(t *testing.T) {
	fakeT := &testing.T{}
	AssertError(fakeT, errors.New("something wrong"))
	if fakeT.Failed() {
		t.Error("expected no failure when error is present")
	}
}

func TestNewPoint(t *testing.T) {
	p := NewPoint("a", 1, 2, 3)
	if p.ID != "sku:a" || p.Label != "a" || p.SourceField != "sku" {
		t.Errorf("unexpected identity %+v", p)
	}
	if p.Pos() != (space.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Pos() = %v", p.Pos())
	}
}

func TestLine(t *testing.T) {
	pts := Line("p", 4, 0.5)
	if len(pts) != 4 {
		t.Fatalf("len = %d, want 4", len(pts))
	}
	if pts[3].X != 1.5 || pts[3].ID != "sku:p3" {
		t.Errorf("last point = %+v", pts[3])
	}
}

func TestBlob_StaysWithinSpread(t *testing.T) {
	centre := space.Vec3{X: 10, Y: 10, Z: 10}
	for _, p := range Blob("b", 25, centre, 0.2) {
		if p.X < 10 || p.X > 10.2 || p.Y < 10 || p.Y > 10.2 || p.Z < 10 || p.Z > 10.2 {
			t.Errorf("point %s outside blob: %v", p.ID, p.Pos())
		}
	}
}

func TestSalesTable(t *testing.T) {
	tbl := SalesTable(SaleRow("A", "acme", 10, 2, 1))
	if len(tbl.Fields()) != 5 || len(tbl.Rows()) != 1 {
		t.Errorf("unexpected table shape: %d fields, %d rows", len(tbl.Fields()), len(tbl.Rows()))
	}
}
