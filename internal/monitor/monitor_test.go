package monitor

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/entityspace/internal/space"
	"github.com/banshee-data/entityspace/internal/testutil"
)

func sampleItems() []space.Item {
	pts := testutil.Line("p", 4, 1)
	items := space.Items(pts)
	items = append(items, space.ClusterPoint{Point: testutil.NewPoint("merged", 2, 2, 2), Count: 7})
	return items
}

func TestSplitSeries(t *testing.T) {
	items := sampleItems()
	groups, err := splitSeries(items, []int{1, -1, 0, 1, 0})
	testutil.AssertNoError(t, err)

	if len(groups) != 3 {
		t.Fatalf("expected 3 series, got %d", len(groups))
	}
	wantNames := []string{"cluster 0", "cluster 1", "noise"}
	wantSizes := []int{2, 2, 1}
	for i, g := range groups {
		if g.name != wantNames[i] {
			t.Errorf("series %d name = %q, want %q", i, g.name, wantNames[i])
		}
		if len(g.items) != wantSizes[i] {
			t.Errorf("series %q has %d items, want %d", g.name, len(g.items), wantSizes[i])
		}
	}
}

func TestSplitSeries_NilLabels(t *testing.T) {
	groups, err := splitSeries(sampleItems(), nil)
	testutil.AssertNoError(t, err)
	if len(groups) != 1 || groups[0].name != "points" || len(groups[0].items) != 5 {
		t.Errorf("unexpected series %+v", groups)
	}
}

func TestSplitSeries_Mismatch(t *testing.T) {
	_, err := splitSeries(sampleItems(), []int{0})
	if !errors.Is(err, ErrLabelMismatch) {
		t.Errorf("expected ErrLabelMismatch, got %v", err)
	}
}

func TestGenerateColors(t *testing.T) {
	if generateColors(0) != nil {
		t.Error("expected nil palette for n=0")
	}
	colors := generateColors(4)
	if len(colors) != 4 {
		t.Fatalf("expected 4 colours, got %d", len(colors))
	}
	if colors[0] == colors[2] {
		t.Error("expected distinct colours")
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.RGBA{R: 255, G: 16, B: 0, A: 255}); got != "#ff1000" {
		t.Errorf("hexColor = %q, want #ff1000", got)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plots", "space.png")
	err := SavePNG(path, sampleItems(), []int{0, 0, 1, -1, 1}, ChartOptions{Title: "Test"})
	testutil.AssertNoError(t, err)

	info, err := os.Stat(path)
	testutil.AssertNoError(t, err)
	if info.Size() == 0 {
		t.Error("expected non-empty PNG")
	}
}

func TestSavePNG_Mismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "space.png")
	testutil.AssertError(t, SavePNG(path, sampleItems(), []int{0, 1}, ChartOptions{}))
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be written on error")
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	err := RenderHTML(&buf, sampleItems(), []int{0, 0, 1, -1, 1}, ChartOptions{Title: "Grouping preview", XLabel: "Revenue"})
	testutil.AssertNoError(t, err)

	out := buf.String()
	for _, want := range []string{"Grouping preview", "Revenue", "cluster 0", "cluster 1", "noise"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderHTML_Mismatch(t *testing.T) {
	var buf bytes.Buffer
	testutil.AssertError(t, RenderHTML(&buf, sampleItems(), []int{}, ChartOptions{}))
	if buf.Len() != 0 {
		t.Error("nothing should be written on error")
	}
}
