package target

import (
	"image"
	"testing"
)

func TestSelect_Nearest(t *testing.T) {
	got, ok := Select([]image.Point{{3, 4}, {1, 1}}, image.Point{}, nil)
	if !ok || got != image.Pt(1, 1) {
		t.Fatalf("expected (1,1), got %v ok=%v", got, ok)
	}
}

func TestSelect_TieKeepsInputOrder(t *testing.T) {
	got, _ := Select([]image.Point{{0, 5}, {5, 0}, {-5, 0}}, image.Point{}, nil)
	if got != image.Pt(0, 5) {
		t.Fatalf("first minimal candidate should win, got %v", got)
	}
}

func TestSelect_Empty(t *testing.T) {
	if _, ok := Select(nil, image.Point{}, nil); ok {
		t.Fatalf("no candidates must select nothing")
	}
}

func TestSelect_BandScenario(t *testing.T) {
	candidates := []image.Point{{100, 200}, {300, 200}}

	got, ok := Select(candidates, image.Point{}, nil)
	if !ok || got != image.Pt(100, 200) {
		t.Fatalf("without band: got %v ok=%v", got, ok)
	}

	narrow := &Band{Min: 150, Max: 250, Axis: AxisX}
	if got, ok := Select(candidates, image.Point{}, narrow); ok {
		t.Fatalf("band %+v should exclude both, got %v", *narrow, got)
	}

	wide := &Band{Min: 150, Max: 300, Axis: AxisX}
	got, ok = Select(candidates, image.Point{}, wide)
	if !ok || got != image.Pt(300, 200) {
		t.Fatalf("band %+v should select (300,200), got %v ok=%v", *wide, got, ok)
	}
}

func TestBand_VerticalDefault(t *testing.T) {
	b := Band{Min: 10, Max: 20}
	if !b.Contains(image.Pt(999, 10)) || !b.Contains(image.Pt(-5, 20)) {
		t.Fatalf("bounds are inclusive on y")
	}
	if b.Contains(image.Pt(15, 21)) {
		t.Fatalf("y=21 is outside")
	}
	if (Band{Min: 5, Max: 4}).Valid() {
		t.Fatalf("inverted band is invalid")
	}
}
