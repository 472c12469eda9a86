package geo

import (
	"math"
	"testing"

	"medtransit/internal/types"
)

func TestMilesZeroForSamePoint(t *testing.T) {
	p := types.Point{Lat: 39.1, Lng: -84.5}
	if d := Miles(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

// One degree of latitude is ~69 statute miles anywhere on the globe.
func TestMilesOneDegreeLatitude(t *testing.T) {
	a := types.Point{Lat: 40.0, Lng: -75.0}
	b := types.Point{Lat: 41.0, Lng: -75.0}
	d := Miles(a, b)
	if math.Abs(d-69.1) > 0.5 {
		t.Fatalf("expected ~69.1 miles, got %f", d)
	}
}

func TestMilesSymmetric(t *testing.T) {
	a := types.Point{Lat: 40.0, Lng: -75.0}
	b := types.Point{Lat: 40.5, Lng: -74.2}
	if d1, d2 := Miles(a, b), Miles(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("asymmetric distance: %f vs %f", d1, d2)
	}
}
