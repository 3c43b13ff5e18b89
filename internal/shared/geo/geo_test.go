package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestHaversineKmSamePoint(t *testing.T) {
	d := HaversineKm(-6.2088, 106.8456, -6.2088, 106.8456)
	if d > 1e-9 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestHaversineKmSymmetric(t *testing.T) {
	ab := HaversineKm(-6.2, 106.8, 35.6762, 139.6503)
	ba := HaversineKm(35.6762, 139.6503, -6.2, 106.8)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("expected symmetric distance: %v vs %v", ab, ba)
	}
	if ab < 0 {
		t.Fatalf("expected non-negative distance")
	}
}
