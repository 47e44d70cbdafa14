package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{"same point", -6.2088, 106.8456, -6.2088, 106.8456, 0, 0.001},
		{"jakarta to bandung", -6.2088, 106.8456, -6.9175, 107.6191, 116, 5},
		{"jakarta to singapore", -6.2088, 106.8456, 1.3521, 103.8198, 897, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm = %v, want %v +/- %v", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKmSymmetric(t *testing.T) {
	ab := HaversineKm(-6.2088, 106.8456, 1.3521, 103.8198)
	ba := HaversineKm(1.3521, 103.8198, -6.2088, 106.8456)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("distance not symmetric: %v vs %v", ab, ba)
	}
}
