package facematch

import (
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Descriptor
		expected float64
	}{
		{"identical", Descriptor{1, 2, 3}, Descriptor{1, 2, 3}, 0},
		{"3-4-5", Descriptor{0, 0}, Descriptor{3, 4}, 5},
		{"length mismatch", Descriptor{1}, Descriptor{1, 2}, math.MaxFloat64},
		{"empty", Descriptor{}, Descriptor{}, math.MaxFloat64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := EuclideanDistance(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("EuclideanDistance(%v, %v) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Descriptor
		expected float64
	}{
		{"same direction", Descriptor{1, 0}, Descriptor{2, 0}, 0},
		{"orthogonal", Descriptor{1, 0}, Descriptor{0, 1}, 1},
		{"opposite", Descriptor{1, 0}, Descriptor{-1, 0}, 2},
		{"zero vector", Descriptor{0, 0}, Descriptor{1, 0}, 2},
		{"length mismatch", Descriptor{1}, Descriptor{1, 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CosineDistance(tt.a, tt.b)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CosineDistance(%v, %v) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestParseMetric(t *testing.T) {
	if m, err := ParseMetric(""); err != nil || m != MetricEuclidean {
		t.Errorf("expected empty name to default to euclidean, got %v, %v", m, err)
	}
	if m, err := ParseMetric("cosine"); err != nil || m != MetricCosine {
		t.Errorf("expected cosine, got %v, %v", m, err)
	}
	if _, err := ParseMetric("hamming"); err == nil {
		t.Error("expected error for unsupported metric")
	}
}
