package facematch

import (
	"fmt"
	"math"
)

// Metric names a descriptor distance function.
type Metric string

const (
	// MetricEuclidean is the L2 distance face descriptors are usually thresholded with (0.6).
	MetricEuclidean Metric = "euclidean"
	// MetricCosine is 1 - cosine similarity, in [0, 2].
	MetricCosine Metric = "cosine"
)

// maxCosineDistance is returned for invalid cosine input.
const maxCosineDistance = 2.0

// DistanceFunc returns a nonnegative distance between two descriptors.
type DistanceFunc func(a, b Descriptor) float64

// ParseMetric validates a metric name.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case MetricEuclidean, MetricCosine:
		return Metric(name), nil
	case "":
		return MetricEuclidean, nil
	}
	return "", fmt.Errorf("unsupported distance metric %q", name)
}

// Func returns the exact distance function for the metric.
func (m Metric) Func() DistanceFunc {
	if m == MetricCosine {
		return CosineDistance
	}
	return EuclideanDistance
}

// EuclideanDistance computes the L2 distance between two descriptors.
// Descriptors of different length are maximally distant.
func EuclideanDistance(a, b Descriptor) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		diff := float64(a[i]) - float64(b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// CosineDistance computes the cosine distance between two vectors
// Returns a value between 0 (identical) and 2 (opposite)
func CosineDistance(a, b Descriptor) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return maxCosineDistance
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return maxCosineDistance
	}

	similarity := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp to [-1, 1] to handle floating point errors
	similarity = max(-1, min(1, similarity))

	return 1 - similarity
}
