// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Face matching constants
const (
	// DefaultDistanceThreshold is the maximum descriptor distance for a face to count as a match.
	// Lower values = stricter matching
	DefaultDistanceThreshold = 0.6

	// UnknownLabel is the display label of a face that matched no registered student
	UnknownLabel = "unknown"
)

// Image processing constants
const (
	// MaxProcessingWidth is the widest group photo sent to face detection.
	// Wider photos are downscaled proportionally first.
	MaxProcessingWidth = 1200

	// ResizeJPEGQuality is the JPEG quality used when re-encoding a downscaled photo
	ResizeJPEGQuality = 90
)

// HNSW constants for the optional matcher index
const (
	// HNSWMaxNeighbors (M) is the maximum number of neighbors per node.
	HNSWMaxNeighbors = 16

	// HNSWEfSearch is the search candidate pool size.
	HNSWEfSearch = 100

	// DefaultIndexMinSize is the descriptor count from which matchers build an
	// HNSW index. Zero leaves indexing off unless configured.
	DefaultIndexMinSize = 0

	// DefaultCandidateK is the number of index candidates that seed the exact search.
	DefaultCandidateK = 32
)

// Face service constants
const (
	// DefaultFaceServiceURL is the address of the face-analysis service
	DefaultFaceServiceURL = "http://localhost:8000"

	// ReadyPollInterval is the delay between face service health probes
	ReadyPollInterval = 2 * time.Second

	// MaxFaceResponseSize caps the face service response body (8MB)
	MaxFaceResponseSize = 8 << 20
)
