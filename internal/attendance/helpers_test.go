package attendance

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/kozaktomas/face-attendance/internal/facedetect"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// fakeDetector returns canned faces keyed by the exact image bytes.
type fakeDetector struct {
	mu       sync.Mutex
	faces    map[string][]facedetect.Face
	fallback []facedetect.Face
	err      error
	readyErr error
	calls    int
}

func newFakeDetector() *fakeDetector {
	return &fakeDetector{faces: make(map[string][]facedetect.Face)}
}

func (f *fakeDetector) DetectFaces(_ context.Context, data []byte) ([]facedetect.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if faces, ok := f.faces[string(data)]; ok {
		return faces, nil
	}
	return f.fallback, nil
}

func (f *fakeDetector) Ready(context.Context) error {
	return f.readyErr
}

// on registers the faces returned for image.
func (f *fakeDetector) on(image []byte, descriptors ...facematch.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faces[string(image)] = makeFaces(descriptors...)
}

func makeFaces(descriptors ...facematch.Descriptor) []facedetect.Face {
	faces := make([]facedetect.Face, len(descriptors))
	for i, d := range descriptors {
		faces[i] = facedetect.Face{
			Index:      i,
			Box:        facematch.Box{X: float64(10 * i), Y: 5, Width: 8, Height: 8},
			Descriptor: d,
			Score:      0.99,
		}
	}
	return faces
}

// photo returns a blank PNG; different sizes give different bytes.
func photo(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

var (
	descAlice = facematch.Descriptor{0, 0}
	descBob   = facematch.Descriptor{5, 0}
	descCarol = facematch.Descriptor{0, 5}
)
