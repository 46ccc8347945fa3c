package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/facedetect"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Face: config.FaceConfig{
			Threshold: 0.6,
			Metric:    "euclidean",
			MaxWidth:  1200,
		},
		Web: config.WebConfig{
			SessionTTL: time.Hour,
		},
	}
}

// fakeDetector returns canned faces keyed by the exact image bytes
type fakeDetector struct {
	mu       sync.Mutex
	faces    map[string][]facedetect.Face
	err      error
	readyErr error
}

func newFakeDetector() *fakeDetector {
	return &fakeDetector{faces: make(map[string][]facedetect.Face)}
}

func (f *fakeDetector) DetectFaces(_ context.Context, data []byte) ([]facedetect.Face, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.faces[string(data)], nil
}

func (f *fakeDetector) Ready(context.Context) error {
	return f.readyErr
}

// on sets the faces found in image, one per descriptor
func (f *fakeDetector) on(image []byte, descriptors ...facematch.Descriptor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	faces := make([]facedetect.Face, len(descriptors))
	for i, d := range descriptors {
		faces[i] = facedetect.Face{
			Index:      i,
			Box:        facematch.Box{X: float64(20 * i), Y: 4, Width: 16, Height: 16},
			Descriptor: d,
		}
	}
	f.faces[string(image)] = faces
}

// fakePublisher records published attendance runs
type fakePublisher struct {
	mu       sync.Mutex
	sessions []string
	err      error
}

func (p *fakePublisher) PublishAttendance(_ context.Context, sessionID string, _ *attendance.Attendance) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = append(p.sessions, sessionID)
	return p.err
}

func (p *fakePublisher) Close() {}

// testPNG creates a blank PNG; different sizes give different bytes
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// registerStudent registers name with a portrait whose face has descriptor d
func registerStudent(t *testing.T, det *fakeDetector, s *attendance.Session, name string, d facematch.Descriptor) {
	t.Helper()
	portrait := []byte("portrait of " + name)
	det.on(portrait, d)
	if _, err := s.Register(context.Background(), name, portrait); err != nil {
		t.Fatalf("failed to register %s: %v", name, err)
	}
}

// multipartRequest creates a request with form fields and an optional "file" part
func multipartRequest(t *testing.T, method, path string, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile("file", "photo.png")
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// requestWithSession adds an attendance session to the request context
func requestWithSession(r *http.Request, s *attendance.Session) *http.Request {
	return r.WithContext(middleware.SetSessionInContext(r.Context(), s))
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
