package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/constants"
)

// errMissingFile is a shared error message for uploads without an image part.
const errMissingFile = "file is required"

// ReadinessChecker reports whether the face-analysis service can take requests.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusForError maps attendance errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, attendance.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, attendance.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrNoRegisteredStudents):
		return http.StatusConflict
	case errors.Is(err, attendance.ErrNoFaceDetected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, attendance.ErrCapabilityNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, attendance.ErrCapabilityFailure):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondAttendanceError logs err and sends it with the matching status.
// Unclassified errors are not echoed to the client.
func respondAttendanceError(w http.ResponseWriter, op string, err error) {
	status := statusForError(err)
	log.Printf("%s failed: %s", op, sanitizeForLog(err.Error()))
	if status == http.StatusInternalServerError {
		respondError(w, status, "internal error")
		return
	}
	respondError(w, status, err.Error())
}

// readUploadedImage parses a multipart form and returns the bytes of its "file" part.
// The form's other values stay available through r.FormValue.
func readUploadedImage(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, constants.MaxUploadSize)
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, errMissingFile)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return nil, false
	}
	if len(data) == 0 {
		respondError(w, http.StatusBadRequest, errMissingFile)
		return nil, false
	}
	return data, true
}

// HealthHandler reports service health
type HealthHandler struct {
	faceService ReadinessChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(faceService ReadinessChecker) *HealthHandler {
	return &HealthHandler{faceService: faceService}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	FaceService string `json:"face_service"`
}

// Get handles the health check endpoint.
// The server itself is healthy as soon as it answers; face service readiness is reported alongside.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	faceService := "ready"
	if h.faceService != nil {
		if err := h.faceService.Ready(r.Context()); err != nil {
			faceService = "not ready"
		}
	}
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		FaceService: faceService,
	})
}
