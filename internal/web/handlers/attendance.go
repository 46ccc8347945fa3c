package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/notify"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
)

// AttendanceHandler handles attendance runs
type AttendanceHandler struct {
	publisher notify.Publisher
}

// NewAttendanceHandler creates a new attendance handler.
// Outcomes are sent to publisher; pass notify.Nop{} to disable.
func NewAttendanceHandler(publisher notify.Publisher) *AttendanceHandler {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &AttendanceHandler{publisher: publisher}
}

// FaceResponse is one recognized face
type FaceResponse struct {
	Box      facematch.Box `json:"box"`
	Label    string        `json:"label"`
	Distance float64       `json:"distance"`
	Matched  bool          `json:"matched"`
	Display  string        `json:"display"`
}

// AttendanceResponse is the result of an attendance run
type AttendanceResponse struct {
	RunID   string         `json:"run_id"`
	TakenAt time.Time      `json:"taken_at"`
	Present []string       `json:"present"`
	Absent  []string       `json:"absent"`
	Unknown int            `json:"unknown"`
	Faces   []FaceResponse `json:"faces"`
}

func newAttendanceResponse(a *attendance.Attendance) AttendanceResponse {
	faces := make([]FaceResponse, len(a.Faces))
	for i, f := range a.Faces {
		faces[i] = FaceResponse{
			Box:      f.Box,
			Label:    f.Result.DisplayLabel(),
			Distance: f.Result.Distance,
			Matched:  f.Result.Matched,
			Display:  f.Result.String(),
		}
	}
	return AttendanceResponse{
		RunID:   a.RunID,
		TakenAt: a.TakenAt,
		Present: a.Present,
		Absent:  a.Absent,
		Unknown: a.Unknown,
		Faces:   faces,
	}
}

// Take recognizes the faces in an uploaded group photo and returns who is present
func (h *AttendanceHandler) Take(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context(), w)
	if session == nil {
		return
	}

	image, ok := readUploadedImage(w, r)
	if !ok {
		return
	}

	result, err := session.TakeAttendance(r.Context(), image)
	if err != nil {
		respondAttendanceError(w, "take attendance", err)
		return
	}

	log.Printf("Attendance %s in session %s: %d present, %d absent, %d unknown",
		result.RunID, session.ID(), len(result.Present), len(result.Absent), result.Unknown)

	if err := h.publisher.PublishAttendance(r.Context(), session.ID(), result); err != nil {
		log.Printf("Failed to publish attendance %s: %v", result.RunID, err)
	}

	respondJSON(w, http.StatusOK, newAttendanceResponse(result))
}

// Latest returns the most recent attendance result of the session
func (h *AttendanceHandler) Latest(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context(), w)
	if session == nil {
		return
	}

	result := session.Latest()
	if result == nil {
		respondError(w, http.StatusNotFound, "no attendance taken yet")
		return
	}
	respondJSON(w, http.StatusOK, newAttendanceResponse(result))
}
