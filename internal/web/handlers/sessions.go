package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/attendance"
)

// SessionsHandler handles attendance session lifecycle endpoints
type SessionsHandler struct {
	sessions *attendance.Manager
}

// NewSessionsHandler creates a new sessions handler
func NewSessionsHandler(sessions *attendance.Manager) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// Create starts a new empty session
func (h *SessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusCreated, h.sessions.Create())
}

// Get describes a session
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	info, err := h.sessions.Info(chi.URLParam(r, "sessionId"))
	if err != nil {
		respondAttendanceError(w, "get session", err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

// End closes a session and forgets its students
func (h *SessionsHandler) End(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionId")
	if err := h.sessions.End(id); err != nil {
		if errors.Is(err, attendance.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondAttendanceError(w, "end session", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"ended": true,
	})
}
