package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
)

// StudentsHandler handles student registration endpoints
type StudentsHandler struct{}

// NewStudentsHandler creates a new students handler
func NewStudentsHandler() *StudentsHandler {
	return &StudentsHandler{}
}

// StudentsResponse lists the roster in registration order
type StudentsResponse struct {
	Count    int      `json:"count"`
	Students []string `json:"students"`
}

// StudentResponse is returned after a roster change
type StudentResponse struct {
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Removed bool   `json:"removed,omitempty"`
}

// List returns the registered students
func (h *StudentsHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context(), w)
	if session == nil {
		return
	}

	students := session.Students()
	respondJSON(w, http.StatusOK, StudentsResponse{
		Count:    len(students),
		Students: students,
	})
}

// Register registers a student from a multipart form with "name" and a single-face "file"
func (h *StudentsHandler) Register(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context(), w)
	if session == nil {
		return
	}

	image, ok := readUploadedImage(w, r)
	if !ok {
		return
	}

	name := facematch.NormalizeLabel(r.FormValue("name"))
	matcher, err := session.Register(r.Context(), name, image)
	if err != nil {
		respondAttendanceError(w, "register student", err)
		return
	}

	log.Printf("Registered %s in session %s", sanitizeForLog(name), session.ID())
	respondJSON(w, http.StatusCreated, StudentResponse{
		Name:  name,
		Count: len(matcher.Labels()),
	})
}

// Remove unregisters a student. Requires confirm=true since it cannot be undone.
func (h *StudentsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context(), w)
	if session == nil {
		return
	}

	if r.URL.Query().Get("confirm") != "true" {
		respondError(w, http.StatusBadRequest, "removal must be confirmed with confirm=true")
		return
	}

	name := facematch.NormalizeLabel(chi.URLParam(r, "name"))
	matcher, removed := session.Remove(name)

	count := 0
	if matcher != nil {
		count = len(matcher.Labels())
	}

	if removed {
		log.Printf("Removed %s from session %s", sanitizeForLog(name), session.ID())
	}
	respondJSON(w, http.StatusOK, StudentResponse{
		Name:    name,
		Count:   count,
		Removed: removed,
	})
}
