package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/web/handlers"
	"github.com/kozaktomas/face-attendance/internal/web/middleware"
)

func (s *Server) setupRoutes() {
	// Create handlers
	healthHandler := handlers.NewHealthHandler(s.faceService)
	configHandler := handlers.NewConfigHandler(s.config)
	sessionsHandler := handlers.NewSessionsHandler(s.sessions)
	studentsHandler := handlers.NewStudentsHandler()
	attendanceHandler := handlers.NewAttendanceHandler(s.publisher)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Get)
		r.Get("/config", configHandler.Get)

		// Sessions
		r.Post("/sessions", sessionsHandler.Create)
		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/", sessionsHandler.Get)
			r.Delete("/", sessionsHandler.End)

			// Everything below operates on one live session
			r.Group(func(r chi.Router) {
				r.Use(middleware.WithSession(s.sessions))

				// Students
				r.Get("/students", studentsHandler.List)
				r.Post("/students", studentsHandler.Register)
				r.Delete("/students/{name}", studentsHandler.Remove)

				// Attendance
				r.Post("/attendance", attendanceHandler.Take)
				r.Get("/attendance/latest", attendanceHandler.Latest)
			})
		})
	})
}
