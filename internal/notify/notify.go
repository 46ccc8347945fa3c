// Package notify publishes attendance outcomes to downstream consumers.
package notify

import (
	"context"
	"time"

	"github.com/kozaktomas/face-attendance/internal/attendance"
)

// Event is the payload published for every attendance run.
type Event struct {
	SessionID string    `json:"session_id"`
	RunID     string    `json:"run_id"`
	TakenAt   time.Time `json:"taken_at"`
	Present   []string  `json:"present"`
	Absent    []string  `json:"absent"`
	Unknown   int       `json:"unknown"`
	Faces     int       `json:"faces"`
}

// NewEvent builds the event for an attendance result.
func NewEvent(sessionID string, a *attendance.Attendance) Event {
	return Event{
		SessionID: sessionID,
		RunID:     a.RunID,
		TakenAt:   a.TakenAt,
		Present:   a.Present,
		Absent:    a.Absent,
		Unknown:   a.Unknown,
		Faces:     len(a.Faces),
	}
}

// Publisher delivers attendance events.
type Publisher interface {
	PublishAttendance(ctx context.Context, sessionID string, a *attendance.Attendance) error
	Close()
}

// Nop discards every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishAttendance(context.Context, string, *attendance.Attendance) error { return nil }

func (Nop) Close() {}
