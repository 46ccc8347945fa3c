package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/registry"
)

// Options configures matching and photo preparation for a session.
type Options struct {
	Match    facematch.Options
	MaxWidth int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Match:    facematch.DefaultOptions(),
		MaxWidth: constants.MaxProcessingWidth,
	}
}

// Attendance is the result of one attendance run.
type Attendance struct {
	RunID   string           `json:"run_id"`
	TakenAt time.Time        `json:"taken_at"`
	Faces   []RecognizedFace `json:"faces"`
	Outcome
}

// Session holds the students registered for one class and the matcher built from them.
// Registry mutations and matcher rebuilds happen under one lock, so a matcher
// always reflects a complete registry state.
type Session struct {
	id       string
	detector Detector
	opts     Options

	mu       sync.RWMutex
	registry *registry.Registry
	matcher  *facematch.Matcher

	latestMu    sync.Mutex
	latest      *Attendance
	latestStart time.Time
}

// NewSession creates an empty session.
func NewSession(id string, detector Detector, opts Options) *Session {
	return &Session{
		id:       id,
		detector: detector,
		opts:     opts,
		registry: registry.New(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Register detects the single face in image and registers it under label.
// Re-registering a label replaces its descriptor. On any error the session is unchanged.
// Returns the matcher rebuilt from the new registry state.
func (s *Session) Register(ctx context.Context, label string, image []byte) (*facematch.Matcher, error) {
	label = facematch.NormalizeLabel(label)
	if label == "" {
		return nil, fmt.Errorf("%w: student name is required", ErrInvalidInput)
	}
	if facematch.ReservedLabel(label) {
		return nil, fmt.Errorf("%w: student name %q is reserved", ErrInvalidInput, label)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}

	if err := s.detector.Ready(ctx); err != nil {
		return nil, detectorError("readiness check", err)
	}

	// Detection is slow, keep it outside the lock.
	faces, err := s.detector.DetectFaces(ctx, image)
	if err != nil {
		return nil, detectorError("detection", err)
	}
	switch len(faces) {
	case 0:
		return nil, ErrNoFaceDetected
	case 1:
	default:
		return nil, &FaceCountError{Count: len(faces)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.registry.Put(label, faces[0].Descriptor); err != nil {
		if errors.Is(err, registry.ErrDimensionMismatch) {
			return nil, &CapabilityError{Op: "registration", Err: err}
		}
		return nil, fmt.Errorf("failed to register %q: %w", label, err)
	}
	s.matcher = facematch.Build(s.registry.Snapshot(), s.opts.Match)

	return s.matcher, nil
}

// Remove unregisters a student and rebuilds the matcher.
// Removing an unknown label is a no-op; removed reports whether anything changed.
// The returned matcher is nil once the last student is gone.
func (s *Session) Remove(label string) (matcher *facematch.Matcher, removed bool) {
	label = facematch.NormalizeLabel(label)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.registry.Remove(label) {
		return s.matcher, false
	}
	s.matcher = facematch.Build(s.registry.Snapshot(), s.opts.Match)

	return s.matcher, true
}

// Matcher returns the current matcher, nil when nobody is registered.
func (s *Session) Matcher() *facematch.Matcher {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matcher
}

// Students returns the roster in registration order.
func (s *Session) Students() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Labels()
}

// TakeAttendance recognizes the faces in a group photo and reconciles them
// with the roster. The matcher in effect at invocation is used for the whole
// run; registrations made meanwhile do not affect it.
func (s *Session) TakeAttendance(ctx context.Context, image []byte) (*Attendance, error) {
	started := time.Now()
	matcher := s.Matcher()

	faces, err := Recognize(ctx, s.detector, image, matcher, s.opts.MaxWidth)
	if err != nil {
		return nil, err
	}

	result := &Attendance{
		RunID:   uuid.NewString(),
		TakenAt: started.UTC(),
		Faces:   faces,
		Outcome: Reconcile(Results(faces), matcher.Labels()),
	}
	s.setLatest(result, started)

	return result, nil
}

// setLatest keeps the result of the most recently started run.
func (s *Session) setLatest(a *Attendance, started time.Time) {
	s.latestMu.Lock()
	defer s.latestMu.Unlock()

	if s.latest != nil && started.Before(s.latestStart) {
		return
	}
	s.latest = a
	s.latestStart = started
}

// Latest returns the most recent attendance result, or nil.
func (s *Session) Latest() *Attendance {
	s.latestMu.Lock()
	defer s.latestMu.Unlock()
	return s.latest
}

// Close forgets every student and result.
func (s *Session) Close() {
	s.mu.Lock()
	s.registry.Clear()
	s.matcher = nil
	s.mu.Unlock()

	s.latestMu.Lock()
	s.latest = nil
	s.latestMu.Unlock()
}
