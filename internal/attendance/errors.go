package attendance

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/facedetect"
)

var (
	// ErrInvalidInput is returned for an empty or reserved student name, or an empty image.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoFaceDetected is returned when a registration photo does not contain exactly one face.
	ErrNoFaceDetected = errors.New("no face detected")

	// ErrNoRegisteredStudents is returned when attendance is taken before anyone registered.
	ErrNoRegisteredStudents = errors.New("no registered students")

	// ErrCapabilityNotReady is returned while the face-analysis service is still loading.
	ErrCapabilityNotReady = errors.New("face analysis not ready")

	// ErrCapabilityFailure matches every *CapabilityError.
	ErrCapabilityFailure = errors.New("face analysis failed")

	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("session not found")
)

// FaceCountError reports a registration photo with more than one face.
// It matches ErrNoFaceDetected, since the photo has no single usable face.
type FaceCountError struct {
	Count int
}

func (e *FaceCountError) Error() string {
	return fmt.Sprintf("expected exactly one face, found %d", e.Count)
}

func (e *FaceCountError) Is(target error) bool {
	return target == ErrNoFaceDetected
}

// CapabilityError wraps a failure of the face-analysis service or of image decoding.
type CapabilityError struct {
	Op  string
	Err error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("face analysis failed during %s: %v", e.Op, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

func (e *CapabilityError) Is(target error) bool {
	return target == ErrCapabilityFailure
}

// detectorError classifies an error returned by a Detector.
func detectorError(op string, err error) error {
	if errors.Is(err, facedetect.ErrNotReady) {
		return fmt.Errorf("%w: %w", ErrCapabilityNotReady, err)
	}
	return &CapabilityError{Op: op, Err: err}
}
