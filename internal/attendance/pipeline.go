// Package attendance registers students, recognizes faces in group photos and
// reconciles them against the class roster.
package attendance

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facedetect"
	"github.com/kozaktomas/face-attendance/internal/facematch"
	"github.com/kozaktomas/face-attendance/internal/imaging"
)

// Detector finds faces and computes their descriptors.
// *facedetect.Client implements it.
type Detector interface {
	DetectFaces(ctx context.Context, imageData []byte) ([]facedetect.Face, error)
	Ready(ctx context.Context) error
}

// RecognizedFace is one detected face with its match result.
// Box is expressed in pixels of the uploaded photo.
type RecognizedFace struct {
	Box    facematch.Box         `json:"box"`
	Result facematch.MatchResult `json:"result"`
}

// Recognize detects every face in image and matches it against matcher.
// Photos wider than maxWidth are downscaled before detection; returned boxes
// are mapped back to the original geometry. Faces are returned in detection
// order. A photo without faces yields an empty result, not an error.
func Recognize(ctx context.Context, detector Detector, image []byte, matcher *facematch.Matcher, maxWidth int) ([]RecognizedFace, error) {
	if matcher == nil {
		return nil, ErrNoRegisteredStudents
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}

	if err := detector.Ready(ctx); err != nil {
		return nil, detectorError("readiness check", err)
	}

	data, scale, err := imaging.FitWidth(image, maxWidth, constants.ResizeJPEGQuality)
	if err != nil {
		return nil, &CapabilityError{Op: "image decoding", Err: err}
	}

	faces, err := detector.DetectFaces(ctx, data)
	if err != nil {
		return nil, detectorError("detection", err)
	}

	recognized := make([]RecognizedFace, 0, len(faces))
	for _, face := range faces {
		if len(face.Descriptor) != matcher.Dim() {
			return nil, &CapabilityError{
				Op:  "detection",
				Err: fmt.Errorf("descriptor of face %d has dimension %d, expected %d", face.Index, len(face.Descriptor), matcher.Dim()),
			}
		}
		recognized = append(recognized, RecognizedFace{
			Box:    face.Box.Scale(scale),
			Result: matcher.Match(face.Descriptor),
		})
	}

	return recognized, nil
}

// Results extracts the match results in face order.
func Results(faces []RecognizedFace) []facematch.MatchResult {
	results := make([]facematch.MatchResult, len(faces))
	for i, f := range faces {
		results[i] = f.Result
	}
	return results
}
