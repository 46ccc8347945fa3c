// Package facematch builds immutable face matchers from labeled descriptors and formats their results.
package facematch

import (
	"fmt"
	"strings"

	"github.com/kozaktomas/face-attendance/internal/constants"
)

// Descriptor is a face identity embedding produced by the face-analysis service.
// Descriptors are never modified after creation.
type Descriptor []float32

// LabeledDescriptor ties a student label to the descriptors registered for it.
type LabeledDescriptor struct {
	Label       string       `json:"label"`
	Descriptors []Descriptor `json:"descriptors"`
}

// MatchResult is the outcome of matching one face descriptor.
// Label is empty when the face matched no registered student; Distance is
// always the smallest distance found.
type MatchResult struct {
	Label    string  `json:"label,omitempty"`
	Distance float64 `json:"distance"`
	Matched  bool    `json:"matched"`
}

// IsUnknown reports whether the face could not be attributed to any student.
func (r MatchResult) IsUnknown() bool {
	return !r.Matched
}

// DisplayLabel returns the student label, or "unknown".
func (r MatchResult) DisplayLabel() string {
	if r.IsUnknown() {
		return constants.UnknownLabel
	}
	return r.Label
}

// String formats the result for box annotations, e.g. "Alice (0.31)".
func (r MatchResult) String() string {
	return fmt.Sprintf("%s (%.2f)", r.DisplayLabel(), r.Distance)
}

// labelSeparator separates the name from the distance in the string form.
const labelSeparator = " ("

// StudentName extracts the student name from a formatted annotation.
// ok is false for unknown faces.
func StudentName(annotation string) (name string, ok bool) {
	name, _, _ = strings.Cut(annotation, labelSeparator)
	if name == "" || name == constants.UnknownLabel {
		return "", false
	}
	return name, true
}

// ReservedLabel reports whether a label would be ambiguous in the annotation string form.
func ReservedLabel(label string) bool {
	return strings.EqualFold(label, constants.UnknownLabel) || strings.Contains(label, labelSeparator)
}
