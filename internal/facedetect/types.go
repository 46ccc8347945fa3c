// Package facedetect is the client of the face-analysis service that detects
// faces in an image and computes one identity descriptor per face.
package facedetect

import "github.com/kozaktomas/face-attendance/internal/facematch"

// Face is a single detected face.
type Face struct {
	Index      int                  `json:"index"`
	Box        facematch.Box        `json:"box"` // pixels of the submitted image
	Descriptor facematch.Descriptor `json:"-"`
	Score      float64              `json:"score"`
}

// faceDetection represents a single detected face
type faceDetection struct {
	FaceIndex int       `json:"face_index"`
	Dim       int       `json:"dim"`
	Embedding []float32 `json:"embedding"`
	BBox      []float64 `json:"bbox"` // [x1, y1, x2, y2]
	DetScore  float64   `json:"det_score"`
}

// faceResponse represents the response from the face embedding endpoint
type faceResponse struct {
	FacesCount int             `json:"faces_count"`
	Faces      []faceDetection `json:"faces"`
	Model      string          `json:"model"`
}
