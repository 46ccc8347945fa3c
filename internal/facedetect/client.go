package facedetect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/facematch"
)

// ErrNotReady is returned while the face service has not finished loading its models.
var ErrNotReady = errors.New("face service not ready")

// Client calls the face-analysis service over HTTP.
type Client struct {
	baseURL     string
	minDetScore float64
	client      *http.Client
	maxResponse int64
	ready       atomic.Bool
}

// ErrResponseTooLarge is returned when the service answers with more than
// the allowed number of bytes.
var ErrResponseTooLarge = errors.New("face service response too large")

// NewClient creates a new face service client.
// Detections scoring below minDetScore are dropped.
func NewClient(baseURL string, minDetScore float64) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultFaceServiceURL
	}
	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		minDetScore: minDetScore,
		client:      &http.Client{Timeout: 2 * time.Minute},
		maxResponse: constants.MaxFaceResponseSize,
	}
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// postMultipartImage posts the image as the "file" part of a multipart form.
// The part carries a Content-Type based on magic byte detection.
func (c *Client) postMultipartImage(ctx context.Context, endpoint string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="image"`)
	h.Set("Content-Type", detectMIMEType(imageData))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxResponse {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, c.maxResponse)
	}

	if resp.StatusCode == http.StatusServiceUnavailable {
		c.ready.Store(false)
		return nil, ErrNotReady
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}

// DetectFaces detects faces and computes their descriptors.
// Faces are returned in the order the service reports them.
func (c *Client) DetectFaces(ctx context.Context, imageData []byte) ([]Face, error) {
	body, err := c.postMultipartImage(ctx, "/embed/face", imageData)
	if err != nil {
		return nil, err
	}

	var faceResp faceResponse
	if err := json.Unmarshal(body, &faceResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	faces := make([]Face, 0, len(faceResp.Faces))
	for i, det := range faceResp.Faces {
		if det.DetScore < c.minDetScore {
			continue
		}
		if len(det.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding returned for face %d", i)
		}
		box, ok := facematch.BoxFromCorners(det.BBox)
		if !ok {
			return nil, fmt.Errorf("invalid bbox returned for face %d: %v", i, det.BBox)
		}
		faces = append(faces, Face{
			Index:      len(faces),
			Box:        box,
			Descriptor: facematch.Descriptor(det.Embedding),
			Score:      det.DetScore,
		})
	}

	return faces, nil
}

// Ready checks that the service has loaded its models.
// A successful probe is remembered until the service answers 503 again.
func (c *Client) Ready(ctx context.Context) error {
	if c.ready.Load() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotReady, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health status %d", ErrNotReady, resp.StatusCode)
	}

	c.ready.Store(true)
	return nil
}

// WaitReady polls Ready until it succeeds or ctx is done.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := c.Ready(ctx)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for face service: %w", err)
		case <-ticker.C:
		}
	}
}

// detectMIMEType detects the MIME type from image data
func detectMIMEType(data []byte) string {
	if len(data) < 8 {
		return "application/octet-stream"
	}
	// JPEG: FF D8 FF
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}
	// PNG: 89 50 4E 47 0D 0A 1A 0A
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	// GIF: 47 49 46 38
	if data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x38 {
		return "image/gif"
	}
	// WebP: 52 49 46 46 ... 57 45 42 50
	if len(data) >= 12 && data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50 {
		return "image/webp"
	}
	// BMP: 42 4D
	if data[0] == 0x42 && data[1] == 0x4D {
		return "image/bmp"
	}
	return "application/octet-stream"
}
