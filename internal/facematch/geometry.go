package facematch

// Box is a face bounding box in pixels of the original photo.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// BoxFromCorners converts a detector bbox [x1, y1, x2, y2] into a Box.
// ok is false for malformed input.
func BoxFromCorners(bbox []float64) (Box, bool) {
	if len(bbox) != 4 || bbox[2] < bbox[0] || bbox[3] < bbox[1] {
		return Box{}, false
	}
	return Box{
		X:      bbox[0],
		Y:      bbox[1],
		Width:  bbox[2] - bbox[0],
		Height: bbox[3] - bbox[1],
	}, true
}

// Scale multiplies every coordinate by factor.
// Used to map boxes detected on a downscaled photo back to the original geometry.
func (b Box) Scale(factor float64) Box {
	if factor <= 0 || factor == 1 {
		return b
	}
	return Box{
		X:      b.X * factor,
		Y:      b.Y * factor,
		Width:  b.Width * factor,
		Height: b.Height * factor,
	}
}

