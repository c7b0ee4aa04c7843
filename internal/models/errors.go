package models

import "errors"

// Analysis errors shared by the pipelines. Callers match them with errors.Is;
// the returned errors wrap them with the offending values.
var (
	// ErrROINotFound is returned when the sample disk must be located and the
	// Hough search produced no candidate.
	ErrROINotFound = errors.New("sample disk not found")

	// ErrInsufficientData is returned when fewer than two measurements are
	// available for percentile and density estimation.
	ErrInsufficientData = errors.New("insufficient measurement data")

	// ErrEmptySegmentation is returned when a mask selects zero pixels.
	ErrEmptySegmentation = errors.New("segmentation selected no pixels")

	// ErrInvalidImageFormat is returned for frames or masks with an
	// unsupported shape, depth or channel count.
	ErrInvalidImageFormat = errors.New("invalid image format")
)
