package comminution

import (
	"errors"
	"fmt"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/roi"
)

// ErrInvalidPixelSize is returned when the physical scale is not positive.
var ErrInvalidPixelSize = errors.New("invalid pixel size")

// Config holds the comminution pipeline parameters.
type Config struct {
	ROI roi.Params

	// RimMargin shrinks the located disk to keep the holder rim out of
	// the analysis.
	RimMargin int

	// SaturationSeed is the nominal saturation threshold handed to Otsu.
	SaturationSeed float64

	// CloseKernelSize is the elliptical closing kernel merging fragments of
	// one particle.
	CloseKernelSize int

	// PixelSizeMM is the edge length of one pixel in millimetres
	// (reference disk radius in mm over its radius in px).
	PixelSizeMM float64

	// OverlaySeed makes contour overlay colors reproducible.
	OverlaySeed uint64

	// RangeBinSize is the width in mm² of each particle size range.
	RangeBinSize float64
}

// DefaultConfig returns the parameters tuned for the large sample disk.
// PixelSizeMM must still be supplied from the disk reference.
func DefaultConfig() Config {
	return Config{
		ROI:             roi.LargeDiskParams(),
		RimMargin:       10,
		SaturationSeed:  54,
		CloseKernelSize: 7,
		RangeBinSize:    0.01,
	}
}

// PixelSize derives the pixel edge length from a reference disk.
func PixelSize(radiusMM, radiusPX float64) (float64, error) {
	if radiusMM <= 0 || radiusPX <= 0 {
		return 0, fmt.Errorf("%w: radius_mm=%g, radius_px=%g", ErrInvalidPixelSize, radiusMM, radiusPX)
	}
	return radiusMM / radiusPX, nil
}

// Validate checks the pipeline parameters.
func (c Config) Validate() error {
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if c.PixelSizeMM <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidPixelSize, c.PixelSizeMM)
	}
	if c.RangeBinSize <= 0 {
		return fmt.Errorf("range bin size must be positive, got: %g", c.RangeBinSize)
	}
	return nil
}

func (c Config) validateSegmentation() error {
	if err := c.ROI.Validate(); err != nil {
		return fmt.Errorf("roi: %w", err)
	}
	if c.RimMargin < 0 || c.RimMargin >= c.ROI.RadiusMin {
		return fmt.Errorf("rim_margin must be in [0, %d), got: %d", c.ROI.RadiusMin, c.RimMargin)
	}
	if c.SaturationSeed < 0 || c.SaturationSeed > 255 {
		return fmt.Errorf("saturation_threshold_seed must be between 0 and 255, got: %g", c.SaturationSeed)
	}
	return imaging.ValidateKernelSize(c.CloseKernelSize, "morph_kernel_size")
}
