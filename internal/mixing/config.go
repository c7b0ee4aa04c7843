package mixing

import (
	"fmt"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/roi"
)

// Config holds the mixing segmentation parameters.
type Config struct {
	ROI roi.Params

	// Otsu seed and foreground value for the saturation threshold
	SaturationLower float64
	SaturationUpper float64

	MedianKernelSize int
	CloseKernelSize  int

	// Erode uses the larger kernel so the final mask sits slightly inside
	// the dilated one.
	DilateKernelSize int
	ErodeKernelSize  int
}

// DefaultConfig returns the parameters tuned for the small sample disk.
func DefaultConfig() Config {
	return Config{
		ROI:              roi.SmallDiskParams(),
		SaturationLower:  54,
		SaturationUpper:  255,
		MedianKernelSize: 3,
		CloseKernelSize:  25,
		DilateKernelSize: 9,
		ErodeKernelSize:  11,
	}
}

// Validate checks the segmentation parameters.
func (c Config) Validate() error {
	if err := c.ROI.Validate(); err != nil {
		return fmt.Errorf("roi: %w", err)
	}
	if c.SaturationLower < 0 || c.SaturationUpper > 255 || c.SaturationLower >= c.SaturationUpper {
		return fmt.Errorf("saturation bounds must satisfy 0 <= lower < upper <= 255, got: lower=%g, upper=%g",
			c.SaturationLower, c.SaturationUpper)
	}
	kernels := []struct {
		name string
		size int
	}{
		{"median_kernel_size", c.MedianKernelSize},
		{"morph_kernel_size", c.CloseKernelSize},
		{"dilate_kernel_size", c.DilateKernelSize},
		{"erode_kernel_size", c.ErodeKernelSize},
	}
	for _, k := range kernels {
		if err := imaging.ValidateKernelSize(k.size, k.name); err != nil {
			return err
		}
	}
	return nil
}
