package roi

import (
	"errors"
	"fmt"
)

// ErrInvalidRadiusRange is returned when the Hough radius bounds are unusable.
var ErrInvalidRadiusRange = errors.New("invalid radius range")

// Params configures the Hough-circle disk search.
type Params struct {
	RadiusMin int `yaml:"radius_min"`
	RadiusMax int `yaml:"radius_max"`

	// Hough gradient tuning
	DP      float64 `yaml:"dp"`       // inverse accumulator resolution
	MinDist float64 `yaml:"min_dist"` // minimum distance between centers
	Param1  float64 `yaml:"param1"`   // Canny high threshold
	Param2  float64 `yaml:"param2"`   // accumulator threshold

	BlurKernelSize int `yaml:"blur_kernel_size"`
}

// LargeDiskParams returns the search used for the comminution holder.
func LargeDiskParams() Params {
	return Params{
		RadiusMin:      1150,
		RadiusMax:      1200,
		DP:             1,
		MinDist:        120,
		Param1:         50,
		Param2:         51,
		BlurKernelSize: 5,
	}
}

// SmallDiskParams returns the search used for the mixing holder.
func SmallDiskParams() Params {
	p := LargeDiskParams()
	p.RadiusMin = 730
	p.RadiusMax = 800
	return p
}

// WithRadiusRange returns a copy of p searching [minR, maxR] pixels.
func (p Params) WithRadiusRange(minR, maxR int) Params {
	p.RadiusMin = minR
	p.RadiusMax = maxR
	return p
}

// Validate checks the search parameters.
func (p Params) Validate() error {
	if p.RadiusMin <= 0 || p.RadiusMax <= 0 || p.RadiusMin >= p.RadiusMax {
		return fmt.Errorf("%w: min=%d, max=%d", ErrInvalidRadiusRange, p.RadiusMin, p.RadiusMax)
	}
	if p.DP <= 0 {
		return fmt.Errorf("dp must be positive, got: %g", p.DP)
	}
	if p.MinDist <= 0 {
		return fmt.Errorf("min_dist must be positive, got: %g", p.MinDist)
	}
	if p.Param1 <= 0 || p.Param2 <= 0 {
		return fmt.Errorf("hough thresholds must be positive, got: param1=%g, param2=%g", p.Param1, p.Param2)
	}
	if p.BlurKernelSize < 1 || p.BlurKernelSize%2 == 0 {
		return fmt.Errorf("blur_kernel_size must be a positive odd number, got: %d", p.BlurKernelSize)
	}
	return nil
}
