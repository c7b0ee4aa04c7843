// Package mixing segments the chewed sample inside the small disk and
// measures how uniformly its colors are mixed.
package mixing

import (
	"fmt"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/models"
	"mastication-analyzer/internal/processing/chain"
	"mastication-analyzer/internal/processing/filters"
	"mastication-analyzer/internal/roi"

	"gocv.io/x/gocv"
)

// Segmentation is the sample mask of one frame in frame coordinates.
type Segmentation struct {
	Mask      gocv.Mat
	Circle    models.Circle
	DiskFound bool
	Threshold float64
}

// Close releases the mask.
func (s *Segmentation) Close() {
	if s == nil {
		return
	}
	s.Mask.Close()
}

// Segment separates the sample from the holder by saturation. When the disk
// cannot be located the whole frame is used as the region instead of failing.
func Segment(frame gocv.Mat, cfg Config) (*Segmentation, error) {
	if err := imaging.ValidateFrame(frame, "mixing segmentation"); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mixing config: %w", err)
	}

	disk, circle, found, err := roi.MaskOrFull(frame, cfg.ROI)
	if err != nil {
		return nil, err
	}
	defer disk.Close()

	masked := imaging.ApplyMask(frame, disk)
	defer masked.Close()

	saturation := saturationChannel(masked)
	defer saturation.Close()

	otsu := filters.NewOtsuFilter(cfg.SaturationLower, cfg.SaturationUpper)
	pipeline := chain.NewProcessingChain(
		filters.NewMedianFilter(cfg.MedianKernelSize),
		otsu,
		filters.NewCloseFilter(gocv.MorphEllipse, cfg.CloseKernelSize),
		filters.NewDilateFilter(cfg.DilateKernelSize),
		filters.NewErodeFilter(cfg.ErodeKernelSize),
	)
	cleaned, err := pipeline.Execute(saturation)
	if err != nil {
		return nil, fmt.Errorf("sample segmentation failed: %w", err)
	}
	defer cleaned.Close()

	// Clip growth beyond the holder, then normalize the foreground to 255
	clipped := imaging.Intersect(cleaned, disk)
	defer clipped.Close()

	return &Segmentation{
		Mask:      imaging.Binarize(clipped),
		Circle:    circle,
		DiskFound: found,
		Threshold: otsu.Selected(),
	}, nil
}

func saturationChannel(bgr gocv.Mat) gocv.Mat {
	hsv := ToHSV(bgr)
	defer hsv.Close()
	return channel(hsv, 1)
}

// ToHSV converts a BGR frame to 8-bit HSV (hue in [0, 180)).
func ToHSV(bgr gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)
	return hsv
}

func channel(src gocv.Mat, index int) gocv.Mat {
	channels := gocv.Split(src)
	for i, ch := range channels {
		if i != index {
			ch.Close()
		}
	}
	return channels[index]
}
