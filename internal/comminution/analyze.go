package comminution

import (
	"fmt"

	"mastication-analyzer/internal/density"
	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

// Result is a complete comminution analysis of one frame.
type Result struct {
	*Segmentation
	Particles  []models.ParticleMeasurement
	Statistics models.DensityStatistics
	SizeRanges []models.SizeRange
}

// Analyze segments frame, measures every particle and summarizes the size
// distribution. Nothing is returned alongside an error.
func Analyze(frame gocv.Mat, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comminution config: %w", err)
	}

	seg, err := Segment(frame, cfg)
	if err != nil {
		return nil, err
	}

	particles := Measure(seg.Contours, cfg.PixelSizeMM)
	areas := Areas(particles)

	stats, err := density.Analyze(areas)
	if err != nil {
		seg.Close()
		return nil, fmt.Errorf("particle size analysis failed: %w", err)
	}

	return &Result{
		Segmentation: seg,
		Particles:    particles,
		Statistics:   stats,
		SizeRanges:   density.SizeRanges(areas, cfg.RangeBinSize),
	}, nil
}
