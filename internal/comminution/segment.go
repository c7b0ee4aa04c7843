// Package comminution segments ground particles inside the large sample
// disk and converts them into size measurements.
package comminution

import (
	"fmt"
	"image"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/models"
	"mastication-analyzer/internal/processing/chain"
	"mastication-analyzer/internal/processing/filters"
	"mastication-analyzer/internal/roi"

	"gocv.io/x/gocv"
)

// Segmentation is the particle segmentation of one frame. Annotated and Mask
// are in crop coordinates; Origin locates the crop in the frame.
type Segmentation struct {
	Annotated gocv.Mat
	Mask      gocv.Mat
	Contours  []models.Contour
	Circle    models.Circle
	Origin    image.Point
	Threshold float64
}

// Close releases the segmentation rasters.
func (s *Segmentation) Close() {
	if s == nil {
		return
	}
	s.Annotated.Close()
	s.Mask.Close()
}

// FrameContours returns the contours shifted from crop to frame coordinates.
func (s *Segmentation) FrameContours() []models.Contour {
	out := make([]models.Contour, len(s.Contours))
	for i, c := range s.Contours {
		out[i] = c.Translate(s.Origin)
	}
	return out
}

// Segment locates the sample disk, binarizes particles on the saturation
// channel and extracts their outer contours. A frame without a detectable
// disk fails with models.ErrROINotFound. Zero particles is a valid result.
func Segment(frame gocv.Mat, cfg Config) (*Segmentation, error) {
	if err := imaging.ValidateFrame(frame, "particle segmentation"); err != nil {
		return nil, err
	}
	if err := cfg.validateSegmentation(); err != nil {
		return nil, err
	}

	circle, err := roi.Require(frame, cfg.ROI)
	if err != nil {
		return nil, err
	}
	inner := circle.Shrink(cfg.RimMargin)
	if inner.Radius <= 0 {
		return nil, fmt.Errorf("%w: disk radius %d px leaves nothing inside a %d px rim",
			models.ErrROINotFound, circle.Radius, cfg.RimMargin)
	}

	threshold, err := diskSaturationThreshold(frame, inner, cfg.SaturationSeed)
	if err != nil {
		return nil, err
	}

	crop, cropMask, origin := imaging.Crop(frame, inner)
	defer cropMask.Close()

	mask, err := binarizeCrop(crop, cropMask, threshold, cfg.CloseKernelSize)
	if err != nil {
		crop.Close()
		return nil, err
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxNone)
	found := contours.ToPoints()
	contours.Close()

	seg := &Segmentation{
		Annotated: crop,
		Mask:      mask,
		Contours:  make([]models.Contour, len(found)),
		Circle:    circle,
		Origin:    origin,
		Threshold: threshold,
	}
	for i, pts := range found {
		seg.Contours[i] = models.Contour(pts)
	}

	DrawOverlay(&seg.Annotated, seg.Contours, cfg.OverlaySeed)
	return seg, nil
}

// diskSaturationThreshold selects the Otsu threshold of the saturation
// channel over the full frame with everything outside the disk zeroed.
func diskSaturationThreshold(frame gocv.Mat, disk models.Circle, seed float64) (float64, error) {
	diskMask := imaging.DiskMask(frame.Rows(), frame.Cols(), disk)
	defer diskMask.Close()

	saturation := saturationChannel(frame)
	defer saturation.Close()

	masked := imaging.ApplyMask(saturation, diskMask)
	defer masked.Close()

	otsu := filters.NewOtsuFilter(seed, 255)
	binary, err := otsu.Apply(masked)
	if err != nil {
		return 0, fmt.Errorf("saturation threshold failed: %w", err)
	}
	binary.Close()

	return otsu.Selected(), nil
}

// binarizeCrop thresholds the crop's saturation, clips it to the disk and
// closes small gaps between fragments of one particle.
func binarizeCrop(crop, cropMask gocv.Mat, threshold float64, closeKernel int) (gocv.Mat, error) {
	saturation := saturationChannel(crop)
	defer saturation.Close()

	binary, err := filters.NewBinaryFilter(threshold).Apply(saturation)
	if err != nil {
		return gocv.NewMat(), err
	}
	defer binary.Close()

	clipped := imaging.Intersect(binary, cropMask)
	defer clipped.Close()

	cleanup := chain.NewProcessingChain(
		filters.NewCloseFilter(gocv.MorphEllipse, closeKernel),
	)
	mask, err := cleanup.Execute(clipped)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("mask cleanup failed: %w", err)
	}
	return mask, nil
}

func saturationChannel(bgr gocv.Mat) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	channels := gocv.Split(hsv)
	for i, ch := range channels {
		if i != 1 {
			ch.Close()
		}
	}
	return channels[1]
}
