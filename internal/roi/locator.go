// Package roi locates the circular sample holder in a raw frame.
package roi

import (
	"fmt"
	"math"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

// Locate runs a Hough-circle search over the median-blurred grayscale frame
// and returns the strongest candidate. found is false when no circle in the
// radius range was detected; err is reserved for invalid input.
func Locate(frame gocv.Mat, params Params) (circle models.Circle, found bool, err error) {
	if err := imaging.ValidateFrame(frame, "disk location"); err != nil {
		return models.Circle{}, false, err
	}
	if err := params.Validate(); err != nil {
		return models.Circle{}, false, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)

	// Median blur suppresses sensor noise before gradient voting
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.MedianBlur(gray, &blurred, params.BlurKernelSize)

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(
		blurred,
		&circles,
		gocv.HoughGradient,
		params.DP,
		params.MinDist,
		params.Param1,
		params.Param2,
		params.RadiusMin,
		params.RadiusMax,
	)

	if circles.Empty() || circles.Cols() == 0 {
		return models.Circle{}, false, nil
	}

	// Candidates are ordered by accumulator strength
	v := circles.GetVecfAt(0, 0)
	if len(v) < 3 {
		return models.Circle{}, false, nil
	}

	return models.Circle{
		X:      int(math.Round(float64(v[0]))),
		Y:      int(math.Round(float64(v[1]))),
		Radius: int(math.Round(float64(v[2]))),
	}, true, nil
}

// Require is Locate for callers that cannot proceed without the disk.
func Require(frame gocv.Mat, params Params) (models.Circle, error) {
	circle, found, err := Locate(frame, params)
	if err != nil {
		return models.Circle{}, err
	}
	if !found {
		return models.Circle{}, fmt.Errorf("%w: no circle with radius in [%d, %d] px",
			models.ErrROINotFound, params.RadiusMin, params.RadiusMax)
	}
	return circle, nil
}

// MaskOrFull returns the disk mask for the located circle, or a full-frame
// mask when the search found nothing.
func MaskOrFull(frame gocv.Mat, params Params) (mask gocv.Mat, circle models.Circle, found bool, err error) {
	circle, found, err = Locate(frame, params)
	if err != nil {
		return gocv.NewMat(), models.Circle{}, false, err
	}
	if !found {
		return imaging.FullMask(frame.Rows(), frame.Cols()), models.Circle{}, false, nil
	}
	return imaging.DiskMask(frame.Rows(), frame.Cols(), circle), circle, true, nil
}
