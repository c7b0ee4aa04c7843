package mixing

import (
	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

// Result is a complete mixing analysis of one frame. Masked is the frame
// with everything outside the sample blacked out; HSV is its HSV rendition.
type Result struct {
	*Segmentation
	Masked     gocv.Mat
	HSV        gocv.Mat
	Pixels     int
	Hue        models.HueStatistics
	Histograms models.HSVHistograms
}

// Close releases every raster of the result.
func (r *Result) Close() {
	if r == nil {
		return
	}
	r.Segmentation.Close()
	r.Masked.Close()
	r.HSV.Close()
}

// Analyze segments the sample and computes its hue dispersion and HSV
// histograms. An empty segmentation fails with models.ErrEmptySegmentation.
func Analyze(frame gocv.Mat, cfg Config) (*Result, error) {
	seg, err := Segment(frame, cfg)
	if err != nil {
		return nil, err
	}

	hue, err := AnalyzeHue(frame, seg.Mask)
	if err != nil {
		seg.Close()
		return nil, err
	}

	hist, err := Histograms(frame, seg.Mask)
	if err != nil {
		seg.Close()
		return nil, err
	}

	masked := imaging.ApplyMask(frame, seg.Mask)
	return &Result{
		Segmentation: seg,
		Masked:       masked,
		HSV:          ToHSV(masked),
		Pixels:       imaging.CountNonZero(seg.Mask),
		Hue:          hue,
		Histograms:   hist,
	}, nil
}
