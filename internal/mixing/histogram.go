package mixing

import (
	"fmt"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

// Histograms returns the normalized hue (180 bins), saturation and value
// (256 bins each) histograms of frame pixels selected by mask. With an empty
// mask every bin is zero.
func Histograms(frame, mask gocv.Mat) (models.HSVHistograms, error) {
	if err := imaging.ValidateFrame(frame, "hsv histogram"); err != nil {
		return models.HSVHistograms{}, err
	}
	if err := imaging.ValidateMask(mask, frame.Rows(), frame.Cols(), "hsv histogram"); err != nil {
		return models.HSVHistograms{}, err
	}

	hsv := ToHSV(frame)
	defer hsv.Close()

	hue, err := channelHistogram(hsv, 0, mask, 180, 180)
	if err != nil {
		return models.HSVHistograms{}, err
	}
	sat, err := channelHistogram(hsv, 1, mask, 256, 256)
	if err != nil {
		return models.HSVHistograms{}, err
	}
	val, err := channelHistogram(hsv, 2, mask, 256, 256)
	if err != nil {
		return models.HSVHistograms{}, err
	}

	return models.HSVHistograms{Hue: hue, Saturation: sat, Value: val}, nil
}

func channelHistogram(hsv gocv.Mat, ch int, mask gocv.Mat, bins int, upper float64) ([]float64, error) {
	hist := gocv.NewMat()
	defer hist.Close()

	if err := gocv.CalcHist([]gocv.Mat{hsv}, []int{ch}, mask, &hist, []int{bins}, []float64{0, upper}, false); err != nil {
		return nil, fmt.Errorf("histogram of channel %d failed: %w", ch, err)
	}

	out := make([]float64, bins)
	total := 0.0
	for i := range out {
		out[i] = float64(hist.GetFloatAt(i, 0))
		total += out[i]
	}
	if total > 0 {
		for i := range out {
			out[i] /= total
		}
	}
	return out, nil
}
