package mixing

import (
	"fmt"
	"math"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// HuePeriod is the period of 8-bit OpenCV hue values in degrees.
const HuePeriod = 180.0

// HueStatistics returns the circular variance of hue samples (degrees on the
// period-180 scale) and its square root. An empty sample fails with
// models.ErrEmptySegmentation.
func HueStatistics(hues []float64) (models.HueStatistics, error) {
	if len(hues) == 0 {
		return models.HueStatistics{}, fmt.Errorf("%w: no hue samples", models.ErrEmptySegmentation)
	}

	cos := make([]float64, len(hues))
	sin := make([]float64, len(hues))
	for i, h := range hues {
		rad := h * 2 * math.Pi / HuePeriod
		cos[i] = math.Cos(rad)
		sin[i] = math.Sin(rad)
	}

	c := stat.Mean(cos, nil)
	s := stat.Mean(sin, nil)
	r := math.Hypot(c, s)

	// Rounding can push R a hair above 1
	voh := math.Min(1, math.Max(0, 1-r))

	return models.HueStatistics{
		Samples: len(hues),
		VOH:     voh,
		SDHue:   math.Sqrt(voh),
	}, nil
}

// MaskedHues returns the hue of every frame pixel selected by mask, in
// row-major order.
func MaskedHues(frame, mask gocv.Mat) ([]float64, error) {
	if err := imaging.ValidateFrame(frame, "hue extraction"); err != nil {
		return nil, err
	}
	if err := imaging.ValidateMask(mask, frame.Rows(), frame.Cols(), "hue extraction"); err != nil {
		return nil, err
	}

	hsv := ToHSV(frame)
	defer hsv.Close()
	hue := channel(hsv, 0)
	defer hue.Close()

	return maskedValues(hue, mask), nil
}

// AnalyzeHue computes hue statistics of frame restricted to mask.
func AnalyzeHue(frame, mask gocv.Mat) (models.HueStatistics, error) {
	hues, err := MaskedHues(frame, mask)
	if err != nil {
		return models.HueStatistics{}, err
	}
	return HueStatistics(hues)
}

func maskedValues(values, mask gocv.Mat) []float64 {
	v := contiguousBytes(values)
	m := contiguousBytes(mask)

	out := make([]float64, 0, gocv.CountNonZero(mask))
	for i, sel := range m {
		if sel != 0 {
			out = append(out, float64(v[i]))
		}
	}
	return out
}

func contiguousBytes(mat gocv.Mat) []byte {
	if mat.IsContinuous() {
		return mat.ToBytes()
	}
	clone := mat.Clone()
	defer clone.Close()
	return clone.ToBytes()
}
