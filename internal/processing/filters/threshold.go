package filters

import (
	"fmt"

	"gocv.io/x/gocv"
)

// OtsuFilter binarizes with an automatically selected threshold. The seed is
// passed to OpenCV as the nominal threshold, which Otsu selection overrides;
// foreground pixels receive maxValue.
type OtsuFilter struct {
	seed     float64
	maxValue float64
	selected float64
}

func NewOtsuFilter(seed, maxValue float64) *OtsuFilter {
	return &OtsuFilter{seed: seed, maxValue: maxValue}
}

func (o *OtsuFilter) Name() string {
	return "otsu_threshold"
}

// Selected returns the threshold chosen by the last Apply.
func (o *OtsuFilter) Selected() float64 {
	return o.selected
}

func (o *OtsuFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	if input.Type() != gocv.MatTypeCV8UC1 {
		return gocv.NewMat(), fmt.Errorf("otsu threshold requires an 8-bit single-channel input, got type %d", int(input.Type()))
	}

	result := gocv.NewMat()
	t := gocv.Threshold(input, &result, float32(o.seed), float32(o.maxValue), gocv.ThresholdBinary+gocv.ThresholdOtsu)
	o.selected = float64(t)
	return result, nil
}

// BinaryFilter keeps pixels strictly above a fixed threshold.
type BinaryFilter struct {
	threshold float64
}

func NewBinaryFilter(threshold float64) *BinaryFilter {
	return &BinaryFilter{threshold: threshold}
}

func (b *BinaryFilter) Name() string {
	return "binary_threshold"
}

func (b *BinaryFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	result := gocv.NewMat()
	gocv.Threshold(input, &result, float32(b.threshold), 255, gocv.ThresholdBinary)
	return result, nil
}
