package filters

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// MorphologyFilter applies one morphological operation with a square
// structuring element of the given shape.
type MorphologyFilter struct {
	name  string
	op    gocv.MorphType
	shape gocv.MorphShape
	size  int
}

// NewCloseFilter closes gaps smaller than the kernel.
func NewCloseFilter(shape gocv.MorphShape, size int) *MorphologyFilter {
	return &MorphologyFilter{name: "morph_close", op: gocv.MorphClose, shape: shape, size: size}
}

// NewDilateFilter dilates with a size x size rectangular kernel, one iteration.
func NewDilateFilter(size int) *MorphologyFilter {
	return &MorphologyFilter{name: "dilate", op: gocv.MorphDilate, shape: gocv.MorphRect, size: size}
}

// NewErodeFilter erodes with a size x size rectangular kernel, one iteration.
func NewErodeFilter(size int) *MorphologyFilter {
	return &MorphologyFilter{name: "erode", op: gocv.MorphErode, shape: gocv.MorphRect, size: size}
}

func (m *MorphologyFilter) Name() string {
	return fmt.Sprintf("%s_%dx%d", m.name, m.size, m.size)
}

func (m *MorphologyFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	if m.size < 1 {
		return gocv.NewMat(), fmt.Errorf("invalid kernel size: %d", m.size)
	}

	kernel := gocv.GetStructuringElement(m.shape, image.Point{X: m.size, Y: m.size})
	defer kernel.Close()

	result := gocv.NewMat()
	switch m.op {
	case gocv.MorphDilate:
		gocv.Dilate(input, &result, kernel)
	case gocv.MorphErode:
		gocv.Erode(input, &result, kernel)
	default:
		gocv.MorphologyEx(input, &result, m.op, kernel)
	}
	return result, nil
}

// MedianFilter smooths with a size x size median kernel.
type MedianFilter struct {
	size int
}

func NewMedianFilter(size int) *MedianFilter {
	return &MedianFilter{size: size}
}

func (m *MedianFilter) Name() string {
	return fmt.Sprintf("median_%d", m.size)
}

func (m *MedianFilter) Apply(input gocv.Mat) (gocv.Mat, error) {
	if m.size < 1 || m.size%2 == 0 {
		return gocv.NewMat(), fmt.Errorf("median kernel size must be odd, got: %d", m.size)
	}

	result := gocv.NewMat()
	gocv.MedianBlur(input, &result, m.size)
	return result, nil
}
