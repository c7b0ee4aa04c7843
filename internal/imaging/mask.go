package imaging

import (
	"image"
	"image/color"

	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 0}

// Zeros returns a zero-filled matrix.
func Zeros(rows, cols int, matType gocv.MatType) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, matType)
}

// FullMask returns a mask with every pixel included.
func FullMask(rows, cols int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), rows, cols, gocv.MatTypeCV8UC1)
}

// DiskMask returns a rows x cols mask with the filled circle set to 255.
func DiskMask(rows, cols int, c models.Circle) gocv.Mat {
	mask := Zeros(rows, cols, gocv.MatTypeCV8UC1)
	if c.Radius > 0 {
		gocv.Circle(&mask, c.Center(), c.Radius, white, -1)
	}
	return mask
}

// ApplyMask copies the pixels of src selected by mask into a new zeroed
// matrix of the same type.
func ApplyMask(src, mask gocv.Mat) gocv.Mat {
	dst := Zeros(src.Rows(), src.Cols(), src.Type())
	src.CopyToWithMask(&dst, mask)
	return dst
}

// Intersect returns the pixelwise AND of two masks.
func Intersect(a, b gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.BitwiseAnd(a, b, &dst)
	return dst
}

// Binarize maps every non-zero mask value to 255.
func Binarize(mask gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Threshold(mask, &dst, 0, 255, gocv.ThresholdBinary)
	return dst
}

// CountNonZero returns the number of included mask pixels.
func CountNonZero(mask gocv.Mat) int {
	if mask.Empty() {
		return 0
	}
	return gocv.CountNonZero(mask)
}

// IsSubset reports whether every pixel included in a is also included in b.
func IsSubset(a, b gocv.Mat) bool {
	outside := gocv.NewMat()
	defer outside.Close()
	inverted := gocv.NewMat()
	defer inverted.Close()

	gocv.BitwiseNot(b, &inverted)
	gocv.BitwiseAnd(a, inverted, &outside)
	return gocv.CountNonZero(outside) == 0
}

// Crop copies the circle's clipped bounding box out of frame, blacks out
// pixels outside the circle, and returns the crop, the circle mask in crop
// coordinates and the crop origin in frame coordinates.
func Crop(frame gocv.Mat, c models.Circle) (crop, mask gocv.Mat, origin image.Point) {
	bounds := c.Bounds(image.Rect(0, 0, frame.Cols(), frame.Rows()))
	region := frame.Region(bounds)
	defer region.Close()

	local := models.Circle{X: c.X - bounds.Min.X, Y: c.Y - bounds.Min.Y, Radius: c.Radius}
	mask = DiskMask(bounds.Dy(), bounds.Dx(), local)
	crop = ApplyMask(region, mask)
	return crop, mask, bounds.Min
}
