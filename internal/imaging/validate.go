package imaging

import (
	"fmt"

	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

// MaxDimension bounds frame width and height.
const MaxDimension = 32768

// ValidateFrame checks that mat is a non-empty 8-bit, 3-channel BGR raster.
func ValidateFrame(mat gocv.Mat, operation string) error {
	if mat.Empty() {
		return fmt.Errorf("%w: frame is empty for operation: %s", models.ErrInvalidImageFormat, operation)
	}
	if err := validateDimensions(mat.Cols(), mat.Rows(), operation); err != nil {
		return err
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: %s requires an 8-bit 3-channel frame, got %d channels (type %d)",
			models.ErrInvalidImageFormat, operation, mat.Channels(), int(mat.Type()))
	}
	return nil
}

// ValidateMask checks that mask is an 8-bit single-channel raster of the
// given size.
func ValidateMask(mask gocv.Mat, rows, cols int, operation string) error {
	if mask.Empty() {
		return fmt.Errorf("%w: mask is empty for operation: %s", models.ErrInvalidImageFormat, operation)
	}
	if mask.Type() != gocv.MatTypeCV8UC1 {
		return fmt.Errorf("%w: %s requires an 8-bit single-channel mask, got %d channels (type %d)",
			models.ErrInvalidImageFormat, operation, mask.Channels(), int(mask.Type()))
	}
	if mask.Rows() != rows || mask.Cols() != cols {
		return fmt.Errorf("%w: mask %dx%d does not match frame %dx%d for operation: %s",
			models.ErrInvalidImageFormat, mask.Cols(), mask.Rows(), cols, rows, operation)
	}
	return nil
}

// ValidateKernelSize checks that size is a positive odd kernel dimension.
func ValidateKernelSize(size int, name string) error {
	if size < 1 || size%2 == 0 {
		return fmt.Errorf("%s must be a positive odd number, got: %d", name, size)
	}
	return nil
}

func validateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d for operation: %s",
			models.ErrInvalidImageFormat, width, height, operation)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: dimensions %dx%d exceed maximum size for operation: %s",
			models.ErrInvalidImageFormat, width, height, operation)
	}
	return nil
}
