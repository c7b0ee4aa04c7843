package device

import (
	"context"
	"fmt"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

// FrameSource produces one BGR frame per call. The caller owns the frame.
type FrameSource interface {
	Capture(ctx context.Context) (gocv.Mat, error)
	Close() error
}

// FileSource reads a saved frame from disk on every capture.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Capture(ctx context.Context) (gocv.Mat, error) {
	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}
	return LoadFrame(f.Path)
}

func (f *FileSource) Close() error {
	return nil
}

// LoadFrame reads an image file as an 8-bit BGR frame.
func LoadFrame(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("%w: cannot read image %s", models.ErrInvalidImageFormat, path)
	}
	if err := imaging.ValidateFrame(mat, "load "+path); err != nil {
		mat.Close()
		return gocv.NewMat(), err
	}
	return mat, nil
}

// SaveFrame writes mat to path; the format follows the file extension.
func SaveFrame(path string, mat gocv.Mat) error {
	if mat.Empty() {
		return fmt.Errorf("cannot save empty image to %s", path)
	}
	if ok := gocv.IMWrite(path, mat); !ok {
		return fmt.Errorf("failed to write image %s", path)
	}
	return nil
}

// CameraSettings configures the capture device.
type CameraSettings struct {
	Device       int
	Width        int
	Height       int
	ExposureTime float64 // microseconds
	ExposureAuto bool
	Gain         float64
	GainAuto     bool
}

// DefaultCameraSettings matches the rig's industrial camera.
func DefaultCameraSettings() CameraSettings {
	return CameraSettings{
		Width:        4200,
		Height:       2160,
		ExposureTime: 5000,
		ExposureAuto: false,
		Gain:         0,
		GainAuto:     false,
	}
}

// CameraSource grabs frames from a video capture device.
type CameraSource struct {
	capture  *gocv.VideoCapture
	settings CameraSettings
}

// OpenCamera opens the device and applies settings.
func OpenCamera(settings CameraSettings) (*CameraSource, error) {
	vc, err := gocv.OpenVideoCapture(settings.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", settings.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: camera %d is not available", ErrCaptureFailed, settings.Device)
	}

	cs := &CameraSource{capture: vc, settings: settings}
	cs.apply()
	return cs, nil
}

func (c *CameraSource) apply() {
	s := c.settings
	if s.Width > 0 {
		c.capture.Set(gocv.VideoCaptureFrameWidth, float64(s.Width))
	}
	if s.Height > 0 {
		c.capture.Set(gocv.VideoCaptureFrameHeight, float64(s.Height))
	}
	// V4L2 convention: 0.75 enables auto exposure, 0.25 selects manual
	if s.ExposureAuto {
		c.capture.Set(gocv.VideoCaptureAutoExposure, 0.75)
	} else {
		c.capture.Set(gocv.VideoCaptureAutoExposure, 0.25)
		c.capture.Set(gocv.VideoCaptureExposure, s.ExposureTime)
	}
	if !s.GainAuto {
		c.capture.Set(gocv.VideoCaptureGain, s.Gain)
	}
}

// Capture grabs one frame.
func (c *CameraSource) Capture(ctx context.Context) (gocv.Mat, error) {
	if err := ctx.Err(); err != nil {
		return gocv.NewMat(), err
	}

	frame := gocv.NewMat()
	if ok := c.capture.Read(&frame); !ok || frame.Empty() {
		frame.Close()
		return gocv.NewMat(), fmt.Errorf("%w: camera %d returned no frame", ErrCaptureFailed, c.settings.Device)
	}
	if err := imaging.ValidateFrame(frame, "camera capture"); err != nil {
		frame.Close()
		return gocv.NewMat(), err
	}
	return frame, nil
}

func (c *CameraSource) Close() error {
	return c.capture.Close()
}
