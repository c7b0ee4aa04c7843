package device

import (
	"context"
	"path/filepath"
	"testing"

	"mastication-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestSaveAndLoadFrame(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 20, 30, 0), 40, 60, gocv.MatTypeCV8UC3)
	defer frame.Close()

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, SaveFrame(path, frame))

	got, err := LoadFrame(path)
	require.NoError(t, err)
	defer got.Close()

	assert.Equal(t, 40, got.Rows())
	assert.Equal(t, 60, got.Cols())
	assert.Equal(t, []uint8{10, 20, 30}, []uint8{got.GetUCharAt3(5, 5, 0), got.GetUCharAt3(5, 5, 1), got.GetUCharAt3(5, 5, 2)})
}

func TestSaveEmptyFrame(t *testing.T) {
	empty := gocv.NewMat()
	defer empty.Close()

	assert.Error(t, SaveFrame(filepath.Join(t.TempDir(), "x.png"), empty))
}

func TestLoadFrameMissing(t *testing.T) {
	_, err := LoadFrame(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, models.ErrInvalidImageFormat)
}

func TestFileSource(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 255, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer frame.Close()
	path := filepath.Join(t.TempDir(), "saved.png")
	require.NoError(t, SaveFrame(path, frame))

	var src FrameSource = NewFileSource(path)
	defer src.Close()

	for range 2 {
		got, err := src.Capture(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint8(255), got.GetUCharAt3(0, 0, 2))
		got.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := src.Capture(ctx)
	defer got.Close()
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, got.Empty())
}
