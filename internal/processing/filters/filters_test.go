package filters

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var white = color.RGBA{R: 255, G: 255, B: 255}

func TestOtsuFilterSelectsBetweenModes(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 0, 0, 0), 50, 50, gocv.MatTypeCV8UC1)
	defer img.Close()
	gocv.Rectangle(&img, image.Rect(10, 10, 30, 30), color.RGBA{B: 200}, -1)

	otsu := NewOtsuFilter(54, 255)
	out, err := otsu.Apply(img)
	require.NoError(t, err)
	defer out.Close()

	assert.GreaterOrEqual(t, otsu.Selected(), 30.0)
	assert.Less(t, otsu.Selected(), 200.0)
	assert.Equal(t, uint8(255), out.GetUCharAt(20, 20))
	assert.Equal(t, uint8(0), out.GetUCharAt(0, 0))
	assert.Equal(t, "otsu_threshold", otsu.Name())
}

func TestOtsuFilterRejectsColor(t *testing.T) {
	img := gocv.NewMatWithSize(5, 5, gocv.MatTypeCV8UC3)
	defer img.Close()

	_, err := NewOtsuFilter(0, 255).Apply(img)
	assert.Error(t, err)
}

func TestBinaryFilterIsStrict(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(54, 0, 0, 0), 3, 3, gocv.MatTypeCV8UC1)
	defer img.Close()
	img.SetUCharAt(1, 1, 55)

	out, err := NewBinaryFilter(54).Apply(img)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, uint8(0), out.GetUCharAt(0, 0))
	assert.Equal(t, uint8(255), out.GetUCharAt(1, 1))
}

func TestCloseFilterFillsGap(t *testing.T) {
	img := gocv.NewMatWithSize(40, 40, gocv.MatTypeCV8UC1)
	defer img.Close()
	img.SetTo(gocv.NewScalar(0, 0, 0, 0))
	gocv.Rectangle(&img, image.Rect(5, 10, 18, 30), white, -1)
	gocv.Rectangle(&img, image.Rect(20, 10, 35, 30), white, -1)

	out, err := NewCloseFilter(gocv.MorphEllipse, 7).Apply(img)
	require.NoError(t, err)
	defer out.Close()

	assert.Equal(t, uint8(0), img.GetUCharAt(20, 19))
	assert.Equal(t, uint8(255), out.GetUCharAt(20, 19))
}

func TestDilateErode(t *testing.T) {
	img := gocv.NewMatWithSize(21, 21, gocv.MatTypeCV8UC1)
	defer img.Close()
	img.SetTo(gocv.NewScalar(0, 0, 0, 0))
	img.SetUCharAt(10, 10, 255)

	dilated, err := NewDilateFilter(9).Apply(img)
	require.NoError(t, err)
	defer dilated.Close()
	assert.Equal(t, 81, gocv.CountNonZero(dilated))

	eroded, err := NewErodeFilter(11).Apply(dilated)
	require.NoError(t, err)
	defer eroded.Close()
	assert.Zero(t, gocv.CountNonZero(eroded))

	assert.Equal(t, "dilate_9x9", NewDilateFilter(9).Name())
	assert.Equal(t, "erode_11x11", NewErodeFilter(11).Name())
}

func TestMedianFilter(t *testing.T) {
	img := gocv.NewMatWithSize(9, 9, gocv.MatTypeCV8UC1)
	defer img.Close()
	img.SetTo(gocv.NewScalar(0, 0, 0, 0))
	img.SetUCharAt(4, 4, 255)

	out, err := NewMedianFilter(3).Apply(img)
	require.NoError(t, err)
	defer out.Close()
	assert.Zero(t, gocv.CountNonZero(out))

	_, err = NewMedianFilter(4).Apply(img)
	assert.Error(t, err)
}
