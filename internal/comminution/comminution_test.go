package comminution

import (
	"image"
	"image/color"
	"math"
	"testing"

	"mastication-analyzer/internal/imaging"
	"mastication-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

var (
	holder = color.RGBA{R: 200, G: 200, B: 200}
	food   = color.RGBA{R: 220, G: 40, B: 30}
)

// sampleFrame draws the grey holder disk with filled circular particles.
func sampleFrame(radii ...int) gocv.Mat {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(20, 20, 20, 0), 2600, 2600, gocv.MatTypeCV8UC3)
	gocv.Circle(&frame, image.Pt(1300, 1300), 1170, holder, -1)
	for i, r := range radii {
		center := image.Pt(900+i*250, 1000+(i%2)*400)
		gocv.Circle(&frame, center, r, food, -1)
	}
	return frame
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PixelSizeMM = 50.0 / 1170.0
	cfg.OverlaySeed = 7
	return cfg
}

func TestSegmentEmptyDisk(t *testing.T) {
	frame := sampleFrame()
	defer frame.Close()

	seg, err := Segment(frame, testConfig())
	require.NoError(t, err)
	defer seg.Close()

	assert.Empty(t, seg.Contours)
	assert.Zero(t, imaging.CountNonZero(seg.Mask))
	assert.InDelta(t, 1300, seg.Circle.X, 3)
	assert.InDelta(t, 1170, seg.Circle.Radius, 5)
}

func TestSegmentEmptyDiskClippedByFrame(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(20, 20, 20, 0), 2000, 2000, gocv.MatTypeCV8UC3)
	defer frame.Close()
	gocv.Circle(&frame, image.Pt(1000, 1000), 1170, holder, -1)

	seg, err := Segment(frame, testConfig())
	require.NoError(t, err)
	defer seg.Close()

	assert.InDelta(t, 1000, seg.Circle.X, 3)
	assert.InDelta(t, 1000, seg.Circle.Y, 3)
	assert.InDelta(t, 1170, seg.Circle.Radius, 5)
	assert.Empty(t, seg.Contours)
	assert.Zero(t, imaging.CountNonZero(seg.Mask))

	// the crop window is clipped to the frame
	assert.Equal(t, image.Point{}, seg.Origin)
	assert.Equal(t, 2000, seg.Mask.Rows())
	assert.Equal(t, 2000, seg.Mask.Cols())
	assert.Equal(t, 2000, seg.Annotated.Cols())
}

func TestSegmentSaturatedDiskMasksWholeDisk(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(20, 20, 20, 0), 2600, 2600, gocv.MatTypeCV8UC3)
	defer frame.Close()
	gocv.Circle(&frame, image.Pt(1300, 1300), 1170, food, -1)

	cfg := testConfig()
	seg, err := Segment(frame, cfg)
	require.NoError(t, err)
	defer seg.Close()

	inner := seg.Circle.Shrink(cfg.RimMargin)
	local := models.Circle{X: inner.X - seg.Origin.X, Y: inner.Y - seg.Origin.Y, Radius: inner.Radius}
	disk := imaging.DiskMask(seg.Mask.Rows(), seg.Mask.Cols(), local)
	defer disk.Close()

	assert.Greater(t, overlap(seg.Mask, disk), 0.99)
	assert.Len(t, seg.Contours, 1)
}

func TestSegmentParticles(t *testing.T) {
	frame := sampleFrame(20, 30, 40, 50)
	defer frame.Close()

	seg, err := Segment(frame, testConfig())
	require.NoError(t, err)
	defer seg.Close()

	require.Len(t, seg.Contours, 4)

	inner := seg.Circle.Radius - 10
	assert.InDelta(t, 2*inner, seg.Annotated.Cols(), 2)
	assert.Equal(t, seg.Annotated.Rows(), seg.Mask.Rows())
	assert.Equal(t, seg.Annotated.Cols(), seg.Mask.Cols())
	assert.InDelta(t, seg.Circle.X-inner, seg.Origin.X, 1)

	// contours are in crop coordinates
	for _, c := range seg.Contours {
		b := c.Bounds()
		assert.True(t, b.In(image.Rect(0, 0, seg.Mask.Cols(), seg.Mask.Rows())))
	}
}

func TestAnalyze(t *testing.T) {
	frame := sampleFrame(20, 30, 40, 50)
	defer frame.Close()

	cfg := testConfig()
	res, err := Analyze(frame, cfg)
	require.NoError(t, err)
	defer res.Close()

	require.Len(t, res.Particles, 4)
	assert.Equal(t, 4, res.Statistics.Count)

	scale := cfg.PixelSizeMM * cfg.PixelSizeMM
	var areas []float64
	for _, p := range res.Particles {
		areas = append(areas, p.AreaPixels)
		assert.InDelta(t, p.AreaPixels*scale, p.AreaMM2, 1e-12)
	}
	assert.InEpsilon(t, math.Pi*50*50, maxOf(areas), 0.06)
	assert.InEpsilon(t, math.Pi*20*20, minOf(areas), 0.1)

	assert.LessOrEqual(t, res.Statistics.D10, res.Statistics.D50)
	assert.LessOrEqual(t, res.Statistics.D50, res.Statistics.D90)
	assert.Len(t, res.Statistics.Curve.X, 500)

	total := 0
	for _, r := range res.SizeRanges {
		total += r.Count
	}
	assert.Equal(t, 4, total)
}

func TestAnalyzeTooFewParticles(t *testing.T) {
	frame := sampleFrame(30)
	defer frame.Close()

	_, err := Analyze(frame, testConfig())
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestSegmentRequiresDisk(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(20, 20, 20, 0), 800, 800, gocv.MatTypeCV8UC3)
	defer frame.Close()

	_, err := Segment(frame, testConfig())
	assert.ErrorIs(t, err, models.ErrROINotFound)

	_, err = Analyze(frame, testConfig())
	assert.ErrorIs(t, err, models.ErrROINotFound)
}

func TestMeasure(t *testing.T) {
	square := models.Contour{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	got := Measure([]models.Contour{square}, 0.1)

	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Index)
	assert.InDelta(t, 100, got[0].AreaPixels, 1e-9)
	assert.InDelta(t, 1.0, got[0].AreaMM2, 1e-9)
	assert.Equal(t, image.Rect(0, 0, 11, 11), got[0].Bounds)
	assert.Equal(t, []float64{got[0].AreaMM2}, Areas(got))

	assert.Empty(t, Measure(nil, 0.1))
}

func TestContourColor(t *testing.T) {
	differs := false
	for i := 0; i < 10; i++ {
		a := ContourColor(42, i)
		assert.Equal(t, a, ContourColor(42, i))
		for _, ch := range []uint8{a.R, a.G, a.B} {
			assert.GreaterOrEqual(t, ch, uint8(50))
		}
		if a != ContourColor(43, i) {
			differs = true
		}
	}
	assert.True(t, differs)
}

func TestConfig(t *testing.T) {
	px, err := PixelSize(50, 1170)
	require.NoError(t, err)
	assert.InDelta(t, 0.042735, px, 1e-6)

	_, err = PixelSize(50, 0)
	assert.ErrorIs(t, err, ErrInvalidPixelSize)

	assert.ErrorIs(t, DefaultConfig().Validate(), ErrInvalidPixelSize)
	require.NoError(t, testConfig().Validate())

	cfg := testConfig()
	cfg.RimMargin = cfg.ROI.RadiusMin
	assert.Error(t, cfg.Validate())

	cfg = testConfig()
	cfg.CloseKernelSize = 6
	assert.Error(t, cfg.Validate())
}

func maxOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Max(m, x)
	}
	return m
}

func minOf(v []float64) float64 {
	m := v[0]
	for _, x := range v[1:] {
		m = math.Min(m, x)
	}
	return m
}

// overlap returns the intersection over union of two binary masks.
func overlap(a, b gocv.Mat) float64 {
	inter := imaging.Intersect(a, b)
	defer inter.Close()

	union := gocv.NewMat()
	defer union.Close()
	gocv.BitwiseOr(a, b, &union)

	n := imaging.CountNonZero(union)
	if n == 0 {
		return 0
	}
	return float64(imaging.CountNonZero(inter)) / float64(n)
}
