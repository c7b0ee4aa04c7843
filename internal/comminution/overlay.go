package comminution

import (
	"image"
	"image/color"
	"math/rand/v2"
	"strconv"

	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

// ContourColor returns the overlay color of contour i. Colors are drawn from
// [50, 255] per channel and depend only on seed and i.
func ContourColor(seed uint64, i int) color.RGBA {
	rng := rand.New(rand.NewPCG(seed, uint64(i)))
	return color.RGBA{
		R: uint8(50 + rng.IntN(206)),
		G: uint8(50 + rng.IntN(206)),
		B: uint8(50 + rng.IntN(206)),
		A: 0,
	}
}

// DrawOverlay draws each contour, its bounding box and its index label.
func DrawOverlay(img *gocv.Mat, contours []models.Contour, seed uint64) {
	for i, c := range contours {
		if len(c) == 0 {
			continue
		}
		col := ContourColor(seed, i)

		pv := gocv.NewPointsVectorFromPoints([][]image.Point{c})
		gocv.DrawContours(img, pv, -1, col, 2)
		pv.Close()

		box := c.Bounds()
		gocv.Rectangle(img, box, col, 2)
		gocv.PutText(img, strconv.Itoa(i), image.Point{X: box.Min.X, Y: box.Min.Y - 5},
			gocv.FontHersheySimplex, 1.0, col, 2)
	}
}
