package comminution

import (
	"mastication-analyzer/internal/models"

	"gocv.io/x/gocv"
)

// Measure converts contour areas to mm² using the pixel edge length.
// Order follows the contours.
func Measure(contours []models.Contour, pixelSizeMM float64) []models.ParticleMeasurement {
	scale := pixelSizeMM * pixelSizeMM
	out := make([]models.ParticleMeasurement, 0, len(contours))
	for i, c := range contours {
		pv := gocv.NewPointVectorFromPoints(c)
		area := gocv.ContourArea(pv)
		pv.Close()

		out = append(out, models.ParticleMeasurement{
			Index:      i,
			AreaPixels: area,
			AreaMM2:    area * scale,
			Bounds:     c.Bounds(),
		})
	}
	return out
}

// Areas returns the physical areas of the measurements.
func Areas(particles []models.ParticleMeasurement) []float64 {
	areas := make([]float64, len(particles))
	for i, p := range particles {
		areas[i] = p.AreaMM2
	}
	return areas
}
