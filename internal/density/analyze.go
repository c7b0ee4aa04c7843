// Package density summarizes particle-size measurements with percentiles,
// a kernel density curve and fixed-width size ranges.
package density

import (
	"fmt"
	"slices"

	"mastication-analyzer/internal/models"
)

// CurveSamples is the number of points the density curve is sampled at.
const CurveSamples = 500

// Analyze computes D10/D50/D90 and the density curve of areas (mm²).
// Fewer than two measurements fail with models.ErrInsufficientData.
func Analyze(areas []float64) (models.DensityStatistics, error) {
	if len(areas) < 2 {
		return models.DensityStatistics{}, fmt.Errorf("%w: need at least 2 measurements, got %d",
			models.ErrInsufficientData, len(areas))
	}

	sorted := slices.Clone(areas)
	slices.Sort(sorted)

	kde, err := NewKDE(sorted)
	if err != nil {
		return models.DensityStatistics{}, err
	}

	stats := models.DensityStatistics{
		Count:     len(sorted),
		D10:       Percentile(sorted, 10),
		D50:       Percentile(sorted, 50),
		D90:       Percentile(sorted, 90),
		Bandwidth: kde.Bandwidth(),
		Curve:     kde.Evaluate(sorted[0], sorted[len(sorted)-1], CurveSamples),
	}
	stats.Markers = []models.PercentileMarker{
		{Label: "D10", Value: stats.D10, Density: kde.Density(stats.D10)},
		{Label: "D50", Value: stats.D50, Density: kde.Density(stats.D50)},
		{Label: "D90", Value: stats.D90, Density: kde.Density(stats.D90)},
	}
	return stats, nil
}
