package density

import (
	"math"
	"slices"

	"mastication-analyzer/internal/models"

	"gonum.org/v1/gonum/stat"
)

// DefaultBinSize is the default size range width in mm².
const DefaultBinSize = 0.01

// SizeRanges counts areas per fixed-width range. Ranges start at the bin
// boundary at or below the smallest area and end at the boundary at or above
// the largest; empty ranges are omitted.
func SizeRanges(areas []float64, binSize float64) []models.SizeRange {
	if len(areas) == 0 || binSize <= 0 {
		return nil
	}

	sorted := slices.Clone(areas)
	slices.Sort(sorted)

	lo := math.Floor(sorted[0]/binSize) * binSize
	hi := math.Ceil(sorted[len(sorted)-1]/binSize) * binSize
	bins := int(math.Round((hi - lo) / binSize))
	if bins < 1 {
		bins = 1
	}

	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*binSize
	}

	// gonum bins are half-open; widen the outer edges so the extremes count
	dividers := slices.Clone(edges)
	dividers[0] = math.Min(dividers[0], sorted[0])
	dividers[bins] = math.Nextafter(math.Max(dividers[bins], sorted[len(sorted)-1]), math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	var out []models.SizeRange
	for i, c := range counts {
		if c == 0 {
			continue
		}
		out = append(out, models.SizeRange{
			Lower: edges[i],
			Upper: edges[i+1],
			Count: int(c),
		})
	}
	return out
}
