package density

import (
	"fmt"
	"math"

	"mastication-analyzer/internal/models"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// KDE is a one-dimensional Gaussian kernel density estimate with Scott's
// rule-of-thumb bandwidth.
type KDE struct {
	samples   []float64
	bandwidth float64
}

// NewKDE fits a KDE to samples. At least two samples with non-zero spread
// are required.
func NewKDE(samples []float64) (*KDE, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: kernel density needs at least 2 samples, got %d", models.ErrInsufficientData, n)
	}

	std := stat.StdDev(samples, nil)
	if std == 0 || math.IsNaN(std) {
		return nil, fmt.Errorf("%w: samples have zero spread", models.ErrInsufficientData)
	}

	// Scott's factor n^(-1/5) scales the unbiased sample deviation
	factor := math.Pow(float64(n), -0.2)

	return &KDE{
		samples:   append([]float64(nil), samples...),
		bandwidth: std * factor,
	}, nil
}

// Bandwidth returns the kernel standard deviation.
func (k *KDE) Bandwidth() float64 {
	return k.bandwidth
}

// Density evaluates the estimate at x.
func (k *KDE) Density(x float64) float64 {
	sum := 0.0
	for _, s := range k.samples {
		sum += distuv.UnitNormal.Prob((x - s) / k.bandwidth)
	}
	return sum / (float64(len(k.samples)) * k.bandwidth)
}

// Evaluate samples the estimate at n evenly spaced points over [lo, hi].
func (k *KDE) Evaluate(lo, hi float64, n int) models.DensityCurve {
	xs := floats.Span(make([]float64, n), lo, hi)
	ys := make([]float64, n)
	for i, x := range xs {
		ys[i] = k.Density(x)
	}
	return models.DensityCurve{X: xs, Y: ys}
}
