package models

import "image"

// ParticleMeasurement is one segmented particle converted to physical units.
type ParticleMeasurement struct {
	Index      int             `json:"index"`
	AreaPixels float64         `json:"area_px"`
	AreaMM2    float64         `json:"area_mm2"`
	Bounds     image.Rectangle `json:"bounds"`
}

// DensityCurve is a kernel density estimate sampled at evenly spaced areas.
type DensityCurve struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// PercentileMarker is a vertical marker on the density plot.
type PercentileMarker struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Density float64 `json:"density"`
}

// DensityStatistics summarizes a particle-size distribution.
type DensityStatistics struct {
	Count     int                `json:"count"`
	D10       float64            `json:"d10"`
	D50       float64            `json:"d50"`
	D90       float64            `json:"d90"`
	Bandwidth float64            `json:"bandwidth"`
	Curve     DensityCurve       `json:"curve"`
	Markers   []PercentileMarker `json:"markers"`
}

// SizeRange counts particles whose area falls in [Lower, Upper).
// The last range of a set also includes its upper edge.
type SizeRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// HueStatistics holds the circular dispersion of hue over a segmented region.
type HueStatistics struct {
	Samples int     `json:"samples"`
	VOH     float64 `json:"voh"`
	SDHue   float64 `json:"sdhue"`
}

// HSVHistograms holds normalized per-channel histograms of a masked region.
type HSVHistograms struct {
	Hue        []float64 `json:"hue"`
	Saturation []float64 `json:"saturation"`
	Value      []float64 `json:"value"`
}
