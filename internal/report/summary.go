package report

import (
	"image"
	"math"

	"mastication-analyzer/internal/comminution"
	"mastication-analyzer/internal/mixing"
	"mastication-analyzer/internal/models"
)

// Comminution summarizes one comminution analysis. Areas are in mm².
type Comminution struct {
	Source       string                    `json:"source,omitempty"`
	Disk         models.Circle             `json:"disk"`
	Particles    int                       `json:"particles"`
	D10          float64                   `json:"d10"`
	D50          float64                   `json:"d50"`
	D90          float64                   `json:"d90"`
	Bandwidth    float64                   `json:"bandwidth"`
	SizeRanges   []models.SizeRange        `json:"size_ranges"`
	Measurements []Particle                `json:"measurements"`
	Curve        models.DensityCurve       `json:"curve"`
	Markers      []models.PercentileMarker `json:"markers"`
}

// Particle is one measured particle. Bounds are in frame coordinates.
type Particle struct {
	Index   int             `json:"index"`
	AreaMM2 float64         `json:"area_mm2"`
	Bounds  image.Rectangle `json:"bounds"`
}

// Mixing summarizes one mixing analysis.
type Mixing struct {
	Source     string               `json:"source,omitempty"`
	DiskFound  bool                 `json:"disk_found"`
	Disk       models.Circle        `json:"disk"`
	Pixels     int                  `json:"pixels"`
	VOH        float64              `json:"voh"`
	SDHue      float64              `json:"sdhue"`
	Histograms models.HSVHistograms `json:"histograms"`
}

// Entry is one file of a batch run. Exactly one of Comminution, Mixing and
// Error is set.
type Entry struct {
	Path        string       `json:"path"`
	Comminution *Comminution `json:"comminution,omitempty"`
	Mixing      *Mixing      `json:"mixing,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// NewComminution summarizes r.
func NewComminution(source string, r *comminution.Result) *Comminution {
	s := &Comminution{
		Source:       source,
		Disk:         r.Circle,
		Particles:    r.Statistics.Count,
		D10:          Round2(r.Statistics.D10),
		D50:          Round2(r.Statistics.D50),
		D90:          Round2(r.Statistics.D90),
		Bandwidth:    r.Statistics.Bandwidth,
		SizeRanges:   r.SizeRanges,
		Measurements: make([]Particle, 0, len(r.Particles)),
		Curve:        r.Statistics.Curve,
		Markers:      r.Statistics.Markers,
	}
	if s.SizeRanges == nil {
		s.SizeRanges = []models.SizeRange{}
	}
	if s.Markers == nil {
		s.Markers = []models.PercentileMarker{}
	}

	var contours []models.Contour
	if r.Segmentation != nil {
		contours = r.FrameContours()
	}
	for _, p := range r.Particles {
		bounds := p.Bounds
		if p.Index >= 0 && p.Index < len(contours) {
			bounds = contours[p.Index].Bounds()
		}
		s.Measurements = append(s.Measurements, Particle{
			Index:   p.Index,
			AreaMM2: p.AreaMM2,
			Bounds:  bounds,
		})
	}
	return s
}

// NewMixing summarizes r.
func NewMixing(source string, r *mixing.Result) *Mixing {
	return &Mixing{
		Source:     source,
		DiskFound:  r.DiskFound,
		Disk:       r.Circle,
		Pixels:     r.Pixels,
		VOH:        Round2(r.Hue.VOH),
		SDHue:      Round2(r.Hue.SDHue),
		Histograms: r.Histograms,
	}
}

// Round2 rounds v to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
