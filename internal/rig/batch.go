package rig

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"mastication-analyzer/internal/comminution"
	"mastication-analyzer/internal/device"
	"mastication-analyzer/internal/logger"
	"mastication-analyzer/internal/mixing"
	"mastication-analyzer/internal/report"

	"golang.org/x/sync/errgroup"
)

// Kind selects the analysis pipeline.
type Kind string

const (
	KindComminution Kind = "comminution"
	KindMixing      Kind = "mixing"
)

// ParseKind validates a pipeline name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindComminution, KindMixing:
		return k, nil
	default:
		return "", fmt.Errorf("unknown analysis kind %q (want %s or %s)", s, KindComminution, KindMixing)
	}
}

// Analyzer holds both pipeline configurations for offline runs.
type Analyzer struct {
	Comminution comminution.Config
	Mixing      mixing.Config
	Logger      logger.Logger
}

// AnalyzeFile loads path and runs the kind pipeline on it.
func (a *Analyzer) AnalyzeFile(path string, kind Kind) report.Entry {
	entry := report.Entry{Path: path}

	frame, err := device.LoadFrame(path)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	defer frame.Close()

	switch kind {
	case KindComminution:
		res, err := comminution.Analyze(frame, a.Comminution)
		if err != nil {
			entry.Error = err.Error()
			return entry
		}
		entry.Comminution = report.NewComminution(path, res)
		res.Close()
	case KindMixing:
		res, err := mixing.Analyze(frame, a.Mixing)
		if err != nil {
			entry.Error = err.Error()
			return entry
		}
		entry.Mixing = report.NewMixing(path, res)
		res.Close()
	default:
		entry.Error = fmt.Sprintf("unknown analysis kind %q", kind)
	}
	return entry
}

// AnalyzeFiles runs AnalyzeFile over paths with at most jobs files in
// flight. Per-file failures are recorded in the entries; only cancellation
// is returned as an error. Entries keep the order of paths.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string, kind Kind, jobs int) ([]report.Entry, error) {
	log := a.Logger
	if log == nil {
		log = logger.Nop()
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	log.Info("Batch", "batch analysis started", map[string]interface{}{
		"files": len(paths),
		"kind":  string(kind),
		"jobs":  jobs,
	})
	start := time.Now()

	entries := make([]report.Entry, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				entries[i] = report.Entry{Path: path, Error: err.Error()}
				return err
			}

			entries[i] = a.AnalyzeFile(path, kind)
			if entries[i].Error != "" {
				log.Warning("Batch", "analysis failed", map[string]interface{}{
					"path":  path,
					"error": entries[i].Error,
				})
			}
			return nil
		})
	}

	err := g.Wait()

	log.Info("Batch", "batch analysis completed", map[string]interface{}{
		"files":   len(paths),
		"elapsed": time.Since(start).String(),
	})
	return entries, err
}
