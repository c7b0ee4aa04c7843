package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mastication-analyzer/internal/comminution"
	"mastication-analyzer/internal/device"
	"mastication-analyzer/internal/mixing"
	"mastication-analyzer/internal/report"
	"mastication-analyzer/internal/rig"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"
)

// outputOptions are shared by every command that prints a report.
type outputOptions struct {
	format    string
	output    string
	annotated string
}

func (o *outputOptions) register(cmd *cobra.Command, annotated bool) {
	cmd.Flags().StringVarP(&o.format, "format", "f", string(report.FormatMarkdown), "Report format (md, json)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "Write the report to a file instead of stdout")
	if annotated {
		cmd.Flags().StringVar(&o.annotated, "annotated", "",
			"Save the visualization (contour overlay, or masked sample plus its _hsv rendition) as an image")
	}
}

// open returns the report writer and a function closing its destination.
func (o *outputOptions) open(cmd *cobra.Command) (report.Writer, func() error, error) {
	var out io.Writer = cmd.OutOrStdout()
	closeFn := func() error { return nil }

	if o.output != "" {
		f, err := os.Create(o.output)
		if err != nil {
			return nil, nil, fmt.Errorf("create report file: %w", err)
		}
		out = f
		closeFn = f.Close
	}

	w, ok := report.NewWriter(report.Format(o.format), out)
	if !ok {
		_ = closeFn()
		return nil, nil, fmt.Errorf("unknown report format %q (want md or json)", o.format)
	}
	return w, closeFn, nil
}

func newAnalyzeCmd(opts *globalOptions, kind rig.Kind) *cobra.Command {
	out := &outputOptions{}

	short := "Measure the particle size distribution of a comminution sample"
	long := `Locate the sample disk, segment particles on the saturation channel and
report the D10, D50 and D90 of the particle area distribution (mm²).
The disk must be visible; a frame without it is rejected.`
	if kind == rig.KindMixing {
		short = "Measure hue dispersion of a two-colour chewing gum sample"
		long = `Segment the gum bolus by saturation and report the circular variance of
hue (VOH) and its standard deviation (SDHue). When the sample disk cannot be
located the whole frame is analyzed.`
	}

	cmd := &cobra.Command{
		Use:   string(kind) + " <image>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := device.LoadFrame(args[0])
			if err != nil {
				return err
			}
			defer frame.Close()

			return analyzeAndReport(cmd, opts, out, kind, frame, args[0])
		},
	}
	out.register(cmd, true)
	return cmd
}

// analyzeAndReport runs the kind pipeline on frame and writes its report.
func analyzeAndReport(cmd *cobra.Command, opts *globalOptions, out *outputOptions, kind rig.Kind, frame gocv.Mat, source string) error {
	w, closeOut, err := out.open(cmd)
	if err != nil {
		return err
	}

	switch kind {
	case rig.KindComminution:
		err = reportComminution(opts, out, w, frame, source)
	case rig.KindMixing:
		err = reportMixing(opts, out, w, frame, source)
	default:
		err = fmt.Errorf("unknown analysis kind %q", kind)
	}

	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}

func reportComminution(opts *globalOptions, out *outputOptions, w report.Writer, frame gocv.Mat, source string) error {
	cfg, err := opts.cfg.ComminutionParams()
	if err != nil {
		return err
	}

	res, err := comminution.Analyze(frame, cfg)
	if err != nil {
		return err
	}
	defer res.Close()

	opts.log.Info("Comminution", "analysis completed", map[string]interface{}{
		"source":    source,
		"particles": res.Statistics.Count,
		"d50":       res.Statistics.D50,
	})

	if out.annotated != "" {
		if err := device.SaveFrame(out.annotated, res.Annotated); err != nil {
			return err
		}
	}

	_, err = w.WriteComminution(report.NewComminution(source, res))
	return err
}

func reportMixing(opts *globalOptions, out *outputOptions, w report.Writer, frame gocv.Mat, source string) error {
	cfg, err := opts.cfg.MixingParams()
	if err != nil {
		return err
	}

	res, err := mixing.Analyze(frame, cfg)
	if err != nil {
		return err
	}
	defer res.Close()

	if !res.DiskFound {
		opts.log.Warning("Mixing", "sample disk not located, analyzing full frame", map[string]interface{}{
			"source": source,
		})
	}
	opts.log.Info("Mixing", "analysis completed", map[string]interface{}{
		"source": source,
		"pixels": res.Pixels,
		"voh":    res.Hue.VOH,
	})

	if out.annotated != "" {
		if err := device.SaveFrame(out.annotated, res.Masked); err != nil {
			return err
		}
		if err := device.SaveFrame(withSuffix(out.annotated, "_hsv"), res.HSV); err != nil {
			return err
		}
	}

	_, err = w.WriteMixing(report.NewMixing(source, res))
	return err
}

// withSuffix inserts suffix before the extension of path.
func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
