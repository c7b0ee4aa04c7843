package main

import (
	"fmt"

	"mastication-analyzer/internal/config"
	"mastication-analyzer/internal/device"
	"mastication-analyzer/internal/rig"
	"mastication-analyzer/internal/shutdown"

	"github.com/spf13/cobra"
)

// station returns the stage position and illumination for kind.
func station(cfg *config.Config, kind rig.Kind) rig.Station {
	if kind == rig.KindMixing {
		return rig.Station{Name: string(kind), MotorPosition: cfg.Mixing.MotorPosition, LEDs: cfg.Mixing.LEDPattern}
	}
	return rig.Station{Name: string(kind), MotorPosition: cfg.Comminution.MotorPosition, LEDs: cfg.Comminution.LEDPattern}
}

func newAcquireCmd(opts *globalOptions) *cobra.Command {
	out := &outputOptions{}
	var port, snapshots, fromFile string

	cmd := &cobra.Command{
		Use:   "acquire <comminution|mixing>",
		Short: "Capture a sample on the rig and analyze it",
		Long: `Move the stage to the sample station, light it, capture a frame with the
camera and run the matching analysis. The controller acknowledges every
command with OK; an ERR reply or a timeout aborts the run.

With --from-file the stage and LEDs are still driven but the frame is read
from the given image instead of the camera.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := rig.ParseKind(args[0])
			if err != nil {
				return err
			}
			if port != "" {
				opts.cfg.Serial.Port = port
			}
			if snapshots != "" {
				opts.cfg.Output.SnapshotDir = snapshots
			}

			sm := shutdown.NewManager(cmd.Context(), opts.log)
			stop := sm.Listen()
			defer stop()
			defer sm.Shutdown()

			ch, err := device.OpenSerial(opts.cfg.Serial.Port, opts.cfg.SerialOptions(), opts.log)
			if err != nil {
				return err
			}
			sm.Register("serial", ch)

			var src device.FrameSource
			source := "camera"
			if fromFile != "" {
				src, source = device.NewFileSource(fromFile), fromFile
			} else {
				cam, err := device.OpenCamera(opts.cfg.CameraSettings())
				if err != nil {
					return err
				}
				src = cam
			}
			sm.Register("frame source", src)

			seq := &rig.Sequencer{
				Channel:     ch,
				Source:      src,
				Logger:      opts.log,
				SettleDelay: opts.cfg.SettleDelay(),
				SnapshotDir: opts.cfg.Output.SnapshotDir,
			}

			frame, err := seq.Acquire(sm.Context(), station(opts.cfg, kind))
			if err != nil {
				return fmt.Errorf("acquire %s sample: %w", kind, err)
			}
			defer frame.Close()

			return analyzeAndReport(cmd, opts, out, kind, frame, source)
		},
	}

	out.register(cmd, true)
	cmd.Flags().StringVarP(&port, "port", "p", "", "Serial port (overrides the configuration)")
	cmd.Flags().StringVar(&snapshots, "snapshots", "", "Directory receiving captured frames")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "Read the frame from an image file instead of the camera")
	return cmd
}
