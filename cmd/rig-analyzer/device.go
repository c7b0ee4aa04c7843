package main

import (
	"fmt"
	"strconv"
	"strings"

	"mastication-analyzer/internal/device"
	"mastication-analyzer/internal/rig"

	"github.com/spf13/cobra"
)

// sendCommand opens the controller, sends one command and closes it again.
func sendCommand(cmd *cobra.Command, opts *globalOptions, port, command string) error {
	if port == "" {
		port = opts.cfg.Serial.Port
	}

	ch, err := device.OpenSerial(port, opts.cfg.SerialOptions(), opts.log)
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Send(cmd.Context(), command); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", command)
	return nil
}

func newMotorCmd(opts *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "motor <position>",
		Short: "Move the sample stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid motor position %q: %w", args[0], err)
			}
			return sendCommand(cmd, opts, port, device.MotorCommand(pos))
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Serial port (overrides the configuration)")
	return cmd
}

func newLEDCmd(opts *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "led <b1> ... <b17>",
		Short: "Toggle illumination LEDs",
		Long: `Send an LED pattern of 17 values, each 0 or 1. The controller toggles every
LED marked 1, so sending the same pattern again switches them back.

Example:
  rig-analyzer led 1 0 0 0 1 0 0 0 1 0 0 0 1 0 0 0 0`,
		Args: cobra.ExactArgs(device.LEDCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern, err := device.ParseLEDPattern(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return sendCommand(cmd, opts, port, pattern.String())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Serial port (overrides the configuration)")
	return cmd
}

func newLEDLevelCmd(opts *globalOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "led-level [--port <port>] <region> <delta>",
		Short: "Step the brightness of one illumination region",
		Long: `Raise (positive delta) or lower (negative delta) the brightness of region
1-4 by the given number of levels. Each level is one LED toggle followed by
the configured delay_time.

Example:
  rig-analyzer led-level 2 -3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			region, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid region %q: %w", args[0], err)
			}
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid delta %q: %w", args[1], err)
			}
			if _, err := device.BrightnessStep(region, delta); err != nil {
				return err
			}

			if port == "" {
				port = opts.cfg.Serial.Port
			}
			ch, err := device.OpenSerial(port, opts.cfg.SerialOptions(), opts.log)
			if err != nil {
				return err
			}
			defer ch.Close()

			seq := &rig.Sequencer{
				Channel:     ch,
				Logger:      opts.log,
				SettleDelay: opts.cfg.SettleDelay(),
			}
			if err := seq.AdjustBrightness(cmd.Context(), region, delta); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "region %d: %+d levels OK\n", region, delta)
			return nil
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Serial port (overrides the configuration)")
	// negative deltas must not be parsed as flags
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "ports",
		Short:             "List serial ports",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			ports, err := device.ListPorts()
			if err != nil {
				return err
			}
			if len(ports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no serial ports found")
				return nil
			}
			for _, p := range ports {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
