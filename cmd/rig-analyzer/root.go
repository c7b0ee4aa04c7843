package main

import (
	"fmt"
	"os"

	"mastication-analyzer/internal/config"
	"mastication-analyzer/internal/logger"
	"mastication-analyzer/internal/rig"

	"github.com/spf13/cobra"
)

// globalOptions carries persistent flags and what they resolve to.
type globalOptions struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log logger.Logger
}

// load resolves the configuration and logger before any subcommand runs.
func (o *globalOptions) load(_ *cobra.Command, _ []string) error {
	level, err := logger.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	o.log = logger.NewConsoleLogger(level)

	cfg, path, err := config.Load(o.configPath)
	if err != nil {
		if path != "" {
			return fmt.Errorf("load config %s: %w", path, err)
		}
		return fmt.Errorf("load config: %w", err)
	}
	o.cfg = cfg

	source := path
	if source == "" {
		source = "defaults"
	}
	o.log.Debug("Config", "configuration loaded", map[string]interface{}{"source": source})
	return nil
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "rig-analyzer",
		Short: "Masticatory performance analysis for the chewing test rig",
		Long: `rig-analyzer evaluates chewed test food imaged on the rig's sample disks.

Comminution analysis segments particles, converts their areas to mm² and
reports the D10, D50 and D90 of the size distribution. Mixing analysis
segments two-colour chewing gum and reports the circular variance of hue
(VOH) and its standard deviation (SDHue).

Configuration is read from --config, ./config.yaml or
$XDG_CONFIG_HOME/mastication-analyzer/config.yaml, in that order.`,
		Version:           getVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: opts.load,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newAnalyzeCmd(opts, rig.KindComminution))
	cmd.AddCommand(newAnalyzeCmd(opts, rig.KindMixing))
	cmd.AddCommand(newBatchCmd(opts))
	cmd.AddCommand(newAcquireCmd(opts))
	cmd.AddCommand(newMotorCmd(opts))
	cmd.AddCommand(newLEDCmd(opts))
	cmd.AddCommand(newLEDLevelCmd(opts))
	cmd.AddCommand(newInitCmd(opts))
	cmd.AddCommand(newPortsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
