package main

import (
	"fmt"

	"mastication-analyzer/internal/rig"
	"mastication-analyzer/internal/shutdown"

	"github.com/spf13/cobra"
)

func newBatchCmd(opts *globalOptions) *cobra.Command {
	out := &outputOptions{}
	var jobs int

	cmd := &cobra.Command{
		Use:   "batch <comminution|mixing> <image>...",
		Short: "Analyze saved frames concurrently",
		Long: `Run one pipeline over many saved frames. Files that fail are listed in the
report instead of stopping the batch.

Examples:
  rig-analyzer batch comminution samples/*.png
  rig-analyzer batch mixing -j 2 -f json gum_*.png`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := rig.ParseKind(args[0])
			if err != nil {
				return err
			}

			cc, err := opts.cfg.ComminutionParams()
			if err != nil {
				return err
			}
			mc, err := opts.cfg.MixingParams()
			if err != nil {
				return err
			}

			w, closeOut, err := out.open(cmd)
			if err != nil {
				return err
			}
			defer closeOut() //nolint:errcheck // report write error is returned below

			sm := shutdown.NewManager(cmd.Context(), opts.log)
			stop := sm.Listen()
			defer stop()

			analyzer := &rig.Analyzer{Comminution: cc, Mixing: mc, Logger: opts.log}
			entries, err := analyzer.AnalyzeFiles(sm.Context(), args[1:], kind, jobs)
			if err != nil {
				return err
			}

			if _, err := w.WriteBatch(entries); err != nil {
				return err
			}

			failed := 0
			for _, e := range entries {
				if e.Error != "" {
					failed++
				}
			}
			if failed == len(entries) {
				return fmt.Errorf("all %d files failed", failed)
			}
			return nil
		},
	}

	out.register(cmd, false)
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Files analyzed concurrently (0 = number of CPUs)")
	return cmd
}
