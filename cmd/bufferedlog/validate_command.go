package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a routing configuration against the demo faults",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			faults := demoFaults()
			if err := cfg.CheckReferences(faults); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration valid: %d destinations, faults %v\n",
				len(cfg.Destinations)+1, faults.Names())
			return nil
		},
	}
}
