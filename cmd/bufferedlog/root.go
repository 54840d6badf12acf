package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/gourdian25/bufferedlogger"
)

type rootOptions struct {
	configPath string
	level      string
	format     string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "bufferedlog",
		Short:         "Request-scoped log aggregation with fault routing",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Routing configuration file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&opts.level, "level", "", "Minimum level of the main destination")
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", "Output format: plain, json or auto")

	rootCmd.AddCommand(newDemoCommand(opts))
	rootCmd.AddCommand(newValidateCommand(opts))

	return rootCmd
}

// resolveFormat turns "auto" into plain for terminals and json otherwise.
func resolveFormat(format string, out io.Writer) (bufferedlogger.LogFormat, error) {
	if strings.EqualFold(strings.TrimSpace(format), "auto") {
		if isTerminal(out) {
			return bufferedlogger.FormatPlain, nil
		}
		return bufferedlogger.FormatJSON, nil
	}
	return bufferedlogger.ParseLogFormat(format)
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func loadConfig(path string) (*bufferedlogger.Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("no configuration file given (use --config)")
	}
	return bufferedlogger.LoadConfig(path)
}
