package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gourdian25/bufferedlogger"
)

// Faults raised by the demo request.
type (
	ParseError struct {
		Text   string
		Offset int
	}
	IllegalArgumentError struct{ Reason string }
	SQLError             struct{ Reason string }
	RejectedError        struct{}
)

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Text, e.Offset)
}

func (e *IllegalArgumentError) Error() string { return e.Reason }

func (e *SQLError) Error() string { return e.Reason }

func (e *RejectedError) Error() string { return "request rejected by business rule" }

// demoFaults names the demo fault types for routing configs.
func demoFaults() *bufferedlogger.FaultRegistry {
	faults := bufferedlogger.NewFaultRegistry()
	bufferedlogger.RegisterFault[*ParseError](faults, "parse")
	bufferedlogger.RegisterFault[*IllegalArgumentError](faults, "illegal_argument")
	bufferedlogger.RegisterFault[*SQLError](faults, "sql")
	bufferedlogger.RegisterFault[*RejectedError](faults, "rejected")
	return faults
}

func newDemoCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Log one sample request with internal and business faults",
		Long: `Logs request WWED033A with three messages, three internal faults and one
business fault. Without --config the faults are routed to the main, error,
runtime and business destinations, all written to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			req := bufferedlogger.NewRequest("WWED033A", bufferedlogger.Param("param", "val"))

			var logger *bufferedlogger.BufferedLogger
			if strings.TrimSpace(opts.configPath) != "" {
				factory, err := newDemoFactory(opts, out)
				if err != nil {
					return err
				}
				defer factory.Close()
				logger = factory.New(req)
			} else {
				dests, err := newDemoDestinations(opts, out)
				if err != nil {
					return err
				}
				defer dests.close()
				logger = dests.newLogger(req)
			}

			runDemoRequest(logger)
			return nil
		},
	}
}

func runDemoRequest(logger *bufferedlogger.BufferedLogger) {
	logger.
		Append("Log message 1").
		Append("Log message 2").
		Append("Log message 3").
		RecordInternalFault(&ParseError{Text: "Bla bla", Offset: 1}).
		RecordInternalFault(&IllegalArgumentError{Reason: "Param is invalid"}).
		RecordInternalFault(&SQLError{Reason: "SQL Exception"}).
		RecordBusinessFault(&RejectedError{})
	logger.Flush()
}

type demoDestinations struct {
	main, errors, runtime, business *bufferedlogger.Logger
}

func newDemoDestinations(opts *rootOptions, out io.Writer) (*demoDestinations, error) {
	format, err := resolveFormat(opts.format, out)
	if err != nil {
		return nil, err
	}

	mainLevel := bufferedlogger.INFO
	if opts.level != "" {
		if mainLevel, err = bufferedlogger.ParseLogLevel(opts.level); err != nil {
			return nil, err
		}
	}

	open := func(name string, level bufferedlogger.LogLevel) (*bufferedlogger.Logger, error) {
		config := bufferedlogger.DefaultConfig()
		config.Name = name
		config.LogLevel = level
		config.LogFormat = format
		config.EnableConsole = false
		config.Outputs = []io.Writer{out}
		return bufferedlogger.NewLogger(config)
	}

	d := &demoDestinations{}
	for _, target := range []struct {
		dest  **bufferedlogger.Logger
		name  string
		level bufferedlogger.LogLevel
	}{
		{&d.main, "main", mainLevel},
		{&d.errors, "error", bufferedlogger.DEBUG},
		{&d.runtime, "runtime", bufferedlogger.DEBUG},
		{&d.business, "business", bufferedlogger.DEBUG},
	} {
		logger, err := open(target.name, target.level)
		if err != nil {
			d.close()
			return nil, err
		}
		*target.dest = logger
	}
	return d, nil
}

func (d *demoDestinations) newLogger(req bufferedlogger.Request) *bufferedlogger.BufferedLogger {
	internalRouter := bufferedlogger.NewFaultRouter().
		Map(&ParseError{}, d.errors).
		Map(&IllegalArgumentError{}, d.runtime)
	businessRouter := bufferedlogger.NewFaultRouter().
		Map(&RejectedError{}, d.business)

	return bufferedlogger.New(req, d.main).
		CreateInternalFaultHandler(d.errors, internalRouter).
		CreateBusinessFaultHandler(d.business, businessRouter)
}

func (d *demoDestinations) close() {
	for _, l := range []*bufferedlogger.Logger{d.main, d.errors, d.runtime, d.business} {
		if l != nil {
			_ = l.Close()
		}
	}
}

func newDemoFactory(opts *rootOptions, out io.Writer) (*bufferedlogger.Factory, error) {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.level != "" {
		cfg.Main.Level = opts.level
	}
	if !strings.EqualFold(opts.format, "auto") {
		cfg.Main.Format = opts.format
	}
	return bufferedlogger.NewFactory(cfg, demoFaults(), bufferedlogger.WithLoggerOutputs(out))
}
