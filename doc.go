// Package bufferedlogger collects everything that happens during one request
// and writes it out in a single pass when the request is done.
//
// Overview:
// A BufferedLogger buffers progress messages and faults for one request. On
// Flush the messages become one structured INFO record on the main
// destination, and every fault is delivered to the destination its type is
// routed to.
//
// Key Features:
// - One JSON record per request (token, parameters, messages, fault flags)
// - Two fault categories: internal (system failures) and business (rule violations)
// - Per-type fault routing with optional per-route levels
// - Lazy category creation; untouched categories still appear in the record
// - Destinations for the built-in Logger, log/slog, zap (package zaplog)
// - Routing configuration in YAML, TOML or JSON with environment overrides
// - net/http and gin (package ginlog) middleware
//
// Getting Started:
//
//	mainLogger, err := bufferedlogger.NewLogger(bufferedlogger.DefaultConfig())
//	if err != nil {
//	    panic(err)
//	}
//	defer mainLogger.Close()
//
//	logger := bufferedlogger.New(
//	    bufferedlogger.NewRequest("WWED033A", bufferedlogger.Param("param", "val")),
//	    mainLogger,
//	)
//	logger.Append("Log message 1").Append("Log message 2")
//	logger.RecordInternalFault(err)
//	logger.Flush()
//
// The main destination receives:
//
//	{
//	  "request": {"token": "WWED033A", "parameters": [{"name": "param", "value": "val"}]},
//	  "messages": ["Log message 1", "Log message 2"],
//	  "internal_faults": {"touched": true},
//	  "business_faults": {"touched": false}
//	}
//
// Fault Routing:
//
// Each category has a default destination, a default level (ERROR) and an
// optional FaultRouter. A fault whose exact dynamic type is routed goes to
// the bound destination at the bound level; anything left unset falls back
// to the category defaults. Every fault is written with the message
//
//	Exception in request [<token>]
//
// and is then delivered once more at ERROR to the category's default
// destination. WithDuplicateErrorDelivery(false) turns the second delivery off.
//
//	router := bufferedlogger.NewFaultRouter().
//	    Map(&ParseError{}, errorLogger).
//	    MapWithLevel(&QuotaError{}, runtimeLogger, bufferedlogger.WARN)
//
//	logger := bufferedlogger.New(req, mainLogger).
//	    CreateInternalFaultHandler(errorLogger, router)
//
// Recreating a category handler discards the faults recorded for it so far.
//
// Configuration:
//
// LoadConfig reads a routing file and NewFactory turns it into request
// loggers. Fault names in the file are resolved through a FaultRegistry.
//
//	main: {level: info, format: json, console: true}
//	destinations:
//	  errors: {level: debug, filename: errors}
//	internal:
//	  destination: errors
//	  routes:
//	    - {fault: parse, destination: main, level: warn}
//
// Environment Overrides (main destination):
// - LOG_LEVEL  (e.g. "debug", "info")
// - LOG_FORMAT ("plain" or "json")
// - LOG_DIR    (log directory path)
// - LOG_RATE   (max logs per second)
//
// Thread Safety:
//
// A BufferedLogger belongs to one request and is not safe for concurrent
// use. Logger and the other destinations are safe to share between request
// loggers.
package bufferedlogger
