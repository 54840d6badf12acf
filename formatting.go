package bufferedlogger

import (
	"encoding/json"
	"fmt"
	"maps"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"
)

// formatPlain renders an entry as a single text line.
//
// Format:
//
//	timestamp [LEVEL] name file:line:function:message {key=value, ...}
//
// Fields are sorted by key so lines are stable between runs.
func (l *Logger) formatPlain(level LogLevel, message, callerInfo string, fields map[string]interface{}) string {
	var builder strings.Builder
	builder.Grow(256)

	builder.WriteString(time.Now().Format(l.timestampFormat))
	builder.WriteString(" [")
	builder.WriteString(level.String())
	builder.WriteString("] ")

	if l.name != "" {
		builder.WriteString(l.name)
		builder.WriteByte(' ')
	}

	if callerInfo != "" {
		builder.WriteString(callerInfo)
		builder.WriteByte(':')
	}

	builder.WriteString(message)

	if len(fields) > 0 {
		keys := slices.Sorted(maps.Keys(fields))

		builder.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(k)
			builder.WriteByte('=')
			fmt.Fprintf(&builder, "%v", fields[k])
		}
		builder.WriteByte('}')
	}

	builder.WriteByte('\n')
	return builder.String()
}

// formatJSON renders an entry as one JSON object per line. Entry fields win
// over custom fields with the same key.
func (l *Logger) formatJSON(level LogLevel, message, callerInfo string, fields map[string]interface{}) string {
	logEntry := make(map[string]interface{}, len(fields)+len(l.config.CustomFields)+5)
	logEntry["timestamp"] = time.Now().Format(l.timestampFormat)
	logEntry["level"] = level.String()
	logEntry["message"] = message

	if l.name != "" {
		logEntry["logger"] = l.name
	}
	if callerInfo != "" {
		logEntry["caller"] = callerInfo
	}

	for k, v := range l.config.CustomFields {
		logEntry[k] = v
	}
	for k, v := range fields {
		logEntry[k] = v
	}

	var jsonData []byte
	var err error

	if l.config.PrettyPrint {
		jsonData, err = json.MarshalIndent(logEntry, "", "  ")
	} else {
		jsonData, err = json.Marshal(logEntry)
	}

	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal log entry: %v"}`+"\n", err)
	}
	return string(jsonData) + "\n"
}

// getCallerInfo returns file:line:function for the frame skip levels up.
func getCallerInfo(skip int) string {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	fullFnName := fn.Name()
	if lastSlash := strings.LastIndex(fullFnName, "/"); lastSlash >= 0 {
		fullFnName = fullFnName[lastSlash+1:]
	}

	return fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, fullFnName)
}
