package bufferedlogger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "YAML",
			file: "routing.yaml",
			content: `
duplicate_error_delivery: false
main: {name: app, level: warn, format: json}
destinations:
  errors: {level: debug, filename: errors, max_log_rate: 10}
internal:
  destination: errors
  level: fatal
  routes:
    - {fault: parse, destination: main, level: info}
`,
		},
		{
			name: "TOML",
			file: "routing.toml",
			content: `
duplicate_error_delivery = false

[main]
name = "app"
level = "warn"
format = "json"

[destinations.errors]
level = "debug"
filename = "errors"
max_log_rate = 10

[internal]
destination = "errors"
level = "fatal"

[[internal.routes]]
fault = "parse"
destination = "main"
level = "info"
`,
		},
		{
			name: "JSON",
			file: "routing.json",
			content: `{
  "duplicate_error_delivery": false,
  "main": {"name": "app", "level": "warn", "format": "json"},
  "destinations": {"errors": {"level": "debug", "filename": "errors", "max_log_rate": 10}},
  "internal": {
    "destination": "errors",
    "level": "fatal",
    "routes": [{"fault": "parse", "destination": "main", "level": "info"}]
  }
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.False(t, cfg.duplicateErrors())
			assert.Equal(t, "app", cfg.Main.Name)
			assert.Equal(t, "warn", cfg.Main.Level)
			assert.Equal(t, "json", cfg.Main.Format)
			assert.True(t, cfg.Main.Console, "unset fields keep their defaults")
			require.Contains(t, cfg.Destinations, "errors")
			assert.Equal(t, 10, cfg.Destinations["errors"].MaxLogRate)
			require.NotNil(t, cfg.Internal)
			assert.Equal(t, "fatal", cfg.Internal.Level)
			assert.Equal(t, []RouteConfig{{Fault: "parse", Destination: "main", Level: "info"}}, cfg.Internal.Routes)
			assert.Nil(t, cfg.Business)
		})
	}
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_DIR", "env_test_logs")
	t.Setenv("LOG_RATE", "100")

	cfg, err := LoadConfig(writeConfig(t, "routing.yaml", "main: {level: debug}\n"))
	require.NoError(t, err)

	assert.Equal(t, "ERROR", cfg.Main.Level)
	assert.Equal(t, "JSON", cfg.Main.Format)
	assert.Equal(t, "env_test_logs", cfg.Main.LogsDir)
	assert.Equal(t, 100, cfg.Main.MaxLogRate)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"UnsupportedExtension", "routing.ini", "[main]", "unsupported config format"},
		{"Malformed", "routing.json", "{", "parse config"},
		{"BadLevel", "routing.yaml", "main: {level: loud}", "invalid config"},
		{"BadFormat", "routing.yaml", "main: {format: xml}", "invalid config"},
		{"NegativeRate", "routing.yaml", "main: {max_log_rate: -1}", "invalid config"},
		{"ReservedDestinationName", "routing.yaml", "destinations: {main: {level: info}}", "invalid config"},
		{"CategoryWithoutDestination", "routing.yaml", "internal: {level: warn}", "invalid config"},
		{"RouteWithoutFault", "routing.yaml", "internal: {destination: main, routes: [{level: warn}]}", "invalid config"},
		{"RouteBadLevel", "routing.yaml", "business: {destination: main, routes: [{fault: x, level: loud}]}", "invalid config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUnsupportedFormatIsSentinel(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "routing.xml", "<main/>"))
	assert.ErrorIs(t, err, ErrUnsupportedConfigFormat)
}

func TestCheckReferences(t *testing.T) {
	faults := NewFaultRegistry().Register("parse", &parseError{})

	cfg := DefaultRoutingConfig()
	cfg.Destinations = map[string]DestinationConfig{"errors": {}}
	cfg.Internal = &CategoryConfig{
		Destination: "errors",
		Routes:      []RouteConfig{{Fault: "parse", Destination: "main"}},
	}
	cfg.Business = &CategoryConfig{Destination: "zap"}

	assert.ErrorIs(t, cfg.CheckReferences(faults), ErrUnknownDestination)
	assert.NoError(t, cfg.CheckReferences(faults, "zap"))

	cfg.Internal.Routes = append(cfg.Internal.Routes, RouteConfig{Fault: "timeout", Destination: "nowhere"})
	err := cfg.CheckReferences(faults, "zap")
	assert.ErrorIs(t, err, ErrUnknownFault)
	assert.ErrorIs(t, err, ErrUnknownDestination)
}

func TestDestinationLoggerConfig(t *testing.T) {
	dc := DestinationConfig{
		Level:        "warn",
		Format:       "JSON",
		Filename:     "errors",
		Console:      true,
		EnableCaller: true,
		MaxLogRate:   5,
		CustomFields: map[string]any{"service": "orders"},
	}

	config, err := dc.LoggerConfig("errors")
	require.NoError(t, err)
	assert.Equal(t, "errors", config.Name)
	assert.Equal(t, WARN, config.LogLevel)
	assert.Equal(t, FormatJSON, config.LogFormat)
	assert.Equal(t, "errors", config.Filename)
	assert.Equal(t, defaultLogsDir, config.LogsDir)
	assert.True(t, config.EnableConsole)
	assert.True(t, config.EnableCaller)
	assert.Equal(t, 5, config.MaxLogRate)
	assert.Equal(t, "orders", config.CustomFields["service"])

	dc.Name = "custom"
	config, err = dc.LoggerConfig("errors")
	require.NoError(t, err)
	assert.Equal(t, "custom", config.Name)

	_, err = DestinationConfig{Level: "loud"}.LoggerConfig("x")
	assert.Error(t, err)
}
