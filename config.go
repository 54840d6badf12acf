package bufferedlogger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// MainDestination is the destination name that always refers to
// Config.Main.
const MainDestination = "main"

var (
	// ErrUnknownDestination is returned when a category or route names a
	// destination that is neither configured nor injected.
	ErrUnknownDestination = errors.New("unknown destination")
	// ErrUnknownFault is returned when a route names a fault that is not in
	// the FaultRegistry.
	ErrUnknownFault = errors.New("unknown fault")
	// ErrUnsupportedConfigFormat is returned for config files that are not
	// YAML, TOML or JSON.
	ErrUnsupportedConfigFormat = errors.New("unsupported config format")
)

// Config describes the destinations of a process and how each fault
// category routes to them.
//
// Example (YAML):
//
//	main:
//	  name: main
//	  level: info
//	  format: json
//	  console: true
//	destinations:
//	  errors: {level: debug, filename: errors}
//	internal:
//	  destination: errors
//	  routes:
//	    - {fault: parse, destination: main, level: warn}
type Config struct {
	DuplicateErrorDelivery *bool                        `yaml:"duplicate_error_delivery" toml:"duplicate_error_delivery" json:"duplicate_error_delivery"`
	PrettyPrint            bool                         `yaml:"pretty_print" toml:"pretty_print" json:"pretty_print"`
	Main                   DestinationConfig            `yaml:"main" toml:"main" json:"main"`
	Destinations           map[string]DestinationConfig `yaml:"destinations" toml:"destinations" json:"destinations" validate:"omitempty,dive,keys,required,ne=main,endkeys"`
	Internal               *CategoryConfig              `yaml:"internal" toml:"internal" json:"internal" validate:"omitempty"`
	Business               *CategoryConfig              `yaml:"business" toml:"business" json:"business" validate:"omitempty"`
}

// DestinationConfig configures one Logger.
type DestinationConfig struct {
	Name         string         `yaml:"name" toml:"name" json:"name"`
	Level        string         `yaml:"level" toml:"level" json:"level" validate:"omitempty,loglevel"`
	Format       string         `yaml:"format" toml:"format" json:"format" validate:"omitempty,oneof=plain json PLAIN JSON"`
	Filename     string         `yaml:"filename" toml:"filename" json:"filename"`
	LogsDir      string         `yaml:"logs_dir" toml:"logs_dir" json:"logs_dir"`
	Console      bool           `yaml:"console" toml:"console" json:"console"`
	EnableCaller bool           `yaml:"enable_caller" toml:"enable_caller" json:"enable_caller"`
	PrettyPrint  bool           `yaml:"pretty_print" toml:"pretty_print" json:"pretty_print"`
	MaxLogRate   int            `yaml:"max_log_rate" toml:"max_log_rate" json:"max_log_rate" validate:"gte=0"`
	CustomFields map[string]any `yaml:"custom_fields" toml:"custom_fields" json:"custom_fields"`
}

// CategoryConfig configures the fault handler of one category.
type CategoryConfig struct {
	Destination string        `yaml:"destination" toml:"destination" json:"destination" validate:"required"`
	Level       string        `yaml:"level" toml:"level" json:"level" validate:"omitempty,loglevel"`
	Routes      []RouteConfig `yaml:"routes" toml:"routes" json:"routes" validate:"dive"`
}

// RouteConfig routes one named fault. An empty Destination keeps the
// category's default destination; an empty Level keeps its default level.
type RouteConfig struct {
	Fault       string `yaml:"fault" toml:"fault" json:"fault" validate:"required"`
	Destination string `yaml:"destination" toml:"destination" json:"destination"`
	Level       string `yaml:"level" toml:"level" json:"level" validate:"omitempty,loglevel"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	_ = configValidate.RegisterValidation("loglevel", validateLogLevel)
}

func validateLogLevel(fl validator.FieldLevel) bool {
	_, err := ParseLogLevel(fl.Field().String())
	return err == nil
}

// DefaultRoutingConfig returns a config with a console main destination at
// INFO and no category settings.
func DefaultRoutingConfig() Config {
	return Config{
		Main: DestinationConfig{
			Name:    MainDestination,
			Level:   INFO.String(),
			Format:  "plain",
			Console: true,
		},
	}
}

// LoadConfig reads the config file at path, applies environment overrides
// and validates the result. The decoder is chosen by extension: .yaml/.yml,
// .toml or .json.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultRoutingConfig()
	if err := decodeConfig(filepath.Ext(path), data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeConfig(ext string, data []byte, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".json":
		return json.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, ext)
	}
}

// applyEnvOverrides applies LOG_LEVEL, LOG_FORMAT and LOG_DIR to the main
// destination, and LOG_RATE as its rate limit.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Main.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.Main.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_DIR")); v != "" {
		cfg.Main.LogsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_RATE")); v != "" {
		if rate, err := strconv.Atoi(v); err == nil {
			cfg.Main.MaxLogRate = rate
		}
	}
}

// Validate checks field values. Destination and fault names are checked
// when the config is turned into a Factory.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CheckReferences resolves every destination and fault name used by the
// categories without opening anything. extraDestinations lists names that
// will be injected with WithDestination.
func (c *Config) CheckReferences(faults *FaultRegistry, extraDestinations ...string) error {
	known := map[string]bool{MainDestination: true}
	for name := range c.Destinations {
		known[name] = true
	}
	for _, name := range extraDestinations {
		known[name] = true
	}

	var errs []error
	check := func(category string, cc *CategoryConfig) {
		if cc == nil {
			return
		}
		if !known[cc.Destination] {
			errs = append(errs, fmt.Errorf("%s faults: %w: %q", category, ErrUnknownDestination, cc.Destination))
		}
		for _, route := range cc.Routes {
			if _, ok := faults.lookup(route.Fault); !ok {
				errs = append(errs, fmt.Errorf("%s faults: %w: %q", category, ErrUnknownFault, route.Fault))
			}
			if route.Destination != "" && !known[route.Destination] {
				errs = append(errs, fmt.Errorf("%s faults: route %q: %w: %q", category, route.Fault, ErrUnknownDestination, route.Destination))
			}
		}
	}
	check("internal", c.Internal)
	check("business", c.Business)
	return errors.Join(errs...)
}

// duplicateErrors reports whether the extra ERROR delivery is on. It is
// on unless explicitly disabled.
func (c *Config) duplicateErrors() bool {
	return c.DuplicateErrorDelivery == nil || *c.DuplicateErrorDelivery
}

// LoggerConfig converts the destination settings into a LoggerConfig.
// name is used when Name is empty.
func (dc DestinationConfig) LoggerConfig(name string) (LoggerConfig, error) {
	config := DefaultConfig()
	config.EnableConsole = dc.Console
	config.Name = dc.Name
	if config.Name == "" {
		config.Name = name
	}

	if dc.Level != "" {
		level, err := ParseLogLevel(dc.Level)
		if err != nil {
			return LoggerConfig{}, err
		}
		config.LogLevel = level
	}
	if dc.Format != "" {
		format, err := ParseLogFormat(dc.Format)
		if err != nil {
			return LoggerConfig{}, err
		}
		config.LogFormat = format
	}
	if dc.LogsDir != "" {
		config.LogsDir = dc.LogsDir
	}

	config.Filename = dc.Filename
	config.EnableCaller = dc.EnableCaller
	config.PrettyPrint = dc.PrettyPrint
	config.MaxLogRate = dc.MaxLogRate
	config.CustomFields = dc.CustomFields
	return config, nil
}
