package bufferedlogger

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"
)

// FaultRegistry names fault types so routing config can refer to them.
type FaultRegistry struct {
	types map[string]reflect.Type
}

// NewFaultRegistry returns an empty registry.
func NewFaultRegistry() *FaultRegistry {
	return &FaultRegistry{types: make(map[string]reflect.Type)}
}

// Register names the dynamic type of sample.
func (r *FaultRegistry) Register(name string, sample error) *FaultRegistry {
	if t := reflect.TypeOf(sample); t != nil {
		r.types[name] = t
	}
	return r
}

// RegisterFault names the error type T.
func RegisterFault[T error](r *FaultRegistry, name string) *FaultRegistry {
	r.types[name] = reflect.TypeFor[T]()
	return r
}

// Names returns the registered names, sorted.
func (r *FaultRegistry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.types))
}

func (r *FaultRegistry) lookup(name string) (reflect.Type, bool) {
	if r == nil {
		return nil, false
	}
	t, ok := r.types[name]
	return t, ok
}

type factoryOptions struct {
	destinations map[string]Destination
	outputs      []io.Writer
}

// FactoryOption configures NewFactory.
type FactoryOption func(*factoryOptions)

// WithDestination makes dest available under name. It takes precedence over
// a configured destination of the same name, including MainDestination.
func WithDestination(name string, dest Destination) FactoryOption {
	return func(o *factoryOptions) {
		o.destinations[name] = dest
	}
}

// WithLoggerOutputs adds writers to every Logger the factory opens.
func WithLoggerOutputs(outputs ...io.Writer) FactoryOption {
	return func(o *factoryOptions) {
		o.outputs = append(o.outputs, outputs...)
	}
}

type categorySetup struct {
	destination Destination
	router      *FaultRouter
	opts        []HandlerOption
}

// Factory builds request loggers from a Config. Destinations are opened
// once by NewFactory and shared by every logger; each logger gets its own
// copy of the routers.
//
// A Factory is safe for concurrent use.
type Factory struct {
	main         Destination
	destinations map[string]Destination
	owned        []*Logger
	internal     *categorySetup
	business     *categorySetup
	serializer   Serializer
	handlerOpts  []HandlerOption
}

// NewFactory opens the destinations of cfg and resolves its routes against
// faults.
//
// Example:
//
//	faults := bufferedlogger.NewFaultRegistry().Register("parse", &ParseError{})
//	factory, err := bufferedlogger.NewFactory(cfg, faults)
//	if err != nil {
//	    return err
//	}
//	defer factory.Close()
//
//	logger := factory.New(bufferedlogger.NewRequest(token))
func NewFactory(cfg *Config, faults *FaultRegistry, opts ...FactoryOption) (*Factory, error) {
	if cfg == nil {
		def := DefaultRoutingConfig()
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := factoryOptions{destinations: make(map[string]Destination)}
	for _, opt := range opts {
		opt(&o)
	}

	f := &Factory{
		destinations: make(map[string]Destination, len(cfg.Destinations)+len(o.destinations)+1),
		serializer:   JSONSerializer{PrettyPrint: cfg.PrettyPrint},
		handlerOpts:  []HandlerOption{WithDuplicateErrorDelivery(cfg.duplicateErrors())},
	}
	maps.Copy(f.destinations, o.destinations)

	if err := f.openDestinations(cfg, o.outputs); err != nil {
		_ = f.Close()
		return nil, err
	}
	f.main = f.destinations[MainDestination]

	var err error
	if f.internal, err = f.setupCategory("internal", cfg.Internal, faults); err != nil {
		_ = f.Close()
		return nil, err
	}
	if f.business, err = f.setupCategory("business", cfg.Business, faults); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func (f *Factory) openDestinations(cfg *Config, outputs []io.Writer) error {
	configured := map[string]DestinationConfig{MainDestination: cfg.Main}
	for name, dc := range cfg.Destinations {
		configured[name] = dc
	}

	for _, name := range slices.Sorted(maps.Keys(configured)) {
		if _, injected := f.destinations[name]; injected {
			continue
		}
		lc, err := configured[name].LoggerConfig(name)
		if err != nil {
			return fmt.Errorf("destination %q: %w", name, err)
		}
		lc.Outputs = append(lc.Outputs, outputs...)

		logger, err := NewLogger(lc)
		if err != nil {
			return fmt.Errorf("destination %q: %w", name, err)
		}
		f.owned = append(f.owned, logger)
		f.destinations[name] = logger
	}
	return nil
}

func (f *Factory) setupCategory(category string, cc *CategoryConfig, faults *FaultRegistry) (*categorySetup, error) {
	if cc == nil {
		return nil, nil
	}

	dest, err := f.destination(cc.Destination)
	if err != nil {
		return nil, fmt.Errorf("%s faults: %w", category, err)
	}

	setup := &categorySetup{destination: dest, router: NewFaultRouter()}
	if cc.Level != "" {
		level, err := ParseLogLevel(cc.Level)
		if err != nil {
			return nil, fmt.Errorf("%s faults: %w", category, err)
		}
		setup.opts = append(setup.opts, WithDefaultLevel(level))
	}

	for _, route := range cc.Routes {
		faultType, ok := faults.lookup(route.Fault)
		if !ok {
			return nil, fmt.Errorf("%s faults: %w: %q", category, ErrUnknownFault, route.Fault)
		}

		var routeDest Destination
		if route.Destination != "" {
			if routeDest, err = f.destination(route.Destination); err != nil {
				return nil, fmt.Errorf("%s faults: route %q: %w", category, route.Fault, err)
			}
		}

		binding := NewBinding(routeDest)
		if route.Level != "" {
			level, err := ParseLogLevel(route.Level)
			if err != nil {
				return nil, fmt.Errorf("%s faults: route %q: %w", category, route.Fault, err)
			}
			binding = NewBindingWithLevel(routeDest, level)
		}
		setup.router.MapType(faultType, binding)
	}
	return setup, nil
}

// Destination returns the destination registered under name.
func (f *Factory) Destination(name string) (Destination, bool) {
	d, ok := f.destinations[name]
	return d, ok
}

func (f *Factory) destination(name string) (Destination, error) {
	d, ok := f.destinations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDestination, name)
	}
	return d, nil
}

// New returns a BufferedLogger for req wired according to the config.
func (f *Factory) New(req Request) *BufferedLogger {
	l := New(req, f.main, WithSerializer(f.serializer), WithHandlerOptions(f.handlerOpts...))
	if f.internal != nil {
		l.CreateInternalFaultHandler(f.internal.destination, f.internal.router.Clone(), f.internal.opts...)
	}
	if f.business != nil {
		l.CreateBusinessFaultHandler(f.business.destination, f.business.router.Clone(), f.business.opts...)
	}
	return l
}

// Close closes every Logger the factory opened. Injected destinations are
// left alone.
func (f *Factory) Close() error {
	var errs []error
	for _, l := range f.owned {
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
