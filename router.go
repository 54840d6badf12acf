package bufferedlogger

import (
	"maps"
	"reflect"
)

// FaultRouter maps fault types to bindings.
//
// Lookup uses the exact dynamic type of the fault. Wrapped errors and
// embedding are not consulted: a *fmt.wrapError around a routed type is
// unmapped, and so is any type that was never registered itself.
//
// A FaultRouter is not safe for concurrent mutation. Register routes during
// setup and treat the router as read-only once request loggers use it.
type FaultRouter struct {
	routes map[reflect.Type]Binding
}

// NewFaultRouter returns an empty router.
func NewFaultRouter() *FaultRouter {
	return &FaultRouter{routes: make(map[reflect.Type]Binding)}
}

// Map routes faults with the same dynamic type as sample to dest at the
// handler's default level. An existing route for the type is replaced.
//
// Example:
//
//	router := NewFaultRouter().
//	    Map(&ParseError{}, errorLogger).
//	    Map(&net.OpError{}, networkLogger)
func (r *FaultRouter) Map(sample error, dest Destination) *FaultRouter {
	return r.MapType(reflect.TypeOf(sample), NewBinding(dest))
}

// MapWithLevel routes faults with the same dynamic type as sample to dest at level.
func (r *FaultRouter) MapWithLevel(sample error, dest Destination, level LogLevel) *FaultRouter {
	return r.MapType(reflect.TypeOf(sample), NewBindingWithLevel(dest, level))
}

// MapType routes faults of type t to b. A nil type is ignored.
func (r *FaultRouter) MapType(t reflect.Type, b Binding) *FaultRouter {
	if t == nil {
		return r
	}
	if r.routes == nil {
		r.routes = make(map[reflect.Type]Binding)
	}
	r.routes[t] = b
	return r
}

// Route registers a binding for the error type T. When level is given the
// first value is bound, otherwise the handler's default level applies.
//
// Example:
//
//	bufferedlogger.Route[*QuotaError](router, businessLogger, bufferedlogger.WARN)
func Route[T error](r *FaultRouter, dest Destination, level ...LogLevel) *FaultRouter {
	b := NewBinding(dest)
	if len(level) > 0 {
		b = NewBindingWithLevel(dest, level[0])
	}
	return r.MapType(reflect.TypeFor[T](), b)
}

// Resolve returns the binding registered for the exact dynamic type of fault.
func (r *FaultRouter) Resolve(fault error) (Binding, bool) {
	if r == nil || fault == nil {
		return Binding{}, false
	}
	b, ok := r.routes[reflect.TypeOf(fault)]
	return b, ok
}

// Len returns the number of registered routes.
func (r *FaultRouter) Len() int {
	if r == nil {
		return 0
	}
	return len(r.routes)
}

// Clone returns an independent copy of the router. Destinations are shared.
func (r *FaultRouter) Clone() *FaultRouter {
	if r == nil {
		return nil
	}
	return &FaultRouter{routes: maps.Clone(r.routes)}
}
