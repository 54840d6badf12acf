package bufferedlogger

import (
	"encoding/json"
	"fmt"
)

type options struct {
	internalDest Destination
	businessDest Destination
	serializer   Serializer
	handlerOpts  []HandlerOption
}

// Option configures a BufferedLogger at construction.
type Option func(*options)

// WithInternalDestination creates the internal fault category up front with
// dest as its default destination and no router.
func WithInternalDestination(dest Destination) Option {
	return func(o *options) {
		o.internalDest = dest
	}
}

// WithBusinessDestination creates the business fault category up front with
// dest as its default destination and no router.
func WithBusinessDestination(dest Destination) Option {
	return func(o *options) {
		o.businessDest = dest
	}
}

// WithSerializer replaces the JSON serializer used for the request record.
func WithSerializer(s Serializer) Option {
	return func(o *options) {
		if s != nil {
			o.serializer = s
		}
	}
}

// WithHandlerOptions applies opts to every fault category the logger
// creates, before any options passed to Create*FaultHandler.
func WithHandlerOptions(opts ...HandlerOption) Option {
	return func(o *options) {
		o.handlerOpts = append(o.handlerOpts, opts...)
	}
}

// BufferedLogger buffers everything that happens during one request and
// writes it out on Flush.
//
// Progress messages end up in a single structured INFO record on the main
// destination. Faults are kept in two categories, internal and business,
// each with its own default destination and optional FaultRouter.
//
// A BufferedLogger serves exactly one request and is not safe for
// concurrent use. Call Flush once, when the request is done.
type BufferedLogger struct {
	request     Request
	messages    []string
	main        Destination
	internal    *faultCategory
	business    *faultCategory
	serializer  Serializer
	handlerOpts []HandlerOption
}

// New creates a BufferedLogger for req that writes its record to main.
//
// Example:
//
//	logger := bufferedlogger.New(
//	    bufferedlogger.NewRequest("WWED033A", bufferedlogger.Param("param", "val")),
//	    mainLogger,
//	    bufferedlogger.WithInternalDestination(errorLogger),
//	)
//	defer logger.Flush()
func New(req Request, main Destination, opts ...Option) *BufferedLogger {
	o := options{serializer: JSONSerializer{}}
	for _, opt := range opts {
		opt(&o)
	}

	l := &BufferedLogger{
		request:     req,
		messages:    []string{},
		main:        main,
		serializer:  o.serializer,
		handlerOpts: o.handlerOpts,
	}
	if o.internalDest != nil {
		l.internal = l.newCategory(o.internalDest, nil)
	}
	if o.businessDest != nil {
		l.business = l.newCategory(o.businessDest, nil)
	}
	return l
}

// Append buffers a progress message. Nothing is written until Flush.
func (l *BufferedLogger) Append(message string) *BufferedLogger {
	l.messages = append(l.messages, message)
	return l
}

// Appendf buffers a formatted progress message.
func (l *BufferedLogger) Appendf(format string, args ...any) *BufferedLogger {
	return l.Append(fmt.Sprintf(format, args...))
}

// RecordInternalFault buffers a fault caused by the system itself.
func (l *BufferedLogger) RecordInternalFault(fault error) *BufferedLogger {
	l.internalFaults().record(fault)
	return l
}

// RecordBusinessFault buffers a fault caused by a business rule.
func (l *BufferedLogger) RecordBusinessFault(fault error) *BufferedLogger {
	l.businessFaults().record(fault)
	return l
}

// CreateInternalFaultHandler replaces the internal fault category. Faults
// recorded for the category before the call are discarded.
func (l *BufferedLogger) CreateInternalFaultHandler(dest Destination, router *FaultRouter, opts ...HandlerOption) *BufferedLogger {
	l.internal = l.newCategory(dest, router, opts...)
	return l
}

// CreateBusinessFaultHandler replaces the business fault category. Faults
// recorded for the category before the call are discarded.
func (l *BufferedLogger) CreateBusinessFaultHandler(dest Destination, router *FaultRouter, opts ...HandlerOption) *BufferedLogger {
	l.business = l.newCategory(dest, router, opts...)
	return l
}

// InternalFaultRouter returns the router of the internal category, or nil
// if the category has no router or was never created.
func (l *BufferedLogger) InternalFaultRouter() *FaultRouter {
	if l.internal == nil {
		return nil
	}
	return l.internal.faultRouter()
}

// BusinessFaultRouter returns the router of the business category, or nil
// if the category has no router or was never created.
func (l *BufferedLogger) BusinessFaultRouter() *FaultRouter {
	if l.business == nil {
		return nil
	}
	return l.business.faultRouter()
}

// Request returns the request this logger reports on.
func (l *BufferedLogger) Request() Request {
	return l.request
}

// Messages returns a copy of the buffered messages.
func (l *BufferedLogger) Messages() []string {
	return append([]string(nil), l.messages...)
}

// Flush writes the request record to the main destination at INFO, then
// delivers the internal faults, then the business faults.
//
// The record is only serialized when the main destination has INFO
// enabled. Faults are delivered either way.
func (l *BufferedLogger) Flush() {
	internal := l.internalFaults()
	business := l.businessFaults()

	if l.main.IsEnabled(INFO) {
		l.main.Write(INFO, serializeOrReport(l.serializer, l), nil)
	}

	internal.flush()
	business.flush()
}

// internalFaults returns the internal category, creating it with the main
// destination and no router on first use.
func (l *BufferedLogger) internalFaults() *faultCategory {
	if l.internal == nil {
		l.internal = l.newCategory(l.main, nil)
	}
	return l.internal
}

// businessFaults returns the business category, creating it with the main
// destination and no router on first use.
func (l *BufferedLogger) businessFaults() *faultCategory {
	if l.business == nil {
		l.business = l.newCategory(l.main, nil)
	}
	return l.business
}

func (l *BufferedLogger) newCategory(dest Destination, router *FaultRouter, opts ...HandlerOption) *faultCategory {
	all := make([]HandlerOption, 0, len(l.handlerOpts)+len(opts))
	all = append(all, l.handlerOpts...)
	all = append(all, opts...)
	return newFaultCategory(l, dest, router, all...)
}

// record is the serialized form of a BufferedLogger.
type record struct {
	Request        Request        `json:"request"`
	Messages       []string       `json:"messages"`
	InternalFaults categoryRecord `json:"internal_faults"`
	BusinessFaults categoryRecord `json:"business_faults"`
}

// MarshalJSON exposes the request, the messages and the touched flag of each
// fault category. Destinations, routers and faults are never serialized.
func (l *BufferedLogger) MarshalJSON() ([]byte, error) {
	messages := l.messages
	if messages == nil {
		messages = []string{}
	}
	return json.Marshal(record{
		Request:        l.request,
		Messages:       messages,
		InternalFaults: l.internal.snapshot(),
		BusinessFaults: l.business.snapshot(),
	})
}
