package bufferedlogger

const undefinedToken = "undefined"

// HandlerOption configures a fault handler.
type HandlerOption func(*faultHandler)

// WithDefaultLevel sets the level used for faults whose route carries no
// level. The default is ERROR.
func WithDefaultLevel(level LogLevel) HandlerOption {
	return func(h *faultHandler) {
		h.defaultLevel = level
	}
}

// WithDuplicateErrorDelivery controls the extra ERROR write each fault
// receives on the handler's default destination after its routed write.
// It is enabled by default.
func WithDuplicateErrorDelivery(enabled bool) HandlerOption {
	return func(h *faultHandler) {
		h.duplicateErrors = enabled
	}
}

// faultHandler collects the faults of one category and delivers them to
// their routed destinations on flush.
type faultHandler struct {
	defaultDestination Destination
	router             *FaultRouter
	defaultLevel       LogLevel
	duplicateErrors    bool
	faults             []error
	owner              *BufferedLogger
}

func newFaultHandler(dest Destination, router *FaultRouter, opts ...HandlerOption) *faultHandler {
	h := &faultHandler{
		defaultDestination: dest,
		router:             router,
		defaultLevel:       ERROR,
		duplicateErrors:    true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *faultHandler) record(fault error) *faultHandler {
	h.faults = append(h.faults, fault)
	return h
}

// reset drops every recorded fault so the handler can be reused.
func (h *faultHandler) reset() *faultHandler {
	h.faults = nil
	return h
}

func (h *faultHandler) acknowledgeOwner(owner *BufferedLogger) {
	h.owner = owner
}

func (h *faultHandler) faultRouter() *FaultRouter {
	return h.router
}

// flush delivers the recorded faults in recording order. Recorded faults
// are kept; call reset to drop them.
func (h *faultHandler) flush() {
	token := undefinedToken
	if h.owner != nil {
		token = h.owner.request.Token()
	}
	message := "Exception in request [" + token + "]"

	for _, fault := range h.faults {
		dest, level := h.resolve(fault)

		if dest.IsEnabled(level) {
			dest.Write(level, message, fault)
		}

		if h.duplicateErrors {
			h.defaultDestination.WriteError(message, fault)
		}
	}
}

func (h *faultHandler) resolve(fault error) (Destination, LogLevel) {
	dest := h.defaultDestination
	level := h.defaultLevel

	if b, ok := h.router.Resolve(fault); ok {
		if d := b.Destination(); d != nil {
			dest = d
		}
		if l, set := b.Level(); set {
			level = l
		}
	}
	return dest, level
}
