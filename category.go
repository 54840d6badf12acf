package bufferedlogger

// faultCategory wraps the handler of one fault category (internal or
// business) and remembers whether any fault was recorded for it.
type faultCategory struct {
	handler *faultHandler
	owner   *BufferedLogger
	touched bool
}

func newFaultCategory(owner *BufferedLogger, dest Destination, router *FaultRouter, opts ...HandlerOption) *faultCategory {
	return &faultCategory{
		handler: newFaultHandler(dest, router, opts...),
		owner:   owner,
		touched: false,
	}
}

func (c *faultCategory) record(fault error) {
	c.handler.record(fault)
	c.touched = true
}

func (c *faultCategory) faultRouter() *FaultRouter {
	return c.handler.faultRouter()
}

// flush hands the owner to the handler so it can read the request token,
// then flushes only if the category was touched.
func (c *faultCategory) flush() {
	c.handler.acknowledgeOwner(c.owner)

	if c.touched {
		c.handler.flush()
	}
}

type categoryRecord struct {
	Touched bool `json:"touched"`
}

// snapshot reports the category as untouched when it was never created.
func (c *faultCategory) snapshot() categoryRecord {
	if c == nil {
		return categoryRecord{}
	}
	return categoryRecord{Touched: c.touched}
}
