package bufferedlogger

// Binding pairs a destination with an optional level.
//
// A Binding without a level tells the fault handler to use its own default
// level; a Binding without a destination falls back to the handler's default
// destination.
type Binding struct {
	destination Destination
	level       LogLevel
	hasLevel    bool
}

// NewBinding returns a binding that routes to dest at the handler's default level.
func NewBinding(dest Destination) Binding {
	return Binding{destination: dest}
}

// NewBindingWithLevel returns a binding that routes to dest at level.
func NewBindingWithLevel(dest Destination, level LogLevel) Binding {
	return Binding{destination: dest, level: level, hasLevel: true}
}

// Destination returns the bound destination, or nil when unset.
func (b Binding) Destination() Destination {
	return b.destination
}

// Level returns the bound level and whether one was set.
func (b Binding) Level() (LogLevel, bool) {
	return b.level, b.hasLevel
}
