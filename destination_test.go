package bufferedlogger

// delivery is one call observed by a recordingDestination.
type delivery struct {
	level   LogLevel
	message string
	fault   error
	dup     bool
}

// recordingDestination records every write. Levels below minLevel are
// reported as disabled.
type recordingDestination struct {
	minLevel   LogLevel
	deliveries []delivery
}

func newRecordingDestination(minLevel LogLevel) *recordingDestination {
	return &recordingDestination{minLevel: minLevel}
}

func (d *recordingDestination) IsEnabled(level LogLevel) bool {
	return level >= d.minLevel
}

func (d *recordingDestination) Write(level LogLevel, message string, fault error) {
	d.deliveries = append(d.deliveries, delivery{level: level, message: message, fault: fault})
}

func (d *recordingDestination) WriteError(message string, fault error) {
	d.deliveries = append(d.deliveries, delivery{level: ERROR, message: message, fault: fault, dup: true})
}

func (d *recordingDestination) routed() []delivery {
	var out []delivery
	for _, del := range d.deliveries {
		if !del.dup {
			out = append(out, del)
		}
	}
	return out
}

func (d *recordingDestination) duplicates() []delivery {
	var out []delivery
	for _, del := range d.deliveries {
		if del.dup {
			out = append(out, del)
		}
	}
	return out
}

type parseError struct{ offset int }

func (e *parseError) Error() string { return "parse failure" }

type illegalArgumentError struct{}

func (illegalArgumentError) Error() string { return "illegal argument" }

type sqlError struct{}

func (*sqlError) Error() string { return "sql failure" }
