package log

// MultiLogger fans one event out to several loggers, e.g. a
// SlogAdapter for the console alongside a FileLogger for the
// persisted bind.tlog trace.
type MultiLogger struct {
	loggers []Logger
}

func NewMultiLogger(loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers}
}

func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
