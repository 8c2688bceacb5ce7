package log

import "sync"

// MultiLogger sends events to multiple loggers.
// Useful when you want both console output (via SlogAdapter)
// and file output (via FileLogger) simultaneously.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a MultiLogger that sends events to all provided
// loggers. Nil loggers are skipped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Log sends the event to all configured loggers.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// MemoryLogger keeps events in memory. It backs the interactive "trace"
// command and tests.
type MemoryLogger struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewMemoryLogger creates a MemoryLogger retaining at most limit events
// (0 means unbounded). When full, the oldest events are dropped.
func NewMemoryLogger(limit int) *MemoryLogger {
	return &MemoryLogger{limit: limit}
}

// Log appends the event.
func (m *MemoryLogger) Log(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	if m.limit > 0 && len(m.events) > m.limit {
		m.events = append(m.events[:0:0], m.events[len(m.events)-m.limit:]...)
	}
}

// Events returns a copy of the retained events, oldest first.
func (m *MemoryLogger) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Reset drops all retained events.
func (m *MemoryLogger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = (*MultiLogger)(nil)
	_ Logger = (*MemoryLogger)(nil)
)
