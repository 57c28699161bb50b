package audit

// Writer persists audit events.
//
// Implementations must set the hash chain (HashPrev, Hash), sync before
// returning, and return an error on any failure so the audited operation
// fails with it.
type Writer interface {
	Write(event *Event) error
	Close() error

	// LastHash returns GenesisHash before the first event.
	LastHash() string
}

// NopWriter discards all events. Used when audit logging is disabled.
type NopWriter struct{}

var _ Writer = NopWriter{}

func (NopWriter) Write(*Event) error { return nil }
func (NopWriter) Close() error       { return nil }
func (NopWriter) LastHash() string   { return GenesisHash }

// MultiWriter writes to several writers and fails on the first failure.
type MultiWriter struct {
	writers []Writer
}

var _ Writer = (*MultiWriter)(nil)

func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) Write(event *Event) error {
	for _, w := range m.writers {
		if err := w.Write(event); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) Close() error {
	var lastErr error
	for _, w := range m.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// LastHash returns the chain head of the first writer.
func (m *MultiWriter) LastHash() string {
	if len(m.writers) > 0 {
		return m.writers[0].LastHash()
	}
	return GenesisHash
}
