package crypto

import "io"

// SetRandReaderForTesting replaces the secure random source.
// This is intended for testing only. Returns a function to restore the original reader.
func SetRandReaderForTesting(r io.Reader) func() {
	randMu.Lock()
	original := randReader
	randReader = r
	randMu.Unlock()

	return func() {
		randMu.Lock()
		randReader = original
		randMu.Unlock()
	}
}

// FailingReader is an io.Reader that always fails. Tests use it to
// simulate an unavailable entropy source.
type FailingReader struct {
	Err error
}

func (f FailingReader) Read([]byte) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return 0, io.ErrUnexpectedEOF
}
