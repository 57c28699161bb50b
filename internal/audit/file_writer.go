package audit

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

const (
	// GenesisHash is the HashPrev of the first event in a log.
	GenesisHash = "sha256:genesis"

	HashPrefix = "sha256:"
)

// maxLineSize bounds one JSONL record.
const maxLineSize = 1 << 20

// FileWriter appends events to a JSONL file, one hash-chained event per line.
type FileWriter struct {
	mu       sync.Mutex
	file     *os.File
	lastHash string
	path     string
}

var _ Writer = (*FileWriter)(nil)

// NewFileWriter opens path for appending, continuing the chain of any
// events already in the file.
func NewFileWriter(path string) (*FileWriter, error) {
	lastHash, err := lastHashOf(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read last hash from existing log: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	return &FileWriter{
		file:     file,
		lastHash: lastHash,
		path:     path,
	}, nil
}

func lastHashOf(path string) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return GenesisHash, nil
	}
	if err != nil {
		return "", err
	}
	defer f.Close()

	last := GenesisHash
	err = scanLines(f, func(_ int, line []byte) error {
		var ev struct {
			Hash string `json:"hash"`
		}
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("failed to parse event: %w", err)
		}
		if ev.Hash == "" {
			return fmt.Errorf("event has no hash")
		}
		last = ev.Hash
		return nil
	})
	return last, err
}

// Write chains, appends and syncs one event.
func (w *FileWriter) Write(event *Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("audit log %s is closed", w.path)
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	event.HashPrev = w.lastHash
	canonical, err := event.CanonicalJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	event.Hash = calculateHash(canonical, w.lastHash)

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync audit log: %w", err)
	}

	w.lastHash = event.Hash
	return nil
}

func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	if err := w.file.Sync(); err != nil {
		return err
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *FileWriter) LastHash() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastHash
}

func (w *FileWriter) Path() string {
	return w.path
}

// calculateHash computes SHA256(data || prevHash).
func calculateHash(data []byte, prevHash string) string {
	h := sha256.New()
	_, _ = h.Write(data)
	_, _ = h.Write([]byte(prevHash))
	return HashPrefix + hex.EncodeToString(h.Sum(nil))
}

// VerifyChain checks every event of the log at path and returns the number
// of valid events before the first broken link.
func VerifyChain(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read audit log: %w", err)
	}
	defer f.Close()
	return verifyChain(f)
}

func verifyChain(r io.Reader) (int, error) {
	expectedPrev := GenesisHash
	valid := 0

	err := scanLines(r, func(lineNum int, line []byte) error {
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			return fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		if event.HashPrev != expectedPrev {
			return fmt.Errorf("line %d: hash chain broken: expected prev=%s, got prev=%s",
				lineNum, expectedPrev, event.HashPrev)
		}

		canonical, err := event.CanonicalJSON()
		if err != nil {
			return fmt.Errorf("line %d: failed to serialize: %w", lineNum, err)
		}
		if want := calculateHash(canonical, event.HashPrev); event.Hash != want {
			return fmt.Errorf("line %d: hash mismatch: expected=%s, got=%s", lineNum, want, event.Hash)
		}

		expectedPrev = event.Hash
		valid++
		return nil
	})
	return valid, err
}

// scanLines calls fn for every non-blank line with its 1-based number.
func scanLines(r io.Reader, fn func(lineNum int, line []byte) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	return nil
}
