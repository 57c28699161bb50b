// Package logging builds the zap logger used for technical logs.
// Audit records go through internal/audit, never through this logger.
package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config selects the level and encoding.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// ParseLevel maps a level name to a zap level. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return l, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// New builds a logger writing to stderr.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zc zap.Config
	switch cfg.Format {
	case "", FormatJSON:
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "ts"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case FormatConsole:
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

var (
	globalMu sync.RWMutex
	global   = zap.NewNop()
)

// L returns the process logger; a no-op logger until SetGlobal is called.
func L() *zap.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// SetGlobal installs l as the process logger and returns a function that
// restores the previous one.
func SetGlobal(l *zap.Logger) func() {
	globalMu.Lock()
	defer globalMu.Unlock()
	prev := global
	if l == nil {
		l = zap.NewNop()
	}
	global = l
	return func() {
		globalMu.Lock()
		defer globalMu.Unlock()
		global = prev
	}
}
