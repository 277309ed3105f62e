package log

import (
	"sync"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults applied when RotatingConfig fields are zero.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 5
)

// RotatingConfig configures size-based rotation for a RotatingLogger.
type RotatingConfig struct {
	// Path is the active log file. Rotated files are placed next to it.
	Path string

	// MaxSizeMB is the file size that triggers rotation.
	MaxSizeMB int

	// MaxBackups is the number of rotated files to retain.
	MaxBackups int

	// MaxAgeDays removes rotated files older than this. Zero keeps
	// them until MaxBackups evicts them.
	MaxAgeDays int

	// Compress gzips rotated files.
	Compress bool
}

// RotatingLogger writes session events to a size-rotated CBOR log file.
// Each event is written in a single call, so rotation boundaries always
// fall between events and every rotated file is a readable event stream
// on its own.
type RotatingLogger struct {
	mu      sync.Mutex
	out     *lumberjack.Logger
	encoder *cbor.Encoder
	closed  bool
}

// NewRotatingLogger creates a RotatingLogger writing to cfg.Path.
// The file is created lazily on the first event.
func NewRotatingLogger(cfg RotatingConfig) *RotatingLogger {
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = DefaultMaxSizeMB
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = DefaultMaxBackups
	}

	out := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return &RotatingLogger{
		out:     out,
		encoder: NewEncoder(out),
	}
}

// Log writes an event to the rotated log file.
// This method is safe for concurrent use.
func (l *RotatingLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Ignore encoding errors - logging should not disrupt the session
	_ = l.encoder.Encode(event)
}

// Close closes the underlying file. Safe to call multiple times; later
// Log calls are silently ignored.
func (l *RotatingLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}

	l.closed = true
	return l.out.Close()
}

// Compile-time interface satisfaction check.
var _ Logger = (*RotatingLogger)(nil)
