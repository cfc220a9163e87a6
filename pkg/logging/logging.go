package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/decred/slog"
)

// Backend wraps a slog backend and hands out per-subsystem loggers that
// all share the same debug level.
type Backend struct {
	backend *slog.Backend
	level   slog.Level

	mu      sync.Mutex
	loggers map[string]slog.Logger
}

// NewBackend creates a logging backend writing to w (stderr when nil).
// debugLevel is one of trace, debug, info, warn, error, critical.
func NewBackend(w io.Writer, debugLevel string) (*Backend, error) {
	if w == nil {
		w = os.Stderr
	}
	level, ok := slog.LevelFromString(debugLevel)
	if !ok {
		return nil, fmt.Errorf("unknown debug level %q", debugLevel)
	}
	return &Backend{
		backend: slog.NewBackend(w),
		level:   level,
		loggers: make(map[string]slog.Logger),
	}, nil
}

// Logger returns the logger for the given subsystem tag, creating it on
// first use.
func (b *Backend) Logger(subsystem string) slog.Logger {
	b.mu.Lock()
	defer b.mu.Unlock()

	if log, ok := b.loggers[subsystem]; ok {
		return log
	}
	log := b.backend.Logger(subsystem)
	log.SetLevel(b.level)
	b.loggers[subsystem] = log
	return log
}
