package testutil

import (
	"bytes"
	"io"
	"sync"

	"github.com/dtroode/fingerprint-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}

// SyncBuffer is a goroutine-safe bytes.Buffer for asserting on log output.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// MakeBufferLogger returns a debug-level logger and the buffer it writes to.
func MakeBufferLogger() (*logger.Logger, *SyncBuffer) {
	buf := &SyncBuffer{}
	return logger.NewWithWriter(buf, -4), buf
}
