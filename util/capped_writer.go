package util

import (
	"bytes"
	"sync"
)

// CappedWriter keeps the first MaxBytes bytes written to it and discards
// the rest. It is safe for concurrent use, so the output and error
// streams of a process can share one.
type CappedWriter struct {
	MaxBytes int

	mu        sync.Mutex
	buf       bytes.Buffer
	truncated bool
}

// Write never fails: bytes past MaxBytes are dropped and the writer is
// marked truncated.
func (cw *CappedWriter) Write(in []byte) (int, error) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	remaining := cw.MaxBytes - cw.buf.Len()
	if remaining < 0 {
		remaining = 0
	}
	if len(in) > remaining {
		cw.truncated = true
		cw.buf.Write(in[:remaining])
		return len(in), nil
	}

	return cw.buf.Write(in)
}

// IsTruncated reports whether any write was dropped.
func (cw *CappedWriter) IsTruncated() bool {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.truncated
}

func (cw *CappedWriter) String() string {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.buf.String()
}
