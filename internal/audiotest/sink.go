// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"errors"
	"io"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	ErrWriteFailed = errors.New("audiotest: write failed")
	ErrOpenFailed  = errors.New("audiotest: open failed")
	ErrCloseFailed = errors.New("audiotest: close failed")
)

// FailingWriter accepts After writes and then fails every following one.
type FailingWriter struct {
	After  int
	writes int
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	if w.writes >= w.After {
		return 0, ErrWriteFailed
	}
	w.writes++
	return len(p), nil
}

// ShortWriter accepts at most Limit bytes per call without reporting an
// error, violating the io.Writer contract the way broken sinks do.
type ShortWriter struct {
	Limit int
}

func (w *ShortWriter) Write(p []byte) (int, error) {
	return min(len(p), w.Limit), nil
}

// BufferSink is an in-memory io.WriteCloser that records whether it was
// closed. It is safe to inspect after the writer goroutine finished.
type BufferSink struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	closed   bool
	w        io.Writer
	closeErr error
}

// NewBufferSink returns a sink writing into memory.
func NewBufferSink() *BufferSink {
	s := &BufferSink{}
	s.w = &s.buf
	return s
}

// NewFailingSink returns a sink whose writes go to w and whose Close
// returns closeErr.
func NewFailingSink(w io.Writer, closeErr error) *BufferSink {
	return &BufferSink{w: w, closeErr: closeErr}
}

func (s *BufferSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *BufferSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.closeErr
}

func (s *BufferSink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.buf.Bytes())
}

func (s *BufferSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Opener returns a function usable as a sink opener that hands out s.
func (s *BufferSink) Opener() func() (io.WriteCloser, error) {
	return func() (io.WriteCloser, error) { return s, nil }
}

// FailingOpener is a sink opener that always fails with ErrOpenFailed.
func FailingOpener() (io.WriteCloser, error) {
	return nil, ErrOpenFailed
}

// AssertNoGoroutineLeaks checks that the goroutine count returns to baseline within a deadline.
func AssertNoGoroutineLeaks(t *testing.T, baseline int, margin int) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		current := runtime.NumGoroutine()
		if current <= baseline+margin {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("goroutine leak: baseline=%d, current=%d, margin=%d", baseline, runtime.NumGoroutine(), margin)
}
