package cppcheck

import (
	"sync"

	"github.com/armon/circbuf"
)

// tailWriter is an io.Writer that keeps only the last N bytes written,
// so a noisy cppcheck run cannot grow process memory without bound while
// still leaving a useful tail for error reporting. Safe for concurrent
// use; stdout and stderr may share one instance.
type tailWriter struct {
	mu   sync.Mutex
	ring *circbuf.Buffer
}

func newTailWriter(limit int64) *tailWriter {
	if limit <= 0 {
		limit = 1
	}
	ring, err := circbuf.NewBuffer(limit)
	if err != nil {
		return &tailWriter{}
	}
	return &tailWriter{ring: ring}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	if w.ring == nil || len(p) == 0 {
		return len(p), nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ring.Write(p)
}

// Tail returns the retained output tail.
func (w *tailWriter) Tail() string {
	if w.ring == nil {
		return ""
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ring.String()
}
