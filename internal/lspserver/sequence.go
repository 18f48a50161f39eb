package lspserver

import "sync"

// runTracker assigns monotonically increasing sequence numbers to
// analysis runs per document, and decides whether a completed run is
// still current. A run that finishes after a newer run has already
// installed its results is stale and must be discarded.
type runTracker struct {
	mu        sync.Mutex
	next      map[string]uint64
	installed map[string]uint64
}

func newRunTracker() *runTracker {
	return &runTracker{
		next:      map[string]uint64{},
		installed: map[string]uint64{},
	}
}

// begin reserves the next sequence number for the URI.
func (t *runTracker) begin(uri string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next[uri]++
	return t.next[uri]
}

// tryInstall reports whether the run with the given sequence number may
// publish its results, and records it as installed if so. Out-of-order
// completions lose: once a newer run has installed, older sequence
// numbers are rejected.
func (t *runTracker) tryInstall(uri string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if seq <= t.installed[uri] {
		return false
	}
	t.installed[uri] = seq
	return true
}

// current reports whether seq is still the newest sequence handed out
// for the URI. Runs can use it to bail out early before spawning the
// tool.
func (t *runTracker) current(uri string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.next[uri] == seq
}

// drop forgets all state for the URI.
func (t *runTracker) drop(uri string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.next, uri)
	delete(t.installed, uri)
}
