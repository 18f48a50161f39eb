package lspserver

import "testing"

func TestRunTrackerOrdering(t *testing.T) {
	tr := newRunTracker()

	first := tr.begin("uri")
	second := tr.begin("uri")
	if second <= first {
		t.Fatalf("sequence numbers not increasing: %d then %d", first, second)
	}

	// The newer run completes first and installs.
	if !tr.tryInstall("uri", second) {
		t.Error("newest run should install")
	}
	// The older run finishes late; its results are stale.
	if tr.tryInstall("uri", first) {
		t.Error("stale run must not install")
	}
}

func TestRunTrackerInOrderCompletions(t *testing.T) {
	tr := newRunTracker()

	first := tr.begin("uri")
	if !tr.tryInstall("uri", first) {
		t.Error("first run should install")
	}
	second := tr.begin("uri")
	if !tr.tryInstall("uri", second) {
		t.Error("second run should install after first")
	}
}

func TestRunTrackerPerURI(t *testing.T) {
	tr := newRunTracker()

	a := tr.begin("a")
	b := tr.begin("b")
	if !tr.tryInstall("b", b) {
		t.Error("run for b should install")
	}
	if !tr.tryInstall("a", a) {
		t.Error("runs for different URIs must not interfere")
	}
}

func TestRunTrackerCurrent(t *testing.T) {
	tr := newRunTracker()

	first := tr.begin("uri")
	if !tr.current("uri", first) {
		t.Error("only run should be current")
	}
	second := tr.begin("uri")
	if tr.current("uri", first) {
		t.Error("superseded run reported current")
	}
	if !tr.current("uri", second) {
		t.Error("newest run should be current")
	}
}

func TestRunTrackerDrop(t *testing.T) {
	tr := newRunTracker()

	seq := tr.begin("uri")
	tr.tryInstall("uri", seq)
	tr.drop("uri")

	// After a drop the URI starts fresh.
	if got := tr.begin("uri"); got != 1 {
		t.Errorf("begin after drop = %d, want 1", got)
	}
	if !tr.tryInstall("uri", 1) {
		t.Error("fresh run after drop should install")
	}
}
