package lspserver

import (
	"sync"
	"testing"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/flintlab/flint/internal/config"
)

// notifyRecorder captures server-to-client notifications.
type notifyRecorder struct {
	mu        sync.Mutex
	published []*protocol.PublishDiagnosticsParams
	messages  []*protocol.ShowMessageParams
}

func (r *notifyRecorder) context() *glsp.Context {
	return &glsp.Context{
		Notify: func(method string, params any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			switch method {
			case protocol.ServerTextDocumentPublishDiagnostics:
				r.published = append(r.published, params.(*protocol.PublishDiagnosticsParams))
			case protocol.ServerWindowShowMessage:
				r.messages = append(r.messages, params.(*protocol.ShowMessageParams))
			}
		},
	}
}

func (r *notifyRecorder) publishCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.published)
}

func (r *notifyRecorder) messageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func TestCheckable(t *testing.T) {
	tests := []struct {
		doc  Document
		want bool
	}{
		{Document{URI: "file:///a.c", LanguageID: "c"}, true},
		{Document{URI: "file:///a.cpp", LanguageID: "cpp"}, true},
		{Document{URI: "file:///a.cc", LanguageID: ""}, true},
		{Document{URI: "file:///a.HPP", LanguageID: ""}, true},
		{Document{URI: "file:///a.md", LanguageID: "markdown"}, false},
		{Document{URI: "file:///a.go", LanguageID: "go"}, false},
		{Document{URI: "untitled:Untitled-1", LanguageID: ""}, false},
	}
	for _, tt := range tests {
		if got := checkable(tt.doc); got != tt.want {
			t.Errorf("checkable(%q, %q) = %v, want %v", tt.doc.URI, tt.doc.LanguageID, got, tt.want)
		}
	}
}

func TestDidOpenDisabledClearsDiagnostics(t *testing.T) {
	cfg := config.Default()
	cfg.Enabled = false
	s := New(cfg, "test")

	rec := &notifyRecorder{}
	err := s.didOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        "file:///tmp/a.c",
			LanguageID: "c",
			Version:    1,
			Text:       "int main() {}\n",
		},
	})
	if err != nil {
		t.Fatalf("didOpen error = %v", err)
	}

	if rec.publishCount() != 1 {
		t.Fatalf("expected 1 publish, got %d", rec.publishCount())
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.published[0].Diagnostics) != 0 {
		t.Errorf("disabled server must publish an empty set, got %d", len(rec.published[0].Diagnostics))
	}
}

func TestDidOpenNonCheckableSkipsRun(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, "test")

	rec := &notifyRecorder{}
	err := s.didOpen(rec.context(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        "file:///tmp/notes.md",
			LanguageID: "markdown",
			Version:    1,
			Text:       "# notes\n",
		},
	})
	if err != nil {
		t.Fatalf("didOpen error = %v", err)
	}

	if rec.publishCount() != 0 {
		t.Errorf("expected no publishes for non-checkable document, got %d", rec.publishCount())
	}
	if _, ok := s.store.Get("file:///tmp/notes.md"); !ok {
		t.Error("document should still be stored")
	}
}

func TestRunCheckToolMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Tool.Path = "/nonexistent/cppcheck-for-test"
	s := New(cfg, "test")
	s.store.Open("file:///tmp/a.c", "c", 1, "int main() {}\n")

	rec := &notifyRecorder{}
	s.runCheck(rec.context(), "file:///tmp/a.c")

	// Diagnostics are cleared up front; the failure surfaces as a
	// showMessage, never as a diagnostic.
	if rec.publishCount() != 1 {
		t.Fatalf("expected 1 publish (the clear), got %d", rec.publishCount())
	}
	if rec.messageCount() != 1 {
		t.Fatalf("expected 1 showMessage, got %d", rec.messageCount())
	}
	rec.mu.Lock()
	if rec.messages[0].Type != protocol.MessageTypeError {
		t.Errorf("showMessage type = %v, want error", rec.messages[0].Type)
	}
	rec.mu.Unlock()

	// A second failing run must not show the same popup again.
	s.runCheck(rec.context(), "file:///tmp/a.c")
	if rec.messageCount() != 1 {
		t.Errorf("missing tool reported %d times, want 1", rec.messageCount())
	}
}

func TestDidCloseDropsState(t *testing.T) {
	cfg := config.Default()
	s := New(cfg, "test")
	s.store.Open("file:///tmp/a.c", "c", 1, "int main() {}\n")

	rec := &notifyRecorder{}
	err := s.didClose(rec.context(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///tmp/a.c"},
	})
	if err != nil {
		t.Fatalf("didClose error = %v", err)
	}

	if _, ok := s.store.Get("file:///tmp/a.c"); ok {
		t.Error("document should be dropped on close")
	}
	if rec.publishCount() != 1 {
		t.Fatalf("expected 1 publish (the clear), got %d", rec.publishCount())
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.published[0].Diagnostics) != 0 {
		t.Error("close must clear published diagnostics")
	}
}

func TestDidChangeUpdatesDocument(t *testing.T) {
	cfg := config.Default()
	cfg.Enabled = false // keep the run path out of this test
	s := New(cfg, "test")
	s.store.Open("file:///tmp/a.c", "c", 1, "old")

	rec := &notifyRecorder{}
	err := s.didChange(rec.context(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///tmp/a.c"},
			Version:                2,
		},
		ContentChanges: []any{
			protocol.TextDocumentContentChangeEventWhole{Text: "new"},
		},
	})
	if err != nil {
		t.Fatalf("didChange error = %v", err)
	}

	doc, _ := s.store.Get("file:///tmp/a.c")
	if doc.Text != "new" || doc.Version != 2 {
		t.Errorf("unexpected document after change: %+v", doc)
	}
}
