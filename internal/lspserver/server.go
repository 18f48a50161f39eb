// Package lspserver implements a language server that runs cppcheck on
// open C and C++ documents and publishes the results as diagnostics.
//
// Analysis runs are debounced per document and carry monotonic sequence
// numbers, so a slow run that finishes after a newer one has already
// published cannot overwrite fresh results with stale ones.
package lspserver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/flintlab/flint/internal/config"
	"github.com/flintlab/flint/internal/cppcheck"
	"github.com/flintlab/flint/internal/diagnostics"
)

const serverName = "flint"

// checkableExtensions are the file extensions analyzed when the client
// does not report a C or C++ language ID.
var checkableExtensions = map[string]bool{
	".c": true, ".h": true,
	".cpp": true, ".hpp": true,
	".cc": true, ".hh": true,
	".cxx": true, ".hxx": true,
	".ipp": true, ".tpp": true,
}

// Server is the flint language server.
type Server struct {
	version string
	handler protocol.Handler
	log     commonlog.Logger

	store    *Store
	debounce *Debouncer
	runs     *runTracker

	// mu guards the config and everything derived from it. Swaps
	// happen on didChangeConfiguration; runs take a snapshot up front
	// so a mid-run swap cannot mix settings.
	mu       sync.Mutex
	cfg      *config.Config
	runner   *cppcheck.Runner
	strategy cppcheck.Strategy

	workspaceRoot string

	// toolMissingReported suppresses repeated showMessage popups while
	// the executable stays missing. Reset when the config changes.
	toolMissingReported bool
}

// New creates a server using the given configuration. The workspace
// root is learned at initialize time, which may trigger a config
// re-discovery rooted there.
func New(cfg *config.Config, version string) *Server {
	s := &Server{
		version:  version,
		log:      commonlog.GetLogger(serverName + ".lsp"),
		store:    NewStore(),
		debounce: NewDebouncer(cfg.DebounceDelay()),
		runs:     newRunTracker(),
	}
	s.applyConfig(cfg)

	s.handler = protocol.Handler{
		Initialize:                      s.initialize,
		Initialized:                     s.initialized,
		Shutdown:                        s.shutdown,
		SetTrace:                        s.setTrace,
		TextDocumentDidOpen:             s.didOpen,
		TextDocumentDidChange:           s.didChange,
		TextDocumentDidSave:             s.didSave,
		TextDocumentDidClose:            s.didClose,
		WorkspaceDidChangeConfiguration: s.didChangeConfiguration,
	}
	return s
}

// RunStdio serves LSP over stdin/stdout until the client disconnects.
func (s *Server) RunStdio() error {
	return server.NewServer(&s.handler, serverName, false).RunStdio()
}

// applyConfig installs a new configuration and the runner and strategy
// derived from it.
func (s *Server) applyConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	s.runner = cppcheck.NewRunner(cppcheck.WithPath(cfg.Tool.Path))
	s.strategy = cppcheck.StrategyFor(cfg.ModeValue())
	s.debounce.SetDelay(cfg.DebounceDelay())
	s.toolMissingReported = false
}

// snapshot returns the current config, runner, and strategy as one
// consistent view for the duration of a run.
func (s *Server) snapshot() (*config.Config, *cppcheck.Runner, cppcheck.Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg, s.runner, s.strategy
}

// reloadConfig re-discovers configuration from the workspace root,
// keeping the current one on failure. An explicitly given config file
// is never overridden by discovery.
func (s *Server) reloadConfig() {
	s.mu.Lock()
	explicit := s.cfg.ConfigFile != "" && config.Discover(s.workspaceRoot) != s.cfg.ConfigFile
	s.mu.Unlock()
	if explicit {
		return
	}

	root := s.workspaceRoot
	if root == "" {
		root = "."
	}
	cfg, err := config.Load(root)
	if err != nil {
		s.log.Errorf("config reload failed: %s", err.Error())
		return
	}
	s.applyConfig(cfg)
}

// checkable reports whether the document should be analyzed.
func checkable(doc Document) bool {
	switch strings.ToLower(doc.LanguageID) {
	case "c", "cpp":
		return true
	}
	path := UriToPath(doc.URI)
	if path == "" {
		return false
	}
	return checkableExtensions[strings.ToLower(filepath.Ext(path))]
}

// scheduleCheck queues a debounced analysis run for the URI. With the
// integration disabled, published diagnostics are cleared instead.
func (s *Server) scheduleCheck(ctx *glsp.Context, uri string) {
	cfg, _, _ := s.snapshot()
	if !cfg.Enabled {
		s.publish(ctx, uri, nil)
		return
	}

	doc, ok := s.store.Get(uri)
	if !ok || !checkable(doc) {
		return
	}

	s.debounce.Schedule(uri, func() {
		s.runCheck(ctx, uri)
	})
}

// runCheck performs one analysis run: clear published diagnostics,
// invoke cppcheck against the file on disk, map the findings onto the
// document snapshot, and publish the complete set if the run is still
// the newest one for the URI.
func (s *Server) runCheck(ctx *glsp.Context, uri string) {
	doc, ok := s.store.Get(uri)
	if !ok {
		return
	}

	cfg, runner, strategy := s.snapshot()
	seq := s.runs.begin(uri)

	// Old results refer to text that has changed; remove them before
	// the run rather than after, so the editor never shows markers at
	// stale positions.
	s.publish(ctx, uri, nil)

	path := UriToPath(uri)
	if path == "" {
		s.log.Warningf("skipping non-file URI %s", uri)
		return
	}

	inv := cfg.Invocation(s.workspaceRoot)
	args := strategy.Args(inv, path)

	dir := s.workspaceRoot
	if dir == "" {
		dir = filepath.Dir(path)
	}

	res, err := runner.Run(context.Background(), dir, args...)
	if err != nil {
		s.reportRunFailure(ctx, err)
		return
	}

	// A newer run was scheduled while cppcheck was working; skip the
	// parse and build, the newer run will publish.
	if !s.runs.current(uri, seq) {
		s.log.Debugf("superseded run %d for %s", seq, uri)
		return
	}

	fs, err := strategy.Parse(res)
	if err != nil {
		// Output the tool produced but we could not read. The pre-run
		// clear stands; no partial set becomes visible.
		s.log.Errorf("discarding run for %s: %s", uri, err.Error())
		return
	}

	_, structured := strategy.(cppcheck.XMLStrategy)
	builder := diagnostics.Builder{
		MinSeverity: cfg.MinSeverityLevel(),
		Standard:    cfg.StandardOrEmpty(),
		Structured:  structured,
	}
	diags := builder.Build(diagnostics.NewTextDocument(doc.Text), fs)

	if !s.runs.tryInstall(uri, seq) {
		s.log.Debugf("dropping stale run %d for %s", seq, uri)
		return
	}
	s.publish(ctx, uri, diags)
}

// reportRunFailure surfaces a failed tool invocation to the user. A
// missing executable is reported once per configuration, not once per
// keystroke.
func (s *Server) reportRunFailure(ctx *glsp.Context, err error) {
	if errors.Is(err, cppcheck.ErrToolNotFound) {
		s.mu.Lock()
		reported := s.toolMissingReported
		s.toolMissingReported = true
		s.mu.Unlock()
		if reported {
			return
		}
	}
	s.log.Errorf("cppcheck run failed: %s", err.Error())
	s.showError(ctx, fmt.Sprintf("cppcheck failed: %s", err.Error()))
}

func (s *Server) showError(ctx *glsp.Context, message string) {
	ctx.Notify(protocol.ServerWindowShowMessage, &protocol.ShowMessageParams{
		Type:    protocol.MessageTypeError,
		Message: message,
	})
}

// publish replaces the diagnostics for the URI. nil clears them.
func (s *Server) publish(ctx *glsp.Context, uri string, diags []diagnostics.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: toProtocolDiagnostics(diags),
	})
}
