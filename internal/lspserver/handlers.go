package lspserver

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) initialize(_ *glsp.Context, params *protocol.InitializeParams) (any, error) {
	root := ""
	if params.RootURI != nil {
		root = UriToPath(*params.RootURI)
	} else if params.RootPath != nil {
		root = *params.RootPath
	}
	s.workspaceRoot = root
	s.reloadConfig()

	full := protocol.TextDocumentSyncKindFull
	capabilities := protocol.ServerCapabilities{
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: &protocol.True,
			Change:    &full,
			Save:      protocol.SaveOptions{IncludeText: &protocol.False},
		},
	}

	version := s.version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(_ *glsp.Context, _ *protocol.InitializedParams) error {
	return nil
}

func (s *Server) shutdown(_ *glsp.Context) error {
	s.debounce.Stop()
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(_ *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.store.Open(uri, params.TextDocument.LanguageID, int32(params.TextDocument.Version), params.TextDocument.Text)
	s.scheduleCheck(ctx, uri)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	text, ok := fullText(params.ContentChanges[len(params.ContentChanges)-1])
	if !ok {
		return nil
	}

	uri := string(params.TextDocument.URI)
	s.store.Update(uri, int32(params.TextDocument.Version), text)
	s.scheduleCheck(ctx, uri)
	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.scheduleCheck(ctx, string(params.TextDocument.URI))
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.debounce.Cancel(uri)
	s.store.Close(uri)
	s.runs.drop(uri)
	s.publish(ctx, uri, nil)
	return nil
}

func (s *Server) didChangeConfiguration(ctx *glsp.Context, _ *protocol.DidChangeConfigurationParams) error {
	s.reloadConfig()
	for _, uri := range s.store.URIs() {
		s.scheduleCheck(ctx, uri)
	}
	return nil
}

// fullText extracts the document text from a change event. The server
// announces full sync only, so incremental events are not expected.
func fullText(change any) (string, bool) {
	switch typed := change.(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return typed.Text, true
	case protocol.TextDocumentContentChangeEvent:
		return typed.Text, true
	default:
		return "", false
	}
}
