package lspserver

import "sync"

// Document is an open editor document tracked by the server.
type Document struct {
	URI        string
	LanguageID string
	Version    int32
	Text       string
}

// Store holds the open documents, keyed by URI.
type Store struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{docs: map[string]Document{}}
}

// Open registers a newly opened document.
func (s *Store) Open(uri, languageID string, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = Document{URI: uri, LanguageID: languageID, Version: version, Text: text}
}

// Update replaces the text of an open document. Unknown URIs are
// registered so a didChange arriving before didOpen is not lost.
func (s *Store) Update(uri string, version int32, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := s.docs[uri]
	doc.URI = uri
	doc.Version = version
	doc.Text = text
	s.docs[uri] = doc
}

// Get returns a snapshot of the document.
func (s *Store) Get(uri string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[uri]
	return doc, ok
}

// Close drops the document.
func (s *Store) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// URIs returns the URIs of all open documents.
func (s *Store) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uris := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		uris = append(uris, uri)
	}
	return uris
}
