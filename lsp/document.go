// Copyright © 2024 The Lithium authors

package lsp

import (
	"context"
	"sync"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/command"
	"github.com/barmalei/lithium/syntax"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string
	text    *buffer.Text
	tagErr  error
}

// tag rebuilds the scope tagged buffer of the document content.
func (d *Document) tag() {
	d.text, d.tagErr = syntax.Tag(context.Background(), uriToPath(d.URI), d.Content)
	if d.tagErr != nil {
		log.Debugf("%s: %v", d.URI, d.tagErr)
	}
}

// snapshot returns the tagged buffer and content under the lock.
func (d *Document) snapshot() (*buffer.Text, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text, d.Content
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store and tags it.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	doc.tag()
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync) and tags it again.
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	doc.tag()
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns the open documents.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}

// commandContext builds the command context of doc with a cursor at pos.
// It returns nil when the document could not be tagged.
func (s *Server) commandContext(doc *Document, pos *protocol.Position) *command.Context {
	text, content := doc.snapshot()
	if text == nil {
		return nil
	}
	c := &command.Context{
		Ctx:      context.Background(),
		Buffer:   text,
		Config:   s.cfg,
		Runner:   s.runner,
		Resolver: s.resolver,
		Fs:       s.fs,
	}
	if pos != nil {
		p, err := toPoint(content, *pos)
		if err != nil {
			log.Debugf("%s: %v", doc.URI, err)
			return nil
		}
		c.Selection = []buffer.Region{{Start: p, End: p}}
	}
	return c
}
