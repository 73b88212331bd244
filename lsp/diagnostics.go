// Copyright © 2024 The Lithium authors

package lsp

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/runner"
)

const debounceDelay = 300 * time.Millisecond

// textDocumentDidOpen handles the textDocument/didOpen notification.
func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.captureNotify(ctx)
	doc := s.docs.Open(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		params.TextDocument.Text,
	)
	s.publishProblems(doc)
	return nil
}

// textDocumentDidChange handles the textDocument/didChange notification.
func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.captureNotify(ctx)
	// With full sync, the last content change is the complete document.
	var content string
	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			content = c.Text
		}
	}

	doc := s.docs.Change(
		params.TextDocument.URI,
		int32(params.TextDocument.Version),
		content,
	)

	s.debounceMu.Lock()
	if t, ok := s.debounce[doc.URI]; ok {
		t.Stop()
	}
	s.debounce[doc.URI] = time.AfterFunc(debounceDelay, func() {
		defer func() { _ = recover() }()
		if d := s.docs.Get(doc.URI); d != nil {
			s.publishProblems(d)
		}
	})
	s.debounceMu.Unlock()
	return nil
}

// textDocumentDidSave handles the textDocument/didSave notification.
func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	s.captureNotify(ctx)
	s.cancelDebounce(params.TextDocument.URI)
	if doc := s.docs.Get(params.TextDocument.URI); doc != nil {
		s.publishProblems(doc)
	}
	return nil
}

// textDocumentDidClose handles the textDocument/didClose notification.
func (s *Server) textDocumentDidClose(_ *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.cancelDebounce(params.TextDocument.URI)

	// Clear diagnostics for the closed file.
	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})

	s.docs.Close(params.TextDocument.URI)
	return nil
}

func (s *Server) cancelDebounce(uri string) {
	s.debounceMu.Lock()
	if t, ok := s.debounce[uri]; ok {
		t.Stop()
		delete(s.debounce, uri)
	}
	s.debounceMu.Unlock()
}

// homeOf returns the project home of path, falling back to the
// workspace root.
func (s *Server) homeOf(path string) string {
	if home, ok := runner.DetectHome(s.fs, path); ok {
		return home
	}
	return s.rootPath
}

// problemsFile returns the problems file of the project rooted at home.
func (s *Server) problemsFile(home string) string {
	f := s.cfg.Problems.File
	if filepath.IsAbs(f) || home == "" {
		return f
	}
	return filepath.Join(home, f)
}

// publishProblems publishes the problems the lithium tool reported for
// the document.
func (s *Server) publishProblems(doc *Document) {
	_, content := doc.snapshot()
	path := uriToPath(doc.URI)

	problems, err := classinfo.LoadProblems(s.fs, s.problemsFile(s.homeOf(path)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warningf("load problems: %v", err)
	}

	diags := []protocol.Diagnostic{}
	for _, p := range problems {
		if !samePath(p.File, path) {
			continue
		}
		diags = append(diags, convertProblem(content, p))
	}

	s.sendNotification(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
}

// republish publishes problems for every open document.
func (s *Server) republish() {
	for _, doc := range s.docs.All() {
		s.publishProblems(doc)
	}
}

// convertProblem converts a problem to an LSP diagnostic spanning its line.
func convertProblem(content string, p classinfo.Problem) protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityInformation
	if p.Severity() == classinfo.SeverityError {
		sev = protocol.DiagnosticSeverityError
	}
	d := protocol.Diagnostic{
		Range:    lineRange(content, p.LineOrFirst()),
		Severity: &sev,
		Source:   strPtr("lithium"),
		Message:  p.Message,
	}
	if p.ArtifactClass != "" {
		d.Code = &protocol.IntegerOrString{Value: p.ArtifactClass}
	}
	return d
}

func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

func strPtr(s string) *string {
	return &s
}
