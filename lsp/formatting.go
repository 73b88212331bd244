// Copyright © 2024 The Lithium authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/barmalei/lithium/command"
)

// textDocumentFormatting handles textDocument/formatting requests. The
// import block is sorted and grouped; the rest of the document is left
// as is. It returns a single whole-document text edit, or nil if no
// changes are needed.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	c := s.commandContext(doc, nil)
	if c == nil || !c.Enabled() {
		return nil, nil
	}
	edit, ok, err := s.documentEdit(doc, func() (*command.Result, error) { return command.SortImports(c) })
	if err != nil || !ok {
		return nil, err
	}
	return []protocol.TextEdit{edit}, nil
}

// documentEdit runs a command and converts its result into a single
// whole-document edit. It returns false when the command changed nothing.
func (s *Server) documentEdit(doc *Document, run func() (*command.Result, error)) (protocol.TextEdit, bool, error) {
	res, err := run()
	if err != nil {
		return protocol.TextEdit{}, false, err
	}
	for _, m := range res.Messages {
		log.Debugf("%s: %s", doc.URI, m)
	}
	if !res.Changed() {
		return protocol.TextEdit{}, false, nil
	}
	_, content := doc.snapshot()
	updated, err := res.Apply(content)
	if err != nil || updated == content {
		return protocol.TextEdit{}, false, err
	}
	return wholeDocument(content, updated), true, nil
}
