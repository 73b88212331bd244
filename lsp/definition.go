// Copyright © 2024 The Lithium authors

package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/barmalei/lithium/command"
)

// textDocumentDefinition handles the textDocument/definition request. It
// answers with the start of every source file declaring the class under
// the cursor.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	c := s.commandContext(doc, &params.Position)
	if c == nil || !c.Enabled() {
		return nil, nil
	}
	classPath, files, err := command.GotoClass(c)
	if err != nil {
		log.Debugf("definition %s: %v", classPath, err)
		return nil, nil
	}
	locs := make([]protocol.Location, 0, len(files))
	for _, f := range files {
		locs = append(locs, protocol.Location{URI: pathToURI(f)})
	}
	return locs, nil
}
