// Copyright © 2024 The Lithium authors

package lsp

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/barmalei/lithium/command"
	"github.com/barmalei/lithium/resolver"
)

// textDocumentHover handles the textDocument/hover request.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	c := s.commandContext(doc, &params.Position)
	if c == nil || !c.Enabled() {
		return nil, nil
	}
	sym, err := s.resolver.ResolveSelection(c.Buffer, c.Selection)
	if err != nil || sym.Class == "" {
		return nil, nil
	}

	var details bytes.Buffer
	if sym.Package != "" {
		c.Output = &details
		if sym.Constant != "" {
			_, err = command.ShowClassField(c)
		} else {
			_, err = command.ShowClassInfo(c, nil)
		}
		if err != nil {
			log.Debugf("hover %s: %v", sym, err)
			details.Reset()
		}
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: buildHoverContent(sym, details.String()),
		},
	}, nil
}

// buildHoverContent builds Markdown hover text for a symbol.
func buildHoverContent(sym resolver.SymbolPath, details string) string {
	var sb strings.Builder
	kind := "class"
	if sym.Constant != "" {
		kind = "constant"
	}
	fmt.Fprintf(&sb, "**%s** `%s`", kind, sym)
	if sym.Origin != resolver.OriginNone {
		fmt.Fprintf(&sb, "\n\n_package from %s_", sym.Origin)
	}
	if details = strings.TrimRight(details, "\n"); details != "" {
		fmt.Fprintf(&sb, "\n\n```text\n%s\n```", details)
	}
	return sb.String()
}
