// Copyright © 2024 The Lithium authors

package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/barmalei/lithium/command"
)

// Source action kinds running the lithium tool. They are offered only when
// the client asks for them explicitly.
const (
	CodeActionKindRemoveUnusedImports protocol.CodeActionKind = "source.removeUnusedImports"
	CodeActionKindValidateImports     protocol.CodeActionKind = "source.validateImports"
)

type sourceAction struct {
	title    string
	kind     protocol.CodeActionKind
	explicit bool
	run      func(*command.Context) (*command.Result, error)
}

var sourceActions = []sourceAction{
	{
		title: "Organize imports",
		kind:  protocol.CodeActionKindSourceOrganizeImports,
		run:   command.SortImports,
	},
	{
		title:    "Remove unused imports",
		kind:     CodeActionKindRemoveUnusedImports,
		explicit: true,
		run:      command.RemoveUnusedImports,
	},
	{
		title:    "Validate imports",
		kind:     CodeActionKindValidateImports,
		explicit: true,
		run:      command.ValidateImports,
	},
}

// textDocumentCodeAction handles the textDocument/codeAction request. It
// returns import source actions as whole-document workspace edits.
func (s *Server) textDocumentCodeAction(_ *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := s.docs.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	c := s.commandContext(doc, nil)
	if c == nil || !c.Enabled() {
		return nil, nil
	}

	var actions []protocol.CodeAction
	for _, a := range sourceActions {
		if !wanted(params.Context.Only, a.kind, a.explicit) {
			continue
		}
		edit, ok, err := s.documentEdit(doc, func() (*command.Result, error) { return a.run(c) })
		if err != nil {
			log.Warningf("%s: %s: %v", doc.URI, a.title, err)
			continue
		}
		if !ok {
			continue
		}
		kind := a.kind
		actions = append(actions, protocol.CodeAction{
			Title: a.title,
			Kind:  &kind,
			Edit: &protocol.WorkspaceEdit{
				Changes: map[protocol.DocumentUri][]protocol.TextEdit{
					params.TextDocument.URI: {edit},
				},
			},
		})
	}

	if len(actions) == 0 {
		return nil, nil
	}
	return actions, nil
}

// wanted reports whether an action of kind matches the requested kinds.
// Explicit actions require a matching request.
func wanted(only []protocol.CodeActionKind, kind protocol.CodeActionKind, explicit bool) bool {
	if len(only) == 0 {
		return !explicit
	}
	for _, o := range only {
		if o == kind || strings.HasPrefix(string(kind), string(o)+".") {
			return true
		}
	}
	return false
}
