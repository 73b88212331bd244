// Copyright © 2024 The Lithium authors

package syntax

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/scope"
)

// javaTagger tags Java sources from a tree-sitter syntax tree.
type javaTagger struct{}

var classDeclarations = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

func (javaTagger) Tag(ctx context.Context, b *buffer.Text, v *scope.Vocabulary) error {
	src := []byte(b.Source())
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(java.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return err
	}
	defer tree.Close()

	w := &javaWalker{b: b, v: v, src: src}
	w.visit(tree.RootNode(), false)
	return nil
}

type javaWalker struct {
	b   *buffer.Text
	v   *scope.Vocabulary
	src []byte
}

func (w *javaWalker) region(n *sitter.Node) buffer.Region {
	return buffer.Region{Start: buffer.Position(n.StartByte()), End: buffer.Position(n.EndByte())}
}

func (w *javaWalker) text(n *sitter.Node) string {
	return string(w.src[n.StartByte():n.EndByte()])
}

// chain flattens a pure dotted reference into its words.
func (w *javaWalker) chain(n *sitter.Node) ([]segment, bool) {
	switch n.Type() {
	case "identifier", "type_identifier":
		return []segment{{region: w.region(n), text: w.text(n)}}, true
	case "field_access", "scoped_identifier", "scoped_type_identifier":
		var out []segment
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "annotation", "marker_annotation":
				continue
			}
			segs, ok := w.chain(c)
			if !ok {
				return nil, false
			}
			out = append(out, segs...)
		}
		return out, len(out) > 0
	}
	return nil, false
}

func (w *javaWalker) visit(n *sitter.Node, superclass bool) {
	v := w.v
	switch n.Type() {
	case "line_comment":
		w.b.Tag(w.region(n), v.Comment[0])
		return
	case "block_comment":
		w.b.Tag(w.region(n), v.Comment[1])
		return
	case "string_literal", "text_block":
		w.b.Tag(w.region(n), v.String...)
		return
	case "this", "super":
		w.b.Tag(w.region(n), v.LanguageVariable)
		return
	case "package_declaration":
		w.b.Tag(w.region(n), v.PackageDeclaration)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if segs, ok := w.chain(c); ok {
				w.b.Tag(w.region(c), v.Path)
				for _, s := range segs {
					w.b.Tag(s.region, v.Package...)
				}
			}
		}
		return
	case "import_declaration":
		w.visitImport(n)
		return
	case "identifier":
		if isConstantName(w.text(n)) {
			w.b.Tag(w.region(n), v.Constant...)
		}
		return
	case "type_identifier":
		if superclass {
			w.b.Tag(w.region(n), v.Superclass...)
		} else {
			w.b.Tag(w.region(n), v.ClassReference())
		}
		return
	case "field_access", "scoped_identifier", "scoped_type_identifier":
		if segs, ok := w.chain(n); ok {
			mode := expression
			switch {
			case superclass:
				mode = inherited
			case n.Type() == "scoped_type_identifier":
				mode = typeRef
			}
			tagChain(w.b, v, segs, mode)
			return
		}
	case "method_invocation":
		w.visitInvocation(n)
		return
	case "superclass", "super_interfaces", "extends_interfaces":
		superclass = true
	case "type_arguments", "type_parameters", "argument_list", "class_body", "interface_body", "enum_body":
		superclass = false
	}
	var name *sitter.Node
	if classDeclarations[n.Type()] {
		if name = n.ChildByFieldName("name"); name != nil {
			w.b.Tag(w.region(name), v.ClassIdentifier, v.ClassDeclaration[0])
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if name != nil && c.StartByte() == name.StartByte() && c.Type() == name.Type() {
			continue
		}
		w.visit(c, superclass)
	}
}

func (w *javaWalker) visitImport(n *sitter.Node) {
	v := w.v
	w.b.Tag(w.region(n), v.Import)
	var (
		static, wildcard bool
		path             *sitter.Node
	)
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "static":
			static = true
		case "asterisk":
			wildcard = true
		case "identifier", "scoped_identifier":
			path = c
		}
	}
	if path == nil {
		return
	}
	segs, ok := w.chain(path)
	if !ok {
		return
	}
	w.b.Tag(w.region(path), v.Path, v.ImportPath)
	tagImportPath(w.b, v, segs, static, wildcard)
}

func (w *javaWalker) visitInvocation(n *sitter.Node) {
	v := w.v
	if name := n.ChildByFieldName("name"); name != nil {
		w.b.Tag(w.region(name), v.Function)
	}
	if obj := n.ChildByFieldName("object"); obj != nil {
		if segs, ok := w.chain(obj); ok {
			tagChain(w.b, v, segs, expression)
		} else {
			w.visit(obj, false)
		}
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		w.visit(args, false)
	}
	if targs := n.ChildByFieldName("type_arguments"); targs != nil {
		w.visit(targs, false)
	}
}
