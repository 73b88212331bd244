// Copyright © 2024 The Lithium authors

package syntax

import (
	"context"
	"strings"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/scope"
)

// lexicalTagger tags sources of languages without a bundled grammar. It
// works on a flat token stream and recognizes line-leading package and
// import statements, class headers and dotted reference chains.
type lexicalTagger struct{}

type tokenKind int

const (
	tWord tokenKind = iota
	tNumber
	tPunct
	tNewline
)

type token struct {
	kind   tokenKind
	region buffer.Region
	text   string
}

var classKeywords = map[string]bool{
	"class":     true,
	"interface": true,
	"object":    true,
	"trait":     true,
}

var superKeywords = map[string]bool{
	"extends":    true,
	"implements": true,
	"with":       true,
}

func (lexicalTagger) Tag(ctx context.Context, b *buffer.Text, v *scope.Vocabulary) error {
	toks := tokenize(b, v)
	if err := ctx.Err(); err != nil {
		return err
	}
	l := &lexer{b: b, v: v, toks: toks}
	l.run()
	return nil
}

// tokenize splits the source into tokens, tagging and dropping comments
// and string literals on the way.
func tokenize(b *buffer.Text, v *scope.Vocabulary) []token {
	src := b.Source()
	var toks []token
	emit := func(kind tokenKind, start, end int) {
		toks = append(toks, token{
			kind:   kind,
			region: buffer.Region{Start: buffer.Position(start), End: buffer.Position(end)},
			text:   src[start:end],
		})
	}
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			emit(tNewline, i, i+1)
			i++
		case buffer.IsSpace(c):
			i++
		case strings.HasPrefix(src[i:], "//"):
			end := i + strings.IndexByte(src[i:]+"\n", '\n')
			b.Tag(buffer.Region{Start: buffer.Position(i), End: buffer.Position(end)}, v.Comment[0])
			i = end
		case strings.HasPrefix(src[i:], "/*"):
			end := len(src)
			if idx := strings.Index(src[i+2:], "*/"); idx >= 0 {
				end = i + 2 + idx + 2
			}
			b.Tag(buffer.Region{Start: buffer.Position(i), End: buffer.Position(end)}, v.Comment[1])
			i = end
		case strings.HasPrefix(src[i:], `"""`):
			end := len(src)
			if idx := strings.Index(src[i+3:], `"""`); idx >= 0 {
				end = i + 3 + idx + 3
			}
			b.Tag(buffer.Region{Start: buffer.Position(i), End: buffer.Position(end)}, v.String...)
			i = end
		case c == '"' || c == '\'':
			end := quoted(src, i)
			b.Tag(buffer.Region{Start: buffer.Position(i), End: buffer.Position(end)}, v.String...)
			i = end
		case c >= '0' && c <= '9':
			j := i
			for j < len(src) && buffer.IsWordChar(src[j]) {
				j++
			}
			emit(tNumber, i, j)
			i = j
		case buffer.IsWordChar(c):
			j := i
			for j < len(src) && buffer.IsWordChar(src[j]) {
				j++
			}
			emit(tWord, i, j)
			i = j
		default:
			emit(tPunct, i, i+1)
			i++
		}
	}
	return toks
}

// quoted returns the end of the single line string literal opening at i.
func quoted(src string, i int) int {
	q := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}

type lexer struct {
	b    *buffer.Text
	v    *scope.Vocabulary
	toks []token
}

func (l *lexer) at(i int) token {
	if i < 0 || i >= len(l.toks) {
		return token{kind: tNewline}
	}
	return l.toks[i]
}

func (l *lexer) lineStart(i int) bool {
	return i == 0 || l.toks[i-1].kind == tNewline || l.toks[i-1].text == ";"
}

// chain collects a dotted word chain starting at i and returns its
// segments and the index of the first token after it.
func (l *lexer) chain(i int) ([]segment, int) {
	var segs []segment
	for {
		t := l.at(i)
		if t.kind != tWord {
			break
		}
		segs = append(segs, segment{region: t.region, text: t.text})
		i++
		if l.at(i).text != "." || l.at(i+1).kind != tWord {
			break
		}
		i++
	}
	return segs, i
}

func (l *lexer) run() {
	for i := 0; i < len(l.toks); {
		t := l.toks[i]
		switch {
		case t.kind != tWord:
			i++
		case t.text == "package" && l.lineStart(i):
			i = l.packageStatement(i)
		case t.text == "import" && l.lineStart(i):
			i = l.importStatement(i)
		case classKeywords[t.text] && l.at(i+1).kind == tWord:
			i = l.classHeader(i + 1)
		default:
			i = l.reference(i, expression)
		}
	}
}

func (l *lexer) packageStatement(i int) int {
	start := l.toks[i].region.Start
	segs, next := l.chain(i + 1)
	l.b.Tag(buffer.Region{Start: start, End: l.b.LineRegion(start).End}, l.v.PackageDeclaration)
	if len(segs) == 0 {
		return next
	}
	l.b.Tag(chainRegion(segs), l.v.Path)
	for _, s := range segs {
		l.b.Tag(s.region, l.v.Package...)
	}
	return next
}

func (l *lexer) importStatement(i int) int {
	start := l.toks[i].region.Start
	l.b.Tag(buffer.Region{Start: start, End: l.b.LineRegion(start).End}, l.v.Import)
	i++
	static := false
	if l.at(i).text == "static" {
		static = true
		i++
	}
	segs, next := l.chain(i)
	if len(segs) == 0 {
		return next
	}
	wildcard := false
	if s := segs[len(segs)-1]; s.text == "_" {
		wildcard = true
		segs = segs[:len(segs)-1]
	} else if l.at(next).text == "." {
		// a.b.* or a.b.{C, D}
		wildcard = true
		if l.at(next+1).text == "{" {
			next = l.selectors(next + 2)
		}
	}
	if len(segs) == 0 {
		return next
	}
	l.b.Tag(chainRegion(segs), l.v.Path, l.v.ImportPath)
	tagImportPath(l.b, l.v, segs, static, wildcard)
	return next
}

// selectors tags the class names of a Scala import selector list.
func (l *lexer) selectors(i int) int {
	for ; i < len(l.toks); i++ {
		t := l.toks[i]
		if t.text == "}" || t.kind == tNewline {
			return i + 1
		}
		if t.kind == tWord && isClassName(t.text) && l.at(i-1).text != ">" {
			l.b.Tag(t.region, l.v.ImportedClass())
		}
	}
	return i
}

// classHeader tags a declared class name and the supertypes that follow it
// up to the class body or the end of the line.
func (l *lexer) classHeader(i int) int {
	name := l.toks[i]
	l.b.Tag(name.region, l.v.ClassIdentifier, l.v.ClassDeclaration[0])
	i++
	var (
		parens, angles int
		super          bool
	)
	for i < len(l.toks) {
		t := l.toks[i]
		depth0 := parens == 0 && angles == 0
		switch {
		case t.kind == tNewline && depth0:
			return i + 1
		case t.text == "{" && depth0:
			return i + 1
		case t.text == "(":
			parens++
		case t.text == ")":
			parens--
		case t.text == "<":
			angles++
		case t.text == ">":
			angles--
		case t.text == ":" && depth0:
			super = true
		case t.kind == tWord && superKeywords[t.text]:
			super = true
		case t.kind == tWord && depth0 && super:
			i = l.reference(i, inherited)
			continue
		case t.kind == tWord:
			i = l.reference(i, typeRef)
			continue
		}
		i++
	}
	return i
}

// reference tags the dotted chain starting at i.
func (l *lexer) reference(i int, mode chainMode) int {
	segs, next := l.chain(i)
	if len(segs) == 0 {
		return i + 1
	}
	if l.at(i-1).text == "." {
		// member of a call result: only constants are recognizable
		for _, s := range segs {
			if isConstantName(s.text) {
				l.b.Tag(s.region, l.v.Constant...)
			}
		}
		return next
	}
	switch segs[0].text {
	case "this", "super":
		l.b.Tag(segs[0].region, l.v.LanguageVariable)
		segs = segs[1:]
		for _, s := range segs {
			if isConstantName(s.text) {
				l.b.Tag(s.region, l.v.Constant...)
			}
		}
		return next
	}
	if l.at(next).text == "(" && mode == expression {
		last := segs[len(segs)-1]
		if !isClassName(last.text) {
			l.b.Tag(last.region, l.v.Function)
			segs = segs[:len(segs)-1]
		}
	}
	if len(segs) > 0 {
		if mode == typeRef && !isClassName(segs[len(segs)-1].text) {
			mode = expression
		}
		tagChain(l.b, l.v, segs, mode)
	}
	return next
}
