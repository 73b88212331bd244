// Copyright © 2024 The Lithium authors

// Package walker expands a cursor word into the dotted path it belongs to
// by walking "." boundaries in both directions and classifying every word
// it crosses by its scope tags.
package walker

import (
	"strings"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/scope"
)

// NextBoundary returns the start of the nearest punctuation run from p in
// dir, or false when the buffer boundary is reached first.
func NextBoundary(b buffer.Buffer, p buffer.Position, dir buffer.Direction) (buffer.Position, bool) {
	return b.FindBoundary(p, dir, buffer.PunctuationStart)
}

// WordAt expands p to the enclosing word.
func WordAt(b buffer.Buffer, p buffer.Position) buffer.Region {
	return b.WordAt(p)
}

// Kind classifies a word of a dotted path.
type Kind int

const (
	Unclassified Kind = iota
	Package
	Class
	Constant
	ClassDeclaration
	Superclass
)

func (k Kind) String() string {
	switch k {
	case Package:
		return "package"
	case Class:
		return "class"
	case Constant:
		return "constant"
	case ClassDeclaration:
		return "class-declaration"
	case Superclass:
		return "superclass"
	}
	return "unclassified"
}

// Classify maps the tags at p onto a Kind. The order of the checks is the
// precedence used when a position carries several of them.
func Classify(b buffer.Buffer, p buffer.Position, v *scope.Vocabulary) Kind {
	tags, err := b.TagsAt(p)
	if err != nil {
		return Unclassified
	}
	switch {
	case tags.HasAny(v.Package...):
		return Package
	case tags.HasAny(v.Class...):
		return Class
	case tags.HasAny(v.Constant...):
		return Constant
	case tags.HasAny(v.ClassDeclaration...):
		return ClassDeclaration
	case tags.HasAny(v.Superclass...):
		return Superclass
	}
	return Unclassified
}

// Expansion accumulates the segments of a dotted path.
type Expansion struct {
	Packages  []string
	Classes   []string
	Constants []string
	// Parts holds every walked word in source order, classified or not.
	Parts []string
	// Symbol is the dotted text covered by the walk.
	Symbol string
}

// DeclaredPackage returns the package declared by the buffer being walked,
// split into segments.
type DeclaredPackage func() []string

// Seed classifies the cursor word itself and returns the initial
// expansion.
func Seed(b buffer.Buffer, word buffer.Region, v *scope.Vocabulary, declared DeclaredPackage) Expansion {
	symbol := b.Text(word)
	e := Expansion{Symbol: symbol}
	e.add(Classify(b, word.Start, v), symbol, buffer.Forward, declared)
	return e
}

// Expand walks "." boundaries away from the word region in both
// directions, adding classified words to e. Backward words are prepended,
// forward words appended. A walk stops at the first boundary that is not a
// "." adjacent to the current word, whose next word is not adjacent to the
// ".", or whose next word carries one of the vocabulary's excluded tags.
// Only whitespace may separate a "." from the words it joins.
func Expand(b buffer.Buffer, word buffer.Region, v *scope.Vocabulary, declared DeclaredPackage, e Expansion) Expansion {
	for _, dir := range []buffer.Direction{buffer.Backward, buffer.Forward} {
		cur := word
		for {
			next, ok := step(b, cur, dir)
			if !ok || scope.HasAnyTag(b, next.Start, v.Excluded...) {
				break
			}
			w := b.Text(next)
			if w == "" {
				break
			}
			e.add(Classify(b, next.Start, v), w, dir, declared)
			if dir == buffer.Backward {
				e.Symbol = w + "." + e.Symbol
				e.Parts = prepend(e.Parts, w)
			} else {
				e.Symbol = e.Symbol + "." + w
				e.Parts = append(e.Parts, w)
			}
			cur = next
		}
	}
	return e
}

// step returns the word joined to cur by a "." in dir.
func step(b buffer.Buffer, cur buffer.Region, dir buffer.Direction) (buffer.Region, bool) {
	from := cur.Start
	if dir == buffer.Forward {
		from = cur.End - 1
	}
	dot, ok := NextBoundary(b, from, dir)
	if !ok || b.Text(buffer.Region{Start: dot, End: dot + 1}) != "." {
		return buffer.Region{}, false
	}
	ws, ok := b.FindBoundary(dot, dir, buffer.WordStart)
	if !ok {
		return buffer.Region{}, false
	}
	next := WordAt(b, ws)
	var before, after buffer.Region
	if dir == buffer.Backward {
		before = buffer.Region{Start: dot + 1, End: cur.Start}
		after = buffer.Region{Start: next.End, End: dot}
	} else {
		before = buffer.Region{Start: cur.End, End: dot}
		after = buffer.Region{Start: dot + 1, End: next.Start}
	}
	if !blank(b, before) || !blank(b, after) {
		return buffer.Region{}, false
	}
	return next, true
}

func blank(b buffer.Buffer, r buffer.Region) bool {
	if r.End <= r.Start {
		return r.End == r.Start
	}
	return strings.TrimSpace(b.Text(r)) == ""
}

func (e *Expansion) add(k Kind, w string, dir buffer.Direction, declared DeclaredPackage) {
	put := func(list []string) []string {
		if dir == buffer.Backward {
			return prepend(list, w)
		}
		return append(list, w)
	}
	switch k {
	case Package:
		e.Packages = put(e.Packages)
	case Class:
		e.Classes = put(e.Classes)
	case Constant:
		e.Constants = put(e.Constants)
	case ClassDeclaration:
		e.Packages = nil
		if declared != nil {
			e.Packages = declared()
		}
		e.Classes = []string{w}
	case Superclass:
		e.Classes = []string{w}
	}
}

// String renders the expansion for debug logging.
func (e Expansion) String() string {
	var sb strings.Builder
	sb.WriteString("packages=")
	sb.WriteString(strings.Join(e.Packages, "."))
	sb.WriteString(" classes=")
	sb.WriteString(strings.Join(e.Classes, "."))
	sb.WriteString(" constants=")
	sb.WriteString(strings.Join(e.Constants, "."))
	sb.WriteString(" parts=")
	sb.WriteString(strings.Join(e.Parts, "."))
	sb.WriteString(" symbol=")
	sb.WriteString(e.Symbol)
	return sb.String()
}

func prepend(list []string, w string) []string {
	return append([]string{w}, list...)
}
