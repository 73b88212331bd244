// Copyright © 2024 The Lithium authors

// Package buffer defines the scope-tagged buffer contract consumed by the
// symbol resolver and the import editor, together with an in-memory
// implementation that editor adapters (tree-sitter, lexical taggers, LSP
// documents) populate with scope tags.
package buffer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrOutOfRange is returned when a position falls outside the buffer.
var ErrOutOfRange = errors.New("position out of range")

// Position is a byte offset into a buffer's text.
type Position int

// Region is a contiguous span of text, Start <= End.
type Region struct {
	Start Position
	End   Position
}

// NewRegion returns a region spanning a and b in either order.
func NewRegion(a, b Position) Region {
	if b < a {
		a, b = b, a
	}
	return Region{Start: a, End: b}
}

// Len returns the number of bytes covered by the region.
func (r Region) Len() int { return int(r.End - r.Start) }

// Empty reports whether the region covers no text.
func (r Region) Empty() bool { return r.End <= r.Start }

// Contains reports whether p lies inside [Start, End).
func (r Region) Contains(p Position) bool { return p >= r.Start && p < r.End }

func (r Region) String() string { return fmt.Sprintf("[%d,%d)", r.Start, r.End) }

// Direction selects the scan direction of a boundary search.
type Direction int

const (
	Backward Direction = iota
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Class identifies the kind of boundary FindBoundary looks for.
type Class int

const (
	// PunctuationStart matches the first character of a punctuation run.
	PunctuationStart Class = iota
	// WordStart matches the first character of a word.
	WordStart
)

// Buffer is the host editing surface as seen by the resolver. All methods
// are read-only queries.
type Buffer interface {
	// Path is the file backing the buffer, or "" for scratch buffers.
	Path() string
	// Syntax is the lower-case language name (java, kotlin, ...).
	Syntax() string
	// Size is the length of the text in bytes.
	Size() int
	// Text returns the text covered by r, clamped to the buffer.
	Text(r Region) string
	// TagsAt returns the lexical scope tags active at p.
	TagsAt(p Position) (TagSet, error)
	// WordAt expands p to the enclosing word region.
	WordAt(p Position) Region
	// FindBoundary scans from p in dir for the nearest boundary of class.
	FindBoundary(p Position, dir Direction, class Class) (Position, bool)
	// LineRegion returns the line containing p without its line terminator.
	LineRegion(p Position) Region
	// SelectorMatches returns the regions matching a space separated scope
	// selector, in source order.
	SelectorMatches(selector string) []Region
}

// TagSet is an unordered set of scope tags.
type TagSet map[string]struct{}

// NewTagSet returns a set holding tags.
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag is a member of the set.
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// HasAny reports whether any of tags is a member of the set.
func (s TagSet) HasAny(tags ...string) bool {
	for _, t := range tags {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// HasAll reports whether every tag is a member of the set.
func (s TagSet) HasAll(tags ...string) bool {
	for _, t := range tags {
		if !s.Has(t) {
			return false
		}
	}
	return true
}

// Sorted returns the tags in lexical order.
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func (s TagSet) String() string { return strings.Join(s.Sorted(), " ") }

// IsWordChar reports whether c belongs to an identifier-like word.
func IsWordChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == '$':
		return true
	case c >= 0x80:
		return true
	}
	return false
}

// IsSpace reports whether c is ASCII whitespace.
func IsSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// IsPunctuation reports whether c is neither a word character nor whitespace.
func IsPunctuation(c byte) bool {
	return !IsWordChar(c) && !IsSpace(c)
}
