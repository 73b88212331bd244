// Copyright © 2024 The Lithium authors

package buffer

import (
	"sort"
	"strings"
)

// Span attaches scope tags to a region of text.
type Span struct {
	Region Region
	Tags   []string
}

// Text is an in-memory Buffer. Scope tags are attached with Tag; the tags
// at a position are the union of the tags of every span covering it plus
// the root "source.<syntax>" scope.
type Text struct {
	path   string
	syntax string
	src    string
	spans  []Span
}

var _ Buffer = (*Text)(nil)

// NewText creates an untagged buffer over src.
func NewText(path, syntax, src string) *Text {
	return &Text{path: path, syntax: strings.ToLower(syntax), src: src}
}

// Tag attaches tags to r. Empty regions are ignored.
func (t *Text) Tag(r Region, tags ...string) {
	if r.Empty() || len(tags) == 0 {
		return
	}
	t.spans = append(t.spans, Span{Region: r, Tags: tags})
}

// Source returns the full buffer text.
func (t *Text) Source() string { return t.src }

// Spans returns the tag spans in insertion order.
func (t *Text) Spans() []Span { return t.spans }

// RootScope is the tag present at every position of the buffer.
func (t *Text) RootScope() string { return "source." + t.syntax }

func (t *Text) Path() string   { return t.path }
func (t *Text) Syntax() string { return t.syntax }
func (t *Text) Size() int      { return len(t.src) }

func (t *Text) Text(r Region) string {
	start, end := t.clamp(r.Start), t.clamp(r.End)
	if end <= start {
		return ""
	}
	return t.src[start:end]
}

func (t *Text) TagsAt(p Position) (TagSet, error) {
	if p < 0 || int(p) > len(t.src) {
		return nil, ErrOutOfRange
	}
	tags := NewTagSet(t.RootScope())
	for _, s := range t.spans {
		if s.Region.Contains(p) {
			for _, tag := range s.Tags {
				tags[tag] = struct{}{}
			}
		}
	}
	return tags, nil
}

func (t *Text) WordAt(p Position) Region {
	p = t.clamp(p)
	n := Position(len(t.src))
	onWord := p < n && IsWordChar(t.src[p])
	afterWord := p > 0 && IsWordChar(t.src[p-1])
	if !onWord && !afterWord {
		return Region{Start: p, End: p}
	}
	start, end := p, p
	for start > 0 && IsWordChar(t.src[start-1]) {
		start--
	}
	for end < n && IsWordChar(t.src[end]) {
		end++
	}
	return Region{Start: start, End: end}
}

func (t *Text) FindBoundary(p Position, dir Direction, class Class) (Position, bool) {
	match := t.isWordStart
	if class == PunctuationStart {
		match = t.isPunctuationStart
	}
	if dir == Forward {
		for i := int(p) + 1; i < len(t.src); i++ {
			if match(i) {
				return Position(i), true
			}
		}
		return 0, false
	}
	for i := min(int(p), len(t.src)) - 1; i >= 0; i-- {
		if match(i) {
			return Position(i), true
		}
	}
	return 0, false
}

func (t *Text) isWordStart(i int) bool {
	return IsWordChar(t.src[i]) && (i == 0 || !IsWordChar(t.src[i-1]))
}

func (t *Text) isPunctuationStart(i int) bool {
	return IsPunctuation(t.src[i]) && (i == 0 || !IsPunctuation(t.src[i-1]))
}

func (t *Text) LineRegion(p Position) Region {
	return LineAt(t.src, p)
}

func (t *Text) SelectorMatches(selector string) []Region {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil
	}
	leaf := parts[len(parts)-1]
	seen := make(map[Region]bool)
	var out []Region
	for _, s := range t.spans {
		if seen[s.Region] || !containsTag(s.Tags, leaf) {
			continue
		}
		tags, err := t.TagsAt(s.Region.Start)
		if err != nil || !tags.HasAll(parts...) {
			continue
		}
		seen[s.Region] = true
		out = append(out, s.Region)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (t *Text) clamp(p Position) Position {
	if p < 0 {
		return 0
	}
	if int(p) > len(t.src) {
		return Position(len(t.src))
	}
	return p
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
