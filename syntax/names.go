// Copyright © 2024 The Lithium authors

package syntax

import (
	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/scope"
)

// isConstantName reports whether w looks like a constant: upper case
// letters, digits and underscores with at least two characters.
func isConstantName(w string) bool {
	if len(w) < 2 {
		return false
	}
	letter := false
	for i := 0; i < len(w); i++ {
		c := w[i]
		switch {
		case c >= 'A' && c <= 'Z':
			letter = true
		case c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return letter
}

// isClassName reports whether w starts with an upper case letter.
func isClassName(w string) bool {
	return w != "" && w[0] >= 'A' && w[0] <= 'Z'
}

// segment is one word of a dotted chain.
type segment struct {
	region buffer.Region
	text   string
}

// chainMode selects how the last segment of a chain is tagged.
type chainMode int

const (
	// expression chains tag constants and classes by their spelling.
	expression chainMode = iota
	// typeRef chains name a type: the last segment is always a class.
	typeRef
	// inherited chains name a superclass.
	inherited
)

// tagChain tags the segments of a dotted reference. Lower case segments
// become package segments only when a class-like segment follows them.
func tagChain(b *buffer.Text, v *scope.Vocabulary, segs []segment, mode chainMode) {
	classAt := -1
	for i, s := range segs {
		if isClassName(s.text) {
			classAt = i
			break
		}
	}
	for i, s := range segs {
		last := i == len(segs)-1
		switch {
		case last && mode == inherited:
			b.Tag(s.region, v.Superclass...)
		case last && mode == typeRef:
			b.Tag(s.region, v.ClassReference())
		case mode == expression && isConstantName(s.text) && i > 0 && isClassName(segs[i-1].text):
			b.Tag(s.region, v.Constant...)
		case mode == expression && isConstantName(s.text) && len(segs) == 1:
			b.Tag(s.region, v.Constant...)
		case isClassName(s.text):
			b.Tag(s.region, v.ClassReference())
		case classAt > i:
			b.Tag(s.region, v.Package...)
		}
	}
}

// tagImportPath tags the segments of an import statement path. The last
// segment is the imported class, or a member for static imports.
func tagImportPath(b *buffer.Text, v *scope.Vocabulary, segs []segment, static, wildcard bool) {
	if len(segs) == 0 {
		return
	}
	classIdx := len(segs) - 1
	if wildcard {
		classIdx = -1
		for i := len(segs) - 1; i >= 0; i-- {
			if isClassName(segs[i].text) {
				classIdx = i
				break
			}
		}
	} else if static && len(segs) > 1 {
		member := segs[len(segs)-1]
		if isConstantName(member.text) {
			b.Tag(member.region, v.Constant...)
		} else {
			b.Tag(member.region, v.Function)
		}
		classIdx = len(segs) - 2
	}
	for i := 0; i <= classIdx && i < len(segs); i++ {
		s := segs[i]
		switch {
		case i == classIdx:
			b.Tag(s.region, v.ImportedClass())
		case isClassName(s.text):
			b.Tag(s.region, v.ClassReference())
		default:
			b.Tag(s.region, v.Package...)
		}
	}
	if classIdx < 0 {
		for _, s := range segs {
			b.Tag(s.region, v.Package...)
		}
	}
}

// chainRegion covers the segments of a chain.
func chainRegion(segs []segment) buffer.Region {
	return buffer.Region{Start: segs[0].region.Start, End: segs[len(segs)-1].region.End}
}
