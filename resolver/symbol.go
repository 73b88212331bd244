// Copyright © 2024 The Lithium authors

package resolver

import "strings"

// Origin tells where the package of a resolved symbol came from.
type Origin string

const (
	// OriginNone means no package was found.
	OriginNone Origin = ""
	// OriginInline means the package was spelled out at the reference.
	OriginInline Origin = "inline"
	// OriginImport means the package came from an import statement.
	OriginImport Origin = "import"
	// OriginPackage means the class lives in the package of the buffer.
	OriginPackage Origin = "package"
)

// SymbolPath is a resolved package.Class.CONSTANT reference. Empty fields
// are absent parts.
type SymbolPath struct {
	Package  string
	Class    string
	Constant string
	Origin   Origin
	// Text is the dotted text covered by the walk around the cursor.
	Text string

	raw bool
}

// Unresolved reports whether resolution fell back to the raw cursor text
// without finding a package.
func (s SymbolPath) Unresolved() bool {
	return s.raw && s.Package == ""
}

// ClassPath returns package.Class.
func (s SymbolPath) ClassPath() string {
	return joinNonEmpty(s.Package, s.Class)
}

// String returns the canonical package.Class.CONSTANT form.
func (s SymbolPath) String() string {
	return joinNonEmpty(s.Package, s.Class, s.Constant)
}

// FilePath returns the class path with "/" separators, the way classes are
// laid out in source trees.
func (s SymbolPath) FilePath() string {
	return strings.ReplaceAll(s.ClassPath(), ".", "/")
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ".")
}
