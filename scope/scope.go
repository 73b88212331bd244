// Copyright © 2024 The Lithium authors

// Package scope classifies buffer positions by their lexical scope tags.
//
// Tags are an open vocabulary of strings. Each language front end
// registers a Vocabulary naming the tags the resolver branches on; new
// languages add vocabularies without touching the resolver.
package scope

import (
	"sort"
	"sync"

	"github.com/barmalei/lithium/buffer"
)

// TagsAt returns the scope tags active at p.
func TagsAt(b buffer.Buffer, p buffer.Position) (buffer.TagSet, error) {
	return b.TagsAt(p)
}

// HasAnyTag reports whether any of candidates is active at p. Positions
// outside the buffer carry no tags.
func HasAnyTag(b buffer.Buffer, p buffer.Position, candidates ...string) bool {
	tags, err := b.TagsAt(p)
	if err != nil {
		return false
	}
	return tags.HasAny(candidates...)
}

// Vocabulary names the scope tags of one language front end.
type Vocabulary struct {
	Syntax string

	// Package marks a package segment of a dotted path.
	Package []string
	// Class marks a class reference, including imported class names.
	Class []string
	// Constant marks a constant reference.
	Constant []string
	// ClassDeclaration marks the name in a class declaration.
	ClassDeclaration []string
	// Superclass marks an extended or implemented class reference.
	Superclass []string
	// Excluded stops the token walker: comments, function references and
	// language keyword references (this, super).
	Excluded []string

	// Comment, String and Keyword are emitted by taggers but not consulted
	// by the resolver.
	Comment []string
	String  []string
	Keyword []string

	// Import marks a whole import statement, ImportPath its dotted path.
	Import     string
	ImportPath string
	// PackageDeclaration marks the package statement.
	PackageDeclaration string
	// Path marks a dotted path inside a package or import statement.
	Path string
	// ClassIdentifier marks the header of a class declaration.
	ClassIdentifier string
	// Function marks a method/function name reference.
	Function string
	// LanguageVariable marks this/super.
	LanguageVariable string

	// Extension is the source file extension, without the dot.
	Extension string
}

// PackageSelector locates the dotted path of the package declaration.
func (v *Vocabulary) PackageSelector() string {
	return "source." + v.Syntax + " " + v.PackageDeclaration + " " + v.Path
}

// ClassSelector locates the name of a declared class.
func (v *Vocabulary) ClassSelector() string {
	return "source." + v.Syntax + " " + v.ClassIdentifier + " " + v.ClassDeclaration[0]
}

// ImportSelector locates the dotted path of each import statement.
func (v *Vocabulary) ImportSelector() string {
	return "source." + v.Syntax + " " + v.Import + " " + v.Path
}

// NewVocabulary builds the conventional tag names for syntax, following
// the TextMate naming scheme where every tag carries the language suffix.
func NewVocabulary(syntax, extension string) *Vocabulary {
	sfx := "." + syntax
	return &Vocabulary{
		Syntax:             syntax,
		Extension:          extension,
		Package:            []string{"support.type.package" + sfx},
		Class:              []string{"support.class" + sfx, "support.class.import" + sfx},
		Constant:           []string{"constant.other" + sfx},
		ClassDeclaration:   []string{"entity.name.class" + sfx},
		Superclass:         []string{"entity.other.inherited-class" + sfx},
		Excluded:           []string{"comment.line.double-slash" + sfx, "comment.block" + sfx, "variable.function" + sfx, "variable.language" + sfx},
		Comment:            []string{"comment.line.double-slash" + sfx, "comment.block" + sfx},
		String:             []string{"string.quoted.double" + sfx},
		Keyword:            []string{"keyword.control" + sfx},
		Import:             "meta.import" + sfx,
		ImportPath:         "meta.import.path" + sfx,
		PackageDeclaration: "meta.namespace.package.identifier" + sfx,
		Path:               "meta.path" + sfx,
		ClassIdentifier:    "meta.class.identifier" + sfx,
		Function:           "variable.function" + sfx,
		LanguageVariable:   "variable.language" + sfx,
	}
}

// ImportedClass is the tag for the last segment of an import path.
func (v *Vocabulary) ImportedClass() string { return v.Class[len(v.Class)-1] }

// ClassReference is the tag for a class reference outside imports.
func (v *Vocabulary) ClassReference() string { return v.Class[0] }

var (
	vocabMu      sync.RWMutex
	vocabularies = map[string]*Vocabulary{}
)

// Register adds or replaces the vocabulary for v.Syntax.
func Register(v *Vocabulary) {
	vocabMu.Lock()
	vocabularies[v.Syntax] = v
	vocabMu.Unlock()
}

// For returns the vocabulary registered for syntax, or nil.
func For(syntax string) *Vocabulary {
	vocabMu.RLock()
	defer vocabMu.RUnlock()
	return vocabularies[syntax]
}

// Syntaxes returns the registered syntax names in lexical order.
func Syntaxes() []string {
	vocabMu.RLock()
	defer vocabMu.RUnlock()
	out := make([]string, 0, len(vocabularies))
	for name := range vocabularies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register(NewVocabulary("java", "java"))
	Register(NewVocabulary("kotlin", "kt"))
	Register(NewVocabulary("scala", "scala"))
	Register(NewVocabulary("groovy", "groovy"))
}
