// Copyright © 2024 The Lithium authors

// Package syntax turns source text into a scope-tagged buffer.
//
// Java is parsed with tree-sitter. Kotlin, Scala and Groovy go through a
// lexical tagger that recognizes comments, strings, package and import
// statements, class headers and dotted reference chains. Both emit the
// tags named by the language's scope.Vocabulary.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/scope"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("lithium.syntax")

// ErrUnsupported is returned for files of no registered language.
var ErrUnsupported = errors.New("unsupported syntax")

// Tagger attaches scope tags to a buffer.
type Tagger interface {
	Tag(ctx context.Context, b *buffer.Text, v *scope.Vocabulary) error
}

// Language binds a syntax name to its file extensions and tagger.
type Language struct {
	Name       string
	Extensions []string
	Tagger     Tagger
}

var languages = []*Language{
	{Name: "java", Extensions: []string{".java"}, Tagger: javaTagger{}},
	{Name: "kotlin", Extensions: []string{".kt", ".kts"}, Tagger: lexicalTagger{}},
	{Name: "scala", Extensions: []string{".scala", ".sc"}, Tagger: lexicalTagger{}},
	{Name: "groovy", Extensions: []string{".groovy", ".gradle"}, Tagger: lexicalTagger{}},
}

// Lookup returns the language registered under name.
func Lookup(name string) (*Language, bool) {
	name = strings.ToLower(name)
	for _, l := range languages {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// Detect returns the language of path by its extension.
func Detect(path string) (*Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range languages {
		for _, e := range l.Extensions {
			if e == ext {
				return l, true
			}
		}
	}
	return nil, false
}

// Tag builds a tagged buffer for src, detecting the language from path.
func Tag(ctx context.Context, path, src string) (*buffer.Text, error) {
	l, ok := Detect(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	return TagAs(ctx, l.Name, path, src)
}

// TagAs builds a tagged buffer for src in the named language.
func TagAs(ctx context.Context, name, path, src string) (*buffer.Text, error) {
	l, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupported)
	}
	v := scope.For(l.Name)
	if v == nil {
		return nil, fmt.Errorf("%s: no scope vocabulary: %w", name, ErrUnsupported)
	}
	b := buffer.NewText(path, l.Name, src)
	if err := l.Tagger.Tag(ctx, b, v); err != nil {
		return nil, fmt.Errorf("tag %s: %w", path, err)
	}
	log.Debugf("tagged %s as %s: %d spans", path, l.Name, len(b.Spans()))
	return b, nil
}
