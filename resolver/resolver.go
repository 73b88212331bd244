// Copyright © 2024 The Lithium authors

// Package resolver reconstructs the fully-qualified symbol under a cursor
// from scope tags, the surrounding dotted path, the import block and the
// files next to the buffer.
package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/tliron/commonlog"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/imports"
	"github.com/barmalei/lithium/scope"
	"github.com/barmalei/lithium/walker"
)

var log = commonlog.GetLogger("lithium.resolver")

var (
	// ErrOutOfRange is returned when no word can be found at the cursor.
	ErrOutOfRange = errors.New("no symbol at cursor")
	// ErrAmbiguousSelection is returned for multi-region selections.
	ErrAmbiguousSelection = errors.New("more than one region selected")
	// ErrUnsupportedSyntax is returned for buffers of an unknown language.
	ErrUnsupportedSyntax = errors.New("unsupported syntax")
)

// Resolver resolves symbols. The file system is consulted for classes
// living next to the buffer's file.
type Resolver struct {
	fs afero.Fs
}

// New returns a resolver reading sibling files from fs.
func New(fs afero.Fs) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Resolver{fs: fs}
}

func vocabulary(b buffer.Buffer) (*scope.Vocabulary, error) {
	v := scope.For(b.Syntax())
	if v == nil {
		return nil, fmt.Errorf("%q: %w", b.Syntax(), ErrUnsupportedSyntax)
	}
	return v, nil
}

// ResolveSelection resolves the single selected region.
func (r *Resolver) ResolveSelection(b buffer.Buffer, regions []buffer.Region) (SymbolPath, error) {
	switch len(regions) {
	case 0:
		return SymbolPath{}, ErrOutOfRange
	case 1:
		return r.Resolve(b, regions[0])
	}
	return SymbolPath{}, ErrAmbiguousSelection
}

// ResolveAt resolves the word at p.
func (r *Resolver) ResolveAt(b buffer.Buffer, p buffer.Position) (SymbolPath, error) {
	return r.Resolve(b, buffer.Region{Start: p, End: p})
}

// Word returns the region and text of the word selected by region. An
// empty region is expanded to the word around it.
func Word(b buffer.Buffer, region buffer.Region) (buffer.Region, string, error) {
	if region.Start < 0 || int(region.End) > b.Size() {
		return region, "", ErrOutOfRange
	}
	if region.Empty() {
		region = b.WordAt(region.Start)
	}
	text := strings.TrimSpace(b.Text(region))
	if text == "" {
		return region, "", ErrOutOfRange
	}
	return region, text, nil
}

// Resolve reconstructs the symbol selected by region.
func (r *Resolver) Resolve(b buffer.Buffer, region buffer.Region) (SymbolPath, error) {
	v, err := vocabulary(b)
	if err != nil {
		return SymbolPath{}, err
	}
	region, symbol, err := Word(b, region)
	if err != nil {
		return SymbolPath{}, err
	}

	declared := func() []string { return split(DeclaredPackage(b)) }
	e := walker.Seed(b, region, v, declared)
	e = walker.Expand(b, region, v, declared, e)
	log.Debugf("resolve %q: %s", symbol, e)

	res := SymbolPath{Text: e.Symbol}
	pkgs, classes := e.Packages, e.Classes
	if len(pkgs) > 0 {
		res.Origin = OriginInline
	}

	if len(classes) == 0 {
		cls := DeclaredClass(b)
		switch {
		case len(e.Constants) > 0 && len(pkgs) == 0 && cls != "":
			classes = []string{cls}
			pkgs = declared()
			if len(pkgs) > 0 {
				res.Origin = OriginPackage
			}
		case len(e.Parts) > 0:
			classes = []string{e.Parts[len(e.Parts)-1]}
		default:
			classes = []string{symbol}
			res.raw = true
		}
	}

	if len(pkgs) == 0 && len(classes) > 0 {
		pkgs, res.Origin = r.packageOf(b, v, classes)
	}

	res.Package = strings.Join(pkgs, ".")
	res.Class = strings.Join(classes, ".")
	res.Constant = strings.Join(e.Constants, ".")
	log.Debugf("resolved %q to %s (origin %q)", symbol, res, res.Origin)
	return res, nil
}

// packageOf finds the package of a class path through the import block,
// then through a sibling source file.
func (r *Resolver) packageOf(b buffer.Buffer, v *scope.Vocabulary, classes []string) ([]string, Origin) {
	table := imports.Table(imports.Parse(b.Text(buffer.Region{Start: 0, End: buffer.Position(b.Size())})))
	if len(table) > 0 {
		candidate := ""
		for _, c := range classes {
			if candidate == "" {
				candidate = c
			} else {
				candidate += "." + c
			}
			if pkg, ok := table.PackageOf(candidate); ok {
				return split(pkg), OriginImport
			}
		}
	}
	if r.siblingExists(b, v, classes[0]) {
		if pkg := split(DeclaredPackage(b)); len(pkg) > 0 {
			return pkg, OriginPackage
		}
	}
	return nil, OriginNone
}

func (r *Resolver) siblingExists(b buffer.Buffer, v *scope.Vocabulary, class string) bool {
	if b.Path() == "" {
		return false
	}
	path := filepath.Join(filepath.Dir(b.Path()), class+"."+v.Extension)
	ok, err := afero.Exists(r.fs, path)
	if err != nil {
		log.Warningf("stat %s: %v", path, err)
		return false
	}
	return ok
}

// DeclaredPackage returns the package declared by the buffer, or "".
func DeclaredPackage(b buffer.Buffer) string {
	name, _, _ := PackageDeclaration(b)
	return name
}

// PackageDeclaration returns the declared package name and the region of
// its dotted path.
func PackageDeclaration(b buffer.Buffer) (string, buffer.Region, bool) {
	v := scope.For(b.Syntax())
	if v == nil {
		return "", buffer.Region{}, false
	}
	regions := b.SelectorMatches(v.PackageSelector())
	if len(regions) == 0 {
		return "", buffer.Region{}, false
	}
	return b.Text(regions[0]), regions[0], true
}

// DeclaredClass returns the first class declared by the buffer, or "".
func DeclaredClass(b buffer.Buffer) string {
	v := scope.For(b.Syntax())
	if v == nil {
		return ""
	}
	regions := b.SelectorMatches(v.ClassSelector())
	if len(regions) == 0 {
		return ""
	}
	return b.Text(regions[0])
}

// DetectClassPackage finds the package of a bare class name: from the
// import block, from the buffer's own file name, or from a sibling file.
func (r *Resolver) DetectClassPackage(b buffer.Buffer, class string) (string, Origin, bool) {
	v, err := vocabulary(b)
	if err != nil {
		return "", OriginNone, false
	}
	table := imports.Table(imports.Parse(b.Text(buffer.Region{Start: 0, End: buffer.Position(b.Size())})))
	if pkg, ok := table.PackageOf(class); ok {
		return pkg, OriginImport, true
	}
	if b.Path() != "" {
		base := filepath.Base(b.Path())
		if strings.TrimSuffix(base, filepath.Ext(base)) == class {
			return DeclaredPackage(b), OriginPackage, true
		}
	}
	if r.siblingExists(b, v, class) {
		return DeclaredPackage(b), OriginPackage, true
	}
	return "", OriginNone, false
}

func split(pkg string) []string {
	if pkg == "" {
		return nil
	}
	return strings.Split(pkg, ".")
}
