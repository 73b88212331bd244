// Copyright © 2024 The Lithium authors

package runner

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// HomeMarker is the folder that marks a project home.
const HomeMarker = ".lithium"

const maxHomeDepth = 100

// DetectHome walks up from path looking for a folder that contains
// HomeMarker. path may be a file or a folder.
func DetectHome(fs afero.Fs, path string) (string, bool) {
	if path == "" {
		return "", false
	}
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	if ok, _ := afero.IsDir(fs, dir); !ok {
		dir = filepath.Dir(dir)
	}
	for i := 0; i < maxHomeDepth; i++ {
		if ok, _ := afero.DirExists(fs, filepath.Join(dir, HomeMarker)); ok {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// SourceHome returns the nearest ancestor folder of path named "src".
func SourceHome(path string) (string, bool) {
	dir := filepath.Dir(path)
	for i := 0; i < maxHomeDepth; i++ {
		if filepath.Base(dir) == "src" {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// Placeholders are the values substituted into command templates.
type Placeholders struct {
	Home    string
	File    string
	SrcExt  string
	SrcHome string
	Symbol  string
}

// NewPlaceholders derives the placeholders of a file.
func NewPlaceholders(fs afero.Fs, file, symbol string) Placeholders {
	p := Placeholders{File: file, Symbol: symbol}
	if file != "" {
		p.SrcExt = filepath.Ext(file)
		p.Home, _ = DetectHome(fs, file)
		var ok bool
		if p.SrcHome, ok = SourceHome(file); !ok {
			p.SrcHome = filepath.Dir(file)
		}
	}
	return p
}

// Expand substitutes {home}, {file}, {src_ext}, {src_home} and {symbol} in
// template. Path values containing spaces are double quoted.
func (p Placeholders) Expand(template string) string {
	return strings.NewReplacer(
		"{home}", quotePath(p.Home),
		"{file}", quotePath(p.File),
		"{src_ext}", p.SrcExt,
		"{src_home}", quotePath(p.SrcHome),
		"{symbol}", p.Symbol,
	).Replace(template)
}

func quotePath(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
