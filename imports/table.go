// Copyright © 2024 The Lithium authors

// Package imports parses, sorts, groups and rewrites the leading import
// block of a JVM-family source file.
package imports

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/barmalei/lithium/buffer"
)

// Entry is one parsed import statement.
type Entry struct {
	// Region runs from the import keyword to the end of its line, without
	// the newline. Comments ahead of the keyword stay outside of it.
	Region buffer.Region
	// Line is the 1-based line number of the statement.
	Line   int
	Path   string
	Static bool
}

// Statement renders the entry without a terminator.
func (e Entry) Statement() string {
	if e.Static {
		return "import static " + e.Path
	}
	return "import " + e.Path
}

var importRegexp = regexp.MustCompile(`^import\s+(static\s+)?([^\s:;\-]+)`)

// Parse collects the import statements of the leading part of src. It
// returns nil when the file declares no imports. Scanning stops at the
// first non-empty line that is not an import, a comment or a package
// declaration.
func Parse(src string) []Entry {
	var (
		out  []Entry
		hold bool
	)
	for i, r := range buffer.Lines(src) {
		var code string
		code, hold = stripComments(src[r.Start:r.End], hold)
		line := strings.TrimSpace(code)
		if line == "" {
			continue
		}
		m := importRegexp.FindStringSubmatch(line)
		if m == nil {
			if strings.HasPrefix(line, "package") {
				continue
			}
			break
		}
		lead := len(code) - len(strings.TrimLeftFunc(code, unicode.IsSpace))
		out = append(out, Entry{
			Region: buffer.Region{Start: r.Start + buffer.Position(lead), End: r.End},
			Line:   i + 1,
			Path:   m[2],
			Static: m[1] != "",
		})
	}
	return out
}

// stripComments blanks the comment text of line with spaces, keeping every
// other byte at its offset. open tells whether line starts inside a block
// comment; the returned flag tells whether the next line does.
func stripComments(line string, open bool) (string, bool) {
	b := []byte(line)
	for i := 0; i < len(b); i++ {
		switch {
		case open:
			if b[i] == '*' && i+1 < len(b) && b[i+1] == '/' {
				b[i], b[i+1] = ' ', ' '
				i++
				open = false
				continue
			}
			b[i] = ' '
		case b[i] == '/' && i+1 < len(b) && b[i+1] == '*':
			b[i], b[i+1] = ' ', ' '
			i++
			open = true
		case b[i] == '/' && i+1 < len(b) && b[i+1] == '/':
			for j := i; j < len(b); j++ {
				b[j] = ' '
			}
			return string(b), false
		}
	}
	return string(b), open
}

// Table is the parsed import block of one buffer.
type Table []Entry

// Find returns the first entry whose path ends with "." + suffix.
func (t Table) Find(suffix string) (Entry, bool) {
	for _, e := range t {
		if strings.HasSuffix(e.Path, "."+suffix) {
			return e, true
		}
	}
	return Entry{}, false
}

// PackageOf returns the package prefix of the first import whose path ends
// with "." + class. Imports equal to the class name alone never match.
func (t Table) PackageOf(class string) (string, bool) {
	e, ok := t.Find(class)
	if !ok || len(e.Path) <= len(class) {
		return "", false
	}
	return e.Path[:len(e.Path)-len(class)-1], true
}

// Declared reports whether any import path ends with path.
func (t Table) Declared(path string) bool {
	for _, e := range t {
		if strings.HasSuffix(e.Path, path) {
			return true
		}
	}
	return false
}

// Span returns the region from the start of the first entry to the end of
// the last entry's line.
func (t Table) Span() (buffer.Region, bool) {
	if len(t) == 0 {
		return buffer.Region{}, false
	}
	return buffer.Region{Start: t[0].Region.Start, End: t[len(t)-1].Region.End}, true
}
