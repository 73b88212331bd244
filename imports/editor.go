// Copyright © 2024 The Lithium authors

package imports

import (
	"sort"
	"strings"

	"github.com/barmalei/lithium/buffer"
)

// DefaultStandardPrefixes are the platform packages sorted ahead of every
// other import.
var DefaultStandardPrefixes = []string{"java.", "javax."}

// Group is a run of sorted entries sharing their first path segment.
type Group struct {
	Key     string
	Entries []Entry
}

// SortKey returns the key entries are ordered by. Paths under a standard
// prefix get an "a." prefix so they sort first.
func SortKey(path string, standard ...string) string {
	if len(standard) == 0 {
		standard = DefaultStandardPrefixes
	}
	for _, p := range standard {
		if strings.HasPrefix(path, p) {
			return "a." + path
		}
	}
	return path
}

// Sort returns a stably sorted copy of entries.
func Sort(entries []Entry, standard ...string) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return SortKey(out[i].Path, standard...) < SortKey(out[j].Path, standard...)
	})
	return out
}

// GroupKey is the first dotted segment of path.
func GroupKey(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// SortAndGroup sorts entries and splits them into groups of consecutive
// entries with the same GroupKey.
func SortAndGroup(entries []Entry, standard ...string) []Group {
	var groups []Group
	for _, e := range Sort(entries, standard...) {
		k := GroupKey(e.Path)
		if n := len(groups); n > 0 && groups[n-1].Key == k {
			groups[n-1].Entries = append(groups[n-1].Entries, e)
			continue
		}
		groups = append(groups, Group{Key: k, Entries: []Entry{e}})
	}
	return groups
}

// Render prints groups as import statements, one per line, with a blank
// line between groups.
func Render(groups []Group) string {
	var sb strings.Builder
	for i, g := range groups {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		for j, e := range g.Entries {
			if j > 0 {
				sb.WriteString(";\n")
			}
			sb.WriteString(e.Statement())
		}
		sb.WriteString(";")
	}
	return sb.String()
}

// Rewrite returns the edit replacing the whole import block of src with its
// sorted and grouped rendering. It reports false when src has no imports.
func Rewrite(src string, standard ...string) (buffer.Edit, bool) {
	t := Table(Parse(src))
	span, ok := t.Span()
	if !ok {
		return buffer.Edit{}, false
	}
	return buffer.Edit{Region: span, NewText: Render(SortAndGroup(t, standard...))}, true
}

// RemoveUnused returns deletions of the full lines given by their 1-based
// numbers, ordered from the last line to the first so that applying them
// in sequence keeps the remaining regions valid. When entries is non-nil
// only lines holding one of the entries are deleted, and an entry preceded
// by other text on its line loses only its own region.
func RemoveUnused(src string, entries []Entry, lines []int) []buffer.Edit {
	known := make(map[int]Entry, len(entries))
	for _, e := range entries {
		known[e.Line] = e
	}
	uniq := make([]int, 0, len(lines))
	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		if _, ok := known[l]; seen[l] || (entries != nil && !ok) {
			continue
		}
		seen[l] = true
		uniq = append(uniq, l)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(uniq)))

	var edits []buffer.Edit
	for _, l := range uniq {
		p, err := buffer.PointAt(src, l-1, 0)
		if err != nil {
			continue
		}
		if e, ok := known[l]; ok && e.Region.Start > p {
			edits = append(edits, buffer.Edit{Region: e.Region})
			continue
		}
		edits = append(edits, buffer.Edit{Region: buffer.FullLineAt(src, p)})
	}
	return edits
}

// Insertion describes where a new import goes.
type Insertion struct {
	// Syntax selects the statement terminator and placement rules.
	Syntax string
	// Package is the region of the package declaration, if any.
	Package buffer.Region
	// HasPackage reports whether Package is set.
	HasPackage bool
}

// Insert returns the edit adding "import path" to src. Java imports are
// placed in sorted position among the existing entries. Other languages
// put the new import in front of the first entry. Without imports the
// statement follows the package declaration, or opens the file.
func Insert(src string, entries []Entry, path string, at Insertion) buffer.Edit {
	stmt := "import " + path
	term := ""
	if at.Syntax == "java" {
		term = ";"
	}
	if len(entries) > 0 {
		if at.Syntax != "java" {
			return insertAt(entries[0].Region.Start, stmt+term+"\n")
		}
		idx := 0
		for _, e := range entries {
			if stmt <= e.Statement() {
				break
			}
			idx++
		}
		if idx >= len(entries) {
			return insertAt(entries[len(entries)-1].Region.End, "\n"+stmt+term)
		}
		return insertAt(entries[idx].Region.Start, stmt+term+"\n")
	}
	if at.HasPackage {
		end := buffer.LineAt(src, at.Package.Start).End
		return insertAt(end, "\n\n"+stmt+term)
	}
	return insertAt(0, stmt+term+"\n\n")
}

func insertAt(p buffer.Position, text string) buffer.Edit {
	return buffer.Edit{Region: buffer.Region{Start: p, End: p}, NewText: text}
}
