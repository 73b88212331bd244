// Copyright © 2024 The Lithium authors

package classinfo

import (
	"regexp"
	"sort"
	"strings"
)

// ClassInfo describes a class as reported by the tool.
type ClassInfo struct {
	Name    string   `json:"name"`
	Methods []Member `json:"methods"`
	Fields  []Member `json:"fields"`
}

// Member is a method or a field. Level holds the space separated
// modifiers, e.g. "public static".
type Member struct {
	Name  string `json:"name"`
	Level string `json:"level"`
	Type  string `json:"type,omitempty"`
	// Signature is the printable declaration, when the tool provides one.
	Signature string `json:"signature,omitempty"`
}

// Has reports whether the member carries modifier.
func (m Member) Has(modifier string) bool {
	for _, f := range strings.Fields(m.Level) {
		if f == modifier {
			return true
		}
	}
	return false
}

// Levels are the modifiers members can be filtered by.
var Levels = []string{"static", "abstract", "public", "protected", "private"}

// LevelFilter selects which members are shown. A modifier mapped to false
// hides every member carrying it.
type LevelFilter map[string]bool

// NewLevelFilter shows everything.
func NewLevelFilter() LevelFilter {
	f := make(LevelFilter, len(Levels))
	for _, l := range Levels {
		f[l] = true
	}
	return f
}

// Toggle flips the visibility of level.
func (f LevelFilter) Toggle(level string) {
	if v, ok := f[level]; ok {
		f[level] = !v
	}
}

// Allows reports whether m passes the filter.
func (f LevelFilter) Allows(m Member) bool {
	for level, shown := range f {
		if !shown && m.Has(level) {
			return false
		}
	}
	return true
}

// Select returns the members passing f, static members first, then
// abstract ones, each run ordered by name.
func (f LevelFilter) Select(members []Member) []Member {
	var out []Member
	for _, m := range members {
		if f.Allows(m) {
			out = append(out, m)
		}
	}
	SortMembers(out)
	return out
}

// SortMembers orders static members first, abstract next, then by name.
func SortMembers(members []Member) {
	rank := func(m Member) int {
		switch {
		case m.Has("static"):
			return 0
		case m.Has("abstract"):
			return 1
		}
		return 2
	}
	sort.SliceStable(members, func(i, j int) bool {
		ri, rj := rank(members[i]), rank(members[j])
		if ri != rj {
			return ri < rj
		}
		return members[i].Name < members[j].Name
	})
}

// MethodFilter hides method signatures by keyword. All keywords are shown
// initially.
type MethodFilter struct {
	hidden map[string]bool
}

// MethodKeywords are the keywords MethodFilter toggles.
var MethodKeywords = []string{"public", "static", "abstract"}

// Toggle flips the visibility of keyword.
func (f *MethodFilter) Toggle(keyword string) {
	if f.hidden == nil {
		f.hidden = make(map[string]bool)
	}
	f.hidden[keyword] = !f.hidden[keyword]
}

// Shown reports whether keyword is visible.
func (f *MethodFilter) Shown(keyword string) bool {
	return !f.hidden[keyword]
}

// Apply returns the signatures containing no hidden keyword.
func (f *MethodFilter) Apply(methods []string) []string {
	var out []string
next:
	for _, m := range methods {
		for _, k := range MethodKeywords {
			if !f.Shown(k) && strings.Contains(m, k) {
				continue next
			}
		}
		out = append(out, m)
	}
	return out
}

var callRegexp = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_]*\s*\([^()]*\))`)

// CallText extracts "name(params)" from a method signature.
func CallText(signature string) (string, bool) {
	m := callRegexp.FindStringSubmatch(signature)
	if m == nil {
		return "", false
	}
	return m[1], true
}
