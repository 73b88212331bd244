// Copyright © 2024 The Lithium authors

package imports

import "regexp"

var unusedRegexp = regexp.MustCompile(`\s+([^;:,?!%^&()|+=></-]+)\.\s+\[UnusedImports\]$`)

// Unused is an import reported as unused by the style checker.
type Unused struct {
	Path string
	// Line is 1-based.
	Line int
}

// UnusedImport extracts the import path from a checker message such as
// "Unused import - java.util.List. [UnusedImports]".
func UnusedImport(description string) (string, bool) {
	m := unusedRegexp.FindStringSubmatch(description)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// UnusedLines returns the line numbers of reports.
func UnusedLines(reports []Unused) []int {
	out := make([]int, len(reports))
	for i, u := range reports {
		out[i] = u.Line
	}
	return out
}
