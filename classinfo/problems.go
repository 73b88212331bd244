// Copyright © 2024 The Lithium authors

package classinfo

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/spf13/afero"
)

// Problem is one entry of the problems file written by the lithium tool.
type Problem struct {
	File          string `json:"file"`
	Level         string `json:"level"`
	Message       string `json:"message"`
	Line          int    `json:"line"`
	ArtifactClass string `json:"artifactClass"`
}

// Severity classifies a problem for display.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityError
)

// Severity maps the "error" and "warning" levels to SeverityError and
// every other level to SeverityInfo.
func (p Problem) Severity() Severity {
	switch p.Level {
	case "error", "warning":
		return SeverityError
	}
	return SeverityInfo
}

// LineOrFirst returns the 1-based line, defaulting to the first line.
func (p Problem) LineOrFirst() int {
	if p.Line < 1 {
		return 1
	}
	return p.Line
}

// LoadProblems reads a problems file.
func LoadProblems(fs afero.Fs, path string) ([]Problem, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var out []Problem
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Location is a file position found in tool output.
type Location struct {
	File        string
	Line        int
	Description string
}

// DefaultLocationPatterns match checkstyle style "[WARN] file:line:col: text"
// lines and compiler style "/abs/file:line: text" lines. Each pattern has
// three groups: file, line, description.
var DefaultLocationPatterns = []string{
	`(?m)^\[\w+\]\s+([^:\s][^:]*):(\d+)(?::\d+)?:\s*(.*)$`,
	`(?m)^(/[^:\s]+):(\d+)(?::\d+)?:\s*(.*)$`,
}

// CompilePatterns compiles location patterns, checking each has at least
// three groups.
func CompilePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("location pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 3 {
			return nil, fmt.Errorf("location pattern %q: want 3 groups, have %d", p, re.NumSubexp())
		}
		out = append(out, re)
	}
	return out, nil
}

// DetectLocations applies every pattern to text and returns all matches in
// pattern order.
func DetectLocations(text string, patterns []*regexp.Regexp) []Location {
	var out []Location
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			line, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			out = append(out, Location{File: m[1], Line: line, Description: m[3]})
		}
	}
	return out
}
