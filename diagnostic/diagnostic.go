// Copyright © 2024 The Lithium authors

// Package diagnostic renders problems reported by the lithium tool as
// annotated source snippets for the CLI.
package diagnostic

import (
	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/imports"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	}
	return "unknown"
}

// Span points at the source a diagnostic is about.
type Span struct {
	File   string
	Line   int // 1-based
	Col    int // 1-based, 0 underlines from the first non-blank column
	EndCol int // 1-based, 0 detects the end of the identifier at Col
	Label  string
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

// FromProblem converts an entry of the problems file.
func FromProblem(p classinfo.Problem) Diagnostic {
	sev := SeverityNote
	switch p.Level {
	case "error":
		sev = SeverityError
	case "warning":
		sev = SeverityWarning
	}
	d := Diagnostic{
		Severity: sev,
		Message:  p.Message,
		Spans:    []Span{{File: p.File, Line: p.LineOrFirst()}},
	}
	if p.ArtifactClass != "" {
		d.Notes = append(d.Notes, "reported by "+p.ArtifactClass)
	}
	return d
}

// FromLocation converts a location found in tool output.
func FromLocation(loc classinfo.Location, sev Severity) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Message:  loc.Description,
		Spans:    []Span{{File: loc.File, Line: loc.Line}},
	}
}

// FromUnused reports an unused import of file.
func FromUnused(file string, u imports.Unused) Diagnostic {
	return Diagnostic{
		Severity: SeverityWarning,
		Message:  "unused import: " + u.Path,
		Spans:    []Span{{File: file, Line: u.Line, Label: "never used"}},
	}
}
