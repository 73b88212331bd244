// Copyright © 2024 The Lithium authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/barmalei/lithium/buffer"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // colors on terminals unless NO_COLOR is set
	ColorAlways
	ColorNever
)

type palette struct {
	bold, yellow, boldRed, boldBlue, boldCyan, reset string
}

var ansi = palette{
	bold:     "\033[1m",
	yellow:   "\033[33m",
	boldRed:  "\033[1;31m",
	boldBlue: "\033[1;34m",
	boldCyan: "\033[1;36m",
	reset:    "\033[0m",
}

func (m ColorMode) palette(w io.Writer) palette {
	switch m {
	case ColorAlways:
		return ansi
	case ColorNever:
		return palette{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return palette{}
	}
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return palette{}
	}
	return ansi
}

// Renderer prints diagnostics as annotated source snippets.
type Renderer struct {
	Color ColorMode
	// Fs reads the annotated sources. Nil reads the OS file system.
	Fs afero.Fs
}

// Render writes d to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	p := r.Color.palette(w)
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	sevColor := p.boldCyan
	switch d.Severity {
	case SeverityError:
		sevColor = p.boldRed
	case SeverityWarning:
		sevColor = p.yellow
	}
	ew.printf("%s%s%s:%s %s%s%s\n", sevColor, d.Severity, p.reset, p.reset, p.bold, d.Message, p.reset)
	for _, span := range d.Spans {
		r.span(ew, span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

// RenderAll writes diags separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	for i, d := range diags {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Render(w, d); err != nil {
			return err
		}
	}
	return nil
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err == nil {
		_, ew.err = fmt.Fprintf(ew.w, format, a...)
	}
}

func (r *Renderer) span(ew *errWriter, s Span, p palette) {
	loc := s.File
	if s.Line > 0 {
		loc = fmt.Sprintf("%s:%d", s.File, s.Line)
		if s.Col > 0 {
			loc = fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	source := r.sourceLine(s.File, s.Line)
	if strings.TrimSpace(source) == "" {
		ew.printf("   %s|%s\n", p.boldBlue, p.reset)
		return
	}
	num := fmt.Sprint(s.Line)
	pad := strings.Repeat(" ", len(num))
	source = strings.ReplaceAll(source, "\t", "    ")

	col := s.Col
	if col <= 0 {
		col = len(source) - len(strings.TrimLeft(source, " ")) + 1
	}
	end := s.EndCol
	if end <= 0 {
		end = identifierEnd(source, col)
	}
	if end < col {
		end = col
	}

	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, num, p.reset, source)
	ew.printf(" %s%s |%s  %s%s%s%s", p.boldBlue, pad, p.reset,
		strings.Repeat(" ", col-1), p.boldRed, strings.Repeat("^", end-col+1), p.reset)
	if s.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, s.Label, p.reset)
	}
	ew.printf("\n %s%s |%s\n", p.boldBlue, pad, p.reset)
}

func (r *Renderer) sourceLine(file string, line int) string {
	if line <= 0 || file == "" {
		return ""
	}
	fs := r.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	data, err := afero.ReadFile(fs, file)
	if err != nil {
		return ""
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for i := 1; sc.Scan(); i++ {
		if i == line {
			return sc.Text()
		}
	}
	return ""
}

// identifierEnd returns the 1-based column ending the dotted identifier
// starting at col, or the end of the statement when col is at a keyword.
func identifierEnd(source string, col int) int {
	if col <= 0 || col > len(source) {
		return col
	}
	end := col - 1
	for end < len(source) && (buffer.IsWordChar(source[end]) || source[end] == '.' || source[end] == ' ' && end > col-1 && isStatementStart(source[col-1:end])) {
		end++
	}
	if end == col-1 {
		return col
	}
	return end
}

func isStatementStart(prefix string) bool {
	switch strings.TrimSpace(prefix) {
	case "import", "import static", "package":
		return true
	}
	return false
}
