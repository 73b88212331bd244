// Copyright © 2024 The Lithium authors

package classinfo

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// DefaultWidth is the wrap width of rendered text.
const DefaultWidth = 100

// Renderer prints class metadata as plain text.
type Renderer struct {
	Width int
}

func (r Renderer) width() int {
	if r.Width <= 0 {
		return DefaultWidth
	}
	return r.Width
}

func (r Renderer) block(lines []string) string {
	return indent.String(wordwrap.String(strings.Join(lines, "\n"), r.width()-4), 4)
}

// Methods prints the header with filter marks followed by the methods.
func (r Renderer) Methods(w io.Writer, class string, methods []string, f *MethodFilter) error {
	var marks []string
	for _, k := range MethodKeywords {
		mark := "-"
		if f.Shown(k) {
			mark = "x"
		}
		marks = append(marks, fmt.Sprintf("%s [%s]", k, mark))
	}
	if _, err := fmt.Fprintf(w, "%s | %s\n", class, strings.Join(marks, " ")); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, r.block(f.Apply(methods)))
	return err
}

// Modules prints the modules providing class.
func (r Renderer) Modules(w io.Writer, class string, modules []string) error {
	if _, err := fmt.Fprintln(w, class); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, r.block(modules))
	return err
}

// ClassInfo prints the members of info passing f.
func (r Renderer) ClassInfo(w io.Writer, info *ClassInfo, f LevelFilter) error {
	var marks []string
	for _, l := range Levels {
		mark := "-"
		if f[l] {
			mark = "x"
		}
		marks = append(marks, fmt.Sprintf("%s [%s]", l, mark))
	}
	if _, err := fmt.Fprintf(w, "%s | %s\n", info.Name, strings.Join(marks, " ")); err != nil {
		return err
	}
	sections := []struct {
		title   string
		members []Member
	}{
		{"Methods", f.Select(info.Methods)},
		{"Fields", f.Select(info.Fields)},
	}
	for _, s := range sections {
		if len(s.members) == 0 {
			continue
		}
		lines := make([]string, len(s.members))
		for i, m := range s.members {
			lines[i] = memberLine(m)
		}
		if _, err := fmt.Fprintf(w, "  %s:\n%s\n", s.title, r.block(lines)); err != nil {
			return err
		}
	}
	return nil
}

func memberLine(m Member) string {
	if m.Signature != "" {
		return m.Signature
	}
	parts := []string{}
	if m.Level != "" {
		parts = append(parts, m.Level)
	}
	if m.Type != "" {
		parts = append(parts, m.Type)
	}
	parts = append(parts, m.Name)
	return strings.Join(parts, " ")
}

// Field prints a field value under the symbol it belongs to.
func (r Renderer) Field(w io.Writer, symbol, value string) error {
	_, err := fmt.Fprintf(w, "%s\n%s\n", symbol, r.block(strings.Split(value, "\n")))
	return err
}
