// Copyright © 2024 The Lithium authors

// Package classinfo parses the class metadata printed by the lithium tool
// and renders it for display.
package classinfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Tool commands producing the output parsed here.
const (
	MethodsCommand   = "LiJavaToolRunner:methods:"
	ModuleCommand    = "LiJavaToolRunner:module:"
	ClassInfoCommand = "LiJavaToolRunner:classInfo:"
	FieldCommand     = "LiJavaToolRunner:field:"
	UnusedCommand    = "UnusedJavaCheckStyle:"
	FindCommand      = "FindInClasspath:"
)

// ErrNoClassInfo is returned when the output carries no class info frame.
var ErrNoClassInfo = errors.New("no class info in tool output")

var (
	methodRegexp    = regexp.MustCompile(`\{([^{}]+)\}`)
	moduleRegexp    = regexp.MustCompile(`\[([^\[\]]+) => .*\]`)
	classPathRegexp = regexp.MustCompile(`\[(.*)\s*=>\s*(.*)\]`)
	fieldRegexp     = regexp.MustCompile(`\{\{\{([^{}]+)\}\}\}`)
)

const (
	frameOpen  = "{{{=("
	frameClose = ")=}}}"
)

// ParseMethods returns the method signatures printed as "{...}" lines.
func ParseMethods(lines []string) []string {
	var out []string
	for _, l := range lines {
		if m := methodRegexp.FindStringSubmatch(l); m != nil {
			out = append(out, strings.TrimSpace(m[1]))
		}
	}
	return out
}

// ParseModules returns the modules printed as "[module => location]".
func ParseModules(lines []string) []string {
	var out []string
	for _, l := range lines {
		if m := moduleRegexp.FindStringSubmatch(l); m != nil {
			out = append(out, strings.TrimSpace(m[1]))
		}
	}
	return out
}

// ParseClassPaths returns the dotted class names of "[origin => a/b/C.class]"
// lines.
func ParseClassPaths(lines []string) []string {
	var out []string
	for _, l := range lines {
		m := classPathRegexp.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[2])
		name = strings.ReplaceAll(name, "/", ".")
		name = strings.TrimSuffix(name, ".class")
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ParseField returns the field value framed by "{{{" and "}}}" anywhere in
// the output.
func ParseField(lines []string) (string, bool) {
	m := fieldRegexp.FindStringSubmatch(strings.Join(lines, "\n"))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseClassInfo decodes the JSON document framed by "{{{=(" and ")=}}}"
// lines.
func ParseClassInfo(lines []string) (*ClassInfo, error) {
	var (
		body   []string
		inside bool
	)
	for _, l := range lines {
		switch {
		case !inside && strings.Contains(l, frameOpen):
			inside = true
		case inside && strings.Contains(l, frameClose):
			inside = false
		case inside:
			body = append(body, l)
		}
	}
	if len(body) == 0 {
		return nil, ErrNoClassInfo
	}
	var info ClassInfo
	if err := json.Unmarshal([]byte(strings.Join(body, "")), &info); err != nil {
		return nil, fmt.Errorf("class info: %w", err)
	}
	return &info, nil
}
