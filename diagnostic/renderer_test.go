// Copyright © 2024 The Lithium authors

package diagnostic

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barmalei/lithium/classinfo"
	"github.com/barmalei/lithium/imports"
)

func testRenderer(t *testing.T, sources map[string]string) *Renderer {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, src := range sources {
		require.NoError(t, afero.WriteFile(fs, name, []byte(src), 0o644))
	}
	return &Renderer{Color: ColorNever, Fs: fs}
}

func render(t *testing.T, r *Renderer, d Diagnostic) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, d))
	return buf.String()
}

func TestRenderProblem(t *testing.T) {
	r := testRenderer(t, map[string]string{
		"/p/A.java": "class A {\n    int n = Helpr.NAME;\n}\n",
	})
	got := render(t, r, FromProblem(classinfo.Problem{
		File: "/p/A.java", Level: "error", Message: "cannot find symbol", Line: 2, ArtifactClass: "JavaCompiler",
	}))
	assert.Equal(t, "error: cannot find symbol\n"+
		"  --> /p/A.java:2\n"+
		"   |\n"+
		" 2 |      int n = Helpr.NAME;\n"+
		"   |      ^^^\n"+
		"   |\n"+
		"   = note: reported by JavaCompiler\n", got)
}

func TestRenderUnused(t *testing.T) {
	r := testRenderer(t, map[string]string{
		"/p/A.java": "package a;\n\nimport java.util.List;\n",
	})
	got := render(t, r, FromUnused("/p/A.java", imports.Unused{Path: "java.util.List", Line: 3}))
	assert.Contains(t, got, "warning: unused import: java.util.List")
	assert.Contains(t, got, " 3 |  import java.util.List;\n")
	assert.Contains(t, got, "   |  ^^^^^^^^^^^^^^^^^^^^^ never used\n")
}

func TestRenderWithoutSource(t *testing.T) {
	r := testRenderer(t, nil)
	got := render(t, r, FromLocation(classinfo.Location{File: "/gone/B.java", Line: 7, Description: "';' expected"}, SeverityError))
	assert.Equal(t, "error: ';' expected\n  --> /gone/B.java:7\n   |\n", got)
}

func TestRenderAll(t *testing.T) {
	r := testRenderer(t, nil)
	var buf bytes.Buffer
	require.NoError(t, r.RenderAll(&buf, []Diagnostic{
		{Severity: SeverityNote, Message: "one"},
		{Severity: SeverityWarning, Message: "two", Spans: []Span{{File: "x"}}},
	}))
	assert.Equal(t, "note: one\n\nwarning: two\n  --> x\n   |\n", buf.String())
}

func TestColorAlways(t *testing.T) {
	r := &Renderer{Color: ColorAlways, Fs: afero.NewMemMapFs()}
	got := render(t, r, Diagnostic{Severity: SeverityError, Message: "boom"})
	assert.Contains(t, got, "\033[1;31merror\033[0m")
}

func TestFromProblemSeverity(t *testing.T) {
	assert.Equal(t, SeverityWarning, FromProblem(classinfo.Problem{Level: "warning"}).Severity)
	assert.Equal(t, SeverityNote, FromProblem(classinfo.Problem{Level: "info"}).Severity)
	assert.Equal(t, 1, FromProblem(classinfo.Problem{}).Spans[0].Line)
}
