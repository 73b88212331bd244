// Copyright © 2024 The Lithium authors

package classinfo

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethods(t *testing.T) {
	lines := []string{
		"Loading classpath",
		"{public static <T> java.util.List<T> of(T e1)}",
		"{ public abstract int size() }",
		"done",
	}
	assert.Equal(t, []string{
		"public static <T> java.util.List<T> of(T e1)",
		"public abstract int size()",
	}, ParseMethods(lines))
}

func TestParseModules(t *testing.T) {
	lines := []string{"[java.base => jrt:/java.base]", "noise", "[a => b]"}
	assert.Equal(t, []string{"java.base", "a"}, ParseModules(lines))
}

func TestParseClassPaths(t *testing.T) {
	lines := []string{
		"[/usr/lib/rt.jar => java/util/List.class]",
		"[target/classes => com/acme/List.class]",
		"searching...",
	}
	assert.Equal(t, []string{"java.util.List", "com.acme.List"}, ParseClassPaths(lines))
}

func TestParseField(t *testing.T) {
	v, ok := ParseField([]string{"header", "{{{42", "and more}}}", "trailer"})
	require.True(t, ok)
	assert.Equal(t, "42\nand more", v)

	_, ok = ParseField([]string{"nothing"})
	assert.False(t, ok)
}

func TestParseClassInfo(t *testing.T) {
	lines := []string{
		"noise",
		"{{{=(",
		`{"name": "com.acme.Foo",`,
		` "methods": [{"name": "run", "level": "public"}, {"name": "of", "level": "public static"}, {"name": "apply", "level": "public abstract"}],`,
		` "fields": [{"name": "MAX", "level": "public static final", "type": "int"}]}`,
		")=}}}",
		"{{{=(",
	}
	info, err := ParseClassInfo(lines)
	require.NoError(t, err)
	assert.Equal(t, "com.acme.Foo", info.Name)
	require.Len(t, info.Methods, 3)

	sorted := NewLevelFilter().Select(info.Methods)
	assert.Equal(t, []string{"of", "apply", "run"}, names(sorted))

	f := NewLevelFilter()
	f.Toggle("static")
	assert.Equal(t, []string{"apply", "run"}, names(f.Select(info.Methods)))
	assert.Empty(t, f.Select(info.Fields))

	_, err = ParseClassInfo([]string{"no frame"})
	assert.ErrorIs(t, err, ErrNoClassInfo)

	_, err = ParseClassInfo([]string{"{{{=(", "not json", ")=}}}"})
	assert.Error(t, err)
}

func names(members []Member) []string {
	var out []string
	for _, m := range members {
		out = append(out, m.Name)
	}
	return out
}

func TestMethodFilter(t *testing.T) {
	methods := []string{"public static void a()", "public void b()", "protected abstract void c()"}
	var f MethodFilter
	assert.Equal(t, methods, f.Apply(methods))

	f.Toggle("static")
	assert.Equal(t, []string{"public void b()", "protected abstract void c()"}, f.Apply(methods))
	f.Toggle("public")
	assert.Equal(t, []string{"protected abstract void c()"}, f.Apply(methods))
	f.Toggle("static")
	assert.True(t, f.Shown("static"))

	call, ok := CallText("public static <T> java.util.List<T> of(T e1, T e2)")
	require.True(t, ok)
	assert.Equal(t, "of(T e1, T e2)", call)
}

func TestLoadProblems(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/.lithium/problems.json", []byte(`[
		{"file": "/p/src/A.java", "level": "error", "message": "cannot find symbol", "line": 12, "artifactClass": "JavaCompiler"},
		{"file": "/p/src/B.java", "level": "info", "message": "note"}
	]`), 0o644))

	problems, err := LoadProblems(fs, "/p/.lithium/problems.json")
	require.NoError(t, err)
	require.Len(t, problems, 2)
	assert.Equal(t, SeverityError, problems[0].Severity())
	assert.Equal(t, 12, problems[0].LineOrFirst())
	assert.Equal(t, SeverityInfo, problems[1].Severity())
	assert.Equal(t, 1, problems[1].LineOrFirst())

	_, err = LoadProblems(fs, "/missing.json")
	assert.Error(t, err)
}

func TestDetectLocations(t *testing.T) {
	patterns, err := CompilePatterns(DefaultLocationPatterns)
	require.NoError(t, err)

	text := strings.Join([]string{
		"Starting audit...",
		"[WARN] /p/src/A.java:3:8: Unused import - java.util.List. [UnusedImports]",
		"/p/src/B.java:10: error: ';' expected",
		"Audit done.",
	}, "\n")
	locs := DetectLocations(text, patterns)
	require.Len(t, locs, 2)
	assert.Equal(t, Location{File: "/p/src/A.java", Line: 3, Description: "Unused import - java.util.List. [UnusedImports]"}, locs[0])
	assert.Equal(t, "/p/src/B.java", locs[1].File)
	assert.Equal(t, 10, locs[1].Line)

	_, err = CompilePatterns([]string{`(\w+)`})
	assert.Error(t, err)
	_, err = CompilePatterns([]string{`(`})
	assert.Error(t, err)
}

func TestRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := Renderer{Width: 60}
	var f MethodFilter
	f.Toggle("abstract")
	require.NoError(t, r.Methods(&buf, "com.acme.Foo", []string{"public void a()", "public abstract void b()"}, &f))
	out := buf.String()
	assert.Contains(t, out, "com.acme.Foo | public [x] static [x] abstract [-]")
	assert.Contains(t, out, "    public void a()")
	assert.NotContains(t, out, "b()")

	buf.Reset()
	info := &ClassInfo{Name: "Foo", Fields: []Member{{Name: "MAX", Level: "static", Type: "int"}}}
	require.NoError(t, r.ClassInfo(&buf, info, NewLevelFilter()))
	assert.Contains(t, buf.String(), "Fields:")
	assert.Contains(t, buf.String(), "static int MAX")
	assert.NotContains(t, buf.String(), "Methods:")
}
