// Copyright © 2024 The Lithium authors

package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/scope"
	"github.com/barmalei/lithium/syntax"
)

func javaBuffer(t *testing.T, path, src string) *buffer.Text {
	t.Helper()
	b, err := syntax.Tag(context.Background(), path, src)
	require.NoError(t, err)
	return b
}

// cursor returns the position inside the n-th (0-based) occurrence of word.
func cursor(t *testing.T, src, word string, n int) buffer.Position {
	t.Helper()
	off := 0
	for i := 0; ; i++ {
		idx := strings.Index(src[off:], word)
		require.GreaterOrEqual(t, idx, 0, "occurrence %d of %q", n, word)
		if i == n {
			return buffer.Position(off + idx + 1)
		}
		off += idx + len(word)
	}
}

func TestResolve(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/com/acme/Other.java", []byte("package com.acme;\nclass Other {}\n"), 0o644))

	tests := []struct {
		name     string
		src      string
		word     string
		n        int
		pkg      string
		class    string
		constant string
		origin   Origin
	}{
		{
			name:     "constant through import",
			src:      "package com.acme;\nimport com.acme.util.Helper;\nclass A { int x = Helper.NAME; }\n",
			word:     "NAME",
			pkg:      "com.acme.util",
			class:    "Helper",
			constant: "NAME",
			origin:   OriginImport,
		},
		{
			name:     "bare constant falls back to declared class",
			src:      "class Main {\n    int a = LIMIT;\n}\n",
			word:     "LIMIT",
			class:    "Main",
			constant: "LIMIT",
		},
		{
			name:     "bare constant with declared package",
			src:      "package com.acme;\nclass Main {\n    int a = LIMIT;\n}\n",
			word:     "LIMIT",
			pkg:      "com.acme",
			class:    "Main",
			constant: "LIMIT",
			origin:   OriginPackage,
		},
		{
			name:   "inline qualified type",
			src:    "class A { Object o = new java.util.HashMap(); }\n",
			word:   "util",
			pkg:    "java.util",
			class:  "HashMap",
			origin: OriginInline,
		},
		{
			name:   "class declaration",
			src:    "package com.acme;\nclass Main {}\n",
			word:   "Main",
			pkg:    "com.acme",
			class:  "Main",
			origin: OriginInline,
		},
		{
			name:   "superclass through import",
			src:    "import org.base.Parent;\nclass A extends Parent {}\n",
			word:   "Parent",
			n:      1,
			pkg:    "org.base",
			class:  "Parent",
			origin: OriginImport,
		},
		{
			name:   "nested class through outer import",
			src:    "import com.x.Outer;\nclass A { Outer.Inner i; }\n",
			word:   "Inner",
			pkg:    "com.x",
			class:  "Outer.Inner",
			origin: OriginImport,
		},
		{
			name:   "sibling file",
			src:    "package com.acme;\nclass Main { Other o; }\n",
			word:   "Other",
			pkg:    "com.acme",
			class:  "Other",
			origin: OriginPackage,
		},
		{
			name:  "first import wins",
			src:   "import a.util.List;\nimport b.util.List;\nclass A { List l; }\n",
			word:  "List",
			n:     2,
			pkg:   "a.util",
			class: "List",
		},
	}
	r := New(fs)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b := javaBuffer(t, "/src/com/acme/Main.java", test.src)
			got, err := r.ResolveAt(b, cursor(t, test.src, test.word, test.n))
			require.NoError(t, err)
			assert.Equal(t, test.pkg, got.Package)
			assert.Equal(t, test.class, got.Class)
			assert.Equal(t, test.constant, got.Constant)
			if test.origin != OriginNone {
				assert.Equal(t, test.origin, got.Origin)
			}
			assert.False(t, got.Unresolved())
		})
	}
}

func TestResolveStopsAtDetachedDot(t *testing.T) {
	tests := []struct {
		name string
		path string
		src  string
		word string
		want string
	}{
		{
			name: "kotlin class after import line",
			path: "/src/com/acme/Main.kt",
			src:  "package com.acme\n\nimport org.util.Helper\n\nclass Main {\n}\n",
			word: "Main",
			want: "com.acme.Main",
		},
		{
			name: "kotlin class with supertype",
			path: "/src/com/acme/Main.kt",
			src:  "package com.acme\n\nclass Main : Base()\n",
			word: "Main",
			want: "com.acme.Main",
		},
		{
			name: "java class after qualified annotation",
			path: "/src/com/acme/Main.java",
			src:  "package com.acme;\n\n@org.anno.Marker\nclass Main {}\n",
			word: "Main",
			want: "com.acme.Main",
		},
		{
			name: "java dotted reference split by whitespace",
			path: "/src/com/acme/Main.java",
			src:  "package com.acme;\nimport com.acme.util.Helper;\nclass A { int x = Helper\n        .NAME; }\n",
			word: "NAME",
			want: "com.acme.util.Helper.NAME",
		},
	}
	r := New(afero.NewMemMapFs())
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			b, err := syntax.Tag(context.Background(), test.path, test.src)
			require.NoError(t, err)
			got, err := r.ResolveAt(b, cursor(t, test.src, test.word, 0))
			require.NoError(t, err)
			assert.Equal(t, test.want, got.String())
			assert.NotContains(t, got.Text, "org")
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/com/acme/Other.java", nil, 0o644))
	sources := []struct {
		path  string
		src   string
		words []string
	}{
		{
			path:  "/src/com/acme/Main.java",
			src:   "package com.acme;\nimport com.acme.util.Helper;\nclass Main extends Other {\n    int a = Helper.NAME;\n    int b = LIMIT;\n    Object o = new java.util.HashMap();\n    int c = missing;\n}\n",
			words: []string{"Main", "Other", "Helper", "NAME", "LIMIT", "util", "HashMap", "missing"},
		},
		{
			path:  "/src/com/acme/Main.kt",
			src:   "package com.acme\n\nimport org.util.Helper\n\nclass Main {\n    val h = Helper.NAME\n}\n",
			words: []string{"Main", "Helper", "NAME"},
		},
	}
	r := New(fs)
	for _, s := range sources {
		b, err := syntax.Tag(context.Background(), s.path, s.src)
		require.NoError(t, err)
		for _, w := range s.words {
			p := cursor(t, s.src, w, 0)
			first, err := r.ResolveAt(b, p)
			require.NoError(t, err, w)
			second, err := r.ResolveAt(b, p)
			require.NoError(t, err, w)
			assert.Equal(t, first, second, "%s: %s", s.path, w)
		}
	}
}

func TestResolveScenarioOne(t *testing.T) {
	src := "package com.acme;\nimport com.acme.util.Helper;\nclass A { int x = Helper.NAME; }\n"
	b := javaBuffer(t, "A.java", src)
	got, err := New(afero.NewMemMapFs()).ResolveAt(b, cursor(t, src, "NAME", 0))
	require.NoError(t, err)
	assert.Equal(t, "com.acme.util.Helper.NAME", got.String())
	assert.Equal(t, "com.acme.util.Helper", got.ClassPath())
	assert.Equal(t, "com/acme/util/Helper", got.FilePath())
	assert.Equal(t, "Helper.NAME", got.Text)
}

func TestResolveRawFallback(t *testing.T) {
	src := "class A { void f() { x = undeclared; } }\n"
	b := javaBuffer(t, "A.java", src)
	r := New(afero.NewMemMapFs())

	got, err := r.ResolveAt(b, cursor(t, src, "undeclared", 0))
	require.NoError(t, err)
	assert.Equal(t, SymbolPath{Class: "undeclared", Text: "undeclared", raw: true}, got)
	assert.True(t, got.Unresolved())

	again, err := r.ResolveAt(b, cursor(t, src, "undeclared", 0))
	require.NoError(t, err)
	assert.Equal(t, got, again, "resolution is deterministic")
}

func TestResolveHandTagged(t *testing.T) {
	v := scope.For("java")
	src := "Helper.NAME"
	b := buffer.NewText("", "java", src)
	b.Tag(buffer.Region{Start: 0, End: 6}, v.ClassReference())
	b.Tag(buffer.Region{Start: 7, End: 11}, v.Constant...)

	got, err := New(nil).Resolve(b, buffer.Region{Start: 7, End: 11})
	require.NoError(t, err)
	assert.Equal(t, "Helper.NAME", got.String())
	assert.Equal(t, OriginNone, got.Origin)
}

func TestResolveErrors(t *testing.T) {
	src := "class A {   }\n"
	b := javaBuffer(t, "A.java", src)
	r := New(afero.NewMemMapFs())

	_, err := r.ResolveAt(b, 10)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = r.ResolveAt(b, 500)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = r.ResolveSelection(b, []buffer.Region{{Start: 0, End: 5}, {Start: 6, End: 7}})
	assert.ErrorIs(t, err, ErrAmbiguousSelection)

	_, err = r.ResolveSelection(b, nil)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = r.ResolveAt(buffer.NewText("", "cobol", "MOVE"), 1)
	assert.ErrorIs(t, err, ErrUnsupportedSyntax)
}

func TestDetectClassPackage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/p/Sibling.java", nil, 0o644))
	src := "package p;\nimport com.acme.Helper;\nclass Main {}\n"
	b := javaBuffer(t, "/src/p/Main.java", src)
	r := New(fs)

	pkg, origin, ok := r.DetectClassPackage(b, "Helper")
	require.True(t, ok)
	assert.Equal(t, "com.acme", pkg)
	assert.Equal(t, OriginImport, origin)

	pkg, origin, ok = r.DetectClassPackage(b, "Main")
	require.True(t, ok)
	assert.Equal(t, "p", pkg)
	assert.Equal(t, OriginPackage, origin)

	pkg, _, ok = r.DetectClassPackage(b, "Sibling")
	require.True(t, ok)
	assert.Equal(t, "p", pkg)

	_, _, ok = r.DetectClassPackage(b, "Nowhere")
	assert.False(t, ok)

	name, region, ok := PackageDeclaration(b)
	require.True(t, ok)
	assert.Equal(t, "p", name)
	assert.Equal(t, "p", b.Text(region))
	assert.Equal(t, "Main", DeclaredClass(b))
}
