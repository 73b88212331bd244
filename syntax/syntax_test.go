// Copyright © 2024 The Lithium authors

package syntax

import (
	"context"
	"strings"
	"testing"

	"github.com/barmalei/lithium/buffer"
	"github.com/barmalei/lithium/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tagsOf returns the tags at the n-th (0-based) occurrence of word.
func tagsOf(t *testing.T, b *buffer.Text, word string, n int) buffer.TagSet {
	t.Helper()
	src := b.Source()
	off := 0
	for i := 0; ; i++ {
		idx := strings.Index(src[off:], word)
		require.GreaterOrEqual(t, idx, 0, "occurrence %d of %q not found", n, word)
		if i == n {
			tags, err := b.TagsAt(buffer.Position(off + idx))
			require.NoError(t, err)
			return tags
		}
		off += idx + len(word)
	}
}

const javaSource = `package com.acme;

import com.acme.util.Helper;
import static org.junit.Assert.assertEquals;

// Foo.BAR comment
public class Main extends base.Parent implements Runnable {
    static final int LIMIT = Helper.NAME;

    void run() {
        Object o = new java.util.ArrayList<String>();
        this.run();
    }
}
`

func TestJavaTagger(t *testing.T) {
	b, err := Tag(context.Background(), "src/com/acme/Main.java", javaSource)
	require.NoError(t, err)
	v := scope.For("java")
	assert.Equal(t, "java", b.Syntax())

	pkg := b.SelectorMatches(v.PackageSelector())
	require.Len(t, pkg, 1)
	assert.Equal(t, "com.acme", b.Text(pkg[0]))

	cls := b.SelectorMatches(v.ClassSelector())
	require.Len(t, cls, 1)
	assert.Equal(t, "Main", b.Text(cls[0]))

	assert.True(t, tagsOf(t, b, "Helper", 0).Has("support.class.import.java"))
	assert.True(t, tagsOf(t, b, "util", 0).Has("support.type.package.java"))
	assert.True(t, tagsOf(t, b, "util", 0).Has(v.Import))
	assert.True(t, tagsOf(t, b, "Assert", 0).Has("support.class.import.java"))
	assert.True(t, tagsOf(t, b, "assertEquals", 0).Has("variable.function.java"))

	assert.True(t, tagsOf(t, b, "Foo.BAR", 0).Has("comment.line.double-slash.java"))

	assert.True(t, tagsOf(t, b, "Parent", 0).Has("entity.other.inherited-class.java"))
	assert.True(t, tagsOf(t, b, "base", 0).Has("support.type.package.java"))
	assert.True(t, tagsOf(t, b, "Runnable", 0).Has("entity.other.inherited-class.java"))

	assert.True(t, tagsOf(t, b, "Helper", 1).Has("support.class.java"))
	assert.True(t, tagsOf(t, b, "NAME", 0).Has("constant.other.java"))
	assert.True(t, tagsOf(t, b, "LIMIT", 0).Has("constant.other.java"))

	assert.True(t, tagsOf(t, b, "ArrayList", 0).Has("support.class.java"))
	assert.True(t, tagsOf(t, b, "java.util.ArrayList", 0).Has("support.type.package.java"))
	assert.True(t, tagsOf(t, b, "this", 0).Has("variable.language.java"))
}

const kotlinSource = `package com.acme

import com.acme.util.Helper
import org.other.*

/* block */
class Main(val x: Int) : Base(), Runnable {
    val n = Helper.NAME
    fun go() = println("a.B")
}
`

func TestLexicalTagger(t *testing.T) {
	b, err := Tag(context.Background(), "Main.kt", kotlinSource)
	require.NoError(t, err)
	v := scope.For("kotlin")
	assert.Equal(t, "kotlin", b.Syntax())

	pkg := b.SelectorMatches(v.PackageSelector())
	require.Len(t, pkg, 1)
	assert.Equal(t, "com.acme", b.Text(pkg[0]))

	cls := b.SelectorMatches(v.ClassSelector())
	require.Len(t, cls, 1)
	assert.Equal(t, "Main", b.Text(cls[0]))

	assert.True(t, tagsOf(t, b, "Helper", 0).Has("support.class.import.kotlin"))
	assert.True(t, tagsOf(t, b, "other", 0).Has("support.type.package.kotlin"))
	assert.True(t, tagsOf(t, b, "block", 0).Has("comment.block.kotlin"))
	assert.True(t, tagsOf(t, b, "Int", 0).Has("support.class.kotlin"))
	assert.False(t, tagsOf(t, b, "Int", 0).Has("entity.other.inherited-class.kotlin"))
	assert.True(t, tagsOf(t, b, "Base", 0).Has("entity.other.inherited-class.kotlin"))
	assert.True(t, tagsOf(t, b, "Runnable", 0).Has("entity.other.inherited-class.kotlin"))
	assert.True(t, tagsOf(t, b, "Helper", 1).Has("support.class.kotlin"))
	assert.True(t, tagsOf(t, b, "NAME", 0).Has("constant.other.kotlin"))
	assert.True(t, tagsOf(t, b, "println", 0).Has("variable.function.kotlin"))
	assert.True(t, tagsOf(t, b, "a.B", 0).Has("string.quoted.double.kotlin"))
}

func TestLexicalScalaImports(t *testing.T) {
	src := "package x\n\nimport scala.collection.{Map, Seq => S}\nimport foo.bar._\n"
	b, err := TagAs(context.Background(), "scala", "A.scala", src)
	require.NoError(t, err)

	assert.True(t, tagsOf(t, b, "Map", 0).Has("support.class.import.scala"))
	assert.True(t, tagsOf(t, b, "Seq", 0).Has("support.class.import.scala"))
	assert.False(t, tagsOf(t, b, "S}", 0).Has("support.class.import.scala"))
	assert.True(t, tagsOf(t, b, "collection", 0).Has("support.type.package.scala"))
	assert.True(t, tagsOf(t, b, "bar", 0).Has("support.type.package.scala"))
}

func TestDetect(t *testing.T) {
	l, ok := Detect("build.gradle")
	require.True(t, ok)
	assert.Equal(t, "groovy", l.Name)

	l, ok = Detect("A.KT")
	require.True(t, ok)
	assert.Equal(t, "kotlin", l.Name)

	_, ok = Detect("main.go")
	assert.False(t, ok)

	_, err := Tag(context.Background(), "main.go", "package main")
	assert.ErrorIs(t, err, ErrUnsupported)
}
