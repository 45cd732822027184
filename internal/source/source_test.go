package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihavespoons/smellbench/internal/excerpt"
)

func writeFile(t *testing.T, root, rel string, data []byte) string {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, data, 0644))
	return full
}

func TestDecodeUTF8(t *testing.T) {
	text, codec, err := Decode([]byte("class Caf\xc3\xa9 {}"))
	require.NoError(t, err)
	assert.Equal(t, CodecUTF8, codec)
	assert.Equal(t, "class Café {}", text)
}

func TestDecodeStripsBOM(t *testing.T) {
	text, codec, err := Decode([]byte("\xef\xbb\xbfclass A {}"))
	require.NoError(t, err)
	assert.Equal(t, CodecUTF8, codec)
	assert.Equal(t, "class A {}", text)
}

func TestDecodeLatin1Fallback(t *testing.T) {
	// 0xE9 alone is invalid UTF-8 but is 'é' in ISO-8859-1
	text, codec, err := Decode([]byte("// caf\xe9\nclass A {}"))
	require.NoError(t, err)
	assert.Equal(t, CodecLatin1, codec)
	assert.Equal(t, "// café\nclass A {}", text)
}

func TestDecodeAcceptsAnyBytes(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = byte(i)
	}
	text, codec, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, CodecLatin1, codec)
	assert.Equal(t, 256, len([]rune(text)))
}

func TestDecodeCodecDoesNotChangeASCIIExcerpt(t *testing.T) {
	src := []byte("package a;\n\nclass Foo {\n  int x;\n}\n")

	viaUTF8, _, err := Decode(src)
	require.NoError(t, err)

	latin1, err := charmapDecode(src)
	require.NoError(t, err)

	h := excerpt.Hint{ReportedLine: 4, TypeName: "Foo"}
	h.Text = viaUTF8
	a := excerpt.Extract(h)
	h.Text = latin1
	b := excerpt.Extract(h)

	assert.Equal(t, a, b)
	assert.Equal(t, excerpt.StrategyExactMatch, a.Strategy)
}

func TestReadFileMissing(t *testing.T) {
	_, _, err := ReadFile(filepath.Join(t.TempDir(), "nope.java"))
	assert.Error(t, err)
}

func TestRelPath(t *testing.T) {
	assert.Equal(t, "com/fsck/k9/Account.java", RelPath("com.fsck.k9", "Account"))
	assert.Equal(t, "Main.java", RelPath("", "Main"))
}

func TestResolver(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/src/main/java/com/fsck/k9/Account.java", []byte("class Account {}"))
	writeFile(t, root, "lib/src/com/fsck/k9/Account.java", []byte("class Account {}"))
	writeFile(t, root, "build/generated/com/fsck/k9/Prefs.java", []byte("class Prefs {}"))
	writeFile(t, root, "app/src/main/java/com/fsck/k9/README.md", []byte("docs"))

	r := NewResolver(root, nil)

	path, ok, err := r.Resolve("com.fsck.k9", "Account")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "app", "src", "main", "java", "com", "fsck", "k9", "Account.java"), path)

	_, ok, err = r.Resolve("com.fsck.k9", "Prefs")
	require.NoError(t, err)
	assert.False(t, ok, "excluded build directory must not be searched")

	_, ok, err = r.Resolve("com.fsck", "Account")
	require.NoError(t, err)
	assert.False(t, ok, "package must match the directory suffix exactly")

	files, err := r.Files()
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestResolverEmptyClass(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	_, ok, err := r.Resolve("a.b", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "A.java", []byte("class A {}"))

	c, err := NewCache(2)
	require.NoError(t, err)

	text, codec, err := c.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "class A {}", text)
	assert.Equal(t, CodecUTF8, codec)

	// Served from memory after the file is gone
	require.NoError(t, os.Remove(p))
	text, _, err = c.Load(p)
	require.NoError(t, err)
	assert.Equal(t, "class A {}", text)
	assert.Equal(t, 1, c.Len())

	_, _, err = c.Load(filepath.Join(root, "missing.java"))
	assert.Error(t, err)
}
