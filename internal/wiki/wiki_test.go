package wiki

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Wiki Discovery:
// - Open() fails with ErrSourceNotFound for a missing root, naming the path
// - Open() fails with ErrNotDirectory when the root is a regular file
// - Plain tree: every matching .txt file becomes a page, others are skipped
// - Pages are returned sorted by page path, stable across calls
// - Ignore patterns exclude whole subtrees
// - DokuWiki layout is detected via data/pages and pages get metadata
// - Page paths are colon-separated with the extension dropped
// - Page text is loaded lazily and invalid UTF-8 fails with ErrInvalidEncoding

var (
	defaultPages  = []string{"**/*.txt"}
	defaultIgnore = []string{".git/**"}
)

func writePage(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestOpen_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := Open(missing)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceNotFound)
	// The diagnostic has to name the missing path.
	assert.Contains(t, err.Error(), missing)
}

func TestOpen_RootIsFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Open(file)

	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestPages_PlainTree(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "start.txt", "Welcome\n\nHello world.")
	writePage(t, root, "docs/setup.txt", "====== Setup ======\nSteps.")
	writePage(t, root, "docs/notes.md", "not a wiki page")
	writePage(t, root, "image.png", "binary-ish")

	w, err := Open(root)
	require.NoError(t, err)
	assert.False(t, w.IsDokuWiki())

	pages, err := w.Pages(defaultPages, defaultIgnore)
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Equal(t, "docs:setup", pages[0].Path)
	assert.Equal(t, "start", pages[1].Path)
	assert.False(t, pages[0].ModTime.IsZero())
	assert.Nil(t, pages[0].Meta)
}

func TestPages_OrderingIsStable(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "b.txt", "b")
	writePage(t, root, "a/x.txt", "ax")
	writePage(t, root, "a.txt", "a")

	w, err := Open(root)
	require.NoError(t, err)

	first, err := w.Pages(defaultPages, defaultIgnore)
	require.NoError(t, err)
	second, err := w.Pages(defaultPages, defaultIgnore)
	require.NoError(t, err)

	var firstPaths, secondPaths []string
	for _, p := range first {
		firstPaths = append(firstPaths, p.Path)
	}
	for _, p := range second {
		secondPaths = append(secondPaths, p.Path)
	}

	assert.Equal(t, []string{"a", "a:x", "b"}, firstPaths)
	assert.Equal(t, firstPaths, secondPaths)
}

func TestPages_IgnorePatterns(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "start.txt", "content")
	writePage(t, root, "playground/scratch.txt", "ignore me")

	w, err := Open(root)
	require.NoError(t, err)

	pages, err := w.Pages(defaultPages, []string{"playground/**"})
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, "start", pages[0].Path)
}

func TestPages_DokuWikiLayout(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "data/pages/wiki/syntax.txt", "====== Formatting Syntax ======\nText.")
	writePage(t, root, "data/meta/wiki/syntax.meta",
		`a:2:{s:7:"current";a:1:{s:5:"title";s:17:"Formatting Syntax";}s:10:"persistent";a:1:{s:7:"creator";s:5:"alice";}}`)

	w, err := Open(root)
	require.NoError(t, err)
	assert.True(t, w.IsDokuWiki())
	assert.Equal(t, filepath.Join(root, "conf"), w.ConfDir())

	pages, err := w.Pages(defaultPages, defaultIgnore)
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Equal(t, "wiki:syntax", pages[0].Path)
	require.NotNil(t, pages[0].Meta)
	assert.Equal(t, "Formatting Syntax", pages[0].Meta.Title)
	assert.Equal(t, "alice", pages[0].Meta.Creator)
}

func TestPages_DokuWikiMissingMetaIsNotAnError(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "data/pages/orphan.txt", "no meta file exists")

	w, err := Open(root)
	require.NoError(t, err)

	pages, err := w.Pages(defaultPages, defaultIgnore)
	require.NoError(t, err)

	require.Len(t, pages, 1)
	assert.Nil(t, pages[0].Meta)
}

func TestPageText_LazyLoad(t *testing.T) {
	root := t.TempDir()
	writePage(t, root, "start.txt", "Welcome\n\nHello world.")

	w, err := Open(root)
	require.NoError(t, err)
	pages, err := w.Pages(defaultPages, defaultIgnore)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	text, err := pages[0].Text()
	require.NoError(t, err)
	assert.Equal(t, "Welcome\n\nHello world.", text)

	// Second call serves the cached text.
	again, err := pages[0].Text()
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestPageText_InvalidEncoding(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x41}, 0644))

	w, err := Open(root)
	require.NoError(t, err)
	pages, err := w.Pages(defaultPages, defaultIgnore)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	_, err = pages[0].Text()
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestPagePath(t *testing.T) {
	tests := []struct {
		rel  string
		want string
	}{
		{"start.txt", "start"},
		{"docs/setup.txt", "docs:setup"},
		{"docs/dev/setup.txt", "docs:dev:setup"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PagePath(tt.rel))
	}
}
