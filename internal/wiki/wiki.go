package wiki

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrSourceNotFound indicates the source root directory does not exist
	// or cannot be read.
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrNotDirectory indicates the source root exists but is not a directory.
	ErrNotDirectory = errors.New("source path is not a directory")

	// ErrInvalidEncoding indicates a page whose text is not valid UTF-8.
	// Callers treat this as a per-page condition: log and skip.
	ErrInvalidEncoding = errors.New("page text is not valid UTF-8")
)

// Wiki provides access to the pages of a wiki source tree.
//
// Two layouts are recognized. A plain tree treats every matching text file
// under the root as a page. A DokuWiki install (detected by the presence of
// data/pages) keeps pages under data/pages, per-page metadata under
// data/meta, and user/ACL configuration under conf.
type Wiki struct {
	rootDir  string
	pagesDir string
	metaDir  string
	confDir  string
}

// Open validates the source root and detects its layout.
func Open(rootDir string) (*Wiki, error) {
	info, err := os.Stat(rootDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, rootDir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, rootDir)
	}

	w := &Wiki{
		rootDir:  rootDir,
		pagesDir: rootDir,
	}

	dokuPages := filepath.Join(rootDir, "data", "pages")
	if info, err := os.Stat(dokuPages); err == nil && info.IsDir() {
		w.pagesDir = dokuPages
		w.metaDir = filepath.Join(rootDir, "data", "meta")
		w.confDir = filepath.Join(rootDir, "conf")
	}

	return w, nil
}

// RootDir returns the source root the wiki was opened with.
func (w *Wiki) RootDir() string {
	return w.rootDir
}

// IsDokuWiki reports whether the source root is a DokuWiki install rather
// than a plain page tree.
func (w *Wiki) IsDokuWiki() bool {
	return w.metaDir != ""
}

// ConfDir returns the DokuWiki conf directory, or "" for plain trees.
func (w *Wiki) ConfDir() string {
	return w.confDir
}

// Pages discovers all wiki pages matching the given patterns and returns
// them sorted lexicographically by page path, so that repeated runs over
// unchanged input produce identical ordering.
func (w *Wiki) Pages(pagePatterns, ignorePatterns []string) ([]*Page, error) {
	discovery, err := NewDiscovery(w.pagesDir, pagePatterns, ignorePatterns)
	if err != nil {
		return nil, err
	}

	relPaths, err := discovery.Discover()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, w.pagesDir)
	}

	pages := make([]*Page, 0, len(relPaths))
	for _, relPath := range relPaths {
		page := &Page{
			Path:    PagePath(relPath),
			RelPath: relPath,
			absPath: filepath.Join(w.pagesDir, filepath.FromSlash(relPath)),
		}

		if info, err := os.Stat(page.absPath); err == nil {
			page.ModTime = info.ModTime()
		}

		// DokuWiki keeps page metadata in a parallel tree. A missing or
		// unparseable meta file is not an error; the page just has no
		// metadata.
		if w.metaDir != "" {
			page.Meta = loadMeta(w.metaDir, relPath)
		}

		pages = append(pages, page)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Path < pages[j].Path
	})

	return pages, nil
}

// PagePath converts a slash-separated relative file path into a
// colon-separated page path, dropping the file extension.
// "docs/dev/setup.txt" becomes "docs:dev:setup".
//
// The mapping is injective for any source tree DokuWiki itself can produce:
// page names never contain colons or path separators.
func PagePath(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, filepath.Ext(relPath))
	return strings.ReplaceAll(trimmed, "/", ":")
}

func loadMeta(metaDir, relPath string) *Meta {
	metaRel := strings.TrimSuffix(relPath, filepath.Ext(relPath)) + ".meta"
	data, err := os.ReadFile(filepath.Join(metaDir, filepath.FromSlash(metaRel)))
	if err != nil {
		return nil
	}
	meta, err := ParseMeta(data)
	if err != nil {
		return nil
	}
	return meta
}
