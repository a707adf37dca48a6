package wiki

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"
)

// Page is a single wiki page discovered under the source root.
//
// The raw text is loaded lazily on the first call to Text, so a large wiki
// can be enumerated without reading every page into memory up front.
type Page struct {
	// Path is the colon-separated page path, e.g. "docs:dev:setup".
	// It is a pure function of RelPath and serves as the export identity.
	Path string

	// RelPath is the slash-separated path of the page file, relative to the
	// pages directory.
	RelPath string

	// ModTime is the filesystem modification time of the page file.
	ModTime time.Time

	// Meta holds DokuWiki metadata for the page, or nil when the source is
	// a plain tree or no metadata file exists.
	Meta *Meta

	absPath string
	text    string
	loaded  bool
}

// Text returns the raw text content of the page, loading it from disk on
// first use. A page file that has disappeared since discovery yields empty
// text. Text that is not valid UTF-8 fails with ErrInvalidEncoding.
func (p *Page) Text() (string, error) {
	if p.loaded {
		return p.text, nil
	}

	data, err := os.ReadFile(p.absPath)
	if err != nil {
		if os.IsNotExist(err) {
			p.loaded = true
			return "", nil
		}
		return "", fmt.Errorf("reading page %s: %w", p.Path, err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, p.Path)
	}

	p.text = string(data)
	p.loaded = true
	return p.text, nil
}

func (p *Page) String() string {
	return fmt.Sprintf("[%s]", p.Path)
}
