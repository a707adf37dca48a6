package wiki

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Discovery handles page file discovery with glob patterns and ignore rules.
type Discovery struct {
	rootDir        string
	pagePatterns   []compiledPattern
	ignorePatterns []compiledPattern
}

// NewDiscovery creates a new discovery instance for the given pages
// directory. Patterns use '/' as the separator and match against paths
// relative to the root.
func NewDiscovery(rootDir string, pagePatterns, ignorePatterns []string) (*Discovery, error) {
	d := &Discovery{
		rootDir: rootDir,
	}

	for _, pattern := range pagePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.pagePatterns = append(d.pagePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		d.ignorePatterns = append(d.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return d, nil
}

// Discover walks the directory tree and returns the relative paths of all
// page files, slash-separated. Non-matching files are skipped silently.
func (d *Discovery) Discover() ([]string, error) {
	pageFiles := []string{}

	err := filepath.Walk(d.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(d.rootDir, path)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if d.shouldIgnore(relPath) {
			return nil
		}

		if d.matchesAnyPattern(relPath, d.pagePatterns) {
			pageFiles = append(pageFiles, relPath)
		}

		return nil
	})

	return pageFiles, err
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *Discovery) shouldIgnore(relPath string) bool {
	if d.matchesAnyPattern(relPath, d.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix.
	// For example, "playground" should match pattern "playground/**".
	pathWithSuffix := relPath + "/**"
	return d.matchesAnyPattern(pathWithSuffix, d.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (d *Discovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching
	// against patterns with **/ prefix removed. This makes "**/*.txt" match
	// both "start.txt" and "docs/setup.txt" as users would expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}
