package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyOutputDir indicates a missing output directory setting
	ErrEmptyOutputDir = errors.New("empty output directory")

	// ErrInvalidPagesPerFile indicates a non-positive pages-per-file setting
	ErrInvalidPagesPerFile = errors.New("invalid pages per file")

	// ErrNoPagePatterns indicates an empty page pattern list
	ErrNoPagePatterns = errors.New("no page patterns configured")

	// ErrInvalidPattern indicates a glob pattern that does not compile
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		errs = append(errs, ErrEmptyOutputDir)
	}

	if cfg.Output.PagesPerFile <= 0 {
		errs = append(errs, fmt.Errorf("%w: must be positive, got %d",
			ErrInvalidPagesPerFile, cfg.Output.PagesPerFile))
	}

	if len(cfg.Paths.Pages) == 0 {
		errs = append(errs, ErrNoPagePatterns)
	}

	for _, pattern := range append(append([]string{}, cfg.Paths.Pages...), cfg.Paths.Ignore...) {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
