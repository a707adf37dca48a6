package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/codexfons/dokufeed/internal/acl"
	"github.com/codexfons/dokufeed/internal/config"
	"github.com/codexfons/dokufeed/internal/export"
	"github.com/codexfons/dokufeed/internal/wiki"
)

var (
	outFlag     string
	prefixFlag  string
	perFileFlag int
	excludeFlag []string
	saltFlag    string
	quietFlag   bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <source_dir>",
	Short: "Export wiki pages as an XML feed",
	Long: `Export walks the wiki source tree, extracts title, body and metadata
from every page, and writes the vendor XML feed to the output directory.

Pages are exported in stable lexicographic order, so repeated runs over
an unchanged source tree produce byte-identical output. Pages whose text
is not valid UTF-8 are logged and skipped; the run continues.

Examples:
  # Export a plain tree of .txt pages
  dokufeed export ./wiki

  # Export a DokuWiki install with public page URLs
  dokufeed export /srv/dokuwiki --url-prefix https://wiki.example.com/ --out ./feed

  # Leave internal namespaces out of the feed
  dokufeed export /srv/dokuwiki -x internal -x playground
`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&outFlag, "out", "o", "./out", "Directory the feed files are written to")
	exportCmd.Flags().StringVarP(&prefixFlag, "url-prefix", "u", "", "Prefix prepended to page paths to form item URLs")
	exportCmd.Flags().IntVarP(&perFileFlag, "pages-per-file", "p", export.DefaultPagesPerFile, "Number of items per feed file")
	exportCmd.Flags().StringArrayVarP(&excludeFlag, "exclude", "x", nil, "Page path prefix to leave out of the feed (repeatable)")
	exportCmd.Flags().StringVar(&saltFlag, "usergroup-salt", "", "Salt appended to role names when hashing usergroups")
	exportCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
}

// exportOptions captures everything a single export run needs. Flag values
// only override the configuration when the flag was set on the command
// line, so a config file remains authoritative for untouched settings.
type exportOptions struct {
	sourceDir string

	outDir     string
	outSet     bool
	urlPrefix  string
	prefixSet  bool
	perFile    int
	perFileSet bool
	exclude    []string
	excludeSet bool
	salt       string
	saltSet    bool

	quiet bool
}

func runExport(cmd *cobra.Command, args []string) error {
	opts := exportOptions{
		sourceDir:  args[0],
		outDir:     outFlag,
		outSet:     cmd.Flags().Changed("out"),
		urlPrefix:  prefixFlag,
		prefixSet:  cmd.Flags().Changed("url-prefix"),
		perFile:    perFileFlag,
		perFileSet: cmd.Flags().Changed("pages-per-file"),
		exclude:    excludeFlag,
		excludeSet: cmd.Flags().Changed("exclude"),
		salt:       saltFlag,
		saltSet:    cmd.Flags().Changed("usergroup-salt"),
		quiet:      quietFlag,
	}

	count, outDir, err := doExport(opts)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d records to %s\n", count, outDir)
	return nil
}

// doExport runs the whole pipeline: discover pages, extract fields, build
// records, serialize the feed. It returns the number of records written and
// the output directory used.
func doExport(opts exportOptions) (int, string, error) {
	cfg, err := config.NewLoader(opts.sourceDir).Load()
	if err != nil {
		return 0, "", err
	}
	applyOverrides(cfg, opts)

	w, err := wiki.Open(opts.sourceDir)
	if err != nil {
		return 0, "", err
	}

	pages, err := w.Pages(cfg.Paths.Pages, cfg.Paths.Ignore)
	if err != nil {
		return 0, "", err
	}

	var roles []*acl.Role
	if w.IsDokuWiki() {
		roles, err = acl.DiscoverRoles(w.ConfDir(), cfg.Export.UsergroupSalt)
		if err != nil {
			return 0, "", err
		}
	}

	progress := NewExportProgress(opts.quiet)
	progress.OnDiscoveryComplete(len(pages))

	builder := export.NewBuilder(cfg.Export.URLPrefix, roles)

	records := make([]export.Record, 0, len(pages))
	for _, page := range pages {
		if excluded(page.Path, cfg.Export.Exclude) {
			progress.OnPageProcessed()
			continue
		}

		text, err := page.Text()
		if err != nil {
			// Per-page failures never abort the run. Unreadable and
			// badly encoded pages are logged and skipped.
			if errors.Is(err, wiki.ErrInvalidEncoding) {
				log.Warn("skipping page with invalid encoding", "page", page.Path)
			} else {
				log.Warn("skipping unreadable page", "page", page.Path, "err", err)
			}
			progress.OnPageProcessed()
			continue
		}

		fields := wiki.ExtractFields(page.Path, text)
		records = append(records, builder.Build(page, fields))
		progress.OnPageProcessed()
	}

	writer := export.NewWriter(cfg.Output.Dir, cfg.Output.PagesPerFile)
	files, err := writer.Write(records)
	if err != nil {
		return 0, "", err
	}

	progress.OnComplete(len(records), len(files))
	return len(records), cfg.Output.Dir, nil
}

// applyOverrides copies explicitly set flag values over the loaded
// configuration.
func applyOverrides(cfg *config.Config, opts exportOptions) {
	if opts.outSet || cfg.Output.Dir == "" {
		cfg.Output.Dir = opts.outDir
	}
	if opts.prefixSet {
		cfg.Export.URLPrefix = opts.urlPrefix
	}
	if opts.perFileSet {
		cfg.Output.PagesPerFile = opts.perFile
	}
	if opts.excludeSet {
		cfg.Export.Exclude = opts.exclude
	}
	if opts.saltSet {
		cfg.Export.UsergroupSalt = opts.salt
	}
}

// excluded reports whether a page path starts with any of the configured
// exclusion prefixes.
func excluded(pagePath string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(pagePath, prefix) {
			return true
		}
	}
	return false
}
