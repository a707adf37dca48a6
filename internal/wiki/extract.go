package wiki

import (
	"strings"

	"github.com/adrg/frontmatter"
)

// Fields is the result of extracting structured content from raw page text.
type Fields struct {
	Title   string
	Summary string
	Body    string
}

// pageMatter is the optional YAML/TOML front matter a page may carry.
// Plain-tree wikis exported from other tools often prefix pages with it.
type pageMatter struct {
	Title   string `yaml:"title" toml:"title"`
	Summary string `yaml:"summary" toml:"summary"`
}

// ExtractFields pulls {title, summary, body} out of raw page text using
// line-oriented heuristics. The title is taken from, in order of preference:
// front matter, the first non-blank line when it is a heading marker line
// (DokuWiki "====== t ======" or Markdown "# t"), the first non-blank line
// when it stands alone as a title line, and finally the page path itself.
//
// The body is the remaining raw text, passed through verbatim. Markup is
// never rendered.
func ExtractFields(pagePath, raw string) Fields {
	fields := Fields{}

	var matter pageMatter
	text := raw
	if rest, err := frontmatter.Parse(strings.NewReader(raw), &matter); err == nil {
		text = string(rest)
		fields.Title = matter.Title
		fields.Summary = matter.Summary
	}

	if fields.Title != "" {
		fields.Body = strings.TrimLeft(text, "\n")
		return fields
	}

	lines := strings.Split(text, "\n")

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if title, ok := headingTitle(trimmed); ok {
			fields.Title = title
			fields.Body = joinBody(lines[i+1:])
			return fields
		}

		// A plain first line counts as the title when it stands alone,
		// separated from the rest of the text by a blank line.
		if i+1 >= len(lines) || strings.TrimSpace(lines[i+1]) == "" {
			fields.Title = trimmed
			fields.Body = joinBody(lines[i+1:])
			return fields
		}

		break
	}

	fields.Title = pagePath
	fields.Body = strings.TrimLeft(text, "\n")
	return fields
}

// headingTitle recognizes DokuWiki and Markdown heading lines and returns
// the heading text with markers stripped.
func headingTitle(line string) (string, bool) {
	// DokuWiki headings are wrapped in runs of two or more '=' characters.
	if strings.HasPrefix(line, "==") && strings.HasSuffix(line, "==") && len(line) > 4 {
		title := strings.TrimSpace(strings.Trim(line, "="))
		if title != "" {
			return title, true
		}
	}

	// Markdown ATX headings.
	if strings.HasPrefix(line, "#") {
		title := strings.TrimSpace(strings.TrimLeft(line, "#"))
		if title != "" {
			return title, true
		}
	}

	return "", false
}

// joinBody reassembles the lines following the title, dropping the blank
// lines that separate the title from the body but otherwise keeping the
// text verbatim.
func joinBody(lines []string) string {
	return strings.TrimLeft(strings.Join(lines, "\n"), "\n")
}
