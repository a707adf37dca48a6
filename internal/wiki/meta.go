package wiki

import (
	"fmt"
	"sort"
	"time"

	"github.com/elliotchance/phpserialize"
)

// Meta holds the DokuWiki metadata of a single page. DokuWiki stores this
// as a PHP-serialized array with a "current" and a "persistent" section.
type Meta struct {
	// Title is the page title as recorded by DokuWiki, usually the first
	// heading. Empty when DokuWiki recorded none.
	Title string

	// Abstract is the short description DokuWiki derives from the page
	// content. Empty when absent.
	Abstract string

	// Creator is the user who created the page.
	Creator string

	// Contributors lists the display names of all users who edited the page.
	Contributors []string

	// Created is the page creation time, zero when unknown.
	Created time.Time

	// Modified is the time of the most recent edit, zero when unknown.
	Modified time.Time
}

// ParseMeta decodes a DokuWiki .meta file.
func ParseMeta(data []byte) (*Meta, error) {
	var raw map[interface{}]interface{}
	if err := phpserialize.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding page metadata: %w", err)
	}

	meta := &Meta{}

	if current := subArray(raw, "current"); current != nil {
		meta.Title = stringValue(current, "title")
		if desc := subArray(current, "description"); desc != nil {
			meta.Abstract = stringValue(desc, "abstract")
		}
	}

	if persistent := subArray(raw, "persistent"); persistent != nil {
		meta.Creator = stringValue(persistent, "creator")

		if contributors := subArray(persistent, "contributor"); contributors != nil {
			for _, name := range contributors {
				if s, ok := name.(string); ok {
					meta.Contributors = append(meta.Contributors, s)
				}
			}
			// Map iteration order is random; keep the export deterministic.
			sort.Strings(meta.Contributors)
		}

		if dates := subArray(persistent, "date"); dates != nil {
			meta.Created = timeValue(dates, "created")
			meta.Modified = timeValue(dates, "modified")
		}
	}

	return meta, nil
}

// subArray returns the nested array under key, or nil when the key is
// missing or holds a non-array value.
func subArray(m map[interface{}]interface{}, key string) map[interface{}]interface{} {
	value, ok := m[key]
	if !ok {
		return nil
	}
	sub, ok := value.(map[interface{}]interface{})
	if !ok {
		return nil
	}
	return sub
}

func stringValue(m map[interface{}]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// timeValue reads a Unix timestamp stored under key. DokuWiki writes these
// as PHP integers; depending on the writer they may decode as int64 or
// float64.
func timeValue(m map[interface{}]interface{}, key string) time.Time {
	switch v := m[key].(type) {
	case int64:
		return time.Unix(v, 0)
	case int:
		return time.Unix(int64(v), 0)
	case float64:
		return time.Unix(int64(v), 0)
	default:
		return time.Time{}
	}
}
