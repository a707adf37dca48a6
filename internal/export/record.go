// Package export assembles normalized records from wiki pages and writes
// them out as the search vendor's XML feed.
package export

import (
	"encoding/json"
	"time"

	"github.com/codexfons/dokufeed/internal/acl"
	"github.com/codexfons/dokufeed/internal/wiki"
)

// Record is the normalized representation of one exported item.
//
// The ID is the page path, which is a deterministic, injective function of
// the page's relative file path. That keeps the export ordering and item
// identities stable across runs over unchanged input.
type Record struct {
	ID         string
	Title      string
	Summary    string
	Body       string
	URL        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Properties []Property
	Usergroups []string
}

// Property is a single key/value pair attached to an exported item.
type Property struct {
	Key   string
	Value string
}

// Builder assembles Records from pages and their extracted fields.
type Builder struct {
	urlPrefix string
	roles     []*acl.Role
}

// NewBuilder creates a record builder. The page path is appended to
// urlPrefix to form each item's URL. When roles are given, each record
// lists the usergroup hashes of the roles that can read the page.
func NewBuilder(urlPrefix string, roles []*acl.Role) *Builder {
	return &Builder{
		urlPrefix: urlPrefix,
		roles:     roles,
	}
}

// Build combines a page's identity and metadata with its extracted fields
// into a Record. It is a pure assembly step with no failure modes.
func (b *Builder) Build(page *wiki.Page, fields wiki.Fields) Record {
	rec := Record{
		ID:        page.Path,
		Title:     fields.Title,
		Summary:   fields.Summary,
		Body:      fields.Body,
		URL:       b.urlPrefix + page.Path,
		UpdatedAt: page.ModTime,
	}

	var creator string
	var contributors []string

	if meta := page.Meta; meta != nil {
		if meta.Title != "" {
			rec.Title = meta.Title
		}
		if meta.Abstract != "" {
			rec.Summary = meta.Abstract
		}
		rec.CreatedAt = meta.Created
		if !meta.Modified.IsZero() {
			rec.UpdatedAt = meta.Modified
		}
		creator = meta.Creator
		contributors = meta.Contributors
	}

	rec.Properties = buildProperties(creator, contributors, rec.UpdatedAt)

	for _, role := range b.roles {
		if role.CanRead(page.Path) {
			rec.Usergroups = append(rec.Usergroups, role.Hash)
		}
	}

	return rec
}

func buildProperties(creator string, contributors []string, updatedAt time.Time) []Property {
	if contributors == nil {
		contributors = []string{}
	}
	contributorsJSON, _ := json.Marshal(contributors)

	updated := ""
	if !updatedAt.IsZero() {
		updated = updatedAt.Format(timestampLayout)
	}

	return []Property{
		{Key: "creator", Value: creator},
		{Key: "updated_at", Value: updated},
		{Key: "contributors", Value: string(contributorsJSON)},
	}
}
