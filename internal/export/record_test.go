package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codexfons/dokufeed/internal/acl"
	"github.com/codexfons/dokufeed/internal/wiki"
)

// Test Plan for Record Building:
// - ID and ordernumber are the page path, URL is prefix + page path
// - Title, summary and body come from the extracted fields
// - DokuWiki metadata overrides title/summary and supplies dates and authors
// - File modification time is the fallback for updated_at
// - Contributors are exported as a JSON array property
// - Usergroups list only the roles that can read the page
// - Two different pages never share an ID; the same page always gets the same ID

func TestBuild_PlainPage(t *testing.T) {
	builder := NewBuilder("https://wiki.example.com/", nil)

	modTime := time.Date(2017, 6, 1, 12, 0, 0, 0, time.UTC)
	page := &wiki.Page{Path: "docs:setup", RelPath: "docs/setup.txt", ModTime: modTime}
	fields := wiki.Fields{Title: "Setup", Body: "Steps."}

	rec := builder.Build(page, fields)

	assert.Equal(t, "docs:setup", rec.ID)
	assert.Equal(t, "Setup", rec.Title)
	assert.Equal(t, "Steps.", rec.Body)
	assert.Equal(t, "https://wiki.example.com/docs:setup", rec.URL)
	assert.True(t, rec.CreatedAt.IsZero())
	assert.Equal(t, modTime, rec.UpdatedAt)
	assert.Empty(t, rec.Usergroups)

	require.Len(t, rec.Properties, 3)
	assert.Equal(t, Property{Key: "creator", Value: ""}, rec.Properties[0])
	assert.Equal(t, Property{Key: "updated_at", Value: "2017-06-01T12:00:00"}, rec.Properties[1])
	assert.Equal(t, Property{Key: "contributors", Value: "[]"}, rec.Properties[2])
}

func TestBuild_MetadataOverrides(t *testing.T) {
	builder := NewBuilder("", nil)

	created := time.Date(2017, 6, 1, 14, 32, 33, 0, time.UTC)
	modified := time.Date(2017, 6, 2, 14, 32, 33, 0, time.UTC)
	page := &wiki.Page{
		Path:    "wiki:syntax",
		RelPath: "wiki/syntax.txt",
		ModTime: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Meta: &wiki.Meta{
			Title:        "Formatting Syntax",
			Abstract:     "How to format pages.",
			Creator:      "alice",
			Contributors: []string{"Alice", "Bob"},
			Created:      created,
			Modified:     modified,
		},
	}
	fields := wiki.Fields{Title: "from heading", Summary: "from text", Body: "Body."}

	rec := builder.Build(page, fields)

	assert.Equal(t, "Formatting Syntax", rec.Title)
	assert.Equal(t, "How to format pages.", rec.Summary)
	assert.Equal(t, created, rec.CreatedAt)
	assert.Equal(t, modified, rec.UpdatedAt)

	assert.Equal(t, Property{Key: "creator", Value: "alice"}, rec.Properties[0])
	assert.Equal(t, Property{Key: "updated_at", Value: "2017-06-02T14:32:33"}, rec.Properties[1])
	assert.Equal(t, Property{Key: "contributors", Value: `["Alice","Bob"]`}, rec.Properties[2])
}

func TestBuild_UsergroupsFollowACL(t *testing.T) {
	editors := acl.NewRole("editors", "salt", []string{"internal:*\t@editors\t0"})
	staff := acl.NewRole("staff", "salt", nil)
	builder := NewBuilder("", []*acl.Role{editors, staff})

	public := builder.Build(&wiki.Page{Path: "start"}, wiki.Fields{Title: "Start"})
	restricted := builder.Build(&wiki.Page{Path: "internal:plans"}, wiki.Fields{Title: "Plans"})

	assert.Equal(t, []string{editors.Hash, staff.Hash}, public.Usergroups)
	assert.Equal(t, []string{staff.Hash}, restricted.Usergroups)
}

func TestBuild_IDIsDeterministicAndInjective(t *testing.T) {
	builder := NewBuilder("", nil)

	a := builder.Build(&wiki.Page{Path: "docs:a"}, wiki.Fields{})
	b := builder.Build(&wiki.Page{Path: "docs:b"}, wiki.Fields{})
	again := builder.Build(&wiki.Page{Path: "docs:a"}, wiki.Fields{})

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.ID, again.ID)
}
