package export

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// timestampLayout matches ISO 8601 without a zone offset, the format the
// vendor expects for dateAdded and the updated_at property.
const timestampLayout = "2006-01-02T15:04:05"

// DefaultPagesPerFile is the number of items written to a single feed file
// unless configured otherwise.
const DefaultPagesPerFile = 20

// ErrUnwritableOutput indicates the output directory could not be created
// or written to. This aborts the whole run.
var ErrUnwritableOutput = errors.New("output directory is not writable")

// Writer serializes records into the vendor's XML feed format, splitting
// the feed into files of at most perFile items each.
type Writer struct {
	outDir  string
	perFile int
}

// NewWriter creates a feed writer targeting outDir. The directory is
// created on the first write if it does not exist.
func NewWriter(outDir string, perFile int) *Writer {
	if perFile <= 0 {
		perFile = DefaultPagesPerFile
	}
	return &Writer{
		outDir:  outDir,
		perFile: perFile,
	}
}

// Write renders the ordered records into one or more feed files named
// findologic_<offset>_<perFile>.xml and returns the paths written. An empty
// record list still produces one well-formed file with zero items, so
// consumers always receive a valid document.
func (w *Writer) Write(records []Record) ([]string, error) {
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnwritableOutput, w.outDir, err)
	}

	var written []string
	for offset := 0; offset == 0 || offset < len(records); offset += w.perFile {
		end := offset + w.perFile
		if end > len(records) {
			end = len(records)
		}

		path := filepath.Join(w.outDir, fmt.Sprintf("findologic_%d_%d.xml", offset, w.perFile))
		if err := w.writeFile(path, records[offset:end], offset, len(records)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func (w *Writer) writeFile(path string, batch []Record, offset, total int) error {
	doc := feed{
		Version: "1.0",
		Items: itemList{
			Start: offset,
			Count: len(batch),
			Total: total,
			Items: make([]item, 0, len(batch)),
		},
	}

	for _, rec := range batch {
		doc.Items.Items = append(doc.Items.Items, newItem(rec))
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding feed: %w", err)
	}

	data := append([]byte(xml.Header), out...)
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnwritableOutput, path, err)
	}

	return nil
}

// The vendor schema wraps every text value in CDATA and requires a fixed
// set of child elements per item, several of which are always empty for a
// wiki export (images, attributes, keywords, sales frequencies).

type cdata struct {
	Text string `xml:",cdata"`
}

type feed struct {
	XMLName xml.Name `xml:"findologic"`
	Version string   `xml:"version,attr"`
	Items   itemList `xml:"items"`
}

type itemList struct {
	Start int    `xml:"start,attr"`
	Count int    `xml:"count,attr"`
	Total int    `xml:"total,attr"`
	Items []item `xml:"item"`
}

type item struct {
	ID          string     `xml:"id,attr"`
	Ordernumber cdata      `xml:"allOrdernumbers>ordernumbers>ordernumber"`
	Name        cdata      `xml:"names>name"`
	Summary     cdata      `xml:"summaries>summary"`
	Description cdata      `xml:"descriptions>description"`
	DateAddeds  dateAddeds `xml:"dateAddeds"`
	URL         cdata      `xml:"urls>url"`
	Properties  []property `xml:"allProperties>properties>property"`
	AllImages   struct{}   `xml:"allImages"`
	AllAttrs    struct{}   `xml:"allAttributes"`
	AllKeywords struct{}   `xml:"allKeywords"`
	SalesFreqs  struct{}   `xml:"salesFrequencies"`
	Usergroups  usergroups `xml:"usergroups"`
	Price       cdata      `xml:"prices>price"`
}

type dateAddeds struct {
	DateAdded *cdata `xml:"dateAdded,omitempty"`
}

type usergroups struct {
	Usergroups []cdata `xml:"usergroup"`
}

type property struct {
	Key   cdata `xml:"key"`
	Value cdata `xml:"value"`
}

func newItem(rec Record) item {
	it := item{
		ID:          rec.ID,
		Ordernumber: cdata{rec.ID},
		Name:        cdata{rec.Title},
		Summary:     cdata{rec.Summary},
		Description: cdata{rec.Body},
		URL:         cdata{rec.URL},
		Price:       cdata{"0.0"},
	}

	if !rec.CreatedAt.IsZero() {
		it.DateAddeds.DateAdded = &cdata{rec.CreatedAt.Format(timestampLayout)}
	}

	for _, prop := range rec.Properties {
		it.Properties = append(it.Properties, property{
			Key:   cdata{prop.Key},
			Value: cdata{prop.Value},
		})
	}

	for _, hash := range rec.Usergroups {
		it.Usergroups.Usergroups = append(it.Usergroups.Usergroups, cdata{hash})
	}

	return it
}
