// CLAUDE:SUMMARY Defines Format, Page, and Document types for the docpipe extraction pipeline.
package docpipe

import "strings"

// Format identifies a document type.
type Format string

const (
	FormatDocx Format = "docx"
	FormatODT  Format = "odt"
	FormatPDF  Format = "pdf"
	FormatMD   Format = "md"
	FormatTXT  Format = "txt"
	FormatHTML Format = "html"
)

// Page is one unit of paginated text. Formats without physical pages
// (txt, md, html, docx, odt) produce a single page numbered 1, so
// downstream evidence anchoring stays uniform across formats.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Document is the result of extracting content from a file.
type Document struct {
	Path    string             `json:"path"`
	Format  Format             `json:"format"`
	Title   string             `json:"title"`
	Pages   []Page             `json:"pages"`
	Quality *ExtractionQuality `json:"quality,omitempty"` // PDF extraction quality metrics
}

// Text returns the concatenated text of all pages.
func (d *Document) Text() string {
	var sb strings.Builder
	for i, p := range d.Pages {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}
