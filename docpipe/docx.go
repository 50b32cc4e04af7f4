// CLAUDE:SUMMARY Extracts text from .docx files (word/document.xml), one line per paragraph.
package docpipe

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// maxXMLDepth bounds element nesting in zip-packaged XML documents.
const maxXMLDepth = 256

// extractDocx parses a .docx file by reading word/document.xml from the
// ZIP archive. Paragraphs become lines of a single page; the first
// heading-styled paragraph becomes the title.
func extractDocx(path string) (string, []Page, error) {
	rc, err := openZipEntry(path, "word/document.xml")
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var lines []string
	var title string
	var currentText strings.Builder
	var inParagraph bool
	var paragraphStyle string
	depth := 0

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth > maxXMLDepth {
				return "", nil, fmt.Errorf("xml nesting depth exceeds %d", maxXMLDepth)
			}
			switch {
			case t.Name.Local == "p":
				inParagraph = true
				currentText.Reset()
				paragraphStyle = ""
			case t.Name.Local == "pStyle" && inParagraph:
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						paragraphStyle = attr.Value
					}
				}
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			depth--
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				if title == "" && docxHeadingLevel(paragraphStyle) > 0 {
					title = text
				}
				lines = append(lines, text)
			}
		}
	}

	if len(lines) == 0 {
		return title, nil, nil
	}
	return title, []Page{{Number: 1, Text: strings.Join(lines, "\n")}}, nil
}

// docxHeadingLevel extracts the heading level from a paragraph style name.
// e.g. "Heading1" → 1, "Heading2" → 2, "Title" → 1, etc.
func docxHeadingLevel(style string) int {
	lower := strings.ToLower(style)

	if lower == "title" {
		return 1
	}
	if lower == "subtitle" {
		return 2
	}

	// "Heading1", "heading1", "Titre1", etc.
	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := lower[len(prefix):]
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}
