// CLAUDE:SUMMARY Extracts text from .odt (OpenDocument) files by parsing content.xml, one line per paragraph.
package docpipe

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// openZipEntry opens one named file inside a ZIP archive. The caller
// closes the returned reader; the archive closes with it.
func openZipEntry(path, name string) (io.ReadCloser, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				r.Close()
				return nil, fmt.Errorf("open %s: %w", name, err)
			}
			return &zipEntryReader{rc: rc, archive: r}, nil
		}
	}
	r.Close()
	return nil, fmt.Errorf("%s not found in archive", name)
}

type zipEntryReader struct {
	rc      io.ReadCloser
	archive *zip.ReadCloser
}

func (z *zipEntryReader) Read(p []byte) (int, error) { return z.rc.Read(p) }

func (z *zipEntryReader) Close() error {
	err := z.rc.Close()
	if cerr := z.archive.Close(); err == nil {
		err = cerr
	}
	return err
}

// extractODT parses an .odt file by reading content.xml from the ZIP
// archive. Headings and paragraphs become lines of a single page.
func extractODT(path string) (string, []Page, error) {
	rc, err := openZipEntry(path, "content.xml")
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var lines []string
	var title string
	var currentText strings.Builder
	var inHeading, inParagraph bool
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
			switch t.Name.Local {
			case "h": // <text:h>
				inHeading = true
				currentText.Reset()
			case "p": // <text:p>
				inParagraph = true
				currentText.Reset()
			}

		case xml.CharData:
			if inHeading || inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			depth--
			switch {
			case t.Name.Local == "h" && inHeading:
				inHeading = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				if title == "" {
					title = text
				}
				lines = append(lines, text)

			case t.Name.Local == "p" && inParagraph:
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
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
