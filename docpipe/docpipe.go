// CLAUDE:SUMMARY Core pipeline engine that dispatches document extraction by format (docx, odt, pdf, md, txt, html).
// Package docpipe extracts page-oriented text from document files.
//
// Supported formats:
//   - .docx  — Microsoft Word (archive/zip → word/document.xml)
//   - .odt   — OpenDocument Text (archive/zip → content.xml)
//   - .pdf   — PDF text extraction via pdfcpu, one page per PDF page
//   - .md    — Markdown (heading markers stripped, line structure kept)
//   - .txt   — Plain text (line structure kept)
//   - .html  — HTML (DOM walk, hidden-text filtering)
//
// Every extractor returns []Page so downstream consumers can anchor
// findings to page numbers. Non-paginated formats yield one page.
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{})
//	doc, err := pipe.Extract(ctx, "/path/to/report.pdf")
//	for _, pg := range doc.Pages { ... }
package docpipe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Pipeline is the document extraction engine.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Detect returns the document format based on file extension.
func (p *Pipeline) Detect(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".docx":
		return FormatDocx, nil
	case ".odt":
		return FormatODT, nil
	case ".pdf":
		return FormatPDF, nil
	case ".md", ".markdown":
		return FormatMD, nil
	case ".txt", ".text":
		return FormatTXT, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", ext)
	}
}

// Extract parses a document and returns its pages. A readable file with
// no extractable text (a scanned PDF, say) is not an error: the caller
// gets a Document with zero pages and, for PDFs, quality metrics that
// indicate whether OCR is needed.
func (p *Pipeline) Extract(ctx context.Context, path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), p.cfg.MaxFileSize)
	}

	format, err := p.Detect(path)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("extracting document", "path", path, "format", format)

	var pages []Page
	var title string
	var quality *ExtractionQuality

	switch format {
	case FormatDocx:
		title, pages, err = extractDocx(path)
	case FormatODT:
		title, pages, err = extractODT(path)
	case FormatPDF:
		title, pages, quality, err = extractPDF(path)
	case FormatMD:
		title, pages, err = extractMarkdown(path)
	case FormatTXT:
		title, pages, err = extractText(path)
	case FormatHTML:
		title, pages, err = extractHTMLFile(path)
	default:
		return nil, fmt.Errorf("no parser for format: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("extract %s (%s): %w", path, format, err)
	}

	return &Document{
		Path:    path,
		Format:  format,
		Title:   title,
		Pages:   pages,
		Quality: quality,
	}, nil
}

// SupportedFormats returns all supported format extensions.
func SupportedFormats() []string {
	return []string{"docx", "odt", "pdf", "md", "txt", "html"}
}
