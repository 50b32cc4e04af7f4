// CLAUDE:SUMMARY Plain-text and Markdown extractors producing single-page, line-preserving output.
package docpipe

import (
	"os"
	"strings"
)

// extractText reads a plain text file as a single page. Line structure is
// preserved; trailing whitespace and blank-line runs are collapsed.
func extractText(path string) (string, []Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	text := normalizeLines(string(data))
	if text == "" {
		return "", nil, nil
	}
	return firstLine(text), []Page{{Number: 1, Text: text}}, nil
}

// extractMarkdown reads a Markdown file as a single page. ATX heading
// markers and emphasis are stripped; the first heading becomes the title.
func extractMarkdown(path string) (string, []Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var title string
	var out []string
	inFence := false
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimRight(line, " \t")
		stripped := strings.TrimSpace(trimmed)

		if strings.HasPrefix(stripped, "```") || strings.HasPrefix(stripped, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if strings.HasPrefix(stripped, "#") {
			heading := strings.TrimSpace(strings.Trim(stripped, "# "))
			if heading == "" {
				continue
			}
			if title == "" {
				title = heading
			}
			out = append(out, heading)
			continue
		}
		out = append(out, stripInlineMarkdown(trimmed))
	}

	text := normalizeLines(strings.Join(out, "\n"))
	if text == "" {
		return title, nil, nil
	}
	if title == "" {
		title = firstLine(text)
	}
	return title, []Page{{Number: 1, Text: text}}, nil
}

// stripInlineMarkdown removes emphasis and inline-code markers while
// leaving list bullets in place for downstream segmentation.
func stripInlineMarkdown(line string) string {
	replacer := strings.NewReplacer("**", "", "__", "", "`", "")
	return replacer.Replace(line)
}

// normalizeLines trims trailing whitespace per line and collapses runs of
// blank lines into one. Newlines are preserved; they carry structure for
// downstream segmentation.
func normalizeLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	blank := true
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	text = strings.TrimSpace(text)
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
