// CLAUDE:SUMMARY Text cleaner: header/footer table, table-line and boilerplate filters, wrapped-line merging.
package distill

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// Lines at most this long are considered for header/footer detection.
	headerFooterMaxLen = 80
	// A short line recurring on at least this fraction of pages is a
	// running header/footer.
	headerFooterRatio = 0.60
	headerFooterMin   = 2
)

var (
	bulletRe       = regexp.MustCompile(`^\s*(?:[•◦▪‣*–—-]|\(?\d{1,2}[.)]|\(?[a-z][.)])\s+`)
	numericTokenRe = regexp.MustCompile(`^[(\[]?[-+]?[$€£]?\d[\d,.]*%?[)\]]?$`)
	currencyPctRe  = regexp.MustCompile(`[$€£%]`)
	footnoteRe     = regexp.MustCompile(`^\s*(?:\[\d+\]|\(\d+\)|\d{1,2}\.)\s*$`)
	digitRunRe     = regexp.MustCompile(`\d+`)
)

// frequentLines builds the running header/footer set for one document: any
// short line recurring on ≥60% of pages (minimum 2) is removed everywhere.
func frequentLines(pages []PageText) map[string]struct{} {
	if len(pages) < headerFooterMin {
		return nil
	}
	counts := make(map[string]int)
	for _, p := range pages {
		seen := make(map[string]struct{})
		for _, line := range strings.Split(p.Text, "\n") {
			key := lineKey(line)
			if key == "" || len(key) > headerFooterMaxLen {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			counts[key]++
		}
	}
	threshold := int(float64(len(pages)) * headerFooterRatio)
	if threshold < headerFooterMin {
		threshold = headerFooterMin
	}
	freq := make(map[string]struct{})
	for key, n := range counts {
		if n >= threshold {
			freq[key] = struct{}{}
		}
	}
	return freq
}

// lineKey normalizes a line for frequency comparison: trimmed, lowercased,
// page numbers collapsed so "Page 3 of 12" and "Page 7 of 12" match.
func lineKey(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = digitRunRe.ReplaceAllString(s, "#")
	return strings.Join(strings.Fields(s), " ")
}

// cleanPage scrubs one page and decomposes it into logical lines. A page
// yielding zero lines is low-signal; callers drop it with a soft warning,
// never an error.
func (d *Distiller) cleanPage(fileName string, pt PageText, freq map[string]struct{}) cleanedPage {
	cp := cleanedPage{FileName: fileName, Page: pt.Page}

	var blocks []string
	for _, raw := range strings.Split(pt.Text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if _, running := freq[lineKey(line)]; running {
			continue
		}
		if footnoteRe.MatchString(line) {
			continue
		}
		if isTableLine(line) {
			continue
		}
		if d.lex.boilerplate.MatchString(line) {
			continue
		}
		if isAllCapsHeader(line) {
			continue
		}
		blocks = mergeLine(blocks, line)
	}

	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b != "" {
			cp.Lines = append(cp.Lines, b)
		}
	}
	return cp
}

// mergeLine appends line to blocks, merging wrapped continuations. A bullet
// starts a new logical block; otherwise the line joins the previous block
// unless that block ended a sentence and this line starts one.
func mergeLine(blocks []string, line string) []string {
	if len(blocks) == 0 || bulletRe.MatchString(line) {
		return append(blocks, stripBullet(line))
	}
	prev := blocks[len(blocks)-1]
	if endsSentence(prev) && startsSentence(line) {
		return append(blocks, line)
	}
	// Re-join hyphenated line wraps: "produc-" + "tion" → "production".
	if strings.HasSuffix(prev, "-") && startsLower(line) {
		blocks[len(blocks)-1] = strings.TrimSuffix(prev, "-") + line
		return blocks
	}
	blocks[len(blocks)-1] = prev + " " + line
	return blocks
}

func stripBullet(line string) string {
	return strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
}

func endsSentence(s string) bool {
	s = strings.TrimRight(s, `"')]`)
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, ":")
}

func startsSentence(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r) || unicode.IsDigit(r)
	}
	return false
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

// isTableLine judges a line to be tabular/numeric data rather than prose:
// high digit density, many standalone numeric tokens, repeated
// currency/percent marks, or delimiter-heavy formatting.
func isTableLine(line string) bool {
	if digitRatio(line) > 0.28 {
		return true
	}
	fields := strings.Fields(line)
	numeric := 0
	for _, f := range fields {
		if numericTokenRe.MatchString(f) {
			numeric++
		}
	}
	if numeric >= 4 {
		return true
	}
	if len(currencyPctRe.FindAllString(line, -1)) >= 2 && numeric >= 2 {
		return true
	}
	delims := strings.Count(line, "|") + strings.Count(line, ";") + strings.Count(line, "\t")
	return delims >= 2 && numeric >= 3
}

// digitRatio is the share of non-space characters that are digits.
func digitRatio(s string) float64 {
	total, digits := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(digits) / float64(total)
}

// isAllCapsHeader reports short shouting headers like "CONDENSED BALANCE SHEET".
func isAllCapsHeader(line string) bool {
	if len(line) > 60 {
		return false
	}
	letters := 0
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 3
}
