// CLAUDE:SUMMARY Sentence segmenter: hyphenation repair, sentence splitting, long-segment comma splitting.
package distill

import (
	"strings"
	"unicode"
)

var hyphenWrapReplacer = strings.NewReplacer("-\n", "", "­", "")

// segmentPage splits a cleaned page's logical lines into scoring units.
// Order is preserved; later tie-breaking relies on stable iteration.
func (d *Distiller) segmentPage(cp cleanedPage) []segment {
	var segs []segment
	for _, line := range cp.Lines {
		for _, sentence := range splitSentences(normalizeSegmentText(line)) {
			for _, part := range d.splitLong(sentence) {
				part = strings.TrimSpace(part)
				if len(part) < d.cfg.MinSegmentChars {
					continue
				}
				segs = append(segs, segment{
					Text:     part,
					Raw:      line,
					FileName: cp.FileName,
					Page:     cp.Page,
				})
			}
		}
	}
	return segs
}

// normalizeSegmentText repairs line-wrap hyphenation and collapses whitespace.
func normalizeSegmentText(s string) string {
	s = hyphenWrapReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// splitSentences splits on sentence-final punctuation followed by whitespace
// and an uppercase/digit lookahead. Abbreviation handling is intentionally
// minimal: a single capital letter before the period does not end a sentence.
func splitSentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		// Skip "J. Smith" style initials and decimal points.
		if r == '.' && i >= 1 && unicode.IsUpper(runes[i-1]) &&
			(i < 2 || !unicode.IsLetter(runes[i-2])) {
			continue
		}
		if r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 {
			continue // no whitespace after punctuation
		}
		if j < len(runes) && !unicode.IsUpper(runes[j]) && !unicode.IsDigit(runes[j]) {
			continue
		}
		out = append(out, strings.TrimSpace(string(runes[start:i+1])))
		start = j
		i = j - 1
	}
	if start < len(runes) {
		if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
			out = append(out, tail)
		}
	}
	return out
}

// splitLong splits segments exceeding MaxSegmentChars on commas outside
// parentheses. If no comma split is available the original segment is kept
// whole — long qualifying text is never silently dropped.
func (d *Distiller) splitLong(s string) []string {
	if len(s) <= d.cfg.MaxSegmentChars {
		return []string{s}
	}
	parts := splitCommasOutsideParens(s)
	if len(parts) < 2 {
		return []string{s}
	}
	// Regroup clauses so fragments stay close to the budget without
	// producing confetti.
	var out []string
	var cur strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if cur.Len() > 0 && cur.Len()+len(p)+2 > d.cfg.MaxSegmentChars {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(", ")
		}
		cur.WriteString(p)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	if len(out) == 0 {
		return []string{s}
	}
	return out
}

func splitCommasOutsideParens(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
