// CLAUDE:SUMMARY Candidate builder: title derivation, category hints, strength, FNV-1a ids, tags.
package distill

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const titleMaxTokens = 10

// leadingTimeRe matches a leading time clause like "In Q3 2025," or "By 2026".
var leadingTimeRe = regexp.MustCompile(
	`(?i)^(?:in|by|during)\s+(?:the\s+)?(?:end\s+of\s+)?(?:Q[1-4]\s*)?(?:20\d{2}|FY\s?\d{2,4}|this\s+(?:year|quarter)|next\s+(?:year|quarter))[,:]?\s*`)

// buildCandidate turns a qualifying scored segment into a Candidate draft.
func (d *Distiller) buildCandidate(ss scoredSegment) Candidate {
	quote := ss.Raw
	if quote == "" {
		quote = ss.Text
	}

	strength := StrengthSoft
	if ss.HasCommitment && ss.HasTimeAnchor {
		strength = StrengthHard
	}

	return Candidate{
		ID:       candidateID(ss.Page, quote),
		Title:    d.deriveTitle(ss.Text),
		Strength: strength,
		Category: d.deriveCategory(ss.Text),
		Decision: ellipsize(ss.Text, d.cfg.MaxDecisionChars),
		Evidence: Evidence{
			File:         ss.FileName,
			Page:         ss.Page,
			Quote:        quote,
			LocationHint: pageHint(ss.Page),
		},
		Tags:  d.scanTags(ss.Text),
		Score: ss.Score,
	}
}

// candidateID is a deterministic 64-bit FNV-1a hash of (page, normalized
// quote). Identical input always produces the same id, which keeps
// re-extraction idempotent and UI keys stable.
func candidateID(page int, quote string) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s", page, normalizeForHash(quote))
	return fmt.Sprintf("dc_%016x", h.Sum64())
}

// normalizeForHash lowercases and strips everything but letters, digits and
// single spaces, so trivial punctuation drift does not change the id.
func normalizeForHash(text string) string {
	var sb strings.Builder
	prevSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			prevSpace = false
		case !prevSpace:
			sb.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(sb.String())
}

// deriveTitle strips actor boilerplate and leading time tokens, then keeps
// the first meaningful tokens, capitalized.
func (d *Distiller) deriveTitle(text string) string {
	s := strings.TrimSpace(text)

	// Drop a leading time clause: "In Q3 2025, ..." / "By 2026 ...".
	if m := leadingTimeRe.FindString(s); m != "" {
		s = strings.TrimSpace(s[len(m):])
	}

	// Drop a leading actor subject ("The company", "We", "Management").
	lower := strings.ToLower(s)
	for _, actor := range d.lex.actorPrefixes {
		if strings.HasPrefix(lower, actor+" ") {
			s = strings.TrimSpace(s[len(actor):])
			break
		}
	}

	tokens := strings.Fields(s)
	var kept []string
	for _, tok := range tokens {
		clean := strings.Trim(tok, `.,;:"'()[]`)
		if clean == "" {
			continue
		}
		if d.lex.isStopword(strings.ToLower(clean)) && len(kept) > 0 {
			continue
		}
		kept = append(kept, clean)
		if len(kept) >= titleMaxTokens {
			break
		}
	}
	if len(kept) == 0 {
		kept = tokens
		if len(kept) > titleMaxTokens {
			kept = kept[:titleMaxTokens]
		}
	}
	title := strings.Join(kept, " ")
	return capitalize(title)
}

// deriveCategory tests the segment against the ordered hint list; first
// match wins, default Other.
func (d *Distiller) deriveCategory(text string) Category {
	for _, h := range d.lex.hints {
		if h.re.MatchString(text) {
			return h.category
		}
	}
	return CategoryOther
}

// scanTags collects lexicon tag keywords present in the text. Tags are
// additive hints, not used for ranking.
func (d *Distiller) scanTags(text string) []string {
	lower := strings.ToLower(text)
	var tags []string
	for _, kw := range d.lex.tags {
		if containsWord(lower, strings.ToLower(kw)) {
			tags = append(tags, kw)
		}
	}
	return tags
}

func containsWord(haystack, word string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isWordRune(rune(haystack[i-1]))
		afterIdx := i + len(word)
		after := afterIdx >= len(haystack) || !isWordRune(rune(haystack[afterIdx]))
		if before && after {
			return true
		}
		idx = i + len(word)
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ellipsize truncates text to at most max bytes on a word boundary,
// appending an ellipsis marker. The cut never lands mid-rune, so multi-byte
// text without spaces stays valid UTF-8.
func ellipsize(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	cut := text[:max]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, `.,;: `) + "…"
}

func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}

func pageHint(page int) string {
	if page <= 0 {
		return ""
	}
	return fmt.Sprintf("p. %d", page)
}
