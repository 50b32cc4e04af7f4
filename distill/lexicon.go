// CLAUDE:SUMMARY Compiles the Lexicon keyword tables into regexes used by scorer and builder.
package distill

import (
	"regexp"
	"strings"
)

// Static calendar patterns. These are structural, not vocabulary, so they are
// not part of the configurable Lexicon.
var (
	yearRe    = regexp.MustCompile(`\b20\d{2}\b`)
	quarterRe = regexp.MustCompile(`(?i)\bQ[1-4]\b`)
	halfRe    = regexp.MustCompile(`(?i)\b(?:H[12]|[12]H)\b`)
	fiscalRe  = regexp.MustCompile(`(?i)\bFY\s?\d{2,4}\b`)
)

// lexicon is the compiled, immutable form of a Lexicon. Built once in New;
// shared read-only across concurrent runs.
type lexicon struct {
	commitment    *regexp.Regexp
	timePhrases   *regexp.Regexp
	actionNouns   *regexp.Regexp
	retrospective *regexp.Regexp
	boilerplate   *regexp.Regexp
	actorPrefixes []string
	stopwords     map[string]struct{}
	hints         []compiledHint
	tags          []string
}

type compiledHint struct {
	category Category
	re       *regexp.Regexp
}

func compileLexicon(l Lexicon) *lexicon {
	stop := make(map[string]struct{}, len(l.Stopwords))
	for _, w := range l.Stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	actors := make([]string, len(l.ActorPrefixes))
	for i, a := range l.ActorPrefixes {
		actors[i] = strings.ToLower(a)
	}

	hints := make([]compiledHint, 0, len(l.CategoryHints))
	for _, h := range l.CategoryHints {
		hints = append(hints, compiledHint{
			category: h.Category,
			re:       phraseRegexp(h.Keywords),
		})
	}

	return &lexicon{
		commitment:    phraseRegexp(l.CommitmentVerbs),
		timePhrases:   phraseRegexp(l.TimeAnchorPhrases),
		actionNouns:   phraseRegexp(l.ActionNouns),
		retrospective: phraseRegexp(l.RetrospectiveVerbs),
		boilerplate:   phraseRegexp(l.BoilerplatePhrases),
		actorPrefixes: actors,
		stopwords:     stop,
		hints:         hints,
		tags:          l.TagKeywords,
	}
}

// phraseRegexp builds a single case-insensitive word-boundary alternation
// from a phrase list. Longer phrases are listed first so alternation prefers
// them over embedded shorter ones.
func phraseRegexp(phrases []string) *regexp.Regexp {
	if len(phrases) == 0 {
		return regexp.MustCompile(`\bx\bx`) // matches nothing
	}
	sorted := make([]string, len(phrases))
	copy(sorted, phrases)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if len(sorted[j]) > len(sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	quoted := make([]string, len(sorted))
	for i, p := range sorted {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(p))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// hasTimeAnchor reports whether text contains any calendar commitment token.
func (lx *lexicon) hasTimeAnchor(text string) bool {
	return yearRe.MatchString(text) ||
		quarterRe.MatchString(text) ||
		halfRe.MatchString(text) ||
		fiscalRe.MatchString(text) ||
		lx.timePhrases.MatchString(text)
}

// isStopword reports whether a lowercase token is in the stopword table.
func (lx *lexicon) isStopword(tok string) bool {
	_, ok := lx.stopwords[tok]
	return ok
}
