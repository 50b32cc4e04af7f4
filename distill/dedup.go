// CLAUDE:SUMMARY Deduplicator: stopword-filtered token/bigram Jaccard similarity, evidence-preserving merge.
package distill

import (
	"sort"
	"strings"
	"unicode"
)

// dedupe collapses near-duplicate candidates. Candidates are first put into
// a canonical order (score desc, explicit page first, page asc, shorter
// quote, id asc) so the surviving set is invariant to input order; the merge
// is then a greedy pass keeping the best variant and demoting the losers'
// evidence into the winner's Duplicates list. Running dedupe on its own
// output is a no-op.
func (d *Distiller) dedupe(cands []Candidate) []Candidate {
	if len(cands) < 2 {
		return cands
	}

	ordered := make([]Candidate, len(cands))
	copy(ordered, cands)
	sort.SliceStable(ordered, func(i, j int) bool {
		return betterCandidate(ordered[i], ordered[j])
	})

	type kept struct {
		cand Candidate
		set  map[string]struct{}
	}
	var out []kept

	for _, c := range ordered {
		set := d.similaritySet(c)
		merged := false
		for k := range out {
			if jaccard(set, out[k].set) >= d.cfg.DedupThreshold {
				out[k].cand.Duplicates = append(out[k].cand.Duplicates, c.Evidence)
				out[k].cand.Duplicates = append(out[k].cand.Duplicates, c.Duplicates...)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, kept{cand: c, set: set})
		}
	}

	result := make([]Candidate, 0, len(out))
	for _, k := range out {
		result = append(result, k.cand)
	}
	return result
}

// betterCandidate orders the preferred duplicate representative first:
// higher score, then an explicit page over none, then the tighter (shorter)
// quote, then id for a stable total order.
func betterCandidate(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	aPaged, bPaged := a.Evidence.Page > 0, b.Evidence.Page > 0
	if aPaged != bPaged {
		return aPaged
	}
	la, lb := len(a.Evidence.Quote), len(b.Evidence.Quote)
	if la != lb {
		return la < lb
	}
	return a.ID < b.ID
}

// similaritySet builds the comparison set for one candidate: lowercase
// alphanumeric tokens of title+quote minus stopwords, plus their bigrams.
func (d *Distiller) similaritySet(c Candidate) map[string]struct{} {
	tokens := dedupTokens(c.Title+" "+c.Evidence.Quote, d.lex)
	set := make(map[string]struct{}, len(tokens)*2)
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	for i := 0; i+1 < len(tokens); i++ {
		set[tokens[i]+" "+tokens[i+1]] = struct{}{}
	}
	return set
}

func dedupTokens(text string, lx *lexicon) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || lx.isStopword(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// rank sorts candidates descending by score, ties broken by ascending page,
// then id, and caps the list at max.
func rank(cands []Candidate, max int) []Candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		if cands[i].Evidence.Page != cands[j].Evidence.Page {
			return cands[i].Evidence.Page < cands[j].Evidence.Page
		}
		return cands[i].ID < cands[j].ID
	})
	if max > 0 && len(cands) > max {
		cands = cands[:max]
	}
	return cands
}
