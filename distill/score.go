// CLAUDE:SUMMARY Candidate scorer: commitment/time/action signals, table and retrospective penalties.
package distill

// Scoring weights. The rank ordering they induce matters more than the exact
// constants; keep penalties strong enough that tables and pure retrospectives
// never clear the default MinScore.
const (
	weightCommitment     = 4
	weightTimeAnchor     = 3
	weightActionNoun     = 2
	penaltyTableLike     = -4
	penaltyRetrospective = -3
)

// scoreSegment is a pure function of (text, lexicon): same input text always
// yields the same score.
func (d *Distiller) scoreSegment(seg segment) scoredSegment {
	text := seg.Text
	ss := scoredSegment{segment: seg}

	ss.HasCommitment = d.lex.commitment.MatchString(text)
	ss.HasTimeAnchor = d.lex.hasTimeAnchor(text)
	ss.HasActionNoun = d.lex.actionNouns.MatchString(text)

	if ss.HasCommitment {
		ss.Score += weightCommitment
	}
	if ss.HasTimeAnchor {
		ss.Score += weightTimeAnchor
	}
	if ss.HasActionNoun {
		ss.Score += weightActionNoun
	}
	if isTableLine(text) {
		ss.Score += penaltyTableLike
	}
	// Purely retrospective: past-tense result verbs with no forward signal.
	if d.lex.retrospective.MatchString(text) && !ss.HasCommitment && !ss.HasTimeAnchor {
		ss.Score += penaltyRetrospective
	}
	return ss
}

// qualifies applies the structural gate and the score threshold. A segment
// with no commitment verb, time anchor, or action noun is discarded
// regardless of score.
func (d *Distiller) qualifies(ss scoredSegment) bool {
	if !ss.HasCommitment && !ss.HasTimeAnchor && !ss.HasActionNoun {
		return false
	}
	return ss.Score >= d.cfg.MinScore
}
