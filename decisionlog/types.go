// CLAUDE:SUMMARY Entry, ScoreVars and Metrics types for the persisted decision log.
package decisionlog

import (
	"time"

	"github.com/hazyhaar/dnav/distill"
)

// ScoreVars are the reviewer-edited variables attached to a promoted
// candidate. Each is an integer on the 1..10 scale.
type ScoreVars struct {
	Impact     int `json:"impact" yaml:"impact"`
	Cost       int `json:"cost" yaml:"cost"`
	Risk       int `json:"risk" yaml:"risk"`
	Urgency    int `json:"urgency" yaml:"urgency"`
	Confidence int `json:"confidence" yaml:"confidence"`
}

// Metrics are derived from ScoreVars; they are never stored, always
// recomputed, so the formula stays the single source of truth.
type Metrics struct {
	Return    int `json:"return"`
	Pressure  int `json:"pressure"`
	Stability int `json:"stability"`
	DNAV      int `json:"dnav"`
}

// Entry is one logged decision: the extracted candidate frozen at
// promotion time plus the reviewer's score variables.
type Entry struct {
	ID           string           `json:"id"`
	CandidateID  string           `json:"candidate_id"`
	Title        string           `json:"title"`
	Strength     distill.Strength `json:"strength"`
	Category     distill.Category `json:"category"`
	Decision     string           `json:"decision"`
	Evidence     distill.Evidence `json:"evidence"`
	Tags         []string         `json:"tags,omitempty"`
	ExtractScore int              `json:"extract_score"`
	Vars         ScoreVars        `json:"vars"`
	Metrics      Metrics          `json:"metrics"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
