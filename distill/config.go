// CLAUDE:SUMMARY Configuration and lexicon defaults for the distill pipeline, YAML-loadable.
package distill

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config tunes the pipeline. The zero value is usable: defaults are applied
// by New. All heuristic constants live here so scoring behaviour is tunable
// without code forks.
type Config struct {
	// MaxCandidates caps the final output list. Default: 25.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// MinScore discards segments scoring below this threshold. Default: 4.
	MinScore int `json:"min_score" yaml:"min_score"`

	// PerPageLimit caps candidates taken from a single page. Default: 10.
	PerPageLimit int `json:"per_page_limit" yaml:"per_page_limit"`

	// MaxChunkChars splits page text longer than this into sequential
	// chunks that preserve page-range metadata. Default: 9000.
	MaxChunkChars int `json:"max_chunk_chars" yaml:"max_chunk_chars"`

	// MinSegmentChars discards shorter segments as noise. Default: 30.
	MinSegmentChars int `json:"min_segment_chars" yaml:"min_segment_chars"`

	// MaxSegmentChars triggers comma-splitting of long segments. Default: 240.
	MaxSegmentChars int `json:"max_segment_chars" yaml:"max_segment_chars"`

	// MaxDecisionChars truncates the human-readable decision text. Default: 280.
	MaxDecisionChars int `json:"max_decision_chars" yaml:"max_decision_chars"`

	// DedupThreshold is the Jaccard similarity at or above which two
	// candidates are merged. Default: 0.60.
	DedupThreshold float64 `json:"dedup_threshold" yaml:"dedup_threshold"`

	// Lexicon holds the keyword tables driving the scorer and builder.
	Lexicon Lexicon `json:"lexicon" yaml:"lexicon"`

	// Logger for debug/warning messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Lexicon is the explicit, immutable keyword configuration of the scorer and
// builder. Empty fields fall back to the built-in tables.
type Lexicon struct {
	// CommitmentVerbs are modal/verb phrases signalling intent to act.
	CommitmentVerbs []string `json:"commitment_verbs" yaml:"commitment_verbs"`

	// TimeAnchorPhrases complement the built-in year/quarter patterns.
	TimeAnchorPhrases []string `json:"time_anchor_phrases" yaml:"time_anchor_phrases"`

	// ActionNouns are nouns tied to physical/operational commitments.
	ActionNouns []string `json:"action_nouns" yaml:"action_nouns"`

	// RetrospectiveVerbs mark past-tense result statements.
	RetrospectiveVerbs []string `json:"retrospective_verbs" yaml:"retrospective_verbs"`

	// BoilerplatePhrases mark disclaimer/financial-statement lines to drop.
	BoilerplatePhrases []string `json:"boilerplate_phrases" yaml:"boilerplate_phrases"`

	// ActorPrefixes are leading subjects stripped when deriving titles.
	ActorPrefixes []string `json:"actor_prefixes" yaml:"actor_prefixes"`

	// Stopwords are dropped during title derivation and dedup tokenization.
	Stopwords []string `json:"stopwords" yaml:"stopwords"`

	// CategoryHints map keyword lists to categories, tested in order;
	// first match wins.
	CategoryHints []CategoryHint `json:"category_hints" yaml:"category_hints"`

	// TagKeywords are scanned verbatim into candidate tags.
	TagKeywords []string `json:"tag_keywords" yaml:"tag_keywords"`
}

// CategoryHint binds keywords to one category.
type CategoryHint struct {
	Category Category `json:"category" yaml:"category"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

func (c *Config) defaults() {
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = 25
	}
	if c.MinScore <= 0 {
		c.MinScore = 4
	}
	if c.PerPageLimit <= 0 {
		c.PerPageLimit = 10
	}
	if c.MaxChunkChars <= 0 {
		c.MaxChunkChars = 9000
	}
	if c.MinSegmentChars <= 0 {
		c.MinSegmentChars = 30
	}
	if c.MaxSegmentChars <= 0 {
		c.MaxSegmentChars = 240
	}
	if c.MaxDecisionChars <= 0 {
		c.MaxDecisionChars = 280
	}
	if c.DedupThreshold <= 0 || c.DedupThreshold > 1 {
		c.DedupThreshold = 0.60
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.Lexicon.defaults()
}

func (l *Lexicon) defaults() {
	if len(l.CommitmentVerbs) == 0 {
		l.CommitmentVerbs = defaultCommitmentVerbs
	}
	if len(l.TimeAnchorPhrases) == 0 {
		l.TimeAnchorPhrases = defaultTimeAnchorPhrases
	}
	if len(l.ActionNouns) == 0 {
		l.ActionNouns = defaultActionNouns
	}
	if len(l.RetrospectiveVerbs) == 0 {
		l.RetrospectiveVerbs = defaultRetrospectiveVerbs
	}
	if len(l.BoilerplatePhrases) == 0 {
		l.BoilerplatePhrases = defaultBoilerplatePhrases
	}
	if len(l.ActorPrefixes) == 0 {
		l.ActorPrefixes = defaultActorPrefixes
	}
	if len(l.Stopwords) == 0 {
		l.Stopwords = defaultStopwords
	}
	if len(l.CategoryHints) == 0 {
		l.CategoryHints = defaultCategoryHints()
	}
	if len(l.TagKeywords) == 0 {
		l.TagKeywords = defaultTagKeywords
	}
}

// LoadConfig reads a YAML config file. Missing fields keep their defaults
// once the Config is passed to New.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("distill: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("distill: parse config: %w", err)
	}
	return cfg, nil
}

var defaultCommitmentVerbs = []string{
	"will", "plan to", "plans to", "planning to", "committed to", "commit to",
	"commits to", "expect to", "expects to", "intend to", "intends to",
	"aim to", "aims to", "on track to", "on track for", "scheduled to",
	"scheduled for", "target", "targets", "targeting", "begin", "begins",
	"beginning", "start", "starts", "starting", "ramp", "ramping",
	"launch", "launches", "launching", "roll out", "rolling out",
	"deploy", "deploying", "open", "opening", "hire", "hiring",
	"invest", "investing", "expand", "expanding",
}

var defaultTimeAnchorPhrases = []string{
	"by end of", "by the end of", "by year-end", "by year end",
	"this quarter", "next quarter", "this year", "next year",
	"by mid", "first half", "second half", "coming months", "coming quarters",
}

var defaultActionNouns = []string{
	"factory", "gigafactory", "plant", "facility", "construction",
	"production line", "production", "deployment", "commissioning",
	"capacity", "expansion", "rollout", "launch", "ramp", "pilot",
	"installation", "migration", "acquisition", "headcount",
}

var defaultRetrospectiveVerbs = []string{
	"achieved", "grew", "reported", "delivered", "generated", "posted",
	"recorded", "reached", "completed", "declined", "decreased", "totaled",
}

var defaultBoilerplatePhrases = []string{
	"forward-looking statements", "forward looking statements",
	"safe harbor", "non-gaap", "unaudited", "table of contents",
	"actual results may differ", "actual results could differ",
	"undue reliance", "sec filings", "risk factors",
	"in accordance with gaap", "press release", "webcast",
	"investor relations", "all rights reserved", "confidential",
}

var defaultActorPrefixes = []string{
	"the company", "company", "management", "we", "our", "tesla", "it",
	"they", "the team", "the board",
}

var defaultStopwords = []string{
	"a", "an", "the", "and", "or", "but", "of", "in", "on", "to", "for",
	"with", "as", "at", "by", "is", "are", "was", "were", "be", "been",
	"this", "that", "these", "those", "it", "its", "we", "our", "their",
	"will", "plan", "plans", "despite", "also", "has", "have", "had",
	"more", "very", "continue", "continues", "during", "which", "than",
}

func defaultCategoryHints() []CategoryHint {
	return []CategoryHint{
		{Category: CategoryProduct, Keywords: []string{
			"product", "launch", "model", "feature", "version", "software",
			"platform", "beta", "design",
		}},
		{Category: CategoryOperations, Keywords: []string{
			"factory", "plant", "production", "capacity", "supply",
			"manufacturing", "logistics", "construction", "facility",
			"deployment", "commissioning",
		}},
		{Category: CategoryFinance, Keywords: []string{
			"capex", "capital expenditure", "margin", "cash", "financing",
			"debt", "cost reduction", "pricing", "budget", "investment",
		}},
		{Category: CategorySales, Keywords: []string{
			"sales", "deliveries", "market share", "customers", "orders",
			"demand", "go-to-market", "distribution", "retail",
		}},
		{Category: CategoryHiring, Keywords: []string{
			"hire", "hiring", "headcount", "recruit", "staffing", "workforce",
		}},
		{Category: CategoryLegal, Keywords: []string{
			"regulatory", "regulation", "compliance", "litigation",
			"settlement", "approval", "permit",
		}},
		{Category: CategoryStrategy, Keywords: []string{
			"strategy", "strategic", "partnership", "acquisition", "roadmap",
			"long-term", "expansion into", "restructuring",
		}},
	}
}

var defaultTagKeywords = []string{
	"factory", "ramp", "launch", "production", "commissioning", "capacity",
	"expansion", "pilot", "rollout", "hiring", "pricing", "partnership",
}
