// CLAUDE:SUMMARY Core types for the distill pipeline: PageText, Source, Candidate, Evidence, Result.
package distill

// PageText is one page of raw source text as produced by a document
// extractor (see the docpipe package). Page numbers start at 1.
type PageText struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Source is one input document resolved to per-page text.
type Source struct {
	Name  string     `json:"name"`
	Pages []PageText `json:"pages"`
}

// cleanedPage is a page after boilerplate/table scrubbing, decomposed into
// logical lines (bullets as discrete lines, wrapped sentences merged).
type cleanedPage struct {
	FileName string
	Page     int
	Lines    []string
}

// segment is one contiguous span of text that is a unit of scoring.
type segment struct {
	Text     string
	Raw      string // original excerpt before normalization
	FileName string
	Page     int
}

// scoredSegment carries the scorer's verdict for a segment.
type scoredSegment struct {
	segment
	Score         int
	HasCommitment bool
	HasTimeAnchor bool
	HasActionNoun bool
}

// Strength classifies how firm a detected decision is.
type Strength string

const (
	// StrengthHard means a commitment verb and a time anchor were both present.
	StrengthHard Strength = "hard"
	// StrengthSoft means the segment qualified on weaker signals only.
	StrengthSoft Strength = "soft"
)

// Category is the business area a candidate is filed under.
type Category string

const (
	CategoryOperations Category = "operations"
	CategoryFinance    Category = "finance"
	CategoryProduct    Category = "product"
	CategoryHiring     Category = "hiring"
	CategoryLegal      Category = "legal"
	CategoryStrategy   Category = "strategy"
	CategorySales      Category = "sales/go-to-market"
	CategoryOther      Category = "other"
)

// Evidence anchors a candidate back to its source text.
type Evidence struct {
	File         string `json:"file,omitempty"`
	Page         int    `json:"page"`
	Quote        string `json:"quote"`
	LocationHint string `json:"location_hint,omitempty"`
}

// Candidate is the pipeline's primary output unit: a text segment
// heuristically identified as a committed or planned business decision.
type Candidate struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Strength   Strength   `json:"strength"`
	Category   Category   `json:"category"`
	Decision   string     `json:"decision"`
	Evidence   Evidence   `json:"evidence"`
	Tags       []string   `json:"tags,omitempty"`
	Score      int        `json:"score"`
	Duplicates []Evidence `json:"duplicates,omitempty"`
}

// Stage identifies a pipeline phase for progress notifications.
type Stage string

const (
	StageParsing  Stage = "parsing"
	StageScanning Stage = "scanning"
	StageChunking Stage = "chunking"
)

// ProgressFunc receives advisory stage notifications during a run.
// It is called from the goroutine executing Run; implementations must be fast.
type ProgressFunc func(stage Stage, source string)

// RunStats counts what happened during one extraction run.
type RunStats struct {
	Sources        int `json:"sources"`
	PagesSeen      int `json:"pages_seen"`
	PagesDropped   int `json:"pages_dropped"`
	SegmentsScored int `json:"segments_scored"`
	RawCandidates  int `json:"raw_candidates"`
	Merged         int `json:"merged"`
}

// Result is the outcome of one extraction run. An empty candidate list with
// warnings is a legitimate answer, not a failure.
type Result struct {
	Candidates []Candidate `json:"candidates"`
	Warnings   []string    `json:"warnings,omitempty"`
	Stats      RunStats    `json:"stats"`
}
