// CLAUDE:SUMMARY Pipeline orchestrator: clean → chunk → segment → score → build → dedup over sources.
// Package distill extracts decision candidates from business document text.
//
// The pipeline is a deterministic, rule-based filter: it cleans raw page
// text (running headers, table rows, disclaimer boilerplate), segments it
// into sentences, scores each segment for commitment verbs, time anchors and
// action nouns, builds evidence-anchored candidates, and collapses near
// duplicates via token-set similarity. There is no trained model and no
// claim of semantic understanding; the output is a ranked shortlist for a
// human reviewer.
//
// Usage:
//
//	d := distill.New(distill.Config{})
//	res, err := d.Run(ctx, sources, nil)
//	for _, c := range res.Candidates { ... }
package distill

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// Distiller is the extraction engine. Safe for concurrent use: each Run
// operates on its own input and accumulators, and the compiled lexicon is
// read-only.
type Distiller struct {
	cfg    Config
	lex    *lexicon
	logger *slog.Logger
}

// New creates a Distiller with the given configuration.
func New(cfg Config) *Distiller {
	cfg.defaults()
	return &Distiller{
		cfg:    cfg,
		lex:    compileLexicon(cfg.Lexicon),
		logger: cfg.Logger,
	}
}

// Run drives the full pipeline over the given sources. progress may be nil.
//
// Data-quality conditions (empty pages, all-table documents) degrade to
// warnings on the Result, never errors. The only errors returned are input
// contract violations and context cancellation; on cancellation the partial
// result accumulated so far is returned alongside ctx.Err().
func (d *Distiller) Run(ctx context.Context, sources []Source, progress ProgressFunc) (*Result, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no sources", ErrInvalidInput)
	}
	for _, src := range sources {
		for _, p := range src.Pages {
			if p.Page < 1 {
				return nil, fmt.Errorf("%w: page number %d in %q", ErrInvalidInput, p.Page, src.Name)
			}
		}
	}

	res := &Result{Stats: RunStats{Sources: len(sources)}}
	var all []Candidate

	for _, src := range sources {
		// Early termination is supported between documents, not mid-document.
		if err := ctx.Err(); err != nil {
			res.Warnings = append(res.Warnings, "extraction cancelled before processing all sources")
			res.Candidates = rank(all, d.cfg.MaxCandidates)
			return res, err
		}
		cands := d.distillSource(src, progress, &res.Stats)
		if len(cands) == 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("no decision language detected in %q", src.Name))
		}
		all = append(all, cands...)
	}

	res.Stats.RawCandidates = len(all)
	deduped := d.dedupe(all)
	res.Stats.Merged = len(all) - len(deduped)
	res.Candidates = rank(deduped, d.cfg.MaxCandidates)

	if res.Stats.PagesSeen == 0 || len(res.Candidates) == 0 && res.Stats.SegmentsScored == 0 {
		res.Warnings = append(res.Warnings,
			"No readable text found in the provided sources. If these are scanned documents, run OCR first.")
	}
	if res.Candidates == nil {
		res.Candidates = []Candidate{}
	}
	return res, nil
}

// DistillText runs the pipeline over a single free-text memo. The memo is
// treated as a one-page source named after the given label.
func (d *Distiller) DistillText(ctx context.Context, label, text string) (*Result, error) {
	return d.Run(ctx, []Source{{
		Name:  label,
		Pages: []PageText{{Page: 1, Text: text}},
	}}, nil)
}

// distillSource processes one document: clean, chunk, segment, score, build.
// Candidates per page are capped at PerPageLimit by score.
func (d *Distiller) distillSource(src Source, progress ProgressFunc, stats *RunStats) []Candidate {
	notify := func(stage Stage) {
		if progress != nil {
			progress(stage, src.Name)
		}
	}

	notify(StageParsing)
	freq := frequentLines(src.Pages)
	var cleaned []cleanedPage
	for _, pt := range src.Pages {
		stats.PagesSeen++
		cp := d.cleanPage(src.Name, pt, freq)
		if len(cp.Lines) == 0 {
			// Low-signal page (all table/boilerplate): counted, not an error.
			stats.PagesDropped++
			d.logger.Debug("dropping low-signal page", "file", src.Name, "page", pt.Page)
			continue
		}
		cleaned = append(cleaned, cp)
	}
	if len(cleaned) == 0 {
		return nil
	}

	notify(StageScanning)
	perPage := make(map[int][]scoredSegment)
	for _, chunk := range chunkSource(src.Name, cleaned, d.cfg.MaxChunkChars) {
		d.logger.Debug("scanning chunk",
			"file", chunk.FileName, "page_start", chunk.PageStart, "page_end", chunk.PageEnd)
		for _, cp := range chunk.Pages {
			for _, seg := range d.segmentPage(cp) {
				ss := d.scoreSegment(seg)
				stats.SegmentsScored++
				if d.qualifies(ss) {
					perPage[cp.Page] = append(perPage[cp.Page], ss)
				}
			}
		}
	}

	notify(StageChunking)
	var cands []Candidate
	pages := make([]int, 0, len(perPage))
	for page := range perPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	for _, page := range pages {
		segs := perPage[page]
		// Keep the page's strongest segments, preserving document order
		// among equals.
		sort.SliceStable(segs, func(i, j int) bool { return segs[i].Score > segs[j].Score })
		if len(segs) > d.cfg.PerPageLimit {
			segs = segs[:d.cfg.PerPageLimit]
		}
		for _, ss := range segs {
			cands = append(cands, d.buildCandidate(ss))
		}
	}
	return cands
}
