package distill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRun_CommitmentExtractedFromNoisyPage(t *testing.T) {
	// WHAT: A page mixing disclaimer boilerplate, a retrospective result line
	// and a table row yields exactly one candidate: the forward commitment,
	// hard, with evidence anchored to the page.
	// WHY: This is the core contract of the pipeline end to end.
	d := New(Config{})
	src := Source{Name: "update.pdf", Pages: []PageText{{Page: 1, Text: strings.Join([]string{
		"This release contains forward-looking statements within the meaning of securities law.",
		"Revenue grew 12% compared to the prior year.",
		"The new battery line is scheduled to start production by end of 2026.",
		"2024 2025 2026 2027 1,200 1,400",
	}, "\n")}}}

	res, err := d.Run(context.Background(), []Source{src}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("candidates = %d: %+v", len(res.Candidates), res.Candidates)
	}
	c := res.Candidates[0]
	if c.Strength != StrengthHard {
		t.Errorf("strength = %q, want hard", c.Strength)
	}
	if !strings.Contains(c.Decision, "scheduled") {
		t.Errorf("decision text lost: %q", c.Decision)
	}
	if c.Evidence.Page != 1 || c.Evidence.File != "update.pdf" {
		t.Errorf("evidence: %+v", c.Evidence)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
	if res.Stats.PagesSeen != 1 || res.Stats.SegmentsScored == 0 {
		t.Errorf("stats: %+v", res.Stats)
	}
}

func TestRun_CandidateCap(t *testing.T) {
	// WHAT: Thirty distinct single-commitment pages produce exactly
	// MaxCandidates candidates; equal scores break ties by ascending page.
	// WHY: The cap and its deterministic tie-break are the output contract.
	subjects := strings.Fields("Alpha Bravo Charlie Delta Echo Foxtrot Golf Hotel India Juliet " +
		"Kilo Lima Mike November Oscar Papa Quebec Romeo Sierra Tango " +
		"Uniform Victor Whiskey Xray Yankee Zulu Aurora Borealis Cascade Dynamo")
	programs := strings.Fields("Orion Vega Lyra Atlas Titan Nova Pulsar Quasar Comet Meteor " +
		"Nebula Halo Zenith Apex Summit Horizon Beacon Ember Flint Granite " +
		"Harbor Island Juniper Keystone Lantern Meridian Nimbus Onyx Prairie Quartz")

	var pages []PageText
	for i := 0; i < 30; i++ {
		pages = append(pages, PageText{
			Page: i + 1,
			Text: fmt.Sprintf("%s will launch the %s program in 2026.", subjects[i], programs[i]),
		})
	}
	d := New(Config{})
	res, err := d.Run(context.Background(), []Source{{Name: "plans.pdf", Pages: pages}}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Candidates) != 25 {
		t.Fatalf("cap not enforced: %d candidates", len(res.Candidates))
	}
	if res.Stats.RawCandidates != 30 || res.Stats.Merged != 0 {
		t.Errorf("stats: %+v", res.Stats)
	}
	for i, c := range res.Candidates {
		if c.Evidence.Page != i+1 {
			t.Fatalf("tie-break by page violated at %d: page %d", i, c.Evidence.Page)
		}
	}
}

func TestRun_PerPageLimit(t *testing.T) {
	// WHAT: A page with more qualifying segments than PerPageLimit yields only
	// the strongest ones from that page.
	// WHY: One dense page must not crowd out the rest of the document.
	d := New(Config{PerPageLimit: 2})
	src := Source{Name: "dense.pdf", Pages: []PageText{{Page: 3, Text: strings.Join([]string{
		"We will open the Berlin factory in Q2 2026.",
		"The pricing review is scheduled to conclude by end of next quarter.",
		"Hiring will accelerate across the Reno workforce during 2026.",
		"Management intends to expand the production facility by mid 2027.",
	}, "\n")}}}

	res, err := d.Run(context.Background(), []Source{src}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("per-page limit not enforced: %d candidates", len(res.Candidates))
	}
	for _, c := range res.Candidates {
		if c.Evidence.Page != 3 {
			t.Errorf("wrong page: %+v", c.Evidence)
		}
	}
}

func TestRun_InvalidInput(t *testing.T) {
	// WHAT: Nil source lists and out-of-range page numbers are contract
	// violations, not warnings.
	// WHY: These indicate caller bugs; degrading silently would hide them.
	d := New(Config{})

	if _, err := d.Run(context.Background(), nil, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("nil sources: err = %v", err)
	}

	bad := []Source{{Name: "x.pdf", Pages: []PageText{{Page: 0, Text: "text"}}}}
	if _, err := d.Run(context.Background(), bad, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("page 0: err = %v", err)
	}
}

func TestRun_UnreadableSourcesWarn(t *testing.T) {
	// WHAT: Sources with no extractable text degrade to warnings, including
	// the OCR hint, with an empty (non-nil) candidate list.
	// WHY: Scanned PDFs are a routine input; they must not error out.
	d := New(Config{})
	srcs := []Source{{Name: "scan.pdf", Pages: []PageText{
		{Page: 1, Text: ""},
		{Page: 2, Text: "   \n  "},
	}}}

	res, err := d.Run(context.Background(), srcs, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Candidates == nil || len(res.Candidates) != 0 {
		t.Fatalf("candidates: %+v", res.Candidates)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "OCR") {
			found = true
		}
	}
	if !found {
		t.Errorf("no OCR hint in warnings: %v", res.Warnings)
	}
	if res.Stats.PagesDropped != 2 {
		t.Errorf("stats: %+v", res.Stats)
	}
}

func TestRun_NoDecisionLanguageWarns(t *testing.T) {
	// WHAT: A readable source with no qualifying segments produces a per-source
	// warning naming the file.
	// WHY: Silence on an empty result looks like data loss to the caller.
	d := New(Config{})
	srcs := []Source{{Name: "travelogue.pdf", Pages: []PageText{{
		Page: 1,
		Text: "The weather in the region remained unusually pleasant throughout the visit.",
	}}}}

	res, err := d.Run(context.Background(), srcs, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Candidates) != 0 {
		t.Fatalf("unexpected candidates: %+v", res.Candidates)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "travelogue.pdf") {
			found = true
		}
	}
	if !found {
		t.Errorf("no per-source warning: %v", res.Warnings)
	}
}

func TestRun_CancellationReturnsPartialResult(t *testing.T) {
	// WHAT: Cancelling between documents returns the candidates accumulated so
	// far alongside ctx.Err().
	// WHY: Long batch runs need early termination without losing finished work.
	d := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srcs := []Source{
		{Name: "a.pdf", Pages: []PageText{{Page: 1, Text: "We will open the Berlin factory in Q2 2026."}}},
		{Name: "b.pdf", Pages: []PageText{{Page: 1, Text: "We will open the Austin factory in Q3 2027."}}},
	}
	progress := func(stage Stage, name string) {
		if name == "a.pdf" && stage == StageChunking {
			cancel()
		}
	}

	res, err := d.Run(ctx, srcs, progress)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if res == nil || len(res.Candidates) != 1 {
		t.Fatalf("partial result missing: %+v", res)
	}
	if res.Candidates[0].Evidence.File != "a.pdf" {
		t.Errorf("wrong partial candidate: %+v", res.Candidates[0])
	}
}

func TestRun_ProgressStagesInOrder(t *testing.T) {
	// WHAT: Each source reports parsing, scanning, chunking in that order.
	// WHY: UIs drive progress bars off the stage sequence.
	d := New(Config{})
	var got []Stage
	progress := func(stage Stage, name string) { got = append(got, stage) }

	src := Source{Name: "u.pdf", Pages: []PageText{{Page: 1, Text: "We will open the Berlin factory in Q2 2026."}}}
	if _, err := d.Run(context.Background(), []Source{src}, progress); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []Stage{StageParsing, StageScanning, StageChunking}
	if len(got) != len(want) {
		t.Fatalf("stages = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stages = %v, want %v", got, want)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	// WHAT: Two runs over identical input produce identical candidate ids in
	// identical order.
	// WHY: Reviewers diff extraction runs; nondeterminism breaks that.
	d := New(Config{})
	src := Source{Name: "r.pdf", Pages: []PageText{
		{Page: 1, Text: "We will open the Berlin factory in Q2 2026.\nHiring will accelerate across the Reno workforce during 2026."},
		{Page: 2, Text: "Management intends to expand the production facility by mid 2027."},
	}}

	first, err := d.Run(context.Background(), []Source{src}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := d.Run(context.Background(), []Source{src}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(first.Candidates) == 0 || len(first.Candidates) != len(second.Candidates) {
		t.Fatalf("candidate counts: %d vs %d", len(first.Candidates), len(second.Candidates))
	}
	for i := range first.Candidates {
		if first.Candidates[i].ID != second.Candidates[i].ID {
			t.Errorf("candidate %d differs: %s vs %s", i, first.Candidates[i].ID, second.Candidates[i].ID)
		}
	}
}

func TestDistillText_SinglePageMemo(t *testing.T) {
	// WHAT: Free text runs as a one-page source named after the label.
	// WHY: Pasted memos share the pipeline with parsed documents.
	d := New(Config{})
	res, err := d.DistillText(context.Background(), "memo", "We will open the Berlin factory in Q2 2026.")
	if err != nil {
		t.Fatalf("DistillText: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("candidates = %d", len(res.Candidates))
	}
	ev := res.Candidates[0].Evidence
	if ev.File != "memo" || ev.Page != 1 {
		t.Errorf("evidence: %+v", ev)
	}
}
