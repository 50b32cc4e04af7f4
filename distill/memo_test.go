package distill

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemoFromHTML_SanitizesAndConverts(t *testing.T) {
	// WHAT: Rich-text memos are sanitized (scripts stripped) and converted to
	// markdown with the prose intact.
	// WHY: Memos arrive pasted from mail clients; markup must not reach the
	// scorer, and active content must not reach anything.
	html := `<h1>Expansion plan</h1>` +
		`<p>We will open the Berlin factory in <b>Q2 2026</b>.</p>` +
		`<script>alert("x")</script>`

	md, err := MemoFromHTML(html)
	if err != nil {
		t.Fatalf("MemoFromHTML: %v", err)
	}
	if !strings.Contains(md, "We will open the Berlin factory") {
		t.Errorf("prose lost: %q", md)
	}
	if !strings.Contains(md, "Q2 2026") {
		t.Errorf("time anchor lost: %q", md)
	}
	if strings.Contains(md, "alert") || strings.Contains(md, "<script") {
		t.Errorf("active content survived: %q", md)
	}
	if strings.Contains(md, "<p>") {
		t.Errorf("markup survived: %q", md)
	}
}

func TestMemoFromHTML_EmptyInput(t *testing.T) {
	// WHAT: Empty or whitespace-only memos are rejected as invalid input.
	// WHY: An empty memo is a caller bug, not a data-quality condition.
	for _, in := range []string{"", "   \n\t"} {
		if _, err := MemoFromHTML(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("MemoFromHTML(%q): err = %v", in, err)
		}
	}
}

func TestMemoFromHTML_FeedsDistillText(t *testing.T) {
	// WHAT: The converted memo runs through the standard pipeline and yields
	// the commitment it contains.
	// WHY: HTML conversion and extraction are exercised as one path in the
	// serving layer.
	html := `<p>Following the review, management intends to expand the production facility by mid 2027.</p>`
	md, err := MemoFromHTML(html)
	if err != nil {
		t.Fatalf("MemoFromHTML: %v", err)
	}

	d := New(Config{})
	res, err := d.DistillText(context.Background(), "pasted-memo", md)
	if err != nil {
		t.Fatalf("DistillText: %v", err)
	}
	if len(res.Candidates) != 1 {
		t.Fatalf("candidates = %d: %+v", len(res.Candidates), res.Candidates)
	}
	if res.Candidates[0].Evidence.File != "pasted-memo" {
		t.Errorf("evidence: %+v", res.Candidates[0].Evidence)
	}
}
