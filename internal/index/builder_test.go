package index

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/searchine/searchine/internal/analyzer"
	pkgerrors "github.com/searchine/searchine/pkg/errors"
)

func buildFrom(t *testing.T, docs []Document, opts Options) (*Vocabulary, *Report) {
	t.Helper()
	ch := make(chan Document)
	go func() {
		defer close(ch)
		for _, doc := range docs {
			ch <- doc
		}
	}()
	builder := NewBuilder(analyzer.New(), opts)
	vocab, report, err := builder.Build(context.Background(), ch)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return vocab, report
}

// TestBuildPostings covers the end-to-end scenario: "running runs" and
// "run fast" produce term "run" with postings [(1,2),(2,1)].
func TestBuildPostings(t *testing.T) {
	vocab, report := buildFrom(t, []Document{
		{ID: 1, Path: "a.txt", Text: "running runs"},
		{ID: 2, Path: "b.txt", Text: "run fast"},
	}, Options{Workers: 2})

	if report.DocsIndexed != 2 {
		t.Fatalf("DocsIndexed = %d, want 2", report.DocsIndexed)
	}
	if vocab.DocCount() != 2 {
		t.Fatalf("DocCount = %d, want 2", vocab.DocCount())
	}

	pl, err := vocab.Postings("run")
	if err != nil {
		t.Fatalf("Postings: %v", err)
	}
	want := PostingList{{DocID: 1, Frequency: 2}, {DocID: 2, Frequency: 1}}
	if len(pl) != len(want) {
		t.Fatalf("postings = %v, want %v", pl, want)
	}
	for i := range want {
		if pl[i] != want[i] {
			t.Fatalf("postings = %v, want %v", pl, want)
		}
	}

	fast, _ := vocab.Postings("fast")
	if len(fast) != 1 || fast[0].DocID != 2 || fast[0].Frequency != 1 {
		t.Fatalf(`postings for "fast" = %v`, fast)
	}
}

// TestBuildPostingsSorted checks the ordering invariant under real
// concurrency: with many workers racing, every postings list must still
// come out strictly increasing by doc id.
func TestBuildPostingsSorted(t *testing.T) {
	const numDocs = 500
	docs := make([]Document, numDocs)
	for i := range docs {
		// Every document shares "common"; half also carry "odd".
		text := "common term"
		if i%2 == 1 {
			text += " odd"
		}
		docs[i] = Document{ID: DocID(i + 1), Path: fmt.Sprintf("%d.txt", i), Text: text}
	}
	vocab, report := buildFrom(t, docs, Options{Workers: 8, QueueSize: 4})

	if report.DocsIndexed != numDocs {
		t.Fatalf("DocsIndexed = %d, want %d", report.DocsIndexed, numDocs)
	}
	for _, entry := range vocab.Entries() {
		for i := 1; i < len(entry.Postings); i++ {
			if entry.Postings[i].DocID <= entry.Postings[i-1].DocID {
				t.Fatalf("postings for %q not strictly increasing at %d: %v",
					entry.Term, i, entry.Postings[i-1:i+1])
			}
		}
	}
	common, _ := vocab.Postings("common")
	if len(common) != numDocs {
		t.Fatalf(`postings for "common" has %d entries, want %d`, len(common), numDocs)
	}
	odd, _ := vocab.Postings("odd")
	if len(odd) != numDocs/2 {
		t.Fatalf(`postings for "odd" has %d entries, want %d`, len(odd), numDocs/2)
	}
}

// TestBuildSkipsBadDocument checks build resilience: one undecodable
// document is reported and skipped while the rest are indexed.
func TestBuildSkipsBadDocument(t *testing.T) {
	vocab, report := buildFrom(t, []Document{
		{ID: 1, Path: "ok1.txt", Text: "alpha"},
		{ID: 2, Path: "bad.txt", Err: pkgerrors.Wrap(pkgerrors.ErrDocumentDecode, "bad.txt is not valid UTF-8")},
		{ID: 3, Path: "ok2.txt", Text: "alpha beta"},
	}, Options{Workers: 3})

	if report.DocsIndexed != 2 {
		t.Fatalf("DocsIndexed = %d, want 2", report.DocsIndexed)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("Failures = %v, want one entry", report.Failures)
	}
	failure := report.Failures[0]
	if failure.DocID != 2 || failure.Path != "bad.txt" {
		t.Fatalf("failure = %+v", failure)
	}
	if !errors.Is(failure.Err, pkgerrors.ErrDocumentDecode) {
		t.Fatalf("failure err = %v, want ErrDocumentDecode", failure.Err)
	}

	alpha, _ := vocab.Postings("alpha")
	if len(alpha) != 2 || alpha[0].DocID != 1 || alpha[1].DocID != 3 {
		t.Fatalf(`postings for "alpha" = %v`, alpha)
	}

	// The skipped document keeps its slot in the document universe; a
	// DocCount of 2 would make doc id 3 fall outside NOT-query complements.
	if vocab.DocCount() != 3 {
		t.Fatalf("DocCount = %d, want 3", vocab.DocCount())
	}
}

// TestBuildCancelled checks that a cancelled context stops the pipeline
// with the context's error.
func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan Document, 1)
	ch <- Document{ID: 1, Path: "a.txt", Text: "alpha"}
	close(ch)

	builder := NewBuilder(analyzer.New(), Options{Workers: 1, QueueSize: 1})
	_, _, err := builder.Build(ctx, ch)
	if err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled or nil", err)
	}
}

// TestVocabularyTermIDsFirstSeenOrder checks dense term id assignment in
// first-seen order over the indexing pass.
func TestVocabularyTermIDsFirstSeenOrder(t *testing.T) {
	vocab := NewVocabulary()
	vocab.commit(1, map[string]uint32{"alpha": 1})
	vocab.commit(2, map[string]uint32{"beta": 2})
	vocab.commit(3, map[string]uint32{"alpha": 1})

	alphaID, ok := vocab.TermID("alpha")
	if !ok || alphaID != 0 {
		t.Fatalf("TermID(alpha) = %d, %v", alphaID, ok)
	}
	betaID, ok := vocab.TermID("beta")
	if !ok || betaID != 1 {
		t.Fatalf("TermID(beta) = %d, %v", betaID, ok)
	}
	if _, ok := vocab.TermID("gamma"); ok {
		t.Fatal("TermID returned ok for an unseen term")
	}
	if vocab.NumTerms() != 2 {
		t.Fatalf("NumTerms = %d, want 2", vocab.NumTerms())
	}
}

// TestVocabularyUnknownTerm checks that unknown terms yield an empty
// postings list and no error.
func TestVocabularyUnknownTerm(t *testing.T) {
	vocab := NewVocabulary()
	pl, err := vocab.Postings("missing")
	if err != nil {
		t.Fatalf("Postings: %v", err)
	}
	if pl != nil {
		t.Fatalf("Postings = %v, want nil", pl)
	}
}
