package index

import (
	"context"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/searchine/searchine/internal/analyzer"
)

// Document is one unit of work for the build pipeline. The loader sets Err
// when the document's text could not be decoded; the pipeline then skips
// the document without losing its slot in the commit order.
type Document struct {
	ID   DocID
	Path string
	Text string
	Err  error
}

// Options tunes the build pipeline.
type Options struct {
	// Workers is the number of parallel analyzer tasks. Defaults to
	// GOMAXPROCS.
	Workers int
	// QueueSize bounds the batch hand-off channel. Producers block once it
	// is full, which backpressures fast analyzers against the single
	// writer.
	QueueSize int
	// FirstDocID is the lowest id in the document stream. The stream must
	// carry dense ids starting here; the catalog assigns from 1.
	FirstDocID DocID
}

// DocumentFailure records one skipped document in the build report.
type DocumentFailure struct {
	DocID DocID
	Path  string
	Err   error
}

// Report aggregates the outcome of a build. Per-document failures are
// collected here instead of aborting the run.
type Report struct {
	DocsIndexed int
	TotalTerms  int
	Failures    []DocumentFailure
}

// Builder runs the concurrent indexing pipeline: worker tasks normalize
// documents in parallel and a single writer owns the vocabulary.
type Builder struct {
	analyzer *analyzer.Analyzer
	opts     Options
	logger   *slog.Logger
}

// NewBuilder returns a builder using the given analyzer.
func NewBuilder(an *analyzer.Analyzer, opts Options) *Builder {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.FirstDocID == 0 {
		opts.FirstDocID = 1
	}
	return &Builder{
		analyzer: an,
		opts:     opts,
		logger:   slog.Default().With("component", "builder"),
	}
}

type docBatch struct {
	id     DocID
	path   string
	counts map[string]uint32
	nterms int
	err    error
}

// Build consumes the document stream and returns the filled vocabulary and
// a build report. Batches arriving out of order are buffered and released
// in ascending DocID order, so every postings list ends sorted without a
// final sort pass.
func (b *Builder) Build(ctx context.Context, docs <-chan Document) (*Vocabulary, *Report, error) {
	g, ctx := errgroup.WithContext(ctx)
	batches := make(chan docBatch, b.opts.QueueSize)

	for i := 0; i < b.opts.Workers; i++ {
		g.Go(func() error {
			for doc := range docs {
				batch := docBatch{id: doc.ID, path: doc.Path, err: doc.Err}
				if doc.Err == nil {
					batch.counts, batch.nterms = b.analyzer.Counts(doc.Text)
				}
				select {
				case batches <- batch:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	var workerErr error
	go func() {
		workerErr = g.Wait()
		close(batches)
	}()

	vocab := NewVocabulary()
	report := &Report{}
	pending := make(map[DocID]docBatch)
	next := b.opts.FirstDocID

	commit := func(batch docBatch) {
		if batch.err != nil {
			b.logger.Warn("skipping document",
				"doc_id", batch.id,
				"path", batch.path,
				"error", batch.err,
			)
			report.Failures = append(report.Failures, DocumentFailure{
				DocID: batch.id,
				Path:  batch.path,
				Err:   batch.err,
			})
			// The doc id was assigned before the document failed to load,
			// so it still occupies a slot in the document universe. NOT
			// queries complement over that universe, and shrinking it here
			// would shift every id above this one.
			vocab.commit(batch.id, nil)
			return
		}
		vocab.commit(batch.id, batch.counts)
		report.DocsIndexed++
		report.TotalTerms += batch.nterms
	}

	for batch := range batches {
		pending[batch.id] = batch
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			commit(ready)
			next++
		}
	}
	if workerErr != nil {
		return nil, nil, workerErr
	}

	// Ids were not dense starting at FirstDocID; release what is left in
	// ascending order so the sorted-postings invariant still holds.
	if len(pending) > 0 {
		rest := make([]DocID, 0, len(pending))
		for id := range pending {
			rest = append(rest, id)
		}
		sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
		for _, id := range rest {
			commit(pending[id])
		}
	}

	b.logger.Info("build complete",
		"docs_indexed", report.DocsIndexed,
		"docs_skipped", len(report.Failures),
		"terms", vocab.NumTerms(),
	)
	return vocab, report, nil
}
