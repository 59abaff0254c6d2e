// Package engine wires the collection catalog, the build pipeline, the
// index store, and the query evaluator into the operations the CLI and
// the HTTP server expose.
package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/searchine/searchine/internal/analyzer"
	"github.com/searchine/searchine/internal/codec"
	"github.com/searchine/searchine/internal/collection"
	"github.com/searchine/searchine/internal/document"
	"github.com/searchine/searchine/internal/index"
	"github.com/searchine/searchine/internal/store"
	"github.com/searchine/searchine/pkg/config"
	"github.com/searchine/searchine/pkg/errors"
	"github.com/searchine/searchine/pkg/metrics"
)

// Engine runs index builds and searches for one repository root.
type Engine struct {
	cfg      *config.Config
	analyzer *analyzer.Analyzer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// New returns an engine. m may be nil when metrics are disabled.
func New(cfg *config.Config, m *metrics.Metrics) *Engine {
	return &Engine{
		cfg:      cfg,
		analyzer: analyzer.New(),
		metrics:  m,
		logger:   slog.Default().With("component", "engine"),
	}
}

// RepoDir returns the repository directory for root.
func (e *Engine) RepoDir(root string) string {
	return filepath.Join(root, e.cfg.Repo.DirName)
}

func (e *Engine) indexPath(root string) string {
	return filepath.Join(e.RepoDir(root), e.cfg.Repo.IndexFile)
}

func (e *Engine) catalogPath(root string) string {
	return filepath.Join(e.RepoDir(root), e.cfg.Repo.CatalogFile)
}

// Init creates the repository directory under root.
func (e *Engine) Init(root string) error {
	dir := e.RepoDir(root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating repository directory %s: %w", dir, err)
	}
	e.logger.Info("repository initialised", "dir", dir)
	return nil
}

// checkRepo verifies the repository directory exists.
func (e *Engine) checkRepo(root string) error {
	if _, err := os.Stat(e.RepoDir(root)); err != nil {
		return errors.Wrap(errors.ErrRepoNotFound,
			"%s does not exist, run init first", e.RepoDir(root))
	}
	return nil
}

// Build rebuilds the catalog and the inverted index for root, replacing
// both wholesale. Per-document failures are reported, not fatal.
func (e *Engine) Build(ctx context.Context, root string) (*index.Report, error) {
	if err := e.checkRepo(root); err != nil {
		return nil, err
	}
	kind, err := codec.ParseKind(e.cfg.Indexer.Codec)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	catalog, err := collection.Open(e.catalogPath(root))
	if err != nil {
		return nil, err
	}
	defer catalog.Close()

	entries, err := catalog.Rebuild(root)
	if err != nil {
		return nil, err
	}

	docs := make(chan index.Document)
	go func() {
		defer close(docs)
		for _, entry := range entries {
			text, err := document.Load(filepath.Join(root, entry.Path))
			doc := index.Document{
				ID:   entry.DocID,
				Path: entry.Path,
				Text: text,
				Err:  err,
			}
			select {
			case docs <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	builder := index.NewBuilder(e.analyzer, index.Options{
		Workers:    e.cfg.Indexer.Workers,
		QueueSize:  e.cfg.Indexer.QueueSize,
		FirstDocID: 1,
	})
	vocab, report, err := builder.Build(ctx, docs)
	if err != nil {
		return nil, err
	}

	if err := store.Save(e.indexPath(root), vocab, kind); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	if e.metrics != nil {
		e.metrics.DocsIndexedTotal.Add(float64(report.DocsIndexed))
		e.metrics.DocsSkippedTotal.Add(float64(len(report.Failures)))
		e.metrics.BuildDuration.Observe(elapsed.Seconds())
		e.metrics.IndexTermCount.Set(float64(vocab.NumTerms()))
		e.metrics.IndexDocCount.Set(float64(vocab.DocCount()))
	}
	e.logger.Info("index built",
		"docs", report.DocsIndexed,
		"skipped", len(report.Failures),
		"terms", vocab.NumTerms(),
		"codec", kind.String(),
		"elapsed", elapsed,
	)
	return report, nil
}

// Status describes the state of a repository.
type Status struct {
	IndexExists bool
	DocCount    uint32
	TermCount   int
	Codec       string
	Stale       *collection.StaleReport
}

// Status reports whether an index exists and whether the directory has
// drifted since it was built.
func (e *Engine) Status(root string) (*Status, error) {
	if err := e.checkRepo(root); err != nil {
		return nil, err
	}
	st := &Status{}

	ix, err := store.Open(e.indexPath(root))
	switch {
	case err == nil:
		st.IndexExists = true
		st.DocCount = ix.DocCount()
		st.TermCount = ix.NumTerms()
		st.Codec = ix.Codec().String()
		ix.Close()
	case !stderrors.Is(err, errors.ErrIndexNotFound):
		return nil, err
	}

	catalog, err := collection.Open(e.catalogPath(root))
	if err != nil {
		return nil, err
	}
	defer catalog.Close()
	st.Stale, err = catalog.Compare(root)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListDocuments returns the catalog entries in doc id order.
func (e *Engine) ListDocuments(root string) ([]collection.Entry, error) {
	if err := e.checkRepo(root); err != nil {
		return nil, err
	}
	catalog, err := collection.Open(e.catalogPath(root))
	if err != nil {
		return nil, err
	}
	defer catalog.Close()
	return catalog.Entries()
}
