package engine

import (
	"log/slog"
	"time"

	"github.com/searchine/searchine/internal/analyzer"
	"github.com/searchine/searchine/internal/collection"
	"github.com/searchine/searchine/internal/index"
	"github.com/searchine/searchine/internal/query"
	"github.com/searchine/searchine/internal/store"
	"github.com/searchine/searchine/pkg/metrics"
)

// Result is one search hit: a doc id and the catalogued path behind it.
type Result struct {
	DocID index.DocID `json:"doc_id"`
	Path  string      `json:"path"`
}

// Searcher answers boolean queries against one loaded index snapshot. The
// snapshot is immutable, so a Searcher is safe for concurrent use.
type Searcher struct {
	ix         *store.Index
	catalog    *collection.Catalog
	analyzer   *analyzer.Analyzer
	maxResults int
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// OpenSearcher loads the index and catalog for root.
func (e *Engine) OpenSearcher(root string) (*Searcher, error) {
	if err := e.checkRepo(root); err != nil {
		return nil, err
	}
	ix, err := store.Open(e.indexPath(root))
	if err != nil {
		return nil, err
	}
	catalog, err := collection.Open(e.catalogPath(root))
	if err != nil {
		ix.Close()
		return nil, err
	}
	return &Searcher{
		ix:         ix,
		catalog:    catalog,
		analyzer:   e.analyzer,
		maxResults: e.cfg.Search.MaxResults,
		metrics:    e.metrics,
		logger:     slog.Default().With("component", "searcher"),
	}, nil
}

// Search parses and evaluates a boolean expression and resolves the
// matching doc ids to paths, in ascending doc id order.
func (s *Searcher) Search(input string) ([]Result, error) {
	start := time.Now()
	expr, err := query.Parse(input, s.analyzer)
	if err != nil {
		s.observe("error", 0, start)
		return nil, err
	}
	ids, err := query.Eval(s.ix, expr)
	if err != nil {
		s.observe("error", 0, start)
		return nil, err
	}
	if s.maxResults > 0 && len(ids) > s.maxResults {
		ids = ids[:s.maxResults]
	}

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		path, ok := s.catalog.Path(id)
		if !ok {
			// Doc ids come from the catalog, so a miss here means the
			// catalog and index are out of step.
			s.logger.Warn("doc id missing from catalog", "doc_id", id)
			continue
		}
		results = append(results, Result{DocID: id, Path: path})
	}

	resultType := "hit"
	if len(results) == 0 {
		resultType = "zero_result"
	}
	s.observe(resultType, len(results), start)
	s.logger.Debug("query evaluated",
		"query", input,
		"expr", expr.String(),
		"results", len(results),
	)
	return results, nil
}

// Documents returns the catalog entries behind the loaded snapshot in doc
// id order. The catalog file is held open (and locked) by the searcher, so
// callers must read through it rather than opening the file again.
func (s *Searcher) Documents() ([]collection.Entry, error) {
	return s.catalog.Entries()
}

// DocCount returns the number of documents in the loaded snapshot.
func (s *Searcher) DocCount() uint32 {
	return s.ix.DocCount()
}

// NumTerms returns the number of distinct terms in the loaded snapshot.
func (s *Searcher) NumTerms() int {
	return s.ix.NumTerms()
}

// Close releases the index file and catalog.
func (s *Searcher) Close() error {
	err := s.ix.Close()
	if cerr := s.catalog.Close(); err == nil {
		err = cerr
	}
	return err
}

func (s *Searcher) observe(resultType string, results int, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	s.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	s.metrics.SearchResultsCount.Observe(float64(results))
}
