// Package collection maintains the document catalog: the mapping from
// dense, stable document ids to file paths and modification times. The
// catalog is the sole authority on doc ids; the index core consumes them
// read-only.
package collection

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/searchine/searchine/internal/document"
	"github.com/searchine/searchine/internal/index"
)

var (
	bucketDocuments = []byte("documents")
	bucketMeta      = []byte("meta")
	keyCount        = []byte("count")
)

// Entry is one catalog record.
type Entry struct {
	DocID    index.DocID `json:"doc_id"`
	Path     string      `json:"path"`
	Modified time.Time   `json:"modified"`
}

// Catalog is a bbolt-backed document catalog.
type Catalog struct {
	db     *bolt.DB
	logger *slog.Logger
}

// Open opens (or creates) the catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening catalog at %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketDocuments); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising catalog buckets: %w", err)
	}
	return &Catalog{
		db:     db,
		logger: slog.Default().With("component", "catalog"),
	}, nil
}

// Rebuild walks root, assigns dense doc ids from 1 in sorted path order,
// and replaces the stored catalog wholesale. Paths are stored relative
// to root.
func (c *Catalog) Rebuild(root string) ([]Entry, error) {
	paths, mtimes, err := scan(root)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(paths))
	for i, p := range paths {
		entries[i] = Entry{
			DocID:    index.DocID(i + 1),
			Path:     p,
			Modified: mtimes[p],
		}
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketDocuments); err != nil {
			return err
		}
		docs, err := tx.CreateBucket(bucketDocuments)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			value, err := json.Marshal(entry)
			if err != nil {
				return err
			}
			if err := docs.Put(docKey(entry.DocID), value); err != nil {
				return err
			}
		}
		meta := tx.Bucket(bucketMeta)
		count := make([]byte, 4)
		binary.BigEndian.PutUint32(count, uint32(len(entries)))
		return meta.Put(keyCount, count)
	})
	if err != nil {
		return nil, fmt.Errorf("storing catalog: %w", err)
	}
	c.logger.Info("catalog rebuilt", "documents", len(entries), "root", root)
	return entries, nil
}

// Entries returns all catalog records in ascending doc id order.
func (c *Catalog) Entries() ([]Entry, error) {
	var entries []Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("unmarshaling catalog entry %d: %w", binary.BigEndian.Uint32(k), err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Path returns the stored path for a doc id.
func (c *Catalog) Path(id index.DocID) (string, bool) {
	var path string
	var found bool
	c.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketDocuments).Get(docKey(id))
		if value == nil {
			return nil
		}
		var entry Entry
		if err := json.Unmarshal(value, &entry); err != nil {
			return nil
		}
		path = entry.Path
		found = true
		return nil
	})
	return path, found
}

// Count returns the number of catalogued documents.
func (c *Catalog) Count() (uint32, error) {
	var count uint32
	err := c.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketMeta).Get(keyCount)
		if value != nil {
			count = binary.BigEndian.Uint32(value)
		}
		return nil
	})
	return count, err
}

// StaleReport lists differences between the stored catalog and the
// directory as it is now. A full rebuild is the only way to absorb them.
type StaleReport struct {
	Added    []string
	Modified []string
	Removed  []string
}

// Stale reports whether the directory has drifted from the catalog.
func (s *StaleReport) Stale() bool {
	return len(s.Added)+len(s.Modified)+len(s.Removed) > 0
}

// Compare walks root and diffs it against the stored catalog.
func (c *Catalog) Compare(root string) (*StaleReport, error) {
	paths, mtimes, err := scan(root)
	if err != nil {
		return nil, err
	}
	entries, err := c.Entries()
	if err != nil {
		return nil, err
	}

	known := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		known[entry.Path] = entry
	}
	report := &StaleReport{}
	for _, p := range paths {
		entry, ok := known[p]
		if !ok {
			report.Added = append(report.Added, p)
			continue
		}
		if !mtimes[p].Equal(entry.Modified) {
			report.Modified = append(report.Modified, p)
		}
		delete(known, p)
	}
	for p := range known {
		report.Removed = append(report.Removed, p)
	}
	sort.Strings(report.Removed)
	return report, nil
}

// Close releases the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func docKey(id index.DocID) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, uint32(id))
	return k
}

// scan collects loadable files under root in sorted relative-path order.
// Hidden files and directories (including the repository directory) are
// skipped.
func scan(root string) ([]string, map[string]time.Time, error) {
	var paths []string
	mtimes := make(map[string]time.Time)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !document.CanLoad(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		mtimes[rel] = info.ModTime()
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, mtimes, nil
}
