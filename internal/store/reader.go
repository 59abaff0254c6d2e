package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/searchine/searchine/internal/codec"
	"github.com/searchine/searchine/internal/index"
	"github.com/searchine/searchine/pkg/errors"
)

// Index is a read-only view over a persisted inverted index. The term
// directory is loaded eagerly; postings lists are decoded on demand, so a
// corrupt single term poisons only queries that touch it.
type Index struct {
	file     *os.File
	kind     codec.Kind
	docCount uint32
	dir      []dirEntry
	byTerm   map[string]int
	postBase int64
}

// Open loads the index at path. A missing file yields ErrIndexNotFound;
// structural violations yield ErrCorruptIndex naming the offending offset.
func Open(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrIndexNotFound,
				"no index at %s, run an index build first", path)
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}

	ix, err := readStructure(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return ix, nil
}

func readStructure(f *os.File) (*Index, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat index file: %w", err)
	}
	if stat.Size() < int64(HeaderSize+FooterSize) {
		return nil, errors.Wrap(errors.ErrCorruptIndex,
			"file is %d bytes, smaller than header+footer", stat.Size())
	}

	header := make([]byte, HeaderSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if magic := binary.LittleEndian.Uint32(header[0:4]); magic != MagicBytes {
		return nil, errors.Wrap(errors.ErrCorruptIndex, "bad magic bytes %#x at offset 0", magic)
	}
	if version := binary.LittleEndian.Uint32(header[4:8]); version != FormatVersion {
		return nil, errors.Wrap(errors.ErrCorruptIndex, "unsupported format version %d", version)
	}
	kind := codec.Kind(binary.LittleEndian.Uint32(header[8:12]))
	if !kind.Valid() {
		return nil, errors.Wrap(errors.ErrCorruptIndex, "unknown codec selector %d at offset 8", uint32(kind))
	}
	docCount := binary.LittleEndian.Uint32(header[12:16])
	termCount := binary.LittleEndian.Uint32(header[16:20])
	dirOffset := int64(binary.LittleEndian.Uint64(header[20:28]))

	footer := make([]byte, FooterSize)
	if _, err := f.ReadAt(footer, stat.Size()-int64(FooterSize)); err != nil {
		return nil, fmt.Errorf("reading footer: %w", err)
	}
	dirSize := int64(binary.LittleEndian.Uint64(footer[8:16]))
	if dirOffset < int64(HeaderSize) || dirOffset+dirSize != stat.Size()-int64(FooterSize) {
		return nil, errors.Wrap(errors.ErrCorruptIndex,
			"directory bounds [%d,%d) disagree with file size %d", dirOffset, dirOffset+dirSize, stat.Size())
	}

	dirData := make([]byte, dirSize)
	if _, err := f.ReadAt(dirData, dirOffset); err != nil {
		return nil, fmt.Errorf("reading term directory: %w", err)
	}
	if sum := crc32.ChecksumIEEE(dirData); sum != binary.LittleEndian.Uint32(footer[0:4]) {
		return nil, errors.Wrap(errors.ErrCorruptIndex,
			"term directory checksum mismatch at offset %d", dirOffset)
	}
	var dir []dirEntry
	if err := json.Unmarshal(dirData, &dir); err != nil {
		return nil, errors.Wrap(errors.ErrCorruptIndex, "unparsable term directory: %v", err)
	}
	if len(dir) != int(termCount) {
		return nil, errors.Wrap(errors.ErrCorruptIndex,
			"directory has %d terms, header says %d", len(dir), termCount)
	}

	byTerm := make(map[string]int, len(dir))
	for i, entry := range dir {
		byTerm[entry.Term] = i
	}
	return &Index{
		file:     f,
		kind:     kind,
		docCount: docCount,
		dir:      dir,
		byTerm:   byTerm,
		postBase: int64(HeaderSize),
	}, nil
}

// Postings decodes and returns term's postings list. An unknown term
// yields (nil, nil), not an error.
func (ix *Index) Postings(term string) (index.PostingList, error) {
	i, ok := ix.byTerm[term]
	if !ok {
		return nil, nil
	}
	entry := ix.dir[i]
	encoded := make([]byte, entry.PostLen)
	if _, err := ix.file.ReadAt(encoded, ix.postBase+entry.PostOffset); err != nil {
		return nil, errors.Wrap(errors.ErrDecode,
			"reading postings for term %q at offset %d: %v", term, ix.postBase+entry.PostOffset, err)
	}
	vals, err := codec.DecodeAll(ix.kind, encoded, 2*entry.Count)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDecode, "term %q: %v", term, err)
	}

	pl := make(index.PostingList, 0, entry.Count)
	var docID index.DocID
	for i := 0; i < entry.Count; i++ {
		docID += index.DocID(vals[2*i])
		pl = append(pl, index.Posting{DocID: docID, Frequency: vals[2*i+1]})
	}
	return pl, nil
}

// HasTerm reports whether term is in the vocabulary.
func (ix *Index) HasTerm(term string) bool {
	_, ok := ix.byTerm[term]
	return ok
}

// DocCount returns the number of documents the index covers.
func (ix *Index) DocCount() uint32 {
	return ix.docCount
}

// NumTerms returns the number of distinct terms.
func (ix *Index) NumTerms() int {
	return len(ix.dir)
}

// Codec returns the codec the postings were encoded with.
func (ix *Index) Codec() codec.Kind {
	return ix.kind
}

// Close releases the underlying file.
func (ix *Index) Close() error {
	return ix.file.Close()
}
