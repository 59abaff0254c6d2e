// Package store persists the inverted index. The file layout is a fixed
// binary header, the concatenated encoded postings blobs in term id order,
// a JSON term directory, and a checksummed footer:
//
//	header {magic, version, codec selector, doc count, term count, dir offset}
//	postings blob (per-term doc-id gaps and frequencies, one global codec)
//	directory [{term, offset, length, postings count}, ...]
//	footer {crc32(directory), directory size}
//
// A build writes to a temporary file and renames it into place, so readers
// only ever observe complete snapshots.
package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/searchine/searchine/internal/codec"
	"github.com/searchine/searchine/internal/index"
)

const (
	MagicBytes    uint32 = 0x53524348 // "SRCH"
	FormatVersion uint32 = 1
	HeaderSize    int    = 32
	FooterSize    int    = 16
)

type dirEntry struct {
	Term       string `json:"t"`
	PostOffset int64  `json:"o"`
	PostLen    int    `json:"l"`
	Count      int    `json:"n"`
}

// Save atomically writes the vocabulary to path, encoding every postings
// list with the given codec. It writes to a .tmp file first and renames on
// success.
func Save(path string, vocab *index.Vocabulary, kind codec.Kind) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	defer f.Close()

	header := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(header[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(header[8:12], uint32(kind))
	binary.LittleEndian.PutUint32(header[12:16], vocab.DocCount())
	binary.LittleEndian.PutUint32(header[16:20], uint32(vocab.NumTerms()))
	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	entries := vocab.Entries()
	dir := make([]dirEntry, 0, len(entries))
	var blobOffset int64
	for _, entry := range entries {
		encoded := codec.EncodeAll(kind, gapsAndFreqs(entry.Postings))
		if _, err := f.Write(encoded); err != nil {
			return fmt.Errorf("writing postings for term %q: %w", entry.Term, err)
		}
		dir = append(dir, dirEntry{
			Term:       entry.Term,
			PostOffset: blobOffset,
			PostLen:    len(encoded),
			Count:      len(entry.Postings),
		})
		blobOffset += int64(len(encoded))
	}

	dirData, err := json.Marshal(dir)
	if err != nil {
		return fmt.Errorf("marshaling term directory: %w", err)
	}
	if _, err := f.Write(dirData); err != nil {
		return fmt.Errorf("writing term directory: %w", err)
	}

	footer := make([]byte, FooterSize)
	binary.LittleEndian.PutUint32(footer[0:4], crc32.ChecksumIEEE(dirData))
	binary.LittleEndian.PutUint64(footer[8:16], uint64(len(dirData)))
	if _, err := f.Write(footer); err != nil {
		return fmt.Errorf("writing footer: %w", err)
	}

	dirOffset := int64(HeaderSize) + blobOffset
	binary.LittleEndian.PutUint64(header[20:28], uint64(dirOffset))
	if _, err := f.WriteAt(header, 0); err != nil {
		return fmt.Errorf("updating header: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing index file: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming index file: %w", err)
	}
	return nil
}

// gapsAndFreqs flattens a postings list into the interleaved value stream
// that gets encoded: doc-id gap (first taken against 0), then frequency,
// per posting.
func gapsAndFreqs(pl index.PostingList) []uint32 {
	vals := make([]uint32, 0, 2*len(pl))
	var prev index.DocID
	for _, p := range pl {
		vals = append(vals, uint32(p.DocID-prev), p.Frequency)
		prev = p.DocID
	}
	return vals
}
