// Package index holds the in-memory inverted index: postings, the
// vocabulary, and the concurrent build pipeline that fills it.
package index

// DocID identifies a document. IDs are dense and assigned by the
// collection catalog at indexing time; the core never derives its own.
type DocID uint32

// Posting records that a term occurs Frequency times in one document.
type Posting struct {
	DocID     DocID
	Frequency uint32
}

// PostingList is a term's postings, sorted ascending by DocID with no
// duplicate documents. The ordering is what makes gap encoding and the
// merge-walk set operations work.
type PostingList []Posting

// DocIDs returns just the document ids of the list, in order.
func (pl PostingList) DocIDs() []DocID {
	ids := make([]DocID, len(pl))
	for i, p := range pl {
		ids[i] = p.DocID
	}
	return ids
}
