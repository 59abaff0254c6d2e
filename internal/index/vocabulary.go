package index

// TermID is the dense id of a term in the vocabulary, in first-seen order
// over the single indexing pass.
type TermID uint32

// TermEntry pairs a term with its postings list.
type TermEntry struct {
	Term     string
	Postings PostingList
}

// Vocabulary maps each distinct normalized term to its id and postings
// list. It is filled by a single writer during a build and immutable
// afterwards, until the next full rebuild.
type Vocabulary struct {
	ids      map[string]TermID
	entries  []TermEntry
	docCount uint32
}

// NewVocabulary returns an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[string]TermID)}
}

// commit appends one document's term counts. Callers must commit documents
// in ascending DocID order; each postings list then stays sorted without a
// final sort pass. A nil counts map commits a document that contributes no
// terms but still occupies its doc id.
func (v *Vocabulary) commit(docID DocID, counts map[string]uint32) {
	for term, freq := range counts {
		id, ok := v.ids[term]
		if !ok {
			id = TermID(len(v.entries))
			v.ids[term] = id
			v.entries = append(v.entries, TermEntry{Term: term})
		}
		v.entries[id].Postings = append(v.entries[id].Postings, Posting{
			DocID:     docID,
			Frequency: freq,
		})
	}
	v.docCount++
}

// TermID returns the id assigned to term.
func (v *Vocabulary) TermID(term string) (TermID, bool) {
	id, ok := v.ids[term]
	return id, ok
}

// Postings returns term's postings list, or nil for an unknown term. The
// error return exists to satisfy the query engine's postings source
// interface; it is always nil for an in-memory vocabulary.
func (v *Vocabulary) Postings(term string) (PostingList, error) {
	id, ok := v.ids[term]
	if !ok {
		return nil, nil
	}
	return v.entries[id].Postings, nil
}

// Entries returns all term entries in TermID order.
func (v *Vocabulary) Entries() []TermEntry {
	return v.entries
}

// NumTerms returns the number of distinct terms.
func (v *Vocabulary) NumTerms() int {
	return len(v.entries)
}

// DocCount returns the number of documents committed to the vocabulary,
// including documents that contributed no terms. It equals the highest
// assigned doc id when ids are dense from 1, which makes it the universe
// for NOT-query complements.
func (v *Vocabulary) DocCount() uint32 {
	return v.docCount
}
