// Package xrefindex implements the XrefIndex data structure: an ordered,
// unsorted collection of subsections, each covering a contiguous
// object-number range, queried by first-match range containment.
//
// Reference: grounded on the source's XrefSection/XrefSubSection classes
// in object_stream.py rather than on the teacher's flat
// map[int]*XRefEntry — a flat map can't preserve per-subsection entry
// counts or insertion order the way the specification requires.
package xrefindex

// EntryType discriminates what an xref entry's Field1/Generation/Field3
// mean.
type EntryType int

const (
	// EntryFree: Field1 is the next free object number, Generation the
	// generation number to use if the slot is reused.
	EntryFree EntryType = iota
	// EntryInUse: Field1 is the absolute file offset of the object
	// definition, Generation its generation number.
	EntryInUse
	// EntryCompressed: Field1 is the object number of the containing
	// object stream, Field3 the index of the object within it. Only
	// produced by cross-reference-stream parsing (type 2 records).
	EntryCompressed
)

// Entry is one row of an XrefSubsection.
type Entry struct {
	Type       EntryType
	Field1     int64
	Generation int
	Field3     int64
}

// Subsection is a contiguous object-number range within one xref
// section.
type Subsection struct {
	FirstObjNum int64
	Count       int64
	Entries     []Entry
}

// Index is the ordered collection of subsections. Insertion order is
// preserved; it is never sorted.
type Index struct {
	subsections []Subsection
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{}
}

// AddSubsection appends a subsection in insertion order.
func (idx *Index) AddSubsection(s Subsection) {
	idx.subsections = append(idx.subsections, s)
}

// Subsections returns the subsections in insertion order. The slice must
// not be mutated by callers.
func (idx *Index) Subsections() []Subsection {
	return idx.subsections
}

// Lookup scans subsections in insertion order and returns the entry from
// the first subsection whose range contains objNum.
func (idx *Index) Lookup(objNum int64) (Entry, bool) {
	for _, s := range idx.subsections {
		rel := objNum - s.FirstObjNum
		if rel >= 0 && rel < int64(len(s.Entries)) {
			return s.Entries[rel], true
		}
	}
	return Entry{}, false
}
