package objectparser

import (
	"fmt"

	"github.com/joaomdsc/pdflayer/internal/objectparser/xrefindex"
)

// ObjKind discriminates the tagged-variant PdfObject type described in
// §4 of the specification this package implements.
type ObjKind int

const (
	ObjNull ObjKind = iota
	ObjBoolean
	ObjInteger
	ObjReal
	ObjString
	ObjName
	ObjArray
	ObjDictionary
	ObjStream
	ObjIndirectDef
	ObjIndirectRef
	ObjVersionMarker
	ObjEofMarker
	ObjStartXref
	ObjXrefSection
	ObjTrailer
	ObjEof
	ObjError
)

var objKindNames = map[ObjKind]string{
	ObjNull:          "Null",
	ObjBoolean:       "Boolean",
	ObjInteger:       "Integer",
	ObjReal:          "Real",
	ObjString:        "String",
	ObjName:          "Name",
	ObjArray:         "Array",
	ObjDictionary:    "Dictionary",
	ObjStream:        "Stream",
	ObjIndirectDef:   "IndirectDef",
	ObjIndirectRef:   "IndirectRef",
	ObjVersionMarker: "VersionMarker",
	ObjEofMarker:     "EofMarker",
	ObjStartXref:     "StartXref",
	ObjXrefSection:   "XrefSection",
	ObjTrailer:       "Trailer",
	ObjEof:           "Eof",
	ObjError:         "Error",
}

func (k ObjKind) String() string {
	if s, ok := objKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ObjKind(%d)", int(k))
}

// PdfObject is the tagged-variant value produced by Parser.NextObject.
// Only the fields relevant to Kind are populated.
type PdfObject struct {
	Kind ObjKind

	Bool  bool    // Boolean
	Int   int64   // Integer; ObjNum for IndirectDef/IndirectRef
	Real  float64 // Real
	Bytes []byte  // String payload (literal or hex, already decoded)
	Name  string  // Name value

	Array []PdfObject // Array elements
	Dict  *Dictionary // Dictionary, or Stream's dictionary, or Trailer's dictionary

	StreamData []byte // Stream body, already read per /Length

	ObjNum int64 // IndirectDef/IndirectRef object number
	Gen    int64 // IndirectDef/IndirectRef generation number
	Inner  *PdfObject // IndirectDef's wrapped object

	VersionMajor int64 // VersionMarker
	VersionMinor int64 // VersionMarker

	XrefIndex *xrefindex.Index // XrefSection

	Msg string // Error message
}

// Dictionary is a name-keyed mapping with unique keys; a duplicate Set
// overwrites the previous value while keeping the key's original
// position, matching "last write wins" for repeated dictionary keys.
type Dictionary struct {
	order  []string
	values map[string]PdfObject
}

// NewDictionary returns an empty Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{values: map[string]PdfObject{}}
}

// Set inserts or overwrites key's value.
func (d *Dictionary) Set(key string, val PdfObject) {
	if _, exists := d.values[key]; !exists {
		d.order = append(d.order, key)
	}
	d.values[key] = val
}

// Get returns key's value and whether it is present.
func (d *Dictionary) Get(key string) (PdfObject, bool) {
	v, ok := d.values[key]
	return v, ok
}

// GetInteger is a convenience accessor for integer-valued keys such as
// /Length and /Size.
func (d *Dictionary) GetInteger(key string) (int64, bool) {
	v, ok := d.Get(key)
	if !ok || v.Kind != ObjInteger {
		return 0, false
	}
	return v.Int, true
}

// Keys returns the dictionary's keys in insertion order.
func (d *Dictionary) Keys() []string {
	return d.order
}

// Len returns the number of keys in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.order)
}
