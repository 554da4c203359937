package tokeniser

import "fmt"

// Kind discriminates the tagged-variant Token type described in §3 of the
// specification this package implements.
type Kind int

const (
	KindVersionMarker Kind = iota
	KindEofMarker
	KindCR
	KindLF
	KindCRLF

	KindInteger
	KindReal
	KindLiteralString
	KindHexString
	KindName

	KindArrayBegin
	KindArrayEnd
	KindDictBegin
	KindDictEnd

	KindTrue
	KindFalse
	KindNull
	KindObjectBegin
	KindObjectEnd
	KindStreamBegin
	KindStreamEnd
	KindObjRef
	KindXrefSection
	KindTrailer
	KindStartXref

	KindSubsectionHeader
	KindSubsectionEntry

	KindEof
	KindError
	KindUnexpected
)

var kindNames = map[Kind]string{
	KindVersionMarker:    "VersionMarker",
	KindEofMarker:        "EofMarker",
	KindCR:               "CR",
	KindLF:               "LF",
	KindCRLF:             "CRLF",
	KindInteger:          "Integer",
	KindReal:             "Real",
	KindLiteralString:    "LiteralString",
	KindHexString:        "HexString",
	KindName:             "Name",
	KindArrayBegin:       "ArrayBegin",
	KindArrayEnd:         "ArrayEnd",
	KindDictBegin:        "DictBegin",
	KindDictEnd:          "DictEnd",
	KindTrue:             "True",
	KindFalse:            "False",
	KindNull:             "Null",
	KindObjectBegin:      "ObjectBegin",
	KindObjectEnd:        "ObjectEnd",
	KindStreamBegin:      "StreamBegin",
	KindStreamEnd:        "StreamEnd",
	KindObjRef:           "ObjRef",
	KindXrefSection:      "XrefSection",
	KindTrailer:          "Trailer",
	KindStartXref:        "StartXref",
	KindSubsectionHeader: "SubsectionHeader",
	KindSubsectionEntry:  "SubsectionEntry",
	KindEof:              "Eof",
	KindError:            "Error",
	KindUnexpected:       "Unexpected",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is the tagged-variant token value produced by the Tokeniser.
// Only the fields relevant to Kind are populated; the zero value of the
// others is meaningless for a given Kind.
type Token struct {
	Kind Kind

	// Int carries: Integer's value, VersionMarker's major component,
	// SubsectionHeader's first object number, SubsectionEntry's field1.
	Int int64
	// Int2 carries: VersionMarker's minor component, SubsectionHeader's
	// entry count, SubsectionEntry's generation.
	Int2 int64
	// Real carries the Real token's value.
	Real float64
	// Bytes carries LiteralString/HexString/Name payloads.
	Bytes []byte
	// InUse carries SubsectionEntry's in-use flag (true = 'n', false = 'f').
	InUse bool
	// Msg carries the message for an Error token.
	Msg string
}

func (t Token) String() string {
	switch t.Kind {
	case KindInteger:
		return fmt.Sprintf("Integer(%d)", t.Int)
	case KindReal:
		return fmt.Sprintf("Real(%g)", t.Real)
	case KindLiteralString:
		return fmt.Sprintf("LiteralString(%q)", t.Bytes)
	case KindHexString:
		return fmt.Sprintf("HexString(%q)", t.Bytes)
	case KindName:
		return fmt.Sprintf("Name(%q)", t.Bytes)
	case KindVersionMarker:
		return fmt.Sprintf("VersionMarker(%d.%d)", t.Int, t.Int2)
	case KindSubsectionHeader:
		return fmt.Sprintf("SubsectionHeader(first=%d, count=%d)", t.Int, t.Int2)
	case KindSubsectionEntry:
		return fmt.Sprintf("SubsectionEntry(field1=%d, gen=%d, inUse=%t)", t.Int, t.Int2, t.InUse)
	case KindError:
		return fmt.Sprintf("Error(%s)", t.Msg)
	default:
		return t.Kind.String()
	}
}
