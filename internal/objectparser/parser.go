// Package objectparser implements L3: a one-token-lookahead object
// assembler sitting on top of a Tokeniser, plus cross-reference section
// and stream parsing and indirect-reference dereferencing.
//
// Reference: grounded on the source's object_stream.py (next_object,
// parse_cross_reference, dereference) and, for the dispatch shape, on
// mikeschinkel-gxpdf/internal/parser/parser.go.
package objectparser

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"log/slog"

	"github.com/joaomdsc/pdflayer/internal/bytesource"
	"github.com/joaomdsc/pdflayer/internal/config"
	"github.com/joaomdsc/pdflayer/internal/objectparser/xrefindex"
	"github.com/joaomdsc/pdflayer/internal/predictor"
	"github.com/joaomdsc/pdflayer/internal/tokeniser"
	"github.com/joaomdsc/pdflayer/internal/xlog"
)

// Parser assembles PdfObjects from a Tokeniser. It exclusively owns its
// Tokeniser, and owns the XrefIndex most recently built (by
// ParseCrossReference, or by an "xref" table reached through
// NextObject), which Dereference consults.
type Parser struct {
	tok   *tokeniser.Tokeniser
	cfg   *config.Config
	index *xrefindex.Index
}

// New wraps an already-constructed Tokeniser. cfg may be nil, in which
// case config.NewDefaultConfig is used.
func New(tok *tokeniser.Tokeniser, cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Parser{tok: tok, cfg: cfg}
}

// NewFromReader builds a ByteSource and Tokeniser over r and wraps them.
func NewFromReader(r io.ReadSeeker, cfg *config.Config) *Parser {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	bs := bytesource.New(r, cfg.BlockSize)
	return New(tokeniser.New(bs), cfg)
}

// Tell returns the parser's current position, delegating to the
// underlying Tokeniser.
func (p *Parser) Tell() int64 { return p.tok.Tell() }

// Seek repositions the parser, delegating to the underlying Tokeniser.
func (p *Parser) Seek(offset int64) error { return p.tok.Seek(offset) }

// XrefIndex returns the index built by the most recent cross-reference
// parse (ParseCrossReference, or an "xref" table reached through
// NextObject), or nil if none has run yet.
func (p *Parser) XrefIndex() *xrefindex.Index { return p.index }

// NextObject assembles and returns the next complete object, skipping
// bare EOL tokens at the top level (objects never start with one).
func (p *Parser) NextObject() PdfObject {
	for {
		tok := p.tok.NextToken()
		switch tok.Kind {
		case tokeniser.KindCR, tokeniser.KindLF, tokeniser.KindCRLF:
			continue
		case tokeniser.KindEof:
			return PdfObject{Kind: ObjEof}
		case tokeniser.KindError:
			return PdfObject{Kind: ObjError, Msg: tok.Msg}
		case tokeniser.KindVersionMarker:
			return PdfObject{Kind: ObjVersionMarker, VersionMajor: tok.Int, VersionMinor: tok.Int2}
		case tokeniser.KindEofMarker:
			return PdfObject{Kind: ObjEofMarker}
		case tokeniser.KindStartXref:
			return PdfObject{Kind: ObjStartXref}
		case tokeniser.KindTrue:
			return PdfObject{Kind: ObjBoolean, Bool: true}
		case tokeniser.KindFalse:
			return PdfObject{Kind: ObjBoolean, Bool: false}
		case tokeniser.KindNull:
			return PdfObject{Kind: ObjNull}
		case tokeniser.KindInteger:
			return p.parseIntegerLookahead(tok.Int)
		case tokeniser.KindReal:
			return PdfObject{Kind: ObjReal, Real: tok.Real}
		case tokeniser.KindLiteralString, tokeniser.KindHexString:
			return PdfObject{Kind: ObjString, Bytes: tok.Bytes}
		case tokeniser.KindName:
			return PdfObject{Kind: ObjName, Name: string(tok.Bytes)}
		case tokeniser.KindArrayBegin:
			return p.parseArray()
		case tokeniser.KindDictBegin:
			return p.parseDictOrStream()
		case tokeniser.KindXrefSection:
			return p.parseClassicXref()
		case tokeniser.KindTrailer:
			return p.parseTrailer()
		case tokeniser.KindStreamBegin:
			return PdfObject{Kind: ObjError, Msg: "unexpected 'stream' keyword without preceding dictionary"}
		default:
			return PdfObject{Kind: ObjError, Msg: fmt.Sprintf("unexpected token %s", tok.Kind)}
		}
	}
}

// parseIntegerLookahead implements the three-integer lookahead that
// disambiguates a plain Integer from an indirect definition ("N G obj")
// or an indirect reference ("N G R"). n1 has already been consumed; on
// any mismatch the tokeniser is rolled back to the position held right
// after n1, and a plain Integer is returned.
func (p *Parser) parseIntegerLookahead(n1 int64) PdfObject {
	save := p.tok.Tell()

	second := p.tok.NextToken()
	if second.Kind != tokeniser.KindInteger {
		if err := p.tok.Seek(save); err != nil {
			return PdfObject{Kind: ObjError, Msg: err.Error()}
		}
		return PdfObject{Kind: ObjInteger, Int: n1}
	}

	third := p.tok.NextToken()
	switch third.Kind {
	case tokeniser.KindObjectBegin:
		inner := p.NextObject()
		p.skipEOLs()
		end := p.tok.NextToken()
		if end.Kind != tokeniser.KindObjectEnd {
			return PdfObject{Kind: ObjError, Msg: "expected 'endobj'"}
		}
		return PdfObject{Kind: ObjIndirectDef, ObjNum: n1, Gen: second.Int, Inner: &inner}
	case tokeniser.KindObjRef:
		return PdfObject{Kind: ObjIndirectRef, ObjNum: n1, Gen: second.Int}
	default:
		if err := p.tok.Seek(save); err != nil {
			return PdfObject{Kind: ObjError, Msg: err.Error()}
		}
		return PdfObject{Kind: ObjInteger, Int: n1}
	}
}

func (p *Parser) skipEOLs() {
	for {
		tok := p.tok.PeekToken()
		if tok.Kind == tokeniser.KindCR || tok.Kind == tokeniser.KindLF || tok.Kind == tokeniser.KindCRLF {
			p.tok.NextToken()
			continue
		}
		return
	}
}

func (p *Parser) parseArray() PdfObject {
	var items []PdfObject
	for {
		peek := p.tok.PeekToken()
		switch peek.Kind {
		case tokeniser.KindArrayEnd:
			p.tok.NextToken()
			return PdfObject{Kind: ObjArray, Array: items}
		case tokeniser.KindCR, tokeniser.KindLF, tokeniser.KindCRLF:
			p.tok.NextToken()
			continue
		case tokeniser.KindEof:
			p.tok.NextToken()
			return PdfObject{Kind: ObjEof}
		case tokeniser.KindError:
			p.tok.NextToken()
			return PdfObject{Kind: ObjError, Msg: peek.Msg}
		default:
			items = append(items, p.NextObject())
		}
	}
}

func (p *Parser) parseDictOrStream() PdfObject {
	dict := NewDictionary()
	for {
		peek := p.tok.PeekToken()
		switch peek.Kind {
		case tokeniser.KindDictEnd:
			p.tok.NextToken()
			return p.afterDict(dict)
		case tokeniser.KindCR, tokeniser.KindLF, tokeniser.KindCRLF:
			p.tok.NextToken()
			continue
		case tokeniser.KindName:
			p.tok.NextToken()
			key := string(peek.Bytes)
			val := p.NextObject()
			dict.Set(key, val)
		case tokeniser.KindEof:
			p.tok.NextToken()
			return PdfObject{Kind: ObjEof}
		case tokeniser.KindError:
			p.tok.NextToken()
			return PdfObject{Kind: ObjError, Msg: peek.Msg}
		default:
			p.tok.NextToken()
			return PdfObject{Kind: ObjError, Msg: fmt.Sprintf("expected name or '>>' in dictionary, got %s", peek.Kind)}
		}
	}
}

func (p *Parser) afterDict(dict *Dictionary) PdfObject {
	p.skipEOLs()
	peek := p.tok.PeekToken()
	if peek.Kind == tokeniser.KindStreamBegin {
		p.tok.NextToken()
		return p.parseStreamBody(dict)
	}
	return PdfObject{Kind: ObjDictionary, Dict: dict}
}

func (p *Parser) parseStreamBody(dict *Dictionary) PdfObject {
	eol := p.tok.NextToken()
	if eol.Kind != tokeniser.KindLF && eol.Kind != tokeniser.KindCRLF {
		return PdfObject{Kind: ObjError, Msg: "expected LF or CRLF after 'stream'"}
	}

	length, ok := p.resolveLength(dict)
	if !ok {
		return PdfObject{Kind: ObjError, Msg: "stream /Length is neither a direct integer nor a resolvable indirect reference"}
	}

	data, err := p.tok.ReadStreamBytes(int(length))
	if err != nil {
		return PdfObject{Kind: ObjError, Msg: fmt.Sprintf("reading stream body: %v", err)}
	}

	endEOL := p.tok.NextToken()
	if endEOL.Kind != tokeniser.KindCR && endEOL.Kind != tokeniser.KindLF && endEOL.Kind != tokeniser.KindCRLF {
		return PdfObject{Kind: ObjError, Msg: "expected EOL after stream body"}
	}
	endTok := p.tok.NextToken()
	if endTok.Kind != tokeniser.KindStreamEnd {
		return PdfObject{Kind: ObjError, Msg: "expected 'endstream'"}
	}

	return PdfObject{Kind: ObjStream, Dict: dict, StreamData: data}
}

func (p *Parser) resolveLength(dict *Dictionary) (int64, bool) {
	v, ok := dict.Get("Length")
	if !ok {
		return 0, false
	}
	switch v.Kind {
	case ObjInteger:
		return v.Int, true
	case ObjIndirectRef:
		// Dereference relocates the tokeniser to read the referenced
		// object; the stream body that follows the dictionary sits at the
		// position held before this lookup, so it must be restored
		// regardless of outcome.
		save := p.Tell()
		resolved, ok := p.Dereference(v)
		if err := p.Seek(save); err != nil {
			return 0, false
		}
		if !ok || resolved.Kind != ObjInteger {
			return 0, false
		}
		return resolved.Int, true
	default:
		return 0, false
	}
}

func (p *Parser) parseTrailer() PdfObject {
	p.skipEOLs()
	tok := p.tok.NextToken()
	if tok.Kind != tokeniser.KindDictBegin {
		return PdfObject{Kind: ObjError, Msg: "expected '<<' after 'trailer'"}
	}
	inner := p.parseDictOrStream()
	if inner.Kind != ObjDictionary {
		return PdfObject{Kind: ObjError, Msg: "malformed trailer dictionary"}
	}
	return PdfObject{Kind: ObjTrailer, Dict: inner.Dict}
}

// parseClassicXref parses a classic "xref" table: a run of subsection
// headers each followed by that many fixed-width entries, terminated by
// whatever token follows the last subsection (typically "trailer"),
// which ReadXrefSubsectionHeader reports as Unexpected without
// consuming it.
func (p *Parser) parseClassicXref() PdfObject {
	eol := p.tok.NextToken()
	if eol.Kind != tokeniser.KindCR && eol.Kind != tokeniser.KindLF && eol.Kind != tokeniser.KindCRLF {
		return PdfObject{Kind: ObjError, Msg: "expected EOL after 'xref'"}
	}

	idx := xrefindex.NewIndex()
	var total int64
	for {
		hdr := p.tok.ReadXrefSubsectionHeader()
		switch hdr.Kind {
		case tokeniser.KindSubsectionHeader:
			total += hdr.Int2
			if total > int64(p.cfg.MaxXRefEntries) {
				return PdfObject{Kind: ObjError, Msg: fmt.Sprintf("xref table declares at least %d entries, exceeding the configured cap of %d", total, p.cfg.MaxXRefEntries)}
			}
			entries := make([]xrefindex.Entry, 0, hdr.Int2)
			for i := int64(0); i < hdr.Int2; i++ {
				e := p.tok.ReadXrefSubsectionEntry()
				if e.Kind == tokeniser.KindEof {
					return PdfObject{Kind: ObjEof}
				}
				if e.Kind != tokeniser.KindSubsectionEntry {
					return PdfObject{Kind: ObjError, Msg: e.Msg}
				}
				typ := xrefindex.EntryInUse
				if !e.InUse {
					typ = xrefindex.EntryFree
				}
				entries = append(entries, xrefindex.Entry{Type: typ, Field1: e.Int, Generation: int(e.Int2)})
			}
			idx.AddSubsection(xrefindex.Subsection{FirstObjNum: hdr.Int, Count: hdr.Int2, Entries: entries})
		case tokeniser.KindUnexpected:
			p.index = idx
			return PdfObject{Kind: ObjXrefSection, XrefIndex: idx}
		case tokeniser.KindEof:
			return PdfObject{Kind: ObjEof}
		default:
			return PdfObject{Kind: ObjError, Msg: hdr.Msg}
		}
	}
}

// ParseCrossReference reads whichever cross-reference form begins at
// the current position: a classic "xref" table, or an indirect object
// wrapping a cross-reference stream. The built index replaces any
// previously built one; this module reads only the most recent
// cross-reference section reachable from the final startxref offset,
// never merging older ones from a /Prev chain.
func (p *Parser) ParseCrossReference() PdfObject {
	peek := p.tok.PeekToken()
	if peek.Kind == tokeniser.KindXrefSection {
		p.tok.NextToken()
		return p.parseClassicXref()
	}

	obj := p.NextObject()
	if obj.Kind != ObjIndirectDef || obj.Inner == nil || obj.Inner.Kind != ObjStream {
		return PdfObject{Kind: ObjError, Msg: "expected a classic xref table or an indirect cross-reference stream object"}
	}
	return p.buildXrefIndexFromStream(*obj.Inner)
}

func (p *Parser) buildXrefIndexFromStream(streamObj PdfObject) PdfObject {
	dict := streamObj.Dict

	size, ok := dict.GetInteger("Size")
	if !ok {
		return PdfObject{Kind: ObjError, Msg: "cross-reference stream missing /Size"}
	}

	wArr, ok := dict.Get("W")
	if !ok || wArr.Kind != ObjArray || len(wArr.Array) != 3 {
		return PdfObject{Kind: ObjError, Msg: "cross-reference stream missing or invalid /W"}
	}
	w := make([]int, 3)
	for i, e := range wArr.Array {
		if e.Kind != ObjInteger {
			return PdfObject{Kind: ObjError, Msg: "cross-reference stream /W entries must be integers"}
		}
		w[i] = int(e.Int)
	}
	recordWidth := w[0] + w[1] + w[2]
	if recordWidth <= 0 {
		return PdfObject{Kind: ObjError, Msg: "cross-reference stream /W has zero total width"}
	}

	var indexPairs [][2]int64
	if idxArr, ok := dict.Get("Index"); ok && idxArr.Kind == ObjArray {
		for i := 0; i+1 < len(idxArr.Array); i += 2 {
			if idxArr.Array[i].Kind != ObjInteger || idxArr.Array[i+1].Kind != ObjInteger {
				return PdfObject{Kind: ObjError, Msg: "cross-reference stream /Index entries must be integers"}
			}
			indexPairs = append(indexPairs, [2]int64{idxArr.Array[i].Int, idxArr.Array[i+1].Int})
		}
	} else {
		indexPairs = [][2]int64{{0, size}}
	}

	var total int64
	for _, pair := range indexPairs {
		total += pair[1]
	}
	if total > int64(p.cfg.MaxXRefEntries) {
		return PdfObject{Kind: ObjError, Msg: fmt.Sprintf("cross-reference stream declares %d entries, exceeding the configured cap of %d", total, p.cfg.MaxXRefEntries)}
	}

	decoded, err := decodeStreamData(streamObj, dict)
	if err != nil {
		return PdfObject{Kind: ObjError, Msg: err.Error()}
	}

	idx := xrefindex.NewIndex()
	pos := 0
	for _, pair := range indexPairs {
		first, count := pair[0], pair[1]
		entries := make([]xrefindex.Entry, 0, count)
		for i := int64(0); i < count; i++ {
			if pos+recordWidth > len(decoded) {
				return PdfObject{Kind: ObjError, Msg: "cross-reference stream data truncated"}
			}
			rec := decoded[pos : pos+recordWidth]
			pos += recordWidth

			typ := int64(1)
			if w[0] > 0 {
				typ = readBigEndian(rec[0:w[0]])
			}
			f2 := readBigEndian(rec[w[0] : w[0]+w[1]])
			f3 := readBigEndian(rec[w[0]+w[1] : w[0]+w[1]+w[2]])

			var e xrefindex.Entry
			switch typ {
			case 0:
				e = xrefindex.Entry{Type: xrefindex.EntryFree, Field1: f2, Generation: int(f3)}
			case 1:
				e = xrefindex.Entry{Type: xrefindex.EntryInUse, Field1: f2, Generation: int(f3)}
			case 2:
				e = xrefindex.Entry{Type: xrefindex.EntryCompressed, Field1: f2, Field3: f3}
			default:
				return PdfObject{Kind: ObjError, Msg: fmt.Sprintf("unknown cross-reference stream entry type %d", typ)}
			}
			entries = append(entries, e)
		}
		idx.AddSubsection(xrefindex.Subsection{FirstObjNum: first, Count: count, Entries: entries})
	}

	p.index = idx
	return PdfObject{Kind: ObjXrefSection, XrefIndex: idx}
}

func decodeStreamData(streamObj PdfObject, dict *Dictionary) ([]byte, error) {
	raw := streamObj.StreamData

	if filt, ok := dict.Get("Filter"); ok && filt.Kind == ObjName && filt.Name == "FlateDecode" {
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("cross-reference stream zlib: %w", err)
		}
		defer zr.Close()
		raw, err = io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("cross-reference stream zlib: %w", err)
		}
	}

	predictorNum := int64(1)
	columns := 1
	if parms, ok := dict.Get("DecodeParms"); ok && parms.Kind == ObjDictionary {
		if pv, ok := parms.Dict.GetInteger("Predictor"); ok {
			predictorNum = pv
		}
		if cv, ok := parms.Dict.GetInteger("Columns"); ok {
			columns = int(cv)
		}
	}
	if predictorNum == 1 {
		return raw, nil
	}
	if predictorNum != 12 {
		return nil, fmt.Errorf("cross-reference stream: unsupported predictor %d", predictorNum)
	}
	return predictor.PNGUp(raw, columns)
}

func readBigEndian(b []byte) int64 {
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// Dereference resolves an IndirectRef via the most recently built
// XrefIndex. Per the "an indirect reference to an undefined object is
// not an error" rule, any lookup failure, free-entry hit, or
// object/generation mismatch returns (zero value, false) rather than an
// error — callers treat a missing reference as the null object.
func (p *Parser) Dereference(ref PdfObject) (PdfObject, bool) {
	if ref.Kind != ObjIndirectRef || p.index == nil {
		return PdfObject{}, false
	}
	entry, ok := p.index.Lookup(ref.ObjNum)
	if !ok || entry.Type != xrefindex.EntryInUse {
		return PdfObject{}, false
	}
	if err := p.Seek(entry.Field1); err != nil {
		xlog.Logger().Debug("dereference seek failed", slog.Int64("objNum", ref.ObjNum), slog.Any("err", err))
		return PdfObject{}, false
	}
	obj := p.NextObject()
	if obj.Kind != ObjIndirectDef || obj.ObjNum != ref.ObjNum || obj.Gen != ref.Gen {
		xlog.Logger().Debug("dereference mismatch", slog.Int64("wantObjNum", ref.ObjNum), slog.Int64("wantGen", ref.Gen))
		return PdfObject{}, false
	}
	return *obj.Inner, true
}
