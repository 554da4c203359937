package tokeniser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaomdsc/pdflayer/internal/bytesource"
)

func newTokeniser(data string) *Tokeniser {
	bs := bytesource.New(bytes.NewReader([]byte(data)), 4)
	return New(bs)
}

// Scenario 1: /Name 123 true
func TestScenario1_NameIntegerTrue(t *testing.T) {
	tk := newTokeniser("/Name 123 true")

	tok := tk.NextToken()
	require.Equal(t, KindName, tok.Kind)
	assert.Equal(t, "Name", string(tok.Bytes))

	tok = tk.NextToken()
	require.Equal(t, KindInteger, tok.Kind)
	assert.EqualValues(t, 123, tok.Int)

	tok = tk.NextToken()
	require.Equal(t, KindTrue, tok.Kind)

	tok = tk.NextToken()
	assert.Equal(t, KindEof, tok.Kind)
}

// Scenario 6: hex strings, including odd-digit-count padding.
func TestScenario6_HexStringPadding(t *testing.T) {
	tk := newTokeniser("<48656C6C6F>")
	tok := tk.NextToken()
	require.Equal(t, KindHexString, tok.Kind)
	assert.Equal(t, "Hello", string(tok.Bytes))

	tk = newTokeniser("<48656C6C6F7>")
	tok = tk.NextToken()
	require.Equal(t, KindHexString, tok.Kind)
	assert.Equal(t, "Hellop", string(tok.Bytes))
}

func TestLiteralString_EscapesAndBalancedParens(t *testing.T) {
	// a LF b ( c ) \ d, with both inner parens escaped and a trailing
	// escaped backslash, matching the byte-for-byte decode the
	// specification's scenario 5 names as its expected result.
	tk := newTokeniser(`(a\nb\(c\)\\d)`)
	tok := tk.NextToken()
	require.Equal(t, KindLiteralString, tok.Kind)
	assert.Equal(t, []byte{'a', 0x0A, 'b', '(', 'c', ')', '\\', 'd'}, tok.Bytes)
}

func TestLiteralString_UnescapedParensNest(t *testing.T) {
	tk := newTokeniser(`(outer (inner) done)`)
	tok := tk.NextToken()
	require.Equal(t, KindLiteralString, tok.Kind)
	assert.Equal(t, "outer (inner) done", string(tok.Bytes))
}

func TestLiteralString_OctalEscape(t *testing.T) {
	tk := newTokeniser(`(\101\102\103)`) // octal 101=A 102=B 103=C
	tok := tk.NextToken()
	require.Equal(t, KindLiteralString, tok.Kind)
	assert.Equal(t, "ABC", string(tok.Bytes))
}

func TestLiteralString_UnknownEscapeKeepsChar(t *testing.T) {
	tk := newTokeniser(`(\x)`)
	tok := tk.NextToken()
	require.Equal(t, KindLiteralString, tok.Kind)
	assert.Equal(t, "x", string(tok.Bytes))
}

func TestName_HexEscape(t *testing.T) {
	tk := newTokeniser("/A#42C")
	tok := tk.NextToken()
	require.Equal(t, KindName, tok.Kind)
	assert.Equal(t, "ABC", string(tok.Bytes))
}

func TestVersionAndEofMarkers(t *testing.T) {
	tk := newTokeniser("%PDF-1.7\n%%EOF")
	tok := tk.NextToken()
	require.Equal(t, KindVersionMarker, tok.Kind)
	assert.EqualValues(t, 1, tok.Int)
	assert.EqualValues(t, 7, tok.Int2)

	tok = tk.NextToken()
	require.Equal(t, KindLF, tok.Kind)

	tok = tk.NextToken()
	require.Equal(t, KindEofMarker, tok.Kind)
}

func TestEOLTokens(t *testing.T) {
	tk := newTokeniser("\r\n\r \n")
	assert.Equal(t, KindCRLF, tk.NextToken().Kind)
	assert.Equal(t, KindCR, tk.NextToken().Kind)
	assert.Equal(t, KindLF, tk.NextToken().Kind)
}

func TestRealNumbers(t *testing.T) {
	tk := newTokeniser("3.14 -2.5 +7 -3")
	tok := tk.NextToken()
	require.Equal(t, KindReal, tok.Kind)
	assert.InDelta(t, 3.14, tok.Real, 0.0001)

	tok = tk.NextToken()
	require.Equal(t, KindReal, tok.Kind)
	assert.InDelta(t, -2.5, tok.Real, 0.0001)

	tok = tk.NextToken()
	require.Equal(t, KindInteger, tok.Kind)
	assert.EqualValues(t, 7, tok.Int)

	tok = tk.NextToken()
	require.Equal(t, KindInteger, tok.Kind)
	assert.EqualValues(t, -3, tok.Int)
}

// P2: peek followed by next returns the same token; consecutive next
// calls are in strict source order.
func TestProperty_PeekThenNextMatches(t *testing.T) {
	tk := newTokeniser("1 2 3")
	peeked := tk.PeekToken()
	next := tk.NextToken()
	assert.Equal(t, peeked, next)
	assert.EqualValues(t, 1, next.Int)

	assert.EqualValues(t, 2, tk.NextToken().Int)
	assert.EqualValues(t, 3, tk.NextToken().Int)
}

func TestXrefSubsectionHeader_Success(t *testing.T) {
	tk := newTokeniser("0 3\n")
	tok := tk.ReadXrefSubsectionHeader()
	require.Equal(t, KindSubsectionHeader, tok.Kind)
	assert.EqualValues(t, 0, tok.Int)
	assert.EqualValues(t, 3, tok.Int2)
}

// P8: a failed header probe rolls back position exactly.
func TestXrefSubsectionHeader_UnexpectedRollsBackAtomically(t *testing.T) {
	tk := newTokeniser("trailer\n<< /Size 3 >>")
	before := tk.Tell()
	tok := tk.ReadXrefSubsectionHeader()
	assert.Equal(t, KindUnexpected, tok.Kind)
	assert.Equal(t, before, tk.Tell())

	// tokeniser still usable normally after rollback
	next := tk.NextToken()
	assert.Equal(t, KindTrailer, next.Kind)
}

func TestXrefSubsectionEntry_InUseAndFree(t *testing.T) {
	tk := newTokeniser("0000000000 65535 f \n0000000017 00000 n \n")
	tok := tk.ReadXrefSubsectionEntry()
	require.Equal(t, KindSubsectionEntry, tok.Kind)
	assert.EqualValues(t, 0, tok.Int)
	assert.EqualValues(t, 65535, tok.Int2)
	assert.False(t, tok.InUse)

	tok = tk.ReadXrefSubsectionEntry()
	require.Equal(t, KindSubsectionEntry, tok.Kind)
	assert.EqualValues(t, 17, tok.Int)
	assert.EqualValues(t, 0, tok.Int2)
	assert.True(t, tok.InUse)
}

func TestReadStreamBytes_ThenResumesTokenising(t *testing.T) {
	tk := newTokeniser("stream\nHello\nendstream")
	tok := tk.NextToken()
	require.Equal(t, KindStreamBegin, tok.Kind)
	tok = tk.NextToken()
	require.Equal(t, KindLF, tok.Kind)

	data, err := tk.ReadStreamBytes(5)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(data))

	tok = tk.NextToken()
	require.Equal(t, KindLF, tok.Kind)
	tok = tk.NextToken()
	require.Equal(t, KindStreamEnd, tok.Kind)
}
