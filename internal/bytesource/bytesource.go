// Package bytesource implements the block-buffered, seekable byte reader
// that is the lowest layer of the parser (L1).
//
// Reference: this is the layer the source's ByteStream class occupies,
// minus its peek_byte primitive. Callers that need lookahead save the
// position with Tell, read ahead, and Seek back to rewind — there is no
// peek method here by design.
package bytesource

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/joaomdsc/pdflayer/internal/xlog"
)

// DefaultBlockSize is the block size used when the caller does not
// configure one explicitly.
const DefaultBlockSize = 8192

// ByteSource is a block-buffered seekable byte reader over an
// io.ReadSeeker. A ByteSource owns its underlying reader for its
// lifetime; it is not safe for concurrent use from multiple goroutines.
type ByteSource struct {
	r         io.ReadSeeker
	blockSize int

	buf    []byte
	bufLen int
	idx    int

	pos         int64
	seekPending bool
}

// New returns a ByteSource reading from r in blocks of blockSize bytes.
// A non-positive blockSize falls back to DefaultBlockSize.
func New(r io.ReadSeeker, blockSize int) *ByteSource {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &ByteSource{
		r:         r,
		blockSize: blockSize,
		buf:       make([]byte, blockSize),
	}
}

// Tell returns the absolute offset of the next byte that would be
// returned by ReadByte.
func (b *ByteSource) Tell() int64 {
	return b.pos
}

// Seek invalidates the buffer; the next read starts at offset.
func (b *ByteSource) Seek(offset int64) error {
	if offset < 0 {
		return fmt.Errorf("bytesource: negative seek offset %d", offset)
	}
	b.pos = offset
	b.bufLen = 0
	b.idx = 0
	b.seekPending = true
	xlog.Logger().Debug("bytesource seek", slog.Int64("offset", offset))
	return nil
}

// fill refills the buffer from the current logical position, seeking the
// underlying reader first if a Seek is pending. Returns io.EOF (bare, so
// callers can errors.Is against it) when the underlying reader has no
// more bytes, or a wrapped error for any other failure.
func (b *ByteSource) fill() error {
	if b.seekPending {
		if _, err := b.r.Seek(b.pos, io.SeekStart); err != nil {
			return fmt.Errorf("bytesource: seek underlying reader: %w", err)
		}
		b.seekPending = false
	}
	n, err := b.r.Read(b.buf)
	b.bufLen = n
	b.idx = 0
	if n == 0 {
		if err == nil || errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("bytesource: read underlying reader: %w", err)
	}
	// A reader may return (n>0, io.EOF); the bytes are still valid, the
	// EOF condition surfaces on the next fill.
	return nil
}

// ReadByte returns the next byte, advancing the position by one. It
// returns io.EOF once the underlying reader is exhausted.
func (b *ByteSource) ReadByte() (byte, error) {
	if b.idx >= b.bufLen {
		if err := b.fill(); err != nil {
			return 0, err
		}
	}
	c := b.buf[b.idx]
	b.idx++
	b.pos++
	return c, nil
}

// ReadBytes returns exactly n bytes, possibly spanning many blocks. If
// the underlying reader ends before n bytes are gathered, it returns
// io.EOF; per the layer's contract a partial read at end of file is
// never coalesced into a short, non-empty result, and the position is
// left wherever it happened to land — callers must Seek to recover.
func (b *ByteSource) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bytesource: negative length %d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	out := make([]byte, 0, n)
	for len(out) < n {
		if b.idx >= b.bufLen {
			if err := b.fill(); err != nil {
				return nil, err
			}
		}
		want := n - len(out)
		avail := b.bufLen - b.idx
		take := want
		if take > avail {
			take = avail
		}
		out = append(out, b.buf[b.idx:b.idx+take]...)
		b.idx += take
		b.pos += int64(take)
	}
	return out, nil
}
