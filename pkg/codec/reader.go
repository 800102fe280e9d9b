package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncatedInput is returned when a field declares more bytes than remain
// in the buffer.
var ErrTruncatedInput = errors.New("truncated input")

// TruncatedError describes a read that ran past the end of the buffer
type TruncatedError struct {
	Offset int // Cursor position when the read was attempted
	Need   int // Bytes the field required
	Have   int // Bytes that were left
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated input at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}

// Unwrap lets errors.Is match ErrTruncatedInput.
func (e *TruncatedError) Unwrap() error {
	return ErrTruncatedInput
}

// Reader is a cursor over a byte buffer it does not own
type Reader struct {
	buf []byte
	off int
}

// NewReader creates a reader positioned at the start of buf
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// TryTag consumes tag if it is the next thing in the buffer. On a mismatch the
// cursor is left untouched.
func (r *Reader) TryTag(tag string) bool {
	end := r.off + len(tag)
	if end > len(r.buf) {
		return false
	}
	if string(r.buf[r.off:end]) != tag {
		return false
	}
	r.off = end
	return true
}

// ReadBytes returns the next n bytes and advances the cursor past them.
// The returned slice aliases the underlying buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, &TruncatedError{Offset: r.off, Need: n, Have: r.Remaining()}
	}
	// Full slice expression keeps appends from scribbling over the buffer.
	b := r.buf[r.off : r.off+n : r.off+n]
	r.off += n
	return b, nil
}

// ReadUint32 reads a big-endian unsigned 32-bit integer
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(LengthSize)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadLengthPrefixed reads a 4-byte big-endian length L followed by L bytes.
// If the payload is short the cursor is restored to before the length.
func (r *Reader) ReadLengthPrefixed() ([]byte, error) {
	start := r.off
	n, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(r.Remaining()) {
		have := r.Remaining()
		r.off = start
		return nil, &TruncatedError{Offset: start + LengthSize, Need: int(n), Have: have}
	}
	return r.ReadBytes(int(n))
}

// Skip advances the cursor by n bytes
func (r *Reader) Skip(n int) error {
	_, err := r.ReadBytes(n)
	return err
}

// Peek returns up to n bytes at the cursor without consuming them
func (r *Reader) Peek(n int) []byte {
	if n > r.Remaining() {
		n = r.Remaining()
	}
	return r.buf[r.off : r.off+n]
}

// Offset returns the current cursor position
func (r *Reader) Offset() int {
	return r.off
}

// Remaining returns the number of unread bytes
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Done reports whether the cursor has reached the end of the buffer
func (r *Reader) Done() bool {
	return r.off >= len(r.buf)
}
