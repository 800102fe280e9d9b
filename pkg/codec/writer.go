package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Writer appends tagged fields to an in-memory buffer
type Writer struct {
	buf bytes.Buffer
}

// NewWriter creates an empty writer
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTag appends a bare 4-byte tag
func (w *Writer) WriteTag(tag string) error {
	if len(tag) != TagSize {
		return fmt.Errorf("invalid tag %q: must be %d bytes", tag, TagSize)
	}
	w.buf.WriteString(tag)
	return nil
}

// WriteFixed appends tag followed by b verbatim, with no length prefix
func (w *Writer) WriteFixed(tag string, b []byte) error {
	if err := w.WriteTag(tag); err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

// WriteUint32 appends tag followed by v in big-endian order
func (w *Writer) WriteUint32(tag string, v uint32) error {
	if err := w.WriteTag(tag); err != nil {
		return err
	}
	var b [LengthSize]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
	return nil
}

// WriteLengthPrefixed appends tag, the 4-byte big-endian length of b, then b
func (w *Writer) WriteLengthPrefixed(tag string, b []byte) error {
	if uint64(len(b)) > math.MaxUint32 {
		return fmt.Errorf("field %s too large: %d bytes", tag, len(b))
	}
	if err := w.WriteUint32(tag, uint32(len(b))); err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

// Bytes returns the accumulated output. The slice is only valid until the
// next write.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far
func (w *Writer) Len() int {
	return w.buf.Len()
}
