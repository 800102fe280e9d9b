package crate

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// NameEncoding converts between user-facing column names / track paths and
// the byte strings stored in the crate.
type NameEncoding interface {
	Name() string
	Encode(s string) []byte
	Decode(b []byte) string
}

// Encoding names accepted by EncodingByName
const (
	EncodingLegacy = "legacy"
	EncodingUTF16  = "utf16"
	EncodingRaw    = "raw"
)

// LegacyEncoding inserts a 0x00 byte before every byte of the input. For
// ASCII input this is the same as UTF-16BE; for anything else it is not.
// It reproduces the names written by earlier crate tooling.
type LegacyEncoding struct{}

func (LegacyEncoding) Name() string { return EncodingLegacy }

func (LegacyEncoding) Encode(s string) []byte {
	return NullPad([]byte(s))
}

func (LegacyEncoding) Decode(b []byte) string {
	return string(NullUnpad(b))
}

// NullPad interleaves a zero byte before every byte of b
func NullPad(b []byte) []byte {
	out := make([]byte, 0, 2*len(b))
	for _, c := range b {
		out = append(out, 0x00, c)
	}
	return out
}

// NullUnpad reverses NullPad. Input that was not produced by NullPad is
// returned unchanged.
func NullUnpad(b []byte) []byte {
	if len(b)%2 != 0 {
		return b
	}
	out := make([]byte, 0, len(b)/2)
	for i := 0; i < len(b); i += 2 {
		if b[i] != 0x00 {
			return b
		}
		out = append(out, b[i+1])
	}
	return out
}

// UTF16Encoding stores names as big-endian UTF-16 without a byte order mark
type UTF16Encoding struct{}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

func (UTF16Encoding) Name() string { return EncodingUTF16 }

func (UTF16Encoding) Encode(s string) []byte {
	b, err := utf16be.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return NullPad([]byte(s))
	}
	return b
}

func (UTF16Encoding) Decode(b []byte) string {
	s, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// RawEncoding stores names byte for byte
type RawEncoding struct{}

func (RawEncoding) Name() string           { return EncodingRaw }
func (RawEncoding) Encode(s string) []byte { return []byte(s) }
func (RawEncoding) Decode(b []byte) string { return string(b) }

// EncodingByName returns the encoding registered under name
func EncodingByName(name string) (NameEncoding, error) {
	switch strings.ToLower(name) {
	case "", EncodingLegacy, "nullpad":
		return LegacyEncoding{}, nil
	case EncodingUTF16, "utf-16", "utf16be":
		return UTF16Encoding{}, nil
	case EncodingRaw:
		return RawEncoding{}, nil
	default:
		return nil, fmt.Errorf("unknown name encoding %q", name)
	}
}
