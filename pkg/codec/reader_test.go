package codec

import (
	"bytes"
	"errors"
	"testing"
)

func TestReader_TryTag(t *testing.T) {
	testCases := []struct {
		name       string
		data       []byte
		tag        string
		wantMatch  bool
		wantOffset int
	}{
		{
			name:       "exact match consumes tag",
			data:       []byte("vrsn"),
			tag:        TagVersion,
			wantMatch:  true,
			wantOffset: 4,
		},
		{
			name:       "match with trailing payload",
			data:       []byte("osrt\x00\x00\x00\x01"),
			tag:        TagSort,
			wantMatch:  true,
			wantOffset: 4,
		},
		{
			name:       "mismatch leaves cursor",
			data:       []byte("ovct\x00\x00\x00\x01"),
			tag:        TagTrack,
			wantMatch:  false,
			wantOffset: 0,
		},
		{
			name:       "short buffer is a mismatch",
			data:       []byte("vrs"),
			tag:        TagVersion,
			wantMatch:  false,
			wantOffset: 0,
		},
		{
			name:       "empty buffer",
			data:       nil,
			tag:        TagVersion,
			wantMatch:  false,
			wantOffset: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(tc.data)
			if got := r.TryTag(tc.tag); got != tc.wantMatch {
				t.Errorf("TryTag(%q) = %v, want %v", tc.tag, got, tc.wantMatch)
			}
			if r.Offset() != tc.wantOffset {
				t.Errorf("Offset = %d, want %d", r.Offset(), tc.wantOffset)
			}
		})
	}
}

func TestReader_TryTagProbeSequence(t *testing.T) {
	r := NewReader([]byte("otrk\x00\x00\x00\x0dptrk"))

	for _, tag := range []string{TagVersion, TagSort, TagColumn} {
		if r.TryTag(tag) {
			t.Fatalf("unexpected match for %q", tag)
		}
	}
	if !r.TryTag(TagTrack) {
		t.Fatal("expected otrk to match after failed probes")
	}
	size, err := r.ReadUint32()
	if err != nil {
		t.Fatalf("ReadUint32 failed: %v", err)
	}
	if size != 13 {
		t.Errorf("size = %d, want 13", size)
	}
	if !r.TryTag(TagTrackPath) {
		t.Error("expected ptrk to match")
	}
	if !r.Done() {
		t.Errorf("expected reader to be done, %d bytes remain", r.Remaining())
	}
}

func TestReader_ReadBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	r := NewReader(data)

	b, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(b, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("got %v", b)
	}

	_, err = r.ReadBytes(3)
	if !errors.Is(err, ErrTruncatedInput) {
		t.Fatalf("expected ErrTruncatedInput, got %v", err)
	}
	var te *TruncatedError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TruncatedError, got %T", err)
	}
	if te.Offset != 3 || te.Need != 3 || te.Have != 2 {
		t.Errorf("unexpected error detail: %+v", te)
	}
	if r.Offset() != 3 {
		t.Errorf("failed read moved cursor to %d", r.Offset())
	}

	b, err = r.ReadBytes(2)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if !bytes.Equal(b, []byte{0x04, 0x05}) {
		t.Errorf("got %v", b)
	}
}

func TestReader_ReadBytesAliasesBuffer(t *testing.T) {
	data := []byte("abcdef")
	r := NewReader(data)

	b, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	data[0] = 'z'
	if b[0] != 'z' {
		t.Error("expected returned slice to alias the buffer")
	}

	// Appending must not overwrite the rest of the buffer.
	_ = append(b, 'X')
	if data[3] != 'd' {
		t.Error("append through returned slice modified the buffer")
	}
}

func TestReader_ReadBytesZeroLength(t *testing.T) {
	r := NewReader([]byte("ab"))
	if err := r.Skip(2); err != nil {
		t.Fatalf("Skip failed: %v", err)
	}

	b, err := r.ReadBytes(0)
	if err != nil {
		t.Fatalf("ReadBytes(0) failed: %v", err)
	}
	if b == nil {
		t.Error("zero-length read should return a non-nil slice")
	}
	if len(b) != 0 {
		t.Errorf("expected empty slice, got %v", b)
	}
}

func TestReader_ReadLengthPrefixed(t *testing.T) {
	testCases := []struct {
		name      string
		data      []byte
		want      []byte
		wantErr   bool
		wantOff   int
		wantLeft  int
		errOffset int
	}{
		{
			name:     "simple",
			data:     []byte("\x00\x00\x00\x03Bpm"),
			want:     []byte("Bpm"),
			wantOff:  7,
			wantLeft: 0,
		},
		{
			name:     "empty payload",
			data:     []byte("\x00\x00\x00\x00rest"),
			want:     []byte{},
			wantOff:  4,
			wantLeft: 4,
		},
		{
			name:      "payload shorter than declared",
			data:      append([]byte("\x00\x00\x00\x14"), []byte("short")...),
			wantErr:   true,
			wantOff:   0,
			errOffset: 4,
		},
		{
			name:    "length field truncated",
			data:    []byte("\x00\x00"),
			wantErr: true,
			wantOff: 0,
		},
		{
			name:      "huge declared length",
			data:      []byte("\xff\xff\xff\xffab"),
			wantErr:   true,
			wantOff:   0,
			errOffset: 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewReader(tc.data)
			got, err := r.ReadLengthPrefixed()
			if tc.wantErr {
				if !errors.Is(err, ErrTruncatedInput) {
					t.Fatalf("expected ErrTruncatedInput, got %v", err)
				}
				if got != nil {
					t.Errorf("expected nil payload on error, got %v", got)
				}
				var te *TruncatedError
				if errors.As(err, &te) && te.Offset != tc.errOffset {
					t.Errorf("error offset = %d, want %d", te.Offset, tc.errOffset)
				}
			} else {
				if err != nil {
					t.Fatalf("ReadLengthPrefixed failed: %v", err)
				}
				if !bytes.Equal(got, tc.want) {
					t.Errorf("got %q, want %q", got, tc.want)
				}
				if r.Remaining() != tc.wantLeft {
					t.Errorf("Remaining = %d, want %d", r.Remaining(), tc.wantLeft)
				}
			}
			if r.Offset() != tc.wantOff {
				t.Errorf("Offset = %d, want %d", r.Offset(), tc.wantOff)
			}
		})
	}
}

func TestReader_Peek(t *testing.T) {
	r := NewReader([]byte("abc"))
	if got := r.Peek(8); string(got) != "abc" {
		t.Errorf("Peek(8) = %q", got)
	}
	if r.Offset() != 0 {
		t.Error("Peek moved the cursor")
	}
}

func TestIsKnownTag(t *testing.T) {
	for _, tag := range KnownTags {
		if !IsKnownTag([]byte(tag + "\x00")) {
			t.Errorf("expected %q to be known", tag)
		}
	}
	if IsKnownTag([]byte("zzzz")) {
		t.Error("zzzz should not be known")
	}
	if IsKnownTag([]byte("vr")) {
		t.Error("short input should not be known")
	}
}
