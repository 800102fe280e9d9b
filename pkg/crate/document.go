package crate

import (
	"bytes"
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/jesseward/Serato-lib/pkg/codec"
)

// Document is the in-memory form of one crate file.
//
// Optional sub-fields (a sort or column name, a width, a reverse flag, a
// track path) are nil when the tag was absent from the source and are then
// left out when the document is serialized again.
type Document struct {
	Version []byte   // Raw vrsn payload, always VersionSize bytes
	Sort    *Sort    // Sort record, nil if the crate has none
	Columns []Column // Columns in display order
	Tracks  []Track  // Tracks in listing order

	path     string
	logger   *zap.Logger
	encoding NameEncoding
	backups  []Backuper
}

// Sort describes which column the crate is sorted by
type Sort struct {
	OrderMarker []byte // osrt payload, opaque
	ColumnName  []byte // tvcn payload
	ReverseFlag []byte // brev payload, opaque
}

// Column is one displayed column
type Column struct {
	Visibility []byte // ovct payload, opaque
	Name       []byte // tvcn payload, unique within a document
	Width      []byte // tvcw payload, opaque
}

// Track is one track reference
type Track struct {
	SizeMarker uint32 // otrk payload, len(Path)+8 for well-formed records
	Path       []byte // ptrk payload, unique within a document
}

// Defaults for records created by mutation or by NewDocument.
var (
	DefaultColumnVisibility = []byte{0x00, 0x00, 0x00, 0x1c}
	DefaultColumnWidth      = []byte{0x00, 0x00, 0x00, 0x02, 0x00, '0'}
	DefaultReverseFlag      = []byte{0x00, 0x00, 0x00, 0x01, 0x00}
	DefaultSortColumn       = "song"
	DefaultVersion          = "1.0/Serato ScratchLive Crate"
)

// NewDocument builds an empty crate from a template: a version header
// carrying DefaultVersion and a sort record on DefaultSortColumn.
func NewDocument(opts ...Option) *Document {
	d := newDocument(opts)

	version := UTF16Encoding{}.Encode(DefaultVersion)
	d.Version = make([]byte, codec.VersionSize)
	copy(d.Version[codec.LengthSize:], version)
	binary.BigEndian.PutUint32(d.Version, uint32(len(version)))

	name := d.encoding.Encode(DefaultSortColumn)
	marker := make([]byte, codec.SortSize)
	// tvcn and brev fields that follow, tags included
	binary.BigEndian.PutUint32(marker, uint32(codec.TagSize+codec.LengthSize+len(name)+codec.TagSize+codec.ReverseSize))
	d.Sort = &Sort{
		OrderMarker: marker,
		ColumnName:  name,
		ReverseFlag: append([]byte(nil), DefaultReverseFlag...),
	}
	d.Columns = []Column{}
	d.Tracks = []Track{}
	return d
}

func newDocument(opts []Option) *Document {
	d := &Document{
		logger:   zap.NewNop(),
		encoding: LegacyEncoding{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Path returns the file the document was opened from, if any
func (d *Document) Path() string {
	return d.path
}

// Encoding returns the name encoding used by mutations and accessors
func (d *Document) Encoding() NameEncoding {
	return d.encoding
}

// ColumnNames returns the decoded column names in display order
func (d *Document) ColumnNames() []string {
	names := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		names = append(names, d.encoding.Decode(c.Name))
	}
	return names
}

// TrackPaths returns the decoded track paths in listing order
func (d *Document) TrackPaths() []string {
	paths := make([]string, 0, len(d.Tracks))
	for _, t := range d.Tracks {
		paths = append(paths, d.encoding.Decode(t.Path))
	}
	return paths
}

// SortColumn returns the decoded sort column name and whether a sort record
// with a name is present.
func (d *Document) SortColumn() (string, bool) {
	if d.Sort == nil || d.Sort.ColumnName == nil {
		return "", false
	}
	return d.encoding.Decode(d.Sort.ColumnName), true
}

// Reversed reports whether the sort record's reverse flag is set
func (d *Document) Reversed() bool {
	if d.Sort == nil || len(d.Sort.ReverseFlag) == 0 {
		return false
	}
	return d.Sort.ReverseFlag[len(d.Sort.ReverseFlag)-1] != 0
}

// VersionString decodes the version header for display
func (d *Document) VersionString() string {
	return DecodeVersion(d.Version)
}

// DecodeVersion decodes a raw vrsn payload: a big-endian length followed by
// that many bytes of UTF-16BE text, padded to VersionSize.
func DecodeVersion(v []byte) string {
	if len(v) < codec.LengthSize {
		return ""
	}
	body := v[codec.LengthSize:]
	n := uint64(binary.BigEndian.Uint32(v))
	if n > uint64(len(body)) {
		n = uint64(len(body))
	}
	return UTF16Encoding{}.Decode(body[:n])
}

// HasColumn reports whether a column called name exists
func (d *Document) HasColumn(name string) bool {
	return d.columnIndex(d.encoding.Encode(name)) >= 0
}

// HasTrack reports whether path is referenced by the crate
func (d *Document) HasTrack(path string) bool {
	return d.trackIndex(d.encoding.Encode(path)) >= 0
}

func (d *Document) columnIndex(name []byte) int {
	for i, c := range d.Columns {
		if c.Name != nil && bytes.Equal(c.Name, name) {
			return i
		}
	}
	return -1
}

func (d *Document) trackIndex(path []byte) int {
	for i, t := range d.Tracks {
		if t.Path != nil && bytes.Equal(t.Path, path) {
			return i
		}
	}
	return -1
}
