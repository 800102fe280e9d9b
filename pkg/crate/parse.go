package crate

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"github.com/jesseward/Serato-lib/pkg/codec"
)

// Field is one recognized tag and its payload, as reported by Inspect
type Field struct {
	Tag    string // 4-byte tag
	Offset int    // Offset of the tag within the file
	Value  []byte // Payload with any length prefix stripped
}

// Parse decodes a crate file held in data.
//
// The returned document aliases data; callers must not modify the buffer
// while the document is in use. On error no document is returned.
func Parse(data []byte, opts ...Option) (*Document, error) {
	return Inspect(data, nil, opts...)
}

// Inspect parses data like Parse and calls fn for every field it recognizes,
// in file order.
func Inspect(data []byte, fn func(Field), opts ...Option) (*Document, error) {
	p := &parser{
		r:       codec.NewReader(data),
		doc:     newDocument(opts),
		onField: fn,
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

type parser struct {
	r       *codec.Reader
	doc     *Document
	onField func(Field)
}

// parse walks the buffer one record at a time. Sub-fields of a record are
// optional but must appear in their fixed relative order.
func (p *parser) parse() error {
	for !p.r.Done() {
		start := p.r.Offset()
		var err error

		switch {
		case p.r.TryTag(codec.TagVersion):
			err = p.parseVersion(start)
		case p.r.TryTag(codec.TagSort):
			err = p.parseSort(start)
		case p.r.TryTag(codec.TagColumn):
			err = p.parseColumn(start)
		case p.r.TryTag(codec.TagTrack):
			err = p.parseTrack(start)
		default:
			found := append([]byte(nil), p.r.Peek(codec.TagSize)...)
			return &MalformedError{Offset: start, Found: found, Misplaced: codec.IsKnownTag(found)}
		}

		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseVersion(start int) error {
	v, err := p.fixed(codec.TagVersion, start, codec.VersionSize)
	if err != nil {
		return err
	}
	p.doc.Version = v
	return nil
}

func (p *parser) parseSort(start int) error {
	marker, err := p.fixed(codec.TagSort, start, codec.SortSize)
	if err != nil {
		return err
	}
	// A crate carries at most one sort record; a later one replaces it.
	sort := &Sort{OrderMarker: marker}
	p.doc.Sort = sort

	if sort.ColumnName, err = p.optionalLengthPrefixed(codec.TagColumnName); err != nil {
		return err
	}
	if sort.ReverseFlag, err = p.optionalFixed(codec.TagReverse, codec.ReverseSize); err != nil {
		return err
	}
	return nil
}

func (p *parser) parseColumn(start int) error {
	visibility, err := p.fixed(codec.TagColumn, start, codec.ColumnSize)
	if err != nil {
		return err
	}
	p.doc.Columns = append(p.doc.Columns, Column{Visibility: visibility})
	col := &p.doc.Columns[len(p.doc.Columns)-1]

	if col.Name, err = p.optionalLengthPrefixed(codec.TagColumnName); err != nil {
		return err
	}
	if col.Width, err = p.optionalFixed(codec.TagColumnWidth, codec.ColumnWidthSize); err != nil {
		return err
	}
	return nil
}

func (p *parser) parseTrack(start int) error {
	raw, err := p.fixed(codec.TagTrack, start, codec.TrackSize)
	if err != nil {
		return err
	}
	size := binary.BigEndian.Uint32(raw)
	p.doc.Tracks = append(p.doc.Tracks, Track{SizeMarker: size})
	track := &p.doc.Tracks[len(p.doc.Tracks)-1]

	pathStart := p.r.Offset()
	if !p.r.TryTag(codec.TagTrackPath) {
		return nil
	}
	if size < codec.TrackPathOverhead {
		return fmt.Errorf("%w: track size %d at offset %d is smaller than %d",
			ErrMalformedCrate, size, start, codec.TrackPathOverhead)
	}
	// The inner length repeats what otrk already says and is ignored.
	if err := p.r.Skip(codec.LengthSize); err != nil {
		return err
	}
	path, err := p.r.ReadBytes(int(size - codec.TrackPathOverhead))
	if err != nil {
		return err
	}
	track.Path = path
	p.emit(codec.TagTrackPath, pathStart, path)
	return nil
}

// fixed reads the payload of a tag that has already been consumed
func (p *parser) fixed(tag string, start, n int) ([]byte, error) {
	b, err := p.r.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	p.emit(tag, start, b)
	return b, nil
}

func (p *parser) optionalFixed(tag string, n int) ([]byte, error) {
	start := p.r.Offset()
	if !p.r.TryTag(tag) {
		return nil, nil
	}
	return p.fixed(tag, start, n)
}

func (p *parser) optionalLengthPrefixed(tag string) ([]byte, error) {
	start := p.r.Offset()
	if !p.r.TryTag(tag) {
		return nil, nil
	}
	b, err := p.r.ReadLengthPrefixed()
	if err != nil {
		return nil, err
	}
	p.emit(tag, start, b)
	return b, nil
}

func (p *parser) emit(tag string, offset int, value []byte) {
	if ce := p.doc.logger.Check(zap.DebugLevel, "found tag"); ce != nil {
		ce.Write(zap.String("tag", tag), zap.Int("offset", offset), zap.Int("size", len(value)))
	}
	if p.onField != nil {
		p.onField(Field{Tag: tag, Offset: offset, Value: value})
	}
}
