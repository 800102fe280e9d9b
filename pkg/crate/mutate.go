package crate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jesseward/Serato-lib/pkg/codec"
)

// AddColumn appends a column with default visibility and width. The name is
// stored through the document's NameEncoding.
func (d *Document) AddColumn(name string) error {
	return d.AddColumnBytes(d.encoding.Encode(name))
}

// AddColumnBytes appends a column whose stored name is exactly name
func (d *Document) AddColumnBytes(name []byte) error {
	if d.columnIndex(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, d.encoding.Decode(name))
	}
	d.Columns = append(d.Columns, Column{
		Visibility: clone(DefaultColumnVisibility),
		Name:       clone(name),
		Width:      clone(DefaultColumnWidth),
	})
	d.logger.Debug("added column", zap.String("column", d.encoding.Decode(name)))
	return nil
}

// DeleteColumn removes the column called name
func (d *Document) DeleteColumn(name string) error {
	return d.DeleteColumnBytes(d.encoding.Encode(name))
}

// DeleteColumnBytes removes the first column whose stored name is name
func (d *Document) DeleteColumnBytes(name []byte) error {
	i := d.columnIndex(name)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, d.encoding.Decode(name))
	}
	d.Columns = append(d.Columns[:i:i], d.Columns[i+1:]...)
	d.logger.Debug("deleted column", zap.String("column", d.encoding.Decode(name)))
	return nil
}

// AddTrack appends a reference to path. The path is stored through the
// document's NameEncoding.
func (d *Document) AddTrack(path string) error {
	return d.AddTrackBytes(d.encoding.Encode(path))
}

// AddTrackBytes appends a track whose stored path is exactly path
func (d *Document) AddTrackBytes(path []byte) error {
	if d.trackIndex(path) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateTrack, d.encoding.Decode(path))
	}
	size := uint64(len(path)) + codec.TrackPathOverhead
	if size > uint64(^uint32(0)) {
		return fmt.Errorf("track path too long: %d bytes", len(path))
	}
	d.Tracks = append(d.Tracks, Track{
		SizeMarker: uint32(size),
		Path:       clone(path),
	})
	d.logger.Debug("added track", zap.String("track", d.encoding.Decode(path)))
	return nil
}

// DeleteTrack removes the reference to path
func (d *Document) DeleteTrack(path string) error {
	return d.DeleteTrackBytes(d.encoding.Encode(path))
}

// DeleteTrackBytes removes the first track whose stored path is path
func (d *Document) DeleteTrackBytes(path []byte) error {
	i := d.trackIndex(path)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrTrackNotFound, d.encoding.Decode(path))
	}
	d.Tracks = append(d.Tracks[:i:i], d.Tracks[i+1:]...)
	d.logger.Debug("deleted track", zap.String("track", d.encoding.Decode(path)))
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append(make([]byte, 0, len(b)), b...)
}
