package crate

import (
	"fmt"

	"github.com/jesseward/Serato-lib/pkg/codec"
)

// MarshalBinary serializes the document in crate order: version, sort
// record, columns, tracks. Optional sub-fields that are nil are skipped.
func (d *Document) MarshalBinary() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	w := codec.NewWriter()
	if err := w.WriteFixed(codec.TagVersion, d.Version); err != nil {
		return nil, err
	}

	if err := w.WriteFixed(codec.TagSort, d.Sort.OrderMarker); err != nil {
		return nil, err
	}
	if d.Sort.ColumnName != nil {
		if err := w.WriteLengthPrefixed(codec.TagColumnName, d.Sort.ColumnName); err != nil {
			return nil, err
		}
	}
	if d.Sort.ReverseFlag != nil {
		if err := w.WriteFixed(codec.TagReverse, d.Sort.ReverseFlag); err != nil {
			return nil, err
		}
	}

	for _, c := range d.Columns {
		if err := w.WriteFixed(codec.TagColumn, c.Visibility); err != nil {
			return nil, err
		}
		if c.Name != nil {
			if err := w.WriteLengthPrefixed(codec.TagColumnName, c.Name); err != nil {
				return nil, err
			}
		}
		if c.Width != nil {
			if err := w.WriteFixed(codec.TagColumnWidth, c.Width); err != nil {
				return nil, err
			}
		}
	}

	for _, t := range d.Tracks {
		if err := w.WriteUint32(codec.TagTrack, t.SizeMarker); err != nil {
			return nil, err
		}
		if t.Path != nil {
			if err := w.WriteLengthPrefixed(codec.TagTrackPath, t.Path); err != nil {
				return nil, err
			}
		}
	}

	return w.Bytes(), nil
}

// Validate checks that the document has everything MarshalBinary needs to
// produce a file the parser can read back.
func (d *Document) Validate() error {
	if len(d.Version) != codec.VersionSize {
		return fmt.Errorf("%w: version header is %d bytes, want %d",
			ErrIncompleteDocument, len(d.Version), codec.VersionSize)
	}
	if d.Sort == nil {
		return fmt.Errorf("%w: missing sort record", ErrIncompleteDocument)
	}
	if err := checkSize("sort marker", d.Sort.OrderMarker, codec.SortSize); err != nil {
		return err
	}
	if d.Sort.ReverseFlag != nil {
		if err := checkSize("reverse flag", d.Sort.ReverseFlag, codec.ReverseSize); err != nil {
			return err
		}
	}
	for i, c := range d.Columns {
		if err := checkSize(fmt.Sprintf("column %d visibility", i), c.Visibility, codec.ColumnSize); err != nil {
			return err
		}
		if c.Width != nil {
			if err := checkSize(fmt.Sprintf("column %d width", i), c.Width, codec.ColumnWidthSize); err != nil {
				return err
			}
		}
	}
	for i, t := range d.Tracks {
		if t.Path != nil && uint64(t.SizeMarker) != uint64(len(t.Path))+codec.TrackPathOverhead {
			return fmt.Errorf("%w: track %d size marker %d does not match path length %d",
				ErrIncompleteDocument, i, t.SizeMarker, len(t.Path))
		}
	}
	return nil
}

func checkSize(what string, b []byte, want int) error {
	if len(b) != want {
		return fmt.Errorf("%w: %s is %d bytes, want %d", ErrIncompleteDocument, what, len(b), want)
	}
	return nil
}
