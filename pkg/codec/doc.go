// Package codec provides the low-level tag reader and writer for the Serato
// crate format.
//
// A crate file is a flat sequence of fields, each introduced by a 4-byte ASCII
// tag. Some fields carry a fixed-size payload, others a 4-byte big-endian
// length followed by that many bytes:
//
//	vrsn [60]          format/version header
//	osrt [4]           sort marker
//	tvcn [len(4)][N]   column or sort column name
//	brev [5]           reverse-sort marker
//	ovct [4]           column marker
//	tvcw [6]           column width
//	otrk [4]           track marker, big-endian len(path)+8
//	ptrk [len(4)][N]   track path
//
// There is no outer offset table, so fields can only be located by walking
// the buffer tag by tag. Reader does this with a cursor and supports
// non-destructive tag probes: TryTag consumes the tag on a match and leaves
// the cursor where it was otherwise.
//
// # Usage
//
//	r := codec.NewReader(data)
//	for !r.Done() {
//	    if r.TryTag(codec.TagVersion) {
//	        version, err := r.ReadBytes(codec.VersionSize)
//	        if err != nil {
//	            return err
//	        }
//	        ...
//	    }
//	}
//
// Writer is the mirror image and is used to serialize a document:
//
//	w := codec.NewWriter()
//	w.WriteFixed(codec.TagVersion, version)
//	w.WriteLengthPrefixed(codec.TagColumnName, name)
//	out := w.Bytes()
//
// # Error Handling
//
// Every read that would run past the end of the buffer fails with a
// *TruncatedError, which matches ErrTruncatedInput under errors.Is. A failed
// read never moves the cursor and never returns a short slice.
//
// # Memory
//
// Reader never copies its buffer. Slices returned by ReadBytes and
// ReadLengthPrefixed alias the caller's memory and stay valid for as long as
// the caller keeps the buffer alive.
//
// # Thread Safety
//
// Reader and Writer are not safe for concurrent use.
package codec
