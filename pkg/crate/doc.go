// Package crate reads, edits and writes Serato crate files.
//
// A crate is a named list of track paths plus the columns shown for it and an
// optional sort column. Open (or Parse) turns the file into a Document, the
// Add/Delete methods edit it in memory and Save writes it back:
//
//	doc, err := crate.Open("Subcrates/House.crate", crate.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	if err := doc.AddTrack("Music/a.mp3"); err != nil && !errors.Is(err, crate.ErrDuplicateTrack) {
//	    return err
//	}
//	return doc.Save()
//
// Everything read from the file is kept as raw bytes. Re-serializing a
// document that was not modified reproduces the input byte for byte.
//
// Names passed to the string mutators go through a NameEncoding first. The
// default, LegacyEncoding, pads every byte with a leading zero, which matches
// UTF-16BE for ASCII names. Use WithNameEncoding(UTF16Encoding{}) for full
// Unicode or the *Bytes variants to bypass encoding entirely.
//
// Save serializes to memory, runs the registered backups and then replaces
// the file atomically. Backup failures are logged and never block a save.
//
// A Document is not safe for concurrent use.
package crate
