package codec

// Field tags as they appear on disk.
const (
	TagVersion     = "vrsn"
	TagSort        = "osrt"
	TagColumnName  = "tvcn"
	TagReverse     = "brev"
	TagColumn      = "ovct"
	TagColumnWidth = "tvcw"
	TagTrack       = "otrk"
	TagTrackPath   = "ptrk"
)

// Payload sizes of the fixed-width fields.
const (
	TagSize         = 4
	LengthSize      = 4
	VersionSize     = 60
	SortSize        = 4
	ReverseSize     = 5
	ColumnSize      = 4
	ColumnWidthSize = 6
	TrackSize       = 4

	// TrackPathOverhead is the cost of the ptrk tag and its length prefix.
	// An otrk marker always equals len(path) + TrackPathOverhead.
	TrackPathOverhead = TagSize + LengthSize
)

// KnownTags lists every tag the crate grammar recognizes, in emission order.
var KnownTags = []string{
	TagVersion,
	TagSort,
	TagColumnName,
	TagReverse,
	TagColumn,
	TagColumnWidth,
	TagTrack,
	TagTrackPath,
}

// IsKnownTag reports whether b starts with one of the recognized tags.
func IsKnownTag(b []byte) bool {
	if len(b) < TagSize {
		return false
	}
	for _, tag := range KnownTags {
		if string(b[:TagSize]) == tag {
			return true
		}
	}
	return false
}
