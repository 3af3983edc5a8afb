package ingest

import (
	"strconv"
	"unicode/utf16"
)

// Fingerprint digests an article's title and description for duplicate
// suppression: a rolling 31-multiplier hash over the UTF-16 code units of
// title+description, wrapping in signed 32-bit arithmetic, rendered as the
// decimal string of the final value. Empty input yields "0".
//
// This is a checksum, not a cryptographic hash; colliding articles are
// treated as the same article and the later one is dropped.
func Fingerprint(title, description string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(title + description)) {
		h = h*31 + int32(unit)
	}

	return strconv.FormatInt(int64(h), 10)
}
