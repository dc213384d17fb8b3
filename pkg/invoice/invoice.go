// Package invoice provides invoice number formatting and parsing.
//
// An invoice number is a fixed prefix, a day-resolution date stamp (YYMMDD)
// and a uniqueness suffix. How the suffix is produced is backend-specific:
// the embedded backend issues zero-padded per-day sequences, the hosted
// backend derives a sub-second clock fragment. Downstream code treats the
// whole number as an opaque string.
package invoice

import (
	"fmt"
	"strconv"
	"time"
)

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = "INV"

// seqWidth is the zero-padded width of sequential suffixes.
const seqWidth = 4

// DayPrefix returns the prefix shared by every number issued on the given
// day, e.g. "INV260901". Useful for prefix (LIKE) searches.
func DayPrefix(prefix string, day time.Time) string {
	return prefix + day.Format("060102")
}

// Format builds a sequential invoice number, e.g. "INV2609010007".
func Format(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s%0*d", DayPrefix(prefix, day), seqWidth, seq)
}

// FormatClock builds a clock-suffixed invoice number for backends that cannot
// take an exclusive lock across a network round trip. The suffix is the last
// four digits of the unix-millisecond timestamp: non-sequential, practically
// unique at POS throughput, and theoretically collidable under sub-millisecond
// concurrent writes (a relaxed guarantee, surfaced by the unique index if hit).
func FormatClock(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%04d", DayPrefix(prefix, now), now.UnixMilli()%10000)
}

// Sequence parses the trailing sequence of a number produced by Format.
// Returns -1 if the number does not carry a parseable sequence.
func Sequence(number string, prefix string) int {
	if len(number) <= len(prefix)+6 {
		return -1
	}
	seq, err := strconv.Atoi(number[len(prefix)+6:])
	if err != nil {
		return -1
	}
	return seq
}
