package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)

func TestDayPrefix(t *testing.T) {
	assert.Equal(t, "INV260901", DayPrefix("INV", day))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "INV2609010001", Format("INV", day, 1))
	assert.Equal(t, "INV2609010042", Format("INV", day, 42))
	// Sequences beyond the pad width keep growing instead of wrapping.
	assert.Equal(t, "INV26090112345", Format("INV", day, 12345))
}

func TestSequenceRoundTrip(t *testing.T) {
	for _, seq := range []int{1, 7, 999, 10000} {
		n := Format("INV", day, seq)
		require.Equal(t, seq, Sequence(n, "INV"), "number %s", n)
	}
}

func TestSequenceRejectsMalformed(t *testing.T) {
	assert.Equal(t, -1, Sequence("INV260901", "INV"))
	assert.Equal(t, -1, Sequence("INV260901XX", "INV"))
	assert.Equal(t, -1, Sequence("", "INV"))
}

func TestConsecutiveSequencesDifferByOne(t *testing.T) {
	first := Format("INV", day, 3)
	second := Format("INV", day, 4)
	require.Equal(t, DayPrefix("INV", day), first[:9])
	require.Equal(t, first[:9], second[:9])
	assert.Equal(t, Sequence(first, "INV")+1, Sequence(second, "INV"))
}

func TestFormatClockCarriesDayStampAndFourDigits(t *testing.T) {
	n := FormatClock("INV", day)
	require.Len(t, n, len("INV260901")+4)
	assert.Equal(t, "INV260901", n[:9])

	// Distinct millisecond timestamps yield distinct suffixes.
	other := FormatClock("INV", day.Add(7*time.Millisecond))
	assert.NotEqual(t, n, other)
}
