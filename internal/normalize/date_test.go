package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate_ISOInputsRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []string{
		"2021-06-15T10:30:00Z",
		"2021-06-15T10:30:00.250Z",
		"2021-06-15T12:30:00+02:00",
		"2021-06-15 10:30:00",
		"2021-06-15",
	}
	for _, in := range cases {
		got := NormalizeDate(in)
		require.NotEmpty(t, got, "input %q", in)

		want, err := time.Parse(time.RFC3339Nano, got)
		require.NoError(t, err, "output %q not ISO", got)
		assert.Equal(t, time.UTC, want.Location())
	}

	// Identity up to canonicalization: same instant in and out.
	assert.Equal(t, "2021-06-15T10:30:00.000Z", NormalizeDate("2021-06-15T12:30:00+02:00"))
}

func TestNormalizeDate_MillisecondsPath(t *testing.T) {
	t.Parallel()

	// Third time segment of length >= 3 is milliseconds; seconds forced to 00.
	assert.Equal(t, "2018-03-21T05:03:00.649Z", NormalizeDate("03/21/2018 05:03:649"))
}

func TestNormalizeDate_SecondsClamped(t *testing.T) {
	t.Parallel()

	// A two-digit third segment above 59 is clamped, not rejected.
	assert.Equal(t, "2018-03-21T05:03:59.000Z", NormalizeDate("03/21/2018 05:03:97"))
}

func TestNormalizeDate_DayFirstWhenFirstComponentExceedsTwelve(t *testing.T) {
	t.Parallel()

	// 13 cannot be a month, so the assignment swaps.
	assert.Equal(t, "2020-01-13T00:00:00.000Z", NormalizeDate("13/01/2020"))
	assert.Equal(t, "2020-01-13T00:00:00.000Z", NormalizeDate("01/13/2020"))
	// Ambiguous dates stay month-first.
	assert.Equal(t, "2020-01-03T00:00:00.000Z", NormalizeDate("01/03/2020"))
}

func TestNormalizeDate_TwoDigitYear(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2018-03-21T00:00:00.000Z", NormalizeDate("03/21/18"))
}

func TestNormalizeDate_AMPM(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2018-03-21T17:03:00.000Z", NormalizeDate("03/21/2018 05:03 PM"))
	assert.Equal(t, "2018-03-21T17:03:00.000Z", NormalizeDate("03/21/2018 05:03PM"))
	assert.Equal(t, "2018-03-21T05:03:00.000Z", NormalizeDate("03/21/2018 05:03 AM"))
	// Midnight edge case: 12 AM is hour zero.
	assert.Equal(t, "2018-03-21T00:15:00.000Z", NormalizeDate("03/21/2018 12:15 AM"))
	// Noon stays twelve.
	assert.Equal(t, "2018-03-21T12:15:00.000Z", NormalizeDate("03/21/2018 12:15 PM"))
}

func TestNormalizeDate_InvalidTimeFallsBackToDateOnly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2018-03-21T00:00:00.000Z", NormalizeDate("03/21/2018 99:99"))
}

func TestNormalizeDate_Unparseable(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "garbage", "99/99/9999", "02/30/2021 x", "tomorrow"} {
		assert.Empty(t, NormalizeDate(in), "input %q", in)
	}
	// February 30th does not exist and must not roll over into March.
	assert.Empty(t, NormalizeDate("02/30/2021"))
}
