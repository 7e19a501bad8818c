package calendar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNdaysInYears(t *testing.T) {
	require := require.New(t)

	require.Equal(0, gregorianDaysInYears(1900, 1900))
	require.Equal(365, gregorianDaysInYears(1900, 1901))
	require.Equal(366, gregorianDaysInYears(2000, 2001))
	require.Equal(365*400+100-4+1, gregorianDaysInYears(2000, 2400))

	require.Equal(365*100+25, julianDaysInYears(100, 200))
}

// The 2038 problem: time_t 0x7fffffff is Tue Jan 19 03:14:07 2038 UTC.
func TestAddSeconds2038Rollover(t *testing.T) {
	require := require.New(t)

	d, err := New(Gregorian, 1970, 1, 1)
	require.NoError(err)

	d = AddSeconds(d, 0x7fffffff)
	require.True(d.EqualClock(2038, 1, 19, 3, 14, 7))

	back := AddSeconds(d, -0x7fffffff)
	require.True(back.EqualClock(1970, 1, 1, 0, 0, 0))

	forward := AddSeconds(back, 0x7fffffff)
	diff, err := DiffSeconds(forward, d)
	require.NoError(err)
	require.Equal(0, diff)
}

func TestAddDaysAndSecondsRoundTrip(t *testing.T) {
	require := require.New(t)

	base, err := New(Gregorian, 1900, 10, 10)
	require.NoError(err)

	for _, v := range []int{-1000, 0, 1000, 10000} {
		x := AddSeconds(AddDays(base, v), v)
		x = AddSeconds(AddDays(x, -v), -v)

		require.Equal(base.year, x.year)
		require.Equal(base.month, x.month)
		require.Equal(base.day, x.day)
		require.Equal(base.sec, x.sec)
	}
}

func TestAddDaysNoLeapVs360Day(t *testing.T) {
	require := require.New(t)

	noleap, err := New(NoLeap, 2000, 1, 1)
	require.NoError(err)
	noleap = AddDays(noleap, 31+28)
	require.True(noleap.Equal(2000, 3, 1))

	day360, err := New(Day360, 2000, 1, 1)
	require.NoError(err)
	day360 = AddDays(day360, 31+28)
	require.True(day360.Equal(2000, 2, 30))
}

func TestLessThanWalk(t *testing.T) {
	require := require.New(t)

	d, err := New(Gregorian, 2000, 12, 10)
	require.NoError(err)

	for d.LessThan(2001, 3, 3) {
		d = AddDays(d, 1)
	}
	require.True(d.Equal(2001, 3, 3))
}

func TestNumDaysInMonth(t *testing.T) {
	require := require.New(t)

	d, err := New(Gregorian, 2000, 1, 1)
	require.NoError(err)
	require.Equal(31, d.NumDaysInMonth())

	d = AddMonths(d, 1)
	require.Equal(29, d.NumDaysInMonth())

	d = AddMonths(d, 12)
	require.Equal(28, d.NumDaysInMonth())
}

func TestJulianCalendar(t *testing.T) {
	require := require.New(t)

	d, err := New(Julian, 100, 1, 1)
	require.NoError(err)

	d = AddDays(d, 365*100+25+61)
	require.True(d.Equal(200, 3, 2))
}

func TestNewRejectsInvalidDate(t *testing.T) {
	require := require.New(t)

	_, err := New(Gregorian, 2001, 2, 29)
	require.Error(err)

	_, err = New(AllLeap, 2001, 2, 29)
	require.NoError(err)
}

func TestDiffRequiresMatchingKinds(t *testing.T) {
	require := require.New(t)

	a, err := New(Gregorian, 2000, 1, 1)
	require.NoError(err)
	b, err := New(Julian, 2000, 1, 1)
	require.NoError(err)

	_, err = DiffSeconds(b, a)
	require.Error(err)
}

func TestGuessExactMatch(t *testing.T) {
	require := require.New(t)

	origin := Components{Year: 0, Month: 1, Day: 1}
	target := Components{Year: 1850, Month: 1, Day: 1}

	d, err := New(Gregorian, target.Year, target.Month, target.Day)
	require.NoError(err)
	o, err := New(Gregorian, origin.Year, origin.Month, origin.Day)
	require.NoError(err)
	wantSec, err := DiffSeconds(d, o)
	require.NoError(err)

	kind, err := Guess(float64(wantSec), target, origin)
	require.NoError(err)
	require.Equal(Gregorian, kind)
}

func TestGuessUnresolved(t *testing.T) {
	require := require.New(t)

	origin := Components{Year: 0, Month: 1, Day: 1}
	target := Components{Year: 1850, Month: 1, Day: 1}

	_, err := Guess(1.5, target, origin)
	require.Error(err)
}
