package dateiter

import (
	"testing"

	"github.com/kjoti/gt3/calendar"
	"github.com/stretchr/testify/require"
)

func TestDailyStepCoversOneYear(t *testing.T) {
	require := require.New(t)

	initial := calendar.Components{Year: 1900, Month: 1, Day: 1}
	last := calendar.Components{Year: 1901, Month: 1, Day: 1}
	step := Step{Day: 1}

	it, err := New(calendar.Gregorian, initial, step)
	require.NoError(err)

	count := 0
	for it.Compare(last) >= 0 {
		count++
		it.Next()
		require.Less(count, 1000, "iterator did not converge")
	}

	require.Equal(365, it.Count())

	y, mo, d := it.Date().Date()
	require.Equal(1901, y)
	require.Equal(1, mo)
	require.Equal(2, d)
}

func TestMonthlyStepAdvancesWholeMonths(t *testing.T) {
	require := require.New(t)

	initial := calendar.Components{Year: 2000, Month: 1, Day: 15}
	step := Step{Mon: 1}

	it, err := New(calendar.Gregorian, initial, step)
	require.NoError(err)

	y, mo, d := it.Date().Date()
	require.Equal(2000, y)
	require.Equal(2, mo)
	require.Equal(15, d)

	it.Next()
	y, mo, d = it.Date().Date()
	require.Equal(2000, y)
	require.Equal(3, mo)
	require.Equal(15, d)
}

func TestCompareExactMatch(t *testing.T) {
	require := require.New(t)

	initial := calendar.Components{Year: 2000, Month: 1, Day: 1}
	step := Step{Day: 1}

	it, err := New(calendar.Gregorian, initial, step)
	require.NoError(err)

	require.Equal(0, it.Compare(calendar.Components{Year: 2000, Month: 1, Day: 2}))
	require.Equal(-1, it.Compare(calendar.Components{Year: 2000, Month: 1, Day: 1}))
	require.Equal(1, it.Compare(calendar.Components{Year: 2000, Month: 1, Day: 3}))
}
