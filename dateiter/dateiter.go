// Package dateiter implements a fixed-step date/time cursor used to predict
// the data-record stamps of a chunk file generated "at every N months/days/
// seconds" without opening the file. Grounded on the original library's
// dateiter.c/dateiter.h (setDateIterator, nextDateIterator,
// cmpDateIterator), built atop package calendar instead of caltime.c
// directly.
package dateiter

import "github.com/kjoti/gt3/calendar"

// Step is a stride expressed the way a header's TDUR-derived step is: whole
// months (folded from years+months), whole days, and whole seconds (folded
// from hours+minutes+seconds). The three components are applied in that
// order on every advance, matching ct_add_months/ct_add_days/ct_add_seconds
// applied in sequence.
type Step struct {
	Year, Mon, Day, Hour, Min, Sec int
}

// Iterator is a cursor over a sequence of calendar stops starting at some
// initial date and advancing by a fixed Step, matching DateIterator.
type Iterator struct {
	count            int
	dmon, dday, dsec int
	next             calendar.Date
}

// New builds an Iterator starting at initial (under calendar kind) and
// immediately advances it by one step, matching setDateIterator (which
// applies the step once before returning, so the first stop the caller
// observes is never the initial date itself).
func New(kind calendar.Kind, initial calendar.Components, step Step) (*Iterator, error) {
	d, err := calendar.New(kind, initial.Year, initial.Month, initial.Day)
	if err != nil {
		return nil, err
	}
	d, err = d.SetTime(initial.Hour*3600 + initial.Min*60 + initial.Sec)
	if err != nil {
		return nil, err
	}

	it := &Iterator{
		dmon: 12*step.Year + step.Mon,
		dday: step.Day,
		dsec: step.Sec + 60*(step.Min+60*step.Hour),
	}

	d = calendar.AddMonths(d, it.dmon)
	d = calendar.AddDays(d, it.dday)
	d = calendar.AddSeconds(d, it.dsec)
	it.next = d

	return it, nil
}

// Next advances the iterator to its next stop, matching nextDateIterator.
func (it *Iterator) Next() {
	it.next = calendar.AddMonths(it.next, it.dmon)
	it.next = calendar.AddDays(it.next, it.dday)
	it.next = calendar.AddSeconds(it.next, it.dsec)
	it.count++
}

// Count returns the number of stops already passed.
func (it *Iterator) Count() int {
	return it.count
}

// Date returns the iterator's current stop.
func (it *Iterator) Date() calendar.Date {
	return it.next
}

// Compare compares the iterator's current stop against date, matching
// cmpDateIterator: 0 if date names exactly the current stop, -1 if date is
// earlier, 1 if date is later.
func (it *Iterator) Compare(date calendar.Components) int {
	y1, mo1, d1 := it.next.Date()
	h1, m1, s1 := it.next.Clock()

	v1 := [4]int{y1, mo1 - 1, d1 - 1, h1*3600 + m1*60 + s1}
	v2 := [4]int{date.Year, date.Month - 1, date.Day - 1, date.Sec + 60*(date.Min+60*date.Hour)}

	for i := 0; i < 4; i++ {
		diff := v2[i] - v1[i]
		if diff != 0 {
			if diff > 0 {
				return 1
			}
			return -1
		}
	}

	return 0
}
