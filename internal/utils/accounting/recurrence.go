package accounting

import "time"

// TruncateToDate returns the calendar date of t as seen in loc, as UTC midnight.
// Every date in the ledger is carried in this form so dates compare with Equal.
func TruncateToDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsClamped moves t forward n calendar months keeping its day of month,
// clamped to the last day of the target month (Jan 31 + 1 => Feb 28 or 29).
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	year := y + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	target := time.Month(month + 1)
	if last := daysIn(year, target); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(year, target, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// MonthlyOccurrences lists the occurrences of a monthly cycle starting at
// anchor that fall within [from, to]. Each occurrence is one month after the
// previous one, clamped, so a clamp carries forward (Jan 31, Feb 28, Mar 28).
func MonthlyOccurrences(anchor, from, to time.Time) []time.Time {
	if to.Before(from) || anchor.After(to) {
		return nil
	}
	var out []time.Time
	for occ := anchor; !occ.After(to); occ = AddMonthsClamped(occ, 1) {
		if !occ.Before(from) {
			out = append(out, occ)
		}
	}
	return out
}
