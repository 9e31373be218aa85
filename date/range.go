package date

import (
	"fmt"
	"time"
)

// Range represents a range of dates, both boundaries included.
type Range struct{ From, To Date }

// NewRange return the well known period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Between creates a custom range. If 'from' is after 'to', they are swapped.
func Between(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// Resolve turns a period selector into a Range. For Custom, from and to are
// used as is (swapped if reversed), for every other period the range is the
// whole calendar unit containing 'on'.
func Resolve(p Period, on, from, to Date) (Range, error) {
	if p != Custom {
		if on.IsZero() {
			return Range{}, fmt.Errorf("a reference date is required for a %s range", p)
		}
		return NewRange(on, p), nil
	}
	if from.IsZero() || to.IsZero() {
		return Range{}, fmt.Errorf("a custom range requires both a start and an end date")
	}
	return Between(from, to), nil
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Period returns the period of this range if it's a standard one.
func (r Range) Period() (p Period, ok bool) {
	switch {
	case r.From == r.To:
		return Daily, true
	case r.From.Weekday() == time.Monday && r.From.EndOf(Weekly) == r.To:
		return Weekly, true
	case r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return Monthly, true
	case r.From.StartOf(Quarterly) == r.From && r.From.EndOf(Quarterly) == r.To:
		return Quarterly, true
	case r.From.StartOf(Yearly) == r.From && r.From.EndOf(Yearly) == r.To:
		return Yearly, true
	default:
		return Custom, false
	}
}

// Identifier compute a unique identifier for the Range.
// If the period is defined, use a short insighful name
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}

	switch p {
	case Daily:
		return r.From.String()
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	default:
		return r.From.Format("2006")
	}
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
