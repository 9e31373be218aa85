package cmd

import (
	"flag"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/date"
)

// rangeFlags selects a date range from the command line.
type rangeFlags struct {
	period string
	on     string
	from   string
	to     string
}

func (r *rangeFlags) SetFlags(f *flag.FlagSet, defaultPeriod string) {
	f.StringVar(&r.period, "p", defaultPeriod, "Period (day, week, month, quarter, year).")
	f.StringVar(&r.on, "d", "", "A date within the period. Defaults to today.")
	f.StringVar(&r.from, "from", "", "Start of a custom range. Overrides -p.")
	f.StringVar(&r.to, "to", "", "End of a custom range. Defaults to today.")
}

// isSet reports whether any range flag was given.
func (r *rangeFlags) isSet() bool {
	return r.period != "" || r.on != "" || r.from != "" || r.to != ""
}

// Range resolves the flags.
func (r *rangeFlags) Range() (date.Range, error) {
	on, err := parseDate("d", r.on)
	if err != nil {
		return date.Range{}, err
	}
	if on.IsZero() {
		on = date.Today()
	}
	if r.from != "" {
		from, err := parseDate("from", r.from)
		if err != nil {
			return date.Range{}, err
		}
		to, err := parseDate("to", r.to)
		if err != nil {
			return date.Range{}, err
		}
		if to.IsZero() {
			to = date.Today()
		}
		return date.Resolve(date.Custom, on, from, to)
	}
	p, err := date.ParsePeriod(r.period)
	if err != nil {
		return date.Range{}, &cashbook.ValidationError{Field: "p", Value: r.period, Reason: err.Error()}
	}
	if p == date.Custom {
		return date.Range{}, &cashbook.ValidationError{Field: "from", Reason: "a custom period needs -from"}
	}
	return date.Resolve(p, on, date.Date{}, date.Date{})
}
