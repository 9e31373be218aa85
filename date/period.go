package date

import (
	"fmt"
	"strings"
)

// Period is a whole calendar unit used to select report ranges.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
	// Custom is an explicit from..to range, it has no calendar boundaries.
	Custom
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("period(%d)", int(p))
	}
}

// ParsePeriod accepts english and spanish period names.
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "daily", "day", "diario", "dia", "día":
		return Daily, nil
	case "weekly", "week", "semanal", "semana":
		return Weekly, nil
	case "monthly", "month", "mensual", "mes":
		return Monthly, nil
	case "quarterly", "quarter", "trimestral", "trimestre":
		return Quarterly, nil
	case "yearly", "year", "anual", "año":
		return Yearly, nil
	case "custom", "personalizado":
		return Custom, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}
