package transform

import (
	"fmt"
	"time"
)

// Precision selects how much of a PartialDate FormatDate renders.
type Precision string

const (
	PrecisionYear  Precision = "year"
	PrecisionMonth Precision = "month"
	PrecisionDay   Precision = "day"
)

// PartialDate is a date as the upstream source reports it: the year is always
// present, month and day only sometimes.
type PartialDate struct {
	Year  int  `json:"year"`
	Month *int `json:"month,omitempty"`
	Day   *int `json:"day,omitempty"`
}

// DurationWindow is a start/end pair where either side may be missing.
// A missing end means the activity is still ongoing.
type DurationWindow struct {
	Start *PartialDate `json:"startDate,omitempty"`
	End   *PartialDate `json:"endDate,omitempty"`
}

// FormatDate renders a PartialDate as "YYYY", "YYYY-MM" or "YYYY-MM-DD"
// depending on precision. When a finer field is missing it falls back to the
// coarsest representation the date supports.
func FormatDate(d PartialDate, p Precision) (string, error) {
	switch p {
	case PrecisionYear:
		return fmt.Sprintf("%d", d.Year), nil
	case PrecisionMonth:
		if d.Month != nil {
			return fmt.Sprintf("%d-%02d", d.Year, *d.Month), nil
		}
		return fmt.Sprintf("%d", d.Year), nil
	case PrecisionDay:
		if d.Month != nil && d.Day != nil {
			return fmt.Sprintf("%d-%02d-%02d", d.Year, *d.Month, *d.Day), nil
		}
		if d.Month != nil {
			return fmt.Sprintf("%d-%02d", d.Year, *d.Month), nil
		}
		return fmt.Sprintf("%d", d.Year), nil
	default:
		return "", fmt.Errorf("invalid precision %q: must be year, month, or day", p)
	}
}

// FormatDuration renders a window as "{prefix}start to end{suffix}" at month
// precision. A missing start renders as "Unknown", a missing end as
// "Present". It never fails: defaults absorb all missing-data cases.
func FormatDuration(w DurationWindow, prefix, suffix string) string {
	start := "Unknown"
	if w.Start != nil {
		start, _ = FormatDate(*w.Start, PrecisionMonth)
	}
	end := "Present"
	if w.End != nil {
		end, _ = FormatDate(*w.End, PrecisionMonth)
	}
	return prefix + start + " to " + end + suffix
}

// IsOngoing reports whether a window is still running at now. No window or
// no end date counts as ongoing. An end date missing its month is read as
// December of that year.
func IsOngoing(w *DurationWindow, now time.Time) bool {
	if w == nil || w.End == nil {
		return true
	}
	month := 12
	if w.End.Month != nil {
		month = *w.End.Month
	}
	end := time.Date(w.End.Year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return !end.Before(now)
}
