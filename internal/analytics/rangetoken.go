package analytics

import "time"

// RangeToken names a semantic time window ending at "now".
type RangeToken string

const (
	RangeWeek        RangeToken = "Week"
	RangeMonth       RangeToken = "Month"
	RangeThreeMonths RangeToken = "3 Months"
	RangeSixMonths   RangeToken = "6 Months"
	RangeYear        RangeToken = "Year"
	RangeAllTime     RangeToken = "All Time"
	RangeCustom      RangeToken = "custom"
)

// ResolveCutoff maps a named range token to its lower bound. All Time,
// custom and unrecognized tokens have no lower bound and resolve to nil.
// Pure in (token, now).
func ResolveCutoff(token RangeToken, now time.Time) *time.Time {
	switch token {
	case RangeWeek:
		cutoff := now.AddDate(0, 0, -7)
		return &cutoff
	case RangeMonth:
		return monthsBack(now, 1)
	case RangeThreeMonths:
		return monthsBack(now, 3)
	case RangeSixMonths:
		return monthsBack(now, 6)
	case RangeYear:
		return monthsBack(now, 12)
	default:
		return nil
	}
}

func monthsBack(now time.Time, months int) *time.Time {
	cutoff := subtractMonths(now, months)
	return &cutoff
}

// subtractMonths lands on the same day-of-month, clipped at the target
// month's last day (Mar 31 minus one month is Feb 28/29, never Mar 2).
// time.AddDate normalizes overflow instead, so the clip is explicit.
func subtractMonths(value time.Time, months int) time.Time {
	year := value.Year()
	month := int(value.Month()) - months
	for month < 1 {
		month += 12
		year--
	}

	day := value.Day()
	if last := lastDayOfMonth(year, time.Month(month)); day > last {
		day = last
	}

	hour, minute, second := value.Clock()
	return time.Date(year, time.Month(month), day, hour, minute, second, value.Nanosecond(), value.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
