package analytics

import "time"

// SymptomAll selects every symptom in the catalog.
const SymptomAll = "all"

// Filter is the active analytics selection. UserID zero selects every user.
// Either a named range token or the custom start/end pair is authoritative
// for the date window at any time.
type Filter struct {
	UserID    uint
	SymptomID string
	Range     RangeToken
	StartDate *time.Time
	EndDate   *time.Time
}

func (filter Filter) SelectsAllUsers() bool {
	return filter.UserID == 0
}

func (filter Filter) SelectsAllSymptoms() bool {
	return filter.SymptomID == "" || filter.SymptomID == SymptomAll
}

// windowContains reports whether a parsed date key falls inside the active
// window: at or after the named-range cutoff, and inside the inclusive
// custom start/end pair when both are set. Bounds are compared at calendar
// day granularity so a cutoff computed mid-day still admits its own day.
func (filter Filter) windowContains(day time.Time, cutoff *time.Time) bool {
	if cutoff != nil && day.Before(truncateToDay(*cutoff)) {
		return false
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		if day.Before(truncateToDay(*filter.StartDate)) || day.After(truncateToDay(*filter.EndDate)) {
			return false
		}
	}
	return true
}

func truncateToDay(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
