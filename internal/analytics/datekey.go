package analytics

import (
	"sort"
	"time"
)

// DateKeyFormat is the normalized calendar-day layout used as a map key.
// Two date keys are equal iff their formatted strings are equal.
const DateKeyFormat = "2006-01-02"

func FormatDateKey(value time.Time) string {
	return value.Format(DateKeyFormat)
}

func ParseDateKey(value string) (time.Time, error) {
	parsed, err := time.Parse(DateKeyFormat, value)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: "date must use the " + DateKeyFormat + " format"}
	}
	return parsed, nil
}

func sortDateKeysAscending(dates []string) {
	sort.Strings(dates)
}

func dedupeDateKeys(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	deduped := make([]string, 0, len(dates))
	for _, date := range dates {
		if _, exists := seen[date]; exists {
			continue
		}
		seen[date] = struct{}{}
		deduped = append(deduped, date)
	}
	return deduped
}
