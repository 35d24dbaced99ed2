package analytics

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/harborwell/reliva/internal/models"
)

const maxReductionRows = 5

// Point is one trend series sample, keyed by normalized date.
type Point struct {
	Date  string  `json:"date"`
	Score float64 `json:"score"`
}

// Reduction is one row of the percentage-change ranking.
type Reduction struct {
	Symptom         string  `json:"symptom"`
	FormattedChange string  `json:"formattedChange"`
	RawPctChange    float64 `json:"rawPctChange"`
}

// Result is the derived analytics output. OverallChange is empty while
// required data is still loading.
type Result struct {
	ChartData     []Point     `json:"chartData"`
	ReductionData []Reduction `json:"reductionData"`
	OverallChange string      `json:"overallChange"`
}

// Snapshot is the read-only cache state the engine computes over.
type Snapshot struct {
	Logs    map[LogKey]LogRecord
	Index   map[uint][]string
	Catalog []models.Symptom
}

// Aggregate derives the trend series, reduction ranking and overall-change
// summary for the given effective user and date sets. It is pure: identical
// inputs always produce identical output, and it never mutates the snapshot.
// When any required (user, date) key has not been fetched yet it returns an
// empty result signalling "still loading".
func Aggregate(snapshot Snapshot, filter Filter, userIDs []uint, dates []string) Result {
	empty := Result{ChartData: []Point{}, ReductionData: []Reduction{}}
	if len(userIDs) == 0 || len(dates) == 0 || len(snapshot.Catalog) == 0 {
		return empty
	}
	for _, userID := range userIDs {
		for _, date := range dates {
			if _, fetched := snapshot.Logs[LogKey{UserID: userID, Date: date}]; !fetched {
				return empty
			}
		}
	}

	working := make([]string, len(dates))
	copy(working, dates)
	sortDateKeysAscending(working)

	hasEntry := entrySets(snapshot.Index, userIDs, working)

	seriesUsers := userIDs
	if filter.SelectsAllUsers() && filter.SelectsAllSymptoms() {
		seriesUsers = usersWithEnoughEntries(userIDs, hasEntry, 2)
	}

	chart := buildSeries(snapshot, filter, seriesUsers, working, hasEntry)
	reductions := buildReductions(snapshot, filter, userIDs, working, hasEntry)
	overall := overallChange(chart)

	return Result{ChartData: chart, ReductionData: reductions, OverallChange: overall}
}

// entrySets limits each user's date index to the working window.
func entrySets(index map[uint][]string, userIDs []uint, working []string) map[uint]map[string]struct{} {
	windowSet := make(map[string]struct{}, len(working))
	for _, date := range working {
		windowSet[date] = struct{}{}
	}

	sets := make(map[uint]map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		set := make(map[string]struct{})
		for _, date := range index[userID] {
			if _, inWindow := windowSet[date]; inWindow {
				set[date] = struct{}{}
			}
		}
		sets[userID] = set
	}
	return sets
}

// usersWithEnoughEntries drops users below the entry threshold. A
// single-entry user has no usable trend and would put a step discontinuity
// into a summed series when they enter or leave the window.
func usersWithEnoughEntries(userIDs []uint, hasEntry map[uint]map[string]struct{}, minimum int) []uint {
	qualified := make([]uint, 0, len(userIDs))
	for _, userID := range userIDs {
		if len(hasEntry[userID]) >= minimum {
			qualified = append(qualified, userID)
		}
	}
	return qualified
}

func buildSeries(snapshot Snapshot, filter Filter, userIDs []uint, working []string, hasEntry map[uint]map[string]struct{}) []Point {
	chart := make([]Point, 0, len(working))

	if !filter.SelectsAllUsers() {
		for _, date := range working {
			if _, exists := hasEntry[filter.UserID][date]; !exists {
				continue
			}
			record := snapshot.Logs[LogKey{UserID: filter.UserID, Date: date}]
			chart = append(chart, Point{Date: date, Score: entryScore(record, filter)})
		}
		return chart
	}

	// All users: sum per date across users with an entry that day. Dates
	// with zero contributing users are absent from the series, not zero.
	for _, date := range working {
		total := 0.0
		contributors := 0
		for _, userID := range userIDs {
			if _, exists := hasEntry[userID][date]; !exists {
				continue
			}
			record := snapshot.Logs[LogKey{UserID: userID, Date: date}]
			total += entryScore(record, filter)
			contributors++
		}
		if contributors > 0 {
			chart = append(chart, Point{Date: date, Score: total})
		}
	}
	return chart
}

// entryScore resolves one log's contribution: the sum of all numeric scores
// for the all-symptoms view (nil scores contribute zero, never NaN), or the
// single matching symptom's score, zero when absent or nil.
func entryScore(record LogRecord, filter Filter) float64 {
	if filter.SelectsAllSymptoms() {
		total := 0.0
		for _, entry := range record.Scores {
			if entry.Score != nil {
				total += *entry.Score
			}
		}
		return total
	}
	for _, entry := range record.Scores {
		if entry.SymptomID == filter.SymptomID && entry.Score != nil {
			return *entry.Score
		}
	}
	return 0
}

// datedValue is one numeric score with the day it was logged, kept so
// cross-user comparisons can order by date rather than by contributor.
type datedValue struct {
	date  string
	value float64
}

func buildReductions(snapshot Snapshot, filter Filter, userIDs []uint, working []string, hasEntry map[uint]map[string]struct{}) []Reduction {
	// Chronological (date, value) pairs per symptom per user; working is
	// already sorted ascending, so each user's slice is in date order.
	valuesBySymptom := make(map[string]map[uint][]datedValue)
	for _, userID := range userIDs {
		for _, date := range working {
			if _, exists := hasEntry[userID][date]; !exists {
				continue
			}
			record := snapshot.Logs[LogKey{UserID: userID, Date: date}]
			for _, entry := range record.Scores {
				if entry.Score == nil {
					continue
				}
				if !filter.SelectsAllSymptoms() && entry.SymptomID != filter.SymptomID {
					continue
				}
				byUser, exists := valuesBySymptom[entry.SymptomID]
				if !exists {
					byUser = make(map[uint][]datedValue)
					valuesBySymptom[entry.SymptomID] = byUser
				}
				byUser[userID] = append(byUser[userID], datedValue{date: date, value: *entry.Score})
			}
		}
	}

	perUserAverage := filter.SelectsAllUsers() && filter.SelectsAllSymptoms()
	names := symptomNames(snapshot.Catalog)

	reductions := make([]Reduction, 0, len(valuesBySymptom))
	for symptomID, byUser := range valuesBySymptom {
		pct, ok := symptomChange(byUser, filter.SelectsAllUsers(), perUserAverage)
		if !ok {
			continue
		}
		name := names[symptomID]
		if name == "" {
			name = symptomID
		}
		reductions = append(reductions, Reduction{
			Symptom:         name,
			FormattedChange: formatReductionChange(pct),
			RawPctChange:    pct,
		})
	}

	// Ascending by signed change: the most negative ranks first as the best
	// reduction. Tie-break by name so output is deterministic.
	sort.Slice(reductions, func(i, j int) bool {
		if reductions[i].RawPctChange == reductions[j].RawPctChange {
			return reductions[i].Symptom < reductions[j].Symptom
		}
		return reductions[i].RawPctChange < reductions[j].RawPctChange
	})
	if len(reductions) > maxReductionRows {
		reductions = reductions[:maxReductionRows]
	}
	return reductions
}

// symptomChange computes one symptom's percentage change. Users with fewer
// than two numeric values never qualify when aggregating all users. With
// every user and every symptom in play, each qualifying user's own
// first-to-last change is averaged; otherwise the qualifying users' values
// are pooled and compared between the chronologically first and last entry,
// no matter which user logged them.
func symptomChange(byUser map[uint][]datedValue, allUsers bool, perUserAverage bool) (float64, bool) {
	if perUserAverage {
		total := 0.0
		qualifying := 0
		for _, values := range byUser {
			if len(values) < 2 {
				continue
			}
			total += pctChange(values[0].value, values[len(values)-1].value)
			qualifying++
		}
		if qualifying == 0 {
			return 0, false
		}
		return total / float64(qualifying), true
	}

	pooled := make([]datedValue, 0)
	userIDs := make([]uint, 0, len(byUser))
	for userID := range byUser {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })
	for _, userID := range userIDs {
		values := byUser[userID]
		if allUsers && len(values) < 2 {
			continue
		}
		pooled = append(pooled, values...)
	}
	if len(pooled) < 2 {
		return 0, false
	}
	// Date keys sort lexicographically in date order. The stable sort keeps
	// the user-ID ordering as the tie-break for same-day entries.
	sort.SliceStable(pooled, func(i, j int) bool { return pooled[i].date < pooled[j].date })
	return pctChange(pooled[0].value, pooled[len(pooled)-1].value), true
}

// pctChange applies the zero-baseline rule: 0 to 0 is no change, 0 to
// anything else counts as a full 100% increase.
func pctChange(first float64, last float64) float64 {
	if first == 0 {
		if last == 0 {
			return 0
		}
		return 100
	}
	return (last - first) / first * 100
}

// overallChange summarizes the already-aggregated series, never a separate
// recomputation.
func overallChange(chart []Point) string {
	if len(chart) < 2 {
		return "Not enough data"
	}
	first := chart[0].Score
	last := chart[len(chart)-1].Score

	if first == 0 {
		if last == 0 {
			return "No change"
		}
		return "Started from 0 → " + formatScore(last)
	}

	change := (last - first) / first * 100
	if change > 0 {
		return fmt.Sprintf("+%.2f%%", change)
	}
	return fmt.Sprintf("%.2f%%", change)
}

func formatReductionChange(pct float64) string {
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

func formatScore(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func symptomNames(catalog []models.Symptom) map[string]string {
	names := make(map[string]string, len(catalog))
	for _, symptom := range catalog {
		names[symptom.Key] = symptom.Name
	}
	return names
}
