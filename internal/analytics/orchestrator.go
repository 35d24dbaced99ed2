package analytics

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/harborwell/reliva/internal/models"
	"golang.org/x/sync/singleflight"
)

// Orchestrator turns a filter into the minimal set of batched fetches,
// merges responses into the cache and hands a consistent snapshot to the
// aggregation engine. Concurrent pipeline runs needing the same key fold
// onto one in-flight request, even when their batches only overlap; runs
// whose filter revision was superseded mid-flight discard their output.
type Orchestrator struct {
	cache       *Cache
	source      DataSource
	group       singleflight.Group
	dateFlights *flightTable[uint]
	logFlights  *flightTable[LogKey]
	revision    atomic.Uint64
	now         func() time.Time

	dateIndexTTL time.Duration
	logTTL       time.Duration
}

func NewOrchestrator(cache *Cache, source DataSource) *Orchestrator {
	return &Orchestrator{
		cache:        cache,
		source:       source,
		dateFlights:  newFlightTable[uint](),
		logFlights:   newFlightTable[LogKey](),
		now:          time.Now,
		dateIndexTTL: DateIndexTTL,
		// Saved logs only change through explicit writes, which invalidate
		// their keys directly; stale entries are good enough to serve.
		logTTL: 0,
	}
}

// InvalidateWrite evicts the written (user, date) key and the owner's date
// index. Every save or delete must call this before the next read.
func (orchestrator *Orchestrator) InvalidateWrite(userID uint, date string) {
	orchestrator.cache.InvalidateLog(userID, date)
}

// RunPipeline executes one filter revision end to end: resolve the date
// index for the filtered users, intersect with the active window, fetch the
// absent logs in one batch, then aggregate. A newer call supersedes this
// one; superseded runs return ErrSuperseded instead of a stale result.
func (orchestrator *Orchestrator) RunPipeline(ctx context.Context, filter Filter) (Result, error) {
	revision := orchestrator.revision.Add(1)
	empty := Result{ChartData: []Point{}, ReductionData: []Reduction{}}

	catalog, err := orchestrator.ensureCatalog(ctx)
	if err != nil {
		return empty, err
	}
	userIDs, err := orchestrator.effectiveUsers(ctx, filter)
	if err != nil {
		return empty, err
	}
	if len(userIDs) == 0 {
		return empty, nil
	}

	if err := orchestrator.ensureDateIndex(ctx, userIDs); err != nil {
		return empty, err
	}
	if orchestrator.superseded(revision) {
		return empty, ErrSuperseded
	}

	index := orchestrator.cache.DateIndex(userIDs)
	dates, err := orchestrator.workingDates(filter, index)
	if err != nil {
		return empty, err
	}
	if len(dates) == 0 {
		return empty, nil
	}

	if err := orchestrator.ensureLogs(ctx, userIDs, dates); err != nil {
		return empty, err
	}
	if orchestrator.superseded(revision) {
		return empty, ErrSuperseded
	}

	snapshot := Snapshot{
		Logs:    orchestrator.cache.LogSnapshot(userIDs, dates),
		Index:   index,
		Catalog: catalog,
	}
	return Aggregate(snapshot, filter, userIDs, dates), nil
}

func (orchestrator *Orchestrator) superseded(revision uint64) bool {
	return orchestrator.revision.Load() != revision
}

func (orchestrator *Orchestrator) ensureCatalog(ctx context.Context) ([]models.Symptom, error) {
	if catalog, fresh := orchestrator.cache.Symptoms(orchestrator.now()); fresh {
		return catalog, nil
	}

	result, err, _ := orchestrator.group.Do("symptoms", func() (any, error) {
		catalog, err := orchestrator.source.Symptoms(ctx)
		if err != nil {
			return nil, &FetchError{Op: "symptom catalog", Err: err}
		}
		orchestrator.cache.PutSymptoms(catalog, orchestrator.now())
		return catalog, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Symptom), nil
}

func (orchestrator *Orchestrator) effectiveUsers(ctx context.Context, filter Filter) ([]uint, error) {
	if !filter.SelectsAllUsers() {
		return []uint{filter.UserID}, nil
	}

	if users, fresh := orchestrator.cache.Users(orchestrator.now()); fresh {
		return userIDsOf(users), nil
	}

	result, err, _ := orchestrator.group.Do("users", func() (any, error) {
		users, err := orchestrator.source.Users(ctx)
		if err != nil {
			return nil, &FetchError{Op: "user list", Err: err}
		}
		orchestrator.cache.PutUsers(users, orchestrator.now())
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return userIDsOf(result.([]UserRef)), nil
}

// ensureDateIndex fetches the date index for every user whose entry is
// absent or stale, in one batched call. Users already covered by another
// flight are subtracted from the batch and awaited instead; a finished
// flight may have failed, so the loop re-checks and takes over whatever it
// left unfetched. A successful merge stamps every returned user, including
// those with no saved dates.
func (orchestrator *Orchestrator) ensureDateIndex(ctx context.Context, userIDs []uint) error {
	for {
		needing := orchestrator.cache.UsersNeedingDates(userIDs, orchestrator.dateIndexTTL, orchestrator.now())
		if len(needing) == 0 {
			return nil
		}
		sort.Slice(needing, func(i, j int) bool { return needing[i] < needing[j] })

		claimed, done, waits := orchestrator.dateFlights.claim(needing)
		if len(claimed) > 0 {
			err := orchestrator.fetchDates(ctx, claimed)
			orchestrator.dateFlights.release(claimed, done)
			if err != nil {
				return err
			}
		}
		if len(waits) == 0 {
			return nil
		}
		for _, inFlight := range waits {
			select {
			case <-inFlight:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (orchestrator *Orchestrator) fetchDates(ctx context.Context, userIDs []uint) error {
	datesByUser, err := orchestrator.source.DatesBatch(ctx, userIDs)
	if err != nil {
		return &FetchError{Op: "date index batch", Err: err}
	}
	merged := make(map[uint][]string, len(userIDs))
	for _, userID := range userIDs {
		merged[userID] = datesByUser[userID]
	}
	orchestrator.cache.PutDates(merged, orchestrator.now())
	return nil
}

// workingDates intersects the union of the users' saved dates with the
// active window. The result is deduplicated and sorted ascending.
func (orchestrator *Orchestrator) workingDates(filter Filter, index map[uint][]string) ([]string, error) {
	var cutoff *time.Time
	if filter.Range != RangeCustom {
		cutoff = ResolveCutoff(filter.Range, orchestrator.now())
	}

	union := make([]string, 0)
	for _, dates := range index {
		union = append(union, dates...)
	}
	union = dedupeDateKeys(union)
	sortDateKeysAscending(union)

	working := make([]string, 0, len(union))
	for _, date := range union {
		day, err := ParseDateKey(date)
		if err != nil {
			return nil, err
		}
		if filter.windowContains(day, cutoff) {
			working = append(working, date)
		}
	}
	return working, nil
}

// ensureLogs fetches the absent (user, date) pairs in one batched call.
// Stale logs are tolerated and not refetched. Pairs already covered by
// another flight are subtracted and awaited; the remaining batch carries
// only the users and dates that cover its own pairs, each listed once.
func (orchestrator *Orchestrator) ensureLogs(ctx context.Context, userIDs []uint, dates []string) error {
	keys := make([]LogKey, 0, len(userIDs)*len(dates))
	for _, userID := range userIDs {
		for _, date := range dates {
			keys = append(keys, LogKey{UserID: userID, Date: date})
		}
	}

	for {
		missing, _ := orchestrator.cache.MissingLogs(keys, orchestrator.logTTL, orchestrator.now())
		if len(missing) == 0 {
			return nil
		}

		claimed, done, waits := orchestrator.logFlights.claim(missing)
		if len(claimed) > 0 {
			err := orchestrator.fetchLogs(ctx, claimed)
			orchestrator.logFlights.release(claimed, done)
			if err != nil {
				return err
			}
		}
		if len(waits) == 0 {
			return nil
		}
		for _, inFlight := range waits {
			select {
			case <-inFlight:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (orchestrator *Orchestrator) fetchLogs(ctx context.Context, missing []LogKey) error {
	batchUsers, batchDates := batchAxes(missing)
	fetched, err := orchestrator.source.LogsBatch(ctx, batchUsers, batchDates)
	if err != nil {
		return &FetchError{Op: "symptom log batch", Err: err}
	}

	// The source contract guarantees a record for every requested pair;
	// missing pairs are filled as empty so the completeness guard can
	// rely on presence alone.
	records := make(map[LogKey]LogRecord, len(batchUsers)*len(batchDates))
	for _, userID := range batchUsers {
		for _, date := range batchDates {
			record := LogRecord{Scores: []models.ScoreEntry{}}
			if byDate, exists := fetched[userID]; exists {
				if fetchedRecord, exists := byDate[date]; exists {
					record = fetchedRecord
				}
			}
			records[LogKey{UserID: userID, Date: date}] = record
		}
	}
	orchestrator.cache.PutLogs(records, orchestrator.now())
	return nil
}

// batchAxes reduces a key set to the deduplicated, sorted user and date
// axes of the batch request covering it.
func batchAxes(keys []LogKey) ([]uint, []string) {
	batchUsers := make([]uint, 0)
	batchDates := make([]string, 0)
	seenUsers := make(map[uint]struct{})
	seenDates := make(map[string]struct{})
	for _, key := range keys {
		if _, seen := seenUsers[key.UserID]; !seen {
			seenUsers[key.UserID] = struct{}{}
			batchUsers = append(batchUsers, key.UserID)
		}
		if _, seen := seenDates[key.Date]; !seen {
			seenDates[key.Date] = struct{}{}
			batchDates = append(batchDates, key.Date)
		}
	}
	sort.Slice(batchUsers, func(i, j int) bool { return batchUsers[i] < batchUsers[j] })
	sortDateKeysAscending(batchDates)
	return batchUsers, batchDates
}

func userIDsOf(users []UserRef) []uint {
	ids := make([]uint, 0, len(users))
	for _, user := range users {
		ids = append(ids, user.ID)
	}
	return ids
}
