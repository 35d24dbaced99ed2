package analytics

import (
	"sync"
	"time"

	"github.com/harborwell/reliva/internal/models"
)

// Default TTLs: slow-changing listing data is refetched after five minutes;
// logs have no TTL because writes invalidate them explicitly.
const (
	CatalogTTL   = 5 * time.Minute
	UserListTTL  = 5 * time.Minute
	DateIndexTTL = 5 * time.Minute
)

// UserRef is the engine-facing projection of a user.
type UserRef struct {
	ID   uint
	Name string
}

// LogKey addresses one user's log for one calendar day.
type LogKey struct {
	UserID uint
	Date   string
}

// LogRecord is a fetched log value. An empty score list is a valid fetched
// state ("no scores that day"), distinct from the key being absent from the
// cache ("not fetched yet").
type LogRecord struct {
	Scores []models.ScoreEntry
}

// Entry pairs a cached value with its fetch timestamp. Entries are replaced
// wholesale on refetch, never mutated in place.
type Entry[T any] struct {
	Value     T
	FetchedAt time.Time
}

// Fresh reports whether an entry exists and its age is strictly below the
// TTL; an entry exactly as old as the TTL is already stale.
func Fresh[T any](entry *Entry[T], ttl time.Duration, now time.Time) bool {
	return entry != nil && now.Sub(entry.FetchedAt) < ttl
}

// Cache is the merged store of fetched values. It is owned by the
// orchestrator: fetch-completion handlers and invalidation events mutate it,
// the aggregation engine only reads snapshots of it.
type Cache struct {
	mu       sync.RWMutex
	logs     map[LogKey]Entry[LogRecord]
	dates    map[uint]Entry[[]string]
	symptoms *Entry[[]models.Symptom]
	users    *Entry[[]UserRef]
}

func NewCache() *Cache {
	return &Cache{
		logs:  make(map[LogKey]Entry[LogRecord]),
		dates: make(map[uint]Entry[[]string]),
	}
}

func (cache *Cache) Symptoms(now time.Time) ([]models.Symptom, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	if !Fresh(cache.symptoms, CatalogTTL, now) {
		return nil, false
	}
	return cache.symptoms.Value, true
}

func (cache *Cache) PutSymptoms(symptoms []models.Symptom, fetchedAt time.Time) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.symptoms = &Entry[[]models.Symptom]{Value: symptoms, FetchedAt: fetchedAt}
}

func (cache *Cache) Users(now time.Time) ([]UserRef, bool) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()
	if !Fresh(cache.users, UserListTTL, now) {
		return nil, false
	}
	return cache.users.Value, true
}

func (cache *Cache) PutUsers(users []UserRef, fetchedAt time.Time) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.users = &Entry[[]UserRef]{Value: users, FetchedAt: fetchedAt}
}

// UsersNeedingDates lists the users whose date index is absent or stale.
func (cache *Cache) UsersNeedingDates(userIDs []uint, ttl time.Duration, now time.Time) []uint {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	needing := make([]uint, 0, len(userIDs))
	for _, userID := range userIDs {
		entry, exists := cache.dates[userID]
		if !exists || !Fresh(&entry, ttl, now) {
			needing = append(needing, userID)
		}
	}
	return needing
}

func (cache *Cache) PutDates(datesByUser map[uint][]string, fetchedAt time.Time) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for userID, dates := range datesByUser {
		copied := make([]string, len(dates))
		copy(copied, dates)
		cache.dates[userID] = Entry[[]string]{Value: copied, FetchedAt: fetchedAt}
	}
}

// DateIndex snapshots the cached date lists for the given users. Users with
// no cached index are omitted.
func (cache *Cache) DateIndex(userIDs []uint) map[uint][]string {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	index := make(map[uint][]string, len(userIDs))
	for _, userID := range userIDs {
		entry, exists := cache.dates[userID]
		if !exists {
			continue
		}
		copied := make([]string, len(entry.Value))
		copy(copied, entry.Value)
		index[userID] = copied
	}
	return index
}

// MissingLogs classifies every requested key as absent, stale or valid.
// Absent and stale keys both need a fetch but are reported separately; a
// non-positive TTL disables staleness entirely. No key appears in both
// lists, and absent+stale+valid partitions the input exactly.
func (cache *Cache) MissingLogs(keys []LogKey, ttl time.Duration, now time.Time) (missing []LogKey, stale []LogKey) {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	missing = make([]LogKey, 0)
	stale = make([]LogKey, 0)
	for _, key := range keys {
		entry, exists := cache.logs[key]
		if !exists {
			missing = append(missing, key)
			continue
		}
		if ttl > 0 && !Fresh(&entry, ttl, now) {
			stale = append(stale, key)
		}
	}
	return missing, stale
}

func (cache *Cache) PutLogs(records map[LogKey]LogRecord, fetchedAt time.Time) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	for key, record := range records {
		cache.logs[key] = Entry[LogRecord]{Value: record, FetchedAt: fetchedAt}
	}
}

// LogSnapshot copies the cached records for the cross product of users and
// dates. Unfetched keys are simply absent from the result.
func (cache *Cache) LogSnapshot(userIDs []uint, dates []string) map[LogKey]LogRecord {
	cache.mu.RLock()
	defer cache.mu.RUnlock()

	snapshot := make(map[LogKey]LogRecord, len(userIDs)*len(dates))
	for _, userID := range userIDs {
		for _, date := range dates {
			key := LogKey{UserID: userID, Date: date}
			if entry, exists := cache.logs[key]; exists {
				snapshot[key] = entry.Value
			}
		}
	}
	return snapshot
}

// InvalidateLog evicts one (user, date) log together with the owning user's
// date index, forcing the next read to refetch both tiers.
func (cache *Cache) InvalidateLog(userID uint, date string) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	delete(cache.logs, LogKey{UserID: userID, Date: date})
	delete(cache.dates, userID)
}
