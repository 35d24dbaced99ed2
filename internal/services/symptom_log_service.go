package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/harborwell/reliva/internal/models"
)

var (
	ErrLogNotFound      = errors.New("symptom log not found")
	ErrInvalidDateKey   = errors.New("date must use the 2006-01-02 format")
	ErrEmptyScores      = errors.New("scores are required")
	ErrDuplicateSymptom = errors.New("duplicate symptom ids in scores")
)

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type SymptomLogRepository interface {
	FindByUserAndDate(userID uint, date string) (models.SymptomLog, bool, error)
	Upsert(userID uint, date string, scores []models.ScoreEntry) (models.SymptomLog, error)
	DeleteByUserAndDate(userID uint, date string) (bool, error)
	ListDatesByUser(userID uint) ([]string, error)
	ListDatesByUsers(userIDs []uint) (map[uint][]string, error)
	ListByUsersAndDates(userIDs []uint, dates []string) ([]models.SymptomLog, error)
}

type SymptomLogService struct {
	logs SymptomLogRepository
}

func NewSymptomLogService(logs SymptomLogRepository) *SymptomLogService {
	return &SymptomLogService{logs: logs}
}

// ValidateDateKey rejects anything that is not a real calendar day in the
// normalized format.
func ValidateDateKey(date string) error {
	if !dateKeyPattern.MatchString(date) {
		return ErrInvalidDateKey
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDateKey
	}
	return nil
}

func ValidateScores(scores []models.ScoreEntry) error {
	if len(scores) == 0 {
		return ErrEmptyScores
	}
	seen := make(map[string]struct{}, len(scores))
	for _, score := range scores {
		if score.SymptomID == "" {
			return fmt.Errorf("%w: empty symptom id", ErrEmptyScores)
		}
		if _, duplicate := seen[score.SymptomID]; duplicate {
			return ErrDuplicateSymptom
		}
		seen[score.SymptomID] = struct{}{}
	}
	return nil
}

// Save upserts the log for (user, date): saving twice for the same day
// replaces the earlier score list rather than adding a second log.
func (service *SymptomLogService) Save(userID uint, date string, scores []models.ScoreEntry) (models.SymptomLog, error) {
	if err := ValidateDateKey(date); err != nil {
		return models.SymptomLog{}, err
	}
	if err := ValidateScores(scores); err != nil {
		return models.SymptomLog{}, err
	}
	return service.logs.Upsert(userID, date, scores)
}

// Get returns the log for (user, date). Absence is reported as
// ErrLogNotFound, a valid state distinct from a log with zero scores.
func (service *SymptomLogService) Get(userID uint, date string) (models.SymptomLog, error) {
	if err := ValidateDateKey(date); err != nil {
		return models.SymptomLog{}, err
	}
	entry, found, err := service.logs.FindByUserAndDate(userID, date)
	if err != nil {
		return models.SymptomLog{}, err
	}
	if !found {
		return models.SymptomLog{}, ErrLogNotFound
	}
	return entry, nil
}

func (service *SymptomLogService) Delete(userID uint, date string) error {
	if err := ValidateDateKey(date); err != nil {
		return err
	}
	deleted, err := service.logs.DeleteByUserAndDate(userID, date)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLogNotFound
	}
	return nil
}

// DatesForUser lists the days with a saved log, most recent first.
func (service *SymptomLogService) DatesForUser(userID uint) ([]string, error) {
	return service.logs.ListDatesByUser(userID)
}

// DatesBatch resolves every requested user's saved dates in one query; every
// requested user appears in the result, with an empty list when nothing is
// saved.
func (service *SymptomLogService) DatesBatch(userIDs []uint) (map[uint][]string, error) {
	if len(userIDs) == 0 {
		return nil, errors.New("userIds must be non-empty")
	}
	return service.logs.ListDatesByUsers(dedupeUserIDs(userIDs))
}

// LogsBatch shapes the batch response: an entry for every requested
// (user, date) pair, empty when no log exists, so callers can tell
// "fetched, empty" from "not yet fetched".
func (service *SymptomLogService) LogsBatch(userIDs []uint, dates []string) (map[uint]map[string][]models.ScoreEntry, error) {
	if len(userIDs) == 0 || len(dates) == 0 {
		return nil, errors.New("userIds and dates must be non-empty")
	}
	for _, date := range dates {
		if err := ValidateDateKey(date); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", date, err)
		}
	}

	uniqueUsers := dedupeUserIDs(userIDs)
	uniqueDates := dedupeDates(dates)

	result := make(map[uint]map[string][]models.ScoreEntry, len(uniqueUsers))
	for _, userID := range uniqueUsers {
		byDate := make(map[string][]models.ScoreEntry, len(uniqueDates))
		for _, date := range uniqueDates {
			byDate[date] = []models.ScoreEntry{}
		}
		result[userID] = byDate
	}

	logs, err := service.logs.ListByUsersAndDates(uniqueUsers, uniqueDates)
	if err != nil {
		return nil, err
	}
	for _, entry := range logs {
		if byDate, exists := result[entry.UserID]; exists {
			if _, requested := byDate[entry.Date]; requested {
				byDate[entry.Date] = entry.Scores
			}
		}
	}
	return result, nil
}

func dedupeUserIDs(userIDs []uint) []uint {
	seen := make(map[uint]struct{}, len(userIDs))
	deduped := make([]uint, 0, len(userIDs))
	for _, userID := range userIDs {
		if _, exists := seen[userID]; exists {
			continue
		}
		seen[userID] = struct{}{}
		deduped = append(deduped, userID)
	}
	return deduped
}

func dedupeDates(dates []string) []string {
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
