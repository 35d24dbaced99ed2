package services

import (
	"context"

	"github.com/harborwell/reliva/internal/analytics"
	"github.com/harborwell/reliva/internal/models"
)

type AnalyticsUserRepository interface {
	ListMembers() ([]models.User, error)
}

// StoreSource feeds the analytics engine straight from the repositories, so
// the server's own trends endpoint skips the HTTP round trips an external
// engine would make.
type StoreSource struct {
	users   AnalyticsUserRepository
	catalog *CatalogService
	logs    *SymptomLogService
}

func NewStoreSource(users AnalyticsUserRepository, catalog *CatalogService, logs *SymptomLogService) *StoreSource {
	return &StoreSource{users: users, catalog: catalog, logs: logs}
}

func (source *StoreSource) Symptoms(ctx context.Context) ([]models.Symptom, error) {
	return source.catalog.ListSymptoms()
}

func (source *StoreSource) Users(ctx context.Context) ([]analytics.UserRef, error) {
	members, err := source.users.ListMembers()
	if err != nil {
		return nil, err
	}
	refs := make([]analytics.UserRef, 0, len(members))
	for _, member := range members {
		refs = append(refs, analytics.UserRef{ID: member.ID, Name: member.Name})
	}
	return refs, nil
}

func (source *StoreSource) DatesBatch(ctx context.Context, userIDs []uint) (map[uint][]string, error) {
	return source.logs.DatesBatch(userIDs)
}

func (source *StoreSource) LogsBatch(ctx context.Context, userIDs []uint, dates []string) (map[uint]map[string]analytics.LogRecord, error) {
	batch, err := source.logs.LogsBatch(userIDs, dates)
	if err != nil {
		return nil, err
	}

	records := make(map[uint]map[string]analytics.LogRecord, len(batch))
	for userID, byDate := range batch {
		byDateRecords := make(map[string]analytics.LogRecord, len(byDate))
		for date, scores := range byDate {
			byDateRecords[date] = analytics.LogRecord{Scores: scores}
		}
		records[userID] = byDateRecords
	}
	return records, nil
}
