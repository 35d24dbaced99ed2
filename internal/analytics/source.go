package analytics

import (
	"context"

	"github.com/harborwell/reliva/internal/models"
)

// DataSource is the persistence collaborator the orchestrator fetches from.
// Batch methods carry many logical keys in one call; LogsBatch must return a
// record (possibly with no scores) for every requested (user, date) pair so
// "fetched, empty" stays distinguishable from "not fetched".
type DataSource interface {
	Symptoms(ctx context.Context) ([]models.Symptom, error)
	Users(ctx context.Context) ([]UserRef, error)
	DatesBatch(ctx context.Context, userIDs []uint) (map[uint][]string, error)
	LogsBatch(ctx context.Context, userIDs []uint, dates []string) (map[uint]map[string]LogRecord, error)
}
