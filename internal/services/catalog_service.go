package services

import "github.com/harborwell/reliva/internal/models"

type CatalogSymptomRepository interface {
	CountAll() (int64, error)
	ListAll() ([]models.Symptom, error)
	CreateBatch(symptoms []models.Symptom) error
}

// CatalogService serves the immutable symptom reference data.
type CatalogService struct {
	symptoms CatalogSymptomRepository
}

func NewCatalogService(symptoms CatalogSymptomRepository) *CatalogService {
	return &CatalogService{symptoms: symptoms}
}

func (service *CatalogService) ListSymptoms() ([]models.Symptom, error) {
	return service.symptoms.ListAll()
}

// EnsureSeeded populates the default catalog into an empty database. It is
// idempotent and safe to run on every boot.
func (service *CatalogService) EnsureSeeded() error {
	count, err := service.symptoms.CountAll()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return service.symptoms.CreateBatch(models.DefaultSymptomCatalog())
}
