package services

import (
	"testing"

	"github.com/harborwell/reliva/internal/models"
)

type stubCatalogRepo struct {
	stored       []models.Symptom
	createCalled int
}

func (stub *stubCatalogRepo) CountAll() (int64, error) {
	return int64(len(stub.stored)), nil
}

func (stub *stubCatalogRepo) ListAll() ([]models.Symptom, error) {
	return stub.stored, nil
}

func (stub *stubCatalogRepo) CreateBatch(symptoms []models.Symptom) error {
	stub.createCalled++
	stub.stored = append(stub.stored, symptoms...)
	return nil
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	repo := &stubCatalogRepo{}
	service := NewCatalogService(repo)

	if err := service.EnsureSeeded(); err != nil {
		t.Fatalf("EnsureSeeded() unexpected error: %v", err)
	}
	if repo.createCalled != 1 {
		t.Fatalf("createCalled = %d, want the catalog seeded once", repo.createCalled)
	}
	if len(repo.stored) != len(models.DefaultSymptomCatalog()) {
		t.Fatalf("stored %d symptoms, want the full default catalog", len(repo.stored))
	}

	if err := service.EnsureSeeded(); err != nil {
		t.Fatalf("EnsureSeeded() unexpected error: %v", err)
	}
	if repo.createCalled != 1 {
		t.Fatalf("createCalled = %d, want no reseed on a populated catalog", repo.createCalled)
	}
}
