package db

import (
	"github.com/harborwell/reliva/internal/models"
	"gorm.io/gorm"
)

type SymptomRepository struct {
	database *gorm.DB
}

func NewSymptomRepository(database *gorm.DB) *SymptomRepository {
	return &SymptomRepository{database: database}
}

func (repo *SymptomRepository) CountAll() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Symptom{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *SymptomRepository) ListAll() ([]models.Symptom, error) {
	symptoms := make([]models.Symptom, 0)
	if err := repo.database.Order("category ASC, name ASC").Find(&symptoms).Error; err != nil {
		return nil, err
	}
	return symptoms, nil
}

func (repo *SymptomRepository) CreateBatch(symptoms []models.Symptom) error {
	if len(symptoms) == 0 {
		return nil
	}
	return repo.database.Create(&symptoms).Error
}
