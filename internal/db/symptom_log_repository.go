package db

import (
	"github.com/harborwell/reliva/internal/models"
	"gorm.io/gorm"
)

type SymptomLogRepository struct {
	database *gorm.DB
}

func NewSymptomLogRepository(database *gorm.DB) *SymptomLogRepository {
	return &SymptomLogRepository{database: database}
}

func (repo *SymptomLogRepository) FindByUserAndDate(userID uint, date string) (models.SymptomLog, bool, error) {
	entry := models.SymptomLog{}
	result := repo.database.
		Where("user_id = ? AND date = ?", userID, date).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.SymptomLog{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.SymptomLog{}, false, nil
	}
	return entry, true, nil
}

// Upsert replaces the score list of an existing (user, date) log or creates
// the log when none exists yet.
func (repo *SymptomLogRepository) Upsert(userID uint, date string, scores []models.ScoreEntry) (models.SymptomLog, error) {
	var saved models.SymptomLog
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		entry := models.SymptomLog{}
		result := tx.
			Where("user_id = ? AND date = ?", userID, date).
			Limit(1).
			Find(&entry)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			entry = models.SymptomLog{UserID: userID, Date: date, Scores: scores}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			saved = entry
			return nil
		}

		entry.Scores = scores
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		saved = entry
		return nil
	})
	if err != nil {
		return models.SymptomLog{}, err
	}
	return saved, nil
}

func (repo *SymptomLogRepository) DeleteByUserAndDate(userID uint, date string) (bool, error) {
	result := repo.database.
		Where("user_id = ? AND date = ?", userID, date).
		Delete(&models.SymptomLog{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListDatesByUser returns the distinct dates with a saved log, most recent
// first.
func (repo *SymptomLogRepository) ListDatesByUser(userID uint) ([]string, error) {
	dates := make([]string, 0)
	if err := repo.database.Model(&models.SymptomLog{}).
		Where("user_id = ?", userID).
		Order("date DESC").
		Distinct().
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

type userDateRow struct {
	UserID uint   `gorm:"column:user_id"`
	Date   string `gorm:"column:date"`
}

// ListDatesByUsers resolves every requested user's saved dates in one query.
// Users without logs are present in the result with an empty list.
func (repo *SymptomLogRepository) ListDatesByUsers(userIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(userIDs))
	for _, userID := range userIDs {
		result[userID] = []string{}
	}
	if len(userIDs) == 0 {
		return result, nil
	}

	rows := make([]userDateRow, 0)
	if err := repo.database.Model(&models.SymptomLog{}).
		Select("user_id", "date").
		Where("user_id IN ?", userIDs).
		Order("date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.Date)
	}
	return result, nil
}

// ListByUsersAndDates fetches all logs for the cross product of users and
// dates in one query.
func (repo *SymptomLogRepository) ListByUsersAndDates(userIDs []uint, dates []string) ([]models.SymptomLog, error) {
	logs := make([]models.SymptomLog, 0)
	if len(userIDs) == 0 || len(dates) == 0 {
		return logs, nil
	}
	if err := repo.database.
		Where("user_id IN ? AND date IN ?", userIDs, dates).
		Order("user_id ASC, date ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
