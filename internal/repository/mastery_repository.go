package repository

import (
	"errors"

	"github.com/plusprep/backend/internal/model"
	"gorm.io/gorm"
)

type MasteryRepository interface {
	// FindOrCreate loads the record for the tuple inside tx, creating a
	// fresh one when none exists yet.
	FindOrCreate(tx *gorm.DB, userID string, subject model.Subject, questionType model.QuestionType) (*model.MasteryRecord, error)
	Save(tx *gorm.DB, record *model.MasteryRecord) error
	FindAllByUser(userID string) ([]model.MasteryRecord, error)
}

type masteryRepository struct {
	db *gorm.DB
}

func NewMasteryRepository(db *gorm.DB) MasteryRepository {
	return &masteryRepository{db: db}
}

func (r *masteryRepository) FindOrCreate(tx *gorm.DB, userID string, subject model.Subject, questionType model.QuestionType) (*model.MasteryRecord, error) {
	if tx == nil {
		tx = r.db
	}
	var record model.MasteryRecord
	err := tx.Where("user_id = ? AND subject = ? AND question_type = ?", userID, subject, questionType).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record = model.MasteryRecord{
			UserID:       userID,
			Subject:      subject,
			QuestionType: questionType,
			CurrentLevel: 1,
		}
		if err := tx.Create(&record).Error; err != nil {
			return nil, err
		}
		return &record, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *masteryRepository) Save(tx *gorm.DB, record *model.MasteryRecord) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(record).Error
}

func (r *masteryRepository) FindAllByUser(userID string) ([]model.MasteryRecord, error) {
	var records []model.MasteryRecord
	err := r.db.Where("user_id = ?", userID).Find(&records).Error
	return records, err
}
