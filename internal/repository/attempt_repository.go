package repository

import (
	"github.com/plusprep/backend/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.Attempt) error
	FindBySessionID(sessionID string) ([]model.Attempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.Attempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindBySessionID(sessionID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&attempts).Error
	return attempts, err
}
