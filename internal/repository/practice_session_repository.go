package repository

import (
	"github.com/plusprep/backend/internal/model"
	"gorm.io/gorm"
)

type PracticeSessionRepository interface {
	Create(session *model.PracticeSession) error
	Save(session *model.PracticeSession) error
	FindByID(id string) (*model.PracticeSession, error)
	FindByIDWithAttempts(id string) (*model.PracticeSession, error)
	FindRecentByUser(userID string, limit int) ([]model.PracticeSession, error)
}

type practiceSessionRepository struct {
	db *gorm.DB
}

func NewPracticeSessionRepository(db *gorm.DB) PracticeSessionRepository {
	return &practiceSessionRepository{db: db}
}

func (r *practiceSessionRepository) Create(session *model.PracticeSession) error {
	return r.db.Create(session).Error
}

func (r *practiceSessionRepository) Save(session *model.PracticeSession) error {
	// Attempts are persisted through their own repository; Save only
	// touches the session row.
	return r.db.Omit("Attempts").Save(session).Error
}

func (r *practiceSessionRepository) FindByID(id string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	if err := r.db.First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *practiceSessionRepository) FindByIDWithAttempts(id string) (*model.PracticeSession, error) {
	var session model.PracticeSession
	err := r.db.Preload("Attempts", func(db *gorm.DB) *gorm.DB {
		return db.Order("attempts.created_at ASC")
	}).First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *practiceSessionRepository) FindRecentByUser(userID string, limit int) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	err := r.db.Preload("Attempts").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
