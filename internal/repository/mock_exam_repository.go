package repository

import (
	"github.com/plusprep/backend/internal/model"
	"gorm.io/gorm"
)

type MockExamRepository interface {
	Create(exam *model.MockExamSession) error
	Save(exam *model.MockExamSession) error
	FindByID(id string) (*model.MockExamSession, error)
}

type mockExamRepository struct {
	db *gorm.DB
}

func NewMockExamRepository(db *gorm.DB) MockExamRepository {
	return &mockExamRepository{db: db}
}

func (r *mockExamRepository) Create(exam *model.MockExamSession) error {
	return r.db.Create(exam).Error
}

func (r *mockExamRepository) Save(exam *model.MockExamSession) error {
	return r.db.Save(exam).Error
}

func (r *mockExamRepository) FindByID(id string) (*model.MockExamSession, error) {
	var exam model.MockExamSession
	if err := r.db.First(&exam, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}
