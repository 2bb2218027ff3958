package repository

import (
	"github.com/plusprep/backend/internal/model"
	"gorm.io/gorm"
)

// QuestionFilter narrows question selection; zero values mean no filter.
type QuestionFilter struct {
	Subject      model.Subject
	QuestionType model.QuestionType
	Difficulty   int
	ExcludeIDs   []string
}

type QuestionRepository interface {
	Create(question *model.Question) error
	CreateBatch(questions []model.Question) error
	FindByID(id string) (*model.Question, error)
	FindByIDs(ids []string) ([]model.Question, error)
	FindFiltered(filter QuestionFilter, limit int, randomOrder bool) ([]model.Question, error)
	Count(filter QuestionFilter) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) CreateBatch(questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Create(&questions).Error
}

func (r *questionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindByIDs(ids []string) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) applyFilter(query *gorm.DB, filter QuestionFilter) *gorm.DB {
	if filter.Subject != "" {
		query = query.Where("subject = ?", filter.Subject)
	}
	if filter.QuestionType != "" {
		query = query.Where("question_type = ?", filter.QuestionType)
	}
	if filter.Difficulty > 0 {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	return query
}

func (r *questionRepository) FindFiltered(filter QuestionFilter, limit int, randomOrder bool) ([]model.Question, error) {
	var questions []model.Question
	query := r.applyFilter(r.db.Model(&model.Question{}), filter)
	if randomOrder {
		query = query.Order("RANDOM()")
	} else {
		query = query.Order("created_at DESC")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&questions).Error
	return questions, err
}

func (r *questionRepository) Count(filter QuestionFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.Model(&model.Question{}), filter).Count(&count).Error
	return count, err
}
