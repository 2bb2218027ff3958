package service

import (
	"sync"
	"time"

	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/model"
	"github.com/plusprep/backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MasteryService is the mastery aggregator. It consumes finalized attempt
// batches from completing sessions and maintains the per (user, subject,
// question-type) rolling statistics.
type MasteryService interface {
	// RecordAttempts folds one session's attempt batch into the user's
	// mastery records. Updates for the same user are serialized; counters
	// only increase and mastery is recomputed from the lifetime totals.
	RecordAttempts(userID string, attempts []model.GradedAttempt) ([]model.MasteryRecord, error)
	GetRecords(userID string) ([]model.MasteryRecord, error)
	GetSummary(userID string) (*dto.ProgressSummaryDTO, error)
}

type masteryService struct {
	masteryRepo repository.MasteryRepository
	sessionRepo repository.PracticeSessionRepository
	recommender RecommendationService
	db          *gorm.DB

	// userLocks serializes concurrent completions for the same user so
	// that two batches merge by sequential application, never by a
	// read-modify-write race. Distinct users proceed in parallel.
	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

func NewMasteryService(
	masteryRepo repository.MasteryRepository,
	sessionRepo repository.PracticeSessionRepository,
	recommender RecommendationService,
	db *gorm.DB,
) MasteryService {
	return &masteryService{
		masteryRepo: masteryRepo,
		sessionRepo: sessionRepo,
		recommender: recommender,
		db:          db,
		userLocks:   make(map[string]*sync.Mutex),
	}
}

func (s *masteryService) lockFor(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

func (s *masteryService) RecordAttempts(userID string, attempts []model.GradedAttempt) ([]model.MasteryRecord, error) {
	if len(attempts) == 0 {
		return nil, nil
	}

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	var updated []model.MasteryRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// One record per tuple; attempts are applied in arrival order so
		// the streak reflects the actual answer sequence.
		records := make(map[model.Subject]map[model.QuestionType]*model.MasteryRecord)
		for _, attempt := range attempts {
			byType, ok := records[attempt.Subject]
			if !ok {
				byType = make(map[model.QuestionType]*model.MasteryRecord)
				records[attempt.Subject] = byType
			}
			record, ok := byType[attempt.QuestionType]
			if !ok {
				var err error
				record, err = s.masteryRepo.FindOrCreate(tx, userID, attempt.Subject, attempt.QuestionType)
				if err != nil {
					return err
				}
				byType[attempt.QuestionType] = record
			}
			record.Apply(attempt.Correct, now)
		}

		for _, byType := range records {
			for _, record := range byType {
				if err := s.masteryRepo.Save(tx, record); err != nil {
					return err
				}
				updated = append(updated, *record)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("RecordAttempts: transaction failed")
		return nil, err
	}

	log.Info().Str("userID", userID).Int("attempts", len(attempts)).Int("records", len(updated)).Msg("Mastery records updated")
	return updated, nil
}

func (s *masteryService) GetRecords(userID string) ([]model.MasteryRecord, error) {
	return s.masteryRepo.FindAllByUser(userID)
}

func (s *masteryService) GetSummary(userID string) (*dto.ProgressSummaryDTO, error) {
	records, err := s.masteryRepo.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &dto.ProgressSummaryDTO{
		UserID:   userID,
		Subjects: make(map[string]dto.SubjectProgressDTO),
	}

	totalAttempted, totalCorrect := 0, 0
	for _, r := range records {
		subject := summary.Subjects[string(r.Subject)]
		if subject.Types == nil {
			subject.Types = make(map[string]dto.MasteryRecordDTO)
		}
		subject.TotalAttempted += r.TotalAttempted
		subject.TotalCorrect += r.TotalCorrect
		subject.Types[string(r.QuestionType)] = dto.MasteryRecordDTO{
			Subject:        string(r.Subject),
			QuestionType:   string(r.QuestionType),
			TotalAttempted: r.TotalAttempted,
			TotalCorrect:   r.TotalCorrect,
			MasteryScore:   r.MasteryScore,
			Streak:         r.Streak,
			CurrentLevel:   r.CurrentLevel,
			LastPracticed:  r.LastPracticed,
		}
		summary.Subjects[string(r.Subject)] = subject

		totalAttempted += r.TotalAttempted
		totalCorrect += r.TotalCorrect
	}

	// Subject mastery is the attempt-weighted average of its type
	// masteries, which for cumulative accuracy is correct over attempted.
	for name, subject := range summary.Subjects {
		if subject.TotalAttempted > 0 {
			subject.Mastery = float64(subject.TotalCorrect) / float64(subject.TotalAttempted)
			summary.Subjects[name] = subject
		}
	}
	if totalAttempted > 0 {
		summary.OverallMastery = float64(totalCorrect) / float64(totalAttempted)
	}

	summary.WeakAreas = s.recommender.RankWeakAreas(records, 0)
	summary.StrongAreas = s.recommender.RankStrongAreas(records, 0)
	summary.RecommendedNext = s.recommender.Recommend(records)

	sessions, err := s.sessionRepo.FindRecentByUser(userID, 5)
	if err != nil {
		log.Warn().Err(err).Str("userID", userID).Msg("GetSummary: failed to load recent sessions")
	}
	for _, session := range sessions {
		result := session.Result()
		entry := dto.RecentSessionDTO{
			Date:      session.StartedAt,
			Questions: result.TotalQuestions,
			Correct:   result.CorrectAnswers,
		}
		if session.Subject != nil {
			entry.Subject = string(*session.Subject)
		}
		summary.RecentActivity = append(summary.RecentActivity, entry)
	}

	return summary, nil
}
