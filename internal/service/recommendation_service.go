package service

import (
	"fmt"
	"sort"

	"github.com/plusprep/backend/config"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/model"
	"github.com/plusprep/backend/internal/repository"
)

// RecommendationService is a read-only consumer of mastery records: it
// ranks weak and strong areas and picks the next-practice recommendations.
// Selection is deterministic; rich natural-language reasoning is an
// external collaborator's job.
type RecommendationService interface {
	GetWeakAreas(userID string, limit int) ([]dto.AreaDTO, error)
	GetStrongAreas(userID string, limit int) ([]dto.AreaDTO, error)
	GetRecommendations(userID string) ([]dto.RecommendationDTO, error)

	RankWeakAreas(records []model.MasteryRecord, limit int) []dto.AreaDTO
	RankStrongAreas(records []model.MasteryRecord, limit int) []dto.AreaDTO
	Recommend(records []model.MasteryRecord) []dto.RecommendationDTO
}

type recommendationService struct {
	masteryRepo repository.MasteryRepository
	defaultN    int
}

func NewRecommendationService(masteryRepo repository.MasteryRepository, cfg *config.Config) RecommendationService {
	n := cfg.Scoring.RecommendationLimit
	if n <= 0 {
		n = 3
	}
	return &recommendationService{masteryRepo: masteryRepo, defaultN: n}
}

func toAreas(records []model.MasteryRecord) []dto.AreaDTO {
	areas := make([]dto.AreaDTO, 0, len(records))
	for _, r := range records {
		if r.TotalAttempted < 1 {
			continue
		}
		areas = append(areas, dto.AreaDTO{
			Subject:      string(r.Subject),
			QuestionType: string(r.QuestionType),
			Mastery:      r.MasteryScore,
			Attempted:    r.TotalAttempted,
		})
	}
	return areas
}

// rankAreas sorts ascending by mastery (or descending for strong areas).
// Ties break toward the higher attempt count: more signal makes the
// ranking more trustworthy.
func rankAreas(records []model.MasteryRecord, limit int, ascending bool) []dto.AreaDTO {
	areas := toAreas(records)
	sort.SliceStable(areas, func(i, j int) bool {
		if areas[i].Mastery != areas[j].Mastery {
			if ascending {
				return areas[i].Mastery < areas[j].Mastery
			}
			return areas[i].Mastery > areas[j].Mastery
		}
		return areas[i].Attempted > areas[j].Attempted
	})
	if limit > 0 && len(areas) > limit {
		areas = areas[:limit]
	}
	return areas
}

func (s *recommendationService) RankWeakAreas(records []model.MasteryRecord, limit int) []dto.AreaDTO {
	return rankAreas(records, limit, true)
}

func (s *recommendationService) RankStrongAreas(records []model.MasteryRecord, limit int) []dto.AreaDTO {
	return rankAreas(records, limit, false)
}

func (s *recommendationService) Recommend(records []model.MasteryRecord) []dto.RecommendationDTO {
	weak := s.RankWeakAreas(records, s.defaultN)
	out := make([]dto.RecommendationDTO, 0, len(weak))
	for _, area := range weak {
		out = append(out, dto.RecommendationDTO{
			Subject:      area.Subject,
			QuestionType: area.QuestionType,
			Mastery:      area.Mastery,
			Reason:       fmt.Sprintf("accuracy below target (%.0f%%)", area.Mastery*100),
		})
	}
	return out
}

func (s *recommendationService) GetWeakAreas(userID string, limit int) ([]dto.AreaDTO, error) {
	records, err := s.masteryRepo.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.RankWeakAreas(records, limit), nil
}

func (s *recommendationService) GetStrongAreas(userID string, limit int) ([]dto.AreaDTO, error) {
	records, err := s.masteryRepo.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.RankStrongAreas(records, limit), nil
}

func (s *recommendationService) GetRecommendations(userID string) ([]dto.RecommendationDTO, error) {
	records, err := s.masteryRepo.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.Recommend(records), nil
}
