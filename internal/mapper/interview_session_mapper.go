package mapper

import (
	"encoding/json"
	"time"

	"career-coach-be/internal/entity"
	"career-coach-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InterviewSessionMapper struct{}

func NewInterviewSessionMapper() *InterviewSessionMapper {
	return &InterviewSessionMapper{}
}

func (m *InterviewSessionMapper) ToEntity(s *model.InterviewSession) *entity.InterviewSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var questions []map[string]any
	if len(s.Questions) > 0 {
		_ = json.Unmarshal(s.Questions, &questions)
	}
	var answers []map[string]any
	if len(s.Answers) > 0 {
		_ = json.Unmarshal(s.Answers, &answers)
	}

	return &entity.InterviewSession{
		Id:           s.Id,
		UserId:       s.UserId,
		SessionId:    s.SessionId,
		TargetRole:   s.TargetRole,
		Status:       s.Status,
		Questions:    questions,
		Answers:      answers,
		AverageScore: s.AverageScore,
		OverallLevel: s.OverallLevel,
		SummaryText:  s.SummaryText,
		EmailedAt:    s.EmailedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    s.DeletedAt.Valid,
	}
}

func (m *InterviewSessionMapper) ToModel(s *entity.InterviewSession) *model.InterviewSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var questions datatypes.JSON
	if len(s.Questions) > 0 {
		if raw, err := json.Marshal(s.Questions); err == nil {
			questions = raw
		}
	}
	var answers datatypes.JSON
	if len(s.Answers) > 0 {
		if raw, err := json.Marshal(s.Answers); err == nil {
			answers = raw
		}
	}

	return &model.InterviewSession{
		Id:           s.Id,
		UserId:       s.UserId,
		SessionId:    s.SessionId,
		TargetRole:   s.TargetRole,
		Status:       s.Status,
		Questions:    questions,
		Answers:      answers,
		AverageScore: s.AverageScore,
		OverallLevel: s.OverallLevel,
		SummaryText:  s.SummaryText,
		EmailedAt:    s.EmailedAt,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *InterviewSessionMapper) ToEntities(sessions []*model.InterviewSession) []*entity.InterviewSession {
	entities := make([]*entity.InterviewSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
