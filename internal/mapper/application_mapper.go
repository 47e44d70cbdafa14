package mapper

import (
	"encoding/json"
	"time"

	"career-coach-be/internal/entity"
	"career-coach-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApplicationMapper struct{}

func NewApplicationMapper() *ApplicationMapper {
	return &ApplicationMapper{}
}

func (m *ApplicationMapper) ToEntity(a *model.Application) *entity.Application {
	if a == nil {
		return nil
	}

	var deletedAt *time.Time
	if a.DeletedAt.Valid {
		t := a.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	var history []entity.ApplicationEvent
	if len(a.History) > 0 {
		_ = json.Unmarshal(a.History, &history)
	}

	return &entity.Application{
		Id:        a.Id,
		UserId:    a.UserId,
		Company:   a.Company,
		Role:      a.Role,
		Status:    a.Status,
		Location:  a.Location,
		Notes:     a.Notes,
		History:   history,
		AppliedAt: a.AppliedAt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: a.DeletedAt.Valid,
	}
}

func (m *ApplicationMapper) ToModel(a *entity.Application) *model.Application {
	if a == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if a.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	} else if a.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	var history datatypes.JSON
	if len(a.History) > 0 {
		if raw, err := json.Marshal(a.History); err == nil {
			history = raw
		}
	}

	return &model.Application{
		Id:        a.Id,
		UserId:    a.UserId,
		Company:   a.Company,
		Role:      a.Role,
		Status:    a.Status,
		Location:  a.Location,
		Notes:     a.Notes,
		History:   history,
		AppliedAt: a.AppliedAt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ApplicationMapper) ToEntities(applications []*model.Application) []*entity.Application {
	entities := make([]*entity.Application, len(applications))
	for i, a := range applications {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
