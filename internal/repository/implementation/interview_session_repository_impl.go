package implementation

import (
	"context"
	"errors"

	"career-coach-be/internal/entity"
	"career-coach-be/internal/mapper"
	"career-coach-be/internal/model"
	"career-coach-be/internal/repository/contract"
	"career-coach-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InterviewSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.InterviewSessionMapper
}

func NewInterviewSessionRepository(db *gorm.DB) contract.InterviewSessionRepository {
	return &InterviewSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewInterviewSessionMapper(),
	}
}

func (r *InterviewSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *InterviewSessionRepositoryImpl) Create(ctx context.Context, session *entity.InterviewSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *InterviewSessionRepositoryImpl) Update(ctx context.Context, session *entity.InterviewSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *InterviewSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.InterviewSession{}, id).Error
}

func (r *InterviewSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.InterviewSession, error) {
	var m model.InterviewSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *InterviewSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.InterviewSession, error) {
	var models []*model.InterviewSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *InterviewSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.InterviewSession{}).Count(&count).Error
	return count, err
}

func (r *InterviewSessionRepositoryImpl) FindActiveBySession(ctx context.Context, sessionId string) (*entity.InterviewSession, error) {
	return r.FindOne(ctx,
		specification.BySessionId{SessionId: sessionId},
		specification.ByStatus{Status: "active"},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}
