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

type ApplicationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApplicationMapper
}

func NewApplicationRepository(db *gorm.DB) contract.ApplicationRepository {
	return &ApplicationRepositoryImpl{
		db:     db,
		mapper: mapper.NewApplicationMapper(),
	}
}

func (r *ApplicationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, application *entity.Application) error {
	m := r.mapper.ToModel(application)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*application = *r.mapper.ToEntity(m)
	return nil
}

func (r *ApplicationRepositoryImpl) Update(ctx context.Context, application *entity.Application) error {
	m := r.mapper.ToModel(application)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*application = *r.mapper.ToEntity(m)
	return nil
}

func (r *ApplicationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Application{}, id).Error
}

func (r *ApplicationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Application, error) {
	var m model.Application
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ApplicationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Application, error) {
	var models []*model.Application
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ApplicationRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Application{}).Count(&count).Error
	return count, err
}
