package service

import (
	"context"
	"fmt"
	"time"

	"career-coach-be/internal/constant"
	"career-coach-be/internal/dto"
	"career-coach-be/internal/entity"
	"career-coach-be/internal/repository/specification"
	"career-coach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IApplicationService interface {
	Create(ctx context.Context, req *dto.CreateApplicationRequest) (*dto.CreateApplicationResponse, error)
	List(ctx context.Context, userID string) ([]*dto.ApplicationResponse, error)
	Show(ctx context.Context, userID string, id uuid.UUID) (*dto.ApplicationResponse, error)
	UpdateStatus(ctx context.Context, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type applicationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewApplicationService(uowFactory unitofwork.RepositoryFactory) IApplicationService {
	return &applicationService{uowFactory: uowFactory}
}

func (s *applicationService) Create(ctx context.Context, req *dto.CreateApplicationRequest) (*dto.CreateApplicationResponse, error) {
	now := time.Now()
	application := entity.Application{
		Id:       uuid.New(),
		UserId:   req.UserID,
		Company:  req.Company,
		Role:     req.Role,
		Status:   constant.ApplicationStatusApplied,
		Location: req.Location,
		Notes:    req.Notes,
		History: []entity.ApplicationEvent{
			{Status: constant.ApplicationStatusApplied, At: now},
		},
		AppliedAt: now,
		CreatedAt: now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ApplicationRepository().Create(ctx, &application); err != nil {
		return nil, err
	}

	return &dto.CreateApplicationResponse{Id: application.Id}, nil
}

func (s *applicationService) List(ctx context.Context, userID string) ([]*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	applications, err := uow.ApplicationRepository().FindAll(ctx,
		specification.ByUserId{UserId: userID},
		specification.OrderBy{Field: "applied_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ApplicationResponse, 0, len(applications))
	for _, a := range applications {
		out = append(out, toApplicationResponse(a))
	}
	return out, nil
}

func (s *applicationService) Show(ctx context.Context, userID string, id uuid.UUID) (*dto.ApplicationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	application, err := uow.ApplicationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userID},
	)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, nil
	}
	return toApplicationResponse(application), nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, req *dto.UpdateApplicationStatusRequest) (*dto.ApplicationResponse, error) {
	if !constant.IsValidApplicationStatus(req.Status) {
		return nil, fmt.Errorf("invalid application status %q", req.Status)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	application, err := uow.ApplicationRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByUserId{UserId: req.UserID},
	)
	if err != nil {
		return nil, err
	}
	if application == nil {
		return nil, nil
	}

	application.Status = req.Status
	application.History = append(application.History, entity.ApplicationEvent{
		Status: req.Status,
		Note:   req.Note,
		At:     time.Now(),
	})

	if err := uow.ApplicationRepository().Update(ctx, application); err != nil {
		return nil, err
	}
	return toApplicationResponse(application), nil
}

func (s *applicationService) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	application, err := uow.ApplicationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userID},
	)
	if err != nil {
		return err
	}
	if application == nil {
		return fmt.Errorf("application not found")
	}
	return uow.ApplicationRepository().Delete(ctx, id)
}

func toApplicationResponse(a *entity.Application) *dto.ApplicationResponse {
	history := make([]dto.ApplicationEventDTO, 0, len(a.History))
	for _, e := range a.History {
		history = append(history, dto.ApplicationEventDTO{
			Status: e.Status,
			Note:   e.Note,
			At:     e.At,
		})
	}
	return &dto.ApplicationResponse{
		Id:        a.Id,
		Company:   a.Company,
		Role:      a.Role,
		Status:    a.Status,
		Location:  a.Location,
		Notes:     a.Notes,
		History:   history,
		AppliedAt: a.AppliedAt,
	}
}
