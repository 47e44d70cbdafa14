package service

import (
	"context"
	"encoding/json"
	"time"

	"career-coach-be/internal/constant"
	"career-coach-be/internal/dto"
	"career-coach-be/internal/entity"
	"career-coach-be/internal/repository/specification"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/pkg/coach/agent"

	"github.com/google/uuid"
)

type IKnowledgeService interface {
	CreateDocument(ctx context.Context, req *dto.CreateKnowledgeDocumentRequest) (*dto.CreateKnowledgeDocumentResponse, error)
	ListDocuments(ctx context.Context) ([]*dto.KnowledgeDocumentResponse, error)
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	Query(ctx context.Context, req *dto.KnowledgeQueryRequest) (*dto.KnowledgeQueryResponse, error)
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	knowledgeAgent   *agent.KnowledgeAgent
	retriever        agent.Retriever
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	knowledgeAgent *agent.KnowledgeAgent,
	retriever agent.Retriever,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		knowledgeAgent:   knowledgeAgent,
		retriever:        retriever,
	}
}

func (s *knowledgeService) CreateDocument(ctx context.Context, req *dto.CreateKnowledgeDocumentRequest) (*dto.CreateKnowledgeDocumentResponse, error) {
	document := entity.KnowledgeDocument{
		Id:        uuid.New(),
		Title:     req.Title,
		Source:    req.Source,
		Content:   req.Content,
		Status:    constant.DocumentStatusPending,
		CreatedAt: time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.KnowledgeDocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	// Chunking and embedding happen asynchronously on the ingest topic.
	msgPayload := dto.PublishIngestDocumentMessage{DocumentID: document.Id.String()}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.CreateKnowledgeDocumentResponse{
		Id:     document.Id,
		Status: document.Status,
	}, nil
}

func (s *knowledgeService) ListDocuments(ctx context.Context) ([]*dto.KnowledgeDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.KnowledgeDocumentRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.KnowledgeDocumentResponse, 0, len(documents))
	for _, d := range documents {
		chunks, err := uow.KnowledgeChunkRepository().Count(ctx, specification.Filter("document_id", d.Id))
		if err != nil {
			return nil, err
		}
		out = append(out, &dto.KnowledgeDocumentResponse{
			Id:     d.Id,
			Title:  d.Title,
			Source: d.Source,
			Status: d.Status,
			Chunks: chunks,
		})
	}
	return out, nil
}

func (s *knowledgeService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.KnowledgeChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.KnowledgeDocumentRepository().Delete(ctx, id); err != nil {
		_ = uow.Rollback()
		return err
	}
	return uow.Commit()
}

func (s *knowledgeService) Query(ctx context.Context, req *dto.KnowledgeQueryRequest) (*dto.KnowledgeQueryResponse, error) {
	topK := req.TopK
	if topK <= 0 || topK > 20 {
		topK = 5
	}

	snippets, err := s.retriever.Query(ctx, req.Query, topK)
	if err != nil {
		return nil, err
	}

	answer, sources, _ := s.knowledgeAgent.Answer(ctx, req.Query)

	resp := &dto.KnowledgeQueryResponse{
		Answer:  answer,
		Sources: sources,
	}
	for _, sn := range snippets {
		resp.Snippets = append(resp.Snippets, dto.KnowledgeSnippetDTO{
			Content: sn.Content,
			Source:  sn.Source,
			Score:   sn.Score,
		})
	}
	return resp, nil
}
