package unitofwork

import (
	"context"

	"career-coach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ConversationRepository() contract.ConversationRepository
	InterviewSessionRepository() contract.InterviewSessionRepository
	ApplicationRepository() contract.ApplicationRepository
	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
}
