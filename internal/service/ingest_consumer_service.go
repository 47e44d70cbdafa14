package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"career-coach-be/internal/constant"
	"career-coach-be/internal/dto"
	"career-coach-be/internal/entity"
	"career-coach-be/internal/repository/specification"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/pkg/embedding"
	"career-coach-be/pkg/events"
	pkgNats "career-coach-be/pkg/nats"
	"career-coach-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IIngestConsumerService interface {
	Consume(ctx context.Context) error
}

type ingestConsumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pkgNats.Publisher
}

func NewIngestConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pkgNats.Publisher,
) IIngestConsumerService {
	return &ingestConsumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (cs *ingestConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *ingestConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	documentId, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		log.Printf("[ERROR] Invalid document id %q: %v", payload.DocumentID, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Ingesting knowledge document %s", documentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", documentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Document not found: %s", documentId)
		msg.Ack() // Deleted? Ack.
		return
	}

	// ChunkSize: 1500 chars (approx 375 tokens), overlap: 200 chars
	chunks := utils.SplitText(doc.Content, 1500, 200)
	log.Printf("[INFO] Document %s split into %d chunks", documentId, len(chunks))

	var newChunks []*entity.KnowledgeChunk
	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to embed chunk %d of document %s: %v", i, documentId, err)
			cs.markFailed(ctx, doc)
			msg.Nack()
			return
		}

		newChunks = append(newChunks, &entity.KnowledgeChunk{
			Id:             uuid.New(),
			DocumentId:     doc.Id,
			Content:        chunk,
			Source:         doc.Source,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	// Replace old chunks and flip status atomically
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction for document %s: %v", documentId, err)
		msg.Nack()
		return
	}

	if err := uow.KnowledgeChunkRepository().DeleteByDocumentId(ctx, doc.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks for document %s: %v", documentId, err)
		_ = uow.Rollback()
		msg.Nack()
		return
	}

	if err := uow.KnowledgeChunkRepository().CreateBulk(ctx, newChunks); err != nil {
		log.Printf("[ERROR] Failed to insert chunks for document %s: %v", documentId, err)
		_ = uow.Rollback()
		msg.Nack()
		return
	}

	doc.Status = constant.DocumentStatusReady
	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to mark document %s ready: %v", documentId, err)
		_ = uow.Rollback()
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit ingestion of document %s: %v", documentId, err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIngested(doc.Id.String(), len(newChunks))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish document ingested event: %v", err)
		}
	}

	log.Printf("[INFO] Document %s ingested (%d chunks)", documentId, len(newChunks))
	msg.Ack()
}

func (cs *ingestConsumerService) markFailed(ctx context.Context, doc *entity.KnowledgeDocument) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	doc.Status = constant.DocumentStatusFailed
	if err := uow.KnowledgeDocumentRepository().Update(ctx, doc); err != nil {
		log.Printf("[ERROR] Failed to mark document %s failed: %v", doc.Id, err)
	}
}
