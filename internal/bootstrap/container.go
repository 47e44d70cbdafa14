package bootstrap

import (
	"context"
	"log"

	"career-coach-be/internal/config"
	"career-coach-be/internal/controller"
	"career-coach-be/internal/pkg/logger"
	"career-coach-be/internal/pkg/mailer"
	"career-coach-be/internal/repository/implementation"
	"career-coach-be/internal/repository/memory"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/internal/service"
	"career-coach-be/pkg/coach/agent"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/synthesis"
	"career-coach-be/pkg/coach/workflow"
	"career-coach-be/pkg/embedding"
	"career-coach-be/pkg/geo"
	"career-coach-be/pkg/llm/factory"
	pkgNats "career-coach-be/pkg/nats"
	"career-coach-be/pkg/rag"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CoachController       controller.ICoachController
	ResumeController      controller.IResumeController
	InterviewController   controller.IInterviewController
	JobController         controller.IJobController
	ApplicationController controller.IApplicationController
	UserController        controller.IUserController
	KnowledgeController   controller.IKnowledgeController
	HealthController      controller.IHealthController

	// Background services (exposed for main.go to run)
	IngestConsumerService service.IIngestConsumerService
	ProfileSyncService    service.IProfileSyncService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI providers
	embeddingProvider := embedding.NewOllamaProvider(
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaModel,
	)
	log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)

	llmBaseURL := cfg.Ai.LLMBaseURL
	if llmBaseURL == "" {
		llmBaseURL = cfg.Ai.OllamaBaseURL
	}
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL,
		cfg.Ai.LLMAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. In-memory session storage
	sessionRepo := memory.NewSessionRepository()

	// 5. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 6. Geo lookups (OpenStreetMap)
	geocoder := geo.NewNominatimClient(cfg.Coach.NominatimBaseURL)
	offices := geo.NewOverpassClient(cfg.Coach.OverpassBaseURL)

	// 7. Retrieval over the knowledge base
	chunkRepo := implementation.NewKnowledgeChunkRepository(db)
	retriever := rag.NewKnowledgeRetriever(chunkRepo, embeddingProvider, sysLogger)

	// 8. Specialist agents
	resumeAgent := agent.NewResumeAgent(llmProvider, sysLogger)
	interviewAgent := agent.NewInterviewAgent(llmProvider, sysLogger)
	jobSearchAgent := agent.NewJobSearchAgent(llmProvider, geocoder, offices, sysLogger)
	knowledgeAgent := agent.NewKnowledgeAgent(llmProvider, retriever, sysLogger)

	memoryStore := service.NewMemoryStoreService(uowFactory)
	memoryAgent := agent.NewMemoryAgent(memoryStore, llmProvider, sysLogger)

	classifier := intent.NewClassifier(llmProvider, sysLogger)
	synthesizer := synthesis.NewSynthesizer(llmProvider, sysLogger)

	wf := workflow.New(
		classifier,
		resumeAgent,
		interviewAgent,
		jobSearchAgent,
		knowledgeAgent,
		memoryAgent,
		synthesizer,
		sysLogger,
	)

	// 9. Services
	publisherService := service.NewPublisherService(cfg.Coach.IngestTopic, pubSub)
	ingestConsumerService := service.NewIngestConsumerService(
		pubSub,
		cfg.Coach.IngestTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	interviewService := service.NewInterviewService(
		interviewAgent,
		uowFactory,
		sessionRepo,
		emailService,
		natsPub,
		sysLogger,
	)
	coachService := service.NewCoachService(
		wf,
		uowFactory,
		sessionRepo,
		interviewService,
		natsPub,
		sysLogger,
	)
	resumeService := service.NewResumeService(resumeAgent, wf, cfg.Coach.UseWorkflow)
	jobService := service.NewJobService(jobSearchAgent, geocoder, offices, uowFactory, rdb, sysLogger)
	applicationService := service.NewApplicationService(uowFactory)
	userService := service.NewUserService(uowFactory)
	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, knowledgeAgent, retriever)
	profileSyncService := service.NewProfileSyncService(natsSub, memoryStore, sysLogger)

	// 10. Controllers
	return &Container{
		CoachController:       controller.NewCoachController(coachService),
		ResumeController:      controller.NewResumeController(resumeService),
		InterviewController:   controller.NewInterviewController(interviewService),
		JobController:         controller.NewJobController(jobService),
		ApplicationController: controller.NewApplicationController(applicationService),
		UserController:        controller.NewUserController(userService),
		KnowledgeController:   controller.NewKnowledgeController(knowledgeService),
		HealthController:      controller.NewHealthController(sysLogger),

		IngestConsumerService: ingestConsumerService,
		ProfileSyncService:    profileSyncService,

		Logger: sysLogger,
	}
}
