package service

import (
	"context"
	"fmt"
	"time"

	"career-coach-be/internal/constant"
	"career-coach-be/internal/dto"
	"career-coach-be/internal/entity"
	"career-coach-be/internal/pkg/logger"
	"career-coach-be/internal/pkg/mailer"
	"career-coach-be/internal/repository/memory"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/pkg/coach/agent"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/events"
	pkgNats "career-coach-be/pkg/nats"
	"career-coach-be/pkg/store"

	"github.com/google/uuid"
)

type IInterviewService interface {
	Start(ctx context.Context, req *dto.StartInterviewRequest) (*dto.StartInterviewResponse, error)
	Answer(ctx context.Context, req *dto.AnswerInterviewRequest) (*dto.AnswerInterviewResponse, error)
	Finish(ctx context.Context, req *dto.FinishInterviewRequest) (*dto.FinishInterviewResponse, error)
	QuestionsForRole(ctx context.Context, role, level string, count int) *dto.InterviewQuestionsResponse

	// RecordEvaluatedAnswers persists answers evaluated through the
	// conversational flow and completes the session once every question
	// is answered. Reports whether the interview finished on this call.
	RecordEvaluatedAnswers(ctx context.Context, sessionID string, answers []map[string]interface{}) (bool, error)
}

type interviewService struct {
	agent          *agent.InterviewAgent
	uowFactory     unitofwork.RepositoryFactory
	sessionRepo    *memory.SessionRepository
	emailService   mailer.IEmailService
	eventPublisher *pkgNats.Publisher
	logger         logger.ILogger
}

func NewInterviewService(
	interviewAgent *agent.InterviewAgent,
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	emailService mailer.IEmailService,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IInterviewService {
	return &interviewService{
		agent:          interviewAgent,
		uowFactory:     uowFactory,
		sessionRepo:    sessionRepo,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *interviewService) Start(ctx context.Context, req *dto.StartInterviewRequest) (*dto.StartInterviewResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// One active interview per chat session
	existing, err := uow.InterviewSessionRepository().FindActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("an interview is already running in session %s", sessionID)
	}

	questions := s.agent.GenerateQuestions(ctx, req.TargetRole, req.Level, req.QuestionCount)

	session := entity.InterviewSession{
		Id:         uuid.New(),
		UserId:     req.UserID,
		SessionId:  sessionID,
		TargetRole: req.TargetRole,
		Status:     constant.InterviewStatusActive,
		Questions:  questions,
		Answers:    []map[string]any{},
		CreatedAt:  time.Now(),
	}
	if err := uow.InterviewSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	// Arm the session override so free-text follow-ups route to the
	// interview agent without re-classification.
	s.sessionRepo.Save(&store.Session{
		ID:                 sessionID,
		UserID:             req.UserID,
		State:              store.StateInterviewing,
		ContinuationIntent: intent.IntentInterviewAnswer,
		LastIntent:         intent.IntentInterviewStart,
	})

	return &dto.StartInterviewResponse{
		InterviewID: session.Id,
		SessionID:   sessionID,
		Questions:   questions,
	}, nil
}

func (s *interviewService) Answer(ctx context.Context, req *dto.AnswerInterviewRequest) (*dto.AnswerInterviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.InterviewSessionRepository().FindActiveBySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("no active interview in session %s", req.SessionID)
	}

	questionID := req.QuestionID
	if questionID == "" && len(session.Answers) < len(session.Questions) {
		if id, ok := session.Questions[len(session.Answers)]["id"].(string); ok {
			questionID = id
		}
	}
	question := agent.FindQuestion(session.Questions, questionID)

	evaluation := s.agent.EvaluateAnswer(ctx, question, req.Answer)

	session.Answers = append(session.Answers, map[string]any{
		"question_id": questionID,
		"text":        req.Answer,
		"evaluation":  evaluation,
	})

	finished := len(session.Answers) >= len(session.Questions)
	resp := &dto.AnswerInterviewResponse{
		Evaluation: evaluation,
		Finished:   finished,
	}
	if finished {
		resp.Summary = s.complete(ctx, session)
		resp.AverageScore = *session.AverageScore
		resp.OverallLevel = session.OverallLevel
	} else {
		resp.NextQuestion = session.Questions[len(session.Answers)]
	}

	if err := uow.InterviewSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	return resp, nil
}

// complete aggregates the session into a final report, marks it completed
// and disarms the free-text routing override. The caller persists the
// entity afterwards.
func (s *interviewService) complete(ctx context.Context, session *entity.InterviewSession) map[string]interface{} {
	summary := s.agent.SessionSummary(ctx, session.TargetRole, session.Questions, session.Answers)

	average := 0.0
	if v, ok := summary["overall_score"].(float64); ok {
		average = v
	}
	summaryText, _ := summary["summary"].(string)

	session.Status = constant.InterviewStatusCompleted
	session.AverageScore = &average
	session.OverallLevel = agent.ScoreToLevel(average)
	session.SummaryText = summaryText

	if sess, found := s.sessionRepo.Get(session.SessionId); found {
		sess.State = store.StateOpen
		sess.ContinuationIntent = ""
		s.sessionRepo.Save(sess)
	}

	if s.eventPublisher != nil {
		evt := events.NewInterviewCompleted(session.UserId, session.SessionId, session.TargetRole, average)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("interview", "failed to publish interview completed event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return summary
}

func (s *interviewService) RecordEvaluatedAnswers(ctx context.Context, sessionID string, answers []map[string]interface{}) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.InterviewSessionRepository().FindActiveBySession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	// Unevaluated entries are conversational scratch, not real answers.
	kept := make([]map[string]any, 0, len(answers))
	for _, a := range answers {
		if a["evaluation"] != nil {
			kept = append(kept, a)
		}
	}
	session.Answers = kept

	finished := len(session.Answers) >= len(session.Questions)
	if finished {
		s.complete(ctx, session)
	}
	if err := uow.InterviewSessionRepository().Update(ctx, session); err != nil {
		return false, err
	}
	return finished, nil
}

func (s *interviewService) Finish(ctx context.Context, req *dto.FinishInterviewRequest) (*dto.FinishInterviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.InterviewSessionRepository().FindActiveBySession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("no active interview in session %s", req.SessionID)
	}

	s.complete(ctx, session)
	average := *session.AverageScore
	level := session.OverallLevel
	summaryText := session.SummaryText

	now := time.Now()
	emailed := false
	if req.Email != "" && s.emailService != nil {
		if err := s.emailService.SendInterviewSummary(req.Email, session.TargetRole, level, average, summaryText); err != nil {
			s.logger.Warn("interview", "failed to email interview summary", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			emailed = true
			session.EmailedAt = &now
		}
	}

	if err := uow.InterviewSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}

	return &dto.FinishInterviewResponse{
		AverageScore: average,
		OverallLevel: level,
		Summary:      summaryText,
		Emailed:      emailed,
	}, nil
}

// QuestionsForRole generates practice questions without opening a session.
// Generation failures degrade to the fixed behavioral set inside the agent,
// so this never errors.
func (s *interviewService) QuestionsForRole(ctx context.Context, role, level string, count int) *dto.InterviewQuestionsResponse {
	if level == "" {
		level = "mid"
	}
	questions := s.agent.GenerateQuestions(ctx, role, level, count)

	return &dto.InterviewQuestionsResponse{
		Role:      role,
		Level:     level,
		Questions: questions,
	}
}
