package service

import (
	"context"
	"time"

	"career-coach-be/internal/dto"
	"career-coach-be/internal/pkg/logger"
	"career-coach-be/internal/repository/memory"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/coach/workflow"
	"career-coach-be/pkg/events"
	pkgNats "career-coach-be/pkg/nats"
	"career-coach-be/pkg/store"

	"github.com/google/uuid"
)

type ICoachService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error)
	History(ctx context.Context, userID string, limit int) ([]*dto.ConversationHistoryItem, error)
}

type coachService struct {
	workflow         *workflow.Workflow
	uowFactory       unitofwork.RepositoryFactory
	sessionRepo      *memory.SessionRepository
	interviewService IInterviewService
	eventPublisher   *pkgNats.Publisher
	logger           logger.ILogger
}

func NewCoachService(
	wf *workflow.Workflow,
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	interviewService IInterviewService,
	eventPublisher *pkgNats.Publisher,
	log logger.ILogger,
) ICoachService {
	return &coachService{
		workflow:         wf,
		uowFactory:       uowFactory,
		sessionRepo:      sessionRepo,
		interviewService: interviewService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func (s *coachService) Ask(ctx context.Context, req *dto.AskRequest) (*dto.AskResponse, error) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	session := s.sessionContext(sessionID)
	seed := state.New(req.Query, req.UserID, sessionID)
	seedSlots(seed, req)

	interviewing := session.Active && session.ContinuationIntent == intent.IntentInterviewAnswer
	if interviewing {
		s.hydrateInterview(ctx, seed)
	}

	final := s.workflow.Run(ctx, seed, session)

	if interviewing && final.Intent == intent.IntentInterviewAnswer &&
		final.ErrorMessage == "" && len(final.InterviewAnswers) > 0 {
		finished, err := s.interviewService.RecordEvaluatedAnswers(ctx, sessionID, final.InterviewAnswers)
		if err != nil {
			s.logger.Warn("coach", "failed to persist interview answers", map[string]interface{}{
				"error":      err.Error(),
				"session_id": sessionID,
			})
		} else if finished {
			final.Merge(state.Update{
				SessionComplete: true,
				DebugInfo:       map[string]interface{}{"interview_finished": true},
			})
		}
	}

	s.trackSession(sessionID, req.UserID, final)
	s.publishCompleted(ctx, final)

	return &dto.AskResponse{
		SessionID:      sessionID,
		Intent:         final.Intent,
		Confidence:     final.Confidence,
		Response:       final.Response,
		AgentsUsed:     final.AgentsUsed,
		ProcessingTime: final.ProcessingTime,
		Error:          final.ErrorMessage,
		Debug:          final.DebugInfo,

		ResumeAnalysis:     final.ResumeAnalysis,
		ResumeSuggestions:  final.ResumeSuggestions,
		InterviewQuestions: final.InterviewQuestions,
		InterviewFeedback:  final.InterviewFeedback,
		JobResults:         final.JobResults,
		KnowledgeAnswer:    final.KnowledgeAnswer,
		KnowledgeSources:   final.KnowledgeSources,
		SessionComplete:    final.SessionComplete,
	}, nil
}

// seedSlots copies the optional task-specific request fields into the turn
// record so the routed specialist sees them without re-asking.
func seedSlots(seed *state.State, req *dto.AskRequest) {
	seed.ResumeText = req.ResumeText
	seed.JobDescription = req.JobDescription
	seed.InterviewRole = req.InterviewRole
	seed.InterviewLevel = req.InterviewLevel
	seed.InterviewSessionID = req.InterviewSessionID
	seed.JobSearchLocation = req.JobLocation
	seed.JobSearchLevel = req.JobLevel
	seed.KnowledgeQuery = req.KnowledgeQuery
}

// hydrateInterview loads the active interview so the continuation fast path
// has questions to match and the current query as the pending answer.
func (s *coachService) hydrateInterview(ctx context.Context, seed *state.State) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	dbSession, err := uow.InterviewSessionRepository().FindActiveBySession(ctx, seed.SessionID)
	if err != nil || dbSession == nil {
		return
	}

	seed.InterviewQuestions = dbSession.Questions
	seed.InterviewRole = dbSession.TargetRole
	seed.InterviewSessionID = dbSession.Id.String()

	questionID := ""
	if len(dbSession.Answers) < len(dbSession.Questions) {
		questionID, _ = dbSession.Questions[len(dbSession.Answers)]["id"].(string)
	}
	answers := make([]map[string]interface{}, 0, len(dbSession.Answers)+1)
	answers = append(answers, dbSession.Answers...)
	answers = append(answers, map[string]interface{}{
		"question_id": questionID,
		"text":        seed.UserQuery,
	})
	seed.InterviewAnswers = answers
}

func (s *coachService) History(ctx context.Context, userID string, limit int) ([]*dto.ConversationHistoryItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.ConversationRepository().FindRecentByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ConversationHistoryItem, 0, len(conversations))
	for _, c := range conversations {
		confidence := 0.0
		if v, ok := c.Metadata["confidence"].(float64); ok {
			confidence = v
		}
		items = append(items, &dto.ConversationHistoryItem{
			SessionID:  c.SessionId,
			Query:      c.Query,
			Response:   c.Response,
			Intent:     c.Intent,
			Specialist: c.Specialist,
			CreatedAt:  c.CreatedAt.Format(time.RFC3339),
			Confidence: confidence,
		})
	}
	return items, nil
}

// sessionContext reads the in-memory session record to decide whether the
// router should assume an interview continuation instead of classifying.
func (s *coachService) sessionContext(sessionID string) intent.SessionContext {
	sess, found := s.sessionRepo.Get(sessionID)
	if !found || sess.State != store.StateInterviewing {
		return intent.SessionContext{}
	}
	return intent.SessionContext{
		Active:             true,
		ContinuationIntent: sess.ContinuationIntent,
	}
}

// trackSession keeps the per-session override state in sync with the turn
// outcome: starting an interview arms it, break-out or completion clears it.
func (s *coachService) trackSession(sessionID, userID string, final *state.State) {
	sess, found := s.sessionRepo.Get(sessionID)
	if !found {
		sess = &store.Session{
			ID:     sessionID,
			UserID: userID,
			State:  store.StateOpen,
		}
	}

	sess.LastQuery = final.UserQuery
	sess.LastIntent = final.Intent
	sess.TurnCount++

	switch {
	case final.Intent == intent.IntentInterviewStart && final.ErrorMessage == "":
		sess.State = store.StateInterviewing
		sess.ContinuationIntent = intent.IntentInterviewAnswer
	case intent.ContainsBreakOut(final.UserQuery):
		sess.State = store.StateOpen
		sess.ContinuationIntent = ""
	}
	if finished, ok := final.DebugInfo["interview_finished"].(bool); ok && finished {
		sess.State = store.StateOpen
		sess.ContinuationIntent = ""
	}

	s.sessionRepo.Save(sess)
}

func (s *coachService) publishCompleted(ctx context.Context, final *state.State) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewConversationCompleted(final.UserID, final.SessionID, final.Intent, final.UserQuery, final.Response)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("coach", "failed to publish conversation completed event", map[string]interface{}{
			"error":      err.Error(),
			"session_id": final.SessionID,
		})
	}
}
