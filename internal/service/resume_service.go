package service

import (
	"context"
	"errors"
	"fmt"

	"career-coach-be/internal/dto"
	"career-coach-be/pkg/coach/agent"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/coach/workflow"

	"github.com/google/uuid"
)

type IResumeService interface {
	Analyze(ctx context.Context, req *dto.AnalyzeResumeRequest) (*dto.AnalyzeResumeResponse, error)
	Improve(ctx context.Context, req *dto.ImproveResumeRequest) (*dto.ImproveResumeResponse, error)
}

// resumeService calls the specialist directly by default. With useWorkflow
// set, requests run through the full orchestrator instead, pinned to the
// resume intent; either way the response shape is the same.
type resumeService struct {
	agent       *agent.ResumeAgent
	workflow    *workflow.Workflow
	useWorkflow bool
}

func NewResumeService(resumeAgent *agent.ResumeAgent, wf *workflow.Workflow, useWorkflow bool) IResumeService {
	return &resumeService{
		agent:       resumeAgent,
		workflow:    wf,
		useWorkflow: useWorkflow,
	}
}

func (s *resumeService) Analyze(ctx context.Context, req *dto.AnalyzeResumeRequest) (*dto.AnalyzeResumeResponse, error) {
	jobDescription := targetRoleDescription(req.TargetRole)

	if s.useWorkflow {
		wantedIntent := intent.IntentResumeAnalysis
		if req.Improve {
			wantedIntent = intent.IntentResumeImprovement
		}
		analysis, suggestions, err := s.runWorkflow(ctx, req.UserID, req.ResumeText, jobDescription, wantedIntent)
		if err != nil {
			return nil, err
		}
		return &dto.AnalyzeResumeResponse{Analysis: analysis, Suggestions: suggestions}, nil
	}

	analysis, err := s.agent.Analyze(ctx, req.ResumeText, jobDescription)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyzeResumeResponse{Analysis: analysis}
	if req.Improve {
		suggestions, err := s.agent.SuggestImprovements(ctx, req.ResumeText, analysis)
		if err != nil {
			return nil, err
		}
		resp.Suggestions = suggestions
	}
	return resp, nil
}

// Improve always runs the full analyze-then-improve pipeline: suggestions
// are grounded in a fresh analysis of the submitted text.
func (s *resumeService) Improve(ctx context.Context, req *dto.ImproveResumeRequest) (*dto.ImproveResumeResponse, error) {
	jobDescription := targetRoleDescription(req.TargetRole)

	if s.useWorkflow {
		analysis, suggestions, err := s.runWorkflow(ctx, req.UserID, req.ResumeText, jobDescription, intent.IntentResumeImprovement)
		if err != nil {
			return nil, err
		}
		return &dto.ImproveResumeResponse{Analysis: analysis, Suggestions: suggestions}, nil
	}

	analysis, err := s.agent.Analyze(ctx, req.ResumeText, jobDescription)
	if err != nil {
		return nil, err
	}

	suggestions, err := s.agent.SuggestImprovements(ctx, req.ResumeText, analysis)
	if err != nil {
		return nil, err
	}

	return &dto.ImproveResumeResponse{
		Analysis:    analysis,
		Suggestions: suggestions,
	}, nil
}

// runWorkflow routes a resume request through the orchestrator with the
// routing override pinned to the wanted intent, so the turn still gets
// memory context and an audit trail.
func (s *resumeService) runWorkflow(ctx context.Context, userID, resumeText, jobDescription, wantedIntent string) (map[string]interface{}, map[string]interface{}, error) {
	seed := state.New("resume feedback request", userID, uuid.New().String())
	seed.ResumeText = resumeText
	seed.JobDescription = jobDescription

	final := s.workflow.Run(ctx, seed, intent.SessionContext{
		Active:             true,
		ContinuationIntent: wantedIntent,
	})

	if final.ResumeAnalysis == nil {
		if final.ErrorMessage != "" {
			return nil, nil, errors.New(final.ErrorMessage)
		}
		return nil, nil, fmt.Errorf("resume pipeline produced no analysis")
	}
	return final.ResumeAnalysis, final.ResumeSuggestions, nil
}

func targetRoleDescription(targetRole string) string {
	if targetRole == "" {
		return ""
	}
	return fmt.Sprintf("Target role: %s", targetRole)
}
