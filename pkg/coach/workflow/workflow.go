package workflow

import (
	"context"
	"fmt"
	"time"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
)

// Classifier resolves a query into the intent vocabulary.
type Classifier interface {
	Classify(ctx context.Context, query, userContext string, session intent.SessionContext) intent.Classification
}

// Specialist is one intent-family handler.
type Specialist interface {
	Handle(ctx context.Context, s *state.State) state.Update
}

// MemoryGateway loads user context before routing and persists the turn
// after synthesis.
type MemoryGateway interface {
	LoadContext(ctx context.Context, userID string) state.Update
	PersistTurn(ctx context.Context, s *state.State) state.Update
}

// Synthesizer renders the final response from specialist output.
type Synthesizer interface {
	Synthesize(ctx context.Context, s *state.State) state.Update
}

// Workflow is the intent-routing state machine:
//
//	memory_load -> router -> {resume|interview|job_search|knowledge|summary}
//	            -> summary -> memory_save -> END
//
// Nodes run strictly sequentially; each node returns a partial update
// merged into the shared state record. Any panic is converted into a
// completed-with-error final state at this boundary, never propagated.
type Workflow struct {
	classifier  Classifier
	specialists map[string]Specialist
	memory      MemoryGateway
	synthesizer Synthesizer
	logger      logger.ILogger
}

func New(
	classifier Classifier,
	resume Specialist,
	interview Specialist,
	jobSearch Specialist,
	knowledge Specialist,
	memory MemoryGateway,
	synthesizer Synthesizer,
	log logger.ILogger,
) *Workflow {
	return &Workflow{
		classifier: classifier,
		specialists: map[string]Specialist{
			intent.AgentResume:    resume,
			intent.AgentInterview: interview,
			intent.AgentJobSearch: jobSearch,
			intent.AgentKnowledge: knowledge,
		},
		memory:      memory,
		synthesizer: synthesizer,
		logger:      log,
	}
}

// Run executes one full turn over the seed state and returns the final
// record. The seed carries identity plus any task-specific fields the
// caller already knows (resume text, interview session, ...).
func (w *Workflow) Run(ctx context.Context, seed *state.State, session intent.SessionContext) (final *state.State) {
	started := time.Now()
	st := seed

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Workflow", "turn aborted by panic", map[string]interface{}{
				"user_id": st.UserID,
				"panic":   fmt.Sprint(r),
			})
			st.Merge(state.Update{
				ErrorMessage:    fmt.Sprintf("internal failure: %v", r),
				Response:        "I'm sorry, something went wrong on my side while handling that. Please try again.",
				SessionComplete: true,
				DebugInfo:       map[string]interface{}{"panic": fmt.Sprint(r)},
			})
			st.ProcessingTime = time.Since(started).Seconds()
			final = st
		}
	}()

	// memory_load
	st.Merge(w.memory.LoadContext(ctx, st.UserID))

	// router
	classification := w.classifier.Classify(ctx, st.UserQuery, st.SharedContext, session)
	st.Merge(state.Update{
		Intent:     classification.Intent,
		Confidence: state.Conf(classification.Confidence),
		AgentUsed:  "router",
		DebugInfo: map[string]interface{}{
			"classification_method":    classification.Method,
			"classification_reasoning": classification.Reasoning,
		},
	})
	w.logger.Info("Workflow", "intent resolved", map[string]interface{}{
		"user_id":    st.UserID,
		"intent":     st.Intent,
		"confidence": st.Confidence,
		"method":     classification.Method,
	})

	// conditional specialist dispatch; unknown goes straight to summary
	if agentName := intent.AgentFor(st.Intent); agentName != intent.AgentSummary {
		if specialist, ok := w.specialists[agentName]; ok {
			st.Merge(w.runSpecialist(ctx, agentName, specialist, st))
		}
	}

	// summary: always runs, error or not
	st.Merge(w.synthesizer.Synthesize(ctx, st))

	// memory_save
	st.Merge(w.memory.PersistTurn(ctx, st))

	st.ProcessingTime = time.Since(started).Seconds()
	return st
}

// runSpecialist isolates one specialist call: a panic inside a handler is
// downgraded to an error_message so the pipeline continues to synthesis.
func (w *Workflow) runSpecialist(ctx context.Context, name string, specialist Specialist, st *state.State) (update state.Update) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Workflow", "specialist panicked", map[string]interface{}{
				"specialist": name,
				"panic":      fmt.Sprint(r),
			})
			update = state.Update{
				AgentUsed:    name,
				ErrorMessage: "That request hit an internal error, but I can still help with something else.",
				DebugInfo:    map[string]interface{}{name + "_panic": fmt.Sprint(r)},
			}
		}
	}()

	return specialist.Handle(ctx, st)
}
