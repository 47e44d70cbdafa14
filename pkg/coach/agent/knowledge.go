package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/llm"
	"career-coach-be/pkg/utils"
)

// Snippet is one retrieved knowledge-base chunk.
type Snippet struct {
	Content string
	Source  string
	Score   float64
}

// Retriever is the similarity-search capability the knowledge agent
// depends on. Implementations return an empty slice, not an error, when no
// index exists.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]Snippet, error)
}

const knowledgeRetrievalK = 5

// KnowledgeAgent answers career questions over the retrieved guide corpus.
type KnowledgeAgent struct {
	llmProvider llm.LLMProvider
	retriever   Retriever
	logger      logger.ILogger
}

func NewKnowledgeAgent(llmProvider llm.LLMProvider, retriever Retriever, log logger.ILogger) *KnowledgeAgent {
	return &KnowledgeAgent{
		llmProvider: llmProvider,
		retriever:   retriever,
		logger:      log,
	}
}

func (a *KnowledgeAgent) Handle(ctx context.Context, s *state.State) state.Update {
	started := time.Now()
	update := state.Update{AgentUsed: intent.AgentKnowledge}

	question := s.KnowledgeQuery
	if question == "" {
		question = s.UserQuery
	}
	if strings.TrimSpace(question) == "" {
		update.ErrorMessage = "Ask me a career question and I'll look it up for you."
		return update
	}

	answer, sources, confidence := a.Answer(ctx, question)

	update.KnowledgeQuery = question
	update.KnowledgeAnswer = answer
	update.KnowledgeSources = sources
	update.DebugInfo = map[string]interface{}{
		"knowledge_confidence": confidence,
		"knowledge_ms":         time.Since(started).Milliseconds(),
	}
	return update
}

type knowledgeResponse struct {
	Answer        string   `json:"answer"`
	SourcesUsed   []string `json:"sources_used"`
	Confidence    float64  `json:"confidence"`
	RelatedTopics []string `json:"related_topics"`
}

// Answer retrieves supporting chunks and asks the LLM for a grounded
// answer. Degrades in two steps: stitched raw chunks (confidence 0.4), then
// a no-information message (confidence 0.1).
func (a *KnowledgeAgent) Answer(ctx context.Context, question string) (string, []string, float64) {
	snippets, err := a.retriever.Query(ctx, question, knowledgeRetrievalK)
	if err != nil {
		a.logger.Warn("KnowledgeAgent", "retrieval failed", map[string]interface{}{"error": err.Error()})
		snippets = nil
	}

	if len(snippets) == 0 {
		return "I don't have material on that topic in my knowledge base yet, but I'm happy to help with general career guidance.", []string{}, 0.1
	}

	prompt := buildKnowledgePrompt(question, snippets)
	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		a.logger.Warn("KnowledgeAgent", "answer generation failed, stitching chunks", map[string]interface{}{
			"error": err.Error(),
		})
		return stitchSnippets(snippets), snippetSources(snippets), 0.4
	}

	var parsed knowledgeResponse
	if err := utils.ExtractJSON(response, &parsed); err != nil || parsed.Answer == "" {
		return stitchSnippets(snippets), snippetSources(snippets), 0.4
	}

	sources := MergeSources(snippetSources(snippets), parsed.SourcesUsed)
	confidence := parsed.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.7
	}
	return parsed.Answer, sources, confidence
}

func buildKnowledgePrompt(question string, snippets []Snippet) string {
	var sb strings.Builder

	sb.WriteString("You are a career coach answering from reference material.\n\n")
	sb.WriteString("Reference material:\n")
	for i, s := range snippets {
		fmt.Fprintf(&sb, "[%d] (source: %s)\n%s\n\n", i+1, s.Source, s.Content)
	}

	fmt.Fprintf(&sb, "Question: %s\n\n", question)
	sb.WriteString(`Answer using the reference material above. Respond with ONLY valid JSON:
{
  "answer": "...",
  "sources_used": ["..."],
  "confidence": 0.8,
  "related_topics": ["..."]
}`)

	return sb.String()
}

// stitchSnippets concatenates the top chunks into a readable fallback
// answer when generation fails.
func stitchSnippets(snippets []Snippet) string {
	limit := len(snippets)
	if limit > 3 {
		limit = 3
	}

	var sb strings.Builder
	sb.WriteString("Here's what my reference material says:\n")
	for _, s := range snippets[:limit] {
		fmt.Fprintf(&sb, "\n- %s\n", strings.TrimSpace(s.Content))
	}
	return sb.String()
}

func snippetSources(snippets []Snippet) []string {
	sources := make([]string, 0, len(snippets))
	for _, s := range snippets {
		if s.Source != "" {
			sources = append(sources, s.Source)
		}
	}
	return MergeSources(sources, nil)
}

// MergeSources combines two source lists, deduplicating case-insensitively
// while preserving first-seen order and original casing.
func MergeSources(a, b []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(a)+len(b))

	add := func(src string) {
		key := strings.ToLower(strings.TrimSpace(src))
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, src)
	}

	for _, s := range a {
		add(s)
	}
	for _, s := range b {
		add(s)
	}
	return out
}
