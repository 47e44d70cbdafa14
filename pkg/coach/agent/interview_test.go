package agent

import "testing"

func TestScoreToLevel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{10.0, "exceptional"},
		{9.0, "exceptional"},
		{8.9, "strong"},
		{7.5, "strong"},
		{7.4, "competent"},
		{6.0, "competent"},
		{5.9, "developing"},
		{4.0, "developing"},
		{3.9, "needs_improvement"},
		{0.0, "needs_improvement"},
	}

	for _, tt := range tests {
		if got := ScoreToLevel(tt.score); got != tt.want {
			t.Errorf("ScoreToLevel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestFindQuestion(t *testing.T) {
	questions := []map[string]interface{}{
		{"id": "q1", "text": "Tell me about yourself."},
		{"id": "q2", "text": "Describe a challenging project."},
	}

	tests := []struct {
		name       string
		questionID string
		wantText   string
	}{
		{"exact match", "q2", "Describe a challenging project."},
		{"unknown id falls back to first", "q99", "Tell me about yourself."},
		{"empty id falls back to first", "", "Tell me about yourself."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindQuestion(questions, tt.questionID)
			if got == nil {
				t.Fatal("FindQuestion returned nil for non-empty question list")
			}
			if got["text"] != tt.wantText {
				t.Errorf("text = %v, want %q", got["text"], tt.wantText)
			}
		})
	}
}

func TestFindQuestionEmptyList(t *testing.T) {
	if got := FindQuestion(nil, "q1"); got != nil {
		t.Errorf("FindQuestion(nil, q1) = %v, want nil", got)
	}
}
