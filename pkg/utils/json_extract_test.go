package utils

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	type payload struct {
		Intent     string  `json:"intent"`
		Confidence float64 `json:"confidence"`
	}

	tests := []struct {
		name     string
		response string
		wantErr  bool
		want     payload
	}{
		{
			name:     "clean JSON",
			response: `{"intent": "job_search", "confidence": 0.9}`,
			want:     payload{"job_search", 0.9},
		},
		{
			name: "fenced with language tag",
			response: "```json\n" +
				`{"intent": "career_advice", "confidence": 0.8}` +
				"\n```",
			want: payload{"career_advice", 0.8},
		},
		{
			name: "bare fence",
			response: "```\n" +
				`{"intent": "unknown", "confidence": 0.5}` +
				"\n```",
			want: payload{"unknown", 0.5},
		},
		{
			name:     "JSON embedded in prose",
			response: `Sure! Here is the classification: {"intent": "resume_analysis", "confidence": 0.95} Hope that helps.`,
			want:     payload{"resume_analysis", 0.95},
		},
		{
			name:     "no JSON at all",
			response: "I cannot classify that.",
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := ExtractJSON(tt.response, &got)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error, got nil")
				}
				var noJSON *ErrNoJSON
				if !errors.As(err, &noJSON) {
					t.Errorf("error type = %T, want *ErrNoJSON", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ExtractJSON error: %v", err)
			}
			if got != tt.want {
				t.Errorf("payload = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	var got []map[string]interface{}
	response := "Here are your questions:\n" +
		`[{"id": "q1", "text": "Tell me about yourself."}]`

	if err := ExtractJSON(response, &got); err != nil {
		t.Fatalf("ExtractJSON error: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "q1" {
		t.Errorf("parsed = %v, want single q1 entry", got)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"whitespace around", "  \n```\n{\"a\": 1}\n```  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.in); got != tt.want {
				t.Errorf("StripCodeFences = %q, want %q", got, tt.want)
			}
		})
	}
}
