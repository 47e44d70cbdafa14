package state

import (
	"reflect"
	"testing"
)

func TestMergeLeavesUnsetFieldsAlone(t *testing.T) {
	s := New("review my resume", "user-1", "sess-1")
	s.Merge(Update{
		Intent:     "resume_analysis",
		Confidence: Conf(0.9),
		ResumeText: "ten years of Go",
	})

	// An empty update must not clear anything already set.
	s.Merge(Update{})

	if s.Intent != "resume_analysis" {
		t.Errorf("Intent = %q, want resume_analysis", s.Intent)
	}
	if s.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9", s.Confidence)
	}
	if s.ResumeText != "ten years of Go" {
		t.Errorf("ResumeText = %q, want original text", s.ResumeText)
	}
}

func TestMergeConfidenceClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"above one", 1.7, 1.0},
		{"below zero", -0.3, 0.0},
		{"in range", 0.42, 0.42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("q", "u", "s")
			s.Merge(Update{Confidence: Conf(tt.in)})
			if s.Confidence != tt.want {
				t.Errorf("Confidence = %v, want %v", s.Confidence, tt.want)
			}
		})
	}
}

func TestMergeAuditTrailAppendOnly(t *testing.T) {
	s := New("q", "u", "s")
	s.Merge(Update{AgentUsed: "memory_load"})
	s.Merge(Update{AgentUsed: "router"})
	s.Merge(Update{AgentUsed: "resume"})
	s.Merge(Update{}) // no agent, no append

	want := []string{"memory_load", "router", "resume"}
	if !reflect.DeepEqual(s.AgentsUsed, want) {
		t.Errorf("AgentsUsed = %v, want %v", s.AgentsUsed, want)
	}

	if !s.Touched("router") {
		t.Error("Touched(router) = false, want true")
	}
	if s.Touched("summary") {
		t.Error("Touched(summary) = true, want false")
	}
}

func TestMergeSessionCompleteOneWay(t *testing.T) {
	s := New("q", "u", "s")
	s.Merge(Update{SessionComplete: true})
	s.Merge(Update{}) // false in a later update must not reset it

	if !s.SessionComplete {
		t.Error("SessionComplete was reset by a later update")
	}
}

func TestMergeDebugInfoKeywise(t *testing.T) {
	s := New("q", "u", "s")
	s.Merge(Update{DebugInfo: map[string]interface{}{"a": 1, "b": "x"}})
	s.Merge(Update{DebugInfo: map[string]interface{}{"b": "y", "c": true}})

	if s.DebugInfo["a"] != 1 || s.DebugInfo["b"] != "y" || s.DebugInfo["c"] != true {
		t.Errorf("DebugInfo = %v, want keywise merge with later values winning", s.DebugInfo)
	}
}

func TestMergeProfileScalarOverwrite(t *testing.T) {
	profile := map[string]interface{}{"target_role": "Backend Engineer", "experience_years": 3}
	updates := map[string]interface{}{"target_role": "Staff Engineer"}

	merged := MergeProfile(profile, updates)

	if merged["target_role"] != "Staff Engineer" {
		t.Errorf("target_role = %v, want Staff Engineer", merged["target_role"])
	}
	if merged["experience_years"] != 3 {
		t.Errorf("experience_years = %v, want untouched 3", merged["experience_years"])
	}
	if profile["target_role"] != "Backend Engineer" {
		t.Error("MergeProfile mutated its input profile")
	}
}

func TestMergeProfileListUnionDedup(t *testing.T) {
	profile := map[string]interface{}{
		"skills": []interface{}{"Go", "PostgreSQL"},
	}
	updates := map[string]interface{}{
		"skills": []interface{}{"go", "Docker", "postgresql", "Kubernetes"},
	}

	merged := MergeProfile(profile, updates)

	// Case-insensitive dedup, first-seen order and casing preserved.
	want := []interface{}{"Go", "PostgreSQL", "Docker", "Kubernetes"}
	if !reflect.DeepEqual(merged["skills"], want) {
		t.Errorf("skills = %v, want %v", merged["skills"], want)
	}
}

func TestMergeProfileNestedMap(t *testing.T) {
	profile := map[string]interface{}{
		"preferences": map[string]interface{}{"city": "Jakarta", "remote": true},
	}
	updates := map[string]interface{}{
		"preferences": map[string]interface{}{"city": "Bandung"},
	}

	merged := MergeProfile(profile, updates)

	prefs, ok := merged["preferences"].(map[string]interface{})
	if !ok {
		t.Fatalf("preferences = %T, want map", merged["preferences"])
	}
	if prefs["city"] != "Bandung" {
		t.Errorf("city = %v, want Bandung", prefs["city"])
	}
	if prefs["remote"] != true {
		t.Errorf("remote = %v, want preserved true", prefs["remote"])
	}
}

func TestMergeProfileIdempotent(t *testing.T) {
	profile := map[string]interface{}{
		"skills":      []interface{}{"Go"},
		"target_role": "Backend Engineer",
	}
	updates := map[string]interface{}{
		"skills":              []interface{}{"Docker"},
		"last_interview_role": "Backend Engineer",
	}

	once := MergeProfile(profile, updates)
	twice := MergeProfile(once, updates)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("MergeProfile not idempotent:\nonce  = %v\ntwice = %v", once, twice)
	}
}
