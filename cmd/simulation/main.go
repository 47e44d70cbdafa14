package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
)

const (
	baseURL = "http://localhost:3000/api/coach/v1"
	userID  = "demo@careercoach.local"
)

// Simplified DTOs for the script
type AskRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query"`
}

type AskResponse struct {
	Data struct {
		SessionID  string   `json:"session_id"`
		Intent     string   `json:"intent"`
		Confidence float64  `json:"confidence"`
		Response   string   `json:"response"`
		AgentsUsed []string `json:"agents_used"`
	} `json:"data"`
}

func main() {
	color.Cyan("=== Career Coach Simulation Client ===")
	fmt.Printf("Connecting as User: %s\n", userID)

	sessionID := ""

	testCases := []struct {
		label string
		query string
	}{
		{"General advice", "How do I switch from support engineering into backend development?"},
		{"Resume review", "Can you review my resume? I have 3 years of Go experience and want a senior role."},
		{"Knowledge lookup", "What is the STAR method for behavioral interviews?"},
		{"Job search", "Find backend engineer jobs in Jakarta"},
		{"Interview start", "Start a mock interview for a mid-level backend engineer"},
		{"Interview answer", "I would profile the service first, then add an index on the slow query"},
		{"Break out", "Actually stop the interview, let's talk about salary negotiation instead"},
	}

	for i, tc := range testCases {
		color.Yellow("\n[%d] %s", i+1, tc.label)
		fmt.Printf("USER: %s\n", tc.query)

		start := time.Now()
		res, err := ask(sessionID, tc.query)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Failed: %v", err)
			continue
		}

		sessionID = res.Data.SessionID
		color.Green("Intent: %s (%.2f) via %v", res.Data.Intent, res.Data.Confidence, res.Data.AgentsUsed)
		fmt.Printf("AI (%v): %s\n", elapsed, res.Data.Response)

		// Small delay to allow async event consumers to flush (optional)
		time.Sleep(1 * time.Second)
	}

	color.Cyan("\n=== Simulation complete ===")
}

func ask(sessionID, query string) (*AskResponse, error) {
	payload := AskRequest{
		UserID:    userID,
		SessionID: sessionID,
		Query:     query,
	}
	jsonBytes, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", baseURL+"/ask", bytes.NewBuffer(jsonBytes))
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
