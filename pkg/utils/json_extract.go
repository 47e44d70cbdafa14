package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no decodable JSON payload could be located
// inside an LLM response.
type ErrNoJSON struct {
	Snippet string
}

func (e *ErrNoJSON) Error() string {
	return fmt.Sprintf("no JSON payload found in response: %q", e.Snippet)
}

// ExtractJSON performs a best-effort structured decode of an LLM response
// into target. Strategy, in order:
//  1. Strip markdown code fences (```json ... ```).
//  2. Attempt a direct unmarshal of the stripped text.
//  3. Attempt to decode the outermost {...} object, then the outermost
//     [...] array.
//
// LLMs frequently wrap JSON in prose or fences; every component that parses
// model output goes through this single entry point.
func ExtractJSON(response string, target interface{}) error {
	cleaned := StripCodeFences(response)

	if err := json.Unmarshal([]byte(cleaned), target); err == nil {
		return nil
	}

	if obj := outermost(cleaned, '{', '}'); obj != "" {
		if err := json.Unmarshal([]byte(obj), target); err == nil {
			return nil
		}
	}

	if arr := outermost(cleaned, '[', ']'); arr != "" {
		if err := json.Unmarshal([]byte(arr), target); err == nil {
			return nil
		}
	}

	snippet := cleaned
	if len(snippet) > 120 {
		snippet = snippet[:120]
	}
	return &ErrNoJSON{Snippet: snippet}
}

// StripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, and trims whitespace.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "```") {
		// Drop the opening fence line (```json, ```JSON, or bare ```)
		if idx := strings.Index(trimmed, "\n"); idx != -1 {
			trimmed = trimmed[idx+1:]
		} else {
			trimmed = strings.TrimPrefix(trimmed, "```")
		}
		if end := strings.LastIndex(trimmed, "```"); end != -1 {
			trimmed = trimmed[:end]
		}
	}

	return strings.TrimSpace(trimmed)
}

func outermost(s string, open, close byte) string {
	startIdx := strings.IndexByte(s, open)
	endIdx := strings.LastIndexByte(s, close)

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return s[startIdx : endIdx+1]
}
