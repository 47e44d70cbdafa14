package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"career-coach-be/internal/pkg/logger"
	"career-coach-be/pkg/coach/intent"
	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/geo"
	"career-coach-be/pkg/llm"
	"career-coach-be/pkg/utils"
)

// Geocoder resolves a city name to coordinates.
type Geocoder interface {
	CityCenter(ctx context.Context, city string) (*geo.Place, error)
}

// OfficeFinder lists company POIs around a coordinate.
type OfficeFinder interface {
	NearbyOffices(ctx context.Context, lat, lon float64, radiusM int) ([]geo.Office, error)
}

// JobSearchAgent synthesizes job listings for a query and location,
// grounded in real nearby companies when geocoding succeeds. A stored user
// profile switches it to the profile-aware variant that also scores each
// listing against the profile.
type JobSearchAgent struct {
	llmProvider llm.LLMProvider
	geocoder    Geocoder
	offices     OfficeFinder
	logger      logger.ILogger

	// Profile-aware call counter, exposed for tests asserting which
	// variant ran.
	profileSearches int
}

const officeSearchRadiusM = 5000

func NewJobSearchAgent(llmProvider llm.LLMProvider, geocoder Geocoder, offices OfficeFinder, log logger.ILogger) *JobSearchAgent {
	return &JobSearchAgent{
		llmProvider: llmProvider,
		geocoder:    geocoder,
		offices:     offices,
		logger:      log,
	}
}

// ProfileSearchCount returns how many profile-aware searches have run.
func (a *JobSearchAgent) ProfileSearchCount() int { return a.profileSearches }

func (a *JobSearchAgent) Handle(ctx context.Context, s *state.State) state.Update {
	started := time.Now()
	update := state.Update{AgentUsed: intent.AgentJobSearch}

	query := s.JobSearchQuery
	if query == "" {
		query = s.UserQuery
	}
	if strings.TrimSpace(query) == "" {
		update.ErrorMessage = "Tell me what kind of role you're looking for and I'll search for openings."
		return update
	}

	var (
		results []map[string]interface{}
		variant string
	)
	if len(s.UserProfile) > 0 {
		variant = "profile_aware"
		results = a.SearchWithProfile(ctx, query, s.JobSearchLocation, s.JobSearchLevel, s.UserProfile)
	} else {
		variant = "plain"
		results = a.Search(ctx, query, s.JobSearchLocation, s.JobSearchLevel)
	}

	update.JobResults = results
	update.JobSearchQuery = query
	update.DebugInfo = map[string]interface{}{
		"job_search_variant": variant,
		"job_search_ms":      time.Since(started).Milliseconds(),
		"job_result_count":   len(results),
	}
	return update
}

// Search runs the plain pipeline: geocode, nearby offices, LLM synthesis.
func (a *JobSearchAgent) Search(ctx context.Context, query, location, level string) []map[string]interface{} {
	place, companies := a.gatherLocationContext(ctx, location)
	return a.generateListings(ctx, query, location, level, place, companies, nil)
}

// SearchWithProfile additionally scores each listing against the profile.
func (a *JobSearchAgent) SearchWithProfile(ctx context.Context, query, location, level string, profile map[string]interface{}) []map[string]interface{} {
	a.profileSearches++
	place, companies := a.gatherLocationContext(ctx, location)
	return a.generateListings(ctx, query, location, level, place, companies, profile)
}

func (a *JobSearchAgent) gatherLocationContext(ctx context.Context, location string) (*geo.Place, []geo.Office) {
	if location == "" {
		return nil, nil
	}

	place, err := a.geocoder.CityCenter(ctx, location)
	if err != nil || place == nil || !place.Found {
		a.logger.Debug("JobSearchAgent", "geocoding found nothing", map[string]interface{}{"city": location})
		return nil, nil
	}

	companies, err := a.offices.NearbyOffices(ctx, place.Lat, place.Lon, officeSearchRadiusM)
	if err != nil {
		companies = nil
	}
	return place, companies
}

func (a *JobSearchAgent) generateListings(ctx context.Context, query, location, level string, place *geo.Place, companies []geo.Office, profile map[string]interface{}) []map[string]interface{} {
	prompt := buildJobSearchPrompt(query, location, level, place, companies, profile)

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.5))
	if err != nil {
		a.logger.Warn("JobSearchAgent", "listing generation failed, using fallback listings", map[string]interface{}{
			"error": err.Error(),
		})
		return fallbackListings(query, location)
	}

	var listings []map[string]interface{}
	if err := utils.ExtractJSON(response, &listings); err != nil || len(listings) == 0 {
		a.logger.Warn("JobSearchAgent", "listing parse failed, using fallback listings", nil)
		return fallbackListings(query, location)
	}

	return normalizeListings(listings, location)
}

func buildJobSearchPrompt(query, location, level string, place *geo.Place, companies []geo.Office, profile map[string]interface{}) string {
	var sb strings.Builder

	sb.WriteString("You are a job-market researcher generating realistic, representative job listings.\n\n")
	fmt.Fprintf(&sb, "Role query: %s\n", query)
	if location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", location)
	}
	if level != "" {
		fmt.Fprintf(&sb, "Seniority: %s\n", level)
	}

	if place != nil && len(companies) > 0 {
		sb.WriteString("\nReal companies with offices nearby (use these as employers where plausible):\n")
		limit := len(companies)
		if limit > 10 {
			limit = 10
		}
		for _, c := range companies[:limit] {
			fmt.Fprintf(&sb, "- %s (%.1f km from center)\n", c.Name, c.DistanceKm)
		}
	}

	if profile != nil {
		fmt.Fprintf(&sb, "\nCandidate profile:\n%v\n", profile)
		sb.WriteString("\nFor EACH listing include a \"matching_analysis\" object: ")
		sb.WriteString("{\"match_score\": 0-100, \"matching_skills\": [...], \"missing_skills\": [...], \"fit_summary\": \"...\"}\n")
	}

	sb.WriteString(`
Respond with ONLY a valid JSON array of 3-5 listings:
[
  {"title": "...", "company": "...", "location": "...", "level": "...",
   "salary_range": "...", "description": "...", "requirements": ["..."],
   "posted": "recently"}
]`)

	return sb.String()
}

// normalizeListings guarantees the fields the synthesizer and API rely on.
func normalizeListings(listings []map[string]interface{}, location string) []map[string]interface{} {
	for _, l := range listings {
		if _, ok := l["title"].(string); !ok {
			l["title"] = "Untitled role"
		}
		if _, ok := l["company"].(string); !ok {
			l["company"] = "Confidential"
		}
		if _, ok := l["location"].(string); !ok {
			l["location"] = location
		}
		if _, ok := l["description"].(string); !ok {
			l["description"] = ""
		}
	}
	return listings
}

func fallbackListings(query, location string) []map[string]interface{} {
	if location == "" {
		location = "Remote"
	}
	return []map[string]interface{}{
		{
			"title":        query,
			"company":      "TechCorp Solutions",
			"location":     location,
			"level":        "mid",
			"salary_range": "competitive",
			"description":  "A growing product team is hiring for this role. Apply with an up-to-date resume.",
			"requirements": []interface{}{"Relevant experience", "Strong communication"},
			"posted":       "recently",
		},
		{
			"title":        query,
			"company":      "Innovate Labs",
			"location":     location,
			"level":        "senior",
			"salary_range": "competitive",
			"description":  "An established company is expanding its engineering organization.",
			"requirements": []interface{}{"Track record of delivery", "Mentoring experience"},
			"posted":       "this week",
		},
	}
}
