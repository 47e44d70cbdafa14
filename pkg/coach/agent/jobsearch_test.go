package agent

import (
	"context"
	"errors"
	"testing"

	"career-coach-be/pkg/coach/state"
	"career-coach-be/pkg/geo"
)

type fakeGeocoder struct {
	place *geo.Place
	calls int
}

func (f *fakeGeocoder) CityCenter(ctx context.Context, city string) (*geo.Place, error) {
	f.calls++
	if f.place == nil {
		return &geo.Place{Found: false}, nil
	}
	return f.place, nil
}

type fakeOfficeFinder struct {
	offices []geo.Office
}

func (f *fakeOfficeFinder) NearbyOffices(ctx context.Context, lat, lon float64, radiusM int) ([]geo.Office, error) {
	return f.offices, nil
}

func TestHandleProfileAwareVariant(t *testing.T) {
	a := NewJobSearchAgent(&fakeLLM{err: errors.New("model offline")}, &fakeGeocoder{}, &fakeOfficeFinder{}, nopLogger{})

	s := state.New("Python Engineer jobs", "u1", "s1")
	s.JobSearchLocation = "Berlin"
	s.UserProfile = map[string]interface{}{"skills": []interface{}{"Python"}}

	update := a.Handle(context.Background(), s)

	if a.ProfileSearchCount() != 1 {
		t.Errorf("profile-aware searches = %d, want 1", a.ProfileSearchCount())
	}
	if update.DebugInfo["job_search_variant"] != "profile_aware" {
		t.Errorf("variant = %v, want profile_aware", update.DebugInfo["job_search_variant"])
	}
	if len(update.JobResults) == 0 {
		t.Error("no listings produced, want the canned fallback on LLM failure")
	}
}

func TestHandlePlainVariantWithoutProfile(t *testing.T) {
	a := NewJobSearchAgent(&fakeLLM{err: errors.New("model offline")}, &fakeGeocoder{}, &fakeOfficeFinder{}, nopLogger{})

	s := state.New("backend engineer jobs", "u1", "s1")

	update := a.Handle(context.Background(), s)

	if a.ProfileSearchCount() != 0 {
		t.Errorf("profile-aware searches = %d, want 0", a.ProfileSearchCount())
	}
	if update.DebugInfo["job_search_variant"] != "plain" {
		t.Errorf("variant = %v, want plain", update.DebugInfo["job_search_variant"])
	}
}

func TestHandleEmptyQueryValidation(t *testing.T) {
	geocoder := &fakeGeocoder{}
	a := NewJobSearchAgent(&fakeLLM{}, geocoder, &fakeOfficeFinder{}, nopLogger{})

	s := state.New("   ", "u1", "s1")

	update := a.Handle(context.Background(), s)

	if update.ErrorMessage == "" {
		t.Error("empty query did not produce an error message")
	}
	if geocoder.calls != 0 {
		t.Error("validation failure still hit the geocoder")
	}
	if update.AgentUsed != "job_search" {
		t.Errorf("AgentUsed = %q, want job_search even on validation failure", update.AgentUsed)
	}
}

func TestSearchParsesGeneratedListings(t *testing.T) {
	a := NewJobSearchAgent(&fakeLLM{
		response: `[{"title": "Python Engineer", "company": "Datenwerk", "location": "Berlin"}]`,
	}, &fakeGeocoder{place: &geo.Place{Lat: 52.52, Lon: 13.405, Found: true}}, &fakeOfficeFinder{
		offices: []geo.Office{{Name: "Datenwerk", DistanceKm: 1.2}},
	}, nopLogger{})

	listings := a.Search(context.Background(), "Python Engineer", "Berlin", "senior")

	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	if listings[0]["company"] != "Datenwerk" {
		t.Errorf("company = %v, want Datenwerk", listings[0]["company"])
	}
}
