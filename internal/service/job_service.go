package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"career-coach-be/internal/dto"
	"career-coach-be/internal/pkg/logger"
	"career-coach-be/internal/repository/specification"
	"career-coach-be/internal/repository/unitofwork"
	"career-coach-be/pkg/coach/agent"
	"career-coach-be/pkg/geo"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const geoCacheTTL = 24 * time.Hour

type IJobService interface {
	Search(ctx context.Context, req *dto.JobSearchRequest) (*dto.JobSearchResponse, error)
	Match(ctx context.Context, req *dto.JobSearchRequest) (*dto.JobSearchResponse, error)
	Location(ctx context.Context, city string) *dto.JobLocationResponse
}

type jobService struct {
	agent      *agent.JobSearchAgent
	geocoder   agent.Geocoder
	offices    agent.OfficeFinder
	uowFactory unitofwork.RepositoryFactory
	rdb        *redis.Client
	logger     logger.ILogger
}

func NewJobService(
	jobAgent *agent.JobSearchAgent,
	geocoder agent.Geocoder,
	offices agent.OfficeFinder,
	uowFactory unitofwork.RepositoryFactory,
	rdb *redis.Client,
	log logger.ILogger,
) IJobService {
	return &jobService{
		agent:      jobAgent,
		geocoder:   geocoder,
		offices:    offices,
		uowFactory: uowFactory,
		rdb:        rdb,
		logger:     log,
	}
}

func (s *jobService) Search(ctx context.Context, req *dto.JobSearchRequest) (*dto.JobSearchResponse, error) {
	profile := s.loadProfile(ctx, req.UserID)

	var listings []map[string]interface{}
	variant := "plain"
	if len(profile) > 0 {
		listings = s.agent.SearchWithProfile(ctx, req.Query, req.City, "", profile)
		variant = "profile_aware"
	} else {
		listings = s.agent.Search(ctx, req.Query, req.City, "")
	}

	resp := &dto.JobSearchResponse{
		Listings:      listings,
		SearchVariant: variant,
	}

	if req.City != "" {
		for _, office := range s.nearbyCompanies(ctx, req.City) {
			resp.NearbyCompanies = append(resp.NearbyCompanies, dto.NearbyCompany{
				Name:       office.Name,
				DistanceKm: office.DistanceKm,
			})
		}
	}

	return resp, nil
}

// Match always takes the profile-aware search path: the stored profile is
// loaded and passed to the agent even when empty, so every listing carries
// a matching_analysis.
func (s *jobService) Match(ctx context.Context, req *dto.JobSearchRequest) (*dto.JobSearchResponse, error) {
	profile := s.loadProfile(ctx, req.UserID)
	if profile == nil {
		profile = map[string]interface{}{}
	}

	listings := s.agent.SearchWithProfile(ctx, req.Query, req.City, "", profile)

	return &dto.JobSearchResponse{
		Listings:      listings,
		SearchVariant: "profile_aware",
	}, nil
}

// Location exposes the nearby-company lookup on its own, for clients that
// want office data without running a search.
func (s *jobService) Location(ctx context.Context, city string) *dto.JobLocationResponse {
	resp := &dto.JobLocationResponse{
		City:      city,
		Companies: []dto.NearbyCompany{},
	}
	for _, office := range s.nearbyCompanies(ctx, city) {
		resp.Companies = append(resp.Companies, dto.NearbyCompany{
			Name:       office.Name,
			DistanceKm: office.DistanceKm,
		})
	}
	return resp
}

func (s *jobService) loadProfile(ctx context.Context, userID string) map[string]interface{} {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	id, err := uuid.Parse(userID)
	if err != nil {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: userID})
		if err != nil || user == nil {
			return nil
		}
		return user.Profile
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil || user == nil {
		return nil
	}
	return user.Profile
}

// nearbyCompanies resolves the city center and looks up surrounding offices,
// caching both steps in redis since OSM endpoints are rate limited.
func (s *jobService) nearbyCompanies(ctx context.Context, city string) []geo.Office {
	cacheKey := fmt.Sprintf("geo:offices:%s", strings.ToLower(strings.TrimSpace(city)))

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached []geo.Office
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached
			}
		}
	}

	place, err := s.geocoder.CityCenter(ctx, city)
	if err != nil || place == nil || !place.Found {
		return nil
	}

	offices, err := s.offices.NearbyOffices(ctx, place.Lat, place.Lon, 0)
	if err != nil {
		s.logger.Warn("jobs", "office lookup failed", map[string]interface{}{
			"city":  city,
			"error": err.Error(),
		})
		return nil
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(offices); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, geoCacheTTL).Err(); err != nil {
				s.logger.Debug("jobs", "office cache write failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}

	return offices
}
