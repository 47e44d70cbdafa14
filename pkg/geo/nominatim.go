package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Place is a resolved city center.
type Place struct {
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	Country     string  `json:"country"`
	Found       bool    `json:"found"`
}

// NominatimClient resolves city names to coordinates via the public
// OpenStreetMap Nominatim API. Lookups degrade to not-found on any network
// or decode failure; callers never see an error for a missing city.
type NominatimClient struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewNominatimClient(baseURL string) *NominatimClient {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &NominatimClient{
		BaseURL:   baseURL,
		UserAgent: "career-coach-be/1.0",
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Country string `json:"country"`
	} `json:"address"`
}

// CityCenter geocodes a city name. A nil error with Found=false means the
// lookup ran but nothing matched (or the network failed).
func (c *NominatimClient) CityCenter(ctx context.Context, city string) (*Place, error) {
	params := url.Values{}
	params.Add("q", city)
	params.Add("format", "json")
	params.Add("limit", "1")
	params.Add("addressdetails", "1")

	endpoint := fmt.Sprintf("%s/search?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return &Place{City: city}, nil
	}
	// Nominatim's usage policy requires an identifying User-Agent
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return &Place{City: city}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return &Place{City: city}, nil
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil || len(results) == 0 {
		return &Place{City: city}, nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return &Place{City: city}, nil
	}

	return &Place{
		City:        city,
		Lat:         lat,
		Lon:         lon,
		DisplayName: results[0].DisplayName,
		Country:     results[0].Address.Country,
		Found:       true,
	}, nil
}
