package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Office is a company/POI near a search origin, sorted by distance.
type Office struct {
	Name       string  `json:"name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	DistanceKm float64 `json:"distance_km"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// OverpassClient queries the Overpass API for offices and company POIs
// around a coordinate. Failures degrade to an empty result list.
type OverpassClient struct {
	BaseURL string
	Client  *http.Client
}

func NewOverpassClient(baseURL string) *OverpassClient {
	if baseURL == "" {
		baseURL = "https://overpass-api.de/api/interpreter"
	}
	return &OverpassClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 25 * time.Second,
		},
	}
}

type overpassResponse struct {
	Elements []struct {
		Lat    float64           `json:"lat"`
		Lon    float64           `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center,omitempty"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// NearbyOffices returns named office nodes within radiusM meters of the
// origin, nearest first.
func (c *OverpassClient) NearbyOffices(ctx context.Context, lat, lon float64, radiusM int) ([]Office, error) {
	if radiusM <= 0 {
		radiusM = 5000
	}

	query := fmt.Sprintf(`[out:json][timeout:20];
(
  node["office"](around:%d,%f,%f);
  way["office"](around:%d,%f,%f);
  node["company"](around:%d,%f,%f);
);
out center 60;`, radiusM, lat, lon, radiusM, lat, lon, radiusM, lat, lon)

	form := url.Values{}
	form.Add("data", query)

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return []Office{}, nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Client.Do(req)
	if err != nil {
		return []Office{}, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		return []Office{}, nil
	}

	var parsed overpassResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return []Office{}, nil
	}

	offices := make([]Office, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		elLat, elLon := el.Lat, el.Lon
		if el.Center != nil {
			elLat, elLon = el.Center.Lat, el.Center.Lon
		}
		offices = append(offices, Office{
			Name:       name,
			Lat:        elLat,
			Lon:        elLon,
			DistanceKm: HaversineKm(lat, lon, elLat, elLon),
			Tags:       el.Tags,
		})
	}

	sort.Slice(offices, func(i, j int) bool {
		return offices[i].DistanceKm < offices[j].DistanceKm
	})

	return offices, nil
}

// HaversineKm computes the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
