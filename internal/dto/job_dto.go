package dto

type JobSearchRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Query  string `json:"query" validate:"required"`
	City   string `json:"city"`
}

type JobSearchResponse struct {
	Listings        []map[string]interface{} `json:"listings"`
	SearchVariant   string                   `json:"search_variant"`
	NearbyCompanies []NearbyCompany          `json:"nearby_companies,omitempty"`
}

type NearbyCompany struct {
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
}

type JobLocationResponse struct {
	City      string          `json:"city"`
	Companies []NearbyCompany `json:"companies"`
}
