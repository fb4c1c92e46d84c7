package chi

import (
	"time"

	"github.com/kailas-cloud/talentdex/internal/domain/career"
	"github.com/kailas-cloud/talentdex/internal/domain/search/query"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.Code.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeCityNotFound        ErrorCode = "city_not_found"
	ErrorCodeInvalidKind         ErrorCode = "invalid_kind"
	ErrorCodeRosterUnavailable   ErrorCode = "roster_unavailable"
	ErrorCodeGeocoderUnavailable ErrorCode = "geocoder_unavailable"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// GroupDTO is one OR-group of badges.
type GroupDTO struct {
	ID     string   `json:"id"`
	Badges []string `json:"badges" validate:"max=32,dive,max=1024"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query             []GroupDTO `json:"query" validate:"max=16,dive"`
	Mode              string     `json:"mode" validate:"max=32"`
	ReferenceLocation string     `json:"reference_location" validate:"max=256"`
	Offset            int        `json:"offset" validate:"gte=0"`
	Limit             int        `json:"limit" validate:"gte=0"`
}

// SearchResultItem is one ranked professional.
type SearchResultItem struct {
	ID            string     `json:"id"`
	FullName      string     `json:"full_name"`
	City          string     `json:"city,omitempty"`
	Available     bool       `json:"available"`
	AvailableFrom *time.Time `json:"available_from,omitempty"`
	Score         *float64   `json:"score,omitempty"`
	DistanceKM    *float64   `json:"distance_km,omitempty"`
}

// SearchResponse is one page of results.
type SearchResponse struct {
	Items  []SearchResultItem `json:"items"`
	Total  int                `json:"total"`
	Offset int                `json:"offset"`
	Limit  int                `json:"limit"`
}

// CareerBlobRequest is the body of POST /career/{kind}/decode.
type CareerBlobRequest struct {
	Blob string `json:"blob"`
}

// CareerBlobResponse is the body returned by POST /career/{kind}/encode.
type CareerBlobResponse struct {
	Blob string `json:"blob"`
}

// CareerDocument is the structured form of a career blob.
type CareerDocument struct {
	Summary   string                  `json:"summary,omitempty"`
	Work      []career.WorkEntry      `json:"work,omitempty" validate:"dive"`
	Education []career.EducationEntry `json:"education,omitempty" validate:"dive"`
}

// DistancesRequest is the body of POST /geo/distances.
type DistancesRequest struct {
	Reference string   `json:"reference" validate:"required,max=256"`
	Cities    []string `json:"cities" validate:"max=1000,dive,max=256"`
}

// DistancesResponse holds one entry per requested city; null when unresolved.
type DistancesResponse struct {
	Distances []*float64 `json:"distances"`
}

// CoordinatesResponse is the body of GET /geo/coordinates.
type CoordinatesResponse struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func queryFromDTO(groups []GroupDTO) query.Query {
	q := make(query.Query, len(groups))
	for i, g := range groups {
		q[i] = query.Group{ID: g.ID, Badges: g.Badges}
	}
	return q
}

func hitToDTO(h *result.Hit) SearchResultItem {
	item := SearchResultItem{
		ID:         h.ID(),
		FullName:   h.Record.FullName,
		City:       h.Record.City,
		Available:  h.Record.Available,
		Score:      h.Score,
		DistanceKM: h.DistanceKM,
	}
	if from, ok := h.Record.AvailableSince(); ok {
		item.AvailableFrom = &from
	}
	return item
}

func careerToDTO(d career.Decoded) CareerDocument {
	return CareerDocument{Summary: d.Summary, Work: d.Work, Education: d.Education}
}

func careerFromDTO(d CareerDocument) career.Decoded {
	return career.Decoded{Summary: d.Summary, Work: d.Work, Education: d.Education}
}
