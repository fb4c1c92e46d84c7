package result

import "github.com/kailas-cloud/talentdex/internal/domain/professional"

// Hit is one record in a ranked result set.
type Hit struct {
	Record professional.Record `json:"record"`
	// Score is the average fuzzy score over the query terms, set only in
	// relevance mode. Lower is better.
	Score *float64 `json:"score,omitempty"`
	// DistanceKM is the distance to the reference location, set only in
	// distance mode. Nil means unknown.
	DistanceKM *float64 `json:"distance_km,omitempty"`
}

// ID returns the record identifier.
func (h *Hit) ID() string { return h.Record.ID }

// FromRecords wraps records as hits without scores or distances.
func FromRecords(records []professional.Record) []Hit {
	hits := make([]Hit, len(records))
	for i := range records {
		hits[i] = Hit{Record: records[i]}
	}
	return hits
}
