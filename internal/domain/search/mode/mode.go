package mode

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain"
)

// Mode is the ranking strategy applied to the filtered result set.
type Mode string

// Ranking mode constants.
const (
	// Alphabetical orders by full name. It is the default.
	Alphabetical Mode = "alphabetical"
	// Relevance orders by the average fuzzy score over all query terms.
	Relevance Mode = "relevance"
	// Distance orders by geodistance to the reference location.
	Distance Mode = "distance"
	// Availability puts available-now first, then by availability date.
	Availability Mode = "availability"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Alphabetical || m == Relevance || m == Distance || m == Availability
}

// Parse resolves a user-supplied mode name. Empty means Alphabetical.
func Parse(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return Alphabetical, nil
	}
	if !m.IsValid() {
		return "", domain.NewValidationError("mode", "unknown ranking mode "+strconv.Quote(s))
	}
	return m, nil
}
