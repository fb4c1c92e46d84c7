package search

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/fuzzy"
	"github.com/kailas-cloud/talentdex/internal/domain/professional"
)

// RosterSource reads one consistent roster snapshot.
type RosterSource interface {
	Snapshot(ctx context.Context) (professional.Snapshot, error)
}

// DistanceResolver computes distances from a reference city, aligned with
// the input. Unknown distances are nil.
type DistanceResolver interface {
	BatchDistance(ctx context.Context, reference string, cities []string) []*float64
}

// TermMatcher scores a single term against the indexed roster.
type TermMatcher interface {
	Search(term string) []fuzzy.Match
}
