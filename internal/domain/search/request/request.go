package request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/search/mode"
	"github.com/kailas-cloud/talentdex/internal/domain/search/query"
)

// Search parameter limits.
const (
	MaxGroups         = 16
	MaxBadgesPerGroup = 32
	// MaxBadgeLength is counted in runes.
	MaxBadgeLength = 256
	DefaultLimit   = 50
	MaxLimit       = 500
)

// Request is a validated search query.
type Request struct {
	query     query.Query
	rankMode  mode.Mode
	reference string
	offset    int
	limit     int
}

// New validates and normalizes search parameters.
// Defaults: mode=alphabetical, limit=50. Limit is clamped to MaxLimit.
func New(q query.Query, m mode.Mode, reference string, offset, limit int) (Request, error) {
	if len(q) > MaxGroups {
		return Request{}, domain.NewValidationError("query", fmt.Sprintf("too many groups (max %d)", MaxGroups))
	}
	for i, g := range q {
		if len(g.Badges) > MaxBadgesPerGroup {
			return Request{}, domain.NewValidationError(
				fmt.Sprintf("query[%d].badges", i), fmt.Sprintf("too many badges (max %d)", MaxBadgesPerGroup))
		}
		for _, b := range g.Badges {
			if utf8.RuneCountInString(b) > MaxBadgeLength {
				return Request{}, domain.NewValidationError(
					fmt.Sprintf("query[%d].badges", i), fmt.Sprintf("badge too long (max %d chars)", MaxBadgeLength))
			}
		}
	}
	if m == "" {
		m = mode.Alphabetical
	}
	if !m.IsValid() {
		return Request{}, domain.NewValidationError("mode", fmt.Sprintf("invalid ranking mode: %q", m))
	}
	if offset < 0 {
		return Request{}, domain.NewValidationError("offset", "must not be negative")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Request{
		query:     q,
		rankMode:  m,
		reference: strings.TrimSpace(reference),
		offset:    offset,
		limit:     limit,
	}, nil
}

// Query returns the boolean search expression.
func (r *Request) Query() query.Query { return r.query }

// Mode returns the ranking strategy.
func (r *Request) Mode() mode.Mode { return r.rankMode }

// Reference returns the reference city for distance ranking, or "".
func (r *Request) Reference() string { return r.reference }

// HasReference reports whether a reference location was supplied.
func (r *Request) HasReference() bool { return r.reference != "" }

// Offset returns the number of ranked hits to skip.
func (r *Request) Offset() int { return r.offset }

// Limit returns the maximum hits to return.
func (r *Request) Limit() int { return r.limit }
