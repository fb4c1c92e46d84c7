package search

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/talentdex/internal/domain/search/mode"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
)

// RankOptions carries the context a mode needs to decide whether it
// applies. A mode without its input falls back to alphabetical order.
type RankOptions struct {
	// Language selects collation rules for names. Zero value is language.Und.
	Language language.Tag
	// HasTerms is set when the query had at least one term.
	HasTerms bool
	// HasReference is set when a reference location was supplied.
	HasReference bool
}

type compareFunc func(a, b *result.Hit) int

// Rank returns a new slice holding hits in the order of m. The final
// tie-break is full name, then id, so the order is total.
func Rank(hits []result.Hit, m mode.Mode, opts RankOptions) []result.Hit {
	out := slices.Clone(hits)

	// A collator keeps internal buffers; one per call.
	col := collate.New(opts.Language, collate.IgnoreCase)
	byName := func(a, b *result.Hit) int {
		if c := col.CompareString(a.Record.FullName, b.Record.FullName); c != 0 {
			return c
		}
		return strings.Compare(a.Record.ID, b.Record.ID)
	}

	primary := primaryOrder(m, opts)
	slices.SortFunc(out, func(a, b result.Hit) int {
		if primary != nil {
			if c := primary(&a, &b); c != 0 {
				return c
			}
		}
		return byName(&a, &b)
	})
	return out
}

func primaryOrder(m mode.Mode, opts RankOptions) compareFunc {
	switch m {
	case mode.Relevance:
		if opts.HasTerms {
			return byScore
		}
	case mode.Distance:
		if opts.HasReference {
			return byDistance
		}
	case mode.Availability:
		return byAvailability
	}
	return nil
}

func byScore(a, b *result.Hit) int {
	return cmp.Compare(orDefault(a.Score, missingScore), orDefault(b.Score, missingScore))
}

func byDistance(a, b *result.Hit) int {
	return cmp.Compare(orDefault(a.DistanceKM, math.Inf(1)), orDefault(b.DistanceKM, math.Inf(1)))
}

// availability buckets: now, known date, unknown.
const (
	availableNow = iota
	availableLater
	availableUnknown
)

func byAvailability(a, b *result.Hit) int {
	ba, ta := availability(a)
	bb, tb := availability(b)
	if c := cmp.Compare(ba, bb); c != 0 {
		return c
	}
	return ta.Compare(tb)
}

func availability(h *result.Hit) (int, time.Time) {
	if h.Record.Available {
		return availableNow, time.Time{}
	}
	if t, ok := h.Record.AvailableSince(); ok {
		return availableLater, t
	}
	return availableUnknown, time.Time{}
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
