package search

import (
	"slices"

	"github.com/kailas-cloud/talentdex/internal/domain/fuzzy"
	"github.com/kailas-cloud/talentdex/internal/domain/search/query"
)

// termMatches holds the matcher output of every distinct query term.
type termMatches map[string][]fuzzy.Match

// searchTerms runs each distinct term through the matcher exactly once.
func searchTerms(q query.Query, m TermMatcher) termMatches {
	terms := q.Terms()
	out := make(termMatches, len(terms))
	for _, t := range terms {
		out[t] = m.Search(t)
	}
	return out
}

// accepted indexes the accepted ids per term.
func (tm termMatches) accepted() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{}, len(tm))
	for term, matches := range tm {
		ids := make(map[string]struct{})
		for _, m := range matches {
			if m.Accepted {
				ids[m.ID] = struct{}{}
			}
		}
		out[term] = ids
	}
	return out
}

// Evaluate keeps the roster ids that satisfy every non-empty group, where
// a group is satisfied when at least one of its terms accepts the id.
// A query without terms returns the roster unchanged. Roster order is kept.
func Evaluate(q query.Query, rosterIDs []string, m TermMatcher) []string {
	if q.IsEmpty() {
		return slices.Clone(rosterIDs)
	}
	return compose(q, rosterIDs, searchTerms(q, m))
}

func compose(q query.Query, rosterIDs []string, tm termMatches) []string {
	if q.IsEmpty() {
		return slices.Clone(rosterIDs)
	}

	accepted := tm.accepted()
	groups := make([][]string, 0, len(q))
	for _, g := range q {
		if terms := g.Terms(); len(terms) > 0 {
			groups = append(groups, terms)
		}
	}

	out := make([]string, 0, len(rosterIDs))
	for _, id := range rosterIDs {
		if satisfiesAll(id, groups, accepted) {
			out = append(out, id)
		}
	}
	return out
}

func satisfiesAll(id string, groups [][]string, accepted map[string]map[string]struct{}) bool {
	for _, terms := range groups {
		if !satisfiesAny(id, terms, accepted) {
			return false
		}
	}
	return true
}

func satisfiesAny(id string, terms []string, accepted map[string]map[string]struct{}) bool {
	for _, t := range terms {
		if _, ok := accepted[t][id]; ok {
			return true
		}
	}
	return false
}
