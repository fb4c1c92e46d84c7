package search

import (
	"slices"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/domain/fuzzy"
	"github.com/kailas-cloud/talentdex/internal/domain/search/query"
)

type mockMatcher struct {
	results map[string][]fuzzy.Match
	calls   map[string]int
}

func (m *mockMatcher) Search(term string) []fuzzy.Match {
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[term]++
	return m.results[term]
}

func accept(ids ...string) []fuzzy.Match {
	out := make([]fuzzy.Match, len(ids))
	for i, id := range ids {
		out[i] = fuzzy.Match{ID: id, Score: 0.1, Accepted: true}
	}
	return out
}

var roster = []string{"a", "b", "c", "d"}

func TestEvaluate_EmptyQueryReturnsRoster(t *testing.T) {
	m := &mockMatcher{}
	for _, q := range []query.Query{nil, {}, {{ID: "g"}}, {{ID: "g", Badges: []string{" ", ""}}}} {
		got := Evaluate(q, roster, m)
		if !slices.Equal(got, roster) {
			t.Errorf("Evaluate(%v) = %v, want roster", q, got)
		}
	}
	if len(m.calls) != 0 {
		t.Errorf("matcher called %v times for an empty query", m.calls)
	}
}

func TestEvaluate_AndOfOr(t *testing.T) {
	m := &mockMatcher{results: map[string][]fuzzy.Match{
		"rust":  accept("a", "b"),
		"go":    accept("c"),
		"prezi": accept("b", "c", "d"),
	}}
	q := query.Query{
		{ID: "tech", Badges: []string{"rust", "go"}},
		{ID: "company", Badges: []string{"prezi"}},
	}

	got := Evaluate(q, roster, m)
	if want := []string{"b", "c"}; !slices.Equal(got, want) {
		t.Errorf("Evaluate() = %v, want %v", got, want)
	}
}

func TestEvaluate_GroupOrderIrrelevant(t *testing.T) {
	m := &mockMatcher{results: map[string][]fuzzy.Match{
		"rust":  accept("a", "b"),
		"prezi": accept("b", "c"),
	}}
	g1 := query.Group{ID: "1", Badges: []string{"rust"}}
	g2 := query.Group{ID: "2", Badges: []string{"prezi"}}

	ab := Evaluate(query.Query{g1, g2}, roster, m)
	ba := Evaluate(query.Query{g2, g1}, roster, m)
	if !slices.Equal(ab, ba) || !slices.Equal(ab, []string{"b"}) {
		t.Errorf("got %v and %v, want [b] for both", ab, ba)
	}
}

func TestEvaluate_IgnoresRejectedMatches(t *testing.T) {
	m := &mockMatcher{results: map[string][]fuzzy.Match{
		"rust": {{ID: "a", Score: 0.1, Accepted: true}, {ID: "b", Score: 0.6}},
	}}

	got := Evaluate(query.Query{{ID: "g", Badges: []string{"rust"}}}, roster, m)
	if !slices.Equal(got, []string{"a"}) {
		t.Errorf("Evaluate() = %v, want [a]", got)
	}
}

func TestEvaluate_EmptyGroupIsVacuous(t *testing.T) {
	m := &mockMatcher{results: map[string][]fuzzy.Match{"rust": accept("d", "a")}}
	q := query.Query{{ID: "empty"}, {ID: "g", Badges: []string{"rust"}}}

	got := Evaluate(q, roster, m)
	if !slices.Equal(got, []string{"a", "d"}) {
		t.Errorf("Evaluate() = %v, want roster order [a d]", got)
	}
}

func TestEvaluate_NoMatchesDropsAll(t *testing.T) {
	m := &mockMatcher{}
	got := Evaluate(query.Query{{ID: "g", Badges: []string{"cobol"}}}, roster, m)
	if len(got) != 0 {
		t.Errorf("Evaluate() = %v, want empty", got)
	}
}

func TestEvaluate_TermSearchedOnce(t *testing.T) {
	m := &mockMatcher{results: map[string][]fuzzy.Match{"rust": accept("a")}}
	q := query.Query{
		{ID: "1", Badges: []string{"rust"}},
		{ID: "2", Badges: []string{"go", "rust"}},
	}

	Evaluate(q, roster, m)
	if m.calls["rust"] != 1 || m.calls["go"] != 1 {
		t.Errorf("calls = %v, want each term once", m.calls)
	}
}

func TestRelevanceScores(t *testing.T) {
	tm := termMatches{
		"rust": {{ID: "a", Score: 0.1}, {ID: "b", Score: 0.3}},
		"go":   {{ID: "a", Score: 0.3}},
	}

	scores := relevanceScores(tm, []string{"a", "b", "c"})
	if got := scores["a"]; !almost(got, 0.2) {
		t.Errorf("a = %f, want 0.2", got)
	}
	if got := scores["b"]; !almost(got, 0.65) {
		t.Errorf("b = %f, want 0.65", got)
	}
	if got := scores["c"]; !almost(got, 1) {
		t.Errorf("c = %f, want 1", got)
	}
}

func almost(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
