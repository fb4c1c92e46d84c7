// Package fuzzy scores free-text terms against record projections with
// substring and edit-distance matching.
package fuzzy

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/xrash/smetrics"

	"github.com/kailas-cloud/talentdex/internal/domain/projection"
)

const (
	// DefaultThreshold accepts only close matches.
	DefaultThreshold = 0.3
	// DefaultMinTermLength is the shortest searchable term in runes.
	DefaultMinTermLength = 2

	// epsilon keeps an exact match distinguishable after weighting.
	epsilon = 0.001
)

// Options tunes scoring and acceptance.
type Options struct {
	// Threshold is the highest accepted score. Substring hits are always
	// accepted, so 0 accepts exact matches only. Negative selects
	// DefaultThreshold.
	Threshold     float64
	MinTermLength int
	Weights       projection.Weights
}

// DefaultOptions returns the reference tuning.
func DefaultOptions() Options {
	return Options{
		Threshold:     DefaultThreshold,
		MinTermLength: DefaultMinTermLength,
		Weights:       projection.DefaultWeights(),
	}
}

func (o Options) withDefaults() Options {
	if o.Threshold < 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MinTermLength <= 0 {
		o.MinTermLength = DefaultMinTermLength
	}
	o.Weights = o.Weights.Merge()
	return o
}

// Match is the score of one record for one term. Lower is better.
type Match struct {
	ID       string
	Score    float64
	Accepted bool
}

type field struct {
	weight float64
	text   string // tokens joined by single spaces
	tokens []string
}

type entry struct {
	id     string
	fields []field
}

// Index is an immutable search structure over one roster snapshot.
// It is safe for concurrent use.
type Index struct {
	opts    Options
	entries []entry
}

// NewIndex folds and tokenizes every projection field.
func NewIndex(projections []projection.Projection, opts Options) *Index {
	opts = opts.withDefaults()
	idx := &Index{opts: opts, entries: make([]entry, 0, len(projections))}
	for _, p := range projections {
		e := entry{id: p.ID}
		for _, f := range projection.Fields() {
			tokens := Tokenize(p.Field(f))
			if len(tokens) == 0 {
				continue
			}
			e.fields = append(e.fields, field{
				weight: opts.Weights[f],
				text:   strings.Join(tokens, " "),
				tokens: tokens,
			})
		}
		idx.entries = append(idx.entries, e)
	}
	return idx
}

// Len returns the number of indexed records.
func (idx *Index) Len() int { return len(idx.entries) }

// IDs returns the indexed record ids in roster order.
func (idx *Index) IDs() []string {
	ids := make([]string, len(idx.entries))
	for i, e := range idx.entries {
		ids[i] = e.id
	}
	return ids
}

// Options returns the effective tuning of the index.
func (idx *Index) Options() Options { return idx.opts }

// Search scores term against every record and returns those with any
// similarity, best first. Ties are ordered by id.
func (idx *Index) Search(term string) []Match {
	tokens := Tokenize(term)
	if len(tokens) == 0 {
		return nil
	}
	needle := strings.Join(tokens, " ")
	if utf8.RuneCountInString(needle) < idx.opts.MinTermLength {
		return nil
	}

	var out []Match
	for _, e := range idx.entries {
		score, exact := 1.0, false
		for _, f := range e.fields {
			raw := fieldScore(needle, len(tokens), f)
			if raw == 0 && f.weight > 0 {
				exact = true
			}
			if s := weighted(raw, f.weight); s < score {
				score = s
			}
		}
		if score < 1 {
			out = append(out, Match{ID: e.id, Score: score, Accepted: exact || score <= idx.opts.Threshold})
		}
	}

	slices.SortFunc(out, func(a, b Match) int {
		if a.Score != b.Score {
			if a.Score < b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// weighted raises the raw score to the field weight. Low weights push
// scores toward 1, so matches there count for less.
func weighted(score, weight float64) float64 {
	if score >= 1 {
		return 1
	}
	if weight <= 0 {
		return 1
	}
	return math.Pow(math.Max(score, epsilon), weight)
}

// fieldScore is 0 for a substring hit, otherwise the best normalized edit
// distance of needle against token windows of the same word count and
// against their prefixes of the needle's length. Distances are computed
// over the bytes of the folded text.
func fieldScore(needle string, words int, f field) float64 {
	if strings.Contains(f.text, needle) {
		return 0
	}
	best := 1.0
	n := len(f.tokens) - words + 1
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		end := min(i+words, len(f.tokens))
		window := strings.Join(f.tokens[i:end], " ")

		best = math.Min(best, distance(needle, window))
		if len(window) > len(needle) {
			best = math.Min(best, distance(needle, window[:len(needle)]))
		}
		if best == 0 {
			break
		}
	}
	return best
}

func distance(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	d := smetrics.WagnerFischer(a, b, 1, 1, 1)
	return math.Min(float64(d)/float64(longest), 1)
}
