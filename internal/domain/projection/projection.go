// Package projection flattens a professional record into the plain-text
// fields the fuzzy index is built over.
package projection

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/kailas-cloud/talentdex/internal/domain/career"
	"github.com/kailas-cloud/talentdex/internal/domain/professional"
)

// Field names one indexed projection field.
type Field string

// Indexed fields.
const (
	Name         Field = "name"
	Career       Field = "career"
	Education    Field = "education"
	Skills       Field = "skills"
	Technologies Field = "technologies"
	Languages    Field = "languages"
)

// Fields returns every indexed field in a fixed order.
func Fields() []Field {
	return []Field{Name, Career, Education, Skills, Technologies, Languages}
}

// IsValid checks if the field is known.
func (f Field) IsValid() bool {
	switch f {
	case Name, Career, Education, Skills, Technologies, Languages:
		return true
	}
	return false
}

// Weights maps a field to its exponent in the combined score.
// Higher weight means a field match counts for more.
type Weights map[Field]float64

// DefaultWeights favors career and education text over the name.
func DefaultWeights() Weights {
	return Weights{
		Name:         0.3,
		Career:       1.0,
		Education:    1.0,
		Skills:       0.7,
		Technologies: 0.7,
		Languages:    0.2,
	}
}

// Merge returns w with every field missing from it taken from the defaults.
func (w Weights) Merge() Weights {
	out := DefaultWeights()
	for f, v := range w {
		if f.IsValid() {
			out[f] = v
		}
	}
	return out
}

// Projection is the indexable text view of one record.
type Projection struct {
	ID           string
	Name         string
	CareerText   string
	Education    string
	Skills       string
	Technologies string
	Languages    string
}

// Field returns the text of f, or "" for an unknown field.
func (p Projection) Field(f Field) string {
	switch f {
	case Name:
		return p.Name
	case Career:
		return p.CareerText
	case Education:
		return p.Education
	case Skills:
		return p.Skills
	case Technologies:
		return p.Technologies
	case Languages:
		return p.Languages
	}
	return ""
}

// Builder produces projections with a fixed set of extraction strategies.
type Builder struct {
	strategies []Strategy
}

// NewBuilder creates a builder. No strategies means DefaultStrategies.
func NewBuilder(strategies ...Strategy) *Builder {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Builder{strategies: strategies}
}

// Build projects r using the default strategies.
func Build(r professional.Record) Projection {
	return NewBuilder().Build(r)
}

// BuildAll projects every record of a snapshot in roster order.
func (b *Builder) BuildAll(records []professional.Record) []Projection {
	out := make([]Projection, len(records))
	for i := range records {
		out[i] = b.Build(records[i])
	}
	return out
}

// Build projects r.
func (b *Builder) Build(r professional.Record) Projection {
	return Projection{
		ID:           r.ID,
		Name:         strings.TrimSpace(r.FullName),
		CareerText:   b.careerText(r.WorkHistory),
		Education:    strings.Join(career.Sections(r.Education), " "),
		Skills:       strings.Join(professional.Names(r.Skills), " "),
		Technologies: strings.Join(professional.Names(r.Technologies), " "),
		Languages:    strings.Join(professional.Names(r.Languages), " "),
	}
}

func (b *Builder) careerText(blob string) string {
	summary, _ := career.DecodeWorkHistory(blob)

	fold := cases.Fold()
	seen := make(map[string]struct{})
	parts := make([]string, 0, 8)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := fold.String(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		parts = append(parts, s)
	}

	add(summary)
	for _, line := range lines(blob) {
		for _, s := range b.strategies {
			for _, org := range s.Extract(line) {
				add(org)
			}
		}
	}
	return strings.Join(parts, " ")
}

// lines splits every blob section into trimmed non-empty lines.
func lines(blob string) []string {
	var out []string
	for _, section := range career.Sections(blob) {
		for _, l := range strings.Split(section, "\n") {
			if l = strings.TrimSpace(l); l != "" {
				out = append(out, l)
			}
		}
	}
	return out
}
