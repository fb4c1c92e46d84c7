package professional

import (
	"regexp"
	"strings"
)

// facetPattern matches the legacy "name (level)" storage convention.
var facetPattern = regexp.MustCompile(`^\s*(.*?)\s*\(\s*([^()]*?)\s*\)\s*$`)

// Facet is a faceted attribute such as a skill, language, or technology,
// optionally carrying a proficiency level.
type Facet struct {
	Name  string `json:"name" yaml:"name"`
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
}

// ParseFacet decodes the stored "Rust (expert)" form. A value without a
// trailing parenthesized suffix becomes a facet with an empty level.
func ParseFacet(s string) Facet {
	if m := facetPattern.FindStringSubmatch(s); m != nil && m[1] != "" {
		return Facet{Name: m[1], Level: m[2]}
	}
	return Facet{Name: strings.TrimSpace(s)}
}

// String encodes the facet back to its stored form.
func (f Facet) String() string {
	if f.Level == "" {
		return f.Name
	}
	return f.Name + " (" + f.Level + ")"
}

// ParseFacets decodes a stored list, dropping blank entries.
func ParseFacets(values []string) []Facet {
	out := make([]Facet, 0, len(values))
	for _, v := range values {
		f := ParseFacet(v)
		if f.Name == "" {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FormatFacets encodes facets to their stored form.
func FormatFacets(facets []Facet) []string {
	out := make([]string, len(facets))
	for i, f := range facets {
		out[i] = f.String()
	}
	return out
}

// Names returns the facet names without levels.
func Names(facets []Facet) []string {
	out := make([]string, 0, len(facets))
	for _, f := range facets {
		if f.Name != "" {
			out = append(out, f.Name)
		}
	}
	return out
}
