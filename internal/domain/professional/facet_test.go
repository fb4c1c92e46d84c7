package professional

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFacet(t *testing.T) {
	tests := []struct {
		input    string
		expected Facet
	}{
		{"Rust (expert)", Facet{Name: "Rust", Level: "expert"}},
		{"  Go ( senior )  ", Facet{Name: "Go", Level: "senior"}},
		{"German", Facet{Name: "German"}},
		{"C++", Facet{Name: "C++"}},
		{"Node.js (2 years)", Facet{Name: "Node.js", Level: "2 years"}},
		{"(expert)", Facet{Name: "(expert)"}},
		{"", Facet{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFacet(tt.input))
		})
	}
}

func TestFacetString_RoundTrip(t *testing.T) {
	for _, s := range []string{"Rust (expert)", "German", "Node.js (2 years)"} {
		assert.Equal(t, s, ParseFacet(s).String())
	}
}

func TestParseFacets_DropsBlank(t *testing.T) {
	got := ParseFacets([]string{"Rust (expert)", "  ", "Go"})
	assert.Equal(t, []Facet{{Name: "Rust", Level: "expert"}, {Name: "Go"}}, got)
	assert.Equal(t, []string{"Rust (expert)", "Go"}, FormatFacets(got))
	assert.Equal(t, []string{"Rust", "Go"}, Names(got))
}

func TestAvailableSince(t *testing.T) {
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	r := Record{Available: false, AvailableFrom: &date}
	got, ok := r.AvailableSince()
	assert.True(t, ok)
	assert.Equal(t, date, got)

	r.Available = true
	_, ok = r.AvailableSince()
	assert.False(t, ok, "date must be ignored while available")

	r = Record{Available: false}
	_, ok = r.AvailableSince()
	assert.False(t, ok)
}

func TestSnapshotIDs(t *testing.T) {
	s := Snapshot{Records: []Record{{ID: "b"}, {ID: "a"}}}
	assert.Equal(t, []string{"b", "a"}, s.IDs())
}
