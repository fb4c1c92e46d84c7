// Package professional holds the roster record ranked and displayed by search.
package professional

import "time"

// Record is a single professional as supplied by the roster source.
// The engine treats it as read-only.
type Record struct {
	ID            string     `json:"id" yaml:"id"`
	FullName      string     `json:"full_name" yaml:"full_name"`
	WorkHistory   string     `json:"work_history,omitempty" yaml:"work_history,omitempty"`
	Education     string     `json:"education,omitempty" yaml:"education,omitempty"`
	Skills        []Facet    `json:"skills,omitempty" yaml:"skills,omitempty"`
	Languages     []Facet    `json:"languages,omitempty" yaml:"languages,omitempty"`
	Technologies  []Facet    `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	City          string     `json:"city,omitempty" yaml:"city,omitempty"`
	Available     bool       `json:"available" yaml:"available"`
	AvailableFrom *time.Time `json:"available_from,omitempty" yaml:"available_from,omitempty"`
}

// AvailableSince returns the date the professional becomes available.
// It reports false when the record is available now or has no date:
// AvailableFrom is only meaningful while Available is false.
func (r *Record) AvailableSince() (time.Time, bool) {
	if r.Available || r.AvailableFrom == nil {
		return time.Time{}, false
	}
	return *r.AvailableFrom, true
}

// Snapshot is one consistent read of the roster.
// Version identifies the content; equal versions imply equal records.
type Snapshot struct {
	Version string
	Records []Record
}

// IDs returns record ids in roster order.
func (s *Snapshot) IDs() []string {
	ids := make([]string, len(s.Records))
	for i := range s.Records {
		ids[i] = s.Records[i].ID
	}
	return ids
}
