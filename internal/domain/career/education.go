package career

import (
	"regexp"
	"slices"
	"strconv"
)

var (
	// educationPattern is "<degree> at <school> (<duration>)".
	educationPattern = regexp.MustCompile(`(?s)^(.+?) at (.+?) \(([^()]*)\)$`)
	leadingYear      = regexp.MustCompile(`^\s*(\d{4})`)
)

// Render formats the entry as a single blob section.
func (e EducationEntry) Render() string {
	return sanitize(e.Degree) + " at " + sanitize(e.School) + " (" + sanitize(e.Duration) + ")"
}

// StartYear parses the leading 4-digit year of the duration.
func (e EducationEntry) StartYear() (int, bool) {
	m := leadingYear.FindStringSubmatch(e.Duration)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return y, true
}

// EncodeEducation joins every entry. Education blobs carry no summary.
func EncodeEducation(entries []EducationEntry) string {
	sections := make([]string, len(entries))
	for i, e := range entries {
		sections[i] = e.Render()
	}
	return join(sections)
}

// DecodeEducation returns matching entries, most recent start year first.
// Entries without a parseable year sort last; ties keep blob order.
func DecodeEducation(blob string) []EducationEntry {
	sections := Sections(blob)
	entries := make([]EducationEntry, 0, len(sections))
	for _, s := range sections {
		m := educationPattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		entries = append(entries, EducationEntry{Degree: m[1], School: m[2], Duration: m[3]})
	}
	SortByRecency(entries)
	return entries
}

// SortByRecency orders entries by descending start year in place.
func SortByRecency(entries []EducationEntry) {
	slices.SortStableFunc(entries, func(a, b EducationEntry) int {
		ya, okA := a.StartYear()
		yb, okB := b.StartYear()
		switch {
		case okA && okB:
			return yb - ya
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
}
