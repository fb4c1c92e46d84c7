package career

import "regexp"

// workPattern is "<position> at <company> (<duration>): <description>".
var workPattern = regexp.MustCompile(`(?s)^(.+?) at (.+?) \(([^()]*)\): (.*)$`)

// Render formats the entry as a single blob section.
func (e WorkEntry) Render() string {
	return sanitize(e.Position) + " at " + sanitize(e.Company) +
		" (" + sanitize(e.Duration) + "): " + sanitize(e.Description)
}

// EncodeWorkHistory joins the summary (section 0) and every entry.
func EncodeWorkHistory(summary string, entries []WorkEntry) string {
	if summary == "" && len(entries) == 0 {
		return ""
	}
	sections := make([]string, 0, len(entries)+1)
	sections = append(sections, sanitize(summary))
	for _, e := range entries {
		sections = append(sections, e.Render())
	}
	return join(sections)
}

// DecodeWorkHistory returns the summary and every section matching the
// work-entry shape. Sections that do not match are dropped silently.
func DecodeWorkHistory(blob string) (string, []WorkEntry) {
	sections := Sections(blob)
	if len(sections) == 0 {
		return "", []WorkEntry{}
	}

	entries := make([]WorkEntry, 0, len(sections)-1)
	for _, s := range sections[1:] {
		if e, ok := parseWorkEntry(s); ok {
			entries = append(entries, e)
		}
	}
	return sections[0], entries
}

func parseWorkEntry(section string) (WorkEntry, bool) {
	m := workPattern.FindStringSubmatch(section)
	if m == nil {
		return WorkEntry{}, false
	}
	return WorkEntry{Position: m[1], Company: m[2], Duration: m[3], Description: m[4]}, true
}
