// Package career encodes structured career history into the flat strings
// persisted by the data layer and recovers entries from them.
package career

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain"
)

// Separator joins blob sections. It does not occur in normal prose.
const Separator = "|||"

// Kind selects the blob flavor.
type Kind string

// Blob kinds.
const (
	Work      Kind = "work"
	Education Kind = "education"
)

// IsValid checks if the kind is supported.
func (k Kind) IsValid() bool {
	return k == Work || k == Education
}

// WorkEntry is one work-history line.
type WorkEntry struct {
	Position    string `json:"position" yaml:"position"`
	Company     string `json:"company" yaml:"company"`
	Duration    string `json:"duration" yaml:"duration"`
	Description string `json:"description" yaml:"description"`
}

// EducationEntry is one education line.
type EducationEntry struct {
	Degree   string `json:"degree" yaml:"degree"`
	School   string `json:"school" yaml:"school"`
	Duration string `json:"duration" yaml:"duration"`
}

// Decoded is the structured view of a blob of either kind.
// Summary is always empty for education.
type Decoded struct {
	Summary   string
	Work      []WorkEntry
	Education []EducationEntry
}

// Sections splits a blob into trimmed sections. An empty blob has none.
func Sections(blob string) []string {
	if strings.TrimSpace(blob) == "" {
		return nil
	}
	parts := strings.Split(blob, Separator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Decode dispatches on kind.
func Decode(kind Kind, blob string) (Decoded, error) {
	switch kind {
	case Work:
		summary, entries := DecodeWorkHistory(blob)
		return Decoded{Summary: summary, Work: entries}, nil
	case Education:
		return Decoded{Education: DecodeEducation(blob)}, nil
	default:
		return Decoded{}, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
}

// Encode dispatches on kind. The summary is ignored for education.
func Encode(kind Kind, d Decoded) (string, error) {
	switch kind {
	case Work:
		return EncodeWorkHistory(d.Summary, d.Work), nil
	case Education:
		return EncodeEducation(d.Education), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
}

// sanitize keeps a field from introducing a section break.
func sanitize(s string) string {
	for strings.Contains(s, Separator) {
		s = strings.ReplaceAll(s, Separator, "||")
	}
	return s
}

// join pads sections that start or end with a pipe, so the pipe cannot
// merge with the separator. Decoding trims the padding.
func join(sections []string) string {
	padded := make([]string, len(sections))
	for i, sec := range sections {
		if strings.HasPrefix(sec, "|") {
			sec = " " + sec
		}
		if strings.HasSuffix(sec, "|") {
			sec += " "
		}
		padded[i] = sec
	}
	return strings.Join(padded, Separator)
}
