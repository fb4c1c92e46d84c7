package projection

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Strategy extracts organization-name candidates from one line of free
// text. Strategies are independent; their outputs are unioned.
type Strategy interface {
	Name() string
	Extract(line string) []string
}

// DefaultStrategies returns the extraction strategies in evaluation order.
func DefaultStrategies() []Strategy {
	return []Strategy{AfterAt{}, BeforeSeparator{}, Residual{MinRunes: 3, MaxRunes: 60}}
}

var (
	atPattern = regexp.MustCompile(`(?i)\bat\s+([^(,|:\n]+)`)
	// dashSeparator matches a spaced dash or pipe separator.
	dashSeparator = regexp.MustCompile(`\s+[-–—|]\s+`)
	numberLike    = regexp.MustCompile(`^[\d\s.,/+%-]+$`)
)

// AfterAt takes the text following the word "at" up to an opening
// parenthesis, comma, colon, pipe or spaced dash.
type AfterAt struct{}

func (AfterAt) Name() string { return "after_at" }

func (AfterAt) Extract(line string) []string {
	var out []string
	for _, m := range atPattern.FindAllStringSubmatch(line, -1) {
		candidate := m[1]
		if loc := dashSeparator.FindStringIndex(candidate); loc != nil {
			candidate = candidate[:loc[0]]
		}
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			out = append(out, candidate)
		}
	}
	return out
}

// BeforeSeparator takes the text before the first spaced dash or pipe,
// when that text is multi-word, not a number and outside parentheses.
type BeforeSeparator struct{}

func (BeforeSeparator) Name() string { return "before_separator" }

func (BeforeSeparator) Extract(line string) []string {
	loc := dashSeparator.FindStringIndex(line)
	if loc == nil {
		return nil
	}
	candidate := strings.TrimSpace(line[:loc[0]])
	if candidate == "" || numberLike.MatchString(candidate) || !strings.Contains(candidate, " ") ||
		strings.ContainsAny(candidate, "()") {
		return nil
	}
	return []string{candidate}
}

var (
	monthNames  = `jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec|january|february|march|april|june|july|august|september|october|november|december`
	datePattern = regexp.MustCompile(`(?i)^(?:(?:` + monthNames + `)\.?\s*)?(?:\d{1,4}[./-]?)+(?:\s*[-–—]\s*(?:(?:` + monthNames + `)\.?\s*)?(?:(?:\d{1,4}[./-]?)+|present|now|current))?$`)
)

// titleKeywords are words that mark a line as a job title.
var titleKeywords = map[string]struct{}{
	"engineer": {}, "developer": {}, "manager": {}, "intern": {}, "consultant": {},
	"architect": {}, "lead": {}, "director": {}, "analyst": {}, "designer": {},
	"administrator": {}, "specialist": {}, "head": {}, "officer": {}, "scientist": {},
	"programmer": {}, "tester": {}, "coordinator": {}, "senior": {}, "junior": {},
	"cto": {}, "ceo": {}, "cfo": {}, "vp": {}, "owner": {}, "founder": {},
	"freelancer": {}, "contractor": {}, "trainee": {}, "assistant": {},
}

// Residual accepts a whole line that is neither a date nor a job title,
// within a plausible length.
type Residual struct {
	MinRunes int
	MaxRunes int
}

func (Residual) Name() string { return "residual" }

func (r Residual) Extract(line string) []string {
	line = strings.TrimSpace(line)
	n := utf8.RuneCountInString(line)
	if n < r.MinRunes || n > r.MaxRunes {
		return nil
	}
	if datePattern.MatchString(line) || isTitle(line) {
		return nil
	}
	return []string{line}
}

func isTitle(line string) bool {
	for _, w := range strings.FieldsFunc(strings.ToLower(line), func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '-' || r == '.'
	}) {
		if _, ok := titleKeywords[w]; ok {
			return true
		}
	}
	return false
}
