package talentdex

import "time"

// Mode selects the ranking strategy.
type Mode string

// Ranking modes.
const (
	ModeAlphabetical Mode = "alphabetical"
	ModeRelevance    Mode = "relevance"
	ModeDistance     Mode = "distance"
	ModeAvailability Mode = "availability"
)

// CareerKind selects the blob layout for DecodeCareer and EncodeCareer.
type CareerKind string

// Career blob kinds.
const (
	CareerWork      CareerKind = "work"
	CareerEducation CareerKind = "education"
)

// Facet is a skill, technology or language with an optional level.
type Facet struct {
	Name  string
	Level string
}

// Professional is one roster record. WorkHistory and Education hold
// career blobs.
type Professional struct {
	ID            string
	FullName      string
	WorkHistory   string
	Education     string
	Skills        []Facet
	Languages     []Facet
	Technologies  []Facet
	City          string
	Available     bool
	AvailableFrom *time.Time
}

// Roster is a consistent read of all professionals. Equal non-empty
// versions must mean equal content; an empty version disables index reuse.
type Roster struct {
	Version       string
	Professionals []Professional
}

// Coordinates is a WGS84 point in degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// Group is one OR-clause of badges. Groups are ANDed.
type Group struct {
	ID     string
	Badges []string
}

// SearchQuery configures a search. Zero Limit means the default page size.
type SearchQuery struct {
	Groups    []Group
	Mode      Mode
	Reference string
	Offset    int
	Limit     int
}

// Result is one ranked professional.
type Result struct {
	Professional Professional
	// Score is set in relevance mode. Lower is better.
	Score *float64
	// DistanceKM is set in distance mode when the city resolved.
	DistanceKM *float64
}

// Page is one window of results. Total counts every match.
type Page struct {
	Results []Result
	Total   int
}

// WorkEntry is one work-history line.
type WorkEntry struct {
	Position    string
	Company     string
	Duration    string
	Description string
}

// EducationEntry is one education line.
type EducationEntry struct {
	Degree   string
	School   string
	Duration string
}

// Career is the structured form of a career blob. Summary is only used
// for work history.
type Career struct {
	Summary   string
	Work      []WorkEntry
	Education []EducationEntry
}
