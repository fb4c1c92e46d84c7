package talentdex

import (
	"context"

	"github.com/kailas-cloud/talentdex/internal/domain/career"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/professional"
	"github.com/kailas-cloud/talentdex/internal/domain/search/query"
	"github.com/kailas-cloud/talentdex/internal/repository/roster"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

// staticVersion lets a fixed roster reuse its search index.
const staticVersion = "static"

// staticRoster serves the roster given to WithProfessionals.
type staticRoster struct {
	pros []Professional
}

func (s staticRoster) Snapshot(_ context.Context) (Roster, error) {
	return Roster{Version: staticVersion, Professionals: s.pros}, nil
}

// fileRoster exposes the YAML roster repository as a RosterSource.
type fileRoster struct {
	file *roster.File
}

func (f *fileRoster) Snapshot(ctx context.Context) (Roster, error) {
	snap, err := f.file.Snapshot(ctx)
	if err != nil {
		return Roster{}, err
	}
	pros := make([]Professional, len(snap.Records))
	for i := range snap.Records {
		pros[i] = professionalFromDomain(&snap.Records[i])
	}
	return Roster{Version: snap.Version, Professionals: pros}, nil
}

func (f *fileRoster) Ping(ctx context.Context) error { return f.file.Ping(ctx) }

// rosterAdapter bridges a public RosterSource to the search service.
type rosterAdapter struct {
	src RosterSource
}

func (a *rosterAdapter) Snapshot(ctx context.Context) (professional.Snapshot, error) {
	r, err := a.src.Snapshot(ctx)
	if err != nil {
		return professional.Snapshot{}, err
	}
	records := make([]professional.Record, len(r.Professionals))
	for i := range r.Professionals {
		records[i] = professionalToDomain(&r.Professionals[i])
	}
	return professional.Snapshot{Version: r.Version, Records: records}, nil
}

// geocoderAdapter bridges a public Geocoder to the geodistance service.
type geocoderAdapter struct {
	inner Geocoder
}

func (a *geocoderAdapter) Geocode(ctx context.Context, city string) (geo.Point, error) {
	c, err := a.inner.Geocode(ctx, city)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: c.Lat, Lon: c.Lon}, nil
}

func queryFromGroups(groups []Group) query.Query {
	q := make(query.Query, len(groups))
	for i, g := range groups {
		q[i] = query.Group{ID: g.ID, Badges: g.Badges}
	}
	return q
}

func pageFromDomain(p searchuc.Page) Page {
	out := Page{Results: make([]Result, len(p.Hits)), Total: p.Total}
	for i := range p.Hits {
		h := &p.Hits[i]
		out.Results[i] = Result{
			Professional: professionalFromDomain(&h.Record),
			Score:        h.Score,
			DistanceKM:   h.DistanceKM,
		}
	}
	return out
}

// professionalToDomain drops AvailableFrom for available records.
func professionalToDomain(p *Professional) professional.Record {
	r := professional.Record{
		ID:            p.ID,
		FullName:      p.FullName,
		WorkHistory:   p.WorkHistory,
		Education:     p.Education,
		Skills:        facetsToDomain(p.Skills),
		Languages:     facetsToDomain(p.Languages),
		Technologies:  facetsToDomain(p.Technologies),
		City:          p.City,
		Available:     p.Available,
		AvailableFrom: p.AvailableFrom,
	}
	if r.Available {
		r.AvailableFrom = nil
	}
	return r
}

func professionalFromDomain(r *professional.Record) Professional {
	return Professional{
		ID:            r.ID,
		FullName:      r.FullName,
		WorkHistory:   r.WorkHistory,
		Education:     r.Education,
		Skills:        facetsFromDomain(r.Skills),
		Languages:     facetsFromDomain(r.Languages),
		Technologies:  facetsFromDomain(r.Technologies),
		City:          r.City,
		Available:     r.Available,
		AvailableFrom: r.AvailableFrom,
	}
}

func facetsToDomain(in []Facet) []professional.Facet {
	if in == nil {
		return nil
	}
	out := make([]professional.Facet, len(in))
	for i, f := range in {
		out[i] = professional.Facet{Name: f.Name, Level: f.Level}
	}
	return out
}

func facetsFromDomain(in []professional.Facet) []Facet {
	if in == nil {
		return nil
	}
	out := make([]Facet, len(in))
	for i, f := range in {
		out[i] = Facet{Name: f.Name, Level: f.Level}
	}
	return out
}

func careerToDomain(c Career) career.Decoded {
	d := career.Decoded{Summary: c.Summary}
	for _, w := range c.Work {
		d.Work = append(d.Work, career.WorkEntry(w))
	}
	for _, e := range c.Education {
		d.Education = append(d.Education, career.EducationEntry(e))
	}
	return d
}

func careerFromDomain(d career.Decoded) Career {
	c := Career{Summary: d.Summary}
	for _, w := range d.Work {
		c.Work = append(c.Work, WorkEntry(w))
	}
	for _, e := range d.Education {
		c.Education = append(c.Education, EducationEntry(e))
	}
	return c
}
