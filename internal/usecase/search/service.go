package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/fuzzy"
	"github.com/kailas-cloud/talentdex/internal/domain/professional"
	"github.com/kailas-cloud/talentdex/internal/domain/projection"
	"github.com/kailas-cloud/talentdex/internal/domain/search/mode"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
)

// Page is one window of the ranked result set.
type Page struct {
	Hits  []result.Hit `json:"hits"`
	Total int          `json:"total"`
}

// Service filters and ranks the roster for a search request.
type Service struct {
	roster    RosterSource
	distances DistanceResolver
	builder   *projection.Builder
	matcher   fuzzy.Options
	language  language.Tag
	duration  *prometheus.HistogramVec
	indexSize prometheus.Gauge
	logger    *zap.Logger

	mu      sync.Mutex
	version string
	index   *fuzzy.Index
}

// New creates a search service. distances may be nil, in which case
// distance ranking falls back to alphabetical order.
func New(roster RosterSource, distances DistanceResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		roster:    roster,
		distances: distances,
		builder:   projection.NewBuilder(),
		matcher:   fuzzy.DefaultOptions(),
		language:  language.Und,
		logger:    logger,
	}
}

// WithMatcher sets fuzzy scoring options. The cached index is dropped.
func (s *Service) WithMatcher(opts fuzzy.Options) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matcher = opts
	s.index, s.version = nil, ""
	return s
}

// WithLanguage sets the collation language for name ordering.
func (s *Service) WithLanguage(tag language.Tag) *Service {
	s.language = tag
	return s
}

// WithDuration records search latency in a histogram vec with label "mode".
func (s *Service) WithDuration(h *prometheus.HistogramVec) *Service {
	s.duration = h
	return s
}

// WithIndexSize reports the record count of every rebuilt index.
func (s *Service) WithIndexSize(g prometheus.Gauge) *Service {
	s.indexSize = g
	return s
}

// Search runs the request against the current roster snapshot.
// Only a roster read failure is returned as an error.
func (s *Service) Search(ctx context.Context, req *request.Request) (Page, error) {
	start := time.Now()
	defer s.observe(req.Mode(), start)

	snap, err := s.roster.Snapshot(ctx)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", domain.ErrRosterUnavailable, err)
	}

	q := req.Query()
	ids := snap.IDs()
	var matches termMatches
	if !q.IsEmpty() {
		matches = searchTerms(q, s.indexFor(&snap))
		ids = compose(q, ids, matches)
	}

	hits := s.hits(&snap, ids)

	switch req.Mode() {
	case mode.Relevance:
		scores := relevanceScores(matches, ids)
		for i := range hits {
			if sc, ok := scores[hits[i].ID()]; ok {
				hits[i].Score = &sc
			}
		}
	case mode.Distance:
		if req.HasReference() && s.distances != nil {
			s.attachDistances(ctx, req.Reference(), hits)
		}
	}

	ranked := Rank(hits, req.Mode(), RankOptions{
		Language:     s.language,
		HasTerms:     !q.IsEmpty(),
		HasReference: req.HasReference() && s.distances != nil,
	})

	return Page{Hits: paginate(ranked, req.Offset(), req.Limit()), Total: len(ranked)}, nil
}

// indexFor returns the fuzzy index of snap, rebuilding it only when the
// snapshot version changed.
func (s *Service) indexFor(snap *professional.Snapshot) *fuzzy.Index {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil && snap.Version != "" && s.version == snap.Version {
		return s.index
	}

	idx := fuzzy.NewIndex(s.builder.BuildAll(snap.Records), s.matcher)
	s.index, s.version = idx, snap.Version
	if s.indexSize != nil {
		s.indexSize.Set(float64(idx.Len()))
	}
	s.logger.Debug("Built search index",
		zap.String("version", snap.Version), zap.Int("records", idx.Len()))
	return idx
}

func (s *Service) hits(snap *professional.Snapshot, ids []string) []result.Hit {
	byID := make(map[string]int, len(snap.Records))
	for i := range snap.Records {
		byID[snap.Records[i].ID] = i
	}
	hits := make([]result.Hit, 0, len(ids))
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			hits = append(hits, result.Hit{Record: snap.Records[i]})
		}
	}
	return hits
}

func (s *Service) attachDistances(ctx context.Context, reference string, hits []result.Hit) {
	cities := make([]string, len(hits))
	for i := range hits {
		cities[i] = hits[i].Record.City
	}
	distances := s.distances.BatchDistance(ctx, reference, cities)
	for i := range hits {
		if i < len(distances) {
			hits[i].DistanceKM = distances[i]
		}
	}
}

func (s *Service) observe(m mode.Mode, start time.Time) {
	if s.duration != nil {
		s.duration.WithLabelValues(string(m)).Observe(time.Since(start).Seconds())
	}
}

func paginate(hits []result.Hit, offset, limit int) []result.Hit {
	if offset >= len(hits) {
		return []result.Hit{}
	}
	end := len(hits)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return hits[offset:end]
}
