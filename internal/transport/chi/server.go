package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/career"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/search/mode"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/talentdex/internal/logger"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

type searcher interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Page, error)
}

type distancer interface {
	ResolveCoordinates(ctx context.Context, city string) (geo.Point, bool)
	BatchDistance(ctx context.Context, reference string, cities []string) []*float64
}

type healthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the talentdex HTTP API.
type Server struct {
	search        searcher
	geo           distancer
	health        healthChecker
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search searcher, geo distancer, health healthChecker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:   search,
		geo:      geo,
		health:   health,
		validate: validator.New(),
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidKind, http.StatusBadRequest, ErrorCodeInvalidKind),
		sentinelHandler(domain.ErrCityNotFound, http.StatusNotFound, ErrorCodeCityNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrRosterUnavailable, http.StatusServiceUnavailable, ErrorCodeRosterUnavailable),
		sentinelHandler(domain.ErrGeocoderUnavailable, http.StatusBadGateway, ErrorCodeGeocoderUnavailable),
	}
	return s
}

// Register mounts every API route on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/search", s.Search)
	r.Route("/career/{kind}", func(r chi.Router) {
		r.Post("/decode", s.DecodeCareer)
		r.Post("/encode", s.EncodeCareer)
	})
	r.Route("/geo", func(r chi.Router) {
		r.Post("/distances", s.Distances)
		r.Get("/coordinates", s.Coordinates)
	})
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !s.decode(w, r, &req) {
		return
	}

	m, err := mode.Parse(req.Mode)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	searchReq, err := request.New(queryFromDTO(req.Query), m, req.ReferenceLocation, req.Offset, req.Limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	page, err := s.search.Search(r.Context(), &searchReq)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResultItem, len(page.Hits))
	for i := range page.Hits {
		items[i] = hitToDTO(&page.Hits[i])
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Items:  items,
		Total:  page.Total,
		Offset: searchReq.Offset(),
		Limit:  searchReq.Limit(),
	})
}

// DecodeCareer handles POST /career/{kind}/decode.
func (s *Server) DecodeCareer(w http.ResponseWriter, r *http.Request) {
	kind := career.Kind(chi.URLParam(r, "kind"))

	var req CareerBlobRequest
	if !s.decode(w, r, &req) {
		return
	}

	decoded, err := career.Decode(kind, req.Blob)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, careerToDTO(decoded))
}

// EncodeCareer handles POST /career/{kind}/encode.
func (s *Server) EncodeCareer(w http.ResponseWriter, r *http.Request) {
	kind := career.Kind(chi.URLParam(r, "kind"))

	var req CareerDocument
	if !s.decode(w, r, &req) {
		return
	}

	blob, err := career.Encode(kind, careerFromDTO(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CareerBlobResponse{Blob: blob})
}

// Distances handles POST /geo/distances.
func (s *Server) Distances(w http.ResponseWriter, r *http.Request) {
	var req DistancesRequest
	if !s.decode(w, r, &req) {
		return
	}

	distances := s.geo.BatchDistance(r.Context(), req.Reference, req.Cities)
	if distances == nil {
		distances = []*float64{}
	}
	writeJSON(w, http.StatusOK, DistancesResponse{Distances: distances})
}

// Coordinates handles GET /geo/coordinates?city=.
func (s *Server) Coordinates(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, "city is required")
		return
	}

	p, ok := s.geo.ResolveCoordinates(r.Context(), city)
	if !ok {
		writeError(w, http.StatusNotFound, ErrorCodeCityNotFound, domain.ErrCityNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, CoordinatesResponse{City: city, Lat: p.Lat, Lon: p.Lon})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body into v and validates it. On failure the
// error response is already written.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, validationMessage(err))
		return false
	}
	return true
}

// validationMessage lists the failing fields without echoing values.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "validation failed"
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = fe.Namespace() + ": " + fe.Tag()
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
// Validation errors carry only the field and reason, so they pass through.
func safeDomainMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidKind,
		domain.ErrCityNotFound,
		domain.ErrNotFound,
		domain.ErrRosterUnavailable,
		domain.ErrGeocoderUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
