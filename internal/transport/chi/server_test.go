package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/geo"
	"github.com/kailas-cloud/talentdex/internal/domain/professional"
	"github.com/kailas-cloud/talentdex/internal/domain/search/mode"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/talentdex/internal/usecase/search"
)

// --- Mocks ---

type mockSearcher struct {
	searchFn func(ctx context.Context, req *request.Request) (searchuc.Page, error)
	last     *request.Request
}

func (m *mockSearcher) Search(ctx context.Context, req *request.Request) (searchuc.Page, error) {
	m.last = req
	return m.searchFn(ctx, req)
}

type mockDistancer struct {
	points map[string]geo.Point
	batch  []*float64
}

func (m *mockDistancer) ResolveCoordinates(_ context.Context, city string) (geo.Point, bool) {
	p, ok := m.points[geo.CityKey(city)]
	return p, ok
}

func (m *mockDistancer) BatchDistance(_ context.Context, _ string, _ []string) []*float64 {
	return m.batch
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func f64(v float64) *float64 { return &v }

func newTestRouter(s searcher, d distancer, h healthChecker) http.Handler {
	r := chi.NewRouter()
	NewServer(s, d, h, nil).Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&e); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return e
}

// --- Search ---

func TestSearch_OK(t *testing.T) {
	s := &mockSearcher{searchFn: func(_ context.Context, _ *request.Request) (searchuc.Page, error) {
		return searchuc.Page{
			Hits: []result.Hit{
				{Record: professional.Record{ID: "p1", FullName: "Anna Kovács", City: "Budapest", Available: true}, Score: f64(0.1)},
				{Record: professional.Record{ID: "p2", FullName: "Bob Smith"}, DistanceKM: f64(0)},
			},
			Total: 7,
		}, nil
	}}
	h := newTestRouter(s, &mockDistancer{}, &mockHealth{})

	rr := do(t, h, http.MethodPost, "/search",
		`{"query":[{"id":"g1","badges":["rust","go"]}],"mode":"Relevance","reference_location":" Budapest ","offset":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp SearchResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 7 || resp.Limit != request.DefaultLimit || len(resp.Items) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Items[0].ID != "p1" || resp.Items[0].Score == nil || *resp.Items[0].Score != 0.1 {
		t.Errorf("item 0 = %+v", resp.Items[0])
	}
	if resp.Items[1].DistanceKM == nil || *resp.Items[1].DistanceKM != 0 {
		t.Errorf("zero distance must be serialized, got %+v", resp.Items[1])
	}

	if s.last.Mode() != mode.Relevance {
		t.Errorf("mode = %q", s.last.Mode())
	}
	if s.last.Reference() != "Budapest" {
		t.Errorf("reference = %q", s.last.Reference())
	}
	if len(s.last.Query()) != 1 || len(s.last.Query()[0].Badges) != 2 {
		t.Errorf("query = %+v", s.last.Query())
	}
}

func TestSearch_AvailableFromOnlyWhenUnavailable(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s := &mockSearcher{searchFn: func(context.Context, *request.Request) (searchuc.Page, error) {
		return searchuc.Page{
			Hits: []result.Hit{
				{Record: professional.Record{ID: "free", Available: true, AvailableFrom: &from}},
				{Record: professional.Record{ID: "busy", Available: false, AvailableFrom: &from}},
			},
			Total: 2,
		}, nil
	}}
	h := newTestRouter(s, &mockDistancer{}, &mockHealth{})

	rr := do(t, h, http.MethodPost, "/search", `{"query":[{"id":"g1"}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var raw struct {
		Items []map[string]json.RawMessage `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if len(raw.Items) != 2 {
		t.Fatalf("items = %d", len(raw.Items))
	}
	if _, ok := raw.Items[0]["available_from"]; ok {
		t.Errorf("available record must not carry available_from: %s", raw.Items[0]["available_from"])
	}
	if got := string(raw.Items[1]["available_from"]); got != `"2025-03-01T00:00:00Z"` {
		t.Errorf("available_from = %s", got)
	}
}

func TestSearch_Errors(t *testing.T) {
	ok := &mockSearcher{searchFn: func(context.Context, *request.Request) (searchuc.Page, error) {
		return searchuc.Page{}, nil
	}}
	down := &mockSearcher{searchFn: func(context.Context, *request.Request) (searchuc.Page, error) {
		return searchuc.Page{}, fmt.Errorf("%w: connection refused", domain.ErrRosterUnavailable)
	}}
	broken := &mockSearcher{searchFn: func(context.Context, *request.Request) (searchuc.Page, error) {
		return searchuc.Page{}, fmt.Errorf("boom")
	}}

	tooMany := make([]string, 17)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf(`{"id":"g%d","badges":["x"]}`, i)
	}

	tests := []struct {
		name     string
		searcher *mockSearcher
		body     string
		status   int
		code     ErrorCode
	}{
		{"malformed json", ok, `{"query":`, http.StatusBadRequest, ErrorCodeBadRequest},
		{"unknown field", ok, `{"nope":1}`, http.StatusBadRequest, ErrorCodeBadRequest},
		{"unknown mode", ok, `{"mode":"random"}`, http.StatusBadRequest, ErrorCodeValidationFailed},
		{"negative offset", ok, `{"offset":-1}`, http.StatusBadRequest, ErrorCodeValidationFailed},
		{"too many groups", ok, `{"query":[` + strings.Join(tooMany, ",") + `]}`, http.StatusBadRequest, ErrorCodeValidationFailed},
		{"badge too long", ok, `{"query":[{"id":"g","badges":["` + strings.Repeat("a", 300) + `"]}]}`, http.StatusBadRequest, ErrorCodeValidationFailed},
		{"roster unavailable", down, `{}`, http.StatusServiceUnavailable, ErrorCodeRosterUnavailable},
		{"internal", broken, `{}`, http.StatusInternalServerError, ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(tt.searcher, &mockDistancer{}, &mockHealth{})
			rr := do(t, h, http.MethodPost, "/search", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.status, rr.Body.String())
			}
			if e := decodeError(t, rr); e.Code != tt.code {
				t.Errorf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestSearch_InternalErrorHidesDetails(t *testing.T) {
	s := &mockSearcher{searchFn: func(context.Context, *request.Request) (searchuc.Page, error) {
		return searchuc.Page{}, fmt.Errorf("dial tcp 10.0.0.5:5432: secret detail")
	}}
	rr := do(t, newTestRouter(s, &mockDistancer{}, &mockHealth{}), http.MethodPost, "/search", `{}`)
	if strings.Contains(rr.Body.String(), "secret") {
		t.Errorf("internal details leaked: %s", rr.Body.String())
	}
}

// --- Career ---

func TestDecodeCareer_Work(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, &mockDistancer{}, &mockHealth{})
	rr := do(t, h, http.MethodPost, "/career/work/decode",
		`{"blob":"Backend engineer|||Senior Engineer at Prezi (2019 - 2023): Rendering|||garbage"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var doc CareerDocument
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.Summary != "Backend engineer" {
		t.Errorf("summary = %q", doc.Summary)
	}
	if len(doc.Work) != 1 || doc.Work[0].Company != "Prezi" || doc.Work[0].Duration != "2019 - 2023" {
		t.Errorf("work = %+v", doc.Work)
	}
}

func TestEncodeCareer_Education(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, &mockDistancer{}, &mockHealth{})
	rr := do(t, h, http.MethodPost, "/career/education/encode",
		`{"education":[{"degree":"MSc","school":"ELTE","duration":"2012 - 2014"},{"degree":"BSc","school":"BME","duration":"2008 - 2012"}]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var resp CareerBlobResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	want := "MSc at ELTE (2012 - 2014)|||BSc at BME (2008 - 2012)"
	if resp.Blob != want {
		t.Errorf("blob = %q, want %q", resp.Blob, want)
	}
}

func TestCareer_InvalidKind(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, &mockDistancer{}, &mockHealth{})
	for _, path := range []string{"/career/hobbies/decode", "/career/hobbies/encode"} {
		rr := do(t, h, http.MethodPost, path, `{}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", path, rr.Code)
		}
		if e := decodeError(t, rr); e.Code != ErrorCodeInvalidKind {
			t.Errorf("%s: code = %q", path, e.Code)
		}
	}
}

// --- Geo ---

func TestDistances(t *testing.T) {
	d := &mockDistancer{batch: []*float64{f64(214.0), f64(0), nil}}
	h := newTestRouter(&mockSearcher{}, d, &mockHealth{})

	rr := do(t, h, http.MethodPost, "/geo/distances", `{"reference":"Budapest","cities":["Vienna","Budapest","Atlantis"]}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"distances":[214,0,null]}` {
		t.Errorf("body = %s", got)
	}
}

func TestDistances_EmptyResult(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, &mockDistancer{}, &mockHealth{})
	rr := do(t, h, http.MethodPost, "/geo/distances", `{"reference":"Budapest","cities":[]}`)
	if got := strings.TrimSpace(rr.Body.String()); got != `{"distances":[]}` {
		t.Errorf("body = %s", got)
	}
}

func TestDistances_MissingReference(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, &mockDistancer{}, &mockHealth{})
	rr := do(t, h, http.MethodPost, "/geo/distances", `{"cities":["Vienna"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != ErrorCodeValidationFailed {
		t.Errorf("code = %q", e.Code)
	}
}

func TestCoordinates(t *testing.T) {
	d := &mockDistancer{points: map[string]geo.Point{"vienna": {Lat: 48.2082, Lon: 16.3738}}}
	h := newTestRouter(&mockSearcher{}, d, &mockHealth{})

	rr := do(t, h, http.MethodGet, "/geo/coordinates?city=Vienna", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp CoordinatesResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Lat != 48.2082 || resp.Lon != 16.3738 {
		t.Errorf("resp = %+v", resp)
	}

	rr = do(t, h, http.MethodGet, "/geo/coordinates?city=Atlantis", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown city: status = %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != ErrorCodeCityNotFound {
		t.Errorf("code = %q", e.Code)
	}

	rr = do(t, h, http.MethodGet, "/geo/coordinates", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("missing city: status = %d", rr.Code)
	}
}

// --- Health & routing ---

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		status healthuc.Status
		code   int
	}{
		{healthuc.Healthy, http.StatusOK},
		{healthuc.Degraded, http.StatusServiceUnavailable},
		{healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			hc := &mockHealth{report: healthuc.Report{
				Status: tt.status,
				Checks: map[string]healthuc.CheckResult{"cache": healthuc.CheckOK},
			}}
			rr := do(t, newTestRouter(&mockSearcher{}, &mockDistancer{}, hc), http.MethodGet, "/health", "")
			if rr.Code != tt.code {
				t.Fatalf("status = %d, want %d", rr.Code, tt.code)
			}
			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatal(err)
			}
			if resp.Status != string(tt.status) || resp.Checks["cache"] != "ok" {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestRouting_NotFoundAndMethod(t *testing.T) {
	h := newTestRouter(&mockSearcher{}, &mockDistancer{}, &mockHealth{})

	rr := do(t, h, http.MethodGet, "/collections", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown route: status = %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != ErrorCodeNotFound {
		t.Errorf("code = %q", e.Code)
	}

	rr = do(t, h, http.MethodGet, "/search", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: status = %d", rr.Code)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := JSONRecoverer(zapNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	rr := do(t, h, http.MethodGet, "/", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if e := decodeError(t, rr); e.Code != ErrorCodeInternalError {
		t.Errorf("code = %q", e.Code)
	}
}
