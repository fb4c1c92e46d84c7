package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func authRequest(t *testing.T, keys []string, path, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rr := httptest.NewRecorder()
	BearerAuthMiddleware(keys)(okHandler()).ServeHTTP(rr, req)
	return rr
}

func TestBearerAuth_Disabled(t *testing.T) {
	for name, keys := range map[string][]string{"nil": nil, "blank": {"", ""}} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusOK, authRequest(t, keys, "/search", "").Code)
		})
	}
}

func TestBearerAuth(t *testing.T) {
	keys := []string{"key-one", "key-two"}

	tests := []struct {
		name   string
		path   string
		header string
		want   int
		reason string
	}{
		{name: "first key", path: "/search", header: "Bearer key-one", want: http.StatusOK},
		{name: "second key", path: "/search", header: "Bearer key-two", want: http.StatusOK},
		{name: "lowercase scheme", path: "/search", header: "bearer key-one", want: http.StatusOK},
		{name: "health is public", path: "/health", want: http.StatusOK},
		{name: "metrics is public", path: "/metrics", want: http.StatusOK},
		{name: "missing header", path: "/search", want: http.StatusUnauthorized, reason: "missing authorization header"},
		{name: "basic scheme", path: "/search", header: "Basic a2V5LW9uZQ==", want: http.StatusUnauthorized, reason: "authorization header must use Bearer scheme"},
		{name: "empty token", path: "/search", header: "Bearer  ", want: http.StatusUnauthorized, reason: "empty bearer token"},
		{name: "unknown key", path: "/geo/distances", header: "Bearer key-three", want: http.StatusUnauthorized, reason: "invalid api key"},
		{name: "key prefix", path: "/search", header: "Bearer key-on", want: http.StatusUnauthorized, reason: "invalid api key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := authRequest(t, keys, tt.path, tt.header)
			require.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusOK {
				return
			}

			assert.Equal(t, `Bearer realm="talentdex"`, rr.Header().Get("WWW-Authenticate"))
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, ErrorCodeUnauthorized, resp.Code)
			assert.Equal(t, tt.reason, resp.Message)
		})
	}
}
