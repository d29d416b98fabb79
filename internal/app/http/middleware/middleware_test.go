package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestInternalAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		want       int
	}{
		{"match", "s3cret", "s3cret", http.StatusTeapot},
		{"mismatch", "s3cret", "nope", http.StatusUnauthorized},
		{"missing header", "s3cret", "", http.StatusUnauthorized},
		{"unconfigured", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/quotes/render", nil)
			if tt.header != "" {
				req.Header.Set("X-Internal-Token", tt.header)
			}
			rec := httptest.NewRecorder()
			InternalAuth(tt.configured)(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

type tokenSet map[string]bool

func (s tokenSet) Valid(token string) bool { return s[token] }

func TestSession(t *testing.T) {
	h := Session("tomato_session", tokenSet{"good": true})(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/quote", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/quote", nil)
	req.AddCookie(&http.Cookie{Name: "tomato_session", Value: "bad"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/quote", nil)
	req.AddCookie(&http.Cookie{Name: "tomato_session", Value: "good"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

type countingRecorder struct{ statuses []int }

func (c *countingRecorder) HTTPRequest(_ string, status int) { c.statuses = append(c.statuses, status) }

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	counter := &countingRecorder{}

	rec := httptest.NewRecorder()
	Logging(zap.New(core), counter)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, []int{http.StatusTeapot}, counter.statuses)
	entries := logs.FilterMessage("http: request").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/health", fields["path"])
		assert.Equal(t, int64(http.StatusTeapot), fields["status"])
	}
}

func corsPreflight(allow, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/v1/quote", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	CORS(allow)(okHandler).ServeHTTP(rec, req)
	return rec
}

func TestCORS_Preflight(t *testing.T) {
	rec := corsPreflight("https://tomatocr.com, https://admin.tomatocr.com/", "https://admin.tomatocr.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.tomatocr.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORS_WildcardWithoutCredentials(t *testing.T) {
	rec := corsPreflight("*", "https://elsewhere.example")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnlistedOrigin(t *testing.T) {
	rec := corsPreflight("https://tomatocr.com", "https://evil.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}
