package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

func newTestServer(ready bool) *Server {
	l := logrus.New()
	l.SetOutput(io.Discard)
	flag := atomic.NewBool(ready)
	return NewServer(nil, l, NewTokenManager("test-secret", time.Hour), flag)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(true)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthEndpointNotReady(t *testing.T) {
	s := newTestServer(false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	s := newTestServer(true)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsMalformedToken(t *testing.T) {
	s := newTestServer(true)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		require.NoError(t, err)
		got = id
	})

	req := httptest.NewRequest(http.MethodGet, "/things/17", nil)
	mux.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, int64(17), got)
}

func TestPathIDRejectsNonNumeric(t *testing.T) {
	mux := http.NewServeMux()
	var err error
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, err = pathID(r)
	})

	req := httptest.NewRequest(http.MethodGet, "/things/abc", nil)
	mux.ServeHTTP(httptest.NewRecorder(), req)
	assert.Error(t, err)
}
