package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AIforimpact22/bootcampx/internal/possession"
	pkgerrors "github.com/AIforimpact22/bootcampx/pkg/errors"
	"github.com/AIforimpact22/bootcampx/pkg/logger"
	"github.com/AIforimpact22/bootcampx/pkg/metrics"
	"github.com/AIforimpact22/bootcampx/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})
}

func TestRequestIDEchoesOrIssues(t *testing.T) {
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	handler.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(requestIDHeader))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRecovererReturnsInternalError(t *testing.T) {
	var logs bytes.Buffer
	handler := Recoverer(newTestLogger(&logs))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeInternal), body.Error.Code)
	assert.Contains(t, logs.String(), "kaboom")
}

func TestLoggingRecordsStatusAndMetrics(t *testing.T) {
	var logs bytes.Buffer
	reg := prometheus.NewRegistry()
	m := metrics.NewPOSMetrics(reg)
	handler := Logging(newTestLogger(&logs), m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/sell", nil))

	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"path":"/api/v1/sell"`)
	families, err := reg.Gather()
	require.NoError(t, err)
	var served float64
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			served += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), served)
}

func TestLoggingDefaultsToOK(t *testing.T) {
	var logs bytes.Buffer
	handler := Logging(newTestLogger(&logs), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, logs.String(), `"status":200`)
}

func TestRequireDB(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })

	w := httptest.NewRecorder()
	RequireDB(false, nil)(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/items", nil))
	assert.False(t, reached)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, string(pkgerrors.CodeNotConfigured), body.Error.Code)
	assert.True(t, strings.Contains(body.Error.Message, "DATABASE_URL"))

	RequireDB(true, nil)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, reached)
}

func TestPOSSessionIssuesAndEchoesID(t *testing.T) {
	var seen string
	handler := POSSession(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	issued := w.Header().Get(possession.HeaderName)
	assert.True(t, possession.ValidID(issued))
	assert.Equal(t, issued, seen)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(possession.HeaderName, issued)
	handler.ServeHTTP(w, req)
	assert.Equal(t, issued, w.Header().Get(possession.HeaderName))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(possession.HeaderName, "not-a-uuid")
	handler.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(possession.HeaderName))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := CORS([]string{"http://pos.local"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/items", nil)
	req.Header.Set("Origin", "http://pos.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "http://pos.local", w.Header().Get("Access-Control-Allow-Origin"))
}
