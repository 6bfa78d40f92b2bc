package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katara/mono-repo/backend/shared/go-testhelpers"
)

func statusServer(t *testing.T, code int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/health"
}

func TestHealthAllUp(t *testing.T) {
	router := newRouter(newHealthChecker([]string{
		statusServer(t, http.StatusOK),
		statusServer(t, http.StatusOK),
	}))

	rec := testhelpers.Serve(router, testhelpers.BuildRequest(t, http.MethodGet, "/health", "", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	report := testhelpers.DecodeJSON[healthReport](t, rec)
	assert.Equal(t, statusHealthy, report.Status)
	assert.Len(t, report.Services, 2)
}

func TestHealthOneDown(t *testing.T) {
	down := statusServer(t, http.StatusServiceUnavailable)
	router := newRouter(newHealthChecker([]string{
		statusServer(t, http.StatusOK),
		down,
		"http://127.0.0.1:1/health",
	}))

	rec := testhelpers.Serve(router, testhelpers.BuildRequest(t, http.MethodGet, "/health", "", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	report := testhelpers.DecodeJSON[healthReport](t, rec)
	assert.Equal(t, "UNHEALTHY", report.Status)
	require.Len(t, report.Services, 3)
	assert.True(t, report.Services[0].Healthy)
	assert.Equal(t, down, report.Services[1].URL)
	assert.False(t, report.Services[1].Healthy)
	assert.False(t, report.Services[2].Healthy)
}
