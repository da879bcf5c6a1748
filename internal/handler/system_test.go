package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/bank-service/internal/config"
)

func TestHealth(t *testing.T) {
	r := newMockRouter(t)

	rec := do(r, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])
	assert.Equal(t, config.DataSourceMock, body["datasource"])
	assert.Empty(t, body["checks"])
}

func TestDocs(t *testing.T) {
	r := newMockRouter(t)

	rec := do(r, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")

	rec = do(r, http.MethodGet, "/static/openapi.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc["paths"], "/api/banks")
}

func TestMetricsEndpoint(t *testing.T) {
	r := newMockRouter(t)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/banks/1234", "").Code)
	require.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/banks/9999", "").Code)

	rec := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `bank_service_http_request_duration_seconds_count{method="GET",route="/api/banks/:accountNumber",status="200"} 1`)
	assert.Contains(t, body, `bank_service_http_request_duration_seconds_count{method="GET",route="/api/banks/:accountNumber",status="404"} 1`)
	assert.Contains(t, body, `bank_service_datasource_call_duration_seconds_count{datasource="mock",operation="retrieve_bank",status="error"} 1`)
}
