package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-diagnosis-server/internal/cache"
	"github.com/symptom-diagnosis-server/internal/diagnosis"
	"github.com/symptom-diagnosis-server/internal/domain"
	"github.com/symptom-diagnosis-server/internal/history"
)

// stubConfigManager satisfies domain.ConfigManager with fixed values.
type stubConfigManager struct {
	config *domain.Config
}

func newStubConfigManager() *stubConfigManager {
	return &stubConfigManager{
		config: &domain.Config{
			Server: domain.ServerConfig{
				Host:              "127.0.0.1",
				Port:              0,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      10 * time.Second,
				IdleTimeout:       60 * time.Second,
				RequestsPerSecond: 1000,
				Burst:             1000,
			},
			Storage: domain.StorageConfig{Backend: "sqlite"},
			Cache:   domain.CacheConfig{Backend: "memory", MaxEntries: 100, DefaultTTL: time.Minute},
			Logging: domain.LoggingConfig{Level: "error", Format: "json"},
		},
	}
}

func (m *stubConfigManager) GetConfig() *domain.Config               { return m.config }
func (m *stubConfigManager) GetServerConfig() *domain.ServerConfig   { return &m.config.Server }
func (m *stubConfigManager) GetStorageConfig() *domain.StorageConfig { return &m.config.Storage }
func (m *stubConfigManager) GetCacheConfig() *domain.CacheConfig     { return &m.config.Cache }
func (m *stubConfigManager) Validate() error                         { return nil }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	resultCache, err := cache.NewMemoryCache(100, time.Minute)
	require.NoError(t, err)

	engine := diagnosis.NewEngine(logger, nil)
	return NewServer(newStubConfigManager(), logger, engine, store, resultCache)
}

func doJSON(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func exampleRequest() map[string]interface{} {
	return map[string]interface{}{
		"symptoms": map[string]float64{
			"fiebre":       8,
			"dolor_cabeza": 7,
			"nausea":       5,
			"fatiga":       6,
			"dolor_pecho":  3,
		},
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestHandleDiagnose(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/v1/diagnose", exampleRequest())
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.DiagnosisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, domain.MILD, result.Diagnosis)
	assert.Equal(t, 0.569, result.Confidence)
	assert.Equal(t, "hipertension", result.MostLikelyCondition)
	assert.Equal(t, 0.23, result.ConditionConfidence)
	assert.Len(t, result.PatternScores, 13)
	assert.NotEmpty(t, result.Recommendations)
}

func TestHandleDiagnose_CacheHit(t *testing.T) {
	server := newTestServer(t)

	first := doJSON(t, server, http.MethodPost, "/api/v1/diagnose", exampleRequest())
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := doJSON(t, server, http.MethodPost, "/api/v1/diagnose", exampleRequest())
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	assert.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestHandleDiagnose_TooFewSymptoms(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/v1/diagnose", map[string]interface{}{
		"symptoms": map[string]float64{"fiebre": 8},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var result domain.DiagnosisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, domain.SEVERITY_ERROR, result.Diagnosis)
	assert.Zero(t, result.Confidence)
	assert.NotEmpty(t, result.Error)
}

func TestHandleDiagnose_MalformedBody(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/diagnose", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	assert.Equal(t, domain.ErrInvalidInput, apiErr.Code)
}

func TestHandleListSymptoms(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/v1/symptoms", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Symptoms []struct {
			Name   string  `json:"name"`
			Weight float64 `json:"weight"`
		} `json:"symptoms"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 20, body.Count)
	require.NotEmpty(t, body.Symptoms)
	for _, symptom := range body.Symptoms {
		assert.Greater(t, symptom.Weight, 0.0)
	}
}

func TestHandleListConditions(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/v1/conditions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Conditions []struct {
			Name     string   `json:"name"`
			Symptoms []string `json:"symptoms"`
		} `json:"conditions"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 13, body.Count)
	for _, condition := range body.Conditions {
		assert.NotEmpty(t, condition.Symptoms)
	}
}

func TestHistoryFlow(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodPost, "/api/v1/diagnose", exampleRequest())
	require.Equal(t, http.StatusOK, w.Code)

	list := doJSON(t, server, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, list.Code)

	var body struct {
		Records []*history.Record `json:"records"`
		Total   int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &body))
	require.Equal(t, int64(1), body.Total)
	require.Len(t, body.Records, 1)

	record := body.Records[0]
	assert.Equal(t, domain.MILD, record.Diagnosis)
	assert.Equal(t, "hipertension", record.MostLikelyCondition)

	get := doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/v1/history/%d", record.ID), nil)
	assert.Equal(t, http.StatusOK, get.Code)

	del := doJSON(t, server, http.MethodDelete, fmt.Sprintf("/api/v1/history/%d", record.ID), nil)
	assert.Equal(t, http.StatusOK, del.Code)

	missing := doJSON(t, server, http.MethodGet, fmt.Sprintf("/api/v1/history/%d", record.ID), nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestHistoryGet_InvalidID(t *testing.T) {
	server := newTestServer(t)

	w := doJSON(t, server, http.MethodGet, "/api/v1/history/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryDisabled(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	engine := diagnosis.NewEngine(logger, nil)
	server := NewServer(newStubConfigManager(), logger, engine, nil, nil)

	w := doJSON(t, server, http.MethodGet, "/api/v1/history", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	// Diagnosis still works without storage or cache.
	diag := doJSON(t, server, http.MethodPost, "/api/v1/diagnose", exampleRequest())
	assert.Equal(t, http.StatusOK, diag.Code)
}
