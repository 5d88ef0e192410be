package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-voter-search/internal/report"
	fixtures "github.com/gcbaptista/go-voter-search/internal/testing"
	"github.com/gcbaptista/go-voter-search/store"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *fixtures.TestEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := fixtures.CreateTestEngine(t)
	router := NewRouter(env.Engine, env.Settings.Server, Options{
		Messages: env.Settings.Messages,
		Gatherer: env.Registry,
	})
	return router, env
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr), w.Body.String())
	return apiErr
}

func TestHealthCheckHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestListPartitionsHandler(t *testing.T) {
	router, env := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/partitions", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp PartitionListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, env.Settings.Messages.ChoosePrompt, resp.Prompt)
	assert.Equal(t, "-- Choose --", resp.Placeholder)
	require.Len(t, resp.Partitions, 3)
	assert.Equal(t, fixtures.LabelMettupalayam, resp.Partitions[0].Label)
	assert.Equal(t, fixtures.LabelPongalur, resp.Partitions[2].Label)
	assert.Equal(t, store.StatusNotLoaded, resp.Partitions[0].Status)
}

func TestSelectPartitionHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedCode   ErrorCode
	}{
		{
			name:           "loads partition",
			body:           SelectPartitionRequest{Label: fixtures.LabelMettupalayam},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid JSON",
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidJSON,
		},
		{
			name:           "missing label",
			body:           SelectPartitionRequest{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "placeholder label",
			body:           SelectPartitionRequest{Label: "-- Choose --"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
		},
		{
			name:           "unknown label",
			body:           SelectPartitionRequest{Label: "999 - Nowhere"},
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodePartitionNotFound,
		},
		{
			name:           "unavailable partition",
			body:           SelectPartitionRequest{Label: fixtures.LabelPongalur},
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrorCodePartitionUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/partitions/_select", tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
				return
			}

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, float64(5), body["row_count"])
			assert.Equal(t, string(report.LevelSuccess), body["level"])
			assert.Contains(t, body["message"], "5 வரிசைகள் கிடைத்தன.")
		})
	}
}

func TestUnavailablePartitionUsesConfiguredMessage(t *testing.T) {
	router, env := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/_search", SearchRequest{
		Partition: fixtures.LabelPongalur,
		Name:      "Raman",
	})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	apiErr := decodeError(t, w)
	assert.Equal(t, env.Settings.Messages.PartitionUnavailable, apiErr.Message)
	assert.Equal(t, report.LevelError, apiErr.Level)
	require.Len(t, apiErr.Details, 1)
	assert.Contains(t, apiErr.Details[0].Message, "invalid magic number")
}

func TestSearchHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/_search", SearchRequest{
		Partition:    fixtures.LabelMettupalayam,
		Name:         " raman",
		RelativeName: "kumar",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		SearchID string                   `json:"search_id"`
		Message  string                   `json:"message"`
		Level    string                   `json:"level"`
		Count    int                      `json:"count"`
		Empty    bool                     `json:"empty"`
		Columns  []string                 `json:"columns"`
		Rows     []map[string]interface{} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.NotEmpty(t, body.SearchID)
	assert.Equal(t, 1, body.Count)
	assert.False(t, body.Empty)
	assert.Equal(t, "success", body.Level)
	assert.Equal(t, "1 பதிவுகள் கிடைத்தன.", body.Message)
	assert.Equal(t, []string{"SLNO", "FM_NAME_V2", "RLN_FM_NM_V2", "AGE"}, body.Columns)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "Raman", body.Rows[0]["FM_NAME_V2"])
}

func TestSearchHandlerNoMatches(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/_search", SearchRequest{
		Partition: fixtures.LabelPerur,
		Name:      "Nobody",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["empty"])
	assert.Equal(t, "error", body["level"])
	assert.Equal(t, "பொருந்தும் பதிவுகள் இல்லை.", body["message"])
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	router, env := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/_search", SearchRequest{
		Partition:    fixtures.LabelMettupalayam,
		Name:         "   ",
		RelativeName: "",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	apiErr := decodeError(t, w)
	assert.Equal(t, ErrorCodeEmptyQuery, apiErr.Code)
	assert.Equal(t, report.LevelWarning, apiErr.Level)
	assert.Equal(t, env.Settings.Messages.EmptyQuery, apiErr.Message)
	assert.Empty(t, env.Filter.Calls())
}

func TestSearchHandlerValidation(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodPost, "/_search", SearchRequest{
		Name: strings.Repeat("அ", maxQueryLength+1),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	apiErr := decodeError(t, w)
	assert.Equal(t, ErrorCodeValidationFailed, apiErr.Code)
	assert.Len(t, apiErr.Details, 2, "missing partition and overlong name")
}

func TestSearchHandlerRequestID(t *testing.T) {
	router, _ := setupTestRouter(t)

	req, _ := http.NewRequest(http.MethodPost, "/_search", strings.NewReader(`{"partition": "999 - Nowhere", "name": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "req-123", decodeError(t, w).RequestID)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)

	doJSON(router, http.MethodPost, "/_search", SearchRequest{Partition: fixtures.LabelPerur, Name: "Raman"})

	w := doJSON(router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `votersearch_searches_total{outcome="matched"} 1`)
	assert.Contains(t, w.Body.String(), `votersearch_partition_loads_total{status="loaded"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodOptions, "/_search", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestSizeLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	env := fixtures.CreateTestEngine(t)
	settings := env.Settings.Server
	settings.MaxBodyBytes = 64
	router := NewRouter(env.Engine, settings, Options{Messages: env.Settings.Messages})

	w := doJSON(router, http.MethodPost, "/_search", SearchRequest{
		Partition: fixtures.LabelPerur,
		Name:      strings.Repeat("a", 128),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorCodeInvalidJSON, decodeError(t, w).Code)
}
