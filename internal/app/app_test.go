package app_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lottopro/backend/internal/model"
	"github.com/lottopro/backend/internal/pkg/testentry"
)

const adminKey = "test-admin-key"

func newApp(t *testing.T) *fiber.App {
	var app *fiber.App
	testentry.Populate(t, map[string]string{
		"LOTTOPRO_HISTORY_RESOURCE": filepath.Join(t.TempDir(), "missing.csv"),
		"LOTTOPRO_ADMIN_KEY":        adminKey,
		"LOTTOPRO_SAMPLER_SEED":     "7",
	}, &app)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestPredictWithoutResource(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, jsonRequest(http.MethodPost, "/api/predict", `{"pinned_numbers": [7, "13", 99]}`))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var result model.PredictionResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.Success)
	assert.Equal(t, "embedded fallback (10 draws)", result.DataSource)
	assert.Equal(t, model.Pinned{7, 13}, result.PinnedNumbers)
	assert.Len(t, result.Models, 5)
	assert.Equal(t, 50, result.TotalCombinations)
	assert.Len(t, result.TopRecommendations, 5)
	require.NotNil(t, result.NextRound)
	assert.Equal(t, 11, *result.NextRound)
	for _, c := range result.TopRecommendations {
		assert.True(t, c.Covers(result.PinnedNumbers))
	}

	resp, body = do(t, app, jsonRequest(http.MethodPost, "/api/predict", `not json`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"pinned_numbers":[]`)
}

func TestStatsETag(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	etag := resp.Header.Get(fiber.HeaderETag)
	require.NotEmpty(t, etag)

	var result model.StatsResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, 10, result.TotalDraws)
	assert.Len(t, result.Frequency, 45)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set(fiber.HeaderIfNoneMatch, etag)
	resp, _ = do(t, app, req)
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestAdminRefresh(t *testing.T) {
	app := newApp(t)

	resp, _ := do(t, app, jsonRequest(http.MethodPost, "/api/_/admin/refresh", `{}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	csv := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(csv, []byte(
		"round,draw_date,num1,num2,num3,num4,num5,num6,bonus\n"+
			"1101,2024-01-06,1,2,3,4,5,6,7\n"+
			"1102,2024-01-13,8,9,10,11,12,13,14\n",
	), 0o644))

	body, err := json.Marshal(map[string]string{"resource": csv})
	require.NoError(t, err)
	req := jsonRequest(http.MethodPost, "/api/_/admin/refresh", string(body))
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+adminKey)
	resp, respBody := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))
	assert.Contains(t, string(respBody), `"data_source":"structured parse (2 draws)"`)
	assert.Contains(t, string(respBody), `"latest_round":1102`)

	resp, respBody = do(t, app, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(respBody), `"total_draws":2`)

	// an unreachable resource keeps the loaded history
	body, err = json.Marshal(map[string]string{"resource": filepath.Join(t.TempDir(), "missing.csv")})
	require.NoError(t, err)
	req = jsonRequest(http.MethodPost, "/api/_/admin/refresh", string(body))
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+adminKey)
	resp, respBody = do(t, app, req)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode, string(respBody))
	assert.Contains(t, string(respBody), "UPSTREAM_UNAVAILABLE")

	resp, respBody = do(t, app, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(respBody), `"total_draws":2`)

	req = jsonRequest(http.MethodPost, "/api/_/admin/refresh", `{"resource": "ftp://example.com/history.csv"}`)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+adminKey)
	resp, _ = do(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminPurge(t *testing.T) {
	app := newApp(t)

	req := jsonRequest(http.MethodPost, "/api/_/admin/purge", `{"name": "nothing"}`)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+adminKey)
	resp, body := do(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "statsView")

	req = jsonRequest(http.MethodPost, "/api/_/admin/purge", `{}`)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+adminKey)
	resp, _ = do(t, app, req)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
