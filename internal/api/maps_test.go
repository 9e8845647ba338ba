package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAndListLocations(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/map/locations", map[string]interface{}{
		"name":        "Reception Hall",
		"latitude":    40.4406,
		"longitude":   -79.9959,
		"description": "Where the party happened",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	loc := decodeBody(t, rec)["location"].(map[string]interface{})
	require.NotEmpty(t, loc["id"])
	require.Equal(t, "Reception Hall", loc["name"])

	rec = env.do(t, http.MethodGet, "/map/locations", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	locations := decodeBody(t, rec)["locations"].([]interface{})
	require.Len(t, locations, 1)
}

func TestCreateLocationValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := []map[string]interface{}{
		{"latitude": 10.0, "longitude": 10.0},
		{"name": "  ", "latitude": 10.0, "longitude": 10.0},
		{"name": "Bad lat", "latitude": 91.0, "longitude": 10.0},
		{"name": "Bad lng", "latitude": 10.0, "longitude": -181.0},
	}
	for _, payload := range cases {
		rec := env.do(t, http.MethodPost, "/map/locations", payload, true)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestCreateLocationRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/map/locations", map[string]interface{}{
		"name": "Venue", "latitude": 1.0, "longitude": 1.0,
	}, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogVisitDedupesPerIP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/map/log-visit", nil, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.True(t, decodeBody(t, rec)["logged"].(bool))
	require.Equal(t, 1, env.mem.VisitCount())

	// Same IP within the window short-circuits without a second row.
	rec = env.do(t, http.MethodPost, "/map/log-visit", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)
	require.False(t, data["logged"].(bool))
	require.Equal(t, "visit already logged recently", data["message"])
	require.Equal(t, 1, env.mem.VisitCount())
}

func TestLogVisitAbuseCap(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < env.server.cfg.VisitLimit; i++ {
		rec := env.do(t, http.MethodPost, "/map/log-visit", nil, false)
		require.NotEqual(t, http.StatusTooManyRequests, rec.Code)
	}
	rec := env.do(t, http.MethodPost, "/map/log-visit", nil, false)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	// Only the first call wrote a row; the rest were dedupe hits or rejected.
	require.Equal(t, 1, env.mem.VisitCount())
}
