package apitester

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/communityadmin/internal/app/client"
	"github.com/yigit/communityadmin/internal/pkg/auth"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func backend(t *testing.T, enrollStatus int) (*http.ServeMux, *atomic.Int32) {
	t.Helper()
	var deletes atomic.Int32
	event := map[string]interface{}{
		"_id":           "e1",
		"title":         "React Development Workshop",
		"description":   "Hands-on",
		"community":     map[string]string{"_id": "c1", "name": "Go"},
		"startDateTime": "2030-01-08T10:00:00.000Z",
		"endDateTime":   "2030-01-08T12:00:00.000Z",
		"platform":      "Zoom",
		"category":      "Workshop",
		"attendees":     []string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": "t-123"})
	})
	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t-123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "No token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"_id": "u1", "name": "Ada", "role": "admin"})
	})
	mux.HandleFunc("GET /api/events/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"events": []interface{}{}})
	})
	mux.HandleFunc("GET /api/events/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]int{"total": 3, "upcoming": 1, "past": 2, "totalAttendees": 9})
	})
	mux.HandleFunc("GET /api/events/my/enrolled", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []interface{}{})
	})
	mux.HandleFunc("POST /api/events", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body["community"])
		assert.Equal(t, "2030-01-08T10:00:00.000Z", body["startDateTime"])
		writeJSON(w, http.StatusCreated, event)
	})
	mux.HandleFunc("GET /api/events/e1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, event)
	})
	mux.HandleFunc("PUT /api/events/e1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(75), body["maxAttendees"])
		updated := map[string]interface{}{}
		for k, v := range event {
			updated[k] = v
		}
		updated["title"] = body["title"]
		writeJSON(w, http.StatusOK, updated)
	})
	mux.HandleFunc("POST /api/events/e1/enroll", func(w http.ResponseWriter, r *http.Request) {
		if enrollStatus != http.StatusOK {
			writeJSON(w, enrollStatus, map[string]string{"error": "Admins cannot enroll"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Enrolled", "event": event})
	})
	mux.HandleFunc("DELETE /api/events/e1/enroll", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Unenrolled", "event": event})
	})
	mux.HandleFunc("DELETE /api/events/e1", func(w http.ResponseWriter, r *http.Request) {
		deletes.Add(1)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
	})
	return mux, &deletes
}

func newAPI(t *testing.T, mux *http.ServeMux, tokens auth.TokenStore) *client.API {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second, Tokens: tokens, Logger: zerolog.Nop()})
	require.NoError(t, err)
	return client.NewAPI(c)
}

func fixedNow() time.Time {
	return time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
}

func TestRunCreatesAndCleansUp(t *testing.T) {
	mux, deletes := backend(t, http.StatusOK)
	tokens := auth.NewFileTokenStore(filepath.Join(t.TempDir(), "token"))
	api := newAPI(t, mux, tokens)

	r := NewRunner(api, Options{Username: "admin@example.com", Password: "pw", Community: "c1", Cleanup: true, Now: fixedNow}, zerolog.Nop())
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Failed())
	require.Len(t, report.Results, 11)
	assert.Equal(t, "Signed in as Ada (admin)", report.Results[0].Detail)
	assert.Equal(t, "Created event e1", report.Results[5].Detail)
	assert.Equal(t, `Renamed to "Advanced React Workshop"`, report.Results[7].Detail)
	assert.Equal(t, int32(1), deletes.Load())
	assert.Equal(t, "t-123", tokens.Token())
}

func TestEnrollFailureIsSkipped(t *testing.T) {
	mux, _ := backend(t, http.StatusForbidden)
	api := newAPI(t, mux, nil)

	r := NewRunner(api, Options{Username: "admin@example.com", Password: "pw", Community: "c1", Now: fixedNow}, zerolog.Nop())
	report, err := r.Run(context.Background())
	require.NoError(t, err)

	enroll := report.Results[8]
	assert.Equal(t, "enroll", enroll.Step)
	assert.True(t, enroll.Skipped)
	assert.Equal(t, "Admins cannot enroll", enroll.Error)
	assert.Zero(t, report.Failed())
}

func TestRunStopsWithoutAnEvent(t *testing.T) {
	mux, _ := backend(t, http.StatusOK)
	api := newAPI(t, mux, nil)

	r := NewRunner(api, Options{Username: "admin@example.com", Password: "pw"}, zerolog.Nop())
	report, err := r.Run(context.Background())
	require.ErrorIs(t, err, ErrNoEvent)
	assert.Equal(t, "get event", report.Results[len(report.Results)-1].Step)
	assert.Equal(t, 1, report.Failed())
}

func TestStoredTokenIsReused(t *testing.T) {
	mux, _ := backend(t, http.StatusOK)
	api := newAPI(t, mux, auth.NewMemoryTokenStore("t-123"))

	r := NewRunner(api, Options{Community: "c1", Now: fixedNow}, zerolog.Nop())
	report, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Using stored token for Ada", report.Results[0].Detail)
}

func TestLoginNeedsCredentialsOrToken(t *testing.T) {
	mux, _ := backend(t, http.StatusOK)
	api := newAPI(t, mux, nil)

	_, err := NewRunner(api, Options{}, zerolog.Nop()).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username is required")
}
