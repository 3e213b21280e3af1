package strava

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/macro-log/internal/common"
	"github.com/Veraticus/macro-log/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrava struct {
	activities   map[int64]Activity
	tokenCalls   atomic.Int32
	detailCalls  atomic.Int32
	failDetail   bool
	rejectTokens bool
}

func (f *fakeStrava) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		assert.Equal(t, "refresh-me", r.Form.Get("refresh_token"))
		assert.Equal(t, "client-id", r.Form.Get("client_id"))

		w.Header().Set("Content-Type", "application/json")
		if f.rejectTokens {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access",
			"refresh_token": "refresh-me",
			"token_type":    "Bearer",
			"expires_in":    21600,
		})
	})

	mux.HandleFunc("GET /api/v3/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		before, _ := strconv.ParseInt(r.URL.Query().Get("before"), 10, 64)

		summaries := []Activity{}
		for _, a := range f.activities {
			if a.StartDate.Unix() >= after && a.StartDate.Unix() < before {
				summaries = append(summaries, Activity{ID: a.ID, Name: a.Name, StartDate: a.StartDate, Kilojoules: a.Kilojoules})
			}
		}
		_ = json.NewEncoder(w).Encode(summaries)
	})

	mux.HandleFunc("GET /api/v3/activities/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.detailCalls.Add(1)
		if f.failDetail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
		a, ok := f.activities[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(a)
	})

	return mux
}

func newTestClient(t *testing.T, fake *fakeStrava) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{
		ClientID:     "client-id",
		ClientSecret: "secret",
		RefreshToken: "refresh-me",
		BaseURL:      srv.URL + "/api/v3",
		TokenURL:     srv.URL + "/oauth/token",
		RetryOptions: service.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond},
	}, nil)
	require.NoError(t, err)
	return client
}

func TestClient_BurnedCalories(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	fake := &fakeStrava{activities: map[int64]Activity{
		1: {ID: 1, Name: "Morning Run", StartDate: day.Add(7 * time.Hour), Calories: 512.5},
		2: {ID: 2, Name: "Evening Ride", StartDate: day.Add(18 * time.Hour), Kilojoules: 300},
		3: {ID: 3, Name: "Next Day", StartDate: day.Add(25 * time.Hour), Calories: 900},
	}}
	client := newTestClient(t, fake)

	summary, err := client.BurnedCalories(context.Background(), day.Add(13*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", summary.Date)
	assert.Equal(t, 2, summary.Activities)
	assert.InDelta(t, 812.5, summary.Calories, 1e-9)
	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

func TestClient_BurnedCaloriesNoActivities(t *testing.T) {
	client := newTestClient(t, &fakeStrava{activities: map[int64]Activity{}})

	summary, err := client.BurnedCalories(context.Background(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, summary.Activities)
	assert.Zero(t, summary.Calories)
}

func TestClient_GetActivityNotFound(t *testing.T) {
	client := newTestClient(t, &fakeStrava{activities: map[int64]Activity{}})

	_, err := client.GetActivity(context.Background(), 42)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	fake := &fakeStrava{activities: map[int64]Activity{7: {ID: 7}}, failDetail: true}
	client := newTestClient(t, fake)

	_, err := client.GetActivity(context.Background(), 7)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, int32(2), fake.detailCalls.Load())
}

func TestClient_TokenRefreshRejected(t *testing.T) {
	fake := &fakeStrava{activities: map[int64]Activity{}, rejectTokens: true}
	client := newTestClient(t, fake)

	_, err := client.ListActivities(context.Background(), time.Unix(0, 0), time.Now())
	assert.ErrorIs(t, err, common.ErrUpstream)
	assert.Equal(t, int32(1), fake.tokenCalls.Load())
}

func TestConfig_Validate(t *testing.T) {
	err := Config{ClientID: "id"}.Validate()
	require.ErrorIs(t, err, common.ErrMissingConfig)
	assert.Contains(t, err.Error(), "client secret, refresh token")

	assert.NoError(t, Config{ClientID: "id", ClientSecret: "s", RefreshToken: "r"}.Validate())
}

func TestActivity_BurnedCalories(t *testing.T) {
	assert.InDelta(t, 300, Activity{Calories: 300, Kilojoules: 500}.BurnedCalories(), 1e-9)
	assert.InDelta(t, 500, Activity{Kilojoules: 500}.BurnedCalories(), 1e-9)
	assert.Zero(t, Activity{}.BurnedCalories())
}
