package discovery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]float64
}

func newAPIServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		_ = json.Unmarshal(raw, &rec.Body)
		seen = append(seen, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestClient_PushLocation(t *testing.T) {
	srv, seen := newAPIServer(t, http.StatusOK, `{"success":true,"message":"location updated"}`)
	c := NewClient(Session{BaseURL: srv.URL, Token: "tok"}, time.Second)

	require.NoError(t, c.PushLocation(context.Background(), Point{Lat: 17.385, Lng: 78.4867}))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	require.Equal(t, http.MethodPut, got.Method)
	require.Equal(t, "/users/location", got.Path)
	require.Equal(t, "Bearer tok", got.Auth)
	require.Equal(t, map[string]float64{"latitude": 17.385, "longitude": 78.4867}, got.Body)
}

func TestClient_NearbyWorkers(t *testing.T) {
	srv, seen := newAPIServer(t, http.StatusOK, `{
		"success": true,
		"count": 1,
		"data": [{"id":"w1","username":"ravi","name":"Ravi","skills":["plumbing"],"rating":4.5,
			"location":{"type":"Point","coordinates":[78.4867,17.385]},"distanceMeters":120.5}]
	}`)
	c := NewClient(Session{BaseURL: srv.URL, Token: "tok"}, time.Second)

	workers, err := c.NearbyWorkers(context.Background(), Point{Lat: 17.385, Lng: 78.4867}, 5000)
	require.NoError(t, err)
	require.Len(t, workers, 1)
	require.Equal(t, "w1", workers[0].ID)
	require.Equal(t, 17.385, workers[0].Location.Lat())
	require.Equal(t, 120.5, workers[0].DistanceMeters)

	got := (*seen)[0]
	require.Equal(t, "/users/nearby/workers", got.Path)
	require.Equal(t, 5000.0, got.Body["maxDistance"])
}

func TestClient_NearbyTasks(t *testing.T) {
	srv, seen := newAPIServer(t, http.StatusOK, `{
		"success": true,
		"tasks": [{"id":"t1","taskCategory":"cleaning","taskDescription":"deep clean","paymentAmount":500,
			"location":{"type":"Point","coordinates":[78.49,17.39]},"distanceMeters":800}]
	}`)
	c := NewClient(Session{BaseURL: srv.URL, Token: "tok"}, time.Second)

	tasks, err := c.NearbyTasks(context.Background(), Point{Lat: 17.385, Lng: 78.4867}, 10000)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "cleaning", tasks[0].Category)
	require.NotNil(t, tasks[0].Location)

	got := (*seen)[0]
	require.Equal(t, http.MethodPost, got.Method)
	require.Equal(t, "/tasks/nearby", got.Path)
	require.Equal(t, 10000.0, got.Body["radius"])
}

func TestClient_ErrorEnvelope(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusBadRequest, `{"success":false,"message":"latitude is invalid"}`)
	c := NewClient(Session{BaseURL: srv.URL, Token: "tok"}, time.Second)

	_, err := c.NearbyWorkers(context.Background(), Point{}, 5000)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Status)
	require.Equal(t, "latitude is invalid", apiErr.Message)
	require.True(t, IsClientError(err))
}

func TestClient_ServerErrorWithoutBody(t *testing.T) {
	srv, _ := newAPIServer(t, http.StatusBadGateway, ``)
	c := NewClient(Session{BaseURL: srv.URL}, time.Second)

	err := c.PushLocation(context.Background(), Point{Lat: 1, Lng: 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
	require.False(t, IsClientError(err))
}
