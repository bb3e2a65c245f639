package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/snufix/taskflow/internal/core/domain"
)

// Worker is a nearby worker as returned by the API.
type Worker struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Name           string          `json:"name"`
	ProfilePicture string          `json:"profilePicture,omitempty"`
	Skills         []string        `json:"skills"`
	HourlyRate     float64         `json:"hourlyRate,omitempty"`
	Rating         float64         `json:"rating"`
	TotalReviews   int             `json:"totalReviews"`
	CompletedTasks int             `json:"completedTasks"`
	Location       domain.GeoPoint `json:"location"`
	DistanceMeters float64         `json:"distanceMeters"`
}

// Task is a nearby active task as returned by the API.
type Task struct {
	ID             string              `json:"id"`
	Category       string              `json:"taskCategory"`
	Description    string              `json:"taskDescription"`
	Address        string              `json:"address,omitempty"`
	PaymentAmount  float64             `json:"paymentAmount"`
	Location       *domain.GeoPoint    `json:"location,omitempty"`
	Poster         *domain.UserSummary `json:"poster,omitempty"`
	DistanceMeters float64             `json:"distanceMeters"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// LocationPusher writes the caller's location to the server.
type LocationPusher interface {
	PushLocation(ctx context.Context, p Point) error
}

// NearbyFinder runs proximity queries. Radii are meters.
type NearbyFinder interface {
	NearbyWorkers(ctx context.Context, center Point, radiusMeters float64) ([]Worker, error)
	NearbyTasks(ctx context.Context, center Point, radiusMeters float64) ([]Task, error)
}

// Client talks to the TaskFlow REST API on behalf of one Session.
type Client struct {
	session Session
	http    *http.Client
}

func NewClient(session Session, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{session: session, http: &http.Client{Timeout: timeout}}
}

type locationBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type nearbyWorkersBody struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MaxDistance float64 `json:"maxDistance"`
}

type nearbyTasksBody struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

func (c *Client) PushLocation(ctx context.Context, p Point) error {
	return c.do(ctx, http.MethodPut, "/users/location", locationBody{Latitude: p.Lat, Longitude: p.Lng}, nil)
}

func (c *Client) NearbyWorkers(ctx context.Context, center Point, radiusMeters float64) ([]Worker, error) {
	var out struct {
		Data []Worker `json:"data"`
	}
	body := nearbyWorkersBody{Latitude: center.Lat, Longitude: center.Lng, MaxDistance: radiusMeters}
	if err := c.do(ctx, http.MethodPost, "/users/nearby/workers", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) NearbyTasks(ctx context.Context, center Point, radiusMeters float64) ([]Task, error) {
	var out struct {
		Tasks []Task `json:"tasks"`
	}
	body := nearbyTasksBody{Latitude: center.Lat, Longitude: center.Lng, Radius: radiusMeters}
	if err := c.do(ctx, http.MethodPost, "/tasks/nearby", body, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.session.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &env)
		if env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// IsClientError reports whether err is a 4xx answer from the API.
func IsClientError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500
}
