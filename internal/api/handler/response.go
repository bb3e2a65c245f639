package handler

import (
	"math"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// errorResponse documents the envelope rendered by the API error handler.
type errorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"invalid location"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type listResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   int  `json:"count"`
}

// workerResponse is the public projection of a nearby worker.
type workerResponse struct {
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

type nearbyWorkersResponse struct {
	Success bool             `json:"success"`
	Data    []workerResponse `json:"data"`
	Count   int              `json:"count"`
	Message string           `json:"message"`
}

// taskResponse is a task with its poster resolved. DistanceMeters is only set
// on proximity results.
type taskResponse struct {
	*domain.Task
	Poster         *domain.UserSummary `json:"poster,omitempty"`
	DistanceMeters *float64            `json:"distanceMeters,omitempty"`
}

type nearbyTasksResponse struct {
	Success bool           `json:"success"`
	Tasks   []taskResponse `json:"tasks"`
}

type taskEnvelope struct {
	Success bool         `json:"success"`
	Task    taskResponse `json:"task"`
}

type userEnvelope struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

func toWorkerResponses(in []ports.NearbyWorker) []workerResponse {
	out := make([]workerResponse, 0, len(in))
	for _, w := range in {
		skills := w.Skills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, workerResponse{
			ID:             w.ID,
			Username:       w.Username,
			Name:           w.Name,
			ProfilePicture: w.ProfilePicture,
			Skills:         skills,
			HourlyRate:     w.HourlyRate,
			Rating:         w.Rating,
			TotalReviews:   w.TotalReviews,
			CompletedTasks: w.CompletedTasks,
			Location:       w.Location,
			DistanceMeters: roundMeters(w.DistanceMeters),
		})
	}
	return out
}

func toNearbyTaskResponses(in []ports.NearbyTask) []taskResponse {
	out := make([]taskResponse, 0, len(in))
	for _, t := range in {
		d := roundMeters(t.DistanceMeters)
		out = append(out, taskResponse{Task: t.Task, Poster: t.Poster, DistanceMeters: &d})
	}
	return out
}

func toTaskDetailResponses(in []ports.TaskDetail) []taskResponse {
	out := make([]taskResponse, 0, len(in))
	for _, t := range in {
		out = append(out, taskResponse{Task: t.Task, Poster: t.Poster})
	}
	return out
}

func roundMeters(m float64) float64 {
	return math.Round(m*10) / 10
}
