package domain

import (
	"math"
	"time"
)

type ReviewCategory string

const (
	ReviewCommunication ReviewCategory = "communication"
	ReviewQuality       ReviewCategory = "quality"
	ReviewSpeed         ReviewCategory = "speed"
)

type Review struct {
	ID         string         `json:"id" bson:"_id,omitempty"`
	ReviewerID string         `json:"reviewerId" bson:"reviewer_id"`
	RevieweeID string         `json:"revieweeId" bson:"reviewee_id"`
	TaskID     string         `json:"taskId" bson:"task_id"`
	Rating     int            `json:"rating" bson:"rating"`
	ReviewText string         `json:"reviewText,omitempty" bson:"review_text,omitempty"`
	Category   ReviewCategory `json:"category,omitempty" bson:"category,omitempty"`
	CreatedAt  time.Time      `json:"createdAt" bson:"created_at"`
}

// AverageRating rounds the mean of ratings to one decimal place.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

// CompletionRate grows towards 100 as the completed count increases.
func CompletionRate(completed int) int {
	if completed <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(completed+5) * 100))
}
