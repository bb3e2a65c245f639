package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationCompleted ApplicationStatus = "completed"
)

// ApplicantInfo is a snapshot of the applicant's profile taken when they apply.
type ApplicantInfo struct {
	Name           string   `json:"name" bson:"name"`
	Rating         float64  `json:"rating" bson:"rating"`
	Reviews        int      `json:"reviews" bson:"reviews"`
	Completed      int      `json:"completed" bson:"completed"`
	CompletionRate int      `json:"completionRate" bson:"completion_rate"`
	Skills         []string `json:"skills,omitempty" bson:"skills,omitempty"`
	DistanceMeters *float64 `json:"distanceMeters,omitempty" bson:"distance_meters,omitempty"`
}

type Application struct {
	ID            string            `json:"id" bson:"_id,omitempty"`
	TaskID        string            `json:"taskId" bson:"task_id"`
	ApplicantID   string            `json:"applicantId" bson:"applicant_id"`
	Message       string            `json:"message,omitempty" bson:"message,omitempty"`
	ApplicantInfo ApplicantInfo     `json:"applicantInfo" bson:"applicant_info"`
	Status        ApplicationStatus `json:"status" bson:"status"`
	AppliedAt     time.Time         `json:"appliedAt" bson:"applied_at"`
	AcceptedAt    *time.Time        `json:"acceptedAt,omitempty" bson:"accepted_at,omitempty"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
}
