package domain

import "time"

// TaskStatus represents the lifecycle state of a task. Only active tasks are
// discoverable.
type TaskStatus string

const (
	TaskActive     TaskStatus = "active"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

var validTaskTransitions = map[TaskStatus][]TaskStatus{
	TaskActive:     {TaskInProgress, TaskCompleted, TaskCancelled},
	TaskInProgress: {TaskCompleted, TaskCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	for _, allowed := range validTaskTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// WorkStatus tracks the selected worker's progress on a task.
type WorkStatus string

const (
	WorkPending    WorkStatus = "pending"
	WorkInProgress WorkStatus = "in-progress"
	WorkCompleted  WorkStatus = "completed"
	WorkCancelled  WorkStatus = "cancelled"
)

// Task is a posted job. Location is fixed at creation.
type Task struct {
	ID                  string     `json:"id" bson:"_id,omitempty"`
	PostedBy            string     `json:"postedBy" bson:"posted_by"`
	Category            string     `json:"taskCategory" bson:"category"`
	Type                string     `json:"taskType,omitempty" bson:"type,omitempty"`
	Description         string     `json:"taskDescription" bson:"description"`
	Address             string     `json:"address,omitempty" bson:"address,omitempty"`
	Location            *GeoPoint  `json:"location,omitempty" bson:"location,omitempty"`
	PaymentAmount       float64    `json:"paymentAmount" bson:"payment_amount"`
	AdditionalNotes     string     `json:"additionalNotes,omitempty" bson:"additional_notes,omitempty"`
	Status              TaskStatus `json:"status" bson:"status"`
	WorkStatus          WorkStatus `json:"workStatus" bson:"work_status"`
	SelectedWorker      string     `json:"selectedWorker,omitempty" bson:"selected_worker,omitempty"`
	AcceptedApplication string     `json:"acceptedApplication,omitempty" bson:"accepted_application,omitempty"`
	Views               int64      `json:"views" bson:"views"`
	CreatedAt           time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt           time.Time  `json:"updatedAt" bson:"updated_at"`
	CompletedAt         *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
}

// IsParticipant reports whether userID is the poster or the selected worker.
func (t *Task) IsParticipant(userID string) bool {
	return userID != "" && (t.PostedBy == userID || t.SelectedWorker == userID)
}
