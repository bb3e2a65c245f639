package domain

// StatsJobKind names the event that made a user's aggregates stale.
type StatsJobKind string

const (
	StatsTaskCompleted StatsJobKind = "task_completed"
	StatsReviewCreated StatsJobKind = "review_created"
)

// StatsJob asks the background worker to recompute a user's aggregate stats.
type StatsJob struct {
	UserID string
	Kind   StatsJobKind
	TaskID string
}
