package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

const defaultTaskListLimit = 100

// TaskService implements the task lifecycle: post, browse, select a worker,
// complete or cancel.
type TaskService struct {
	tasks  ports.TaskRepository
	apps   ports.ApplicationRepository
	users  ports.UserRepository
	stats  ports.StatsQueue
	events ports.EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewTaskService(
	tasks ports.TaskRepository,
	apps ports.ApplicationRepository,
	users ports.UserRepository,
	stats ports.StatsQueue,
	events ports.EventPublisher,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:  tasks,
		apps:   apps,
		users:  users,
		stats:  stats,
		events: events,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) Create(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("create task: %w: category and description are required", domain.ErrInvalidInput)
	}
	if in.PaymentAmount < 0 {
		return nil, fmt.Errorf("create task: %w: payment amount must not be negative", domain.ErrInvalidInput)
	}

	var loc *domain.GeoPoint
	if in.Lat != nil || in.Lng != nil {
		if in.Lat == nil || in.Lng == nil {
			return nil, fmt.Errorf("create task: %w: latitude and longitude go together", domain.ErrInvalidLocation)
		}
		p, err := domain.NewGeoPoint(*in.Lat, *in.Lng)
		if err != nil {
			return nil, fmt.Errorf("create task: %w", err)
		}
		loc = &p
	}

	now := s.now()
	return s.tasks.Create(ctx, &domain.Task{
		PostedBy:        in.PostedBy,
		Category:        strings.TrimSpace(in.Category),
		Type:            in.Type,
		Description:     strings.TrimSpace(in.Description),
		Address:         in.Address,
		Location:        loc,
		PaymentAmount:   in.PaymentAmount,
		AdditionalNotes: in.AdditionalNotes,
		Status:          domain.TaskActive,
		WorkStatus:      domain.WorkPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// Get returns the task with its poster and counts the view.
func (s *TaskService) Get(ctx context.Context, taskID string) (*ports.TaskDetail, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.IncrementViews(ctx, taskID); err != nil {
		s.log.Warn().Err(err).Str("task_id", taskID).Msg("failed to count task view")
	} else {
		task.Views++
	}

	detail := &ports.TaskDetail{Task: task}
	if poster, err := s.users.FindByID(ctx, task.PostedBy); err == nil {
		summary := poster.Summary()
		detail.Poster = &summary
	}
	return detail, nil
}

func (s *TaskService) List(ctx context.Context, filter ports.ListTasksFilter) ([]ports.TaskDetail, error) {
	if filter.Status == "" {
		filter.Status = domain.TaskActive
	}
	if filter.Limit <= 0 || filter.Limit > defaultTaskListLimit {
		filter.Limit = defaultTaskListLimit
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.PostedBy)
	}
	posters, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list tasks: posters: %w", err)
	}

	out := make([]ports.TaskDetail, 0, len(tasks))
	for _, t := range tasks {
		d := ports.TaskDetail{Task: t}
		if p, ok := posters[t.PostedBy]; ok {
			summary := p.Summary()
			d.Poster = &summary
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *TaskService) MyTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.tasks.List(ctx, ports.ListTasksFilter{PostedBy: userID, Limit: defaultTaskListLimit})
}

// SelectWorker accepts workerID's application and moves the task in progress.
func (s *TaskService) SelectWorker(ctx context.Context, taskID, ownerID, workerID string) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(domain.TaskInProgress) {
		return nil, fmt.Errorf("select worker: %w (from %s)", domain.ErrInvalidTransition, task.Status)
	}

	app, err := s.apps.FindByTaskAndApplicant(ctx, taskID, workerID)
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return nil, domain.ErrNotApplicant
		}
		return nil, fmt.Errorf("select worker: %w", err)
	}

	now := s.now()
	app.Status = domain.ApplicationAccepted
	app.AcceptedAt = &now
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("select worker: accept application: %w", err)
	}

	from := task.Status
	task.Status = domain.TaskInProgress
	task.WorkStatus = domain.WorkInProgress
	task.SelectedWorker = workerID
	task.AcceptedApplication = app.ID
	task.UpdatedAt = now
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("select worker: %w", err)
	}

	s.announce(ctx, task, from)
	return task, nil
}

// Complete marks the task done. A completed task drops out of discovery on
// the next query.
func (s *TaskService) Complete(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(domain.TaskCompleted) {
		return nil, fmt.Errorf("complete task: %w (from %s)", domain.ErrInvalidTransition, task.Status)
	}

	now := s.now()
	from := task.Status
	task.Status = domain.TaskCompleted
	task.WorkStatus = domain.WorkCompleted
	task.CompletedAt = &now
	task.UpdatedAt = now
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("complete task: %w", err)
	}

	if task.SelectedWorker != "" {
		if task.AcceptedApplication != "" {
			s.completeApplication(ctx, task.AcceptedApplication, now)
		}
		if s.stats != nil {
			s.stats.Enqueue(domain.StatsJob{UserID: task.SelectedWorker, Kind: domain.StatsTaskCompleted, TaskID: task.ID})
		}
	}

	s.announce(ctx, task, from)
	return task, nil
}

func (s *TaskService) Cancel(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}
	if !task.Status.CanTransitionTo(domain.TaskCancelled) {
		return nil, fmt.Errorf("cancel task: %w (from %s)", domain.ErrInvalidTransition, task.Status)
	}

	from := task.Status
	task.Status = domain.TaskCancelled
	task.WorkStatus = domain.WorkCancelled
	task.UpdatedAt = s.now()
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, fmt.Errorf("cancel task: %w", err)
	}

	s.announce(ctx, task, from)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID, ownerID string) error {
	if _, err := s.ownedTask(ctx, taskID, ownerID); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := s.apps.DeleteByTask(ctx, taskID); err != nil {
		s.log.Warn().Err(err).Str("task_id", taskID).Msg("failed to delete task applications")
	}
	return nil
}

func (s *TaskService) ownedTask(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.PostedBy != ownerID {
		return nil, domain.ErrForbidden
	}
	return task, nil
}

func (s *TaskService) completeApplication(ctx context.Context, appID string, at time.Time) {
	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		s.log.Warn().Err(err).Str("application_id", appID).Msg("accepted application not found")
		return
	}
	app.Status = domain.ApplicationCompleted
	app.CompletedAt = &at
	if err := s.apps.Save(ctx, app); err != nil {
		s.log.Warn().Err(err).Str("application_id", appID).Msg("failed to complete application")
	}
}

func (s *TaskService) announce(ctx context.Context, task *domain.Task, from domain.TaskStatus) {
	s.log.Info().
		Str("task_id", task.ID).
		Str("from", string(from)).
		Str("to", string(task.Status)).
		Msg("task status changed")

	publish(ctx, s.events, s.log, domain.Event{
		Type:       domain.EventTaskStatusChanged,
		Key:        task.ID,
		OccurredAt: s.now(),
		Payload: map[string]any{
			"taskId":         task.ID,
			"from":           from,
			"to":             task.Status,
			"selectedWorker": task.SelectedWorker,
		},
	})
}
