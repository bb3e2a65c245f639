package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

const maxApplicationMessage = 1000

type ApplicationService struct {
	apps  ports.ApplicationRepository
	tasks ports.TaskRepository
	users ports.UserRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewApplicationService(
	apps ports.ApplicationRepository,
	tasks ports.TaskRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		apps:  apps,
		tasks: tasks,
		users: users,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Apply records the applicant's interest together with a snapshot of their
// profile as it looks right now.
func (s *ApplicationService) Apply(ctx context.Context, taskID, applicantID, message string) (*domain.Application, error) {
	if len(message) > maxApplicationMessage {
		return nil, fmt.Errorf("apply: %w: message too long", domain.ErrInvalidInput)
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.TaskActive {
		return nil, domain.ErrTaskNotActive
	}
	if task.PostedBy == applicantID {
		return nil, domain.ErrOwnTask
	}

	applicant, err := s.users.FindByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	info := domain.ApplicantInfo{
		Name:           applicant.DisplayName(),
		Rating:         applicant.Stats.Rating,
		Reviews:        applicant.Stats.TotalReviews,
		Completed:      applicant.Stats.CompletedTasks,
		CompletionRate: applicant.Stats.CompletionRate,
		Skills:         applicant.Skills,
	}
	if domain.Discoverable(applicant.Location) && domain.Discoverable(task.Location) {
		d := task.Location.DistanceMeters(*applicant.Location)
		info.DistanceMeters = &d
	}

	app, err := s.apps.Create(ctx, &domain.Application{
		TaskID:        taskID,
		ApplicantID:   applicantID,
		Message:       strings.TrimSpace(message),
		ApplicantInfo: info,
		Status:        domain.ApplicationPending,
		AppliedAt:     s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("task_id", taskID).Str("applicant_id", applicantID).Msg("application created")
	return app, nil
}

func (s *ApplicationService) MyApplications(ctx context.Context, applicantID string) ([]*domain.Application, error) {
	return s.apps.ListByApplicant(ctx, applicantID)
}

// ForTask lists a task's applications; only the poster may see them.
func (s *ApplicationService) ForTask(ctx context.Context, taskID, ownerID string) ([]*domain.Application, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.PostedBy != ownerID {
		return nil, domain.ErrForbidden
	}
	return s.apps.ListByTask(ctx, taskID)
}

func (s *ApplicationService) Reject(ctx context.Context, applicationID, ownerID string) (*domain.Application, error) {
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, app.TaskID)
	if err != nil {
		return nil, err
	}
	if task.PostedBy != ownerID {
		return nil, domain.ErrForbidden
	}
	if app.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("reject application: %w (from %s)", domain.ErrInvalidTransition, app.Status)
	}

	app.Status = domain.ApplicationRejected
	if err := s.apps.Save(ctx, app); err != nil {
		return nil, fmt.Errorf("reject application: %w", err)
	}
	return app, nil
}
