package domain

import "errors"

var (
	ErrInvalidLocation = errors.New("invalid location")
	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidInput    = errors.New("invalid input")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrAccountSuspended   = errors.New("account is not active")
	ErrTokenRevoked       = errors.New("token revoked")

	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNotActive     = errors.New("task is not accepting applications")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("already applied to this task")
	ErrOwnTask             = errors.New("cannot apply to your own task")
	ErrNotApplicant        = errors.New("worker has not applied to this task")

	ErrMessageNotFound = errors.New("message not found")
	ErrNotParticipant  = errors.New("not a participant of this task")

	ErrAlreadyReviewed = errors.New("task already reviewed")
	ErrTaskNotComplete = errors.New("task is not completed")
)
