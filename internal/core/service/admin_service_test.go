package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

func TestAdminService_Dashboard(t *testing.T) {
	users := newStubUserRepo()
	tasks := newStubTaskRepo()
	svc := NewAdminService(users, tasks, zerolog.Nop())

	users.seed(&domain.User{Username: "a", IsActive: true})
	users.seed(&domain.User{Username: "b"})
	users.seed(&domain.User{Username: "c"})
	users.seed(&domain.User{Username: "d", IsActive: true})
	tasks.seed(&domain.Task{Status: domain.TaskActive})
	tasks.seed(&domain.Task{Status: domain.TaskCompleted})
	tasks.seed(&domain.Task{Status: domain.TaskCancelled})

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.TotalUsers != 4 || d.ActiveUsers != 2 || d.ActiveUserPercent != 50 {
		t.Errorf("unexpected user numbers: %+v", d)
	}
	if d.TotalTasks != 3 || d.ActiveTasks != 1 || d.CompletedTasks != 1 || d.CompletionPercent != 33.3 {
		t.Errorf("unexpected task numbers: %+v", d)
	}
}

func TestAdminService_ListUsersPaging(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAdminService(users, newStubTaskRepo(), zerolog.Nop())
	for i := 0; i < 5; i++ {
		users.seed(&domain.User{Username: string(rune('a' + i)), AccountStatus: domain.AccountActive})
	}

	res, err := svc.ListUsers(context.Background(), ports.ListUsersFilter{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 5 || len(res.Users) != 2 || res.Page != 2 {
		t.Errorf("unexpected page: total=%d len=%d page=%d", res.Total, len(res.Users), res.Page)
	}

	res, _ = svc.ListUsers(context.Background(), ports.ListUsersFilter{Limit: 1000})
	if res.Limit != maxUsersLimit || res.Page != 1 {
		t.Errorf("expected clamped paging, got page=%d limit=%d", res.Page, res.Limit)
	}

	if _, err := svc.ListUsers(context.Background(), ports.ListUsersFilter{AccountStatus: "weird"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAdminService_StatusDeleteAndActive(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAdminService(users, newStubTaskRepo(), zerolog.Nop())
	u := users.seed(activeWorker("u", pointAt(hydLat, hydLng)))
	users.seed(activeWorker("unlocated", nil))

	got, err := svc.SetAccountStatus(context.Background(), u.ID, domain.AccountSuspended)
	if err != nil || got.AccountStatus != domain.AccountSuspended {
		t.Fatalf("expected suspended, got %+v (%v)", got, err)
	}
	if _, err := svc.SetAccountStatus(context.Background(), u.ID, "frozen"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	active, err := svc.ActiveUsers(context.Background())
	if err != nil || len(active) != 1 || active[0].ID != u.ID {
		t.Errorf("expected only the located active user, got %+v (%v)", active, err)
	}

	if err := svc.DeleteUser(context.Background(), u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetUser(context.Background(), u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound after delete, got %v", err)
	}
}
