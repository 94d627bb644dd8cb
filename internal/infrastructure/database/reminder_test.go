package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"nlreminder/internal/domain/constant"
	"nlreminder/internal/domain/entity"
	"nlreminder/internal/domain/repository"
	appErrors "nlreminder/internal/pkg/errors"
	"nlreminder/internal/pkg/logger"
)

func newTestRepo(t *testing.T) repository.ReminderRepository {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := Open(Options{SQLitePath: dsn}, logger.Nop())
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	t.Cleanup(func() { _ = Close(db) })
	return NewReminderRepository(db)
}

func seed(t *testing.T, repo repository.ReminderRepository, reminders ...*entity.Reminder) {
	t.Helper()
	for _, r := range reminders {
		if r.Status == "" {
			r.Status = constant.StatusPending
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)
		}
		if err := repo.Create(context.Background(), r); err != nil {
			t.Fatalf("seed reminder %s: %v", r.ID, err)
		}
	}
}

func ids(reminders []*entity.Reminder) []string {
	out := make([]string, len(reminders))
	for i, r := range reminders {
		out[i] = r.ID
	}
	return out
}

func TestCreateStoresUTC(t *testing.T) {
	repo := newTestRepo(t)
	jst := time.FixedZone("UTC+9", 9*60*60)

	seed(t, repo, &entity.Reminder{
		ID:     "r1",
		UserID: "U1",
		Task:   "ゴミ出し",
		DueAt:  time.Date(2025, 9, 15, 8, 0, 0, 0, jst),
	})

	got, err := repo.FindByID(context.Background(), "r1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	want := time.Date(2025, 9, 14, 23, 0, 0, 0, time.UTC)
	if !got.DueAt.Equal(want) {
		t.Fatalf("DueAt = %v, want %v", got.DueAt, want)
	}
	if got.Status != constant.StatusPending || got.SentAt != nil {
		t.Fatalf("new reminder should be pending without sentAt, got %+v", got)
	}
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, appErrors.ErrReminderNotFound) {
		t.Fatalf("FindByID error = %v, want ErrReminderNotFound", err)
	}
}

func TestFindByStatusAndDueRangeIsHalfOpen(t *testing.T) {
	repo := newTestRepo(t)
	start := time.Date(2025, 9, 14, 1, 0, 0, 0, time.UTC)
	end := start.Add(time.Minute)
	sentAt := start.Add(-time.Hour)

	seed(t, repo,
		&entity.Reminder{ID: "before", UserID: "U1", Task: "a", DueAt: start.Add(-time.Second)},
		&entity.Reminder{ID: "at-start", UserID: "U1", Task: "b", DueAt: start},
		&entity.Reminder{ID: "inside", UserID: "U2", Task: "c", DueAt: start.Add(30 * time.Second)},
		&entity.Reminder{ID: "at-end", UserID: "U1", Task: "d", DueAt: end},
		&entity.Reminder{ID: "sent", UserID: "U1", Task: "e", DueAt: start.Add(10 * time.Second), Status: constant.StatusSent, SentAt: &sentAt},
	)

	got, err := repo.FindByStatusAndDueRange(context.Background(), constant.StatusPending, start, end)
	if err != nil {
		t.Fatalf("FindByStatusAndDueRange: %v", err)
	}
	if want := []string{"at-start", "inside"}; fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}

func TestUpdateStatusIsConditional(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	due := time.Date(2025, 9, 14, 1, 0, 30, 0, time.UTC)
	seed(t, repo, &entity.Reminder{ID: "r1", UserID: "U1", Task: "会議", DueAt: due})

	first := time.Date(2025, 9, 14, 1, 0, 0, 0, time.UTC)
	if err := repo.UpdateStatus(ctx, "r1", constant.StatusSent, first); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	second := first.Add(time.Minute)
	if err := repo.UpdateStatus(ctx, "r1", constant.StatusSent, second); !errors.Is(err, appErrors.ErrAlreadySent) {
		t.Fatalf("second UpdateStatus error = %v, want ErrAlreadySent", err)
	}

	got, err := repo.FindByID(ctx, "r1")
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Status != constant.StatusSent {
		t.Fatalf("Status = %s, want sent", got.Status)
	}
	if got.SentAt == nil || !got.SentAt.Equal(first) {
		t.Fatalf("SentAt = %v, want %v (written once)", got.SentAt, first)
	}

	pending, err := repo.FindByStatusAndDueRange(ctx, constant.StatusPending, first, first.Add(time.Minute))
	if err != nil {
		t.Fatalf("FindByStatusAndDueRange: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("sent reminder still returned as pending: %v", ids(pending))
	}
}

func TestUpdateStatusRejectsOtherTransitions(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, &entity.Reminder{ID: "r1", UserID: "U1", Task: "会議", DueAt: time.Now().UTC()})

	err := repo.UpdateStatus(context.Background(), "r1", constant.StatusPending, time.Now())
	if !errors.Is(err, appErrors.ErrInvalidStatusTransition) {
		t.Fatalf("UpdateStatus error = %v, want ErrInvalidStatusTransition", err)
	}
}

func TestUpdateStatusUnknownID(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpdateStatus(context.Background(), "missing", constant.StatusSent, time.Now())
	if !errors.Is(err, appErrors.ErrReminderNotFound) {
		t.Fatalf("UpdateStatus error = %v, want ErrReminderNotFound", err)
	}
}

func TestFindPendingByUserID(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Date(2025, 9, 14, 1, 0, 0, 0, time.UTC)
	sentAt := base

	seed(t, repo,
		&entity.Reminder{ID: "late", UserID: "U1", Task: "b", DueAt: base.Add(2 * time.Hour)},
		&entity.Reminder{ID: "early", UserID: "U1", Task: "a", DueAt: base.Add(time.Hour)},
		&entity.Reminder{ID: "other", UserID: "U2", Task: "c", DueAt: base},
		&entity.Reminder{ID: "done", UserID: "U1", Task: "d", DueAt: base, Status: constant.StatusSent, SentAt: &sentAt},
	)

	got, err := repo.FindPendingByUserID(context.Background(), "U1")
	if err != nil {
		t.Fatalf("FindPendingByUserID: %v", err)
	}
	if want := []string{"early", "late"}; fmt.Sprint(ids(got)) != fmt.Sprint(want) {
		t.Fatalf("got %v, want %v", ids(got), want)
	}
}
