package repository

import (
	"context"
	"time"

	"nlreminder/internal/domain/constant"
	"nlreminder/internal/domain/entity"
)

// ReminderRepository defines the interface for reminder data operations.
type ReminderRepository interface {
	// Create persists a new reminder record.
	Create(ctx context.Context, reminder *entity.Reminder) error
	// FindByID retrieves a reminder by its ID.
	FindByID(ctx context.Context, id string) (*entity.Reminder, error)
	// FindByStatusAndDueRange retrieves reminders with the given status whose
	// due time lies in the half-open interval [start, end), oldest first.
	FindByStatusAndDueRange(ctx context.Context, status constant.ReminderStatus, start, end time.Time) ([]*entity.Reminder, error)
	// FindPendingByUserID retrieves the undelivered reminders of a user, oldest first.
	FindPendingByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error)
	// UpdateStatus moves a pending reminder to status and records sentAt.
	// Only constant.StatusSent is accepted, and only while the row is still pending.
	UpdateStatus(ctx context.Context, id string, status constant.ReminderStatus, sentAt time.Time) error
}
