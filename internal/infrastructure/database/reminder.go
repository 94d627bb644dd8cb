package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nlreminder/internal/domain/constant"
	"nlreminder/internal/domain/entity"
	"nlreminder/internal/domain/repository"
	appErrors "nlreminder/internal/pkg/errors"

	"gorm.io/gorm"
)

type reminderRepository struct {
	db *gorm.DB
}

// NewReminderRepository creates a new instance of ReminderRepository.
func NewReminderRepository(db *gorm.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

// Create persists a new reminder record.
func (r *reminderRepository) Create(ctx context.Context, reminder *entity.Reminder) error {
	reminder.DueAt = reminder.DueAt.UTC()
	reminder.CreatedAt = reminder.CreatedAt.UTC()
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("%w: create reminder %s for user %s: %v", appErrors.ErrDatabaseOperation, reminder.ID, reminder.UserID, err)
	}
	return nil
}

// FindByID retrieves a reminder by its ID.
func (r *reminderRepository) FindByID(ctx context.Context, id string) (*entity.Reminder, error) {
	var reminder entity.Reminder
	if err := r.db.WithContext(ctx).Where("reminder_id = ?", id).First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", appErrors.ErrReminderNotFound, id)
		}
		return nil, fmt.Errorf("%w: find reminder %s: %v", appErrors.ErrDatabaseOperation, id, err)
	}
	return &reminder, nil
}

// FindByStatusAndDueRange retrieves reminders with status and due_at in [start, end).
func (r *reminderRepository) FindByStatusAndDueRange(ctx context.Context, status constant.ReminderStatus, start, end time.Time) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_at >= ? AND due_at < ?", status, start.UTC(), end.UTC()).
		Order("due_at asc").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find %s reminders due in [%s, %s): %v", appErrors.ErrDatabaseOperation, status, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339), err)
	}
	return reminders, nil
}

// FindPendingByUserID retrieves the undelivered reminders of a user.
func (r *reminderRepository) FindPendingByUserID(ctx context.Context, userID string) ([]*entity.Reminder, error) {
	var reminders []*entity.Reminder
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, constant.StatusPending).
		Order("due_at asc").
		Find(&reminders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: find pending reminders for user %s: %v", appErrors.ErrDatabaseOperation, userID, err)
	}
	return reminders, nil
}

// UpdateStatus transitions a pending reminder to sent.
// The update is conditional on status = pending, so sent_at is written at most once.
func (r *reminderRepository) UpdateStatus(ctx context.Context, id string, status constant.ReminderStatus, sentAt time.Time) error {
	if status != constant.StatusSent {
		return fmt.Errorf("%w: %s -> %s", appErrors.ErrInvalidStatusTransition, constant.StatusPending, status)
	}

	result := r.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("reminder_id = ? AND status = ?", id, constant.StatusPending).
		Updates(map[string]any{
			"status":  status,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("%w: update reminder %s: %v", appErrors.ErrDatabaseOperation, id, result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing changed: either the id is unknown or another invocation won.
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", appErrors.ErrAlreadySent, id)
}
